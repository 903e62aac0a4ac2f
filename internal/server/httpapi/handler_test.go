package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/dmitrijs2005/studyshare/internal/common"
	"github.com/dmitrijs2005/studyshare/internal/server/models"
	"github.com/dmitrijs2005/studyshare/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter_UnknownRoutes(t *testing.T) {
	a := newTestAPI(t)

	tests := []struct {
		method, path string
		status       int
	}{
		{"GET", "/api/nope", http.StatusNotFound},
		{"GET", "/api/documents/not-a-uuid", http.StatusNotFound},
		{"GET", "/api/widgets/" + someID + "/subscription", http.StatusNotFound},
		{"PUT", "/api/faculties", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := a.do(t, tt.method, tt.path, "", "")
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.status, decodeError(t, rec).StatusCode)
		})
	}
}

func TestRouter_RequestID(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, "GET", "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, rec.Header().Get(headerRequestID), 36)

	req := newRequest("GET", "/health")
	req.Header.Set(headerRequestID, "abc-123")
	rec = serve(a, req)
	assert.Equal(t, "abc-123", rec.Header().Get(headerRequestID))
}

func TestAuth_Login(t *testing.T) {
	a := newTestAPI(t)
	a.members.loginRes = &services.AuthResult{
		AccessToken: "jwt",
		User:        &models.MemberProfile{Member: models.Member{ID: testUser.ID, FullName: "User", PasswordHash: "secret"}},
	}

	rec := a.do(t, "POST", "/api/auth/login", "", `{"email":"a@b.io","password":"password1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret")

	var body struct {
		Data struct {
			AccessToken string `json:"accessToken"`
			User        struct {
				ID string `json:"id"`
			} `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "jwt", body.Data.AccessToken)
	assert.Equal(t, testUser.ID, body.Data.User.ID)

	a.members.loginErr = services.ErrInvalidCredentials
	rec = a.do(t, "POST", "/api/auth/login", "", `{"email":"a@b.io","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, errorBody{Message: "Invalid email or password", StatusCode: 401}, decodeError(t, rec))
}

func TestAuth_Signup(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, "POST", "/api/auth/signup", "", `{"email":"a@b.io","password":"password1","fullName":"Ann"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"data":{"message":"Check your email for the verification code"}}`, rec.Body.String())
	assert.Equal(t, services.SignupInput{Email: "a@b.io", Password: "password1", FullName: "Ann"}, a.members.lastSignup)

	rec = a.do(t, "POST", "/api/auth/signup", "", `{"email":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body", decodeError(t, rec).Message)

	a.members.signupErr = &services.ValidationError{Message: "Email is invalid"}
	rec = a.do(t, "POST", "/api/auth/signup", "", `{"email":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email is invalid", decodeError(t, rec).Message)

	a.members.signupErr = services.ErrEmailTaken
	rec = a.do(t, "POST", "/api/auth/signup", "", `{"email":"a@b.io"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAuth_VerifyResetOTP(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, "POST", "/api/auth/verify-reset-otp", "", `{"email":"a@b.io","otp":"123456"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"resetToken":"reset-token"}}`, rec.Body.String())

	rec = a.do(t, "POST", "/api/auth/verify-reset-otp", "", `{"email":"a@b.io","otp":"000000"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuth_Logout(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, "POST", "/api/auth/logout", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = a.do(t, "POST", "/api/auth/logout", userToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userToken, a.members.loggedOut)
}

func TestRequireAuth(t *testing.T) {
	a := newTestAPI(t)

	tests := []struct {
		token  string
		status int
		msg    string
	}{
		{"", http.StatusUnauthorized, "Unauthorized"},
		{"garbage", http.StatusUnauthorized, "Unauthorized"},
		{expiredToken, http.StatusUnauthorized, "Token expired"},
		{bannedToken, http.StatusForbidden, "Your account has been banned"},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			rec := a.do(t, "POST", "/api/notifications/fcm-token", tt.token, `{"token":"t"}`)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.msg, decodeError(t, rec).Message)
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, "GET", "/api/admin/statistics", userToken, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = a.do(t, "GET", "/api/admin/statistics", adminToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"totalUsers":3,"pendingDocuments":1}}`, rec.Body.String())

	rec = a.do(t, "PATCH", "/api/admin/document/"+someID+"/status", adminToken, `{"status":"ACTIVE"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.DocumentActive, a.admin.status)
}

func TestDocuments_ListAndSearch(t *testing.T) {
	a := newTestAPI(t)
	a.documents.page = models.NewPage([]models.Document{{ID: someID, Title: "Notes"}}, models.PageRequest{Page: 2, Limit: 5}, 6)

	rec := a.do(t, "GET", "/api/documents?page=2&limit=5", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, [2]int{2, 5}, a.documents.listArgs)

	var body struct {
		Data struct {
			Items      []models.Document `json:"items"`
			Page       string            `json:"page"`
			TotalPages int               `json:"totalPages"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "2", body.Data.Page)
	assert.Equal(t, 2, body.Data.TotalPages)
	require.Len(t, body.Data.Items, 1)

	rec = a.do(t, "GET", "/api/documents?page=x", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, [2]int{0, 0}, a.documents.listArgs)

	rec = a.do(t, "GET", "/api/documents/search?keyword=", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Keyword is required", decodeError(t, rec).Message)

	rec = a.do(t, "GET", "/api/documents/suggestions?keyword=alg", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":["Algebra notes"]}`, rec.Body.String())
}

func TestDocuments_GetCreateDelete(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, "GET", "/api/documents/"+someID, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"title":"Notes"`)

	rec = a.do(t, "GET", "/api/documents/11111111-2222-3333-4444-555555555555", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = a.do(t, "POST", "/api/documents", "", `{"title":"x"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = a.do(t, "POST", "/api/documents", userToken, `{"title":"Graphs","fileName":"g.pdf"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, testUser, a.documents.uploader)
	assert.Equal(t, "g.pdf", a.documents.created.FileName)
	assert.Contains(t, rec.Body.String(), `"uploadUrl":"http://s3/put"`)

	a.documents.deleteErr = common.ErrorForbidden
	rec = a.do(t, "DELETE", "/api/documents/"+someID, userToken, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	a.documents.deleteErr = nil
	rec = a.do(t, "DELETE", "/api/documents/"+someID, userToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"message":"Document deleted"}}`, rec.Body.String())
}

func TestCatalog_OptionalAuth(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, "GET", "/api/faculties/"+someID, userToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, testUser.ID, a.catalog.viewer)
	assert.Contains(t, rec.Body.String(), `"isSubscribed":true`)

	rec = a.do(t, "GET", "/api/faculties/"+someID, "garbage", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "", a.catalog.viewer)

	rec = a.do(t, "GET", "/api/subjects?facultyId=bad", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":[]}`, rec.Body.String())

	rec = a.do(t, "GET", "/api/subjects?facultyId="+someID, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Algorithms")
}

func TestCatalog_InternalError(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, "GET", "/api/faculties", "", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, errorBody{Message: "Internal server error", StatusCode: 500}, decodeError(t, rec))
}

func TestSubscriptions_TargetFromPath(t *testing.T) {
	tests := []struct {
		segment string
		want    models.TargetType
	}{
		{"faculties", models.TargetFaculty},
		{"subjects", models.TargetSubject},
		{"users", models.TargetMember},
	}
	for _, tt := range tests {
		t.Run(tt.segment, func(t *testing.T) {
			a := newTestAPI(t)
			rec := a.do(t, "POST", fmt.Sprintf("/api/%s/%s/subscription", tt.segment, someID), userToken, "")
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, models.Target{Type: tt.want, ID: someID}, a.subscriptions.target)
			assert.Equal(t, testUser, a.subscriptions.follower)
		})
	}
}

func TestNotifications_RegisterDevice(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, "POST", "/api/notifications/fcm-token", userToken, `{"token":"abc","platform":"android"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.DeviceToken{Token: "abc", Platform: "android"}, a.notifications.device)
}

func TestUsers_Profile(t *testing.T) {
	a := newTestAPI(t)
	a.members.profile = func(id, viewer string) (*models.MemberProfile, error) {
		if id != testUser.ID && id != someID {
			return nil, common.ErrorNotFound
		}
		return &models.MemberProfile{Member: models.Member{ID: id}, IsSubscribed: viewer != ""}, nil
	}

	rec := a.do(t, "GET", "/api/users/me", userToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), testUser.ID)

	rec = a.do(t, "GET", "/api/users/"+someID, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"isSubscribed":false`)

	rec = a.do(t, "GET", "/api/users/11111111-2222-3333-4444-555555555555", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAccessLog_RecoversPanics(t *testing.T) {
	a := newTestAPI(t)

	// The stub does not implement Download, so the handler panics.
	rec := a.do(t, "GET", "/api/documents/"+someID+"/download", userToken, "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestMapError(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{&services.ValidationError{Message: "bad"}, http.StatusBadRequest},
		{fmt.Errorf("wrap: %w", services.ErrInvalidOTP), http.StatusBadRequest},
		{services.ErrInvalidResetToken, http.StatusBadRequest},
		{common.ErrTokenExpired, http.StatusUnauthorized},
		{common.ErrInvalidToken, http.StatusUnauthorized},
		{common.ErrorUnauthorized, http.StatusUnauthorized},
		{services.ErrNotVerified, http.StatusForbidden},
		{common.ErrorForbidden, http.StatusForbidden},
		{fmt.Errorf("db: %w", common.ErrorNotFound), http.StatusNotFound},
		{common.ErrorAlreadyExists, http.StatusConflict},
		{errBoom, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		status, msg := mapError(tt.err)
		assert.Equal(t, tt.status, status, tt.err.Error())
		assert.NotEmpty(t, msg)
	}
}
