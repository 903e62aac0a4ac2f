package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dmitrijs2005/studyshare/internal/common"
	"github.com/dmitrijs2005/studyshare/internal/logging"
	"github.com/dmitrijs2005/studyshare/internal/server/models"
	"github.com/dmitrijs2005/studyshare/internal/server/services"
	"github.com/stretchr/testify/require"
)

const (
	userToken    = "user-token"
	adminToken   = "admin-token"
	bannedToken  = "banned-token"
	expiredToken = "expired-token"

	someID = "0b6f3c2e-8a1d-4b7e-9c55-2f1d3e4a5b6c"
)

var (
	testUser  = &models.Member{ID: "7d9e1c3a-1111-4a2b-8c3d-000000000001", FullName: "User", Role: models.RoleUser}
	testAdmin = &models.Member{ID: "7d9e1c3a-1111-4a2b-8c3d-000000000002", FullName: "Admin", Role: models.RoleAdmin}
)

// Stubs embed the interface they implement; calling a method a test did not
// override panics, which the access log turns into a 500.

type stubMembers struct {
	MemberService
	signupErr  error
	loginRes   *services.AuthResult
	loginErr   error
	lastSignup services.SignupInput
	loggedOut  string
	profile    func(id, viewer string) (*models.MemberProfile, error)
}

func (s *stubMembers) Authenticate(_ context.Context, token string) (*models.Member, error) {
	switch token {
	case userToken:
		return testUser, nil
	case adminToken:
		return testAdmin, nil
	case bannedToken:
		return nil, services.ErrBanned
	case expiredToken:
		return nil, common.ErrTokenExpired
	}
	return nil, common.ErrInvalidToken
}

func (s *stubMembers) Signup(_ context.Context, in services.SignupInput) error {
	s.lastSignup = in
	return s.signupErr
}

func (s *stubMembers) Login(context.Context, string, string) (*services.AuthResult, error) {
	return s.loginRes, s.loginErr
}

func (s *stubMembers) VerifyResetCode(_ context.Context, _, code string) (string, error) {
	if code != "123456" {
		return "", services.ErrInvalidOTP
	}
	return "reset-token", nil
}

func (s *stubMembers) Logout(_ context.Context, token string) error {
	s.loggedOut = token
	return nil
}

func (s *stubMembers) Profile(_ context.Context, id, viewer string) (*models.MemberProfile, error) {
	return s.profile(id, viewer)
}

type stubDocuments struct {
	DocumentService
	page      models.Page[models.Document]
	listArgs  [2]int
	created   models.NewDocument
	uploader  *models.Member
	deleteErr error
}

func (s *stubDocuments) List(_ context.Context, page, limit int) (models.Page[models.Document], error) {
	s.listArgs = [2]int{page, limit}
	return s.page, nil
}

func (s *stubDocuments) Search(_ context.Context, keyword string, _, _ int) (models.Page[models.Document], error) {
	if keyword == "" {
		return models.Page[models.Document]{}, &services.ValidationError{Message: "Keyword is required"}
	}
	return s.page, nil
}

func (s *stubDocuments) Suggestions(context.Context, string) ([]string, error) {
	return []string{"Algebra notes"}, nil
}

func (s *stubDocuments) Get(_ context.Context, id string) (*models.Document, error) {
	if id != someID {
		return nil, common.ErrorNotFound
	}
	return &models.Document{ID: id, Title: "Notes", Status: models.DocumentActive}, nil
}

func (s *stubDocuments) Create(_ context.Context, uploader *models.Member, in models.NewDocument) (*models.UploadTicket, error) {
	s.uploader, s.created = uploader, in
	return &models.UploadTicket{Document: &models.Document{ID: someID, Title: in.Title}, UploadURL: "http://s3/put"}, nil
}

func (s *stubDocuments) Delete(context.Context, *models.Member, string) error {
	return s.deleteErr
}

type stubCatalog struct {
	CatalogService
	viewer string
}

func (s *stubCatalog) Faculties(context.Context) ([]models.Faculty, error) {
	return nil, errBoom
}

func (s *stubCatalog) FacultyInfo(_ context.Context, id, viewer string) (*models.FacultyInfo, error) {
	s.viewer = viewer
	return &models.FacultyInfo{Faculty: models.Faculty{ID: id, Name: "CS"}, IsSubscribed: viewer != ""}, nil
}

func (s *stubCatalog) Subjects(context.Context, string, string) ([]models.Subject, error) {
	return []models.Subject{{ID: someID, Name: "Algorithms"}}, nil
}

type stubSubscriptions struct {
	SubscriptionService
	follower *models.Member
	target   models.Target
}

func (s *stubSubscriptions) Subscribe(_ context.Context, follower *models.Member, t models.Target) error {
	s.follower, s.target = follower, t
	return nil
}

type stubNotifications struct {
	NotificationService
	device models.DeviceToken
}

func (s *stubNotifications) RegisterDevice(_ context.Context, _ string, tok models.DeviceToken) error {
	s.device = tok
	return nil
}

type stubAdmin struct {
	AdminService
	status models.DocumentStatus
}

func (s *stubAdmin) Statistics(context.Context) (*models.AdminStatistics, error) {
	return &models.AdminStatistics{TotalUsers: 3, PendingDocuments: 1}, nil
}

func (s *stubAdmin) SetDocumentStatus(_ context.Context, id string, status models.DocumentStatus) (*models.Document, error) {
	s.status = status
	return &models.Document{ID: id, Status: status}, nil
}

type errString string

func (e errString) Error() string { return string(e) }

const errBoom = errString("boom")

type testAPI struct {
	members       *stubMembers
	documents     *stubDocuments
	catalog       *stubCatalog
	subscriptions *stubSubscriptions
	notifications *stubNotifications
	admin         *stubAdmin
	handler       http.Handler
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	a := &testAPI{
		members:       &stubMembers{},
		documents:     &stubDocuments{},
		catalog:       &stubCatalog{},
		subscriptions: &stubSubscriptions{},
		notifications: &stubNotifications{},
		admin:         &stubAdmin{},
	}
	h := NewHandler(Services{
		Members:       a.members,
		Documents:     a.documents,
		Catalog:       a.catalog,
		Subscriptions: a.subscriptions,
		Notifications: a.notifications,
		Admin:         a.admin,
	}, logging.Nop())
	a.handler = NewRouter(h)
	return a
}

// do sends a request and returns the recorder. body may be "".
func (a *testAPI) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var e errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e), rec.Body.String())
	return e
}
