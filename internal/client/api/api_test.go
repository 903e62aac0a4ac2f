package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/dmitrijs2005/studyshare/internal/client/client"
	"github.com/dmitrijs2005/studyshare/internal/client/client/clienttest"
	"github.com/dmitrijs2005/studyshare/internal/client/models"
	"github.com/dmitrijs2005/studyshare/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAPI(t *testing.T) (*API, *clienttest.Requester, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	fake := clienttest.New()
	return New(fake, logging.NewTextLogger(&buf, "debug")), fake, &buf
}

func TestListAccessors_FailClosed(t *testing.T) {
	bodies := map[string]string{
		"null payload":    `{"data":null}`,
		"missing payload": `{}`,
		"object payload":  `{"data":{"items":[1,2]}}`,
		"string payload":  `{"data":"nope"}`,
		"not json":        `<html>`,
		"empty body":      ``,
		"wrong elements":  `{"data":[1,2,3]}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			a, fake, _ := newTestAPI(t)
			ctx := context.Background()
			fake.Reply(http.MethodGet, "/faculties", body)
			fake.Reply(http.MethodGet, "/subjects", body)
			fake.Reply(http.MethodGet, "/documents/faculty/f1", body)
			fake.Reply(http.MethodGet, "/documents/subject/s1", body)
			fake.Reply(http.MethodGet, "/admin/members", body)
			fake.Reply(http.MethodGet, "/admin/documents/pending", body)

			faculties, err := a.Faculties(ctx)
			require.NoError(t, err)
			assert.NotNil(t, faculties)
			assert.Empty(t, faculties)

			subjects, err := a.Subjects(ctx, "")
			require.NoError(t, err)
			assert.Equal(t, []models.Subject{}, subjects)

			docs, err := a.FacultyDocuments(ctx, "f1")
			require.NoError(t, err)
			assert.Equal(t, []models.Document{}, docs)

			docs, err = a.SubjectDocuments(ctx, "s1")
			require.NoError(t, err)
			assert.Equal(t, []models.Document{}, docs)

			users, err := a.AdminUsers(ctx)
			require.NoError(t, err)
			assert.Equal(t, []models.AdminUser{}, users)

			pending, err := a.PendingDocuments(ctx)
			require.NoError(t, err)
			assert.Equal(t, []models.PendingDocument{}, pending)
		})
	}
}

func TestListAccessors_DecodeArray(t *testing.T) {
	a, fake, _ := newTestAPI(t)
	fake.Reply(http.MethodGet, "/faculties", `{"data":[{"id":"f1","name":"Engineering"},{"id":"f2","name":"Law"}]}`)

	got, err := a.Faculties(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.Faculty{{ID: "f1", Name: "Engineering"}, {ID: "f2", Name: "Law"}}, got)
}

func TestAdminStatistics_Defaults(t *testing.T) {
	tests := []struct {
		name string
		body string
		want models.AdminStatistics
	}{
		{name: "null", body: `{"data":null}`, want: models.AdminStatistics{}},
		{name: "missing", body: `{}`, want: models.AdminStatistics{}},
		{name: "empty object", body: `{"data":{}}`, want: models.AdminStatistics{}},
		{name: "partial", body: `{"data":{"totalUsers":50}}`, want: models.AdminStatistics{TotalUsers: 50}},
		{name: "full", body: `{"data":{"totalUsers":50,"pendingDocuments":3}}`, want: models.AdminStatistics{TotalUsers: 50, PendingDocuments: 3}},
		{name: "array", body: `{"data":[1]}`, want: models.AdminStatistics{}},
		{name: "wrong field type", body: `{"data":{"totalUsers":"many"}}`, want: models.AdminStatistics{}},
		{name: "one field mistyped", body: `{"data":{"totalUsers":50,"pendingDocuments":"3"}}`, want: models.AdminStatistics{TotalUsers: 50}},
		{name: "truncated", body: `{"data":{"totalUsers":50,`, want: models.AdminStatistics{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, fake, _ := newTestAPI(t)
			fake.Reply(http.MethodGet, "/admin/statistics", tt.body)

			got, err := a.AdminStatistics(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRecordAccessors_KeepRequestedID(t *testing.T) {
	a, fake, _ := newTestAPI(t)
	ctx := context.Background()
	fake.Reply(http.MethodGet, "/faculties/f1", `{"data":null}`)
	fake.Reply(http.MethodGet, "/users/u1", `{"data":{"fullName":"Ann"}}`)

	info, err := a.FacultyInfo(ctx, "f1")
	require.NoError(t, err)
	assert.Equal(t, models.FacultyInfo{ID: "f1"}, info)

	user, err := a.UserProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "Ann", user.FullName)
}

func TestPagedAccessors(t *testing.T) {
	a, fake, _ := newTestAPI(t)
	ctx := context.Background()
	fake.Reply(http.MethodGet, "/documents", `{"data":{"items":[{"id":"d1"}],"page":"1","totalPages":2}}`)
	fake.Reply(http.MethodGet, "/documents/search", `{"data":null}`)

	page, err := a.Documents(ctx, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, []models.Document{{ID: "d1"}}, page.Items)
	assert.True(t, page.HasNext())

	calls := fake.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "1", calls[0].Query.Get("page"))
	assert.Equal(t, "20", calls[0].Query.Get("limit"))

	empty, err := a.SearchDocuments(ctx, "calculus", 1)
	require.NoError(t, err)
	assert.Equal(t, []models.Document{}, empty.Items)
	assert.False(t, empty.HasNext())
	assert.Equal(t, "calculus", fake.Calls()[1].Query.Get("keyword"))
}

func TestKeywordSuggestions(t *testing.T) {
	t.Run("error resolves to empty and logs", func(t *testing.T) {
		a, fake, buf := newTestAPI(t)
		fake.Fail(http.MethodGet, "/documents/suggestions", http.StatusInternalServerError, "boom")

		got := a.KeywordSuggestions(context.Background(), "calc")
		assert.Equal(t, []string{}, got)
		assert.Contains(t, buf.String(), "Error fetching suggestions keyword:")
	})

	t.Run("success", func(t *testing.T) {
		a, fake, buf := newTestAPI(t)
		fake.Reply(http.MethodGet, "/documents/suggestions", `{"data":["calculus","calculus II"]}`)

		got := a.KeywordSuggestions(context.Background(), "calc")
		assert.Equal(t, []string{"calculus", "calculus II"}, got)
		assert.NotContains(t, buf.String(), "Error fetching")
	})
}

func TestSubjectSuggestions_ErrorResolvesToEmpty(t *testing.T) {
	a, fake, buf := newTestAPI(t)
	fake.Fail(http.MethodGet, "/subjects/suggestions", http.StatusBadGateway, "down")

	got := a.SubjectSuggestions(context.Background(), "alg")
	assert.Equal(t, []models.Subject{}, got)
	assert.Contains(t, buf.String(), "Error fetching suggestions subject:")
}

func TestErrorsPropagate(t *testing.T) {
	a, fake, _ := newTestAPI(t)
	fake.Fail(http.MethodGet, "/faculties", http.StatusForbidden, "no")

	got, err := a.Faculties(context.Background())
	require.Error(t, err)
	assert.Nil(t, got)
	assert.True(t, errors.Is(err, client.ErrForbidden))
}

func TestSetBanStatus_Request(t *testing.T) {
	a, fake, _ := newTestAPI(t)
	fake.Reply(http.MethodPatch, "/admin/members/user-1/ban-status", `{"data":{"id":"user-1","banStatus":"BANNED"}}`)

	got, err := a.SetBanStatus(context.Background(), "user-1", models.BanStatusBanned)
	require.NoError(t, err)
	assert.Equal(t, models.BanStatusBanned, got.BanStatus)

	calls := fake.Calls()
	require.Len(t, calls, 1)
	assert.JSONEq(t, `{"banStatus":"BANNED"}`, string(calls[0].Body))
}

func TestSubscribe_Paths(t *testing.T) {
	a, fake, _ := newTestAPI(t)
	ctx := context.Background()
	fake.Reply(http.MethodPost, "/faculties/f1/subscription", `{"data":{"message":"subscribed"}}`)
	fake.Reply(http.MethodDelete, "/users/u%2F1/subscription", `{}`)

	msg, err := a.Subscribe(ctx, models.TargetFaculty, "f1")
	require.NoError(t, err)
	assert.Equal(t, "subscribed", msg.Message)

	_, err = a.Unsubscribe(ctx, models.TargetUser, "u/1")
	require.NoError(t, err)
}

func TestLogin(t *testing.T) {
	t.Run("token", func(t *testing.T) {
		a, fake, _ := newTestAPI(t)
		fake.Reply(http.MethodPost, "/auth/login", `{"data":{"accessToken":"jwt","user":{"id":"u1","role":"ADMIN"}}}`)

		res, err := a.Login(context.Background(), "a@b.io", "secret123")
		require.NoError(t, err)
		assert.Equal(t, "jwt", res.AccessToken)
		assert.True(t, res.User.IsAdmin())
		assert.JSONEq(t, `{"email":"a@b.io","password":"secret123"}`, string(fake.Calls()[0].Body))
	})

	t.Run("no token", func(t *testing.T) {
		a, fake, _ := newTestAPI(t)
		fake.Reply(http.MethodPost, "/auth/login", `{"data":{}}`)

		_, err := a.Login(context.Background(), "a@b.io", "secret123")
		require.ErrorIs(t, err, ErrMalformedResponse)
	})
}

func TestUploadDocument(t *testing.T) {
	t.Run("creates then puts bytes", func(t *testing.T) {
		a, fake, _ := newTestAPI(t)
		fake.Reply(http.MethodPost, "/documents",
			`{"data":{"document":{"id":"d1","status":"PENDING"},"uploadUrl":"https://s3.local/bucket/d1?sig=x"}}`)

		doc, err := a.UploadDocument(context.Background(), models.NewDocument{
			Title: "Notes", FileName: "notes.pdf", ContentType: "application/pdf", SizeBytes: 5,
		}, strings.NewReader("%PDF-"))
		require.NoError(t, err)
		assert.Equal(t, "d1", doc.ID)
		assert.Equal(t, models.DocumentStatusPending, doc.Status)

		ups := fake.Uploads()
		require.Len(t, ups, 1)
		assert.Equal(t, "https://s3.local/bucket/d1?sig=x", ups[0].URL)
		assert.Equal(t, "application/pdf", ups[0].ContentType)
		assert.Equal(t, "%PDF-", string(ups[0].Data))
	})

	t.Run("missing url", func(t *testing.T) {
		a, fake, _ := newTestAPI(t)
		fake.Reply(http.MethodPost, "/documents", `{"data":{"document":{"id":"d1"}}}`)

		_, err := a.UploadDocument(context.Background(), models.NewDocument{}, strings.NewReader(""))
		require.ErrorIs(t, err, ErrMalformedResponse)
		assert.Empty(t, fake.Uploads())
	})

	t.Run("put fails", func(t *testing.T) {
		a, fake, _ := newTestAPI(t)
		fake.Reply(http.MethodPost, "/documents", `{"data":{"uploadUrl":"https://s3.local/x"}}`)
		fake.UploadErr = client.ErrUnavailable

		_, err := a.UploadDocument(context.Background(), models.NewDocument{}, strings.NewReader("x"))
		require.ErrorIs(t, err, client.ErrUnavailable)
		assert.Equal(t, "application/octet-stream", fake.Uploads()[0].ContentType)
	})
}

func TestMarkNotificationRead_DefaultsToRead(t *testing.T) {
	a, fake, _ := newTestAPI(t)
	fake.Reply(http.MethodPatch, "/notifications/n1/read", `{}`)

	got, err := a.MarkNotificationRead(context.Background(), "n1")
	require.NoError(t, err)
	assert.Equal(t, models.Notification{ID: "n1", IsRead: true}, got)
}
