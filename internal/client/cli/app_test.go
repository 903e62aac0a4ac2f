package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strconv"
	"strings"
	"testing"

	"github.com/dmitrijs2005/studyshare/internal/client/api"
	"github.com/dmitrijs2005/studyshare/internal/client/client/clienttest"
	"github.com/dmitrijs2005/studyshare/internal/client/hooks"
	"github.com/dmitrijs2005/studyshare/internal/client/models"
	"github.com/dmitrijs2005/studyshare/internal/client/query"
	"github.com/dmitrijs2005/studyshare/internal/client/services"
)

type fakeAuth struct {
	loggedIn bool
	restored bool
	user     models.User
	err      error
	calls    []string
	args     []string
}

func (f *fakeAuth) record(name string, args ...string) {
	f.calls = append(f.calls, name)
	f.args = append(f.args, args...)
}

func (f *fakeAuth) Restore(context.Context) (bool, error) {
	f.record("restore")
	f.loggedIn = f.restored
	return f.restored, nil
}

func (f *fakeAuth) IsAuthenticated(context.Context) bool { return f.loggedIn }

func (f *fakeAuth) Login(_ context.Context, email, password string) (models.User, error) {
	f.record("login", email, password)
	if f.err != nil {
		return models.User{}, f.err
	}
	f.loggedIn = true
	return f.user, nil
}

func (f *fakeAuth) Signup(_ context.Context, fullName, email, password, confirm string) (models.Message, error) {
	f.record("signup", fullName, email, password, confirm)
	return models.Message{Message: "Check your inbox"}, f.err
}

func (f *fakeAuth) VerifySignupOTP(_ context.Context, otp string) (models.User, error) {
	f.record("verify", otp)
	if f.err != nil {
		return models.User{}, f.err
	}
	f.loggedIn = true
	return f.user, nil
}

func (f *fakeAuth) ResendOTP(context.Context) (models.Message, error) {
	f.record("resend")
	return models.Message{}, f.err
}

func (f *fakeAuth) ForgotPassword(_ context.Context, email string) (models.Message, error) {
	f.record("forgot", email)
	return models.Message{}, f.err
}

func (f *fakeAuth) VerifyResetOTP(_ context.Context, otp string) error {
	f.record("verify-reset", otp)
	return f.err
}

func (f *fakeAuth) ResetPassword(_ context.Context, password, confirm string) (models.Message, error) {
	f.record("reset", password, confirm)
	return models.Message{Message: "Password changed"}, f.err
}

func (f *fakeAuth) Logout(context.Context) error {
	f.record("logout")
	if !f.loggedIn {
		return services.ErrNotLoggedIn
	}
	f.loggedIn = false
	return nil
}

func (f *fakeAuth) ClearLocal(context.Context) error {
	f.loggedIn = false
	return nil
}

type fakeFiles struct {
	uploadPath string
	uploadMeta models.NewDocument
	downloadID string
	err        error
}

func (f *fakeFiles) Upload(_ context.Context, path string, meta models.NewDocument) (models.Document, error) {
	f.uploadPath, f.uploadMeta = path, meta
	if f.err != nil {
		return models.Document{}, f.err
	}
	return models.Document{ID: "doc-9", Title: meta.Title}, nil
}

func (f *fakeFiles) Download(_ context.Context, id, dir string) (string, error) {
	f.downloadID = id
	if f.err != nil {
		return "", f.err
	}
	return dir + "/notes.pdf", nil
}

type fakePush struct{ calls int }

func (p *fakePush) Register(context.Context) (string, error) {
	p.calls++
	return "device-1", nil
}

type fixture struct {
	app   *App
	api   *clienttest.Requester
	auth  *fakeAuth
	files *fakeFiles
	push  *fakePush
	out   *bytes.Buffer
}

func newFixture(t *testing.T, loggedIn bool) *fixture {
	t.Helper()
	f := &fixture{
		api:   clienttest.New(),
		auth:  &fakeAuth{loggedIn: loggedIn, user: models.User{ID: "u1", Email: "ann@example.com"}},
		files: &fakeFiles{},
		push:  &fakePush{},
		out:   &bytes.Buffer{},
	}
	h := hooks.New(api.New(f.api, nil), query.NewCache(query.Options{}))
	f.app = NewApp(Deps{Auth: f.auth, Files: f.files, Hooks: h, Push: f.push, DownloadDir: "/tmp/dl"})
	f.app.out = f.out
	t.Cleanup(f.app.unmount)
	return f
}

// run feeds lines to the REPL and returns everything it printed.
func (f *fixture) run(lines ...string) string {
	f.app.reader = rdr(strings.Join(lines, "\n") + "\n")
	runREPL(context.Background(), f.app, f.app.status, f.app.reader)
	return f.out.String()
}

func stubPasswords(t *testing.T, pws ...string) {
	t.Helper()
	old := getPassword
	t.Cleanup(func() { getPassword = old })
	getPassword = func(string, io.Writer) (string, error) {
		if len(pws) == 0 {
			return "", errors.New("no password queued")
		}
		pw := pws[0]
		pws = pws[1:]
		return pw, nil
	}
}

// page is a paged envelope; the page number is sent as a string the way
// the server does.
func page(items string, n, total int) string {
	return `{"data":{"items":[` + items + `],"page":"` + strconv.Itoa(n) + `","totalPages":` + strconv.Itoa(total) + `}}`
}
