package cli

import (
	"bufio"
	"context"
	"io"
	"os"
	"sync"

	"github.com/dmitrijs2005/studyshare/internal/client/hooks"
	"github.com/dmitrijs2005/studyshare/internal/client/models"
	"github.com/dmitrijs2005/studyshare/internal/client/services"
	"github.com/dmitrijs2005/studyshare/internal/logging"
)

// PushRegistrar registers the device for push notifications after sign in.
type PushRegistrar interface {
	Register(ctx context.Context) (string, error)
}

// Deps are the collaborators an App drives.
type Deps struct {
	Auth        services.AuthService
	Files       services.DocumentFiles
	Hooks       *hooks.Hooks
	Push        PushRegistrar
	Logger      logging.Logger
	DownloadDir string
}

type App struct {
	auth        services.AuthService
	files       services.DocumentFiles
	hooks       *hooks.Hooks
	push        PushRegistrar
	logger      logging.Logger
	downloadDir string

	reader *bufio.Reader
	out    io.Writer

	mu   sync.Mutex
	user *models.User
	list *pager
}

func NewApp(d Deps) *App {
	a := &App{
		auth:        d.Auth,
		files:       d.Files,
		hooks:       d.Hooks,
		push:        d.Push,
		logger:      d.Logger,
		downloadDir: d.DownloadDir,
		reader:      bufio.NewReader(os.Stdin),
		out:         os.Stdout,
	}
	if a.logger == nil {
		a.logger = logging.Nop()
	}
	if a.downloadDir == "" {
		a.downloadDir = "."
	}
	return a
}

// Run restores a saved session and runs the REPL until exit.
func (a *App) Run(ctx context.Context) {
	defer a.unmount()

	a.println("Welcome to StudyShare (type 'help' for commands)")
	ok, err := a.auth.Restore(ctx)
	if err != nil {
		a.logger.Warn(ctx, "restore session", "error", err)
	}
	if ok {
		a.refreshUser(ctx)
		a.registerPush(ctx)
	}

	runREPL(ctx, a, a.status, a.reader)
}

func (a *App) isLoggedIn(ctx context.Context) bool {
	return a.auth.IsAuthenticated(ctx)
}

func (a *App) status(ctx context.Context) string {
	if !a.isLoggedIn(ctx) {
		return "guest"
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.user != nil && a.user.Email != "" {
		return a.user.Email
	}
	return "signed in"
}

func (a *App) setUser(u *models.User) {
	a.mu.Lock()
	a.user = u
	a.mu.Unlock()
}

func (a *App) isAdmin() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.user != nil && a.user.IsAdmin()
}

// refreshUser loads the signed-in profile for the prompt and role checks.
func (a *App) refreshUser(ctx context.Context) {
	u, err := a.hooks.MyProfile().Fetch(ctx)
	if err != nil {
		a.logger.Warn(ctx, "load profile", "error", err)
		return
	}
	a.setUser(&u)
}

func (a *App) registerPush(ctx context.Context) {
	if a.push == nil {
		return
	}
	if _, err := a.push.Register(ctx); err != nil {
		a.logger.Warn(ctx, "push registration failed", "error", err)
	}
}

// signedOut forgets state tied to the previous session.
func (a *App) signedOut() {
	a.setUser(nil)
	a.unmount()
}
