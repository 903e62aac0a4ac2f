// Package server wires the backend together: Postgres repositories, the
// Redis code store, the S3 presigner, the services and the HTTP API. It
// runs the API until the process is signalled.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/studyshare/internal/logging"
	"github.com/dmitrijs2005/studyshare/internal/server/config"
	"github.com/dmitrijs2005/studyshare/internal/server/httpapi"
	"github.com/dmitrijs2005/studyshare/internal/server/otp"
	"github.com/dmitrijs2005/studyshare/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/studyshare/internal/server/services"
	"github.com/dmitrijs2005/studyshare/internal/server/storage"
	"github.com/redis/go-redis/v9"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	rdb     *redis.Client
	handler http.Handler
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	rdb := otp.NewClient(otp.Config{Addr: c.RedisAddr, Password: c.RedisPassword, DB: c.RedisDB})
	codes := otp.NewRedisStore(rdb, logger.With("module", "otp"))
	if err := codes.Ping(ctx); err != nil {
		db.Close()
		rdb.Close()
		return nil, fmt.Errorf("redis ping error: %w", err)
	}

	presigner, err := storage.NewS3Presigner(ctx, storage.Config{
		Region:       c.S3Region,
		AccessKey:    c.S3RootUser,
		SecretKey:    c.S3RootPassword,
		BaseEndpoint: c.S3BaseEndpoint,
		Bucket:       c.S3Bucket,
		TTL:          c.PresignTTL,
	})
	if err != nil {
		db.Close()
		rdb.Close()
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	handler := newHandler(db, rm, codes, presigner, c, logger)
	return &App{config: c, logger: logger, db: db, rdb: rdb, handler: handler}, nil
}

func newHandler(db *sql.DB, rm repomanager.RepositoryManager, codes services.CodeStore, p services.Presigner,
	c *config.Config, logger logging.Logger) http.Handler {
	ns := services.NewNotificationService(db, rm, services.LogPushSender{Logger: logger}, logger.With("module", "notifications"))

	return httpapi.NewRouter(httpapi.NewHandler(httpapi.Services{
		Members:       services.NewMemberService(db, rm, codes, services.LogCodeSender{Logger: logger}, c, logger.With("module", "members")),
		Documents:     services.NewDocumentService(db, rm, p, logger.With("module", "documents")),
		Catalog:       services.NewCatalogService(db, rm),
		Subscriptions: services.NewSubscriptionService(db, rm, ns),
		Notifications: ns,
		Admin:         services.NewAdminService(db, rm, ns, logger.With("module", "admin")),
	}, logger))
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves the API until ctx is done or a termination signal arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(cancelFunc)

	s := httpapi.NewServer(app.config.EndpointAddr, app.handler, app.logger)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, "http server failed", "error", err)
		return err
	}
	app.logger.Info(ctx, "App stopped")
	return nil
}

func (app *App) Close() error {
	return errors.Join(app.db.Close(), app.rdb.Close())
}
