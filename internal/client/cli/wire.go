package cli

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/studyshare/internal/client/api"
	"github.com/dmitrijs2005/studyshare/internal/client/client"
	"github.com/dmitrijs2005/studyshare/internal/client/config"
	"github.com/dmitrijs2005/studyshare/internal/client/hooks"
	"github.com/dmitrijs2005/studyshare/internal/client/push"
	"github.com/dmitrijs2005/studyshare/internal/client/query"
	"github.com/dmitrijs2005/studyshare/internal/client/services"
	"github.com/dmitrijs2005/studyshare/internal/filex"
	"github.com/dmitrijs2005/studyshare/internal/logging"
)

const gcInterval = time.Minute

// Bootstrap opens local storage and wires the HTTP client, query cache and
// services into an App. The returned func releases what Bootstrap opened;
// the cache GC stops with ctx.
func Bootstrap(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, func() error, error) {
	db, err := client.InitDatabase(ctx, cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("error initializing database: %w", err)
	}

	dir, err := filex.EnsureDir(cfg.DownloadDir)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	session := services.NewSession(db)
	hc, err := client.NewHTTPClient(cfg.APIBaseURL,
		client.WithTimeout(cfg.RequestTimeout),
		client.WithTokenSource(session),
		client.WithLogger(logger),
	)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	resources := api.New(hc, logger)
	cache := query.NewCache(query.Options{StaleTime: cfg.StaleTime, GCTime: cfg.GCTime, Logger: logger})
	go cache.RunGC(ctx, gcInterval)

	h := hooks.New(resources, cache)
	auth := services.NewAuthService(resources, session, cache, logger)
	registrar := push.NewRegistrar(cfg.Platform,
		push.DeviceIDProvider{ID: session.DeviceID},
		push.LogChannels{Logger: logger},
		resources,
		logger,
	)

	app := NewApp(Deps{
		Auth:        auth,
		Files:       services.NewDocumentFiles(h, &http.Client{}),
		Hooks:       h,
		Push:        registrar,
		Logger:      logger,
		DownloadDir: dir,
	})

	hc.OnUnauthorized(func(ctx context.Context) {
		if err := auth.ClearLocal(ctx); err != nil {
			logger.Error(ctx, "clear session", "error", err)
		}
		app.signedOut()
		app.println("\nYour session has expired. Please log in again.")
	})

	return app, db.Close, nil
}
