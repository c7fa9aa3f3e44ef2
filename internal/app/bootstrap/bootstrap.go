package bootstrap

import (
	"context"

	"github.com/getsentry/sentry-go"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"predictive/app/internal/data/database"
	"predictive/app/internal/data/definition"
	"predictive/app/internal/data/fragment"
	"predictive/app/internal/data/migrations"
	"predictive/app/internal/domain/page"
	"predictive/app/internal/infrastructure/include"
	"predictive/app/internal/platform/config"
	applog "predictive/app/internal/platform/log"
	presentationhttp "predictive/app/internal/presentation/http"
)

type Dependencies struct {
	Config    config.Config
	Logger    *logrus.Logger
	SentryHub *sentry.Hub
}

type Result struct {
	PageService page.Service
	HTTPServer  *presentationhttp.Server
	// Database is nil unless the database include source is selected.
	Database *gorm.DB
	Cleanup  func() error
}

// Build composes the page server layers and returns the constructed components.
func Build(ctx context.Context, deps Dependencies) (Result, error) {
	cfg := deps.Config

	def, err := definition.Load(cfg.PageFile)
	if err != nil {
		return Result{}, eris.Wrap(err, "loading page definition")
	}

	policy, err := page.ParseFailurePolicy(cfg.Include.FailurePolicy)
	if err != nil {
		return Result{}, eris.Wrap(err, "parsing include failure policy")
	}

	provider, db, err := buildProvider(ctx, deps)
	if err != nil {
		return Result{}, err
	}

	closeDB := func() error {
		return database.Close(db)
	}

	closeOnError := func(wrapper error) (Result, error) {
		if closeErr := closeDB(); closeErr != nil && deps.Logger != nil {
			deps.Logger.WithError(closeErr).Error("closing database after bootstrap failure")
		}
		return Result{}, wrapper
	}

	pageService, err := page.NewService(page.ServiceOptions{
		Definition: def,
		Provider:   provider,
		Policy:     policy,
		Logger:     deps.Logger,
		SentryHub:  deps.SentryHub,
	})
	if err != nil {
		return closeOnError(eris.Wrap(err, "creating page service"))
	}

	httpServer, err := presentationhttp.NewServer(presentationhttp.Options{
		PageService:   pageService,
		Logger:        deps.Logger,
		SentryHub:     deps.SentryHub,
		IncludeSource: cfg.Include.Source,
		RateLimiter: presentationhttp.RateLimiterSettings{
			Burst:             cfg.RateLimit.Burst,
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			ClientTTL:         cfg.RateLimit.ClientTTL,
		},
	})
	if err != nil {
		return closeOnError(eris.Wrap(err, "initialising http server"))
	}

	cleanup := func() error {
		httpServer.Close()
		return closeDB()
	}

	applog.Component(deps.Logger, "bootstrap").WithFields(logrus.Fields{
		"include_source": cfg.Include.Source,
		"include_policy": string(policy),
		"fragment":       def.Fragment,
	}).Info("page server composed")

	return Result{
		PageService: pageService,
		HTTPServer:  httpServer,
		Database:    db,
		Cleanup:     cleanup,
	}, nil
}

func buildProvider(ctx context.Context, deps Dependencies) (page.FragmentProvider, *gorm.DB, error) {
	cfg := deps.Config

	files, err := include.NewFileProvider(cfg.Include.Dir, deps.Logger)
	if err != nil {
		return nil, nil, eris.Wrap(err, "creating file fragment provider")
	}

	if cfg.Include.Source != config.IncludeSourceDatabase {
		return files, nil, nil
	}

	db, err := database.Open(database.Options{Path: cfg.DBPath, CreateDir: true})
	if err != nil {
		return nil, nil, eris.Wrap(err, "opening database")
	}

	fail := func(wrapper error) (page.FragmentProvider, *gorm.DB, error) {
		if closeErr := database.Close(db); closeErr != nil && deps.Logger != nil {
			deps.Logger.WithError(closeErr).Error("closing database after bootstrap failure")
		}
		return nil, nil, wrapper
	}

	if err := migrations.MigrateFragments(ctx, db, deps.Logger); err != nil {
		return fail(eris.Wrap(err, "running fragment migrations"))
	}

	repo, err := fragment.NewRepository(db, deps.Logger)
	if err != nil {
		return fail(eris.Wrap(err, "creating fragment repository"))
	}

	// The directory is optional in database mode; seed from it when present.
	if files.Ping(ctx) == nil {
		if _, err := fragment.Seed(ctx, repo, files, deps.Logger); err != nil {
			return fail(eris.Wrap(err, "seeding fragments"))
		}
	}

	return repo, db, nil
}
