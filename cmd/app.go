package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"restaurant/cache"
	"restaurant/config"
	"restaurant/dataservice"
	"restaurant/migration"
	"restaurant/store"
	"restaurant/utils"
)

// app is everything a command needs, built once from the configuration.
type app struct {
	cfg      *config.Config
	log      *slog.Logger
	svc      *dataservice.Service
	migrator *migration.Migrator
	location *time.Location

	client   *mongo.Client
	closeLog func() error
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger, closeLog, err := config.SetupLogging(cfg)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, log: logger, closeLog: closeLog}

	a.location, err = cfg.Location()
	if err != nil {
		a.close(ctx)
		return nil, fmt.Errorf("timezone %q: %w", cfg.Timezone, err)
	}

	var remote store.Backend
	if cfg.UsesMongo() {
		a.client, err = config.ConnectDatabase(ctx, cfg.MongoURI, cfg.MongoTimeout)
		if err != nil {
			// the local files keep the service running
			logger.Warn("MongoDB unavailable, serving from local files", "error", err)
		} else {
			transactions := config.UseTransactions(ctx, cfg.MongoTransactions, a.client, cfg.MongoTimeout)
			remote = store.NewMongoBackend(a.client.Database(cfg.MongoDatabase), cfg.MongoTimeout, transactions)
		}
	}
	local := store.NewJSONFileBackend(cfg.DataDir, store.Layout, logger)
	sel := store.NewSelector(remote, local, store.SelectorConfig{
		PreferRemote: cfg.PreferRemote,
		LocalOnly:    cfg.LocalOnly(),
	}, logger)

	opts := []dataservice.Option{dataservice.WithLocation(a.location)}
	if cfg.MailEnabled() {
		opts = append(opts, dataservice.WithAlerter(utils.NewMailer(cfg.SMTP(), cfg.AlertEmail)))
	}
	a.svc = dataservice.New(sel, cache.New(cache.WithCapacity(cfg.CacheCapacity)), logger, opts...)
	a.migrator = migration.New(a.svc, a.svc, logger,
		migration.WithThreshold(cfg.MigrationThreshold),
		migration.WithMaxAge(cfg.MigrationReportMaxAge))
	return a, nil
}

func (a *app) close(ctx context.Context) {
	var errs []error
	if a.client != nil {
		errs = append(errs, a.client.Disconnect(ctx))
	}
	if a.closeLog != nil {
		errs = append(errs, a.closeLog())
	}
	if err := errors.Join(errs...); err != nil {
		slog.Error("shutdown", "error", err)
	}
}
