package app

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/de-tools/sales-atlas/pkg/metrics"
	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/de-tools/sales-atlas/pkg/services/config"
	"github.com/de-tools/sales-atlas/pkg/services/notify"
	"github.com/de-tools/sales-atlas/pkg/services/plan"
	"github.com/de-tools/sales-atlas/pkg/services/report"
	"github.com/de-tools/sales-atlas/pkg/services/schedule"
	"github.com/de-tools/sales-atlas/pkg/store/duckdb"
	duckdbrecipients "github.com/de-tools/sales-atlas/pkg/store/duckdb/recipients"
	"github.com/de-tools/sales-atlas/pkg/store/iiko"
	"github.com/de-tools/sales-atlas/pkg/store/planfile"
	"github.com/de-tools/sales-atlas/pkg/store/recipients"
	"github.com/de-tools/sales-atlas/pkg/store/s3plan"
	"github.com/rs/zerolog"
)

// PlanStore reads and replaces location plan workbooks.
type PlanStore interface {
	report.PlanSource
	SavePlan(ctx context.Context, location string, data []byte) error
}

// App holds the collaborators wired from the application config.
type App struct {
	Config   *config.AppConfig
	Engine   domain.EngineConfig
	Location *time.Location
	Metrics  *metrics.Recorder
	Plans    PlanStore
	Reports  report.Service

	facts report.FactSource

	mu    sync.Mutex
	db    *sql.DB
	store duckdbrecipients.Store
}

// New wires the plan source, the iiko fact source and the report service.
// The recipient database is opened on first use.
func New(ctx context.Context, cfg *config.AppConfig) (*App, error) {
	logger := zerolog.Ctx(ctx)

	loc, err := cfg.Schedule.Location()
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:   cfg,
		Engine:   cfg.EngineConfig(),
		Location: loc,
		Metrics:  metrics.NewRecorder(),
	}

	loader := plan.NewLoader(a.Engine.PlanLayout, plan.WithWarningHook(func(plan.RowWarning) {
		a.Metrics.PlanRowWarning()
	}))

	switch cfg.Plan.Source {
	case config.PlanSourceS3:
		client, err := s3plan.NewClient(ctx, s3plan.Config{
			Bucket:       cfg.Plan.S3.Bucket,
			Prefix:       cfg.Plan.S3.Prefix,
			Profile:      cfg.Plan.S3.Profile,
			Region:       cfg.Plan.S3.Region,
			Endpoint:     cfg.Plan.S3.Endpoint,
			UsePathStyle: cfg.Plan.S3.UsePathStyle,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create s3 client: %w", err)
		}
		a.Plans = s3plan.NewStore(client, cfg.Plan.S3.Bucket, cfg.Plan.S3.Prefix, loader)
	default:
		a.Plans = planfile.NewStore(cfg.Plan.Dir, loader)
	}

	registry, err := config.NewRegistry(cfg.Facts.ProfilesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read iiko profiles from %s: %w", cfg.Facts.ProfilesPath, err)
	}
	creds, err := registry.GetCredentials(ctx, cfg.Facts.Profile)
	if err != nil {
		return nil, err
	}
	a.facts = iiko.NewClient(creds,
		iiko.WithTimeout(cfg.Facts.Timeout),
		iiko.WithRetryMax(cfg.Facts.RetryMax),
		iiko.WithLogger(*logger),
	)

	a.Reports = report.NewService(a.Engine, a.Plans, a.facts,
		report.WithConcurrency(cfg.Engine.Concurrency),
		report.WithMetrics(a.Metrics),
	)

	logger.Info().
		Str("plan_source", cfg.Plan.Source).
		Str("iiko_host", creds.Host).
		Strs("networks", a.Engine.NetworkNames()).
		Msg("application wired")
	return a, nil
}

// RecipientStore opens the recipient database on first use.
func (a *App) RecipientStore() (duckdbrecipients.Store, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.store != nil {
		return a.store, nil
	}

	db, err := duckdb.NewDB(duckdb.Settings{DbPath: a.Config.Recipients.DBPath})
	if err != nil {
		return nil, fmt.Errorf("failed to create DuckDB instance: %w", err)
	}
	store, err := duckdbrecipients.NewStore(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create recipient store: %w", err)
	}

	a.db, a.store = db, store
	return store, nil
}

// InTransaction runs fn in a recipient database transaction.
func (a *App) InTransaction(ctx context.Context, fn func(ctx context.Context, store duckdbrecipients.Store) error) error {
	store, err := a.RecipientStore()
	if err != nil {
		return err
	}
	return duckdb.InTransaction(ctx, a.db, func(ctx context.Context) error {
		return fn(ctx, store)
	})
}

// Recipients returns the configured recipient source.
func (a *App) Recipients() (notify.RecipientSource, error) {
	if a.Config.Recipients.Source == config.RecipientsDB {
		return a.RecipientStore()
	}
	return recipients.NewFileSource(a.Config.Recipients.Path), nil
}

func (a *App) Broadcaster() (*notify.Broadcaster, error) {
	source, err := a.Recipients()
	if err != nil {
		return nil, err
	}

	tg := a.Config.Notify.Telegram
	sender := notify.NewTelegramSender(notify.TelegramConfig{
		Token:    tg.Token,
		APIURL:   tg.APIURL,
		Rate:     tg.Rate,
		Timeout:  tg.Timeout,
		RetryMax: tg.RetryMax,
	})
	return notify.NewBroadcaster(source, sender, a.Config.Notify.ChunkSize, a.Metrics), nil
}

// Runner builds the auto-report runner using the configured schedule.
func (a *App) Runner(render schedule.RenderFunc, opts ...schedule.Option) (*schedule.Runner, error) {
	broadcaster, err := a.Broadcaster()
	if err != nil {
		return nil, err
	}

	hour, minute, err := a.Config.Schedule.Clock()
	if err != nil {
		return nil, err
	}

	base := []schedule.Option{
		schedule.WithClock(hour, minute),
		schedule.WithLocation(a.Location),
	}
	return schedule.NewRunner(a.Reports, broadcaster, render, append(base, opts...)...), nil
}

// Today returns the current day in the configured time zone.
func (a *App) Today() time.Time {
	return domain.Day(time.Now().In(a.Location))
}

// ParseDate parses a YYYY-MM-DD day in the configured time zone.
func (a *App) ParseDate(raw string) (time.Time, error) {
	t, err := time.ParseInLocation(domain.DateLayout, raw, a.Location)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", raw)
	}
	return t, nil
}

func (a *App) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db, a.store = nil, nil
	return err
}
