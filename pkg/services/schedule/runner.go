package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/de-tools/sales-atlas/pkg/services/notify"
	"github.com/rs/zerolog"
)

const (
	DefaultHour   = 0
	DefaultMinute = 6
)

type RollupSource interface {
	GetNetworkRollup(ctx context.Context, date time.Time, networks ...string) (*domain.RollupResult, error)
}

type Notifier interface {
	Broadcast(ctx context.Context, text string) (notify.DeliveryResult, error)
}

// RenderFunc turns a rollup into the message text.
type RenderFunc func(result *domain.RollupResult) (string, error)

// Outcome is the result of one auto-report run.
type Outcome struct {
	Date     time.Time
	Rollup   *domain.RollupResult
	Text     string
	Delivery notify.DeliveryResult
}

type Option func(*Runner)

func WithClock(hour, minute int) Option {
	return func(r *Runner) {
		r.hour, r.minute = hour, minute
	}
}

func WithLocation(loc *time.Location) Option {
	return func(r *Runner) {
		if loc != nil {
			r.loc = loc
		}
	}
}

func WithNetworks(networks ...string) Option {
	return func(r *Runner) {
		r.networks = networks
	}
}

// WithDryRun renders reports without broadcasting them.
func WithDryRun(dryRun bool) Option {
	return func(r *Runner) {
		r.dryRun = dryRun
	}
}

// Runner sends the network rollup of the previous local day once a day.
type Runner struct {
	rollups  RollupSource
	notifier Notifier
	render   RenderFunc
	hour     int
	minute   int
	loc      *time.Location
	networks []string
	dryRun   bool
	now      func() time.Time
}

func NewRunner(rollups RollupSource, notifier Notifier, render RenderFunc, opts ...Option) *Runner {
	r := &Runner{
		rollups:  rollups,
		notifier: notifier,
		render:   render,
		hour:     DefaultHour,
		minute:   DefaultMinute,
		loc:      time.Local,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Next returns the first run time strictly after now.
func (r *Runner) Next(now time.Time) time.Time {
	local := now.In(r.loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), r.hour, r.minute, 0, 0, r.loc)
	if !next.After(local) {
		next = time.Date(local.Year(), local.Month(), local.Day()+1, r.hour, r.minute, 0, 0, r.loc)
	}
	return next
}

// ReportDate returns the local day before now.
func (r *Runner) ReportDate(now time.Time) time.Time {
	local := now.In(r.loc)
	return time.Date(local.Year(), local.Month(), local.Day()-1, 0, 0, 0, 0, r.loc)
}

// RunOnce generates the rollup for the day before now and broadcasts it.
func (r *Runner) RunOnce(ctx context.Context, now time.Time) (Outcome, error) {
	return r.RunFor(ctx, r.ReportDate(now))
}

// RunFor generates and broadcasts the rollup of date.
func (r *Runner) RunFor(ctx context.Context, date time.Time) (Outcome, error) {
	logger := zerolog.Ctx(ctx)
	out := Outcome{Date: domain.Day(date)}

	rollup, err := r.rollups.GetNetworkRollup(ctx, out.Date, r.networks...)
	if err != nil {
		return out, fmt.Errorf("failed to build rollup for %s: %w", domain.DateKey(out.Date), err)
	}
	out.Rollup = rollup

	text, err := r.render(rollup)
	if err != nil {
		return out, err
	}
	out.Text = text

	if r.dryRun {
		logger.Info().Str("date", domain.DateKey(out.Date)).Msg("dry run, report not sent")
		return out, nil
	}

	delivery, err := r.notifier.Broadcast(ctx, text)
	if err != nil {
		return out, fmt.Errorf("failed to broadcast report: %w", err)
	}
	out.Delivery = delivery

	logger.Info().
		Str("date", domain.DateKey(out.Date)).
		Str("status", string(rollup.Status)).
		Int("delivered", len(delivery.Delivered)).
		Int("failed", len(delivery.Failed)).
		Msg("auto-report sent")
	return out, nil
}

// Run blocks until ctx is done, running the report at the configured time every day.
// A failed run is logged and the loop continues.
func (r *Runner) Run(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)

	for {
		now := r.now()
		next := r.Next(now)
		logger.Info().Time("next_run", next).Msg("auto-report scheduled")

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		if _, err := r.RunOnce(ctx, next); err != nil {
			logger.Error().Err(err).Msg("auto-report failed")
		}
	}
}
