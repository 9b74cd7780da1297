package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/de-tools/sales-atlas/pkg/metrics"
	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/de-tools/sales-atlas/pkg/services/classifier"
	"github.com/de-tools/sales-atlas/pkg/services/reconcile"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const DefaultConcurrency = 4

// FactSource fetches actual sales aggregates of a location for the half-open range [from, to).
type FactSource interface {
	FetchFacts(ctx context.Context, location string, from, to time.Time) ([]domain.RawFactRow, error)
}

// PlanSource loads the plan table of a location. LoadPlan returns
// domain.ErrPlanSourceMissing when the location has no plan at all.
type PlanSource interface {
	LoadPlan(ctx context.Context, location string) (*domain.PlanTable, error)
	ListLocations(ctx context.Context) ([]string, error)
}

type Service interface {
	GetLocationReport(ctx context.Context, location string, date time.Time) (*domain.LocationReport, error)
	GetNetworkRollup(ctx context.Context, date time.Time, networks ...string) (*domain.RollupResult, error)
	ListLocations(ctx context.Context) ([]string, error)
	Networks() []domain.Network
}

type Option func(*service)

func WithConcurrency(n int) Option {
	return func(s *service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

func WithMetrics(r *metrics.Recorder) Option {
	return func(s *service) {
		s.metrics = r
	}
}

type service struct {
	config      domain.EngineConfig
	classifier  *classifier.Classifier
	plans       PlanSource
	facts       FactSource
	concurrency int
	metrics     *metrics.Recorder
}

func NewService(config domain.EngineConfig, plans PlanSource, facts FactSource, opts ...Option) Service {
	s := &service{
		config:      config,
		classifier:  classifier.New(config.AggregatorKeywords),
		plans:       plans,
		facts:       facts,
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetLocationReport reconciles the plan and facts of one location for the day of date.
// A location without a plan yields domain.ErrUnconfiguredLocation and no fetch is made;
// a failed fetch yields domain.ErrFactFetchFailed.
func (s *service) GetLocationReport(ctx context.Context, location string, date time.Time) (*domain.LocationReport, error) {
	ctx, logger := withRun(ctx, metrics.KindLocation)
	started := time.Now()

	report, err := s.locationReport(ctx, location, domain.Day(date))
	s.metrics.ObserveReport(metrics.KindLocation, locationStatus(err), time.Since(started))
	if err != nil {
		logger.Error().Err(err).Str("location", location).Msg("location report failed")
		return nil, err
	}

	logger.Info().
		Str("location", location).
		Str("date", domain.DateKey(report.Date)).
		Float64("fact_sales", report.Overall.FactSales).
		Msg("location report generated")
	return &report, nil
}

// GetNetworkRollup rolls up every location of the named networks, or of all configured
// networks when none is named. Locations are reconciled concurrently and merged in
// configuration order. Failed locations are reported instead of aborting the rollup.
func (s *service) GetNetworkRollup(ctx context.Context, date time.Time, networks ...string) (*domain.RollupResult, error) {
	ctx, logger := withRun(ctx, metrics.KindNetwork)
	started := time.Now()
	day := domain.Day(date)

	names, locations, err := s.resolve(networks)
	if err != nil {
		return nil, err
	}

	type outcome struct {
		report domain.LocationReport
		err    error
	}
	outcomes := make([]outcome, len(locations))

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, location := range locations {
		g.Go(func() error {
			r, err := s.locationReport(ctx, location, day)
			outcomes[i] = outcome{report: r, err: err}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &domain.RollupResult{}
	reports := make([]domain.LocationReport, 0, len(locations))
	for i, o := range outcomes {
		switch {
		case o.err == nil:
			reports = append(reports, o.report)
		case errors.Is(o.err, domain.ErrUnconfiguredLocation):
			result.Unconfigured = append(result.Unconfigured, locations[i])
		default:
			s.metrics.LocationFetchFailed()
			logger.Warn().Err(o.err).Str("location", locations[i]).Msg("location excluded from rollup")
			result.Failures = append(result.Failures, domain.LocationFailure{Location: locations[i], Err: o.err})
		}
	}

	result.Report = reconcile.Rollup(names, day, reports...)
	result.Status = rollupStatus(len(reports), len(result.Failures))
	s.metrics.ObserveReport(metrics.KindNetwork, string(result.Status), time.Since(started))

	logger.Info().
		Strs("networks", names).
		Str("date", domain.DateKey(day)).
		Str("status", string(result.Status)).
		Int("locations", len(reports)).
		Int("failed", len(result.Failures)).
		Int("unconfigured", len(result.Unconfigured)).
		Msg("network rollup generated")
	return result, nil
}

func (s *service) ListLocations(ctx context.Context) ([]string, error) {
	locations, err := s.plans.ListLocations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	return locations, nil
}

func (s *service) Networks() []domain.Network {
	return s.config.Networks
}

func (s *service) locationReport(ctx context.Context, location string, day time.Time) (domain.LocationReport, error) {
	table, err := s.plans.LoadPlan(ctx, location)
	if errors.Is(err, domain.ErrPlanSourceMissing) {
		return domain.LocationReport{}, fmt.Errorf("%s: %w", location, domain.ErrUnconfiguredLocation)
	}
	if err != nil {
		return domain.LocationReport{}, fmt.Errorf("failed to load plan for %s: %w", location, err)
	}

	rows, err := s.facts.FetchFacts(ctx, location, day, day.AddDate(0, 0, 1))
	if err != nil {
		return domain.LocationReport{}, fmt.Errorf("%s: %w: %w", location, domain.ErrFactFetchFailed, err)
	}

	return reconcile.Reconcile(table, rows, day, location, s.classifier), nil
}

// resolve returns the network names and their locations in configuration order.
// A location listed in several networks is reported once.
func (s *service) resolve(networks []string) ([]string, []string, error) {
	selected := s.config.Networks
	if len(networks) > 0 {
		selected = make([]domain.Network, 0, len(networks))
		for _, name := range networks {
			n, ok := s.config.Network(name)
			if !ok {
				return nil, nil, fmt.Errorf("%q: %w", name, domain.ErrUnknownNetwork)
			}
			selected = append(selected, n)
		}
	}

	names := make([]string, 0, len(selected))
	var locations []string
	seen := make(map[string]struct{})
	for _, n := range selected {
		names = append(names, n.Name)
		for _, l := range n.Locations {
			if _, ok := seen[l]; ok {
				continue
			}
			seen[l] = struct{}{}
			locations = append(locations, l)
		}
	}
	return names, locations, nil
}

func rollupStatus(succeeded, failed int) domain.RollupStatus {
	switch {
	case failed == 0:
		return domain.RollupStatusSuccess
	case succeeded == 0:
		return domain.RollupStatusFailed
	default:
		return domain.RollupStatusPartial
	}
}

func locationStatus(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrUnconfiguredLocation):
		return "unconfigured"
	default:
		return "failed"
	}
}

func withRun(ctx context.Context, kind string) (context.Context, *zerolog.Logger) {
	logger := zerolog.Ctx(ctx).With().
		Str("run_id", uuid.NewString()).
		Str("kind", kind).
		Logger()
	return logger.WithContext(ctx), &logger
}
