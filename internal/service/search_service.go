package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"apartment-search/internal/filter"
	"apartment-search/internal/metrics"
	"apartment-search/internal/model"
	"apartment-search/internal/repository"
)

// ErrQuery wraps store failures that happen while the store still answers
// its liveness probe.
var ErrQuery = errors.New("search query failed")

// Source is anything that can answer a compiled plan.
type Source interface {
	Find(ctx context.Context, plan filter.Plan) ([]model.Listing, error)
	Count(ctx context.Context, plan filter.Plan) (int, error)
	GetByID(ctx context.Context, id int64) (*model.Listing, error)
}

// Store is a Source with a liveness probe.
type Store interface {
	Source
	Ping(ctx context.Context) error
}

type Options struct {
	ProbeTimeout time.Duration
	QueryTimeout time.Duration
}

// SearchService executes plans against the database while it is reachable
// and against the sample source otherwise.
type SearchService struct {
	store  Store
	sample Source
	log    *slog.Logger
	opts   Options

	up atomic.Bool
}

// NewSearchService starts in sample mode; call Probe to enable the store.
// store may be nil, in which case only sample data is served.
func NewSearchService(store Store, sample Source, log *slog.Logger, opts Options) *SearchService {
	if opts.ProbeTimeout <= 0 {
		opts.ProbeTimeout = 2 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}
	metrics.StoreUp.Set(0)
	return &SearchService{store: store, sample: sample, log: log, opts: opts}
}

// Mode names the source currently serving requests.
func (s *SearchService) Mode() string {
	if s.up.Load() {
		return model.SourceDB
	}
	return model.SourceSample
}

// Probe pings the store and sets the liveness flag from the result.
func (s *SearchService) Probe(ctx context.Context) bool {
	if s.store == nil {
		s.log.Info("no database configured, serving sample data")
		return false
	}
	if err := s.ping(ctx); err != nil {
		s.setUp(false)
		s.log.Warn("database unreachable, serving sample data", "error", err)
		return false
	}
	s.setUp(true)
	s.log.Info("database reachable")
	return true
}

// Watch re-probes the store every interval while it is marked down, until ctx
// ends. It returns immediately when there is nothing to watch.
func (s *SearchService) Watch(ctx context.Context, interval time.Duration) {
	if s.store == nil || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if s.up.Load() {
				continue
			}
			if err := s.ping(ctx); err == nil && s.setUp(true) {
				s.log.Info("database reachable again, leaving sample mode")
			}
		}
	}
}

// Execute runs plan and reports which source served it. Store outages are
// absorbed by switching to sample data; other store failures return ErrQuery.
func (s *SearchService) Execute(ctx context.Context, plan filter.Plan) (*model.ResultPage, error) {
	if s.store != nil && s.up.Load() {
		page, err := s.fromStore(ctx, plan)
		if err == nil {
			metrics.QueriesTotal.WithLabelValues(model.SourceDB, "ok").Inc()
			return page, nil
		}
		if !s.degrade(ctx, err) {
			metrics.QueriesTotal.WithLabelValues(model.SourceDB, "error").Inc()
			return nil, s.fault(ctx, "SearchService.Execute", err)
		}
	}

	page, err := s.fromSample(ctx, plan)
	if err != nil {
		metrics.QueriesTotal.WithLabelValues(model.SourceSample, "error").Inc()
		return nil, s.fault(ctx, "SearchService.Execute", err)
	}
	metrics.QueriesTotal.WithLabelValues(model.SourceSample, "ok").Inc()
	return page, nil
}

// Get looks up one listing with the same routing as Execute. A missing id is
// returned as repository.ErrNotFound.
func (s *SearchService) Get(ctx context.Context, id int64) (*model.Listing, string, error) {
	if s.store != nil && s.up.Load() {
		qctx, cancel := s.queryContext(ctx)
		l, err := s.store.GetByID(qctx, id)
		cancel()
		switch {
		case err == nil:
			return l, model.SourceDB, nil
		case errors.Is(err, repository.ErrNotFound):
			return nil, model.SourceDB, err
		case !s.degrade(ctx, err):
			return nil, model.SourceDB, s.fault(ctx, "SearchService.Get", err)
		}
	}

	l, err := s.sample.GetByID(ctx, id)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		err = s.fault(ctx, "SearchService.Get", err)
	}
	return l, model.SourceSample, err
}

func (s *SearchService) fromStore(ctx context.Context, plan filter.Plan) (*model.ResultPage, error) {
	ctx, cancel := s.queryContext(ctx)
	defer cancel()

	rows, err := s.store.Find(ctx, plan)
	if err != nil {
		return nil, err
	}
	total, err := s.total(ctx, s.store, plan, rows)
	if err != nil {
		return nil, err
	}
	return model.NewResultPage(rows, total, plan.Page, plan.PageSize, model.SourceDB), nil
}

func (s *SearchService) fromSample(ctx context.Context, plan filter.Plan) (*model.ResultPage, error) {
	rows, err := s.sample.Find(ctx, plan)
	if err != nil {
		return nil, err
	}
	total, err := s.total(ctx, s.sample, plan, rows)
	if err != nil {
		return nil, err
	}
	return model.NewResultPage(rows, total, plan.Page, plan.PageSize, model.SourceSample), nil
}

// total skips the COUNT query when the window already shows the end of the
// result set.
func (s *SearchService) total(ctx context.Context, src Source, plan filter.Plan, rows []model.Listing) (int, error) {
	if len(rows) < plan.Limit && (len(rows) > 0 || plan.Offset == 0) {
		return plan.Offset + len(rows), nil
	}
	return src.Count(ctx, plan)
}

// degrade decides whether a store failure means the store is gone. If it is,
// the service drops to sample mode and the caller should retry there.
func (s *SearchService) degrade(ctx context.Context, cause error) bool {
	if ctx.Err() != nil {
		return false
	}
	if err := s.ping(context.WithoutCancel(ctx)); err == nil {
		return false
	}
	metrics.StoreFallbacks.Inc()
	if s.setUp(false) {
		s.log.Warn("database became unreachable, switching to sample data", "error", cause)
	}
	return true
}

func (s *SearchService) fault(ctx context.Context, op string, err error) error {
	if ctx.Err() != nil {
		return fmt.Errorf("%s: %w", op, ctx.Err())
	}
	s.log.Error("search failed", "op", op, "error", err)
	return fmt.Errorf("%s: %w: %w", op, ErrQuery, err)
}

func (s *SearchService) ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.opts.ProbeTimeout)
	defer cancel()
	return s.store.Ping(ctx)
}

func (s *SearchService) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opts.QueryTimeout > 0 {
		return context.WithTimeout(ctx, s.opts.QueryTimeout)
	}
	return context.WithCancel(ctx)
}

// setUp stores the flag and reports whether it changed.
func (s *SearchService) setUp(up bool) bool {
	if up {
		metrics.StoreUp.Set(1)
	} else {
		metrics.StoreUp.Set(0)
	}
	return s.up.Swap(up) != up
}
