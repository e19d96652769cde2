package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"apartment-search/internal/config"
	"apartment-search/internal/database"
	"apartment-search/internal/filter"
	"apartment-search/internal/logger"
	"apartment-search/internal/model"
	"apartment-search/internal/repository"
	"apartment-search/internal/service"
)

// runtime is the wired search stack.
type runtime struct {
	log      *slog.Logger
	search   *service.SearchService
	compiler *filter.Compiler
	close    func()
}

// newRuntime wires the stack. A nil log means the configured process logger.
func (a *app) newRuntime(ctx context.Context, log *slog.Logger) (*runtime, error) {
	cfg := a.cfg
	if log == nil {
		log = logger.New(cfg.Log)
	}

	rows := repository.DefaultSampleRows()
	if cfg.Sample.File != "" {
		loaded, err := repository.LoadSampleCSV(cfg.Sample.File)
		if err != nil {
			return nil, err
		}
		rows = loaded
		log.Info("loaded sample data", "file", cfg.Sample.File, "rows", len(rows))
	}
	sample := repository.NewSampleRepository(rows)

	rt := &runtime{
		log:      log,
		compiler: filter.NewCompiler(cfg.Search.HardCap, cfg.Search.DefaultPageSize),
		close:    func() {},
	}

	var store service.Store
	db, dialect, err := database.Open(cfg.Store)
	switch {
	case errors.Is(err, database.ErrNotConfigured):
	case err != nil:
		return nil, fmt.Errorf("failed to open database: %w", err)
	default:
		store = repository.NewListingRepository(db, dialect)
		rt.close = func() { _ = db.Close() }
		log.Info("database configured", "driver", cfg.Store.Driver, "dialect", dialect.Name())
	}

	rt.search = service.NewSearchService(store, sample, log, service.Options{
		ProbeTimeout: config.Duration(cfg.Store.ProbeTimeout, 2*time.Second),
		QueryTimeout: config.Duration(cfg.Store.QueryTimeout, 10*time.Second),
	})
	rt.search.Probe(ctx)
	log.Info("search ready", "source", rt.search.Mode())
	return rt, nil
}

// criteriaFromArgs turns key=value arguments into search criteria.
func criteriaFromArgs(args []string) (model.FilterCriteria, error) {
	raw := make(map[string]string, len(args))
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok || k == "" {
			return model.FilterCriteria{}, fmt.Errorf("argument %q is not key=value", arg)
		}
		raw[k] = v
	}
	return filter.Parse(raw), nil
}
