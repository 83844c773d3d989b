package reload

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"mercator-hq/pricebook/pkg/catalog"
	"mercator-hq/pricebook/pkg/telemetry/metrics"
)

// Target receives a freshly loaded catalog.
type Target interface {
	UpdateCatalog(cat *catalog.Catalog)
}

// Reloader loads the catalog file and hands it to its targets. A file that
// fails to parse or validate leaves every target on its current catalog.
type Reloader struct {
	path    string
	targets []Target
	metrics *metrics.Collector
	logger  *slog.Logger

	// mu serializes reloads from the watcher and the scheduler
	mu sync.Mutex
}

// NewReloader creates a reloader for the catalog file at path. collector
// may be nil.
func NewReloader(path string, collector *metrics.Collector, targets ...Target) *Reloader {
	return &Reloader{
		path:    path,
		targets: targets,
		metrics: collector,
		logger:  slog.Default().With("component", "catalog.reload"),
	}
}

// Path returns the watched catalog file.
func (r *Reloader) Path() string {
	return r.path
}

// Reload loads and validates the catalog file and, on success, updates
// every target.
func (r *Reloader) Reload(ctx context.Context) (*catalog.Catalog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cat, err := catalog.Load(r.path)
	if err != nil {
		r.metrics.RecordCatalogReload(metrics.OutcomeError)
		r.logger.ErrorContext(ctx, "catalog reload failed, keeping current catalog",
			"path", r.path,
			"error", err,
		)
		return nil, fmt.Errorf("catalog reload: %w", err)
	}

	for _, t := range r.targets {
		t.UpdateCatalog(cat)
	}

	r.metrics.RecordCatalogReload(metrics.OutcomeSuccess)
	r.logger.InfoContext(ctx, "catalog reloaded",
		"path", r.path,
		"schema_version", cat.SchemaVersion(),
		"entries", len(cat.Entries()),
	)
	return cat, nil
}
