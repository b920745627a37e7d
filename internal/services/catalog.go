package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"retail-dashboard/internal/models"
)

// Catalog owns the loaded dataset. The table is immutable once loaded;
// queries read it without locking beyond the pointer swap, so concurrent
// readers are safe. Reloading replaces the table wholesale.
type Catalog struct {
	mu       sync.RWMutex
	table    models.Table
	report   *models.LoadReport
	source   string
	loadedAt time.Time

	opts   LoaderOptions
	logger *slog.Logger
}

func NewCatalog(opts LoaderOptions) *Catalog {
	return &Catalog{
		report: &models.LoadReport{},
		opts:   opts,
		logger: slog.Default(),
	}
}

// SetData installs an already-built table, used by tests and callers that
// assemble records programmatically.
func (c *Catalog) SetData(table models.Table) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.table = table
	c.report = &models.LoadReport{RowsLoaded: len(table)}
	c.loadedAt = time.Now()
}

// LoadFromCSV loads (or reloads) the dataset from a file.
func (c *Catalog) LoadFromCSV(ctx context.Context, filename string) error {
	start := time.Now()
	c.logger.Info("loading dataset", "filename", filename, "strict", c.opts.Strict)

	table, report, err := Load(ctx, filename, c.opts)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	c.mu.Lock()
	c.table = table
	c.report = report
	c.source = filename
	c.loadedAt = time.Now()
	c.mu.Unlock()

	duration := time.Since(start)
	c.logger.Info("dataset loaded",
		"rows_loaded", report.RowsLoaded,
		"rows_skipped", report.RowsSkipped,
		"duration", duration,
	)
	if report.RowsSkipped > 0 {
		c.logger.Warn("rows skipped during load", "count", report.RowsSkipped)
	}

	return nil
}

// Table returns the loaded table. Callers must treat it as read-only.
func (c *Catalog) Table() models.Table {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.table
}

// Report returns the load report from the most recent load.
func (c *Catalog) Report() models.LoadReport {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return *c.report
}

// Stats exposes load metadata for the admin endpoint.
func (c *Catalog) Stats() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return map[string]any{
		"record_count": len(c.table),
		"rows_skipped": c.report.RowsSkipped,
		"source":       c.source,
		"loaded_at":    c.loadedAt,
	}
}
