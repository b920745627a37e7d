package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"retail-dashboard/internal/errors"
	"retail-dashboard/internal/models"
	"retail-dashboard/internal/observability"
	"retail-dashboard/internal/services"
)

const (
	cacheControl       = "public, max-age=300"
	defaultTopProducts = 10
)

type APIHandlers struct {
	catalog *services.Catalog
	logger  *slog.Logger
}

func NewAPIHandlers(catalog *services.Catalog, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		catalog: catalog,
		logger:  logger,
	}
}

// filteredTable applies the request's filter params to the loaded table.
func (h *APIHandlers) filteredTable(r *http.Request) (models.Table, error) {
	spec, err := parseFilterSpec(r.URL.Query())
	if err != nil {
		return nil, err
	}
	return services.ApplyFilter(h.catalog.Table(), spec), nil
}

func (h *APIHandlers) HandleAggregate(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	table, err := h.filteredTable(r)
	if err != nil {
		errors.WriteError(w, h.logger, err, requestID)
		return
	}

	q := r.URL.Query()
	groupBy := parseCommaList(q, "group_by")
	metrics := parseCommaList(q, "metrics")

	result, err := services.Aggregate(table, groupBy, metrics)
	if err != nil {
		errors.WriteError(w, h.logger, err, requestID)
		return
	}

	errors.WriteSuccessWithHeaders(w, result, map[string]string{"Cache-Control": cacheControl})
}

func (h *APIHandlers) HandleSummary(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	table, err := h.filteredTable(r)
	if err != nil {
		errors.WriteError(w, h.logger, err, requestID)
		return
	}

	errors.WriteSuccessWithHeaders(w, services.Summarize(table), map[string]string{"Cache-Control": cacheControl})
}

func (h *APIHandlers) HandleTopProducts(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	table, err := h.filteredTable(r)
	if err != nil {
		errors.WriteError(w, h.logger, err, requestID)
		return
	}

	limit, err := parseLimit(r.URL.Query(), "limit", defaultTopProducts)
	if err != nil {
		errors.WriteError(w, h.logger, err, requestID)
		return
	}

	errors.WriteSuccessWithHeaders(w, services.TopProducts(table, limit), map[string]string{"Cache-Control": cacheControl})
}

func (h *APIHandlers) HandleProducts(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	table, err := h.filteredTable(r)
	if err != nil {
		errors.WriteError(w, h.logger, err, requestID)
		return
	}

	errors.WriteSuccess(w, table)
}

func (h *APIHandlers) HandleDimensionValues(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	values, err := services.DimensionValues(h.catalog.Table(), r.PathValue("dim"))
	if err != nil {
		errors.WriteError(w, h.logger, err, requestID)
		return
	}

	errors.WriteSuccessWithHeaders(w, values, map[string]string{"Cache-Control": cacheControl})
}

func (h *APIHandlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	table, err := h.filteredTable(r)
	if err != nil {
		errors.WriteError(w, h.logger, err, requestID)
		return
	}

	format := r.URL.Query().Get("format")
	var delimiter rune
	var contentType, filename string
	switch format {
	case "", "csv":
		delimiter, contentType, filename = ',', "text/csv; charset=utf-8", "filtered_sales.csv"
	case "tsv":
		delimiter, contentType, filename = '\t', "text/tab-separated-values; charset=utf-8", "filtered_sales.tsv"
	default:
		errors.WriteError(w, h.logger, errors.BadRequest(fmt.Sprintf("unknown export format %q", format)), requestID)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := services.WriteTable(w, table, delimiter); err != nil {
		h.logger.Error("write export", "error", err, "request_id", requestID)
	}
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	healthData := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	}

	errors.WriteSuccess(w, healthData)
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats := h.catalog.Stats()
	stats["report"] = h.catalog.Report()

	errors.WriteSuccess(w, stats)
}
