package handlers

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/starfederation/datastar-go/datastar"

	"retail-dashboard/internal/models"
	"retail-dashboard/internal/services"
)

const maxTableRows = 50

var topProductsTemplate = template.Must(template.New("topProducts").Parse(`
<div id="top-products-content">
<table class="modern-table">
<thead><tr><th>Product</th><th>Category</th><th>Season</th><th>Price</th><th>Units Sold</th><th>Promo</th></tr></thead>
<tbody>
{{range .}}<tr>
<td>{{.ProductID}}</td>
<td><span class="category-badge">{{.Category}}</span></td>
<td>{{.Season}}</td>
<td><strong>${{.Price}}</strong></td>
<td>{{.SalesVolume}}</td>
<td>{{if .OnPromotion}}Yes{{else}}No{{end}}</td>
</tr>{{end}}
</tbody>
</table>
</div>`))

type SSEHandlers struct {
	catalog *services.Catalog
	logger  *slog.Logger
}

func NewSSEHandlers(catalog *services.Catalog, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		catalog: catalog,
		logger:  logger,
	}
}

// filtered applies the panel's filter params so every widget re-renders from
// explicit arguments rather than shared dashboard state.
func (h *SSEHandlers) filtered(r *http.Request) models.Table {
	spec, err := parseFilterSpec(r.URL.Query())
	if err != nil {
		h.logger.Warn("ignoring bad filter params", "error", err)
		return h.catalog.Table()
	}
	return services.ApplyFilter(h.catalog.Table(), spec)
}

func (h *SSEHandlers) groupSignal(table models.Table, signal string, groupBy, metrics []string) ([]byte, error) {
	result, err := services.Aggregate(table, groupBy, metrics)
	if err != nil {
		return nil, err
	}
	return json.Marshal(map[string]any{signal: result.Groups})
}

func (h *SSEHandlers) renderTopProducts(table models.Table) (string, error) {
	top := services.TopProducts(table, maxTableRows)
	var buf strings.Builder
	err := topProductsTemplate.Execute(&buf, top)
	return buf.String(), err
}

func (h *SSEHandlers) HandlePositionSales(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	signal, err := h.groupSignal(h.filtered(r), "positionSales", []string{"position"}, []string{services.MetricSumSales})
	if err != nil {
		h.logger.Error("aggregate position sales", "error", err)
		return
	}
	sse.PatchSignals(signal)

	sse.PatchElements(`<div id="position-content">✅ Position sales data loaded</div>`)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) HandleSeasonRevenue(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	signal, err := h.groupSignal(h.filtered(r), "seasonRevenue", []string{"season"}, []string{services.MetricSumRevenue})
	if err != nil {
		h.logger.Error("aggregate season revenue", "error", err)
		return
	}
	sse.PatchSignals(signal)

	sse.PatchElements(`<div id="season-content">✅ Season revenue data loaded</div>`)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) HandleTopProducts(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	html, err := h.renderTopProducts(h.filtered(r))
	if err != nil {
		h.logger.Error("render top products", "error", err)
		return
	}
	sse.PatchElements(html)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) HandleOriginSales(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	signal, err := h.groupSignal(h.filtered(r), "originSales", []string{"origin"}, []string{services.MetricSumSales})
	if err != nil {
		h.logger.Error("aggregate origin sales", "error", err)
		return
	}
	sse.PatchSignals(signal)

	sse.PatchElements(`<div id="origin-content">✅ Origin sales data loaded</div>`)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) HandleSeasonMaterial(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	signal, err := h.groupSignal(h.filtered(r), "seasonMaterial", []string{"season", "material"}, []string{services.MetricSumSales})
	if err != nil {
		h.logger.Error("aggregate season material", "error", err)
		return
	}
	sse.PatchSignals(signal)

	sse.PatchElements(`<div id="season-material-content">✅ Season/material data loaded</div>`)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) HandleRefreshAll(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	table := h.filtered(r)

	html, err := h.renderTopProducts(table)
	if err != nil {
		h.logger.Error("render top products", "error", err)
		return
	}
	sse.PatchElements(html)

	position, err := services.Aggregate(table, []string{"position"}, []string{services.MetricSumSales})
	if err != nil {
		h.logger.Error("aggregate position sales", "error", err)
		return
	}
	season, err := services.Aggregate(table, []string{"season"}, []string{services.MetricSumRevenue})
	if err != nil {
		h.logger.Error("aggregate season revenue", "error", err)
		return
	}
	origin, err := services.Aggregate(table, []string{"origin"}, []string{services.MetricSumSales})
	if err != nil {
		h.logger.Error("aggregate origin sales", "error", err)
		return
	}
	seasonMaterial, err := services.Aggregate(table, []string{"season", "material"}, []string{services.MetricSumSales})
	if err != nil {
		h.logger.Error("aggregate season material", "error", err)
		return
	}

	// Send all signals in one call
	allSignals, err := json.Marshal(map[string]any{
		"positionSales":  position.Groups,
		"seasonRevenue":  season.Groups,
		"originSales":    origin.Groups,
		"seasonMaterial": seasonMaterial.Groups,
		"summary":        services.Summarize(table),
	})
	if err != nil {
		h.logger.Error("marshal dashboard signals", "error", err)
		return
	}
	sse.PatchSignals(allSignals)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}
