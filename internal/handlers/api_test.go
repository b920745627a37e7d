package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"retail-dashboard/internal/models"
	"retail-dashboard/internal/services"
)

func createTestCatalog() *services.Catalog {
	c := services.NewCatalog(services.LoaderOptions{})
	c.SetData(models.Table{
		{ProductID: "P001", Position: "Aisle", OnPromotion: true, Category: "Jacket", Season: "Winter", Price: decimal.NewFromInt(90), Origin: "Spain", Material: "Wool", SalesVolume: 120},
		{ProductID: "P002", Position: "End-Cap", OnPromotion: false, Category: "Jacket", Season: "Winter", Price: decimal.NewFromInt(80), Origin: "Portugal", Material: "Cotton", SalesVolume: 80},
		{ProductID: "P003", Position: "Front", OnPromotion: false, Category: "T-Shirt", Season: "Summer", Price: decimal.NewFromInt(15), Origin: "Turkey", Material: "Cotton", SalesVolume: 200},
	})
	return c
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var response map[string]any
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}
	return response
}

func TestNewAPIHandlers(t *testing.T) {
	catalog := createTestCatalog()
	handlers := NewAPIHandlers(catalog, slog.Default())

	if handlers == nil {
		t.Fatal("NewAPIHandlers() returned nil")
	}
	if handlers.catalog != catalog {
		t.Error("NewAPIHandlers() should set catalog field")
	}
}

func TestAPIHandlers_HandleAggregate(t *testing.T) {
	handlers := NewAPIHandlers(createTestCatalog(), slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/api/aggregate?group_by=category,season&metrics=count,sum_sales,promotion_rate", nil)
	w := httptest.NewRecorder()

	handlers.HandleAggregate(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected content-type 'application/json', got %q", ct)
	}
	if cc := w.Header().Get("Cache-Control"); cc != "public, max-age=300" {
		t.Errorf("expected cache-control 'public, max-age=300', got %q", cc)
	}

	response := decodeEnvelope(t, w)
	if success, ok := response["success"].(bool); !ok || !success {
		t.Error("expected success=true in response")
	}

	data, ok := response["data"].(map[string]any)
	if !ok {
		t.Fatal("expected data object in response")
	}
	groups, ok := data["groups"].([]any)
	if !ok || len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %v", data["groups"])
	}

	// First requested metric is count: the two jackets outrank the single
	// t-shirt.
	first := groups[0].(map[string]any)
	key := first["key"].([]any)
	if key[0] != "Jacket" || key[1] != "Winter" {
		t.Errorf("first group key = %v, want [Jacket Winter]", key)
	}
	if first["count"].(float64) != 2 {
		t.Errorf("count = %v, want 2", first["count"])
	}
	if first["promotion_rate"].(float64) != 0.5 {
		t.Errorf("promotion_rate = %v, want 0.5", first["promotion_rate"])
	}
}

func TestAPIHandlers_HandleAggregate_Errors(t *testing.T) {
	handlers := NewAPIHandlers(createTestCatalog(), slog.Default())

	tests := []struct {
		name string
		url  string
	}{
		{name: "missing group_by", url: "/api/aggregate"},
		{name: "unknown dimension", url: "/api/aggregate?group_by=price"},
		{name: "unknown metric", url: "/api/aggregate?group_by=category&metrics=median"},
		{name: "bad price filter", url: "/api/aggregate?group_by=category&price_min=abc"},
		{name: "bad promotion filter", url: "/api/aggregate?group_by=category&promotion=maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			w := httptest.NewRecorder()

			handlers.HandleAggregate(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
			}
			response := decodeEnvelope(t, w)
			if success, ok := response["success"].(bool); !ok || success {
				t.Error("expected success=false in error response")
			}
		})
	}
}

func TestAPIHandlers_HandleAggregate_WithFilters(t *testing.T) {
	handlers := NewAPIHandlers(createTestCatalog(), slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/api/aggregate?group_by=category&season=Winter", nil)
	w := httptest.NewRecorder()

	handlers.HandleAggregate(w, req)

	response := decodeEnvelope(t, w)
	data := response["data"].(map[string]any)
	groups := data["groups"].([]any)
	if len(groups) != 1 {
		t.Fatalf("filtering to Winter should leave one category group, got %d", len(groups))
	}
}

func TestAPIHandlers_HandleSummary(t *testing.T) {
	handlers := NewAPIHandlers(createTestCatalog(), slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/api/summary", nil)
	w := httptest.NewRecorder()

	handlers.HandleSummary(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	response := decodeEnvelope(t, w)
	data := response["data"].(map[string]any)
	if data["products"].(float64) != 3 {
		t.Errorf("products = %v, want 3", data["products"])
	}
	if data["total_sales_volume"].(float64) != 400 {
		t.Errorf("total_sales_volume = %v, want 400", data["total_sales_volume"])
	}
	if data["top_material"] != "Cotton" {
		t.Errorf("top_material = %v, want Cotton", data["top_material"])
	}
}

func TestAPIHandlers_HandleTopProducts(t *testing.T) {
	handlers := NewAPIHandlers(createTestCatalog(), slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/api/top-products?limit=2", nil)
	w := httptest.NewRecorder()

	handlers.HandleTopProducts(w, req)

	response := decodeEnvelope(t, w)
	data := response["data"].([]any)
	if len(data) != 2 {
		t.Fatalf("expected 2 products, got %d", len(data))
	}
	first := data[0].(map[string]any)
	if first["product_id"] != "P003" {
		t.Errorf("best seller = %v, want P003", first["product_id"])
	}
}

func TestAPIHandlers_HandleProducts_Filtered(t *testing.T) {
	handlers := NewAPIHandlers(createTestCatalog(), slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/api/products?promotion=true", nil)
	w := httptest.NewRecorder()

	handlers.HandleProducts(w, req)

	response := decodeEnvelope(t, w)
	data := response["data"].([]any)
	if len(data) != 1 {
		t.Fatalf("expected 1 promoted product, got %d", len(data))
	}
	if data[0].(map[string]any)["product_id"] != "P001" {
		t.Errorf("expected P001, got %v", data[0])
	}
}

func TestAPIHandlers_HandleDimensionValues(t *testing.T) {
	handlers := NewAPIHandlers(createTestCatalog(), slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/api/dimensions/season", nil)
	req.SetPathValue("dim", "season")
	w := httptest.NewRecorder()

	handlers.HandleDimensionValues(w, req)

	response := decodeEnvelope(t, w)
	data := response["data"].([]any)
	if len(data) != 2 || data[0] != "Summer" || data[1] != "Winter" {
		t.Errorf("seasons = %v, want [Summer Winter] in calendar order", data)
	}
}

func TestAPIHandlers_HandleDimensionValues_Unknown(t *testing.T) {
	handlers := NewAPIHandlers(createTestCatalog(), slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/api/dimensions/price", nil)
	req.SetPathValue("dim", "price")
	w := httptest.NewRecorder()

	handlers.HandleDimensionValues(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestAPIHandlers_HandleExport(t *testing.T) {
	handlers := NewAPIHandlers(createTestCatalog(), slog.Default())

	tests := []struct {
		name        string
		url         string
		wantStatus  int
		wantType    string
		wantContent string
	}{
		{
			name:        "csv default",
			url:         "/api/export",
			wantStatus:  http.StatusOK,
			wantType:    "text/csv; charset=utf-8",
			wantContent: "product_id,position,on_promotion",
		},
		{
			name:        "tsv",
			url:         "/api/export?format=tsv",
			wantStatus:  http.StatusOK,
			wantType:    "text/tab-separated-values; charset=utf-8",
			wantContent: "product_id\tposition",
		},
		{
			name:       "unknown format",
			url:        "/api/export?format=xlsx",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			w := httptest.NewRecorder()

			handlers.HandleExport(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if tt.wantType != "" {
				if ct := w.Header().Get("Content-Type"); ct != tt.wantType {
					t.Errorf("content-type = %q, want %q", ct, tt.wantType)
				}
				if cd := w.Header().Get("Content-Disposition"); !strings.HasPrefix(cd, "attachment") {
					t.Errorf("expected attachment disposition, got %q", cd)
				}
			}
			if tt.wantContent != "" && !strings.Contains(w.Body.String(), tt.wantContent) {
				t.Errorf("body missing %q:\n%s", tt.wantContent, w.Body.String())
			}
		})
	}
}

func TestAPIHandlers_HandleHealth(t *testing.T) {
	handlers := NewAPIHandlers(createTestCatalog(), slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	handlers.HandleHealth(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	response := decodeEnvelope(t, w)
	data := response["data"].(map[string]any)
	if data["status"] != "healthy" {
		t.Errorf("status = %v, want healthy", data["status"])
	}
}

func TestAPIHandlers_HandleStats(t *testing.T) {
	handlers := NewAPIHandlers(createTestCatalog(), slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	w := httptest.NewRecorder()

	handlers.HandleStats(w, req)

	response := decodeEnvelope(t, w)
	data := response["data"].(map[string]any)
	if data["record_count"].(float64) != 3 {
		t.Errorf("record_count = %v, want 3", data["record_count"])
	}
}
