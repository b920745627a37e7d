package handlers

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSSEHandlers_HandleTopProducts(t *testing.T) {
	handlers := NewSSEHandlers(createTestCatalog(), slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/sse/top-products", nil)
	w := httptest.NewRecorder()

	handlers.HandleTopProducts(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/event-stream") {
		t.Errorf("content-type = %q, want text/event-stream", ct)
	}

	body := w.Body.String()
	if !strings.Contains(body, "datastar-patch-elements") {
		t.Error("expected a patch-elements event in the stream")
	}
	if !strings.Contains(body, "top-products-content") {
		t.Error("expected the top-products fragment in the stream")
	}
	// Best seller row renders first.
	if !strings.Contains(body, "P003") {
		t.Error("expected best seller P003 in the rendered table")
	}
}

func TestSSEHandlers_HandlePositionSales(t *testing.T) {
	handlers := NewSSEHandlers(createTestCatalog(), slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/sse/position-sales", nil)
	w := httptest.NewRecorder()

	handlers.HandlePositionSales(w, req)

	body := w.Body.String()
	if !strings.Contains(body, "datastar-patch-signals") {
		t.Error("expected a patch-signals event in the stream")
	}
	if !strings.Contains(body, "positionSales") {
		t.Error("expected the positionSales signal in the stream")
	}
}

func TestSSEHandlers_HandleSeasonRevenue_Filtered(t *testing.T) {
	handlers := NewSSEHandlers(createTestCatalog(), slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/sse/season-revenue?season=Winter", nil)
	w := httptest.NewRecorder()

	handlers.HandleSeasonRevenue(w, req)

	body := w.Body.String()
	if !strings.Contains(body, "Winter") {
		t.Error("expected Winter group in the stream")
	}
	if strings.Contains(body, "Summer") {
		t.Error("Summer should have been filtered out")
	}
}

func TestSSEHandlers_HandleRefreshAll(t *testing.T) {
	handlers := NewSSEHandlers(createTestCatalog(), slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/sse/refresh-all", nil)
	w := httptest.NewRecorder()

	handlers.HandleRefreshAll(w, req)

	body := w.Body.String()
	for _, signal := range []string{"positionSales", "seasonRevenue", "originSales", "seasonMaterial", "summary"} {
		if !strings.Contains(body, signal) {
			t.Errorf("expected %s signal in refresh-all stream", signal)
		}
	}
	if !strings.Contains(body, "top-products-content") {
		t.Error("expected the top-products fragment in refresh-all stream")
	}
}

func TestSSEHandlers_BadFilterFallsBackToFullTable(t *testing.T) {
	handlers := NewSSEHandlers(createTestCatalog(), slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/sse/position-sales?price_min=abc", nil)
	w := httptest.NewRecorder()

	handlers.HandlePositionSales(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("bad filter params should not fail the stream, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "positionSales") {
		t.Error("expected the positionSales signal in the stream")
	}
}
