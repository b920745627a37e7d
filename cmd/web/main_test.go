package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"retail-dashboard/internal/models"
	"retail-dashboard/internal/server"
	"retail-dashboard/internal/services"
)

// Test helper to create a catalog with test data
func newTestCatalog() *services.Catalog {
	c := services.NewCatalog(services.LoaderOptions{})
	c.SetData(models.Table{
		{ProductID: "P001", Position: "Aisle", OnPromotion: true, Category: "Jacket", Season: "Winter", Price: decimal.NewFromInt(90), Origin: "Spain", Material: "Wool", SalesVolume: 120},
		{ProductID: "P002", Position: "End-Cap", OnPromotion: false, Category: "Jacket", Season: "Winter", Price: decimal.NewFromInt(80), Origin: "Portugal", Material: "Cotton", SalesVolume: 80},
		{ProductID: "P003", Position: "Front", OnPromotion: false, Category: "T-Shirt", Season: "Summer", Price: decimal.NewFromInt(15), Origin: "Turkey", Material: "Cotton", SalesVolume: 200},
	})
	return c
}

func newTestServer() *server.Server {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	templateHandlers := &server.TemplateHandlers{Dashboard: handleDashboard}
	return server.NewServer(newTestCatalog(), logger, templateHandlers)
}

// Integration tests for HTTP routes
func TestServer_Routes(t *testing.T) {
	srv := newTestServer()

	tests := []struct {
		path           string
		expectedStatus int
	}{
		{path: "/", expectedStatus: http.StatusOK},
		{path: "/health", expectedStatus: http.StatusOK},
		{path: "/admin/stats", expectedStatus: http.StatusOK},
		{path: "/api/summary", expectedStatus: http.StatusOK},
		{path: "/api/aggregate?group_by=category", expectedStatus: http.StatusOK},
		{path: "/api/aggregate", expectedStatus: http.StatusBadRequest},
		{path: "/api/top-products", expectedStatus: http.StatusOK},
		{path: "/api/products", expectedStatus: http.StatusOK},
		{path: "/api/dimensions/season", expectedStatus: http.StatusOK},
		{path: "/api/dimensions/nope", expectedStatus: http.StatusBadRequest},
		{path: "/api/export", expectedStatus: http.StatusOK},
		{path: "/sse/position-sales", expectedStatus: http.StatusOK},
		{path: "/sse/season-revenue", expectedStatus: http.StatusOK},
		{path: "/sse/top-products", expectedStatus: http.StatusOK},
		{path: "/sse/origin-sales", expectedStatus: http.StatusOK},
		{path: "/sse/season-material", expectedStatus: http.StatusOK},
		{path: "/sse/refresh-all", expectedStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			w := httptest.NewRecorder()

			srv.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("GET %s = %d, want %d", tt.path, w.Code, tt.expectedStatus)
			}
		})
	}
}

func TestServer_MethodNotAllowed(t *testing.T) {
	srv := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/api/summary", nil)
	w := httptest.NewRecorder()

	srv.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST /api/summary = %d, want %d", w.Code, http.StatusMethodNotAllowed)
	}
}

func TestHandleDashboard(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	handleDashboard(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Zara Sales Dashboard") {
		t.Error("dashboard page missing title")
	}
	if !strings.Contains(body, "/sse/refresh-all") {
		t.Error("dashboard page should wire the refresh-all stream")
	}
}

func TestServer_AggregateEndToEnd(t *testing.T) {
	srv := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/api/aggregate?group_by=season&metrics=sum_sales&promotion=false", nil)
	w := httptest.NewRecorder()

	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var response struct {
		Data struct {
			Groups []struct {
				Key      []string `json:"key"`
				SumSales int64    `json:"sum_sales"`
			} `json:"groups"`
		} `json:"data"`
		Success bool `json:"success"`
	}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}

	if !response.Success {
		t.Error("expected success=true")
	}
	if len(response.Data.Groups) != 2 {
		t.Fatalf("expected 2 season groups for non-promoted records, got %d", len(response.Data.Groups))
	}
	// Non-promoted: T-Shirt/Summer 200 then Jacket/Winter 80.
	if response.Data.Groups[0].Key[0] != "Summer" || response.Data.Groups[0].SumSales != 200 {
		t.Errorf("first group = %+v, want Summer/200", response.Data.Groups[0])
	}
}
