package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"urlsentinel/internal/metrics"
	"urlsentinel/pkg/models"
)

type panickingScanner struct{}

func (panickingScanner) Scan(ctx context.Context, rawURL string) (*models.ScanResult, error) {
	panic("scanner exploded")
}

func TestHandler_Metrics(t *testing.T) {
	m := metrics.New()
	m.ScanCompleted("MEDIUM", "phishing")
	handler := newTestHandler(&mockScanner{}, nil, nil, m)

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, `urlsentinel_scans_total{risk_level="MEDIUM",url_type="phishing"} 1`) {
		t.Errorf("Expected scan counter in exposition, got:\n%s", body)
	}
}

func TestHandler_MetricsDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Metrics.Enabled = false
	handler := NewHandler(cfg, &mockScanner{}, nil, nil, metrics.New())

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestHandler_Routing(t *testing.T) {
	handler := newTestHandler(&mockScanner{}, nil, nil, nil)

	tests := []struct {
		method string
		path   string
		status int
	}{
		{"GET", "/unknown", http.StatusNotFound},
		{"GET", "/example.com", http.StatusNotFound},
		{"POST", "/scan", http.StatusMethodNotAllowed},
		{"DELETE", "/health", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Code != tt.status {
			t.Errorf("%s %s: expected status %d, got %d", tt.method, tt.path, tt.status, w.Code)
		}
		if w.Header().Get(RequestIDHeader) == "" {
			t.Errorf("%s %s: expected request ID on every response", tt.method, tt.path)
		}
	}
}

func TestHandler_RecoversFromPanic(t *testing.T) {
	handler := NewHandler(testConfig(), panickingScanner{}, nil, nil, nil)

	req := httptest.NewRequest("GET", "/scan?url=example.com", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", w.Code)
	}
}
