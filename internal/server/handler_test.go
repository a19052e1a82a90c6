package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"urlsentinel/internal/config"
	"urlsentinel/internal/logger"
	"urlsentinel/internal/metrics"
	"urlsentinel/internal/store"
	"urlsentinel/internal/target"
	"urlsentinel/pkg/models"
)

type mockScanner struct {
	mu     sync.Mutex
	result *models.ScanResult
	err    error
	calls  int
	urls   []string
}

func (m *mockScanner) Scan(ctx context.Context, rawURL string) (*models.ScanResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.urls = append(m.urls, rawURL)
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

type mockEnqueuer struct {
	mu      sync.Mutex
	records []models.ScanRecord
	accept  bool
}

func (m *mockEnqueuer) Enqueue(rec models.ScanRecord) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.accept {
		return false
	}
	m.records = append(m.records, rec)
	return true
}

type mockLister struct {
	records []models.ScanRecord
	err     error
	limit   int
}

func (m *mockLister) Recent(ctx context.Context, limit int) ([]models.ScanRecord, error) {
	m.limit = limit
	if m.err != nil {
		return nil, m.err
	}
	if limit < len(m.records) {
		return m.records[:limit], nil
	}
	return m.records, nil
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.App.Name = "urlsentinel-test"
	cfg.App.Port = 8080
	return cfg
}

func phishingResult() *models.ScanResult {
	confidence := 0.9
	age := 5
	return &models.ScanResult{
		URL:           "https://login-example.shop/verify",
		Domain:        "login-example.shop",
		TrustStatus:   models.TrustStatusUntrusted,
		URLType:       models.URLTypePhishing,
		RiskLevel:     models.RiskLevelMedium,
		RiskScore:     0.45,
		Reachable:     true,
		Verdict:       "This URL may pose a security risk. Proceed with caution.",
		WhoisSummary:  "Domain registered 5 days ago (very new).",
		DNSSummary:    "DNS Information:\nA: 203.0.113.7\nMX: none\nNS: none",
		Confidence:    &confidence,
		DomainAgeDays: &age,
		DNS: models.DNSSignal{
			models.RecordTypeA:  {{Address: "203.0.113.7"}},
			models.RecordTypeMX: nil,
			models.RecordTypeNS: nil,
		},
		ScoreBreakdown: []models.ScoreTerm{
			{Name: "classifier", Delta: 0.4},
			{Name: "domain_age", Delta: 0.3},
			{Name: "dns_a", Delta: -0.15},
			{Name: "reachable", Delta: -0.1},
		},
		ScannedAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func rejected(base error, detail string) error {
	return fmt.Errorf("%w: %s", base, detail)
}

var (
	errInvalid  = rejected(target.ErrInvalidSyntax, "contains whitespace")
	errNoDomain = rejected(target.ErrDomainExtraction, "no registrable domain in \"localhost.invalidtld\"")
)

func newTestHandler(sc *mockScanner, enq Enqueuer, lister *mockLister, m *metrics.Metrics) *Handler {
	logger.Init("error", "text")
	var l store.Lister
	if lister != nil {
		l = lister
	}
	return NewHandler(testConfig(), sc, enq, l, m)
}
