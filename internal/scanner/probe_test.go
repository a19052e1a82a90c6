package scanner

import (
	"context"
	"errors"
	"testing"
	"time"

	"urlsentinel/internal/scanner/tools"
	"urlsentinel/pkg/models"
)

type slowResolver struct {
	delay time.Duration
}

func (s slowResolver) Resolve(ctx context.Context, domain string, t models.RecordType) ([]models.DNSRecord, error) {
	select {
	case <-time.After(s.delay):
		return []models.DNSRecord{{Address: "192.0.2.1"}}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type slowProber struct {
	delay time.Duration
}

func (s slowProber) Probe(ctx context.Context, url string) tools.ProbeResult {
	select {
	case <-time.After(s.delay):
		return tools.ProbeResult{Reachable: true, StatusCode: 200}
	case <-ctx.Done():
		return tools.ProbeResult{Error: ctx.Err().Error()}
	}
}

func TestExistenceProbe_Check(t *testing.T) {
	resolver := &fakeResolver{records: map[models.RecordType][]models.DNSRecord{
		models.RecordTypeA:  {{Address: "192.0.2.1"}},
		models.RecordTypeMX: {},
	}}
	prober := &fakeProber{result: tools.ProbeResult{Reachable: true, StatusCode: 301}}

	got := NewExistenceProbe(resolver, prober, time.Second, time.Second, nil).
		Check(context.Background(), "http://example.com", "example.com")

	if !got.Exists() {
		t.Error("Expected domain to exist")
	}
	if !got.DNS.Has(models.RecordTypeA) {
		t.Error("Expected A record")
	}
	if got.DNS[models.RecordTypeMX] != nil {
		t.Error("Expected empty MX answer to be normalized to nil")
	}
	if len(got.DNS) != len(models.RecordTypes) {
		t.Errorf("Expected every record type present, got %v", got.DNS)
	}
	if len(resolver.calls) != 3 {
		t.Errorf("Expected 3 DNS queries, got %d", len(resolver.calls))
	}
}

func TestExistenceProbe_ResolverFailure(t *testing.T) {
	resolver := &fakeResolver{err: errors.New("SERVFAIL")}
	prober := &fakeProber{result: tools.ProbeResult{Reachable: true, StatusCode: 200}}

	got := NewExistenceProbe(resolver, prober, time.Second, time.Second, nil).
		Check(context.Background(), "http://example.com", "example.com")

	if got.Exists() {
		t.Error("Expected no existence without DNS records")
	}
	if got.DNS.Any() {
		t.Errorf("Expected no records, got %v", got.DNS)
	}
}

func TestExistenceProbe_RunsConcurrentlyWithTimeouts(t *testing.T) {
	probe := NewExistenceProbe(
		slowResolver{delay: 200 * time.Millisecond},
		slowProber{delay: 5 * time.Second},
		time.Second,
		300*time.Millisecond,
		nil,
	)

	start := time.Now()
	got := probe.Check(context.Background(), "http://example.com", "example.com")
	elapsed := time.Since(start)

	if elapsed > 2*time.Second {
		t.Errorf("Expected concurrent lookups bounded by the slowest timeout, took %v", elapsed)
	}
	if !got.DNS.Has(models.RecordTypeA) {
		t.Error("Expected DNS to finish within its timeout")
	}
	if got.HTTP.Reachable {
		t.Error("Expected HTTP probe to time out as unreachable")
	}
}
