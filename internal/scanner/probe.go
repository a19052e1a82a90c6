package scanner

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"urlsentinel/internal/logger"
	"urlsentinel/internal/metrics"
	"urlsentinel/internal/scanner/tools"
	"urlsentinel/pkg/models"
)

// Resolver answers DNS queries for one record type.
type Resolver interface {
	Resolve(ctx context.Context, domain string, t models.RecordType) ([]models.DNSRecord, error)
}

// Prober checks HTTP reachability of a URL.
type Prober interface {
	Probe(ctx context.Context, url string) tools.ProbeResult
}

// Existence is the combined DNS and HTTP evidence for a target.
type Existence struct {
	DNS  models.DNSSignal
	HTTP tools.ProbeResult
}

// Exists requires at least one record type and a reachable URL.
func (e Existence) Exists() bool {
	return e.DNS.Any() && e.HTTP.Reachable
}

// ExistenceProbe runs the DNS queries and the HTTP probe concurrently,
// each under its own timeout.
type ExistenceProbe struct {
	resolver    Resolver
	prober      Prober
	dnsTimeout  time.Duration
	httpTimeout time.Duration
	metrics     *metrics.Metrics
}

func NewExistenceProbe(resolver Resolver, prober Prober, dnsTimeout, httpTimeout time.Duration, m *metrics.Metrics) *ExistenceProbe {
	return &ExistenceProbe{
		resolver:    resolver,
		prober:      prober,
		dnsTimeout:  dnsTimeout,
		httpTimeout: httpTimeout,
		metrics:     m,
	}
}

// Check never fails. Every record type is present in the returned signal;
// failed or empty lookups map to nil.
func (p *ExistenceProbe) Check(ctx context.Context, rawURL, domain string) Existence {
	log := logger.GetFromContext(ctx, logger.Get())

	result := Existence{DNS: make(models.DNSSignal, len(models.RecordTypes))}
	var mu sync.Mutex

	var g errgroup.Group

	for _, rt := range models.RecordTypes {
		g.Go(func() error {
			qctx, cancel := context.WithTimeout(ctx, p.dnsTimeout)
			defer cancel()

			start := time.Now()
			records, err := p.resolver.Resolve(qctx, domain, rt)
			duration := time.Since(start)

			signal := "dns_" + strings.ToLower(string(rt))
			p.metrics.ObserveSignal(signal, duration, err != nil)

			if err != nil {
				log.Warn("dns lookup failed",
					slog.String("domain", domain),
					slog.String("type", string(rt)),
					slog.String("error", err.Error()),
					slog.Duration("duration", duration))
				records = nil
			} else {
				log.Debug("dns lookup completed",
					slog.String("domain", domain),
					slog.String("type", string(rt)),
					slog.Int("records", len(records)),
					slog.Duration("duration", duration))
			}

			if len(records) == 0 {
				records = nil
			}

			mu.Lock()
			result.DNS[rt] = records
			mu.Unlock()
			return nil
		})
	}

	g.Go(func() error {
		hctx, cancel := context.WithTimeout(ctx, p.httpTimeout)
		defer cancel()

		start := time.Now()
		probe := p.prober.Probe(hctx, rawURL)
		duration := time.Since(start)

		p.metrics.ObserveSignal("http", duration, !probe.Reachable)

		if !probe.Reachable {
			log.Warn("http probe failed",
				slog.String("url", rawURL),
				slog.String("error", probe.Error),
				slog.Duration("duration", duration))
		} else {
			log.Debug("http probe completed",
				slog.String("url", rawURL),
				slog.Int("status", probe.StatusCode),
				slog.Duration("duration", duration))
		}

		mu.Lock()
		result.HTTP = probe
		mu.Unlock()
		return nil
	})

	_ = g.Wait()

	return result
}
