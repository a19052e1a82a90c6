package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/likexian/whois"
	whoisparser "github.com/likexian/whois-parser"
	"golang.org/x/time/rate"

	"urlsentinel/pkg/models"
)

// ErrNoRegistrationData is returned when every registration source fails.
var ErrNoRegistrationData = errors.New("no registration data available")

// RegistrationSource returns registration data for a registrable domain.
type RegistrationSource interface {
	Name() string
	Lookup(ctx context.Context, domain string) (models.WhoisSignal, error)
}

// WhoisSource queries port-43 WHOIS and parses the response.
type WhoisSource struct {
	client  *whois.Client
	timeout time.Duration
}

// NewWhoisSource returns a WHOIS source that gives up after timeout.
func NewWhoisSource(timeout time.Duration) *WhoisSource {
	client := whois.NewClient()
	client.SetTimeout(timeout)

	return &WhoisSource{client: client, timeout: timeout}
}

func (s *WhoisSource) Name() string { return "whois" }

// Lookup fetches and parses WHOIS data for a domain.
func (s *WhoisSource) Lookup(ctx context.Context, domain string) (models.WhoisSignal, error) {
	domain = normalizeDomain(domain)

	type outcome struct {
		signal models.WhoisSignal
		err    error
	}
	done := make(chan outcome, 1)

	go func() {
		raw, err := s.client.Whois(domain)
		if err != nil {
			done <- outcome{err: fmt.Errorf("WHOIS fetch failed: %w", err)}
			return
		}

		signal, err := ParseWhois(raw)
		done <- outcome{signal: signal, err: err}
	}()

	timer := time.NewTimer(s.timeout)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return models.WhoisSignal{}, fmt.Errorf("WHOIS query cancelled: %w", ctx.Err())
	case res := <-done:
		return res.signal, res.err
	case <-timer.C:
		return models.WhoisSignal{}, fmt.Errorf("WHOIS query timeout after %s", s.timeout)
	}
}

// ParseWhois extracts the registration fields from a raw WHOIS response.
func ParseWhois(raw string) (models.WhoisSignal, error) {
	parsed, err := whoisparser.Parse(raw)
	if err != nil {
		return models.WhoisSignal{}, fmt.Errorf("WHOIS parse failed: %w", err)
	}

	signal := models.WhoisSignal{Source: "whois"}

	if parsed.Registrar != nil {
		signal.Registrar = parsed.Registrar.Name
	}

	// Owner is the registrant organization, falling back to the name
	if parsed.Registrant != nil {
		if parsed.Registrant.Organization != "" {
			signal.Owner = parsed.Registrant.Organization
		} else {
			signal.Owner = parsed.Registrant.Name
		}
	}

	if parsed.Domain != nil {
		signal.CreationDate = parsedInstant(parsed.Domain.CreatedDateInTime, parsed.Domain.CreatedDate)
		signal.ExpirationDate = parsedInstant(parsed.Domain.ExpirationDateInTime, parsed.Domain.ExpirationDate)
		signal.UpdatedDate = parsedInstant(parsed.Domain.UpdatedDateInTime, parsed.Domain.UpdatedDate)
		for _, ns := range parsed.Domain.NameServers {
			signal.NameServers = append(signal.NameServers, strings.ToLower(ns))
		}
	}

	return signal, nil
}

// Registry tries each registration source in order behind a shared rate
// limit and returns the first successful answer.
type Registry struct {
	sources []RegistrationSource
	limiter *rate.Limiter
}

// NewRegistry returns a registry throttled to ratePerSecond queries with
// the given burst. A non-positive rate disables throttling.
func NewRegistry(ratePerSecond float64, burst int, sources ...RegistrationSource) *Registry {
	limit := rate.Limit(ratePerSecond)
	if ratePerSecond <= 0 {
		limit = rate.Inf
	}
	return &Registry{
		sources: sources,
		limiter: rate.NewLimiter(limit, burst),
	}
}

// Lookup never returns an error: failures are reported through the
// signal's Error field so callers can treat the age as unknown. When ctx
// carries a deadline, each source gets an equal share of the time that
// remains, so a hanging primary still leaves room for the fallback.
func (r *Registry) Lookup(ctx context.Context, domain string) models.WhoisSignal {
	if len(r.sources) == 0 {
		return models.WhoisSignal{Error: ErrNoRegistrationData.Error()}
	}

	var errs []error
	for i, src := range r.sources {
		if ctx.Err() != nil {
			errs = append(errs, fmt.Errorf("%s: %w", src.Name(), ctx.Err()))
			break
		}

		sctx, cancel := sourceContext(ctx, len(r.sources)-i)
		signal, err := r.lookup(sctx, src, domain)
		cancel()

		if err == nil {
			return signal
		}
		errs = append(errs, fmt.Errorf("%s: %w", src.Name(), err))
	}

	return models.WhoisSignal{
		Error: fmt.Errorf("%w: %w", ErrNoRegistrationData, errors.Join(errs...)).Error(),
	}
}

func (r *Registry) lookup(ctx context.Context, src RegistrationSource, domain string) (models.WhoisSignal, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return models.WhoisSignal{}, fmt.Errorf("rate limit wait: %w", err)
	}

	signal, err := src.Lookup(ctx, domain)
	if err != nil {
		return models.WhoisSignal{}, err
	}
	if signal.Source == "" {
		signal.Source = src.Name()
	}
	return signal, nil
}

// sourceContext splits the remaining budget of ctx evenly across the
// sources still to be tried.
func sourceContext(ctx context.Context, remaining int) (context.Context, context.CancelFunc) {
	deadline, ok := ctx.Deadline()
	if !ok || remaining <= 1 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, time.Until(deadline)/time.Duration(remaining))
}

// parsedInstant prefers the date whois-parser already resolved and falls
// back to the raw string.
func parsedInstant(resolved *time.Time, raw string) *time.Time {
	if resolved != nil && !resolved.IsZero() {
		t := resolved.UTC()
		return &t
	}
	return instantPtr(raw)
}

func instantPtr(v any) *time.Time {
	t, ok := NormalizeInstant(v)
	if !ok {
		return nil
	}
	return &t
}
