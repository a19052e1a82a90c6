package scanner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"urlsentinel/internal/classifier"
	"urlsentinel/internal/logger"
	"urlsentinel/internal/metrics"
	"urlsentinel/internal/target"
	"urlsentinel/internal/trust"
	"urlsentinel/pkg/models"
)

// ErrSignalUnavailable marks a signal that failed and was scored as
// neutral. It is logged, never returned from Scan.
var ErrSignalUnavailable = errors.New("signal unavailable")

type Scanner interface {
	Scan(ctx context.Context, rawURL string) (*models.ScanResult, error)
}

// RegistrationLookup returns registration data for a domain. Failures
// are reported through WhoisSignal.Error.
type RegistrationLookup interface {
	Lookup(ctx context.Context, domain string) models.WhoisSignal
}

// Dependencies are the collaborators of a ScannerImpl. Trust,
// Canonicalizer, Probe, Registry and Classifier are required.
type Dependencies struct {
	Trust             *trust.Set
	Canonicalizer     *target.Canonicalizer
	Probe             *ExistenceProbe
	Registry          RegistrationLookup
	Classifier        classifier.Classifier
	Metrics           *metrics.Metrics
	WhoisTimeout      time.Duration
	ClassifierTimeout time.Duration
	Now               func() time.Time
}

type ScannerImpl struct {
	trust             *trust.Set
	canonicalizer     *target.Canonicalizer
	probe             *ExistenceProbe
	registry          RegistrationLookup
	classifier        classifier.Classifier
	metrics           *metrics.Metrics
	whoisTimeout      time.Duration
	classifierTimeout time.Duration
	now               func() time.Time
}

func NewScanner(deps Dependencies) *ScannerImpl {
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	return &ScannerImpl{
		trust:             deps.Trust,
		canonicalizer:     deps.Canonicalizer,
		probe:             deps.Probe,
		registry:          deps.Registry,
		classifier:        deps.Classifier,
		metrics:           deps.Metrics,
		whoisTimeout:      deps.WhoisTimeout,
		classifierTimeout: deps.ClassifierTimeout,
		now:               now,
	}
}

// Scan evaluates rawURL. The only errors returned are target.ErrInvalidSyntax
// and target.ErrDomainExtraction; both are detected before any network call.
func (s *ScannerImpl) Scan(ctx context.Context, rawURL string) (*models.ScanResult, error) {
	log := logger.GetFromContext(ctx, logger.Get())

	u, err := target.Normalize(rawURL)
	if err != nil {
		s.metrics.ScanRejected("invalid_syntax")
		return nil, err
	}

	d, err := s.canonicalizer.FromURL(u)
	if err != nil {
		s.metrics.ScanRejected("domain_extraction")
		return nil, err
	}

	normalized := u.String()
	domain := d.Name()

	log = log.With(slog.String("domain", domain))
	ctx = logger.WithLogger(ctx, log)
	log.Debug("starting scan", slog.String("url", normalized))

	existence := s.probe.Check(ctx, normalized, domain)

	result := &models.ScanResult{
		URL:        normalized,
		Domain:     domain,
		Reachable:  existence.HTTP.Reachable,
		DNS:        existence.DNS,
		DNSSummary: DNSSummary(existence.DNS),
		ScannedAt:  s.now().UTC(),
	}

	var assessment Assessment

	switch {
	case s.trust.Contains(domain):
		assessment = Assess(Signals{Trusted: true})
		result.WhoisSummary = TrustedWhoisSummary

	case !existence.Exists():
		assessment = Assess(Signals{Exists: false})
		result.WhoisSummary = NonExistentWhoisSummary

	default:
		whois, prediction := s.collect(ctx, normalized, domain)
		age := EstimateAge(whois.CreationDate, s.now())

		assessment = Assess(Signals{
			Exists:     true,
			Prediction: prediction,
			Age:        age,
			DNS:        existence.DNS,
			Reachable:  existence.HTTP.Reachable,
		})

		result.Whois = &whois
		result.WhoisSummary = WhoisSummary(&whois, age)
		result.DomainAgeDays = age.DaysPtr()
		if prediction != nil {
			confidence := prediction.Confidence
			result.Confidence = &confidence
		}
	}

	result.RiskScore = assessment.Score
	result.RiskLevel = assessment.Level
	result.TrustStatus = assessment.Status
	result.URLType = assessment.URLType
	result.ScoreBreakdown = assessment.Terms
	result.Verdict = Verdict(assessment.Status)

	s.metrics.ScanCompleted(string(result.RiskLevel), string(result.URLType))

	log.Info("scan completed",
		slog.Float64("risk_score", result.RiskScore),
		slog.String("risk_level", string(result.RiskLevel)),
		slog.String("trust_status", string(result.TrustStatus)),
		slog.String("url_type", string(result.URLType)))

	return result, nil
}

// collect runs the registration lookup and the classifier concurrently.
// A failed classifier yields a nil prediction.
func (s *ScannerImpl) collect(ctx context.Context, normalized, domain string) (models.WhoisSignal, *classifier.Prediction) {
	log := logger.GetFromContext(ctx, logger.Get())

	var (
		whois      models.WhoisSignal
		prediction *classifier.Prediction
	)

	var g errgroup.Group

	g.Go(func() error {
		wctx, cancel := context.WithTimeout(ctx, s.whoisTimeout)
		defer cancel()

		start := time.Now()
		whois = s.registry.Lookup(wctx, domain)
		duration := time.Since(start)

		s.metrics.ObserveSignal("whois", duration, !whois.Available())

		if !whois.Available() {
			log.Warn("registration lookup failed",
				slog.String("error", fmt.Errorf("%w: %s", ErrSignalUnavailable, whois.Error).Error()),
				slog.Duration("duration", duration))
		} else {
			log.Debug("registration lookup completed",
				slog.String("source", whois.Source),
				slog.Duration("duration", duration))
		}
		return nil
	})

	g.Go(func() error {
		cctx, cancel := context.WithTimeout(ctx, s.classifierTimeout)
		defer cancel()

		start := time.Now()
		pred, err := s.classifier.Classify(cctx, normalized)
		duration := time.Since(start)

		s.metrics.ObserveSignal("classifier", duration, err != nil)

		if err != nil {
			log.Warn("classification failed",
				slog.String("error", fmt.Errorf("%w: %w", ErrSignalUnavailable, err).Error()),
				slog.Duration("duration", duration))
			return nil
		}

		log.Debug("classification completed",
			slog.String("label", string(pred.Label)),
			slog.Float64("confidence", pred.Confidence),
			slog.Duration("duration", duration))
		prediction = &pred
		return nil
	})

	_ = g.Wait()

	return whois, prediction
}
