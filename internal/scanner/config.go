package scanner

import (
	"fmt"

	"urlsentinel/internal/classifier"
	"urlsentinel/internal/config"
	"urlsentinel/internal/metrics"
	"urlsentinel/internal/scanner/tools"
	"urlsentinel/internal/target"
	"urlsentinel/internal/trust"
)

// NewClassifier builds the classifier selected by cfg.
func NewClassifier(cfg *config.Config) (classifier.Classifier, error) {
	switch cfg.Classifier.Mode {
	case config.ClassifierModeLexical:
		return classifier.NewLexicalClassifier(cfg.Classifier.MaxLength), nil
	case config.ClassifierModeRemote:
		return classifier.NewRemoteClassifier(cfg.Classifier.Endpoint, cfg.Scan.ClassifierTimeout, cfg.Classifier.MaxLength), nil
	default:
		return nil, fmt.Errorf("unknown classifier mode: %s", cfg.Classifier.Mode)
	}
}

// NewFromConfig wires the network tools, trust list and classifier
// described by cfg into a scanner.
func NewFromConfig(cfg *config.Config, m *metrics.Metrics) (*ScannerImpl, error) {
	canonicalizer := &target.Canonicalizer{StripWWW: cfg.Scan.StripWWW}

	trustSet, err := trust.Load(cfg.Scan.TrustListPath, canonicalizer)
	if err != nil {
		return nil, fmt.Errorf("failed to load trust list: %w", err)
	}

	cls, err := NewClassifier(cfg)
	if err != nil {
		return nil, err
	}

	probe := NewExistenceProbe(
		tools.NewDNSClient(cfg.Scan.Resolver, cfg.Scan.DNSTimeout),
		tools.NewHTTPProbe(cfg.Scan.HTTPTimeout, cfg.Scan.UserAgent),
		cfg.Scan.DNSTimeout,
		cfg.Scan.HTTPTimeout,
		m,
	)

	registry := tools.NewRegistry(
		cfg.Whois.RatePerSecond,
		cfg.Whois.Burst,
		tools.NewWhoisSource(cfg.Scan.WhoisTimeout),
		tools.NewRDAPSource(cfg.Scan.WhoisTimeout, cfg.Scan.UserAgent),
	)

	return NewScanner(Dependencies{
		Trust:             trustSet,
		Canonicalizer:     canonicalizer,
		Probe:             probe,
		Registry:          registry,
		Classifier:        cls,
		Metrics:           m,
		WhoisTimeout:      cfg.Scan.WhoisTimeout,
		ClassifierTimeout: cfg.Scan.ClassifierTimeout,
	}), nil
}

// TrustListSize reports how many domains the scanner trusts.
func (s *ScannerImpl) TrustListSize() int {
	return s.trust.Len()
}
