package target

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// Domain is a host split along its public suffix.
type Domain struct {
	Host      string `json:"host"`
	Subdomain string `json:"subdomain,omitempty"`
	Label     string `json:"label"`
	Suffix    string `json:"suffix"`
}

// Name returns the registrable domain (label.suffix). It is the key used
// for the trust list, DNS and registration lookups.
func (d Domain) Name() string {
	return d.Label + "." + d.Suffix
}

// Canonicalizer derives registrable domains from hosts.
type Canonicalizer struct {
	StripWWW bool
}

// NewCanonicalizer returns a Canonicalizer that strips a leading "www."
// label before extraction.
func NewCanonicalizer() *Canonicalizer {
	return &Canonicalizer{StripWWW: true}
}

// FromURL canonicalizes the host of u.
func (c *Canonicalizer) FromURL(u *url.URL) (Domain, error) {
	return c.Canonicalize(u.Hostname())
}

// Canonicalize splits host into subdomain, label and public suffix.
// Canonicalize(d.Name()) returns the same Name for any result d.
func (c *Canonicalizer) Canonicalize(host string) (Domain, error) {
	host = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(host)), ".")
	if c.StripWWW {
		host = strings.TrimPrefix(host, "www.")
	}

	if host == "" {
		return Domain{}, fmt.Errorf("%w: empty host", ErrDomainExtraction)
	}
	if net.ParseIP(host) != nil {
		return Domain{}, fmt.Errorf("%w: %q is an IP address", ErrDomainExtraction, host)
	}

	suffix, icann := publicsuffix.PublicSuffix(host)
	// Unlisted TLDs fall back to their last label with icann=false; listed
	// private suffixes always span more than one label.
	if suffix == "" || (!icann && !strings.Contains(suffix, ".")) {
		return Domain{}, fmt.Errorf("%w: unknown public suffix for %q", ErrDomainExtraction, host)
	}

	registrable, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return Domain{}, fmt.Errorf("%w: %v", ErrDomainExtraction, err)
	}

	label := strings.TrimSuffix(registrable, "."+suffix)
	if label == "" || label == registrable {
		return Domain{}, fmt.Errorf("%w: no registrable label in %q", ErrDomainExtraction, host)
	}

	return Domain{
		Host:      host,
		Subdomain: strings.TrimSuffix(strings.TrimSuffix(host, registrable), "."),
		Label:     label,
		Suffix:    suffix,
	}, nil
}
