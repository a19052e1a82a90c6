package target

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode"
)

// DefaultScheme is prepended to inputs that carry no scheme.
const DefaultScheme = "http"

var (
	// ErrInvalidSyntax is returned for input that is not a usable URL.
	ErrInvalidSyntax = errors.New("invalid URL format")

	// ErrDomainExtraction is returned when no registrable domain can be
	// derived from a URL's host.
	ErrDomainExtraction = errors.New("domain extraction failed")
)

// Normalize turns raw user input into a validated absolute URL. It never
// touches the network.
func Normalize(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidSyntax)
	}

	if strings.IndexFunc(raw, unicode.IsSpace) >= 0 {
		return nil, fmt.Errorf("%w: contains whitespace", ErrInvalidSyntax)
	}

	if !strings.Contains(raw, "://") {
		raw = DefaultScheme + "://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSyntax, err)
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidSyntax, u.Scheme)
	}
	u.Scheme = scheme

	host := u.Hostname()
	if host == "" {
		return nil, fmt.Errorf("%w: missing hostname", ErrInvalidSyntax)
	}
	if !strings.Contains(strings.Trim(host, "."), ".") {
		return nil, fmt.Errorf("%w: hostname %q has no dot", ErrInvalidSyntax, host)
	}

	return u, nil
}
