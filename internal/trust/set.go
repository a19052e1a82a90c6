package trust

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"urlsentinel/internal/logger"
	"urlsentinel/internal/target"
)

//go:embed default_domains.txt
var defaultDomains string

// Set is an immutable set of pre-vetted registrable domains. It is safe
// for concurrent use by any number of readers.
type Set struct {
	domains map[string]struct{}
}

// Contains reports whether domain is trusted. The argument must already
// be canonical.
func (s *Set) Contains(domain string) bool {
	if s == nil {
		return false
	}
	_, ok := s.domains[domain]
	return ok
}

// Len returns the number of trusted domains.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.domains)
}

// Load reads a trust list from path, or the embedded default list when
// path is empty.
func Load(path string, c *target.Canonicalizer) (*Set, error) {
	if path == "" {
		return Parse(strings.NewReader(defaultDomains), c)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trust list: %w", err)
	}
	defer f.Close()

	return Parse(f, c)
}

// Parse reads one domain per line. CSV lines contribute their first
// column. Blank lines and lines starting with # are ignored. Every entry
// is canonicalized so that lookups and the list agree on the key.
func Parse(r io.Reader, c *target.Canonicalizer) (*Set, error) {
	set := &Set{domains: make(map[string]struct{})}
	skipped := 0

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if idx := strings.IndexByte(line, ','); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}
		line = strings.Trim(line, `"`)

		d, err := c.Canonicalize(line)
		if err != nil {
			skipped++
			continue
		}
		set.domains[d.Name()] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read trust list: %w", err)
	}

	if skipped > 0 {
		logger.Get().Warn("trust list entries skipped",
			slog.Int("skipped", skipped),
			slog.Int("loaded", len(set.domains)))
	}

	return set, nil
}

// NewSet builds a Set from already canonical domains.
func NewSet(domains ...string) *Set {
	set := &Set{domains: make(map[string]struct{}, len(domains))}
	for _, d := range domains {
		set.domains[d] = struct{}{}
	}
	return set
}
