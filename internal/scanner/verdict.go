package scanner

import (
	"fmt"
	"strings"

	"urlsentinel/pkg/models"
)

const (
	TrustedVerdict   = "This domain is trusted and well-established."
	UntrustedVerdict = "This URL may pose a security risk. Proceed with caution."
)

// WHOIS summaries for paths that never perform the lookup.
const (
	TrustedWhoisSummary     = "Domain is on the trust list; registration lookup skipped."
	NonExistentWhoisSummary = "Domain does not resolve or respond; registration lookup skipped."
)

// Verdict returns the one-line verdict for a trust status.
func Verdict(status models.TrustStatus) string {
	if status == models.TrustStatusTrusted {
		return TrustedVerdict
	}
	return UntrustedVerdict
}

// WhoisSummary describes the registration data in one or two sentences.
func WhoisSummary(signal *models.WhoisSignal, age DomainAge) string {
	if !signal.Available() {
		return "WHOIS information not available."
	}

	var b strings.Builder
	if age.Known {
		fmt.Fprintf(&b, "Domain registered %d %s ago (%s).", age.Days, plural(age.Days, "day", "days"), age.Bucket())
	} else {
		b.WriteString("Domain age could not be determined.")
	}

	if signal.Registrar != "" {
		fmt.Fprintf(&b, " Registrar: %s.", strings.TrimSuffix(signal.Registrar, "."))
	}

	return b.String()
}

// DNSSummary renders the DNS records as a short multi-line block.
func DNSSummary(signal models.DNSSignal) string {
	if !signal.Any() {
		return "No DNS records found."
	}

	lines := []string{"DNS Information:"}
	for _, t := range models.RecordTypes {
		records := signal[t]
		if len(records) == 0 {
			lines = append(lines, fmt.Sprintf("%s: none", t))
			continue
		}

		values := make([]string, 0, len(records))
		for _, r := range records {
			values = append(values, formatRecord(t, r))
		}
		lines = append(lines, fmt.Sprintf("%s: %s", t, strings.Join(values, ", ")))
	}

	return strings.Join(lines, "\n")
}

func formatRecord(t models.RecordType, r models.DNSRecord) string {
	switch t {
	case models.RecordTypeA:
		return r.Address
	case models.RecordTypeMX:
		return fmt.Sprintf("%s (priority %d)", r.Exchange, r.Priority)
	default:
		return r.Target
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
