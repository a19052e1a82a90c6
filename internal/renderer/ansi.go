package renderer

import (
	"fmt"
	"io"
	"strings"
	"time"

	"urlsentinel/pkg/models"
)

type Renderer interface {
	Render(w io.Writer, result *models.ScanResult) error
}

const (
	ansiReset  = "\033[0m"
	ansiBold   = "\033[1m"
	ansiRed    = "\033[31m"
	ansiYellow = "\033[33m"
	ansiGreen  = "\033[32m"
)

// ANSIRenderer writes a terminal report. Color can be disabled for
// output that is not a terminal.
type ANSIRenderer struct {
	Color bool
}

func NewANSIRenderer() *ANSIRenderer {
	return &ANSIRenderer{Color: true}
}

func (a *ANSIRenderer) Render(w io.Writer, result *models.ScanResult) error {
	if result == nil {
		return fmt.Errorf("result cannot be nil")
	}

	// Header
	fmt.Fprintf(w, "═══ urlsentinel ═══\n")
	fmt.Fprintf(w, "URL: %s\n", result.URL)
	fmt.Fprintf(w, "Domain: %s\n", result.Domain)
	fmt.Fprintf(w, "Scanned: %s\n\n", result.ScannedAt.UTC().Format(time.RFC3339))

	a.renderVerdict(w, result)
	a.renderSignals(w, result)
	a.renderScore(w, result.ScoreBreakdown)

	return nil
}

func (a *ANSIRenderer) renderVerdict(w io.Writer, result *models.ScanResult) {
	fmt.Fprintf(w, "[ VERDICT ]\n")

	symbol := "✓"
	if result.TrustStatus != models.TrustStatusTrusted {
		symbol = "⚠"
	}
	fmt.Fprintf(w, "  %s %s\n", symbol, a.paint(levelColor(result.RiskLevel), string(result.TrustStatus)))
	fmt.Fprintf(w, "  Risk: %s (%.2f)\n", a.paint(levelColor(result.RiskLevel), string(result.RiskLevel)), result.RiskScore)
	fmt.Fprintf(w, "  Type: %s", result.URLType)
	if result.Confidence != nil {
		fmt.Fprintf(w, " (confidence %.2f)", *result.Confidence)
	}
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "  %s\n\n", result.Verdict)
}

func (a *ANSIRenderer) renderSignals(w io.Writer, result *models.ScanResult) {
	fmt.Fprintf(w, "[ SIGNALS ]\n")

	if result.Reachable {
		fmt.Fprintf(w, "  HTTP: ✓ Reachable\n")
	} else {
		fmt.Fprintf(w, "  HTTP: ✗ Unreachable\n")
	}

	fmt.Fprintf(w, "  WHOIS: %s\n", result.WhoisSummary)
	if result.Whois != nil && result.Whois.Owner != "" {
		fmt.Fprintf(w, "    Owner: %s\n", result.Whois.Owner)
	}
	if result.Whois != nil && result.Whois.ExpirationDate != nil {
		fmt.Fprintf(w, "    Expires: %s\n", result.Whois.ExpirationDate.Format("2006-01-02"))
	}

	for i, line := range strings.Split(result.DNSSummary, "\n") {
		if i == 0 {
			fmt.Fprintf(w, "  %s\n", line)
			continue
		}
		fmt.Fprintf(w, "    • %s\n", line)
	}

	fmt.Fprintf(w, "\n")
}

func (a *ANSIRenderer) renderScore(w io.Writer, terms []models.ScoreTerm) {
	if len(terms) == 0 {
		return
	}

	fmt.Fprintf(w, "[ SCORE ]\n")
	for _, t := range terms {
		fmt.Fprintf(w, "  %+.2f  %s\n", t.Delta, t.Name)
	}
	fmt.Fprintf(w, "\n")
}

func (a *ANSIRenderer) paint(color, s string) string {
	if !a.Color {
		return s
	}
	return ansiBold + color + s + ansiReset
}

func levelColor(level models.RiskLevel) string {
	switch level {
	case models.RiskLevelHigh:
		return ansiRed
	case models.RiskLevelMedium:
		return ansiYellow
	default:
		return ansiGreen
	}
}
