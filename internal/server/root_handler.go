package server

import (
	"fmt"
	"net/http"
	"strings"

	"urlsentinel/internal/config"
	"urlsentinel/internal/json"
)

var exampleURLs = []string{
	"https://example.com",
	"http://login-verify-account.shop/secure",
	"github.com/features",
}

// ServeHome handles the root "/" route
func (h *Handler) ServeHome(w http.ResponseWriter, r *http.Request) {
	switch h.getOutputFormat(r) {
	case OutputFormatANSI:
		h.writeHomeANSI(w)
	default:
		h.writeHomeJSON(w)
	}
}

func (h *Handler) scanURL(target string) string {
	return h.config.App.BaseURL() + "/scan?url=" + target
}

func (h *Handler) writeHomeANSI(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	var b strings.Builder
	fmt.Fprintf(&b, "\033[1m\033[32m%s\033[0m - URL Trust Scanner\n\n", h.config.App.Name)

	b.WriteString("\033[1mUsage:\033[0m\n")
	b.WriteString("  curl '" + h.scanURL("<url>") + "'\n\n")

	b.WriteString("\033[1mExamples:\033[0m\n")
	for _, u := range exampleURLs {
		b.WriteString("  curl '" + h.scanURL(u) + "'\n")
	}
	b.WriteString("\n")

	b.WriteString("\033[1mOutput Formats:\033[0m\n")
	b.WriteString("  JSON (default): curl '" + h.scanURL("example.com") + "'\n")
	b.WriteString("  Text:           curl '" + h.scanURL("example.com") + "&format=text'\n")
	b.WriteString("  Text (header):  curl -H \"Accept: text/plain\" '" + h.scanURL("example.com") + "'\n\n")

	b.WriteString("\033[1mSignals:\033[0m\n")
	b.WriteString("  • Trust list of well-known domains\n")
	b.WriteString("  • DNS A/MX/NS records and HTTP reachability\n")
	b.WriteString("  • WHOIS/RDAP registration age\n")
	b.WriteString("  • Lexical URL classification\n")
	if h.config.Store.Mode != "" && h.config.Store.Mode != config.StoreModeNone {
		fmt.Fprintf(&b, "  • Scan history (%s store): %s/scans/recent\n", h.config.Store.Mode, h.config.App.BaseURL())
	}
	b.WriteString("\n")

	fmt.Fprint(w, b.String())
}

func (h *Handler) writeHomeJSON(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")

	examples := make([]string, 0, len(exampleURLs))
	for _, u := range exampleURLs {
		examples = append(examples, h.scanURL(u))
	}

	response := map[string]any{
		"name":        h.config.App.Name,
		"description": "URL Trust Scanner",
		"usage":       h.scanURL("<url>"),
		"examples":    examples,
		"formats": map[string]string{
			"json": h.scanURL("example.com"),
			"text": h.scanURL("example.com") + "&format=text",
		},
		"endpoints": []string{"/scan", "/scans/recent", "/health", "/metrics"},
		"store": map[string]any{
			"mode": h.config.Store.Mode,
		},
		"metrics": h.config.Metrics.Enabled,
	}

	json.GetJsonEncoder(w).Encode(response)
}
