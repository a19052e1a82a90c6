package classifier

import (
	"context"
	"net"
	"net/url"
	"strings"
)

var (
	credentialKeywords = []string{
		"login", "signin", "verify", "account", "secure", "update",
		"banking", "confirm", "password", "wallet", "webscr", "ebayisapi",
	}
	payloadExtensions = []string{
		".exe", ".apk", ".scr", ".zip", ".rar", ".bin", ".msi", ".dll", ".jar", ".sh", ".bat",
	}
	abusedSuffixes = []string{
		".tk", ".ml", ".ga", ".cf", ".gq", ".xyz", ".top", ".work", ".click", ".ru", ".cn",
	}
	// CMS query fragments common in mass-defaced sites.
	defacementMarkers = []string{
		"option=com_", "index.php?", "itemid=", "hacked", "deface", "mod=", "view=article",
	}
)

// lexicalWeights holds one row per label in Labels order. Columns follow
// the order of lexicalFeatures.
var lexicalWeights = [][]float64{
	{2.0, -0.6, -2.0, -1.0, -0.8, -2.0, -2.0, -2.5, -2.5, -1.5, -2.0, 0.8, -0.3, -0.8},
	{-0.5, 0.6, 0.5, 2.0, 1.5, 1.0, 3.0, 5.0, -0.5, 1.5, -0.5, -0.2, 0.3, 1.0},
	{-1.0, 0.8, 0.5, -0.5, -0.3, -0.5, -0.5, -0.5, -1.0, -0.3, 6.0, -0.5, 1.5, -0.2},
	{-1.0, 0.2, 1.5, 0.3, 0.3, 2.5, 0.5, -0.5, 5.5, 1.5, -0.5, -0.5, -0.2, 0.5},
}

// LexicalClassifier scores a URL from its surface features with a fixed
// linear model. It needs no network and is deterministic.
type LexicalClassifier struct {
	maxLength int
}

func NewLexicalClassifier(maxLength int) *LexicalClassifier {
	return &LexicalClassifier{maxLength: maxLength}
}

func (c *LexicalClassifier) Classify(ctx context.Context, rawURL string) (Prediction, error) {
	if err := ctx.Err(); err != nil {
		return Prediction{}, err
	}

	features := lexicalFeatures(Truncate(rawURL, c.maxLength))

	logits := make([]float64, len(lexicalWeights))
	for i, row := range lexicalWeights {
		for j, w := range row {
			logits[i] += w * features[j]
		}
	}

	return FromLogits(logits)
}

func lexicalFeatures(rawURL string) []float64 {
	s := strings.ToLower(rawURL)
	target := s
	if !strings.Contains(target, "://") {
		target = "http://" + target
	}

	var host, path, query, scheme string
	if u, err := url.Parse(target); err == nil {
		host, path, query, scheme = u.Hostname(), u.Path, u.RawQuery, u.Scheme
	}

	var digits int
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits++
		}
	}

	var params int
	for _, p := range strings.Split(query, "&") {
		if p != "" {
			params++
		}
	}

	return []float64{
		1,
		float64(min(len(s), 200)) / 100,
		float64(digits) / float64(max(len(s), 1)),
		float64(min(strings.Count(host, "-"), 5)) / 5,
		float64(min(max(strings.Count(host, ".")-1, 0), 5)) / 5,
		indicator(net.ParseIP(host) != nil),
		indicator(strings.Contains(s, "@")),
		float64(min(countContained(s, credentialKeywords), 3)) / 3,
		indicator(hasAnySuffix(path, payloadExtensions)),
		indicator(hasAnySuffix(host, abusedSuffixes)),
		float64(min(countContained(s, defacementMarkers), 3)) / 3,
		indicator(scheme == "https"),
		float64(min(params, 5)) / 5,
		float64(min(strings.Count(s, "%"), 5)) / 5,
	}
}

func indicator(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func countContained(s string, needles []string) int {
	var n int
	for _, needle := range needles {
		if strings.Contains(s, needle) {
			n++
		}
	}
	return n
}

func hasAnySuffix(s string, suffixes []string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}
