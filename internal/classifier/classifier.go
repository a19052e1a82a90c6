// Package classifier assigns a URL one of four content labels with a
// confidence in [0, 1].
package classifier

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"urlsentinel/pkg/models"
)

var ErrClassifierUnavailable = errors.New("classifier unavailable")

// Labels is the fixed label order shared by every classifier. Logit
// vectors are indexed by this order.
var Labels = []models.URLType{
	models.URLTypeBenign,
	models.URLTypePhishing,
	models.URLTypeDefacement,
	models.URLTypeMalware,
}

// Prediction is the argmax label and its softmax probability.
type Prediction struct {
	Label      models.URLType `json:"label"`
	Confidence float64        `json:"confidence"`
}

// Malicious reports whether the label is anything other than benign.
func (p Prediction) Malicious() bool {
	return p.Label != models.URLTypeBenign
}

type Classifier interface {
	Classify(ctx context.Context, url string) (Prediction, error)
}

// Truncate cuts url to at most maxLength bytes without splitting a
// multi-byte rune. A non-positive maxLength leaves url unchanged.
func Truncate(url string, maxLength int) string {
	if maxLength <= 0 || len(url) <= maxLength {
		return url
	}
	cut := maxLength
	for cut > 0 && !utf8.RuneStart(url[cut]) {
		cut--
	}
	return url[:cut]
}

// MinConfidence is the lowest confidence an argmax over Labels can have.
func MinConfidence() float64 {
	return 1 / float64(len(Labels))
}

// Softmax returns the normalized exponentials of logits.
func Softmax(logits []float64) []float64 {
	if len(logits) == 0 {
		return nil
	}

	maxLogit := logits[0]
	for _, l := range logits[1:] {
		maxLogit = math.Max(maxLogit, l)
	}

	probs := make([]float64, len(logits))
	var sum float64
	for i, l := range logits {
		probs[i] = math.Exp(l - maxLogit)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}

	return probs
}

// FromLogits applies softmax and picks the most probable label. Ties go
// to the earlier label.
func FromLogits(logits []float64) (Prediction, error) {
	if len(logits) != len(Labels) {
		return Prediction{}, fmt.Errorf("expected %d logits, got %d", len(Labels), len(logits))
	}
	for _, l := range logits {
		if math.IsNaN(l) || math.IsInf(l, 0) {
			return Prediction{}, fmt.Errorf("non-finite logit %v", l)
		}
	}

	probs := Softmax(logits)
	best := 0
	for i := 1; i < len(probs); i++ {
		if probs[i] > probs[best] {
			best = i
		}
	}

	return Prediction{Label: Labels[best], Confidence: probs[best]}, nil
}

// ParseLabel maps a label name to its URL type. Generic names of the
// form LABEL_<n> resolve through Labels.
func ParseLabel(name string) (models.URLType, error) {
	for _, l := range Labels {
		if strings.EqualFold(string(l), name) {
			return l, nil
		}
	}

	var idx int
	if _, err := fmt.Sscanf(name, "LABEL_%d", &idx); err == nil && idx >= 0 && idx < len(Labels) {
		return Labels[idx], nil
	}

	return "", fmt.Errorf("unknown label %q", name)
}
