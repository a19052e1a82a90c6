package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxResponseBytes bounds how much of a model server response is read.
const maxResponseBytes = 1 << 20

// RemoteClassifier posts the URL to an inference endpoint. The endpoint
// may answer with label scores, [{"label": "...", "score": 0.9}] (optionally
// nested one level), or with raw logits, {"logits": [...]}, in Labels order.
type RemoteClassifier struct {
	endpoint  string
	client    *http.Client
	maxLength int
}

func NewRemoteClassifier(endpoint string, timeout time.Duration, maxLength int) *RemoteClassifier {
	return &RemoteClassifier{
		endpoint:  endpoint,
		client:    &http.Client{Timeout: timeout},
		maxLength: maxLength,
	}
}

type remoteRequest struct {
	Inputs string `json:"inputs"`
}

type labelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

func (c *RemoteClassifier) Classify(ctx context.Context, rawURL string) (Prediction, error) {
	body, err := json.Marshal(remoteRequest{Inputs: Truncate(rawURL, c.maxLength)})
	if err != nil {
		return Prediction{}, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Prediction{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Prediction{}, fmt.Errorf("%w: %w", ErrClassifierUnavailable, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Prediction{}, fmt.Errorf("%w: reading response: %w", ErrClassifierUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		return Prediction{}, fmt.Errorf("%w: endpoint responded %d", ErrClassifierUnavailable, resp.StatusCode)
	}

	return decodePrediction(payload)
}

func decodePrediction(payload []byte) (Prediction, error) {
	var logits struct {
		Logits []float64 `json:"logits"`
	}
	if err := json.Unmarshal(payload, &logits); err == nil && logits.Logits != nil {
		return FromLogits(logits.Logits)
	}

	var scores []labelScore
	if err := json.Unmarshal(payload, &scores); err != nil {
		var nested [][]labelScore
		if nestedErr := json.Unmarshal(payload, &nested); nestedErr != nil || len(nested) == 0 {
			return Prediction{}, fmt.Errorf("unrecognized classifier response: %w", err)
		}
		scores = nested[0]
	}

	if len(scores) == 0 {
		return Prediction{}, fmt.Errorf("classifier returned no scores")
	}

	best := scores[0]
	for _, s := range scores[1:] {
		if s.Score > best.Score {
			best = s
		}
	}

	label, err := ParseLabel(best.Label)
	if err != nil {
		return Prediction{}, err
	}
	if best.Score < MinConfidence() || best.Score > 1 {
		return Prediction{}, fmt.Errorf("score %v out of range [%.2f, 1]", best.Score, MinConfidence())
	}

	return Prediction{Label: label, Confidence: best.Score}, nil
}
