package tools

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// MaxRedirects bounds the redirect chain followed by the probe.
const MaxRedirects = 10

// ProbeResult is the outcome of an HTTP reachability check.
type ProbeResult struct {
	Reachable  bool
	StatusCode int
	FinalURL   string
	Error      string
}

// HTTPProbe checks whether a URL answers a HEAD request.
type HTTPProbe struct {
	client    *http.Client
	userAgent string
}

// NewHTTPProbe returns a probe that follows redirects and gives up after
// timeout.
func NewHTTPProbe(timeout time.Duration, userAgent string) *HTTPProbe {
	return &HTTPProbe{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= MaxRedirects {
					return fmt.Errorf("stopped after %d redirects", MaxRedirects)
				}
				return nil
			},
		},
		userAgent: userAgent,
	}
}

// Probe sends a HEAD request to rawURL. Any transport error or a status
// of 500 or above means unreachable.
func (p *HTTPProbe) Probe(ctx context.Context, rawURL string) ProbeResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return ProbeResult{Error: fmt.Sprintf("request creation failed: %v", err)}
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return ProbeResult{Error: fmt.Sprintf("request failed: %v", err)}
	}
	defer resp.Body.Close()

	result := ProbeResult{
		StatusCode: resp.StatusCode,
		FinalURL:   resp.Request.URL.String(),
		Reachable:  resp.StatusCode < http.StatusInternalServerError,
	}
	if !result.Reachable {
		result.Error = fmt.Sprintf("server responded %d", resp.StatusCode)
	}

	return result
}
