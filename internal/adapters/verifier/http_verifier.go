package verifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/phishguard/linkguard/internal/core"
	"go.uber.org/zap"
)

// HTTPVerifier is an implementation of the Verifier interface calling
// the verification service over HTTP. It is the only component that
// talks to the external classifier, and it never fails: any transport,
// status or decoding problem degrades to an "unknown" verdict.
type HTTPVerifier struct {
	client           *http.Client
	endpoint         string
	fallbackEndpoint string
	logger           *zap.Logger
}

// verifyResponse mirrors the verdict-shaped JSON the service returns.
// Either status or is_phishing may be present; confidence and reason
// may be top-level or nested under meta.
type verifyResponse struct {
	Status     string   `json:"status"`
	IsPhishing *bool    `json:"is_phishing"`
	Confidence *float64 `json:"confidence"`
	Reason     string   `json:"reason"`
	Meta       struct {
		Confidence *float64 `json:"confidence"`
		Reason     string   `json:"reason"`
	} `json:"meta"`
}

// NewHTTPVerifier creates a new HTTP verifier. fallbackEndpoint may be
// empty; when set, it is tried once after the primary endpoint fails.
func NewHTTPVerifier(endpoint, fallbackEndpoint string, timeout time.Duration, logger *zap.Logger) *HTTPVerifier {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPVerifier{
		client:           &http.Client{Timeout: timeout},
		endpoint:         endpoint,
		fallbackEndpoint: fallbackEndpoint,
		logger:           logger,
	}
}

// Verify checks a URL against the verification service and returns the
// normalized verdict.
func (c *HTTPVerifier) Verify(ctx context.Context, targetURL string) core.Verdict {
	verdict, err := c.post(ctx, c.endpoint, targetURL)
	if err != nil && c.fallbackEndpoint != "" {
		c.logger.Debug("Primary verification endpoint failed, trying fallback",
			zap.Error(err),
			zap.String("fallback", c.fallbackEndpoint))
		verdict, err = c.post(ctx, c.fallbackEndpoint, targetURL)
	}
	if err != nil {
		c.logger.Warn("Verification request failed",
			zap.Error(err),
			zap.String("url", targetURL))
		conf := 0.0
		return core.Verdict{
			Status:     "unknown",
			Confidence: &conf,
			Reason:     fmt.Sprintf("network error: %v", err),
		}
	}
	return verdict
}

// post issues one verification request and normalizes the response.
func (c *HTTPVerifier) post(ctx context.Context, endpoint, targetURL string) (core.Verdict, error) {
	body, err := json.Marshal(map[string]string{"url": targetURL})
	if err != nil {
		return core.Verdict{}, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return core.Verdict{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return core.Verdict{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return core.Verdict{}, fmt.Errorf("HTTP %d from %s", resp.StatusCode, endpoint)
	}

	var data verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return core.Verdict{}, fmt.Errorf("failed to decode response: %w", err)
	}

	return normalize(data), nil
}

// normalize maps the loosely shaped service response to a Verdict. A
// response missing every recognized field still yields a usable
// "unknown" verdict.
func normalize(data verifyResponse) core.Verdict {
	status := data.Status
	if status == "" {
		switch {
		case data.IsPhishing != nil && *data.IsPhishing:
			status = "phishing"
		case data.IsPhishing != nil:
			status = "legitimate"
		default:
			status = "unknown"
		}
	}

	confidence := data.Confidence
	if confidence == nil {
		confidence = data.Meta.Confidence
	}

	reason := data.Reason
	if reason == "" {
		reason = data.Meta.Reason
	}

	return core.Verdict{
		Status:     status,
		Confidence: confidence,
		Reason:     reason,
	}
}
