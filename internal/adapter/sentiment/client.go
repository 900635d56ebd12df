// internal/adapter/sentiment/client.go

package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// ErrUnavailable is returned when the classification endpoint cannot be reached
var ErrUnavailable = errors.New("sentiment service unavailable")

// Config contains configuration for the sentiment client
type Config struct {
	Endpoint      string
	Token         string
	Timeout       time.Duration
	RatePerSecond float64
	Burst         int
}

// Client classifies text through a text-classification inference endpoint.
// The endpoint receives {"inputs": text} and answers with a list of
// {"label", "score"} candidates, optionally nested one level.
type Client struct {
	config     Config
	httpClient *http.Client
	limiter    *rate.Limiter
}

type candidate struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// NewClient creates a new sentiment client
func NewClient(config Config) *Client {
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	if config.Burst <= 0 {
		config.Burst = 1
	}

	limit := rate.Inf
	if config.RatePerSecond > 0 {
		limit = rate.Limit(config.RatePerSecond)
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		limiter:    rate.NewLimiter(limit, config.Burst),
	}
}

// Classify returns the highest scoring label for text and its confidence in [0,1]
func (c *Client) Classify(ctx context.Context, text string) (string, float64, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", 0, fmt.Errorf("rate limiter: %w", err)
	}

	body, err := json.Marshal(map[string]string{"inputs": text})
	if err != nil {
		return "", 0, fmt.Errorf("error marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", 0, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", 0, fmt.Errorf("%w: status code %d", ErrUnavailable, resp.StatusCode)
	}

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return "", 0, fmt.Errorf("error decoding response: %w", err)
	}

	best, err := bestCandidate(raw)
	if err != nil {
		return "", 0, err
	}

	return strings.ToUpper(best.Label), best.Score, nil
}

func bestCandidate(raw json.RawMessage) (candidate, error) {
	var flat []candidate
	if err := json.Unmarshal(raw, &flat); err != nil {
		var nested [][]candidate
		if err := json.Unmarshal(raw, &nested); err != nil || len(nested) == 0 {
			return candidate{}, fmt.Errorf("unexpected classification response: %s", string(raw))
		}
		flat = nested[0]
	}

	if len(flat) == 0 {
		return candidate{}, errors.New("classification response has no labels")
	}

	best := flat[0]
	for _, c := range flat[1:] {
		if c.Score > best.Score {
			best = c
		}
	}

	if best.Score < 0 || best.Score > 1 {
		return candidate{}, fmt.Errorf("confidence %f outside [0,1]", best.Score)
	}
	return best, nil
}
