// Package maps wraps the Google Distance Matrix API used to price deliveries.
package maps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/guttosm/catering-service/internal/apperrors"
)

const (
	defaultBaseURL              = "https://maps.googleapis.com/maps/api"
	responseBodyReadLimit int64 = 1024
)

var errAPIKeyRequired = errors.New("google maps api key is required")

// Statuses that describe the customer's address rather than the provider.
// They are reported as NOT_FOUND.
var unroutableStatuses = map[string]bool{
	"NOT_FOUND":                 true,
	"ZERO_RESULTS":              true,
	"INVALID_REQUEST":           true,
	"MAX_ROUTE_LENGTH_EXCEEDED": true,
}

// Client calls the Distance Matrix API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the Maps API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimSpace(baseURL); trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// NewClient builds the client given an API key.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	trimmedKey := strings.TrimSpace(apiKey)
	if trimmedKey == "" {
		return nil, errAPIKeyRequired
	}

	client := &Client{
		apiKey:     trimmedKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

type distanceMatrixResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Rows         []struct {
		Elements []struct {
			Status   string `json:"status"`
			Distance struct {
				Value float64 `json:"value"`
				Text  string  `json:"text"`
			} `json:"distance"`
		} `json:"elements"`
	} `json:"rows"`
}

// DrivingDistance returns the driving distance in meters between two addresses.
func (c *Client) DrivingDistance(ctx context.Context, origin, destination string) (float64, error) {
	if c == nil {
		return 0, apperrors.New(apperrors.CodeDependency, "google maps client not configured")
	}
	origin, destination = strings.TrimSpace(origin), strings.TrimSpace(destination)
	if origin == "" || destination == "" {
		return 0, apperrors.New(apperrors.CodeValidation, "origin and destination are required")
	}

	q := url.Values{}
	q.Set("origins", origin)
	q.Set("destinations", destination)
	q.Set("mode", "driving")
	q.Set("units", "imperial")
	q.Set("key", c.apiKey)
	endpoint := fmt.Sprintf("%s/distancematrix/json?%s", strings.TrimRight(c.baseURL, "/"), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.CodeDependency, err, "build distance request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.CodeDependency, err, "execute distance request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return 0, apperrors.Wrap(apperrors.CodeDependency,
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "distance request failed")
	}

	var body distanceMatrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, apperrors.Wrap(apperrors.CodeDependency, err, "decode distance response")
	}
	if unroutableStatuses[body.Status] {
		return 0, apperrors.Newf(apperrors.CodeNotFound, "address not routable: %s", body.Status)
	}
	if body.Status != "OK" {
		return 0, apperrors.Newf(apperrors.CodeDependency, "distance matrix status %s %s", body.Status, body.ErrorMessage)
	}
	if len(body.Rows) == 0 || len(body.Rows[0].Elements) == 0 {
		return 0, apperrors.New(apperrors.CodeDependency, "distance matrix returned no elements")
	}
	el := body.Rows[0].Elements[0]
	switch {
	case unroutableStatuses[el.Status]:
		return 0, apperrors.Newf(apperrors.CodeNotFound, "no route found: %s", el.Status)
	case el.Status != "OK":
		return 0, apperrors.Newf(apperrors.CodeDependency, "distance element status %s", el.Status)
	}
	return el.Distance.Value, nil
}
