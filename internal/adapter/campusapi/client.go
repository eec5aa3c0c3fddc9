// Package campusapi queries the College Scorecard schools endpoint for
// campus autocomplete.
package campusapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/lukegrady1/Roomify/internal/platform/logger"
	"github.com/lukegrady1/Roomify/internal/search/domain"
	"github.com/lukegrady1/Roomify/internal/search/format"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const (
	requestedFields = "id,school.name,school.city,school.state,location.lat,location.lon"
	// Predominantly associate's and bachelor's granting institutions.
	degreesAwarded = "2,3"
	maxRetries     = 2
)

// Client implements domain.CampusProvider.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *logger.Logger
	backoff func() backoff.BackOff
}

type Option func(*Client)

// WithHTTPClient replaces the instrumented default client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func New(baseURL, apiKey string, timeout time.Duration, log *logger.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger:  log.Named("CampusAPI"),
		backoff: func() backoff.BackOff { return backoff.NewExponentialBackOff() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type school struct {
	ID    int      `json:"id"`
	Name  string   `json:"school.name"`
	City  string   `json:"school.city"`
	State string   `json:"school.state"`
	Lat   *float64 `json:"location.lat"`
	Lon   *float64 `json:"location.lon"`
}

type schoolsResponse struct {
	Results []school `json:"results"`
}

// statusError carries a non-200 response status.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("campus api returned status %d", e.code)
}

// Search returns up to limit schools whose name matches text. Rate limiting
// and server errors are retried; other client errors are not.
func (c *Client) Search(ctx context.Context, text string, limit int) ([]domain.Campus, error) {
	text = strings.TrimSpace(text)
	if text == "" || limit <= 0 {
		return []domain.Campus{}, nil
	}
	reqURL, err := c.requestURL(text, limit)
	if err != nil {
		return nil, err
	}

	b := backoff.WithContext(backoff.WithMaxRetries(c.backoff(), maxRetries), ctx)
	body, err := backoff.RetryWithData(func() (*schoolsResponse, error) {
		return c.fetch(ctx, reqURL)
	}, b)
	if err != nil {
		c.logger.Warn("campus lookup failed", zap.String("query", text), zap.Error(err))
		return nil, err
	}

	campuses := make([]domain.Campus, 0, len(body.Results))
	for _, s := range body.Results {
		if s.Name == "" {
			continue
		}
		campuses = append(campuses, toCampus(s))
		if len(campuses) == limit {
			break
		}
	}
	return campuses, nil
}

func (c *Client) requestURL(text string, limit int) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid campus api url %q: %w", c.baseURL, err)
	}
	q := u.Query()
	q.Set("school.name", text)
	q.Set("school.degrees_awarded.predominant", degreesAwarded)
	q.Set("fields", requestedFields)
	q.Set("per_page", strconv.Itoa(limit))
	if c.apiKey != "" {
		q.Set("api_key", c.apiKey)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *Client) fetch(ctx context.Context, reqURL string) (*schoolsResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		serr := &statusError{code: resp.StatusCode}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return nil, serr
		}
		return nil, backoff.Permanent(serr)
	}

	var body schoolsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to decode campus api response: %w", err))
	}
	return &body, nil
}

func toCampus(s school) domain.Campus {
	c := domain.Campus{
		ID:      "scorecard-" + strconv.Itoa(s.ID),
		Name:    s.Name,
		City:    s.City,
		State:   s.State,
		Country: "USA",
		Slug:    format.Slugify(s.Name),
	}
	if s.Lat != nil && s.Lon != nil {
		c.Lat, c.Lng = s.Lat, s.Lon
	}
	return c
}

// StatusCode extracts the HTTP status from an error returned by Search.
func StatusCode(err error) (int, bool) {
	var serr *statusError
	if errors.As(err, &serr) {
		return serr.code, true
	}
	return 0, false
}
