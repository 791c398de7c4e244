package nexon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/time/rate"

	"github.com/omarshaarawi/fcbot/internal/config"
)

const apiKeyHeader = "x-nxopen-api-key"

var (
	ErrMalformedPayload = errors.New("malformed payload")
	ErrNoRankerData     = errors.New("no ranker data")
)

// StatusError is returned when the open API answers with anything but 200.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d: %s", e.Code, e.Body)
}

type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	Config     config.NexonAPI
}

func NewClient(cfg config.NexonAPI) *Client {
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(limit, 1),
		Config:     cfg,
	}
}

// Get issues a GET against baseURL+endpoint and decodes the JSON body into
// result. The API key header is only sent when authenticated is set; the
// static metadata files are public.
func (c *Client) Get(ctx context.Context, baseURL, endpoint string, params map[string]string, authenticated bool, result interface{}) error {
	body, err := c.getRaw(ctx, baseURL, endpoint, params, authenticated)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("error decoding response: %w", err)
	}

	return nil
}

func (c *Client) getRaw(ctx context.Context, baseURL, endpoint string, params map[string]string, authenticated bool) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	url := strings.TrimRight(baseURL, "/") + endpoint

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	q := req.URL.Query()
	for key, value := range params {
		q.Set(key, value)
	}
	req.URL.RawQuery = q.Encode()

	if authenticated {
		req.Header.Set(apiKeyHeader, c.Config.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode, Body: truncate(body, 200)}
	}

	return body, nil
}

func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}
