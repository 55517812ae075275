// Package practicum talks to the Practicum homework-status API.
package practicum

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultEndpoint = "https://practicum.yandex.ru/api/user_api/homework_statuses/"
	DefaultTimeout  = 30 * time.Second

	maxBodyBytes  = 4 << 20
	maxErrSnippet = 512
)

type Config struct {
	Endpoint string
	Token    string
	Timeout  time.Duration
}

// Client fetches homework statuses. It does not interpret the payload.
type Client struct {
	endpoint string
	token    string
	http     *http.Client
	now      func() time.Time
}

func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("practicum token is empty")
	}
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if _, err := url.Parse(endpoint); err != nil {
		return nil, err
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		endpoint: endpoint,
		token:    cfg.Token,
		http:     &http.Client{Timeout: timeout},
		now:      time.Now,
	}, nil
}

// Fetch returns the decoded response for statuses changed since the given
// Unix timestamp. A zero timestamp means "now".
func (c *Client) Fetch(ctx context.Context, since int64) (any, error) {
	if since == 0 {
		since = c.now().Unix()
	}

	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("from_date", strconv.FormatInt(since, 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "OAuth "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	if resp.StatusCode/100 != 2 {
		return nil, &UpstreamStatusError{StatusCode: resp.StatusCode, Body: snippet(body)}
	}

	var out any
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &DecodeError{Err: err}
	}
	return out, nil
}

func snippet(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > maxErrSnippet {
		return s[:maxErrSnippet-3] + "..."
	}
	return s
}
