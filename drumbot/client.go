// SPDX-License-Identifier: EPL-2.0

package drumbot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ik5/drumbox/sequencer"
)

// DefaultBaseURL is the public drumbot service.
const DefaultBaseURL = "https://api.noopschallenge.com/drumbot"

const defaultFetchLimit = 8

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets a per-request timeout. Zero or negative means none.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http = &http.Client{Timeout: d, Transport: c.http.Transport}
		}
	}
}

// WithFetchLimit caps how many patterns FetchAll requests at once.
func WithFetchLimit(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.fetchLimit = n
		}
	}
}

// Client talks to a drumbot pattern service.
//
// Client is safe for concurrent use.
type Client struct {
	baseURL    string
	http       *http.Client
	fetchLimit int
}

// New returns a client for baseURL, or DefaultBaseURL when it is empty.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		http:       &http.Client{},
		fetchLimit: defaultFetchLimit,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the service root without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

type slimPattern struct {
	Name string `json:"name"`
}

// List returns the names of every pattern the service offers, in the
// order it lists them.
func (c *Client) List(ctx context.Context) ([]string, error) {
	var slim []slimPattern
	if err := c.getJSON(ctx, c.baseURL+"/patterns", &slim); err != nil {
		return nil, fmt.Errorf("drumbot: list patterns: %w", err)
	}

	names := make([]string, 0, len(slim))
	for _, p := range slim {
		names = append(names, p.Name)
	}
	return names, nil
}

// Get fetches one pattern by name.
func (c *Client) Get(ctx context.Context, name string) (sequencer.Pattern, error) {
	var p sequencer.Pattern
	if err := c.getJSON(ctx, c.baseURL+"/patterns/"+url.PathEscape(name), &p); err != nil {
		return sequencer.Pattern{}, fmt.Errorf("drumbot: get pattern %q: %w", name, err)
	}
	return p, nil
}

// FetchAll lists the patterns and fetches all of them concurrently. The
// result follows the listing order. Any failure aborts the whole fetch.
func (c *Client) FetchAll(ctx context.Context) ([]sequencer.Pattern, error) {
	names, err := c.List(ctx)
	if err != nil {
		return nil, err
	}

	patterns := make([]sequencer.Pattern, len(names))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(c.fetchLimit)
	for i, name := range names {
		eg.Go(func() error {
			p, err := c.Get(egCtx, name)
			if err != nil {
				return err
			}
			patterns[i] = p
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return patterns, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("http: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
