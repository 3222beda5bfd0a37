package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/gocolly/colly/v2"
)

// maxBodyBytes bounds how much of a relayed page is read.
const maxBodyBytes = 4 << 20

// Relay fetches a third-party page's HTML on the client's behalf.
// Each implementation has its own request shaping and response
// decoding convention; the scraper tries them strictly in order.
type Relay interface {
	Name() string
	Fetch(ctx context.Context, pageURL string) ([]byte, error)
}

// DirectRelay fetches the page itself using a Colly collector.
// It is always the first relay in the chain: outside a browser there is
// no cross-origin restriction, so the intermediaries are pure fallback.
type DirectRelay struct {
	userAgent string
	timeout   time.Duration
	base      *colly.Collector
}

// NewDirectRelay builds a DirectRelay.
func NewDirectRelay(userAgent string, timeout time.Duration) *DirectRelay {
	c := colly.NewCollector(colly.Async(false))
	c.IgnoreRobotsTxt = true
	c.WithTransport(newHTTPTransport())
	return &DirectRelay{
		userAgent: userAgent,
		timeout:   timeout,
		base:      c,
	}
}

// Name identifies the relay in logs and metrics.
func (r *DirectRelay) Name() string { return "direct" }

// Fetch executes a single HTTP GET using Colly.
func (r *DirectRelay) Fetch(ctx context.Context, pageURL string) ([]byte, error) {
	collector := r.base.Clone()
	if r.userAgent != "" {
		collector.UserAgent = r.userAgent
	}
	timeout := r.timeout
	if timeout == 0 {
		timeout = defaultAttemptTimeout
	}
	collector.SetRequestTimeout(timeout)

	var (
		body     []byte
		fetchErr error
	)
	collector.OnResponse(func(resp *colly.Response) {
		body = append([]byte(nil), resp.Body...)
	})
	collector.OnError(func(_ *colly.Response, err error) {
		fetchErr = err
	})

	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(pageURL)
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("direct fetch canceled: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			return nil, fmt.Errorf("direct visit failed: %w", err)
		}
		if fetchErr != nil {
			return nil, fmt.Errorf("direct response failed: %w", fetchErr)
		}
	}
	return body, nil
}

// ProxyRelay fetches through a public CORS relay service. Some relays
// wrap the page in a JSON envelope, others pass the body through raw.
type ProxyRelay struct {
	name     string
	baseURL  string
	envelope bool
	client   *http.Client
}

// allOriginsEnvelope is the JSON wrapper returned by allorigins-style
// relays; only the page contents matter here.
type allOriginsEnvelope struct {
	Contents string `json:"contents"`
}

// NewProxyRelay builds a relay hitting baseURL + url-encoded target.
func NewProxyRelay(name, baseURL string, envelope bool, client *http.Client) *ProxyRelay {
	if client == nil {
		client = &http.Client{Transport: newHTTPTransport()}
	}
	return &ProxyRelay{name: name, baseURL: baseURL, envelope: envelope, client: client}
}

// Name identifies the relay in logs and metrics.
func (r *ProxyRelay) Name() string { return r.name }

// Fetch issues a time-bounded GET through the relay and decodes its
// response convention.
func (r *ProxyRelay) Fetch(ctx context.Context, pageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+url.QueryEscape(pageURL), nil)
	if err != nil {
		return nil, fmt.Errorf("%s request: %w", r.name, err)
	}
	req.Header.Set("Accept", "text/html,application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s fetch: %w", r.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned status %d", r.name, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%s read body: %w", r.name, err)
	}

	if !r.envelope {
		return body, nil
	}
	var env allOriginsEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%s decode envelope: %w", r.name, err)
	}
	return []byte(env.Contents), nil
}

// DefaultRelays returns the production relay chain in try order.
func DefaultRelays(userAgent string, timeout time.Duration) []Relay {
	client := &http.Client{Transport: newHTTPTransport()}
	return []Relay{
		NewDirectRelay(userAgent, timeout),
		NewProxyRelay("allorigins", "https://api.allorigins.win/get?url=", true, client),
		NewProxyRelay("corsproxy", "https://corsproxy.io/?url=", false, client),
		NewProxyRelay("codetabs", "https://api.codetabs.com/v1/proxy?quest=", false, client),
	}
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}
