// Package yahoo collects prices, dividend histories and calendar data for
// SGX tickers from the Yahoo Finance JSON endpoints.
package yahoo

import (
	"bufio"
	"bytes"
	"crypto/sha1"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/seetoh/sgxdividends"
)

const (
	query1 = "https://query1.finance.yahoo.com"
	query2 = "https://query2.finance.yahoo.com"

	// cookieBootstrap is any yahoo property that hands out the session
	// cookie the crumb endpoint wants.
	cookieBootstrap = "https://fc.yahoo.com"
	crumbPath       = "/v1/test/getcrumb"

	// The endpoints reject the default Go user agent outright.
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

	defaultTimeout  = 15 * time.Second
	defaultAttempts = 4
	defaultBackoff  = 2 * time.Second
)

// ErrRateLimited marks a request abandoned after exhausting its rate-limit
// retries. ErrAuthRejected marks a request rejected even with a fresh crumb.
var (
	ErrRateLimited  = errors.New("yahoo: rate limited")
	ErrAuthRejected = errors.New("yahoo: auth rejected")
)

// Client is an authenticated Yahoo Finance client. It holds at most one
// crumb at a time; the crumb is only fetched when an endpoint demands it
// and refreshed at most once per request on rejection.
type Client struct {
	http  *resty.Client
	crumb string

	// bases and bootstrap default to the production hosts, tests override
	// them with an httptest server.
	bases     []string
	bootstrap string

	// retry knobs, overridable in tests
	maxAttempts int
	backoff     time.Duration
	sleep       func(time.Duration)
}

// New returns a Client with a daily-expiring disk cache, so that repeated
// runs on the same day replay responses instead of hammering the endpoints.
func New() *Client {
	rc := resty.New().
		SetTimeout(defaultTimeout).
		SetHeader("User-Agent", userAgent)
	rc.SetTransport(&diskCache{base: http.DefaultTransport})
	return &Client{
		http:        rc,
		maxAttempts: defaultAttempts,
		backoff:     defaultBackoff,
		sleep:       time.Sleep,
	}
}

// newTestClient targets a test server, uncached and without real sleeps.
func newTestClient(base string, sleep func(time.Duration)) *Client {
	rc := resty.New().SetHeader("User-Agent", userAgent)
	c := &Client{
		http:        rc,
		maxAttempts: defaultAttempts,
		backoff:     defaultBackoff,
		sleep:       sleep,
	}
	c.bases = []string{base}
	c.bootstrap = base
	return c
}

// getJSON fetches addr (a path plus query, no host) from the mirror hosts
// in order, decoding the first successful JSON body into out.
//
// Rate limiting (429) backs off linearly and retries on the same host.
// When auth is set, the request carries the crumb; a 401/403 refreshes the
// crumb once and retries, a second rejection fails the request.
func (c *Client) getJSON(pathAndQuery string, out any, auth bool) error {
	var lastErr error
	for _, base := range c.hosts() {
		if err := c.getJSONFrom(base, pathAndQuery, out, auth); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}

func (c *Client) getJSONFrom(base, pathAndQuery string, out any, auth bool) error {
	refreshed := false
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		addr := base + pathAndQuery
		if auth {
			crumb, err := c.ensureCrumb()
			if err != nil {
				return err
			}
			sep := "?"
			if strings.Contains(addr, "?") {
				sep = "&"
			}
			addr += sep + "crumb=" + crumb
		}

		resp, err := c.http.R().Get(addr)
		if err != nil {
			return fmt.Errorf("cannot GET %s: %w", pathAndQuery, err)
		}

		switch code := resp.StatusCode(); {
		case code == http.StatusOK:
			if err := json.Unmarshal(resp.Body(), out); err != nil {
				return fmt.Errorf("cannot decode %s: %w", pathAndQuery, err)
			}
			return nil

		case code == http.StatusTooManyRequests:
			// Rate limited. Linear backoff, then the same host again.
			if attempt == c.maxAttempts {
				return fmt.Errorf("cannot GET %s after %d attempts: %w", pathAndQuery, attempt, ErrRateLimited)
			}
			wait := time.Duration(attempt) * c.backoff
			log.Printf("rate limited on %s, waiting %s", pathAndQuery, wait)
			c.sleep(wait)

		case auth && (code == http.StatusUnauthorized || code == http.StatusForbidden):
			if refreshed {
				return fmt.Errorf("cannot GET %s: %s with a fresh crumb: %w", pathAndQuery, resp.Status(), ErrAuthRejected)
			}
			refreshed = true
			c.crumb = ""

		default:
			return fmt.Errorf("cannot GET %s: %s", pathAndQuery, resp.Status())
		}
	}
	return fmt.Errorf("cannot GET %s: attempts exhausted", pathAndQuery)
}

// ensureCrumb returns the current crumb, establishing the cookie session
// and fetching a fresh crumb when none is held.
func (c *Client) ensureCrumb() (string, error) {
	if c.crumb != "" {
		return c.crumb, nil
	}

	// The bootstrap GET exists only to collect the session cookie. Yahoo
	// answers it with a 404, that is fine.
	if _, err := c.http.R().Get(c.bootstrapHost()); err != nil {
		return "", fmt.Errorf("cannot establish yahoo session: %w", err)
	}

	resp, err := c.http.R().Get(c.hosts()[0] + crumbPath)
	if err != nil {
		return "", fmt.Errorf("cannot fetch yahoo crumb: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("cannot fetch yahoo crumb: %s", resp.Status())
	}
	crumb := strings.TrimSpace(string(resp.Body()))
	if crumb == "" || strings.Contains(crumb, "<") {
		return "", fmt.Errorf("cannot fetch yahoo crumb: unusable response %q", crumb)
	}
	c.crumb = crumb
	return c.crumb, nil
}

func (c *Client) hosts() []string {
	if len(c.bases) > 0 {
		return c.bases
	}
	return []string{query1, query2}
}

func (c *Client) bootstrapHost() string {
	if c.bootstrap != "" {
		return c.bootstrap
	}
	return cookieBootstrap
}

// diskCache implements a simple disk cache for HTTP responses
type diskCache struct {
	base http.RoundTripper
}

// RoundTrip implements the http.RoundTripper interface. It checks for a
// cached response on disk first. If a fresh cached response is not found, it
// proceeds with the actual HTTP request and caches the new response if it's
// successful.
func (c *diskCache) RoundTrip(req *http.Request) (resp *http.Response, err error) {
	// get from disk
	// diskcache implements a unique key per day, so the local tmp expires every day.
	key := fmt.Sprintf("%s %s %s", sgxdividends.Today().String(), req.Method, req.URL.String())
	key = fmt.Sprintf("%x", sha1.Sum([]byte(key)))

	cachedResp, err := c.get(key, req)
	if err == nil { // Cache hit
		return cachedResp, nil
	}

	resp, err = c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	log.Printf("%v %v/%v %v", resp.Request.Method, resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	if resp.StatusCode >= 300 {
		return resp, nil
	}
	// otherwise attempt to store it in cache

	err = c.put(key, resp)
	if err != nil {
		log.Printf("cache write err (ignored): %v\n", err)
	}
	return resp, nil
}

// get retrieves a cached response from disk
func (c *diskCache) get(key string, req *http.Request) (resp *http.Response, err error) {
	file := filepath.Join(os.TempDir(), key)
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewBuffer(content)), req)
}

// put stores a response to disk cache
func (c *diskCache) put(key string, resp *http.Response) (err error) {
	file := filepath.Join(os.TempDir(), key)

	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}

	f, err := os.Create(file)
	if err != nil {
		return err
	}

	_, err = f.Write(content)
	f.Close()
	return err
}
