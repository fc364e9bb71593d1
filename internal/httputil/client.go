// Package httputil provides the HTTP session used by the extractors and
// input sanitization utilities.
package httputil

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"
)

// DefaultUserAgent is sent with every request unless the session overrides it.
const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/121.0"

const (
	maxPageSize = 5 * 1024 * 1024
	maxJSONSize = 10 * 1024 * 1024
)

// NewClient creates a hardened HTTP client with secure defaults and a cookie jar.
func NewClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	// cookiejar.New never returns a non-nil error.
	jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	return &http.Client{
		Timeout: timeout,
		Jar:     jar,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
			ForceAttemptHTTP2:   true,
			MaxIdleConns:        10,
			IdleConnTimeout:     30 * time.Second,
			DisableCompression:  false,
			MaxIdleConnsPerHost: 5,
		},
	}
}

// Session is the explicit handle for cookies and headers shared by every
// request of one extraction run.
type Session struct {
	Client    *http.Client
	UserAgent string
}

// NewSession creates a session backed by a fresh cookie jar.
func NewSession(timeout time.Duration, userAgent string) *Session {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Session{
		Client:    NewClient(timeout),
		UserAgent: userAgent,
	}
}

// Request describes one outgoing call.
type Request struct {
	URL     string
	Query   url.Values
	Referer string
	Header  http.Header
	// Form, when non-nil, turns the request into a urlencoded POST.
	Form url.Values
}

func (s *Session) newRequest(ctx context.Context, r Request, accept string) (*http.Request, error) {
	if err := ValidateURL(r.URL); err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}

	target := r.URL
	if len(r.Query) > 0 {
		u, err := url.Parse(r.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing URL: %w", err)
		}
		q := u.Query()
		for k, vs := range r.Query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
		target = u.String()
	}

	method := http.MethodGet
	var body io.Reader
	if r.Form != nil {
		method = http.MethodPost
		body = strings.NewReader(r.Form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", s.UserAgent)
	req.Header.Set("Accept", accept)
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	if r.Form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if r.Referer != "" {
		req.Header.Set("Referer", r.Referer)
	}
	for k, vs := range r.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	return req, nil
}

func (s *Session) do(ctx context.Context, r Request, accept string, limit int64) ([]byte, error) {
	req, err := s.newRequest(ctx, r, accept)
	if err != nil {
		return nil, err
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: req.URL.Redacted(), Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return body, nil
}

// Page fetches an HTML (or JS) page and returns its body as text.
func (s *Session) Page(ctx context.Context, r Request) (string, error) {
	body, err := s.do(ctx, r, "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8", maxPageSize)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// JSON fetches a JSON endpoint and returns the raw body.
func (s *Session) JSON(ctx context.Context, r Request) ([]byte, error) {
	return s.do(ctx, r, "application/json, text/plain, */*", maxJSONSize)
}

// DecodeJSON fetches a JSON endpoint and decodes it into v.
func (s *Session) DecodeJSON(ctx context.Context, r Request, v any) error {
	body, err := s.JSON(ctx, r)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("parsing JSON from %s: %w", r.URL, err)
	}
	return nil
}

// StatusError reports a non-200 response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d for %s", e.Code, e.URL)
}
