package vastcap

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	stealth "github.com/anatolykoptev/go-stealth"
)

// transport sends one JSON POST and returns the raw body and status code.
type transport interface {
	post(ctx context.Context, url string, payload []byte) ([]byte, int, error)
	close()
}

// httpTransport is the default net/http transport.
type httpTransport struct {
	client *http.Client
}

func newHTTPTransport(cfg Config) (*httpTransport, error) {
	client := cfg.HTTPClient
	if client == nil {
		tr := http.DefaultTransport.(*http.Transport).Clone()
		if cfg.Proxy != "" {
			u, err := url.Parse(cfg.Proxy)
			if err != nil {
				return nil, fmt.Errorf("parse proxy: %w", err)
			}
			tr.Proxy = http.ProxyURL(u)
		}
		client = &http.Client{Transport: tr, Timeout: cfg.Timeout}
	}
	return &httpTransport{client: client}, nil
}

func (t *httpTransport) post(ctx context.Context, url string, payload []byte) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, 0, err
	}
	for k, v := range apiHeaders("") {
		req.Header.Set(k, v)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return data, resp.StatusCode, nil
}

func (t *httpTransport) close() { t.client.CloseIdleConnections() }

// browserDoer is the part of *stealth.BrowserClient the transport uses.
type browserDoer interface {
	DoWithHeaderOrder(method, url string, headers map[string]string, body io.Reader, order []string) ([]byte, map[string]string, int, error)
}

// stealthTransport sends API calls through a TLS-fingerprinted browser client.
type stealthTransport struct {
	client    browserDoer
	userAgent string
	timeout   time.Duration
}

func newStealthTransport(cfg Config) (*stealthTransport, error) {
	profile := stealth.BuiltinProfiles[0]
	if cfg.Profile != nil {
		profile = *cfg.Profile
	}
	opts := []stealth.ClientOption{
		stealth.WithProfile(profile.TLSProfile),
		stealth.WithHeaderOrder(apiHeaderOrder),
	}
	if cfg.Proxy != "" {
		opts = append(opts, stealth.WithProxy(cfg.Proxy))
	}
	bc, err := stealth.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("stealth client: %w", err)
	}
	return &stealthTransport{client: bc, userAgent: profile.UserAgent, timeout: cfg.Timeout}, nil
}

// post runs the blocking browser-client call on its own goroutine so the
// caller can still give up when ctx is done.
func (t *stealthTransport) post(ctx context.Context, url string, payload []byte) ([]byte, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	type result struct {
		body   []byte
		status int
		err    error
	}
	ch := make(chan result, 1)
	go func() {
		body, _, status, err := t.client.DoWithHeaderOrder(http.MethodPost, url,
			apiHeaders(t.userAgent), bytes.NewReader(payload), apiHeaderOrder)
		ch <- result{body, status, err}
	}()

	select {
	case r := <-ch:
		return r.body, r.status, r.err
	case <-ctx.Done():
		return nil, 0, ctx.Err()
	}
}

func (t *stealthTransport) close() {}

func newTransport(cfg Config) (transport, error) {
	if cfg.Stealth {
		return newStealthTransport(cfg)
	}
	return newHTTPTransport(cfg)
}
