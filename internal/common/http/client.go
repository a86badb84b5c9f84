// internal/common/http/client.go
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"bizplan-workers/internal/businessplan"
	"bizplan-workers/internal/common/logger"
	"bizplan-workers/internal/common/metrics"
)

const (
	DefaultTimeout   = 5 * time.Second
	PlaceholderToken = "your-actual-api-token"
	HealthEndpoint   = "/health"

	maxBodyBytes = 10 << 20
)

// Config is the explicit remote configuration handed to NewClient.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Cache stores successful raw payloads by endpoint.
type Cache interface {
	Get(ctx context.Context, endpoint string) ([]byte, bool, error)
	Set(ctx context.Context, endpoint string, payload []byte) error
}

// FailureKind classifies why a fetch produced no data.
type FailureKind string

const (
	NetworkFailure   FailureKind = "network"
	Timeout          FailureKind = "timeout"
	NonSuccessStatus FailureKind = "status"
	ParseFailure     FailureKind = "parse"
)

// FetchError describes a failed fetch. FetchJSON never returns it; it exists
// for logs, metrics and connectivity probes.
type FetchError struct {
	Kind       FailureKind
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Kind == NonSuccessStatus {
		return fmt.Sprintf("%s: HTTP %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s: %v", e.Endpoint, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Client reads section payloads from the content API.
type Client struct {
	httpClient *http.Client
	cfg        Config
	cache      Cache
	logger     logger.Logger
}

type Option func(*Client)

// WithCache enables the read-through response cache.
func WithCache(cache Cache) Option {
	return func(c *Client) { c.cache = cache }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithLogger(l logger.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func NewClient(cfg Config, opts ...Option) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	c := &Client{
		httpClient: &http.Client{},
		cfg:        cfg,
		logger:     logger.NewNoOpLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL returns the absolute URL of endpoint.
func (c *Client) URL(endpoint string) string {
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	return c.cfg.BaseURL + endpoint
}

// Endpoints maps every section key, plus "health", to its absolute URL.
func (c *Client) Endpoints() map[string]string {
	out := make(map[string]string, 14)
	for _, sec := range businessplan.Sections() {
		out[string(sec.Key)] = c.URL(sec.Endpoint())
	}
	out["health"] = c.URL(HealthEndpoint)
	return out
}

// HasToken reports whether requests carry a bearer token.
func (c *Client) HasToken() bool {
	return c.cfg.Token != "" && c.cfg.Token != PlaceholderToken
}

// FetchJSON returns the JSON object served at endpoint, or nil on any
// failure.
func (c *Client) FetchJSON(ctx context.Context, endpoint string) map[string]interface{} {
	data, err := c.Fetch(ctx, endpoint)
	if err != nil {
		return nil
	}
	return data
}

// Fetch is FetchJSON with the failure reason. A cache hit counts as remote
// data; cache errors are logged and ignored.
func (c *Client) Fetch(ctx context.Context, endpoint string) (map[string]interface{}, error) {
	log := c.logger.WithFields(map[string]interface{}{"endpoint": endpoint})

	if c.cache != nil {
		payload, ok, err := c.cache.Get(ctx, endpoint)
		switch {
		case err != nil:
			log.Warn("response cache read failed", map[string]interface{}{"error": err.Error()})
		case ok:
			if data, err := decodeObject(payload); err == nil {
				metrics.RemoteFetchTotal.WithLabelValues(endpoint, metrics.OutcomeCached).Inc()
				log.Debug("serving section data from cache", nil)
				return data, nil
			}
		}
	}

	payload, err := c.get(ctx, endpoint, true, log)
	if err != nil {
		return nil, err
	}

	data, err := decodeObject(payload)
	if err != nil {
		ferr := &FetchError{Kind: ParseFailure, Endpoint: endpoint, Err: err}
		c.record(log, ferr)
		return nil, ferr
	}
	metrics.RemoteFetchTotal.WithLabelValues(endpoint, metrics.OutcomeOK).Inc()

	if c.cache != nil {
		if err := c.cache.Set(ctx, endpoint, payload); err != nil {
			log.Warn("response cache write failed", map[string]interface{}{"error": err.Error()})
		}
	}
	return data, nil
}

// Health reports whether GET /health answers 2xx. No credential is sent.
func (c *Client) Health(ctx context.Context) bool {
	log := c.logger.WithFields(map[string]interface{}{"endpoint": HealthEndpoint})
	_, err := c.get(ctx, HealthEndpoint, false, log)
	return err == nil
}

// ProbeResult is the outcome of fetching one section endpoint.
type ProbeResult struct {
	Section  businessplan.SectionKey `json:"section"`
	URL      string                  `json:"url"`
	OK       bool                    `json:"ok"`
	Failure  FailureKind             `json:"failure,omitempty"`
	Detail   string                  `json:"detail,omitempty"`
	Duration time.Duration           `json:"duration"`
}

// ProbeAll fetches every section endpoint in document order. The cache is
// bypassed so the result reflects the live API.
func (c *Client) ProbeAll(ctx context.Context) []ProbeResult {
	results := make([]ProbeResult, 0, 13)
	for _, sec := range businessplan.Sections() {
		start := time.Now()
		log := c.logger.WithFields(map[string]interface{}{"endpoint": sec.Endpoint()})

		res := ProbeResult{Section: sec.Key, URL: c.URL(sec.Endpoint())}
		payload, err := c.get(ctx, sec.Endpoint(), true, log)
		if err == nil {
			if _, perr := decodeObject(payload); perr != nil {
				err = &FetchError{Kind: ParseFailure, Endpoint: sec.Endpoint(), Err: perr}
			}
		}
		res.Duration = time.Since(start)

		var ferr *FetchError
		if errors.As(err, &ferr) {
			res.Failure = ferr.Kind
			res.Detail = ferr.Error()
		} else {
			res.OK = true
		}
		results = append(results, res)
	}
	return results
}

// get performs one timeout-bounded GET and returns the body of a 2xx response.
func (c *Client) get(ctx context.Context, endpoint string, auth bool, log logger.Logger) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	url := c.URL(endpoint)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		ferr := &FetchError{Kind: NetworkFailure, Endpoint: endpoint, Err: err}
		c.record(log, ferr)
		return nil, ferr
	}
	req.Header.Set("Content-Type", "application/json")
	if auth && c.HasToken() {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	log.Info("fetching section data", map[string]interface{}{"url": url})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		kind := NetworkFailure
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			kind = Timeout
		}
		ferr := &FetchError{Kind: kind, Endpoint: endpoint, Err: err}
		c.record(log, ferr)
		return nil, ferr
	}
	defer resp.Body.Close()

	log.Info("remote response", map[string]interface{}{"status": resp.StatusCode})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		ferr := &FetchError{Kind: NonSuccessStatus, Endpoint: endpoint, StatusCode: resp.StatusCode}
		c.record(log, ferr)
		return nil, ferr
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		kind := NetworkFailure
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			kind = Timeout
		}
		ferr := &FetchError{Kind: kind, Endpoint: endpoint, Err: err}
		c.record(log, ferr)
		return nil, ferr
	}
	return body, nil
}

func (c *Client) record(log logger.Logger, ferr *FetchError) {
	metrics.RemoteFetchTotal.WithLabelValues(ferr.Endpoint, string(ferr.Kind)).Inc()
	fields := map[string]interface{}{"reason": string(ferr.Kind)}
	if ferr.Err != nil {
		fields["error"] = ferr.Err.Error()
	}
	if ferr.StatusCode != 0 {
		fields["status"] = ferr.StatusCode
	}
	if ferr.Kind == Timeout {
		log.Warn("remote request timed out", fields)
		return
	}
	log.Warn("remote request failed", fields)
}

// decodeObject accepts only a top-level JSON object.
func decodeObject(payload []byte) (map[string]interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(payload))
	var data map[string]interface{}
	if err := dec.Decode(&data); err != nil {
		return nil, err
	}
	if data == nil {
		return nil, errors.New("response is null")
	}
	return data, nil
}
