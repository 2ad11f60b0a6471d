package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/xeipuuv/gojsonschema"

	"github.com/stemsi/mcq-client/internal/model"
)

// GeneratePath is where the backend accepts generation requests.
const GeneratePath = "/api/generate-questions"

// DefaultBaseURL is used when no base URL is configured.
const DefaultBaseURL = "http://localhost:8000"

// Generator produces a question set for a request.
type Generator interface {
	Generate(ctx context.Context, req model.GenerationRequest) (*model.GenerationResult, error)
}

// NetworkError reports a generation call that did not produce a usable response:
// the transport failed, the backend answered with a non-2xx status, or the body
// could not be read as a result.
type NetworkError struct {
	StatusCode int
	Detail     string
	Err        error
}

func (e *NetworkError) Error() string {
	var msg string
	switch {
	case e.StatusCode != 0 && (e.StatusCode < 200 || e.StatusCode > 299):
		msg = fmt.Sprintf("Request failed with status code %d", e.StatusCode)
	case e.Err != nil:
		msg = e.Err.Error()
	default:
		msg = "Network Error"
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Client calls the question generation backend. It never retries and keeps no state
// between calls.
type Client struct {
	baseURL    string
	httpClient *http.Client
	schema     *gojsonschema.Schema
	log        zerolog.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout bounds each call. Zero leaves calls unbounded.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// NewClient creates a Client for baseURL, falling back to DefaultBaseURL when empty.
func NewClient(baseURL string, log zerolog.Logger, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(responseSchema))
	if err != nil {
		return nil, fmt.Errorf("compile response schema: %w", err)
	}

	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
		schema:     schema,
		log:        log.With().Str("component", "generator_client").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the endpoint root the client posts to.
func (c *Client) BaseURL() string { return c.baseURL }

// Generate posts req and decodes the backend's result. Any failure is a *NetworkError.
// A result without questions is returned as is.
func (c *Client) Generate(ctx context.Context, req model.GenerationRequest) (*model.GenerationResult, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+GeneratePath, bytes.NewReader(payload))
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.log.Warn().Err(err).Str("subject", string(req.Subject)).Msg("generation call failed")
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	c.log.Debug().
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Str("subject", string(req.Subject)).
		Msg("generation call finished")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &NetworkError{StatusCode: resp.StatusCode, Detail: errorDetail(body)}
	}

	if err := c.validate(body); err != nil {
		return nil, &NetworkError{StatusCode: resp.StatusCode, Err: err}
	}

	var result model.GenerationResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &NetworkError{StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return &result, nil
}

func (c *Client) validate(body []byte) error {
	result, err := c.schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("invalid response body: %w", err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("unexpected response shape: %s", strings.Join(msgs, "; "))
}

// errorDetail extracts the "detail" message FastAPI-style backends put in error bodies.
func errorDetail(body []byte) string {
	var e struct {
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal(body, &e); err != nil {
		return ""
	}
	switch d := e.Detail.(type) {
	case string:
		return d
	case nil:
		return ""
	default:
		raw, _ := json.Marshal(d)
		return string(raw)
	}
}
