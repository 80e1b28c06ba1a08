package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/recipekeeper/internal/client/session"
	"github.com/dmitrijs2005/recipekeeper/internal/common"
	"github.com/dmitrijs2005/recipekeeper/internal/logging"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	DefaultRequestTimeout = 15 * time.Second
	DefaultUploadTimeout  = 60 * time.Second

	maxBodyBytes = 16 << 20
)

// TokenSource yields the session state consulted before every request.
type TokenSource interface {
	Current(ctx context.Context) session.State
}

// Options configures a Pipeline.
type Options struct {
	BaseURL        string
	RequestTimeout time.Duration
	UploadTimeout  time.Duration
	// RequestsPerSecond throttles outbound calls; zero disables throttling.
	RequestsPerSecond float64
	Burst             int
	// HTTPClient defaults to a client without its own timeout; deadlines
	// come from the per-request context.
	HTTPClient *http.Client
}

// Pipeline dispatches JSON requests to the remote API. It attaches the
// bearer token when the session allows it and turns every failure into
// either a *NetworkError or a *ResponseError.
type Pipeline struct {
	baseURL        *url.URL
	http           *http.Client
	tokens         TokenSource
	limiter        *rate.Limiter
	requestTimeout time.Duration
	uploadTimeout  time.Duration
	log            logging.Logger
	newRequestID   func() string
}

func NewPipeline(opts Options, tokens TokenSource, log logging.Logger) (*Pipeline, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", opts.BaseURL)
	}

	p := &Pipeline{
		baseURL:        base,
		http:           opts.HTTPClient,
		tokens:         tokens,
		requestTimeout: opts.RequestTimeout,
		uploadTimeout:  opts.UploadTimeout,
		log:            log.With("component", "api"),
		newRequestID:   uuid.NewString,
	}
	if p.http == nil {
		p.http = &http.Client{}
	}
	if p.requestTimeout <= 0 {
		p.requestTimeout = DefaultRequestTimeout
	}
	if p.uploadTimeout <= 0 {
		p.uploadTimeout = DefaultUploadTimeout
	}
	if opts.RequestsPerSecond > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		p.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}
	return p, nil
}

// Request describes one call. Body is JSON-encoded unless RawBody is set.
type Request struct {
	Method      string
	Path        string
	Query       url.Values
	Body        any
	RawBody     io.Reader
	ContentType string
	// Upload selects the longer upload timeout.
	Upload bool
}

func (p *Pipeline) Get(ctx context.Context, path string, query url.Values) (*Envelope, error) {
	return p.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query})
}

func (p *Pipeline) Post(ctx context.Context, path string, body any) (*Envelope, error) {
	return p.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body})
}

func (p *Pipeline) Put(ctx context.Context, path string, body any) (*Envelope, error) {
	return p.Do(ctx, Request{Method: http.MethodPut, Path: path, Body: body})
}

func (p *Pipeline) Delete(ctx context.Context, path string) (*Envelope, error) {
	return p.Do(ctx, Request{Method: http.MethodDelete, Path: path})
}

// Upload sends an already processed blob (e.g. a resized image) as-is.
func (p *Pipeline) Upload(ctx context.Context, path, contentType string, body io.Reader) (*Envelope, error) {
	return p.Do(ctx, Request{Method: http.MethodPost, Path: path, RawBody: body, ContentType: contentType, Upload: true})
}

// Ping probes the health endpoint.
func (p *Pipeline) Ping(ctx context.Context) error {
	_, err := p.Get(ctx, "/health", nil)
	return err
}

// Do sends req and decodes the response envelope.
func (p *Pipeline) Do(ctx context.Context, req Request) (*Envelope, error) {
	timeout := p.requestTimeout
	if req.Upload {
		timeout = p.uploadTimeout
	}
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if p.limiter != nil {
		if err := p.limiter.Wait(reqCtx); err != nil {
			return nil, p.transportError(ctx, req, err)
		}
	}

	httpReq, err := p.build(reqCtx, req)
	if err != nil {
		return nil, err
	}

	requestID := httpReq.Header.Get(common.RequestIDHeaderName)
	log := p.log.With("method", req.Method, "path", req.Path, "request_id", requestID)
	started := time.Now()

	resp, err := p.http.Do(httpReq)
	if err != nil {
		log.Warn(ctx, "request failed without response", "error", err)
		return nil, p.transportError(ctx, req, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		log.Warn(ctx, "response body interrupted", "status", resp.StatusCode, "error", err)
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			// the server answered; a cut-off error body is still a server error
			return nil, &ResponseError{
				Method:  req.Method,
				Path:    req.Path,
				Status:  resp.StatusCode,
				Message: genericMessage(resp.StatusCode),
			}
		}
		return nil, p.transportError(ctx, req, err)
	}
	log.Debug(ctx, "response received", "status", resp.StatusCode, "elapsed", time.Since(started))

	if resp.StatusCode == http.StatusUnauthorized {
		// no retry and no logout here; the caller decides
		log.Warn(ctx, "unauthorized response", "endpoint", req.Path)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ResponseError{
			Method:  req.Method,
			Path:    req.Path,
			Status:  resp.StatusCode,
			Message: errorMessage(resp.StatusCode, body),
		}
	}

	env, err := decodeEnvelope(resp.StatusCode, body)
	if err != nil {
		log.Error(ctx, "undecodable response", "status", resp.StatusCode, "error", err)
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.Path, err)
	}
	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = genericMessage(resp.StatusCode)
		}
		return nil, &ResponseError{Method: req.Method, Path: req.Path, Status: resp.StatusCode, Message: msg}
	}
	return env, nil
}

func (p *Pipeline) build(ctx context.Context, req Request) (*http.Request, error) {
	u := *p.baseURL
	u.Path = p.baseURL.Path + "/" + strings.TrimLeft(req.Path, "/")
	if len(req.Query) > 0 {
		u.RawQuery = req.Query.Encode()
	}

	var body io.Reader
	contentType := req.ContentType
	switch {
	case req.RawBody != nil:
		body = req.RawBody
		if contentType == "" {
			contentType = "application/octet-stream"
		}
	case req.Body != nil:
		b, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s body: %w", req.Method, req.Path, err)
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", req.Method, req.Path, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set(common.RequestIDHeaderName, p.newRequestID())

	if p.tokens != nil {
		if token, ok := p.tokens.Current(ctx).BearerToken(); ok {
			httpReq.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+token)
		}
	}
	return httpReq, nil
}

// transportError classifies a failure that produced no response. A caller
// cancelling its own context is reported as such, not as unreachability.
func (p *Pipeline) transportError(parent context.Context, req Request, err error) error {
	if errors.Is(parent.Err(), context.Canceled) {
		return fmt.Errorf("%s %s: %w", req.Method, req.Path, parent.Err())
	}
	return &NetworkError{Method: req.Method, Path: req.Path, Err: err}
}

func errorMessage(status int, body []byte) string {
	var top map[string]json.RawMessage
	if json.Unmarshal(body, &top) == nil {
		if msg := messageOf(top); msg != "" {
			return msg
		}
	}
	return genericMessage(status)
}
