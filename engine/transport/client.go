package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/compozy/chatwoot-nodes/engine/core"
	"github.com/compozy/chatwoot-nodes/pkg/config"
	"github.com/compozy/chatwoot-nodes/pkg/logger"
	"github.com/dustin/go-humanize"
	"github.com/go-resty/resty/v2"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "chatwoot-nodes"
)

// Options configures the outbound HTTP client.
type Options struct {
	Timeout          time.Duration
	MaxRedirects     int
	MaxDownloadBytes int64
	RetryCount       int
	UserAgent        string
	Debug            bool
}

// OptionsFromConfig maps the http config section onto client options.
func OptionsFromConfig(cfg *config.Config) Options {
	if cfg == nil {
		cfg = config.Default()
	}
	return Options{
		Timeout:          cfg.HTTP.Timeout,
		MaxRedirects:     cfg.HTTP.MaxRedirects,
		MaxDownloadBytes: cfg.HTTP.MaxDownloadBytes,
		RetryCount:       cfg.HTTP.RetryCount,
		UserAgent:        cfg.HTTP.UserAgent,
		Debug:            cfg.Runtime.LogLevel == "debug",
	}
}

// Client is the resty-backed transport shared by every node.
type Client struct {
	http *resty.Client
	opts Options
}

// New creates a transport client.
func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	client := resty.New().
		SetTimeout(opts.Timeout).
		SetHeader("User-Agent", opts.UserAgent).
		SetRetryCount(opts.RetryCount).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second)
	if opts.MaxRedirects > 0 {
		client.SetRedirectPolicy(resty.FlexibleRedirectPolicy(opts.MaxRedirects))
	} else {
		client.SetRedirectPolicy(resty.NoRedirectPolicy())
	}
	if opts.RetryCount > 0 {
		client.AddRetryCondition(retryCondition)
	}
	client.SetDebug(opts.Debug)
	return &Client{http: client, opts: opts}
}

// retryCondition determines if a request should be retried
func retryCondition(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	if r == nil {
		return false
	}
	code := r.StatusCode()
	return code >= 500 || code == http.StatusTooManyRequests || code == http.StatusRequestTimeout
}

// RequestIDHeader carries the node run id on every outbound request.
const RequestIDHeader = "X-Request-Id"

func (c *Client) newRequest(ctx context.Context) *resty.Request {
	req := c.http.R().SetContext(ctx)
	if id, err := core.GetRequestID(ctx); err == nil {
		req.SetHeader(RequestIDHeader, id)
	}
	return req
}

// Get downloads url in full. The body is read as raw bytes and capped at
// MaxDownloadBytes when that limit is positive.
func (c *Client) Get(ctx context.Context, url string) (*Response, error) {
	start := time.Now()
	resp, err := c.newRequest(ctx).
		SetDoNotParseResponse(true).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	raw := resp.RawBody()
	defer raw.Close()
	body, err := readLimited(raw, c.opts.MaxDownloadBytes)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	out := &Response{
		StatusCode: resp.StatusCode(),
		Status:     resp.Status(),
		Header:     resp.Header(),
		Body:       body,
	}
	logger.FromContext(ctx).Debug(
		"Downloaded resource",
		"url", url,
		"status_code", out.StatusCode,
		"size", humanize.Bytes(uint64(len(body))),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	if !resp.IsSuccess() {
		return out, statusError(http.MethodGet, url, out)
	}
	return out, nil
}

// PostMultipart submits form to url. The form supplies its own boundary content type.
func (c *Client) PostMultipart(
	ctx context.Context,
	url string,
	form *MultipartForm,
	auth Authenticator,
) (*Response, error) {
	if form == nil {
		return nil, errors.New("multipart form is required")
	}
	body, contentType, err := form.Encode()
	if err != nil {
		return nil, err
	}
	req := c.newRequest(ctx).
		SetHeader("Content-Type", contentType).
		SetHeader("Accept", "application/json").
		SetBody(body)
	if auth != nil {
		auth.Apply(req.Header)
	}
	return c.finish(ctx, req, http.MethodPost, url)
}

// Send performs a JSON API call.
func (c *Client) Send(ctx context.Context, request *Request) (*Response, error) {
	if request == nil {
		return nil, errors.New("request is required")
	}
	method := request.Method
	if method == "" {
		method = http.MethodGet
	}
	req := c.newRequest(ctx).
		SetHeader("Accept", "application/json")
	if len(request.Query) > 0 {
		req.SetQueryParamsFromValues(request.Query)
	}
	if request.Body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(request.Body)
	}
	if request.Auth != nil {
		request.Auth.Apply(req.Header)
	}
	return c.finish(ctx, req, method, request.URL)
}

func (c *Client) finish(ctx context.Context, req *resty.Request, method, url string) (*Response, error) {
	start := time.Now()
	resp, err := req.Execute(method, url)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, url, err)
	}
	out := &Response{
		StatusCode: resp.StatusCode(),
		Status:     resp.Status(),
		Header:     resp.Header(),
		Body:       resp.Body(),
	}
	logger.FromContext(ctx).Debug(
		"Executed API request",
		"method", method,
		"url", url,
		"status_code", out.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	if !resp.IsSuccess() {
		return out, statusError(method, url, out)
	}
	return out, nil
}

func statusError(method, url string, resp *Response) *StatusError {
	return &StatusError{
		Method:     method,
		URL:        url,
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Detail:     ExtractDetail(resp.Body),
		Body:       resp.Body,
	}
}

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}
		return data, nil
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: %d bytes", ErrBodyTooLarge, limit)
	}
	return data, nil
}
