package caption

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

// Captioner turns an image into a natural-language caption.
// This interface is implemented by *Client and can be used for testing.
type Captioner interface {
	Caption(ctx context.Context, upload Upload) (string, error)
}

// Pinger checks whether the captioning service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Ensure Client implements Captioner and Pinger at compile time.
var (
	_ Captioner = (*Client)(nil)
	_ Pinger    = (*Client)(nil)
)

// ErrUpload matches every failure returned by Client.Caption.
var ErrUpload = errors.New("caption upload failed")

// StatusError reports a non-success HTTP status from the service.
type StatusError struct {
	Code int
	Path string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api %s returned status %d", e.Path, e.Code)
}

// Is lets errors.Is(err, ErrUpload) match status failures.
func (e *StatusError) Is(target error) bool {
	return target == ErrUpload
}

const (
	DefaultBaseURL     = "http://127.0.0.1:8000"
	ProcessImagePath   = "/process-image"
	HealthPath         = "/healthcheck"
	FormField          = "file"
	DefaultFilename    = "photo.jpg"
	DefaultContentType = "image/jpeg"
	defaultUserAgent   = "narrator/0.1"
	maxResponseBytes   = 1 << 20
)

// Upload is the image sent for captioning.
type Upload struct {
	Data        []byte
	Filename    string
	ContentType string
}

// Response mirrors the JSON body returned by /process-image.
type Response struct {
	Caption string `json:"caption"`
}

// Client talks to the captioning service over HTTP.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

// Option customizes a Client.
type Option func(*Client)

// WithTimeout bounds each request. Zero leaves requests unbounded.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithHTTPClient swaps the underlying transport.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if strings.TrimSpace(ua) != "" {
			c.userAgent = ua
		}
	}
}

// NewClient builds a Client for the service rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:   base,
		http:      &http.Client{},
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalized service URL.
func (c *Client) BaseURL() string {
	if c == nil || c.baseURL == nil {
		return ""
	}
	return c.baseURL.String()
}

// Caption uploads the image as multipart/form-data and returns the caption.
func (c *Client) Caption(ctx context.Context, upload Upload) (string, error) {
	if c == nil {
		return "", fmt.Errorf("%w: client is nil", ErrUpload)
	}
	body, contentType, err := encodeUpload(upload)
	if err != nil {
		return "", fmt.Errorf("%w: encode upload: %v", ErrUpload, err)
	}

	endpoint := c.endpoint(ProcessImagePath)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return "", fmt.Errorf("%w: create request: %v", ErrUpload, err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: execute request: %w", ErrUpload, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return "", &StatusError{Code: resp.StatusCode, Path: ProcessImagePath}
	}

	var payload Response
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrUpload, err)
	}
	return payload.Caption, nil
}

// Ping checks that the service is reachable. Any response below 500 counts,
// so a service that only implements /process-image still reports online.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(HealthPath), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))

	if resp.StatusCode >= http.StatusInternalServerError {
		return &StatusError{Code: resp.StatusCode, Path: HealthPath}
	}
	return nil
}

func (c *Client) endpoint(path string) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	return u.String()
}

func encodeUpload(upload Upload) (io.Reader, string, error) {
	if len(upload.Data) == 0 {
		return nil, "", fmt.Errorf("image is empty")
	}
	filename := strings.TrimSpace(upload.Filename)
	if filename == "" {
		filename = DefaultFilename
	}
	contentType := strings.TrimSpace(upload.ContentType)
	if contentType == "" {
		contentType = DefaultContentType
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, FormField, filename))
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("create part: %w", err)
	}
	if _, err := part.Write(upload.Data); err != nil {
		return nil, "", fmt.Errorf("write part: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse base url %q: missing host", raw)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
