package videoid

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const (
	defaultOEmbedURL   = "https://www.youtube.com/oembed"
	defaultHTTPTimeout = 10 * time.Second

	errInvalidFormat = "invalid YouTube URL or video ID format"
	errUnavailable   = "video does not exist or is not available"
)

var idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// WatchURL is the canonical page URL for id.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

// Extract returns the video id contained in input, or "" when none is found.
func Extract(input string) string {
	input = strings.TrimSpace(input)
	if idPattern.MatchString(input) {
		return input
	}
	if input == "" || strings.ContainsAny(input, " \t\n") {
		return ""
	}

	raw := input
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return ""
	}

	var candidate string
	switch strings.ToLower(u.Host) {
	case "youtube.com", "www.youtube.com":
		switch {
		case u.Path == "/watch":
			candidate = u.Query().Get("v")
		case strings.HasPrefix(u.Path, "/embed/"):
			candidate = strings.TrimPrefix(u.Path, "/embed/")
		}
	case "youtu.be":
		candidate = strings.TrimPrefix(u.Path, "/")
	}
	if idPattern.MatchString(candidate) {
		return candidate
	}
	return ""
}

// Result is the outcome of validating user input.
type Result struct {
	Valid bool   `json:"valid"`
	ID    string `json:"videoId,omitempty"`
	Error string `json:"error,omitempty"`
}

// Validator checks ids against the oEmbed endpoint.
type Validator struct {
	baseURL    string
	httpClient *http.Client
	check      bool
}

// Option customizes the validator.
type Option func(*Validator)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(v *Validator) {
		if client != nil {
			v.httpClient = client
		}
	}
}

// WithoutAvailabilityCheck makes Validate accept any well-formed id.
func WithoutAvailabilityCheck() Option {
	return func(v *Validator) {
		v.check = false
	}
}

// NewValidator builds a validator for the oEmbed endpoint at baseURL.
func NewValidator(baseURL string, timeout time.Duration, opts ...Option) *Validator {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultOEmbedURL
	}
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	v := &Validator{
		baseURL:    strings.TrimSpace(baseURL),
		httpClient: &http.Client{Timeout: timeout},
		check:      true,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate extracts an id from input and confirms it is available.
func (v *Validator) Validate(ctx context.Context, input string) Result {
	id := Extract(input)
	if id == "" {
		return Result{Error: errInvalidFormat}
	}
	if !v.check {
		return Result{Valid: true, ID: id}
	}
	ok, err := v.Available(ctx, id)
	if err != nil || !ok {
		return Result{ID: id, Error: errUnavailable}
	}
	return Result{Valid: true, ID: id}
}

// Available reports whether the oEmbed endpoint knows the video.
func (v *Validator) Available(ctx context.Context, id string) (bool, error) {
	endpoint, err := url.Parse(v.baseURL)
	if err != nil {
		return false, fmt.Errorf("parse oembed url: %w", err)
	}
	q := endpoint.Query()
	q.Set("url", WatchURL(id))
	q.Set("format", "json")
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return false, fmt.Errorf("build oembed request: %w", err)
	}
	resp, err := v.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("oembed request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode == http.StatusOK, nil
}
