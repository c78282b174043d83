package webfetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/HamzaKV/ai-sdk/internal/utils"
	"github.com/HamzaKV/ai-sdk/providers/tool"
)

const (
	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 30 * time.Second
	// DefaultUserAgent is the default User-Agent header value
	DefaultUserAgent = "ai-sdk-webfetch/1.0"
	// MaxBodySize is the maximum response body size (10MB)
	MaxBodySize = 10 * 1024 * 1024
	// maxRedirects bounds redirect chains.
	maxRedirects = 10
)

// Input holds the arguments the model passes to the tool.
type Input struct {
	URL            string `json:"url"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty"`
	UserAgent      string `json:"user_agent,omitempty"`
}

// Output is returned to the model. URL is the final URL after redirects.
type Output struct {
	URL      string `json:"url"`
	Markdown string `json:"markdown"`
}

var parameters = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"url": map[string]any{
			"type":        "string",
			"description": "The URL of the web page to fetch. Partial URLs like 'example.com' are accepted.",
		},
		"timeout_seconds": map[string]any{
			"type":        "integer",
			"description": "Request timeout in seconds (default 30, max 300).",
			"minimum":     1,
			"maximum":     300,
		},
		"user_agent": map[string]any{
			"type":        "string",
			"description": "Custom User-Agent header.",
		},
	},
	"required": []string{"url"},
}

// Fetcher fetches pages with its own HTTP client.
type Fetcher struct {
	client *http.Client
}

// New returns the web fetch tool backed by a fresh HTTP client.
//
//	tools := tool.NewSet(webfetch.New())
func New() tool.Tool {
	return NewWithClient(nil)
}

// NewWithClient returns the web fetch tool using client, or a default client
// when nil.
func NewWithClient(client *http.Client) tool.Tool {
	f := &Fetcher{client: client}
	return tool.Define("web_fetch",
		"Fetches a web page and returns its content as Markdown. Supports HTTP and HTTPS and follows redirects.",
		parameters,
		f.Fetch,
	)
}

// Fetch retrieves in.URL and converts the HTML body to Markdown.
func (f *Fetcher) Fetch(ctx context.Context, in Input) (Output, error) {
	url := strings.TrimSpace(in.URL)
	if url == "" {
		return Output{}, errors.New("webfetch: url cannot be empty")
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "https://" + url
	}

	timeout := DefaultTimeout
	if in.TimeoutSeconds > 0 {
		timeout = min(time.Duration(in.TimeoutSeconds)*time.Second, 300*time.Second)
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Output{}, fmt.Errorf("webfetch: create request: %w", err)
	}
	userAgent := DefaultUserAgent
	if in.UserAgent != "" {
		userAgent = in.UserAgent
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.httpClient().Do(req)
	if err != nil {
		return Output{}, fmt.Errorf("webfetch: fetch %s: %w", url, err)
	}
	defer utils.CloseWithLog(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return Output{}, fmt.Errorf("webfetch: unexpected status %s", resp.Status)
	}

	html, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize+1))
	if err != nil {
		return Output{}, fmt.Errorf("webfetch: read body: %w", err)
	}
	if len(html) > MaxBodySize {
		return Output{}, fmt.Errorf("webfetch: body exceeds %d bytes", MaxBodySize)
	}

	markdown, err := htmltomarkdown.ConvertString(string(html))
	if err != nil {
		return Output{}, fmt.Errorf("webfetch: convert html: %w", err)
	}

	return Output{URL: resp.Request.URL.String(), Markdown: markdown}, nil
}

func (f *Fetcher) httpClient() *http.Client {
	if f.client != nil {
		return f.client
	}
	return &http.Client{
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("webfetch: too many redirects (>%d)", maxRedirects)
			}
			return nil
		},
	}
}
