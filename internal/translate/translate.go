// Package translate bridges the farmer's language and the working language
// of the model prompts.
package translate

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Translator is the translation collaborator port.
type Translator interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// Google calls the unauthenticated gtx translate endpoint. No API key, a
// single GET per call.
type Google struct {
	baseURL string
	client  *http.Client
}

// NewGoogle builds a client; baseURL defaults to the public endpoint when
// empty.
func NewGoogle(baseURL string, timeout time.Duration) *Google {
	if baseURL == "" {
		baseURL = "https://translate.googleapis.com"
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Google{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Translate converts text from source to target language. Blank text is
// returned as-is without a network call.
func (g *Google) Translate(ctx context.Context, text, source, target string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}

	q := url.Values{}
	q.Set("client", "gtx")
	q.Set("sl", source)
	q.Set("tl", target)
	q.Set("dt", "t")
	q.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, "GET", g.baseURL+"/translate_a/single?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("translate: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("translate: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translate: HTTP %d", resp.StatusCode)
	}

	return parseSegments(body)
}
