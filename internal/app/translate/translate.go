/*
Package translate forwards text to a LibreTranslate-compatible endpoint.
*/
package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// requestTimeout bounds one round trip to the translation service.
const requestTimeout = 10 * time.Second

// ErrEmptyTranslation is returned when the service answers without a translation.
var ErrEmptyTranslation = errors.New("translation service returned no text")

// Client calls the translation endpoint at URL.
type Client struct {
	URL  string
	HTTP *http.Client
}

// NewClient returns a Client with a bounded HTTP client.
func NewClient(url string) *Client {
	return &Client{URL: url, HTTP: &http.Client{Timeout: requestTimeout}}
}

type request struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
}

type response struct {
	TranslatedText string `json:"translatedText"`
	Error          string `json:"error,omitempty"`
}

// Translate returns text translated into target. The source language is detected.
func (c *Client) Translate(ctx context.Context, text, target string) (string, error) {
	body, err := json.Marshal(request{Q: text, Source: "auto", Target: target, Format: "text"})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build translate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("call translate service: %w", err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read translate response: %w", err)
	}

	var out response
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("decode translate response (HTTP %d): %w", res.StatusCode, err)
	}
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translate service HTTP %d: %s", res.StatusCode, out.Error)
	}
	if out.TranslatedText == "" {
		return "", ErrEmptyTranslation
	}
	return out.TranslatedText, nil
}
