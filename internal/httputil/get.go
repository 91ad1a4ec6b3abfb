// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ErrNotFound marks an HTTP 404 so callers can tell a missing resource
// apart from a transport failure.
var ErrNotFound = errors.New("not found")

// GetJSON performs a GET request and decodes the JSON response body into v.
// A 404 returns an error wrapping ErrNotFound.
func GetJSON(ctx context.Context, client *http.Client, url, userAgent string, v any) error {
	resp, err := get(ctx, client, url, userAgent)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, url); err != nil {
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("parsing JSON response from %s: %w", url, err)
	}
	return nil
}

// GetText performs a GET request and returns the response body with
// surrounding whitespace trimmed. A 404 returns an error wrapping
// ErrNotFound.
func GetText(ctx context.Context, client *http.Client, url, userAgent string) (string, error) {
	resp, err := get(ctx, client, url, userAgent)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, url); err != nil {
		return "", err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response from %s: %w", url, err)
	}
	return strings.TrimSpace(string(body)), nil
}

func get(ctx context.Context, client *http.Client, url, userAgent string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", url, err)
	}
	return resp, nil
}

func checkStatus(resp *http.Response, url string) error {
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s: %w", url, ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%s returned HTTP %d", url, resp.StatusCode)
	}
	return nil
}
