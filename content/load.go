/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package content

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
)

// maxDocumentSize caps how much of a content document is read.
const maxDocumentSize = 4 << 20

// IsURL reports whether source should be fetched over http(s) rather than
// read from disk.
func IsURL(source string) bool {
	s := strings.ToLower(source)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Load reads the content document at source, a file path or an http(s) URL.
// Any failure, including a non-200 response, yields the default content; the
// returned Content is always usable and the error is informational.
func Load(ctx context.Context, client *http.Client, source string) (Content, error) {
	data, err := read(ctx, client, source)
	if err != nil {
		return Default(), fmt.Errorf("%w: %w", ErrFallback, err)
	}

	return Parse(data)
}

func read(ctx context.Context, client *http.Client, source string) ([]byte, error) {
	if source == "" {
		return nil, fmt.Errorf("no content source configured")
	}

	if !IsURL(source) {
		f, err := os.Open(source)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		return io.ReadAll(io.LimitReader(f, maxDocumentSize))
	}

	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Cache-Control", "no-store")
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", source, resp.Status)
	}

	return io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
}

// Store holds the content currently in use. It starts with the defaults so
// games can begin before the first load resolves.
type Store struct {
	source string
	client *http.Client

	mu      sync.RWMutex
	current Content
	loaded  bool
}

// NewStore returns a Store serving the default content until Reload is called.
func NewStore(source string, client *http.Client) *Store {
	return &Store{
		source:  source,
		client:  client,
		current: Default(),
	}
}

// Source returns the configured document location.
func (s *Store) Source() string {
	return s.source
}

// Current returns the content in use.
func (s *Store) Current() Content {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.current
}

// Loaded reports whether at least one load attempt has finished.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.loaded
}

// Reload reads the document again and swaps in the result, falling back to
// defaults exactly as Load does.
func (s *Store) Reload(ctx context.Context) (Content, error) {
	c, err := Load(ctx, s.client, s.source)

	s.mu.Lock()
	s.current = c
	s.loaded = true
	s.mu.Unlock()

	return c, err
}
