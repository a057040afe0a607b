package cache

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ResponseToEntry converts an HTTP response into a cache entry with the
// given lifetime. The response body is fully drained; callers that need
// it afterwards should rebuild a response with EntryToResponse.
func ResponseToEntry(resp *http.Response, ttl time.Duration) (*Entry, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	resp.Body.Close()

	now := time.Now()
	return &Entry{
		Data:       body,
		StatusCode: resp.StatusCode,
		CachedAt:   now,
		ExpiresAt:  now.Add(ttl),
	}, nil
}

// EntryToResponse rebuilds an HTTP response from a cache entry. The
// returned response owns an in-memory body and can be read like a live
// one.
func EntryToResponse(entry *Entry) *http.Response {
	header := http.Header{}
	header.Set("Content-Type", "application/json")

	return &http.Response{
		StatusCode: entry.StatusCode,
		Status:     http.StatusText(entry.StatusCode),
		Header:     header,
		Body:       io.NopCloser(bytes.NewReader(entry.Data)),
	}
}
