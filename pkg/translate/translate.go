// Package translate holds what the per-ecosystem clients share: the
// paged-response envelope every backend returns and the transport
// contract the adapters consume.
//
// Each ecosystem (EVM, SVM, Cosmos) pages with its own native cursor
// semantics - block ranges, opaque continuation keys, timestamp
// windows - but all of them round-trip that cursor through the query
// string of a server-issued next-page URL. Parsing that URL back into a
// filter is therefore shared, while each subpackage binds its own
// endpoints and identity parameters.
package translate

import (
	"context"
	"fmt"
	"net/url"

	"github.com/Noves-Inc/noves-sdk-sub000/pkg/pagination"
	"github.com/Noves-Inc/noves-sdk-sub000/pkg/types"
)

// Getter is the transport contract the ecosystem clients consume.
// *client.Client satisfies it; tests substitute fakes.
type Getter interface {
	// GetJSON performs a GET against path with the given query and
	// decodes the JSON response into v.
	GetJSON(ctx context.Context, path string, query url.Values, v any) error
}

// Envelope is the raw paged-response shape of every collection
// endpoint: one batch of items plus the link to the following page.
type Envelope[T any] struct {
	Items       []T    `json:"items"`
	PageSize    int    `json:"pageSize"`
	HasNextPage bool   `json:"hasNextPage"`
	NextPageURL string `json:"nextPageUrl,omitempty"`
}

// NextPageOptions maps the envelope's continuation link to the next
// page's filter, or nil when this was the last page. Client-side
// settings that the server does not round-trip (MaxNavigationHistory)
// are carried forward from the current filter.
func (e Envelope[T]) NextPageOptions(current types.PageOptions) (*types.PageOptions, error) {
	if !e.HasNextPage || e.NextPageURL == "" {
		return nil, nil
	}

	u, err := url.Parse(e.NextPageURL)
	if err != nil {
		return nil, fmt.Errorf("parse next page url: %w", err)
	}

	next, err := types.PageOptionsFromQuery(u.Query())
	if err != nil {
		return nil, fmt.Errorf("parse next page url: %w", err)
	}

	next.MaxNavigationHistory = current.MaxNavigationHistory
	return &next, nil
}

// NewFetcher returns the Page Fetcher for one collection endpoint:
// exactly one round trip per FetchPage, with the next page's filter
// parsed from the server's continuation link.
func NewFetcher[T any](api Getter, path string) pagination.Fetcher[T] {
	return endpointFetcher[T]{api: api, path: path}
}

type endpointFetcher[T any] struct {
	api  Getter
	path string
}

func (f endpointFetcher[T]) FetchPage(ctx context.Context, opts types.PageOptions) (pagination.Page[T], error) {
	var env Envelope[T]
	if err := f.api.GetJSON(ctx, f.path, opts.Query(), &env); err != nil {
		return pagination.Page[T]{}, err
	}

	next, err := env.NextPageOptions(opts)
	if err != nil {
		return pagination.Page[T]{}, err
	}

	return pagination.Page[T]{Items: env.Items, Next: next}, nil
}
