// Package types defines the shared value types of the chain data API:
// page filters, transactions, history events and token holders.
package types

import (
	"fmt"
	"net/url"
	"strconv"
)

// SortOrder is the ordering of a paged collection.
type SortOrder string

const (
	// SortAsc orders results oldest first.
	SortAsc SortOrder = "asc"

	// SortDesc orders results newest first. This is the API default.
	SortDesc SortOrder = "desc"
)

// PageOptions describes one page request against a paged collection:
// block/time range, sort order, page size and per-ecosystem format flags.
//
// A PageOptions value is immutable by convention: the pagination engine
// copies values and never mutates a filter after construction. Equality
// is structural (see Equal) and is used to locate a filter's position in
// the navigation history.
type PageOptions struct {
	// StartBlock is the inclusive lower block bound (EVM-style cursors).
	StartBlock *int64 `json:"startBlock,omitempty"`

	// EndBlock is the inclusive upper block bound.
	EndBlock *int64 `json:"endBlock,omitempty"`

	// StartTimestamp is the inclusive lower bound as a unix timestamp
	// (Cosmos-style cursors).
	StartTimestamp *int64 `json:"startTimestamp,omitempty"`

	// EndTimestamp is the inclusive upper bound as a unix timestamp.
	EndTimestamp *int64 `json:"endTimestamp,omitempty"`

	// Sort is the result ordering. The zero value means SortDesc.
	Sort SortOrder `json:"sort,omitempty"`

	// PageSize is the requested number of items per page.
	PageSize *int `json:"pageSize,omitempty"`

	// ViewAsAccountAddress renders transactions from the perspective of
	// another address than the one being queried.
	ViewAsAccountAddress string `json:"viewAsAccountAddress,omitempty"`

	// V5Format selects the alternate (v5) transaction schema on
	// ecosystems that support both generations.
	V5Format bool `json:"v5Format,omitempty"`

	// PageKey is an opaque server-issued continuation token, used by
	// ecosystems that do not page by block or timestamp ranges.
	PageKey string `json:"pageKey,omitempty"`

	// MaxNavigationHistory overrides the number of visited pages a cursor
	// embeds. Values <= 0 fall back to the codec default.
	MaxNavigationHistory *int `json:"maxNavigationHistory,omitempty"`
}

// EffectiveSort returns the sort order with the API default applied.
func (o PageOptions) EffectiveSort() SortOrder {
	if o.Sort == SortAsc {
		return SortAsc
	}
	return SortDesc
}

// Equal reports structural, field-by-field equality. Pointer fields
// compare by pointed-to value, so two filters built independently from
// the same parameters are equal.
func (o PageOptions) Equal(other PageOptions) bool {
	return int64PtrEqual(o.StartBlock, other.StartBlock) &&
		int64PtrEqual(o.EndBlock, other.EndBlock) &&
		int64PtrEqual(o.StartTimestamp, other.StartTimestamp) &&
		int64PtrEqual(o.EndTimestamp, other.EndTimestamp) &&
		o.EffectiveSort() == other.EffectiveSort() &&
		intPtrEqual(o.PageSize, other.PageSize) &&
		o.ViewAsAccountAddress == other.ViewAsAccountAddress &&
		o.V5Format == other.V5Format &&
		o.PageKey == other.PageKey &&
		intPtrEqual(o.MaxNavigationHistory, other.MaxNavigationHistory)
}

// Query returns the outbound query-string form of the filter.
// MaxNavigationHistory is a client-side setting and is never sent.
func (o PageOptions) Query() url.Values {
	q := url.Values{}
	if o.StartBlock != nil {
		q.Set("startBlock", strconv.FormatInt(*o.StartBlock, 10))
	}
	if o.EndBlock != nil {
		q.Set("endBlock", strconv.FormatInt(*o.EndBlock, 10))
	}
	if o.StartTimestamp != nil {
		q.Set("startTimestamp", strconv.FormatInt(*o.StartTimestamp, 10))
	}
	if o.EndTimestamp != nil {
		q.Set("endTimestamp", strconv.FormatInt(*o.EndTimestamp, 10))
	}
	if o.Sort != "" {
		q.Set("sort", string(o.Sort))
	}
	if o.PageSize != nil {
		q.Set("pageSize", strconv.Itoa(*o.PageSize))
	}
	if o.ViewAsAccountAddress != "" {
		q.Set("viewAsAccountAddress", o.ViewAsAccountAddress)
	}
	if o.V5Format {
		q.Set("v5Format", "true")
	}
	if o.PageKey != "" {
		q.Set("pageKey", o.PageKey)
	}
	return q
}

// PageOptionsFromQuery parses the query-string form back into a filter.
// It is the inverse of Query and is used to turn a server-provided
// next-page URL into the next page's filter.
func PageOptionsFromQuery(q url.Values) (PageOptions, error) {
	var o PageOptions

	var err error
	if o.StartBlock, err = int64Param(q, "startBlock"); err != nil {
		return PageOptions{}, err
	}
	if o.EndBlock, err = int64Param(q, "endBlock"); err != nil {
		return PageOptions{}, err
	}
	if o.StartTimestamp, err = int64Param(q, "startTimestamp"); err != nil {
		return PageOptions{}, err
	}
	if o.EndTimestamp, err = int64Param(q, "endTimestamp"); err != nil {
		return PageOptions{}, err
	}

	switch v := q.Get("sort"); v {
	case "", string(SortAsc), string(SortDesc):
		o.Sort = SortOrder(v)
	default:
		return PageOptions{}, fmt.Errorf("invalid sort parameter %q", v)
	}

	if v := q.Get("pageSize"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil {
			return PageOptions{}, fmt.Errorf("parse pageSize parameter: %w", err)
		}
		o.PageSize = &size
	}

	o.ViewAsAccountAddress = q.Get("viewAsAccountAddress")
	o.V5Format = q.Get("v5Format") == "true"
	o.PageKey = q.Get("pageKey")

	return o, nil
}

func int64Param(q url.Values, name string) (*int64, error) {
	v := q.Get(name)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse %s parameter: %w", name, err)
	}
	return &n, nil
}

func int64PtrEqual(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Int64 returns a pointer to v, for building filters inline.
func Int64(v int64) *int64 { return &v }

// Int returns a pointer to v, for building filters inline.
func Int(v int) *int { return &v }
