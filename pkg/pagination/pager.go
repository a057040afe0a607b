package pagination

import (
	"context"
	"fmt"
	"iter"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Noves-Inc/noves-sdk-sub000/pkg/cursor"
	"github.com/Noves-Inc/noves-sdk-sub000/pkg/types"
)

// Fetcher retrieves one page of a collection. Implementations bind the
// queried identity (account address, token address, block) and the
// ecosystem's endpoint; the pager only ever varies the filter.
//
// FetchPage must be deterministic with respect to the filter for a
// fixed server state, and performs exactly one logical request.
type Fetcher[T any] interface {
	FetchPage(ctx context.Context, opts types.PageOptions) (Page[T], error)
}

// Page is one fetched batch plus the server-issued filter for the
// following page. A nil Next marks the last page.
type Page[T any] struct {
	Items []T
	Next  *types.PageOptions
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc[T any] func(ctx context.Context, opts types.PageOptions) (Page[T], error)

// FetchPage implements Fetcher.
func (f FetcherFunc[T]) FetchPage(ctx context.Context, opts types.PageOptions) (Page[T], error) {
	return f(ctx, opts)
}

// Pager is the stateful pagination engine over one collection
// traversal. It always holds a materialized current page; traversal
// calls either fully succeed or leave it exactly as before.
//
// A Pager is not safe for concurrent use.
type Pager[T any] struct {
	fetcher Fetcher[T]
	codec   *cursor.Codec
	logger  zerolog.Logger

	items    []T
	current  types.PageOptions
	next     *types.PageOptions
	previous *types.PageOptions
	history  []types.PageOptions
}

// Start fetches the first page and returns a pager positioned on it.
func Start[T any](ctx context.Context, fetcher Fetcher[T], opts types.PageOptions) (*Pager[T], error) {
	p := newPager(fetcher, nil)

	page, err := fetcher.FetchPage(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("fetch first page: %w", err)
	}

	p.commit(opts, page, nil)
	p.history = []types.PageOptions{opts}
	return p, nil
}

// Resume reconstructs a pager from a cursor token produced by an
// earlier session. The target page is fetched fresh; with an enhanced
// token the embedded navigation history seeds the new pager's history,
// so backward navigation across the resume point keeps working. A nil
// codec uses a default one.
func Resume[T any](ctx context.Context, fetcher Fetcher[T], codec *cursor.Codec, token string) (*Pager[T], error) {
	p := newPager(fetcher, codec)

	cur, err := p.codec.Decode(token)
	if err != nil {
		return nil, err
	}

	page, err := fetcher.FetchPage(ctx, cur.PageOptions)
	if err != nil {
		return nil, fmt.Errorf("fetch cursor page: %w", err)
	}

	p.commit(cur.PageOptions, page, nil)

	if cur.IsEnhanced() && len(cur.Meta.NavigationHistory) > 0 {
		p.history = append([]types.PageOptions(nil), cur.Meta.NavigationHistory...)
		if prev := cur.Meta.PreviousPageOptions; prev != nil {
			prevCopy := *prev
			p.previous = &prevCopy
		}
	} else {
		p.history = []types.PageOptions{cur.PageOptions}
	}

	return p, nil
}

func newPager[T any](fetcher Fetcher[T], codec *cursor.Codec) *Pager[T] {
	if codec == nil {
		codec = cursor.NewCodec(nil)
	}
	return &Pager[T]{
		fetcher: fetcher,
		codec:   codec,
		logger:  log.With().Str("component", "pager").Logger(),
	}
}

// commit installs a successfully fetched page as the current state.
func (p *Pager[T]) commit(opts types.PageOptions, page Page[T], previous *types.PageOptions) {
	p.items = page.Items
	p.current = opts
	p.next = page.Next
	p.previous = previous
}

// Items returns the current page's records. It never returns nil.
func (p *Pager[T]) Items() []T {
	if p.items == nil {
		return []T{}
	}
	return p.items
}

// CurrentPageOptions returns the filter of the current page.
func (p *Pager[T]) CurrentPageOptions() types.PageOptions {
	return p.current
}

// NextPageOptions returns a copy of the next page's filter, or nil on
// the last page.
func (p *Pager[T]) NextPageOptions() *types.PageOptions {
	if p.next == nil {
		return nil
	}
	next := *p.next
	return &next
}

// History returns a copy of the navigation history: one filter per
// visited page, oldest first.
func (p *Pager[T]) History() []types.PageOptions {
	return append([]types.PageOptions(nil), p.history...)
}

// HasNext reports whether a next page exists. No I/O.
func (p *Pager[T]) HasNext() bool {
	return p.next != nil
}

// HasPrevious reports whether a page precedes the current one. No I/O.
func (p *Pager[T]) HasPrevious() bool {
	return p.currentIndex() > 0
}

// Next advances to the next page. It returns false with a nil error on
// the last page (terminal condition, not an error) and false with the
// fetch error when the fetch failed; in both cases the pager state is
// unchanged. Only a successful fetch commits the transition.
func (p *Pager[T]) Next(ctx context.Context) (bool, error) {
	if p.next == nil {
		return false, nil
	}

	target := *p.next
	page, err := p.fetcher.FetchPage(ctx, target)
	if err != nil {
		p.logger.Debug().Err(err).Msg("Next page fetch failed, state unchanged")
		return false, fmt.Errorf("fetch next page: %w", err)
	}

	previous := p.current
	p.commit(target, page, &previous)
	if p.indexOf(target) < 0 {
		p.history = append(p.history, target)
	}
	return true, nil
}

// Previous moves back to the preceding page by re-fetching it (pages
// are not cached, so a long backward walk costs no memory; the trade is
// that the page reflects the remote collection as it is now, not as it
// was first shown). On the first page, or when the current filter is
// not in history, it returns false without fetching. A failed fetch
// returns false with the error and leaves state unchanged.
func (p *Pager[T]) Previous(ctx context.Context) (bool, error) {
	idx := p.currentIndex()
	if idx <= 0 {
		return false, nil
	}

	target := p.history[idx-1]
	page, err := p.fetcher.FetchPage(ctx, target)
	if err != nil {
		p.logger.Debug().Err(err).Msg("Previous page fetch failed, state unchanged")
		return false, fmt.Errorf("fetch previous page: %w", err)
	}

	var previous *types.PageOptions
	if idx >= 2 {
		prev := p.history[idx-2]
		previous = &prev
	}

	// Moving backward: the page we came from becomes the next page.
	forward := p.current
	p.commit(target, page, previous)
	p.next = &forward
	return true, nil
}

// All returns a lazy iterator over every remaining item: the current
// page's items in order, then each following page via Next until the
// collection is exhausted. A mid-iteration fetch failure is yielded as
// a non-nil error and ends the sequence; it is never silently dropped.
//
// The iterator advances the pager itself, so it is finite and
// non-restartable: ranging a second time continues from wherever the
// first range stopped.
func (p *Pager[T]) All(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for {
			for _, item := range p.items {
				if !yield(item, nil) {
					return
				}
			}

			ok, err := p.Next(ctx)
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			if !ok {
				return
			}
		}
	}
}

// currentIndex locates the current filter in history by structural
// equality. Returns -1 when not found.
func (p *Pager[T]) currentIndex() int {
	return p.indexOf(p.current)
}

func (p *Pager[T]) indexOf(target types.PageOptions) int {
	for i, opts := range p.history {
		if opts.Equal(target) {
			return i
		}
	}
	return -1
}

// CurrentCursor encodes the current page as an opaque token.
func (p *Pager[T]) CurrentCursor() (string, error) {
	idx := p.currentIndex()
	if idx < 0 {
		idx = 0
	}
	return p.codec.Encode(p.codec.Create(p.current, idx, p.history, p.next))
}

// NextCursor encodes the next page as a forward-looking token, letting
// an external system fetch the page this pager has not visited yet.
// Returns "" on the last page.
func (p *Pager[T]) NextCursor() (string, error) {
	if p.next == nil {
		return "", nil
	}
	return p.codec.Encode(p.codec.Create(*p.next, len(p.history), p.history, nil))
}

// PreviousCursor encodes the preceding page as a token. Returns "" on
// the first page.
func (p *Pager[T]) PreviousCursor() (string, error) {
	idx := p.currentIndex()
	if idx <= 0 {
		return "", nil
	}
	return p.codec.Encode(p.codec.Create(p.history[idx-1], idx-1, p.history, p.next))
}

// CursorInfo is the externally consumable view of navigation state,
// shaped for dropping straight into a paged HTTP response.
type CursorInfo struct {
	HasNextPage     bool   `json:"hasNextPage"`
	HasPreviousPage bool   `json:"hasPreviousPage"`
	NextCursor      string `json:"nextCursor,omitempty"`
	PreviousCursor  string `json:"previousCursor,omitempty"`
}

// CursorInfo assembles the cursor view for the current position.
func (p *Pager[T]) CursorInfo() (CursorInfo, error) {
	next, err := p.NextCursor()
	if err != nil {
		return CursorInfo{}, err
	}
	prev, err := p.PreviousCursor()
	if err != nil {
		return CursorInfo{}, err
	}
	return CursorInfo{
		HasNextPage:     p.HasNext(),
		HasPreviousPage: p.HasPrevious(),
		NextCursor:      next,
		PreviousCursor:  prev,
	}, nil
}
