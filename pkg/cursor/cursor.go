package cursor

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/Noves-Inc/noves-sdk-sub000/pkg/types"
)

const (
	// DefaultMaxNavigationHistory is the number of visited pages a
	// cursor embeds when the filter does not override it.
	DefaultMaxNavigationHistory = 10

	// SizeWarnThreshold is the encoded token size (bytes) above which
	// the warn sink is invoked. Token size is driven almost entirely by
	// the embedded navigation history length.
	SizeWarnThreshold = 5 * 1024
)

// ErrInvalidCursor indicates a token that could not be decoded.
var ErrInvalidCursor = errors.New("invalid cursor token")

// Meta is the navigation metadata embedded in an enhanced cursor.
// Indexes are relative to the embedded (possibly truncated) history;
// OriginalPageIndex and HistoryStartIndex recover the true position.
type Meta struct {
	// CurrentPageIndex is the target page's position within
	// NavigationHistory.
	CurrentPageIndex int `json:"currentPageIndex"`

	// NavigationHistory is a bounded slice of the session's visited
	// page filters, truncated oldest-first.
	NavigationHistory []types.PageOptions `json:"navigationHistory"`

	// CanGoBack reports whether a page precedes the target.
	CanGoBack bool `json:"canGoBack"`

	// CanGoForward reports whether a page follows the target.
	CanGoForward bool `json:"canGoForward"`

	// PreviousPageOptions is the filter of the page before the target,
	// when one exists.
	PreviousPageOptions *types.PageOptions `json:"previousPageOptions,omitempty"`

	// NextPageOptions is the filter of the page after the target, when
	// one exists.
	NextPageOptions *types.PageOptions `json:"nextPageOptions,omitempty"`

	// OriginalPageIndex is the target's index in the untruncated
	// history.
	OriginalPageIndex int `json:"originalPageIndex"`

	// HistoryStartIndex is the offset of NavigationHistory into the
	// untruncated history, i.e. how many earlier pages were dropped.
	HistoryStartIndex int `json:"historyStartIndex"`
}

// Cursor is a decoded token: the target page's filter, plus navigation
// metadata when the token is of the enhanced generation.
//
// The wire format is Base64(JSON) with the filter fields at the top
// level and the metadata under the "_cursorMeta" key. This shape is
// frozen for compatibility with existing tokens.
type Cursor struct {
	types.PageOptions

	Meta *Meta `json:"_cursorMeta,omitempty"`
}

// IsEnhanced reports whether the cursor carries navigation metadata.
// Legacy tokens decode to a bare filter with Meta == nil.
func (c Cursor) IsEnhanced() bool {
	return c.Meta != nil
}

// WarnFunc receives non-fatal diagnostics from the codec, currently
// only oversized-token warnings.
type WarnFunc func(msg string)

// Codec converts page filters plus navigation metadata to opaque string
// tokens and back. The zero-cost Create step assembles metadata; Encode
// and Decode handle the wire format.
type Codec struct {
	warn WarnFunc
}

// NewCodec creates a codec. A nil warn sink logs diagnostics through
// zerolog at warn level.
func NewCodec(warn WarnFunc) *Codec {
	if warn == nil {
		warn = func(msg string) {
			log.Warn().Str("component", "cursor-codec").Msg(msg)
		}
	}
	return &Codec{warn: warn}
}

// Create assembles the cursor for the page at targetIndex. history is
// the full, untruncated navigation history of the session; liveNext is
// the engine's current next-page filter, if any. A targetIndex at or
// beyond len(history) describes a page not yet committed (a
// forward-looking cursor); the target filter is then appended to the
// embedded history itself.
func (c *Codec) Create(target types.PageOptions, targetIndex int, history []types.PageOptions, liveNext *types.PageOptions) Cursor {
	maxHistory := DefaultMaxNavigationHistory
	if target.MaxNavigationHistory != nil && *target.MaxNavigationHistory > 0 {
		maxHistory = *target.MaxNavigationHistory
	}

	startIndex := targetIndex + 1 - maxHistory
	if startIndex < 0 {
		startIndex = 0
	}

	embedded := make([]types.PageOptions, 0, maxHistory)
	for i := startIndex; i <= targetIndex && i < len(history); i++ {
		embedded = append(embedded, history[i])
	}
	if targetIndex >= len(history) {
		embedded = append(embedded, target)
	}

	meta := &Meta{
		CurrentPageIndex:  targetIndex - startIndex,
		NavigationHistory: embedded,
		CanGoBack:         targetIndex > 0,
		CanGoForward:      targetIndex < len(history)-1 || liveNext != nil,
		OriginalPageIndex: targetIndex,
		HistoryStartIndex: startIndex,
	}

	if targetIndex > 0 && targetIndex-1 < len(history) {
		prev := history[targetIndex-1]
		meta.PreviousPageOptions = &prev
	}
	if targetIndex+1 < len(history) {
		next := history[targetIndex+1]
		meta.NextPageOptions = &next
	} else if liveNext != nil {
		next := *liveNext
		meta.NextPageOptions = &next
	}

	return Cursor{PageOptions: target, Meta: meta}
}

// Encode serializes a cursor to its opaque token form.
func (c *Codec) Encode(cur Cursor) (string, error) {
	data, err := json.Marshal(cur)
	if err != nil {
		return "", fmt.Errorf("marshal cursor: %w", err)
	}

	token := base64.StdEncoding.EncodeToString(data)
	if len(token) > SizeWarnThreshold {
		c.warn(fmt.Sprintf(
			"cursor token is %d bytes (threshold %d); lower MaxNavigationHistory to shrink it",
			len(token), SizeWarnThreshold))
	}

	return token, nil
}

// Decode parses a token of either generation. Both failure modes
// (bad Base64, bad JSON) wrap ErrInvalidCursor: a malformed token is a
// client error and is never reduced to "no more pages".
func (c *Codec) Decode(token string) (Cursor, error) {
	data, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}

	var cur Cursor
	if err := json.Unmarshal(data, &cur); err != nil {
		return Cursor{}, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}

	return cur, nil
}
