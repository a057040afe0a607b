// Package cursor encodes pagination state into opaque, transportable
// tokens and decodes them back.
//
// A cursor is self-contained: Base64 of a UTF-8 JSON object holding the
// target page's filter plus a _cursorMeta object describing recent
// navigation (bounded history, position, back/forward capability). No
// server-side session state is needed to resume from one; the cursor is
// the only state.
//
// Two token generations exist:
//
//   - enhanced cursors carry _cursorMeta
//   - legacy cursors are a bare filter, no metadata
//
// Decode handles both; IsEnhanced discriminates by presence of the
// metadata key.
//
// # Basic Usage
//
//	codec := cursor.NewCodec(nil)
//
//	cur := codec.Create(current, pageIndex, history, nextOptions)
//	token, err := codec.Encode(cur)
//
//	decoded, err := codec.Decode(token)
//	if errors.Is(err, cursor.ErrInvalidCursor) {
//		// malformed token - a client error, not "no more pages"
//	}
//	if decoded.IsEnhanced() {
//		// decoded.Meta describes navigation state
//	}
//
// # Bounded History
//
// The embedded navigation history is truncated oldest-first to
// MaxNavigationHistory entries (default 10) so tokens stay small enough
// for URL-length-constrained channels such as query strings and headers.
// Meta.HistoryStartIndex records how many earlier pages were dropped and
// Meta.OriginalPageIndex the untruncated position. Tokens larger than
// 5 KB are reported through the codec's warn sink; callers hitting the
// threshold should lower MaxNavigationHistory on their filters.
package cursor
