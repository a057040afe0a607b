// Package pagination turns one-way, server-driven page fetches into a
// bidirectional, resumable navigation abstraction.
//
// The API pages every collection with server-issued next-page filters:
// each fetch returns a batch of items plus the filter for the following
// page, or nothing when the collection is exhausted. Pager owns the
// current batch and the full navigation history, and exposes forward and
// backward traversal, iteration over all remaining items, and cursor
// introspection for handing navigation state to an external system.
//
// Example usage:
//
//	page, err := pagination.Start(ctx, fetcher, types.PageOptions{
//		PageSize: types.Int(25),
//	})
//	for page.HasNext() {
//		ok, err := page.Next(ctx)
//		...
//	}
//
//	token, _ := page.CurrentCursor()
//	// later, possibly in another process:
//	resumed, err := pagination.Resume(ctx, fetcher, nil, token)
//
// The pager:
//   - commits state only on a successful fetch (a failed traversal
//     leaves items, position and history untouched)
//   - re-fetches on backward navigation instead of caching pages, so a
//     long walk stays O(1) in memory; if the remote collection mutated
//     in between, the re-fetched page reflects the new data
//   - is not safe for concurrent use; callers serialize traversal calls
//     on one instance
package pagination
