// Package query is the client-side data synchronisation layer: a keyed cache
// of paginated and single-value server data, and a mutation coordinator that
// invalidates cache keys after successful writes.
//
// # Cache rules
//
//   - A Key names one independently cacheable stream, e.g. (comments, h1).
//   - GetOrFetch serves cached pages. A key with no pages, or one marked stale
//     by Invalidate, is refetched starting from the first page.
//   - Pages are fetched strictly in order: only the page directly after the
//     last cached one may be requested (ErrPageOutOfOrder otherwise), and
//     nothing past the last page (ErrNoMorePages).
//   - Concurrent requests for the same key and page share one fetch, but a
//     read issued after Invalidate, Clear or Reset never joins a fetch that
//     started before it.
//   - Fetches are detached from the caller's cancellation. A caller that goes
//     away gets its context error, but the result is still stored.
//   - An invalidation that lands while a fetch is in flight does not stop the
//     result from being stored; the entry simply stays stale, so the next
//     read refetches.
//   - A next page that arrives after the stream was restarted is dropped and
//     reported as ErrPageOutOfOrder.
//   - A failed fetch sets the entry's status to StatusError and keeps the
//     pages that were already cached.
//
// Entities inside cached pages are treated as immutable snapshots. The cache
// replaces whole pages and never edits them.
package query
