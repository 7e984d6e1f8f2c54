// Package filtering implements the server-list filter pipeline.
//
// The pipeline takes the full collection of Server records and a request-scoped
// filter value, and produces a narrowed, optionally annotated, optionally
// size-limited view of that collection. It never mutates the underlying
// records; every step works on an immutable request value and a fresh working
// slice, so no order-dependent mutation can leak between steps or requests.
//
// # Pipeline steps
//
// Each step is independently triggered by the presence of its field in the
// request, and they run in a fixed order:
//
//  1. Category filter: exact, case-sensitive match on the category name. An
//     unknown category yields an empty result, not an error.
//  2. By-user filter: restricts to servers the calling user is a member of.
//     Requires an authenticated caller.
//  3. Member-count annotation: attaches the size of each remaining server's
//     member set.
//  4. Quantity limit: truncates the working set to the first N items,
//     preserving order.
//  5. By-server-id filter: restricts the already-limited working set to a
//     single server id. Requires an authenticated caller; an id with no match
//     is an error, as is a non-integer id.
//
// Note that the quantity limit is applied before the by-id filter: a server
// cut off by the quantity limit is reported as not found even though it exists.
// This matches the deployed behavior of the listing endpoint and is load-bearing
// for API compatibility; see DESIGN.md before reordering.
//
// # Parameter semantics
//
// Boolean parameters accept only the literal string "true". Any other value,
// including "True" and "1", is false. Compatibility tests depend on this
// exact-match behavior.
package filtering
