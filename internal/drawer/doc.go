// Package drawer turns a pattern tree into the flat row list displayed by
// the pattern table.
//
// # Overview
//
// A Drawer is the stateful context for one table instance. Each render pass
// it walks the (sorted) root node list and emits one Row value per visible
// line: leaf entries, container headers, array chunk summaries, and the
// truncation row for arrays whose remaining chunks are not yet revealed.
// The walk is synchronous and completes before Render returns; nothing in
// this package touches a terminal.
//
// # Render/interaction split
//
// The original design this follows is immediate-mode: input is handled in
// the middle of the draw pass. A retained terminal UI delivers input
// between passes instead, so the Drawer exposes explicit mutators —
// Toggle, RevealMore, SetSort, Activate — that the host view calls in
// response to key events. The next Render pass reflects the change. The
// effect is identical: reveals, expansion and re-sorting are always
// deferred to a subsequent pass rather than blocking the current one.
//
// # State
//
// Three pieces of state persist across passes, all keyed by stable node
// identity: the pagination map (how many chunks of each array are
// revealed), the open-state set for expandable rows, and the cached
// top-level sort order. Entries are created lazily and never evicted;
// growth is bounded by tree size, not frame count. A Drawer is not safe
// for concurrent use.
//
// # Selection
//
// The byte-range selection belongs to the host's hex view, reached through
// the SelectionBridge interface. Every row overlapping the live selection
// is flagged highlighted; activating a row writes the row's byte span back
// through the bridge. The drawer never stores selection state of its own.
package drawer
