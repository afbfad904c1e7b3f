// Package datasource provides the reconciliation core that keeps a live,
// stateful UI list in sync with applied snapshots.
//
// A [Core] owns the authoritative rendered structure of exactly one bound
// list. Callers describe the desired state as a [snapshot.Snapshot] and hand
// it to [Core.Apply]; the core computes the staged edit script with the diff
// package and drives the bound [RenderTarget] through it, committing the
// authoritative structure stage by stage via the target's setData callback.
//
// Every core serializes its work on a private FIFO queue: applies, their
// diffs, their commits and their completion callbacks are strictly ordered
// relative to each other. Applying is asynchronous from the caller's point
// of view. The accessor methods (section/item identity by index, counts,
// reverse lookup) answer from the committed rendered state and are safe to
// call from toolkit query callbacks at any point of a transition.
//
//	core := datasource.New[string, int](target)
//	snap := snapshot.New[string, int]()
//	snap.AppendSections("inbox")
//	snap.AppendItems(1, 2, 3)
//	core.Apply(snap, func() { /* committed */ })
package datasource
