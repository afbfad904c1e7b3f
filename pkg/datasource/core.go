package datasource

import (
	"sync"

	"github.com/go-drift/diffable/pkg/diff"
	"github.com/go-drift/diffable/pkg/errors"
	"github.com/go-drift/diffable/pkg/snapshot"
)

// Core owns the authoritative rendered structure of one bound list and
// reconciles it toward the snapshots callers apply.
//
// All applies for a core run on its private serial queue in submission
// order: apply N's commit happens before apply N+1's diff is computed, and
// completion callbacks fire in the same order. Accessors read the
// authoritative rendered state, meaning what the render target currently
// reflects, while Snapshot returns the last accepted desired state, which may be ahead
// of the rendered one while an apply is queued or in flight.
type Core[S comparable, I comparable] struct {
	queue *serialQueue

	mu       sync.RWMutex
	target   RenderTarget[S, I]
	current  snapshot.Snapshot[S, I]
	rendered []snapshot.Section[S, I]
}

// New returns a core bound to the given render target. A nil target is
// valid: the core starts detached and commits snapshots without diffing
// until a target is attached.
func New[S comparable, I comparable](target RenderTarget[S, I]) *Core[S, I] {
	return &Core[S, I]{
		queue:  newSerialQueue(),
		target: target,
	}
}

// Attach binds the core to a render target, replacing any previous one.
// Applies already enqueued pick up the new target when they execute.
func (c *Core[S, I]) Attach(target RenderTarget[S, I]) {
	c.mu.Lock()
	c.target = target
	c.mu.Unlock()
}

// Detach unbinds the render target. Subsequent applies (including ones
// already enqueued but not yet executed) skip diffing and commit their
// snapshot directly.
func (c *Core[S, I]) Detach() {
	c.Attach(nil)
}

// Close drains pending applies and stops the core's serial queue. The core
// must not be used afterwards.
func (c *Core[S, I]) Close() {
	c.queue.Close()
}

// Apply enqueues a reconciliation toward the given snapshot and returns
// immediately. The snapshot is captured by deep copy at call time, so the
// caller is free to keep mutating its value. completion, which may be nil,
// runs after the apply has committed; completions of successive applies run
// in submission order. Enqueued applies always run to completion; there is
// no cancellation.
func (c *Core[S, I]) Apply(snap snapshot.Snapshot[S, I], completion func()) {
	captured := snap.Clone()
	c.queue.Async(func() {
		c.mu.Lock()
		c.current = captured
		target := c.target
		c.mu.Unlock()

		desired := captured.Sections()
		snapshot.ClearReloadFlags(desired)

		if target == nil {
			// No live view: nothing can replay an edit script, so skip the
			// diff and jump straight to the end state.
			c.commit(desired)
			if completion != nil {
				completion()
			}
			return
		}

		c.mu.RLock()
		source := snapshot.CloneSections(c.rendered)
		c.mu.RUnlock()

		changeset := diff.Compute(source, captured.Sections())
		if len(changeset) == 0 {
			c.commit(desired)
			if completion != nil {
				completion()
			}
			return
		}
		target.Apply(changeset, func(sections []snapshot.Section[S, I]) {
			c.commit(sections)
		})
		if completion != nil {
			completion()
		}
	})
}

func (c *Core[S, I]) commit(sections []snapshot.Section[S, I]) {
	c.mu.Lock()
	c.rendered = snapshot.CloneSections(sections)
	c.mu.Unlock()
}

// Snapshot returns a copy of the last accepted desired state. While an
// apply is queued or in flight this can be ahead of what the render target
// shows; it is never behind it.
func (c *Core[S, I]) Snapshot() snapshot.Snapshot[S, I] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current.Clone()
}

// NumberOfSections returns the section count of the authoritative rendered
// structure.
func (c *Core[S, I]) NumberOfSections() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.rendered)
}

// NumberOfItems returns the item count of the rendered section at the given
// index, or 0 when the index is out of range. Count queries are legitimate
// during transitions, so an out-of-range index is not treated as an error.
func (c *Core[S, I]) NumberOfItems(section int) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if section < 0 || section >= len(c.rendered) {
		return 0
	}
	return len(c.rendered[section].Items)
}

// SectionIdentifier returns the identifier of the rendered section at the
// given index. UI callbacks may probe transient or stale indices during
// animation, so an out-of-range index reports absence rather than failing.
func (c *Core[S, I]) SectionIdentifier(index int) (S, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if index < 0 || index >= len(c.rendered) {
		var zero S
		return zero, false
	}
	return c.rendered[index].ID, true
}

// ItemIdentifier returns the identifier of the rendered item at the given
// position, with the same tolerance for stale positions as
// SectionIdentifier.
func (c *Core[S, I]) ItemIdentifier(pos diff.Position) (I, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if pos.Section < 0 || pos.Section >= len(c.rendered) {
		var zero I
		return zero, false
	}
	items := c.rendered[pos.Section].Items
	if pos.Item < 0 || pos.Item >= len(items) {
		var zero I
		return zero, false
	}
	return items[pos.Item].ID, true
}

// UnsafeItemIdentifier is ItemIdentifier for call sites where absence is a
// programmer error, typically the render target requesting content for a
// position the core just reported. It fails fast instead of reporting
// absence.
func (c *Core[S, I]) UnsafeItemIdentifier(pos diff.Position) I {
	id, ok := c.ItemIdentifier(pos)
	if !ok {
		errors.Fatalf("datasource.UnsafeItemIdentifier", errors.KindNotFound,
			"no item at section %d index %d", pos.Section, pos.Item)
	}
	return id
}

// IndexPath returns the rendered position of the given item, if present.
func (c *Core[S, I]) IndexPath(itemID I) (diff.Position, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for si, sec := range c.rendered {
		for ii, it := range sec.Items {
			if it.ID == itemID {
				return diff.Position{Section: si, Item: ii}, true
			}
		}
	}
	return diff.Position{}, false
}
