package datasource

import (
	"github.com/go-drift/diffable/pkg/diff"
	"github.com/go-drift/diffable/pkg/snapshot"
)

// RenderTarget is the contract the core requires from the UI list it drives.
//
// The core hands the target a staged changeset; the target replays each
// stage visually (insert/delete/move/reload rows and sections, with whatever
// animation style it chooses). Before replaying a stage's operations the
// target must invoke setData with that stage's Sections, so that any
// data-source queries made by the toolkit during replay observe the
// post-stage state. Apply is always invoked on the core's serial context and
// is expected to drive the toolkit synchronously from it.
//
// The target handle is non-owning: a core tolerates its target disappearing
// between enqueue and execution. Call [Core.Detach] when the backing view
// goes away; a detached core commits new snapshots directly, skipping the
// diff entirely.
type RenderTarget[S comparable, I comparable] interface {
	Apply(changeset diff.StagedChangeset[S, I], setData func(sections []snapshot.Section[S, I]))
}
