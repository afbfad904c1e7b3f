package diff

import (
	"github.com/go-drift/diffable/pkg/snapshot"
)

// Position locates one item as a section index plus an in-section index.
type Position struct {
	Section int
	Item    int
}

// Move relocates a section from one index to another.
type Move struct {
	From int
	To   int
}

// ItemMove relocates an item within its section. Cross-section relocations
// are never expressed as moves; they are a delete in the old section paired
// with an insert in the new one.
type ItemMove struct {
	From Position
	To   Position
}

// Stage is one atomically-replayable batch of primitive edit operations.
//
// Sections holds the full post-stage structure data: the render target must
// hand it to the commit callback before replaying the stage's operations, so
// that data-source queries made during replay observe the post-stage state.
//
// Replay semantics within a stage: reloads refresh content in place;
// removals (deletes and move sources) are indexed against the pre-stage
// state and must be applied highest-to-lowest; insertions (inserts and move
// destinations) are indexed against the final post-stage state and must be
// applied lowest-to-highest after all removals.
type Stage[S comparable, I comparable] struct {
	Sections []snapshot.Section[S, I]

	SectionInserts []int
	SectionDeletes []int
	SectionMoves   []Move
	SectionReloads []int

	ItemInserts []Position
	ItemDeletes []Position
	ItemMoves   []ItemMove
	ItemReloads []Position
}

// OpCount returns the number of primitive operations in the stage.
func (s Stage[S, I]) OpCount() int {
	return len(s.SectionInserts) + len(s.SectionDeletes) + len(s.SectionMoves) +
		len(s.SectionReloads) + len(s.ItemInserts) + len(s.ItemDeletes) +
		len(s.ItemMoves) + len(s.ItemReloads)
}

// StagedChangeset is the ordered sequence of stages that transforms one
// structure into another. An empty changeset means the structures are
// already identical.
type StagedChangeset[S comparable, I comparable] []Stage[S, I]

// OpCount returns the number of primitive operations across all stages.
func (c StagedChangeset[S, I]) OpCount() int {
	n := 0
	for _, stage := range c {
		n += stage.OpCount()
	}
	return n
}
