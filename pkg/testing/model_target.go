package testing

import (
	"sort"
	"sync"
	"testing"

	"github.com/go-drift/diffable/pkg/diff"
	"github.com/go-drift/diffable/pkg/snapshot"
)

// ModelTarget is a render target that replays staged changesets against an
// in-memory model, validating every operation's indices as it goes.
//
// It implements the same replay contract a real toolkit adapter would:
// within each stage it first hands the stage's data to setData, then applies
// reloads in place, removals (deletes and move sources) highest-to-lowest
// against pre-stage indices, and insertions (inserts and move destinations)
// lowest-to-highest against final indices. After replaying a stage it checks
// that the model matches the stage's data exactly, so a changeset whose
// operations do not reproduce its own data fails the test immediately.
type ModelTarget[S comparable, I comparable] struct {
	tb testing.TB

	mu       sync.Mutex
	sections []snapshot.Section[S, I]
	stages   []diff.Stage[S, I]
	applies  int
}

// NewModelTarget returns an empty model target reporting failures to tb.
func NewModelTarget[S comparable, I comparable](tb testing.TB) *ModelTarget[S, I] {
	return &ModelTarget[S, I]{tb: tb}
}

// NewModelTargetWith returns a model target pre-populated with sections.
func NewModelTargetWith[S comparable, I comparable](tb testing.TB, sections []snapshot.Section[S, I]) *ModelTarget[S, I] {
	return &ModelTarget[S, I]{tb: tb, sections: snapshot.CloneSections(sections)}
}

// Apply implements datasource.RenderTarget.
func (m *ModelTarget[S, I]) Apply(changeset diff.StagedChangeset[S, I], setData func([]snapshot.Section[S, I])) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, stage := range changeset {
		if setData != nil {
			setData(stage.Sections)
		}
		m.replay(i, stage)
		if !SectionsEqual(m.sections, stage.Sections) {
			m.tb.Errorf("stage %d: replayed model does not match stage data\nmodel: %v\nstage: %v",
				i, m.sections, stage.Sections)
		}
		m.stages = append(m.stages, stage)
	}
	m.applies++
}

// Sections returns a copy of the model's current sections.
func (m *ModelTarget[S, I]) Sections() []snapshot.Section[S, I] {
	m.mu.Lock()
	defer m.mu.Unlock()
	return snapshot.CloneSections(m.sections)
}

// Stages returns every stage replayed so far, across all applies.
func (m *ModelTarget[S, I]) Stages() []diff.Stage[S, I] {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]diff.Stage[S, I]{}, m.stages...)
}

// Applies returns how many times Apply has been invoked.
func (m *ModelTarget[S, I]) Applies() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.applies
}

func (m *ModelTarget[S, I]) replay(stageNum int, stage diff.Stage[S, I]) {
	// Reloads: in-place content refresh at pre-stage positions, which stage
	// data shares since reload stages never reorder.
	for _, si := range stage.SectionReloads {
		if si < 0 || si >= len(m.sections) || si >= len(stage.Sections) {
			m.tb.Fatalf("stage %d: section reload index %d out of range", stageNum, si)
		}
		m.sections[si].ID = stage.Sections[si].ID
		m.sections[si].Reloaded = false
	}
	for _, p := range stage.ItemReloads {
		if !m.validItem(p) || p.Section >= len(stage.Sections) || p.Item >= len(stage.Sections[p.Section].Items) {
			m.tb.Fatalf("stage %d: item reload position %v out of range", stageNum, p)
		}
		m.sections[p.Section].Items[p.Item] = stage.Sections[p.Section].Items[p.Item]
	}

	// Removals against pre-stage indices, highest first.
	itemRemovals := append([]diff.Position{}, stage.ItemDeletes...)
	for _, mv := range stage.ItemMoves {
		itemRemovals = append(itemRemovals, mv.From)
	}
	movedItems := make(map[diff.Position]snapshot.Item[I], len(stage.ItemMoves))
	for _, mv := range stage.ItemMoves {
		if !m.validItem(mv.From) {
			m.tb.Fatalf("stage %d: item move source %v out of range", stageNum, mv.From)
		}
		movedItems[mv.From] = m.sections[mv.From.Section].Items[mv.From.Item]
	}
	sort.Slice(itemRemovals, func(a, b int) bool {
		if itemRemovals[a].Section != itemRemovals[b].Section {
			return itemRemovals[a].Section > itemRemovals[b].Section
		}
		return itemRemovals[a].Item > itemRemovals[b].Item
	})
	for _, p := range itemRemovals {
		if !m.validItem(p) {
			m.tb.Fatalf("stage %d: item removal position %v out of range", stageNum, p)
		}
		items := m.sections[p.Section].Items
		m.sections[p.Section].Items = append(items[:p.Item], items[p.Item+1:]...)
	}

	sectionRemovals := append([]int{}, stage.SectionDeletes...)
	movedSections := make(map[int]snapshot.Section[S, I], len(stage.SectionMoves))
	for _, mv := range stage.SectionMoves {
		if mv.From < 0 || mv.From >= len(m.sections) {
			m.tb.Fatalf("stage %d: section move source %d out of range", stageNum, mv.From)
		}
		movedSections[mv.From] = m.sections[mv.From]
		sectionRemovals = append(sectionRemovals, mv.From)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(sectionRemovals)))
	for _, si := range sectionRemovals {
		if si < 0 || si >= len(m.sections) {
			m.tb.Fatalf("stage %d: section removal index %d out of range", stageNum, si)
		}
		m.sections = append(m.sections[:si], m.sections[si+1:]...)
	}

	// Insertions against final indices, lowest first. Inserted entries take
	// their content from the stage data; moved entries keep their own.
	type sectionPlacement struct {
		to  int
		sec snapshot.Section[S, I]
	}
	var sectionPlacements []sectionPlacement
	for _, to := range stage.SectionInserts {
		if to < 0 || to >= len(stage.Sections) {
			m.tb.Fatalf("stage %d: section insert index %d out of range", stageNum, to)
		}
		sectionPlacements = append(sectionPlacements, sectionPlacement{to: to, sec: stage.Sections[to].Clone()})
	}
	for _, mv := range stage.SectionMoves {
		sectionPlacements = append(sectionPlacements, sectionPlacement{to: mv.To, sec: movedSections[mv.From]})
	}
	sort.Slice(sectionPlacements, func(a, b int) bool { return sectionPlacements[a].to < sectionPlacements[b].to })
	for _, p := range sectionPlacements {
		if p.to < 0 || p.to > len(m.sections) {
			m.tb.Fatalf("stage %d: section insert index %d out of range", stageNum, p.to)
		}
		m.sections = append(m.sections, snapshot.Section[S, I]{})
		copy(m.sections[p.to+1:], m.sections[p.to:])
		m.sections[p.to] = p.sec
	}

	type itemPlacement struct {
		to diff.Position
		it snapshot.Item[I]
	}
	var itemPlacements []itemPlacement
	for _, to := range stage.ItemInserts {
		if to.Section < 0 || to.Section >= len(stage.Sections) ||
			to.Item < 0 || to.Item >= len(stage.Sections[to.Section].Items) {
			m.tb.Fatalf("stage %d: item insert position %v out of range", stageNum, to)
		}
		itemPlacements = append(itemPlacements, itemPlacement{to: to, it: stage.Sections[to.Section].Items[to.Item]})
	}
	for _, mv := range stage.ItemMoves {
		itemPlacements = append(itemPlacements, itemPlacement{to: mv.To, it: movedItems[mv.From]})
	}
	sort.Slice(itemPlacements, func(a, b int) bool {
		if itemPlacements[a].to.Section != itemPlacements[b].to.Section {
			return itemPlacements[a].to.Section < itemPlacements[b].to.Section
		}
		return itemPlacements[a].to.Item < itemPlacements[b].to.Item
	})
	for _, p := range itemPlacements {
		if p.to.Section < 0 || p.to.Section >= len(m.sections) {
			m.tb.Fatalf("stage %d: item insert section %d out of range", stageNum, p.to.Section)
		}
		items := m.sections[p.to.Section].Items
		if p.to.Item < 0 || p.to.Item > len(items) {
			m.tb.Fatalf("stage %d: item insert position %v out of range", stageNum, p.to)
		}
		items = append(items, snapshot.Item[I]{})
		copy(items[p.to.Item+1:], items[p.to.Item:])
		items[p.to.Item] = p.it
		m.sections[p.to.Section].Items = items
	}
}

func (m *ModelTarget[S, I]) validItem(p diff.Position) bool {
	return p.Section >= 0 && p.Section < len(m.sections) &&
		p.Item >= 0 && p.Item < len(m.sections[p.Section].Items)
}

// SectionsEqual reports whether two section lists are identical by
// identity, order, item contents and reload flags.
func SectionsEqual[S comparable, I comparable](a, b []snapshot.Section[S, I]) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID || a[i].Reloaded != b[i].Reloaded || len(a[i].Items) != len(b[i].Items) {
			return false
		}
		for j := range a[i].Items {
			if a[i].Items[j] != b[i].Items[j] {
				return false
			}
		}
	}
	return true
}
