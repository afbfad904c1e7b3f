package snapshot

import (
	"github.com/go-drift/diffable/pkg/errors"
)

// Item is one entry of a section, keyed by a stable identifier.
//
// Reloaded is a transient diff hint, not persisted content: it forces the
// next diff to emit a reload for this identity even when nothing else
// changed, and is cleared once the diff has been computed.
type Item[I comparable] struct {
	ID       I
	Reloaded bool
}

// Section is an ordered list of items keyed by a stable identifier.
// Reloaded mirrors the item-level flag at section granularity.
type Section[S comparable, I comparable] struct {
	ID       S
	Items    []Item[I]
	Reloaded bool
}

// Clone returns a deep copy of the section.
func (s Section[S, I]) Clone() Section[S, I] {
	out := s
	out.Items = make([]Item[I], len(s.Items))
	copy(out.Items, s.Items)
	return out
}

// CloneSections returns a deep copy of a section list.
func CloneSections[S comparable, I comparable](sections []Section[S, I]) []Section[S, I] {
	out := make([]Section[S, I], len(sections))
	for i, sec := range sections {
		out[i] = sec.Clone()
	}
	return out
}

// Structure is an ordered two-level collection of sections and items.
//
// Ordering is significant: it is exactly the rendering order. Section
// identifiers are unique across the structure, and item identifiers are
// unique across the whole structure, not just within their section. Every
// identity-addressed mutation rebuilds an identifier index and fails fast
// (via the errors package, terminating the program) when it detects a
// duplicate identifier or when a non-tolerant operation references an
// identifier that does not exist.
type Structure[S comparable, I comparable] struct {
	sections []Section[S, I]
}

// NewStructure builds a Structure from the given sections, failing fast if
// any section or item identifier appears more than once.
func NewStructure[S comparable, I comparable](sections []Section[S, I]) Structure[S, I] {
	st := Structure[S, I]{sections: CloneSections(sections)}
	st.index("snapshot.NewStructure")
	return st
}

// Clone returns a deep copy of the structure.
func (st Structure[S, I]) Clone() Structure[S, I] {
	return Structure[S, I]{sections: CloneSections(st.sections)}
}

// Sections returns a deep copy of the structure's sections in render order.
func (st Structure[S, I]) Sections() []Section[S, I] {
	return CloneSections(st.sections)
}

// NumberOfSections returns the number of sections.
func (st Structure[S, I]) NumberOfSections() int {
	return len(st.sections)
}

// SectionIDs returns all section identifiers in render order.
func (st Structure[S, I]) SectionIDs() []S {
	ids := make([]S, len(st.sections))
	for i, sec := range st.sections {
		ids[i] = sec.ID
	}
	return ids
}

// ItemIDs returns all item identifiers, flattened in render order.
func (st Structure[S, I]) ItemIDs() []I {
	var ids []I
	for _, sec := range st.sections {
		for _, it := range sec.Items {
			ids = append(ids, it.ID)
		}
	}
	return ids
}

// ItemsInSection returns the item identifiers of the named section in order.
// It fails fast if the section does not exist.
func (st Structure[S, I]) ItemsInSection(sectionID S) []I {
	const op = "snapshot.ItemsInSection"
	idx := st.index(op)
	si, ok := idx.sections[sectionID]
	if !ok {
		errors.Fatalf(op, errors.KindNotFound, "section %v not found", sectionID)
	}
	items := st.sections[si].Items
	ids := make([]I, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids
}

// NumberOfItems returns the item count of the named section.
// It fails fast if the section does not exist.
func (st Structure[S, I]) NumberOfItems(sectionID S) int {
	const op = "snapshot.NumberOfItems"
	idx := st.index(op)
	si, ok := idx.sections[sectionID]
	if !ok {
		errors.Fatalf(op, errors.KindNotFound, "section %v not found", sectionID)
	}
	return len(st.sections[si].Items)
}

// TotalItemCount returns the number of items across all sections.
func (st Structure[S, I]) TotalItemCount() int {
	n := 0
	for _, sec := range st.sections {
		n += len(sec.Items)
	}
	return n
}

// SectionContaining returns the identifier of the section holding itemID.
// Unlike the mutating operations, absence is not fatal: the second return
// value reports whether the item exists at all.
func (st Structure[S, I]) SectionContaining(itemID I) (S, bool) {
	for _, sec := range st.sections {
		for _, it := range sec.Items {
			if it.ID == itemID {
				return sec.ID, true
			}
		}
	}
	var zero S
	return zero, false
}

// ClearReloadFlags resets the transient reload hints on every section and
// item in place. The diff engine calls it when normalizing target data: a
// committed structure never carries reload flags forward.
func ClearReloadFlags[S comparable, I comparable](sections []Section[S, I]) {
	for si := range sections {
		sections[si].Reloaded = false
		for ii := range sections[si].Items {
			sections[si].Items[ii].Reloaded = false
		}
	}
}

// position locates one item: section index plus in-section index.
type position struct {
	section int
	item    int
}

// structureIndex maps identifiers to positions. It is rebuilt on demand by
// every identity-addressed operation; list sizes are UI-bounded, so the O(n)
// rebuild is acceptable.
type structureIndex[S comparable, I comparable] struct {
	sections map[S]int
	items    map[I]position
}

func (st Structure[S, I]) index(op string) structureIndex[S, I] {
	idx := structureIndex[S, I]{
		sections: make(map[S]int, len(st.sections)),
		items:    make(map[I]position),
	}
	for si, sec := range st.sections {
		if _, dup := idx.sections[sec.ID]; dup {
			errors.Fatalf(op, errors.KindDuplicate, "duplicate section identifier %v", sec.ID)
		}
		idx.sections[sec.ID] = si
		for ii, it := range sec.Items {
			if _, dup := idx.items[it.ID]; dup {
				errors.Fatalf(op, errors.KindDuplicate, "duplicate item identifier %v", it.ID)
			}
			idx.items[it.ID] = position{section: si, item: ii}
		}
	}
	return idx
}
