package snapshot

import (
	"slices"
	"sort"

	"github.com/go-drift/diffable/pkg/errors"
)

// AppendSections appends empty sections with the given identifiers.
// It fails fast when an identifier is already present.
func (st *Structure[S, I]) AppendSections(sectionIDs []S) {
	const op = "snapshot.AppendSections"
	idx := st.index(op)
	for _, id := range sectionIDs {
		if _, dup := idx.sections[id]; dup {
			errors.Fatalf(op, errors.KindDuplicate, "section %v already present", id)
		}
		idx.sections[id] = len(st.sections)
		st.sections = append(st.sections, Section[S, I]{ID: id})
	}
}

// InsertSectionsBefore inserts empty sections immediately before the anchor
// section. It fails fast when the anchor does not exist.
func (st *Structure[S, I]) InsertSectionsBefore(sectionIDs []S, anchor S) {
	st.insertSections("snapshot.InsertSectionsBefore", sectionIDs, anchor, false)
}

// InsertSectionsAfter inserts empty sections immediately after the anchor
// section. It fails fast when the anchor does not exist.
func (st *Structure[S, I]) InsertSectionsAfter(sectionIDs []S, anchor S) {
	st.insertSections("snapshot.InsertSectionsAfter", sectionIDs, anchor, true)
}

func (st *Structure[S, I]) insertSections(op string, sectionIDs []S, anchor S, after bool) {
	idx := st.index(op)
	si, ok := idx.sections[anchor]
	if !ok {
		errors.Fatalf(op, errors.KindNotFound, "anchor section %v not found", anchor)
	}
	inserted := make([]Section[S, I], len(sectionIDs))
	for i, id := range sectionIDs {
		if _, dup := idx.sections[id]; dup {
			errors.Fatalf(op, errors.KindDuplicate, "section %v already present", id)
		}
		idx.sections[id] = -1
		inserted[i] = Section[S, I]{ID: id}
	}
	at := si
	if after {
		at++
	}
	st.sections = slices.Insert(st.sections, at, inserted...)
}

// RemoveSections removes the named sections together with their items.
// Unknown identifiers are silently ignored, matching RemoveItems.
func (st *Structure[S, I]) RemoveSections(sectionIDs []S) {
	idx := st.index("snapshot.RemoveSections")
	var indices []int
	seen := make(map[S]bool, len(sectionIDs))
	for _, id := range sectionIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		if si, ok := idx.sections[id]; ok {
			indices = append(indices, si)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(indices)))
	for _, si := range indices {
		st.sections = slices.Delete(st.sections, si, si+1)
	}
}

// MoveSectionBefore moves a section immediately before the anchor section.
// It fails fast when either identifier does not exist.
func (st *Structure[S, I]) MoveSectionBefore(sectionID S, anchor S) {
	st.moveSection("snapshot.MoveSectionBefore", sectionID, anchor, false)
}

// MoveSectionAfter moves a section immediately after the anchor section.
// It fails fast when either identifier does not exist.
func (st *Structure[S, I]) MoveSectionAfter(sectionID S, anchor S) {
	st.moveSection("snapshot.MoveSectionAfter", sectionID, anchor, true)
}

// moveSection removes the section first and resolves the anchor against the
// post-removal structure, mirroring moveItem.
func (st *Structure[S, I]) moveSection(op string, sectionID S, anchor S, after bool) {
	idx := st.index(op)
	si, ok := idx.sections[sectionID]
	if !ok {
		errors.Fatalf(op, errors.KindNotFound, "section %v not found", sectionID)
	}
	moved := st.sections[si]
	st.sections = slices.Delete(st.sections, si, si+1)

	idx = st.index(op)
	anchorIdx, ok := idx.sections[anchor]
	if !ok {
		errors.Fatalf(op, errors.KindNotFound, "anchor section %v not found", anchor)
	}
	at := anchorIdx
	if after {
		at++
	}
	st.sections = slices.Insert(st.sections, at, moved)
}

// UpdateSections marks the named sections as reloaded. Unknown identifiers
// are silently skipped, unlike UpdateItems; the asymmetry is part of the
// documented contract.
func (st *Structure[S, I]) UpdateSections(sectionIDs []S) {
	idx := st.index("snapshot.UpdateSections")
	for _, id := range sectionIDs {
		if si, ok := idx.sections[id]; ok {
			st.sections[si].Reloaded = true
		}
	}
}
