package snapshot

import (
	"slices"
	"sort"

	"github.com/go-drift/diffable/pkg/errors"
)

// AppendItems appends items to the last section.
// It fails fast when the structure has no sections.
func (st *Structure[S, I]) AppendItems(itemIDs []I) {
	const op = "snapshot.AppendItems"
	if len(st.sections) == 0 {
		errors.Fatalf(op, errors.KindEmptyCollection, "cannot append items to a structure with no sections")
	}
	st.appendItems(op, itemIDs, len(st.sections)-1)
}

// AppendItemsToSection appends items to the named section.
// It fails fast when the section does not exist.
func (st *Structure[S, I]) AppendItemsToSection(itemIDs []I, sectionID S) {
	const op = "snapshot.AppendItemsToSection"
	idx := st.index(op)
	si, ok := idx.sections[sectionID]
	if !ok {
		errors.Fatalf(op, errors.KindNotFound, "section %v not found", sectionID)
	}
	st.appendItems(op, itemIDs, si)
}

func (st *Structure[S, I]) appendItems(op string, itemIDs []I, si int) {
	idx := st.index(op)
	for _, id := range itemIDs {
		if _, dup := idx.items[id]; dup {
			errors.Fatalf(op, errors.KindDuplicate, "item %v already present", id)
		}
		idx.items[id] = position{section: si, item: len(st.sections[si].Items)}
		st.sections[si].Items = append(st.sections[si].Items, Item[I]{ID: id})
	}
}

// InsertItemsBefore inserts items immediately before the anchor item.
// It fails fast when the anchor does not exist.
func (st *Structure[S, I]) InsertItemsBefore(itemIDs []I, anchor I) {
	st.insertItems("snapshot.InsertItemsBefore", itemIDs, anchor, false)
}

// InsertItemsAfter inserts items immediately after the anchor item.
// It fails fast when the anchor does not exist.
func (st *Structure[S, I]) InsertItemsAfter(itemIDs []I, anchor I) {
	st.insertItems("snapshot.InsertItemsAfter", itemIDs, anchor, true)
}

func (st *Structure[S, I]) insertItems(op string, itemIDs []I, anchor I, after bool) {
	idx := st.index(op)
	pos, ok := idx.items[anchor]
	if !ok {
		errors.Fatalf(op, errors.KindNotFound, "anchor item %v not found", anchor)
	}
	inserted := make([]Item[I], len(itemIDs))
	for i, id := range itemIDs {
		if _, dup := idx.items[id]; dup {
			errors.Fatalf(op, errors.KindDuplicate, "item %v already present", id)
		}
		idx.items[id] = position{section: pos.section, item: -1}
		inserted[i] = Item[I]{ID: id}
	}
	at := pos.item
	if after {
		at++
	}
	sec := &st.sections[pos.section]
	sec.Items = slices.Insert(sec.Items, at, inserted...)
}

// RemoveItems removes the given items wherever they appear. Unknown
// identifiers are silently ignored: removing something already gone is a
// legitimate caller pattern, so this is the one tolerant item operation.
func (st *Structure[S, I]) RemoveItems(itemIDs []I) {
	idx := st.index("snapshot.RemoveItems")
	perSection := make(map[int][]int)
	seen := make(map[I]bool, len(itemIDs))
	for _, id := range itemIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		if pos, ok := idx.items[id]; ok {
			perSection[pos.section] = append(perSection[pos.section], pos.item)
		}
	}
	// Delete highest-to-lowest within each section so earlier removals never
	// shift the indices of later ones.
	for si, indices := range perSection {
		sort.Sort(sort.Reverse(sort.IntSlice(indices)))
		for _, ii := range indices {
			st.sections[si].Items = slices.Delete(st.sections[si].Items, ii, ii+1)
		}
	}
}

// RemoveAllItems clears the items of every section, keeping the sections.
func (st *Structure[S, I]) RemoveAllItems() {
	for i := range st.sections {
		st.sections[i].Items = nil
	}
}

// MoveItemBefore moves an item so that it sits immediately before the anchor
// item, possibly in a different section. It fails fast when either
// identifier does not exist.
func (st *Structure[S, I]) MoveItemBefore(itemID I, anchor I) {
	st.moveItem("snapshot.MoveItemBefore", itemID, anchor, false)
}

// MoveItemAfter moves an item so that it sits immediately after the anchor
// item, possibly in a different section. It fails fast when either
// identifier does not exist.
func (st *Structure[S, I]) MoveItemAfter(itemID I, anchor I) {
	st.moveItem("snapshot.MoveItemAfter", itemID, anchor, true)
}

// moveItem removes the item first and resolves the anchor position against
// the post-removal structure. Moving an item relative to itself therefore
// fails: once the item is removed, the anchor no longer exists.
func (st *Structure[S, I]) moveItem(op string, itemID I, anchor I, after bool) {
	idx := st.index(op)
	pos, ok := idx.items[itemID]
	if !ok {
		errors.Fatalf(op, errors.KindNotFound, "item %v not found", itemID)
	}
	src := &st.sections[pos.section]
	moved := src.Items[pos.item]
	src.Items = slices.Delete(src.Items, pos.item, pos.item+1)

	idx = st.index(op)
	anchorPos, ok := idx.items[anchor]
	if !ok {
		errors.Fatalf(op, errors.KindNotFound, "anchor item %v not found", anchor)
	}
	at := anchorPos.item
	if after {
		at++
	}
	dst := &st.sections[anchorPos.section]
	dst.Items = slices.Insert(dst.Items, at, moved)
}

// UpdateItems marks the given items as reloaded, forcing the next diff to
// emit a reload for them even when nothing else changed. It fails fast on
// any identifier that does not exist.
func (st *Structure[S, I]) UpdateItems(itemIDs []I) {
	const op = "snapshot.UpdateItems"
	idx := st.index(op)
	for _, id := range itemIDs {
		pos, ok := idx.items[id]
		if !ok {
			errors.Fatalf(op, errors.KindNotFound, "item %v not found", id)
		}
		st.sections[pos.section].Items[pos.item].Reloaded = true
	}
}
