package diff

import (
	"slices"
	"sort"

	"github.com/go-drift/diffable/pkg/errors"
	"github.com/go-drift/diffable/pkg/snapshot"
)

// Compute returns the staged changeset that transforms source into target.
//
// Stages are emitted only when non-empty, in a fixed order chosen so that
// replaying index-based operations stage by stage never reads a stale index:
//
//  1. reloads (source index space)
//  2. deletes (source index space; items first, then sections)
//  3. section inserts and moves (target index space)
//  4. item inserts and moves (target index space, sections already final)
//
// Deleting a section implicitly deletes its items, and an inserted section
// carries its full target item list, so individual item operations are only
// emitted for sections present on both sides. An item that changes section
// becomes a delete plus an insert; the move primitive is reserved for
// same-section reordering.
//
// Compute fails fast when either side violates identity uniqueness. It is a
// pure function of its inputs: diffing the same pair twice yields identical
// changesets, and diffing a structure against itself yields an empty one.
func Compute[S comparable, I comparable](source, target []snapshot.Section[S, I]) StagedChangeset[S, I] {
	const op = "diff.Compute"

	src := snapshot.CloneSections(source)
	tgt := snapshot.CloneSections(target)

	srcSec := sectionIndex(op, "source", src)
	tgtSec := sectionIndex(op, "target", tgt)
	srcItem := itemIndex(op, "source", src)
	tgtItem := itemIndex(op, "target", tgt)

	// Section classification. Reload positions use source indices; insert
	// positions use target indices; moves are resolved later against the
	// post-delete intermediate.
	var sectionReloads, sectionDeletes, sectionInserts []int
	matchedSrc := make([]bool, len(src))
	for i, sec := range src {
		if _, ok := tgtSec[sec.ID]; ok {
			matchedSrc[i] = true
		} else {
			sectionDeletes = append(sectionDeletes, i)
		}
	}
	for j, sec := range tgt {
		si, ok := srcSec[sec.ID]
		if !ok {
			sectionInserts = append(sectionInserts, j)
			continue
		}
		if sec.Reloaded != src[si].Reloaded || !snapshot.ContentEqual(src[si].ID, sec.ID) {
			sectionReloads = append(sectionReloads, si)
		}
	}

	// Item classification, restricted to sections present on both sides.
	var itemReloads, itemDeletes, itemInserts []Position
	for si, sec := range src {
		if !matchedSrc[si] {
			continue
		}
		for ii, it := range sec.Items {
			tpos, inTarget := tgtItem[it.ID]
			if !inTarget {
				itemDeletes = append(itemDeletes, Position{Section: si, Item: ii})
				continue
			}
			if tgt[tpos.Section].ID == sec.ID {
				titem := tgt[tpos.Section].Items[tpos.Item]
				if titem.Reloaded != it.Reloaded || !snapshot.ContentEqual(it.ID, titem.ID) {
					itemReloads = append(itemReloads, Position{Section: si, Item: ii})
				}
				continue
			}
			// The item changed section. It always leaves this one; whether
			// an insert is emitted depends on the target side below.
			itemDeletes = append(itemDeletes, Position{Section: si, Item: ii})
		}
	}
	for tj, sec := range tgt {
		if _, matched := srcSec[sec.ID]; !matched {
			continue
		}
		for ti, it := range sec.Items {
			spos, inSource := srcItem[it.ID]
			if !inSource || src[spos.Section].ID != sec.ID {
				itemInserts = append(itemInserts, Position{Section: tj, Item: ti})
			}
		}
	}

	var changeset StagedChangeset[S, I]

	// Committed data never carries reload flags forward.
	data := snapshot.CloneSections(src)
	snapshot.ClearReloadFlags(data)

	// Stage 1: reloads at source positions, content refreshed from target.
	if len(sectionReloads)+len(itemReloads) > 0 {
		d := snapshot.CloneSections(data)
		for _, si := range sectionReloads {
			d[si].ID = tgt[tgtSec[d[si].ID]].ID
		}
		for _, p := range itemReloads {
			tp := tgtItem[d[p.Section].Items[p.Item].ID]
			d[p.Section].Items[p.Item].ID = tgt[tp.Section].Items[tp.Item].ID
		}
		changeset = append(changeset, Stage[S, I]{
			Sections:       d,
			SectionReloads: sectionReloads,
			ItemReloads:    itemReloads,
		})
		data = d
	}

	// Stage 2: deletes at source positions, items before sections.
	if len(sectionDeletes)+len(itemDeletes) > 0 {
		d := snapshot.CloneSections(data)
		for k := len(itemDeletes) - 1; k >= 0; k-- {
			p := itemDeletes[k]
			d[p.Section].Items = slices.Delete(d[p.Section].Items, p.Item, p.Item+1)
		}
		for k := len(sectionDeletes) - 1; k >= 0; k-- {
			si := sectionDeletes[k]
			d = slices.Delete(d, si, si+1)
		}
		changeset = append(changeset, Stage[S, I]{
			Sections:       d,
			SectionDeletes: sectionDeletes,
			ItemDeletes:    itemDeletes,
		})
		data = d
	}

	// Stage 3: section inserts and same-level moves. The intermediate now
	// holds exactly the matched sections in source relative order; the
	// longest increasing subsequence of their target order is the maximal
	// set that can stay put.
	interIdx := make(map[S]int, len(data))
	for i, sec := range data {
		interIdx[sec.ID] = i
	}
	var sectionMoves []Move
	var seq, seqTarget []int
	for j, sec := range tgt {
		if i, ok := interIdx[sec.ID]; ok {
			seq = append(seq, i)
			seqTarget = append(seqTarget, j)
		}
	}
	stable := longestIncreasingSubsequence(seq)
	for k := range seq {
		if !stable[k] {
			sectionMoves = append(sectionMoves, Move{From: seq[k], To: seqTarget[k]})
		}
	}
	if len(sectionInserts)+len(sectionMoves) > 0 {
		d := make([]snapshot.Section[S, I], len(tgt))
		for j, sec := range tgt {
			if i, ok := interIdx[sec.ID]; ok {
				d[j] = data[i].Clone()
			} else {
				d[j] = sec.Clone()
			}
		}
		snapshot.ClearReloadFlags(d)
		changeset = append(changeset, Stage[S, I]{
			Sections:       d,
			SectionInserts: sectionInserts,
			SectionMoves:   sectionMoves,
		})
		data = d
	}

	// Stage 4: item inserts and same-section moves. Section order is final,
	// so the data's section indices coincide with target section indices.
	finalIdx := make(map[S]int, len(data))
	for i, sec := range data {
		finalIdx[sec.ID] = i
	}
	var itemMoves []ItemMove
	for j, tsec := range tgt {
		di, ok := finalIdx[tsec.ID]
		if !ok {
			errors.Fatalf(op, errors.KindInternal, "section %v missing from intermediate data", tsec.ID)
		}
		stayerAt := make(map[I]int, len(data[di].Items))
		for i, it := range data[di].Items {
			stayerAt[it.ID] = i
		}
		var iseq, iseqTarget []int
		for ti, it := range tsec.Items {
			if i, stays := stayerAt[it.ID]; stays {
				iseq = append(iseq, i)
				iseqTarget = append(iseqTarget, ti)
			}
		}
		istable := longestIncreasingSubsequence(iseq)
		for k := range iseq {
			if !istable[k] {
				itemMoves = append(itemMoves, ItemMove{
					From: Position{Section: di, Item: iseq[k]},
					To:   Position{Section: j, Item: iseqTarget[k]},
				})
			}
		}
	}
	if len(itemInserts)+len(itemMoves) > 0 {
		d := snapshot.CloneSections(data)
		type placement struct {
			pos  Position
			item snapshot.Item[I]
		}
		placements := make([]placement, 0, len(itemInserts)+len(itemMoves))
		for _, mv := range itemMoves {
			placements = append(placements, placement{
				pos:  mv.To,
				item: d[mv.From.Section].Items[mv.From.Item],
			})
		}
		for _, p := range itemInserts {
			it := tgt[p.Section].Items[p.Item]
			it.Reloaded = false
			placements = append(placements, placement{pos: p, item: it})
		}
		removeMoveSources(d, itemMoves)
		sort.Slice(placements, func(a, b int) bool {
			if placements[a].pos.Section != placements[b].pos.Section {
				return placements[a].pos.Section < placements[b].pos.Section
			}
			return placements[a].pos.Item < placements[b].pos.Item
		})
		for _, p := range placements {
			d[p.pos.Section].Items = slices.Insert(d[p.pos.Section].Items, p.pos.Item, p.item)
		}
		changeset = append(changeset, Stage[S, I]{
			Sections:    d,
			ItemInserts: itemInserts,
			ItemMoves:   itemMoves,
		})
	}

	return changeset
}

// removeMoveSources deletes every move's source item, highest index first
// within each section so earlier removals never shift later ones.
func removeMoveSources[S comparable, I comparable](sections []snapshot.Section[S, I], moves []ItemMove) {
	perSection := make(map[int][]int)
	for _, mv := range moves {
		perSection[mv.From.Section] = append(perSection[mv.From.Section], mv.From.Item)
	}
	for si, indices := range perSection {
		sort.Sort(sort.Reverse(sort.IntSlice(indices)))
		for _, ii := range indices {
			sections[si].Items = slices.Delete(sections[si].Items, ii, ii+1)
		}
	}
}

func sectionIndex[S comparable, I comparable](op, side string, sections []snapshot.Section[S, I]) map[S]int {
	idx := make(map[S]int, len(sections))
	for i, sec := range sections {
		if _, dup := idx[sec.ID]; dup {
			errors.Fatalf(op, errors.KindDuplicate, "duplicate section identifier %v in %s", sec.ID, side)
		}
		idx[sec.ID] = i
	}
	return idx
}

func itemIndex[S comparable, I comparable](op, side string, sections []snapshot.Section[S, I]) map[I]Position {
	idx := make(map[I]Position)
	for si, sec := range sections {
		for ii, it := range sec.Items {
			if _, dup := idx[it.ID]; dup {
				errors.Fatalf(op, errors.KindDuplicate, "duplicate item identifier %v in %s", it.ID, side)
			}
			idx[it.ID] = Position{Section: si, Item: ii}
		}
	}
	return idx
}

// longestIncreasingSubsequence returns a mask marking one longest strictly
// increasing subsequence of seq. Marked elements keep their relative order;
// everything else has to move.
func longestIncreasingSubsequence(seq []int) []bool {
	n := len(seq)
	kept := make([]bool, n)
	if n == 0 {
		return kept
	}
	tails := make([]int, 0, n) // indices into seq, one per subsequence length
	parents := make([]int, n)
	for i, v := range seq {
		lo, hi := 0, len(tails)
		for lo < hi {
			mid := (lo + hi) / 2
			if seq[tails[mid]] < v {
				lo = mid + 1
			} else {
				hi = mid
			}
		}
		if lo > 0 {
			parents[i] = tails[lo-1]
		} else {
			parents[i] = -1
		}
		if lo == len(tails) {
			tails = append(tails, i)
		} else {
			tails[lo] = i
		}
	}
	for i := tails[len(tails)-1]; i >= 0; i = parents[i] {
		kept[i] = true
	}
	return kept
}
