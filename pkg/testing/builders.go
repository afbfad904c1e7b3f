package testing

import (
	"github.com/go-drift/diffable/pkg/snapshot"
)

// Sec builds a section with plain (unflagged) items.
func Sec[S comparable, I comparable](id S, items ...I) snapshot.Section[S, I] {
	sec := snapshot.Section[S, I]{ID: id, Items: make([]snapshot.Item[I], len(items))}
	for i, it := range items {
		sec.Items[i] = snapshot.Item[I]{ID: it}
	}
	return sec
}

// Snap builds a snapshot from sections, failing fast on duplicate ids.
func Snap[S comparable, I comparable](sections ...snapshot.Section[S, I]) snapshot.Snapshot[S, I] {
	return snapshot.FromSections(sections)
}

// Reload returns a copy of sec with the given items flagged for reload.
func Reload[S comparable, I comparable](sec snapshot.Section[S, I], items ...I) snapshot.Section[S, I] {
	out := sec.Clone()
	for _, id := range items {
		for i := range out.Items {
			if out.Items[i].ID == id {
				out.Items[i].Reloaded = true
			}
		}
	}
	return out
}
