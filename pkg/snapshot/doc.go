// Package snapshot provides the ordered, identity-keyed section/item
// collection that callers build and hand to a data source as the desired
// list state.
//
// # Identity
//
// Sections and items are addressed by stable identifiers, not indices. The
// identifier types are ordinary comparable Go types (strings, ints, small
// structs); a snapshot requires every section identifier and every item
// identifier to be unique across the whole snapshot. Identifier types may
// additionally implement [ContentEquatable] to give the diff engine a notion
// of content equality that is independent of identity.
//
// # Mutation contract
//
// Mutations reference identities and fail fast, terminating the program via
// the errors package, when a referenced identity does not exist. The two
// removal operations ([Snapshot.RemoveItems], [Snapshot.RemoveSections]) and
// [Snapshot.UpdateSections] are the deliberate exceptions: they silently
// ignore unknown identifiers.
//
// # Example
//
//	snap := snapshot.New[string, int]()
//	snap.AppendSections("inbox", "archive")
//	snap.AppendItemsToSection([]int{1, 2, 3}, "inbox")
//	snap.AppendItemsToSection([]int{4, 5}, "archive")
//	snap.MoveItemAfter(2, 5)
package snapshot
