package snapshot

// Snapshot is the caller-facing desired-state value: an ordered collection
// of sections, each holding an ordered list of items, addressed entirely by
// identity.
//
// A Snapshot is constructed empty, mutated freely by the caller, and then
// handed to a data source for application. Snapshots are plain values with
// no internal locking; they are meant to be built and mutated on whatever
// goroutine is convenient and published by handing them off. Use Clone to
// obtain an independent copy — plain struct assignment aliases the
// underlying section storage, so a Snapshot value must have exactly one
// owner at a time. Every boundary of this library (Apply capture, accessor
// returns) deep-copies, so later caller-side mutation never affects an
// in-flight application.
type Snapshot[S comparable, I comparable] struct {
	structure Structure[S, I]
}

// New returns an empty snapshot.
func New[S comparable, I comparable]() Snapshot[S, I] {
	return Snapshot[S, I]{}
}

// FromSections builds a snapshot from existing section data, failing fast on
// duplicate identifiers.
func FromSections[S comparable, I comparable](sections []Section[S, I]) Snapshot[S, I] {
	return Snapshot[S, I]{structure: NewStructure(sections)}
}

// Clone returns a deep, independent copy of the snapshot.
func (s Snapshot[S, I]) Clone() Snapshot[S, I] {
	return Snapshot[S, I]{structure: s.structure.Clone()}
}

// Sections returns a deep copy of the snapshot's sections in render order.
func (s Snapshot[S, I]) Sections() []Section[S, I] {
	return s.structure.Sections()
}

// NumberOfSections returns the number of sections.
func (s Snapshot[S, I]) NumberOfSections() int {
	return s.structure.NumberOfSections()
}

// NumberOfItems returns the item count of the named section, failing fast if
// the section does not exist.
func (s Snapshot[S, I]) NumberOfItems(sectionID S) int {
	return s.structure.NumberOfItems(sectionID)
}

// TotalItemCount returns the number of items across all sections.
func (s Snapshot[S, I]) TotalItemCount() int {
	return s.structure.TotalItemCount()
}

// SectionIDs returns all section identifiers in render order.
func (s Snapshot[S, I]) SectionIDs() []S {
	return s.structure.SectionIDs()
}

// ItemIDs returns all item identifiers, flattened in render order.
func (s Snapshot[S, I]) ItemIDs() []I {
	return s.structure.ItemIDs()
}

// ItemsInSection returns the item identifiers of the named section, failing
// fast if the section does not exist.
func (s Snapshot[S, I]) ItemsInSection(sectionID S) []I {
	return s.structure.ItemsInSection(sectionID)
}

// SectionContaining returns the section holding itemID, if any.
func (s Snapshot[S, I]) SectionContaining(itemID I) (S, bool) {
	return s.structure.SectionContaining(itemID)
}

// AppendSections appends empty sections. See Structure.AppendSections.
func (s *Snapshot[S, I]) AppendSections(sectionIDs ...S) {
	s.structure.AppendSections(sectionIDs)
}

// InsertSectionsBefore inserts empty sections before the anchor section.
func (s *Snapshot[S, I]) InsertSectionsBefore(sectionIDs []S, anchor S) {
	s.structure.InsertSectionsBefore(sectionIDs, anchor)
}

// InsertSectionsAfter inserts empty sections after the anchor section.
func (s *Snapshot[S, I]) InsertSectionsAfter(sectionIDs []S, anchor S) {
	s.structure.InsertSectionsAfter(sectionIDs, anchor)
}

// RemoveSections removes sections and their items; unknown ids are ignored.
func (s *Snapshot[S, I]) RemoveSections(sectionIDs ...S) {
	s.structure.RemoveSections(sectionIDs)
}

// MoveSectionBefore moves a section before the anchor section.
func (s *Snapshot[S, I]) MoveSectionBefore(sectionID S, anchor S) {
	s.structure.MoveSectionBefore(sectionID, anchor)
}

// MoveSectionAfter moves a section after the anchor section.
func (s *Snapshot[S, I]) MoveSectionAfter(sectionID S, anchor S) {
	s.structure.MoveSectionAfter(sectionID, anchor)
}

// UpdateSections marks sections as reloaded; unknown ids are skipped.
func (s *Snapshot[S, I]) UpdateSections(sectionIDs ...S) {
	s.structure.UpdateSections(sectionIDs)
}

// AppendItems appends items to the last section.
func (s *Snapshot[S, I]) AppendItems(itemIDs ...I) {
	s.structure.AppendItems(itemIDs)
}

// AppendItemsToSection appends items to the named section.
func (s *Snapshot[S, I]) AppendItemsToSection(itemIDs []I, sectionID S) {
	s.structure.AppendItemsToSection(itemIDs, sectionID)
}

// InsertItemsBefore inserts items before the anchor item.
func (s *Snapshot[S, I]) InsertItemsBefore(itemIDs []I, anchor I) {
	s.structure.InsertItemsBefore(itemIDs, anchor)
}

// InsertItemsAfter inserts items after the anchor item.
func (s *Snapshot[S, I]) InsertItemsAfter(itemIDs []I, anchor I) {
	s.structure.InsertItemsAfter(itemIDs, anchor)
}

// RemoveItems removes items wherever they appear; unknown ids are ignored.
func (s *Snapshot[S, I]) RemoveItems(itemIDs ...I) {
	s.structure.RemoveItems(itemIDs)
}

// RemoveAllItems clears every section's items, keeping the sections.
func (s *Snapshot[S, I]) RemoveAllItems() {
	s.structure.RemoveAllItems()
}

// MoveItemBefore moves an item before the anchor item.
func (s *Snapshot[S, I]) MoveItemBefore(itemID I, anchor I) {
	s.structure.MoveItemBefore(itemID, anchor)
}

// MoveItemAfter moves an item after the anchor item.
func (s *Snapshot[S, I]) MoveItemAfter(itemID I, anchor I) {
	s.structure.MoveItemAfter(itemID, anchor)
}

// UpdateItems marks items as reloaded, failing fast on unknown ids.
func (s *Snapshot[S, I]) UpdateItems(itemIDs ...I) {
	s.structure.UpdateItems(itemIDs)
}
