package snapshot

// ContentEquatable is the optional capability an identifier type can provide
// to decouple content equality from identity equality.
//
// Identity equality (the comparable constraint on SectionID/ItemID) decides
// whether two entries are the same logical entry; content equality decides
// whether a matched entry needs a reload. Identifier types that do not
// implement ContentEquatable are considered content-equal whenever their
// identities are equal, so reloads only come from the explicit reload flag.
type ContentEquatable interface {
	// IsContentEqual reports whether the receiver's content matches other.
	// other is always a value of the same identifier type.
	IsContentEqual(other any) bool
}

// ContentEqual compares two identifiers of the same type by content.
// It consults ContentEquatable when implemented and falls back to identity
// equality otherwise.
func ContentEqual[T comparable](a, b T) bool {
	if ce, ok := any(a).(ContentEquatable); ok {
		return ce.IsContentEqual(b)
	}
	return a == b
}
