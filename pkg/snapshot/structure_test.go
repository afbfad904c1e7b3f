package snapshot

import (
	"reflect"
	"testing"

	"github.com/go-drift/diffable/pkg/errors"
)

func testStructure() Structure[string, int] {
	return NewStructure([]Section[string, int]{
		{ID: "a", Items: []Item[int]{{ID: 1}, {ID: 2}, {ID: 3}}},
		{ID: "b", Items: []Item[int]{{ID: 4}, {ID: 5}}},
	})
}

// quietHandler suppresses the stderr log while a fatal error is expected.
type quietHandler struct{}

func (quietHandler) HandleError(*errors.Error) {}

func expectFatal(t *testing.T, kind errors.ErrorKind, fn func()) {
	t.Helper()
	errors.SetHandler(quietHandler{})
	defer errors.SetHandler(nil)
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Fatal("expected a fatal error, got none")
		}
		err, ok := r.(*errors.Error)
		if !ok {
			t.Fatalf("panic value = %T, want *errors.Error", r)
		}
		if err.Kind != kind {
			t.Errorf("error kind = %v, want %v", err.Kind, kind)
		}
	}()
	fn()
}

func itemIDs(st Structure[string, int], section string) []int {
	return st.ItemsInSection(section)
}

func TestNewStructureRejectsDuplicateItems(t *testing.T) {
	expectFatal(t, errors.KindDuplicate, func() {
		NewStructure([]Section[string, int]{
			{ID: "a", Items: []Item[int]{{ID: 1}}},
			{ID: "b", Items: []Item[int]{{ID: 1}}},
		})
	})
}

func TestNewStructureRejectsDuplicateSections(t *testing.T) {
	expectFatal(t, errors.KindDuplicate, func() {
		NewStructure([]Section[string, int]{{ID: "a"}, {ID: "a"}})
	})
}

func TestOrderedAccessors(t *testing.T) {
	st := testStructure()
	if got, want := st.SectionIDs(), []string{"a", "b"}; !reflect.DeepEqual(got, want) {
		t.Errorf("SectionIDs = %v, want %v", got, want)
	}
	if got, want := st.ItemIDs(), []int{1, 2, 3, 4, 5}; !reflect.DeepEqual(got, want) {
		t.Errorf("ItemIDs = %v, want %v", got, want)
	}
	if got, want := itemIDs(st, "b"), []int{4, 5}; !reflect.DeepEqual(got, want) {
		t.Errorf("ItemsInSection(b) = %v, want %v", got, want)
	}
	if got := st.TotalItemCount(); got != 5 {
		t.Errorf("TotalItemCount = %d, want 5", got)
	}
	if got := st.NumberOfItems("a"); got != 3 {
		t.Errorf("NumberOfItems(a) = %d, want 3", got)
	}
}

func TestItemsInSectionUnknownFails(t *testing.T) {
	st := testStructure()
	expectFatal(t, errors.KindNotFound, func() {
		st.ItemsInSection("missing")
	})
}

func TestSectionContaining(t *testing.T) {
	st := testStructure()
	if sec, ok := st.SectionContaining(4); !ok || sec != "b" {
		t.Errorf("SectionContaining(4) = %v, %v; want b, true", sec, ok)
	}
	if _, ok := st.SectionContaining(99); ok {
		t.Error("SectionContaining(99) reported presence for an unknown item")
	}
}

func TestAppendItemsToLastSection(t *testing.T) {
	st := testStructure()
	st.AppendItems([]int{6, 7})
	if got, want := itemIDs(st, "b"), []int{4, 5, 6, 7}; !reflect.DeepEqual(got, want) {
		t.Errorf("ItemsInSection(b) = %v, want %v", got, want)
	}
}

func TestAppendItemsToNamedSection(t *testing.T) {
	st := testStructure()
	st.AppendItemsToSection([]int{6}, "b")
	if got, want := itemIDs(st, "b"), []int{4, 5, 6}; !reflect.DeepEqual(got, want) {
		t.Errorf("ItemsInSection(b) = %v, want %v", got, want)
	}
}

func TestAppendItemsNoSectionsFails(t *testing.T) {
	var st Structure[string, int]
	expectFatal(t, errors.KindEmptyCollection, func() {
		st.AppendItems([]int{1})
	})
}

func TestAppendItemsUnknownSectionFails(t *testing.T) {
	st := testStructure()
	expectFatal(t, errors.KindNotFound, func() {
		st.AppendItemsToSection([]int{6}, "missing")
	})
}

func TestAppendDuplicateItemFails(t *testing.T) {
	st := testStructure()
	expectFatal(t, errors.KindDuplicate, func() {
		st.AppendItems([]int{2})
	})
}

func TestInsertItemsBeforeAndAfter(t *testing.T) {
	st := testStructure()
	st.InsertItemsBefore([]int{10, 11}, 2)
	if got, want := itemIDs(st, "a"), []int{1, 10, 11, 2, 3}; !reflect.DeepEqual(got, want) {
		t.Errorf("after InsertItemsBefore: %v, want %v", got, want)
	}
	st.InsertItemsAfter([]int{12}, 5)
	if got, want := itemIDs(st, "b"), []int{4, 5, 12}; !reflect.DeepEqual(got, want) {
		t.Errorf("after InsertItemsAfter: %v, want %v", got, want)
	}
}

func TestInsertItemsUnknownAnchorAlwaysFails(t *testing.T) {
	st := testStructure()
	expectFatal(t, errors.KindNotFound, func() {
		st.InsertItemsBefore([]int{10}, 99)
	})
}

func TestRemoveItemsIsTolerant(t *testing.T) {
	st := testStructure()
	st.RemoveItems([]int{99}) // unknown id is a no-op, never an error
	if got, want := st.ItemIDs(), []int{1, 2, 3, 4, 5}; !reflect.DeepEqual(got, want) {
		t.Errorf("ItemIDs = %v, want %v", got, want)
	}
}

func TestRemoveItemsMultiplePerSection(t *testing.T) {
	st := testStructure()
	// 1 and 3 land in the same section; removal must not corrupt indices.
	st.RemoveItems([]int{1, 3, 5})
	if got, want := st.ItemIDs(), []int{2, 4}; !reflect.DeepEqual(got, want) {
		t.Errorf("ItemIDs = %v, want %v", got, want)
	}
}

func TestRemoveItemsDuplicateInput(t *testing.T) {
	st := testStructure()
	st.RemoveItems([]int{2, 2})
	if got, want := itemIDs(st, "a"), []int{1, 3}; !reflect.DeepEqual(got, want) {
		t.Errorf("ItemsInSection(a) = %v, want %v", got, want)
	}
}

func TestRemoveAllItemsKeepsSections(t *testing.T) {
	st := testStructure()
	st.RemoveAllItems()
	if got, want := st.SectionIDs(), []string{"a", "b"}; !reflect.DeepEqual(got, want) {
		t.Errorf("SectionIDs = %v, want %v", got, want)
	}
	if got := st.TotalItemCount(); got != 0 {
		t.Errorf("TotalItemCount = %d, want 0", got)
	}
}

func TestMoveItemAcrossSections(t *testing.T) {
	st := testStructure()
	st.MoveItemAfter(2, 5)
	if got, want := itemIDs(st, "a"), []int{1, 3}; !reflect.DeepEqual(got, want) {
		t.Errorf("ItemsInSection(a) = %v, want %v", got, want)
	}
	if got, want := itemIDs(st, "b"), []int{4, 5, 2}; !reflect.DeepEqual(got, want) {
		t.Errorf("ItemsInSection(b) = %v, want %v", got, want)
	}
}

func TestMoveItemBeforeWithinSection(t *testing.T) {
	st := testStructure()
	st.MoveItemBefore(3, 1)
	if got, want := itemIDs(st, "a"), []int{3, 1, 2}; !reflect.DeepEqual(got, want) {
		t.Errorf("ItemsInSection(a) = %v, want %v", got, want)
	}
}

func TestMoveItemUnknownFails(t *testing.T) {
	st := testStructure()
	expectFatal(t, errors.KindNotFound, func() {
		st.MoveItemAfter(99, 1)
	})
	st2 := testStructure()
	expectFatal(t, errors.KindNotFound, func() {
		st2.MoveItemAfter(1, 99)
	})
}

func TestMoveItemRelativeToItselfFails(t *testing.T) {
	st := testStructure()
	// Remove-first semantics: once the item is removed, the anchor is gone.
	expectFatal(t, errors.KindNotFound, func() {
		st.MoveItemAfter(2, 2)
	})
}

func TestUpdateItemsMarksReloaded(t *testing.T) {
	st := testStructure()
	st.UpdateItems([]int{3, 5})
	secs := st.Sections()
	if !secs[0].Items[2].Reloaded {
		t.Error("item 3 not marked reloaded")
	}
	if !secs[1].Items[1].Reloaded {
		t.Error("item 5 not marked reloaded")
	}
	if secs[0].Items[0].Reloaded {
		t.Error("item 1 unexpectedly marked reloaded")
	}
}

func TestUpdateItemsUnknownFails(t *testing.T) {
	st := testStructure()
	expectFatal(t, errors.KindNotFound, func() {
		st.UpdateItems([]int{99})
	})
}

func TestSectionMutations(t *testing.T) {
	st := testStructure()
	st.AppendSections([]string{"c"})
	st.InsertSectionsBefore([]string{"x"}, "a")
	if got, want := st.SectionIDs(), []string{"x", "a", "b", "c"}; !reflect.DeepEqual(got, want) {
		t.Errorf("SectionIDs = %v, want %v", got, want)
	}
	st.MoveSectionAfter("x", "c")
	if got, want := st.SectionIDs(), []string{"a", "b", "c", "x"}; !reflect.DeepEqual(got, want) {
		t.Errorf("after MoveSectionAfter: %v, want %v", got, want)
	}
	st.RemoveSections([]string{"x", "nope"})
	if got, want := st.SectionIDs(), []string{"a", "b", "c"}; !reflect.DeepEqual(got, want) {
		t.Errorf("after RemoveSections: %v, want %v", got, want)
	}
}

func TestRemoveSectionsDropsItems(t *testing.T) {
	st := testStructure()
	st.RemoveSections([]string{"a"})
	if got, want := st.ItemIDs(), []int{4, 5}; !reflect.DeepEqual(got, want) {
		t.Errorf("ItemIDs = %v, want %v", got, want)
	}
}

func TestInsertSectionsUnknownAnchorFails(t *testing.T) {
	st := testStructure()
	expectFatal(t, errors.KindNotFound, func() {
		st.InsertSectionsAfter([]string{"c"}, "missing")
	})
}

func TestAppendDuplicateSectionFails(t *testing.T) {
	st := testStructure()
	expectFatal(t, errors.KindDuplicate, func() {
		st.AppendSections([]string{"a"})
	})
}

func TestMoveSectionUnknownFails(t *testing.T) {
	st := testStructure()
	expectFatal(t, errors.KindNotFound, func() {
		st.MoveSectionBefore("missing", "a")
	})
}

func TestUpdateSectionsToleratesUnknown(t *testing.T) {
	st := testStructure()
	st.UpdateSections([]string{"b", "missing"}) // unknown ids silently skipped
	secs := st.Sections()
	if secs[0].Reloaded {
		t.Error("section a unexpectedly marked reloaded")
	}
	if !secs[1].Reloaded {
		t.Error("section b not marked reloaded")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	st := testStructure()
	clone := st.Clone()
	clone.AppendItems([]int{6})
	clone.UpdateItems([]int{1})
	if got, want := st.ItemIDs(), []int{1, 2, 3, 4, 5}; !reflect.DeepEqual(got, want) {
		t.Errorf("original mutated through clone: %v, want %v", got, want)
	}
	if st.Sections()[0].Items[0].Reloaded {
		t.Error("original flag mutated through clone")
	}
}

func TestClearReloadFlags(t *testing.T) {
	st := testStructure()
	st.UpdateItems([]int{1})
	st.UpdateSections([]string{"b"})
	secs := st.Sections()
	ClearReloadFlags(secs)
	for _, sec := range secs {
		if sec.Reloaded {
			t.Errorf("section %v still flagged", sec.ID)
		}
		for _, it := range sec.Items {
			if it.Reloaded {
				t.Errorf("item %v still flagged", it.ID)
			}
		}
	}
}
