package testing

import (
	"testing"

	"github.com/go-drift/diffable/pkg/diff"
	"github.com/go-drift/diffable/pkg/snapshot"
)

type sections = []snapshot.Section[string, int]

// TestReplayCompleteness drives the full contract: for each source/target
// pair, computing the staged changeset and replaying it operation by
// operation against a model initialized to the source must yield exactly the
// target, with reload flags cleared.
func TestReplayCompleteness(t *testing.T) {
	tests := []struct {
		name   string
		source sections
		target sections
	}{
		{
			name:   "append item",
			source: sections{Sec("a", 1, 2, 3), Sec("b", 4, 5)},
			target: sections{Sec("a", 1, 2, 3), Sec("b", 4, 5, 6)},
		},
		{
			name:   "cross-section move",
			source: sections{Sec("a", 1, 2, 3), Sec("b", 4, 5)},
			target: sections{Sec("a", 1, 3), Sec("b", 4, 5, 2)},
		},
		{
			name:   "reload only",
			source: sections{Sec("a", 1, 2, 3)},
			target: sections{Reload(Sec("a", 1, 2, 3), 3)},
		},
		{
			name:   "reorder within section",
			source: sections{Sec("a", 1, 2, 3, 4, 5)},
			target: sections{Sec("a", 5, 3, 1, 2, 4)},
		},
		{
			name:   "section reorder",
			source: sections{Sec("a", 1), Sec("b", 2), Sec("c", 3)},
			target: sections{Sec("c", 3), Sec("a", 1), Sec("b", 2)},
		},
		{
			name:   "from empty",
			source: nil,
			target: sections{Sec("a", 1, 2), Sec("b", 3)},
		},
		{
			name:   "to empty",
			source: sections{Sec("a", 1, 2), Sec("b", 3)},
			target: nil,
		},
		{
			name:   "item escapes deleted section",
			source: sections{Sec("a", 1), Sec("b", 2)},
			target: sections{Sec("a", 1, 2)},
		},
		{
			name:   "item enters inserted section",
			source: sections{Sec("a", 1, 2)},
			target: sections{Sec("a", 1), Sec("b", 2)},
		},
		{
			name:   "everything at once",
			source: sections{Sec("a", 1, 2, 3), Sec("b", 4, 5, 6), Sec("c", 7)},
			target: sections{Sec("c", 7, 3), Sec("b", 6, 4), Sec("d", 8)},
		},
		{
			name:   "reorder with reload and insert",
			source: sections{Sec("a", 1, 2, 3), Sec("b", 4)},
			target: sections{Sec("b", 4, 9), Reload(Sec("a", 3, 1, 2), 1)},
		},
		{
			name:   "swap all sections and items",
			source: sections{Sec("a", 1, 2), Sec("b", 3, 4)},
			target: sections{Sec("b", 4, 3), Sec("a", 2, 1)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := NewModelTargetWith(t, tt.source)
			changeset := diff.Compute(tt.source, tt.target)
			model.Apply(changeset, nil)

			want := snapshot.CloneSections(tt.target)
			snapshot.ClearReloadFlags(want)
			if got := model.Sections(); !SectionsEqual(got, want) {
				t.Errorf("replayed model does not match target\ngot:  %v\nwant: %v", got, want)
			}
		})
	}
}

func TestReplayRoundTripProducesNoStages(t *testing.T) {
	src := sections{Sec("a", 1, 2), Sec("b", 3)}
	model := NewModelTargetWith(t, src)
	model.Apply(diff.Compute(src, src), nil)
	if got := len(model.Stages()); got != 0 {
		t.Errorf("round-trip replayed %d stages, want 0", got)
	}
	if !SectionsEqual(model.Sections(), src) {
		t.Error("round-trip changed the model")
	}
}

func TestModelTargetInvokesSetDataPerStage(t *testing.T) {
	src := sections{Sec("a", 1, 2, 3), Sec("b", 4, 5)}
	tgt := sections{Sec("a", 1, 3), Sec("b", 4, 5, 2)}

	model := NewModelTargetWith(t, src)
	changeset := diff.Compute(src, tgt)

	var committed [][]snapshot.Section[string, int]
	model.Apply(changeset, func(s []snapshot.Section[string, int]) {
		committed = append(committed, snapshot.CloneSections(s))
	})

	if len(committed) != len(changeset) {
		t.Fatalf("setData invoked %d times, want once per stage (%d)", len(committed), len(changeset))
	}
	last := committed[len(committed)-1]
	if !SectionsEqual(last, tgt) {
		t.Errorf("last committed data = %v, want %v", last, tgt)
	}
}

func TestSectionsEqual(t *testing.T) {
	a := sections{Sec("a", 1, 2)}
	if !SectionsEqual(a, sections{Sec("a", 1, 2)}) {
		t.Error("identical sections reported unequal")
	}
	if SectionsEqual(a, sections{Sec("a", 2, 1)}) {
		t.Error("reordered items reported equal")
	}
	if SectionsEqual(a, sections{Reload(Sec("a", 1, 2), 1)}) {
		t.Error("differing reload flags reported equal")
	}
	if SectionsEqual(a, sections{Sec("b", 1, 2)}) {
		t.Error("differing section ids reported equal")
	}
}
