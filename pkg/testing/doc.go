// Package testing provides a replay harness for testing staged changesets
// and render-target adapters.
//
// [ModelTarget] is a datasource.RenderTarget that applies every primitive
// operation of a changeset to an in-memory model, checking index validity
// and verifying after each stage that the operations reproduce the stage's
// own data. Tests use it to prove that diffing source to target and
// replaying the result actually yields the target.
//
//	target := difftest.NewModelTarget[string, int](t)
//	core := datasource.New[string, int](target)
//	core.Apply(difftest.Snap(difftest.Sec("a", 1, 2, 3)), nil)
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import difftest "github.com/go-drift/diffable/pkg/testing"
package testing
