package specialize

import (
	"testing"

	"github.com/doarr-lang/dcc/internal/expr"
)

func TestJoinEmitEmpty(t *testing.T) {
	if got := joinEmit(expr.Empty); got != "" {
		t.Errorf("want: empty string, got: %q", got)
	}
}

func TestJoinEmitJoinsWithCommaSpace(t *testing.T) {
	es := expr.NewExprs([]*expr.Expr{
		expr.NewDyn(expr.TagInt, 0),
		expr.NewDyn(expr.TagFloat, 0),
	})
	got := joinEmit(es)
	want := "DOARR_EXPORT[0].i, DOARR_EXPORT[1].f"
	if got != want {
		t.Errorf("want: %q, got: %q", want, got)
	}
}

func TestDerefExprsNilIsEmpty(t *testing.T) {
	got := derefExprs(nil)
	if got.Len() != 0 {
		t.Errorf("want: zero-length Exprs for nil input, got len: %d", got.Len())
	}
}

func TestSpliceAtPositionInsertsAtIndex(t *testing.T) {
	got := spliceAtPosition([]string{"-DFOO", "-O2"}, 1, "wrapper.cxx")
	want := []string{"-DFOO", "wrapper.cxx", "-O2"}
	if len(got) != len(want) {
		t.Fatalf("want: %v, got: %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("want: got[%d]=%q, got: %q", i, want[i], got[i])
		}
	}
}

func TestSpliceAtPositionClampsOutOfRange(t *testing.T) {
	got := spliceAtPosition([]string{"-O2"}, 99, "wrapper.cxx")
	want := []string{"-O2", "wrapper.cxx"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("want: %v, got: %v", want, got)
	}
}
