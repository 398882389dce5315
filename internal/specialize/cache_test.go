package specialize

import (
	"testing"

	"github.com/doarr-lang/dcc/internal/expr"
)

func shapeOf(vals ...uint64) CallShape {
	items := make([]*expr.Expr, len(vals))
	for i, v := range vals {
		items[i] = expr.NewDyn(expr.TagInt, v)
	}
	call := expr.NewExprs(items)
	return CallShape{CallArgs: &call}
}

func TestCacheMissThenHit(t *testing.T) {
	c := NewCache()
	entry := &Entry{Name: "add"}
	shape := shapeOf(1, 2)

	if got := c.Lookup(entry, shape); got != nil {
		t.Fatalf("want: nil on empty cache, got: %v", got)
	}

	fn := &Compiled{}
	c.Insert(entry, shape, fn)

	if got := c.Lookup(entry, shape); got != fn {
		t.Errorf("want: cached entry returned, got: %v", got)
	}
}

func TestCacheHitIgnoresDynPayloadDifference(t *testing.T) {
	c := NewCache()
	entry := &Entry{Name: "add"}
	fn := &Compiled{}
	c.Insert(entry, shapeOf(1, 2), fn)

	// Same shape, different runtime values: must still hit, since the whole
	// point of specialization is reusing one compile across many calls.
	if got := c.Lookup(entry, shapeOf(999, 12345)); got != fn {
		t.Errorf("want: cache hit across differing dyn values at the same shape, got: %v", got)
	}
}

func TestCacheMissOnDifferentShape(t *testing.T) {
	c := NewCache()
	entry := &Entry{Name: "add"}
	c.Insert(entry, shapeOf(1, 2), &Compiled{})

	if got := c.Lookup(entry, shapeOf(1, 2, 3)); got != nil {
		t.Errorf("want: nil for a different arity shape, got: %v", got)
	}
}

func TestCacheKeyedPerEntry(t *testing.T) {
	c := NewCache()
	a := &Entry{Name: "add"}
	b := &Entry{Name: "mul"}
	fnA := &Compiled{}
	c.Insert(a, shapeOf(1, 2), fnA)

	if got := c.Lookup(b, shapeOf(1, 2)); got != nil {
		t.Errorf("want: nil for a distinct entry even at the same shape, got: %v", got)
	}
}

func TestFailedCompileIsNotCached(t *testing.T) {
	c := NewCache()
	entry := &Entry{Name: "add"}
	shape := shapeOf(1, 2)

	// Simulates a failed Compile: Insert is simply never called.
	if got := c.Lookup(entry, shape); got != nil {
		t.Fatalf("want: nil, got: %v", got)
	}
}
