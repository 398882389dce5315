package specialize

import (
	"errors"
	"testing"

	"github.com/doarr-lang/dcc/internal/expr"
)

func TestInvokeRejectsDynamicTemplateArgs(t *testing.T) {
	e := NewEngine(nil)
	entry := &Entry{Name: "scale"}
	tmpl := expr.NewExprs([]*expr.Expr{expr.NewDyn(expr.TagInt, 3)})
	shape := CallShape{TemplateArgs: &tmpl}

	err := e.Invoke(entry, shape, nil)
	var logicErr *LogicError
	if !errors.As(err, &logicErr) {
		t.Fatalf("want: *LogicError for a dynamic template argument, got: %v", err)
	}
	if logicErr.Entry != "scale" {
		t.Errorf("want: LogicError.Entry %q, got: %q", "scale", logicErr.Entry)
	}
}

// TestInvokeAllowsStaticTemplateArgsAndReusesCachedSpecialization pre-seeds
// the cache directly (package-internal access to Engine.cache) so this
// exercises the cache-hit path without needing a real host compiler: a
// static template-arg tree is accepted, and an already-cached specialization
// for that exact shape is reused rather than recompiled.
func TestInvokeAllowsStaticTemplateArgsAndReusesCachedSpecialization(t *testing.T) {
	e := &Engine{cache: NewCache()}

	entry := &Entry{Name: "scale"}
	tmpl := expr.NewExprs([]*expr.Expr{expr.NewRawInt(4)})
	shape := CallShape{TemplateArgs: &tmpl}
	called := 0
	e.cache.Insert(entry, shape, &Compiled{Call: func(p []uint64) { called++ }})

	if err := e.Invoke(entry, shape, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if called != 1 {
		t.Errorf("want: the cached specialization invoked once, got: %d calls", called)
	}
}
