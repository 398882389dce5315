package specialize

import (
	"os"
	"strings"
	"testing"

	"github.com/doarr-lang/dcc/internal/expr"
)

func TestWriteWrapperSourceContainsShadowedEntryPoint(t *testing.T) {
	f, err := os.CreateTemp("", "wrapper-*.cxx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer os.Remove(f.Name())

	call := expr.NewExprs([]*expr.Expr{expr.NewDyn(expr.TagInt, 0), expr.NewDyn(expr.TagInt, 0)})
	shape := CallShape{CallArgs: &call}

	if err := writeWrapperSource(f, "add", shape); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_ = f.Close()

	data, err := os.ReadFile(f.Name())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := string(data)

	for _, want := range []string{
		"#undef DOARR_EXPORT",
		"DOARR_EXPORT(const doarr_param_t *DOARR_EXPORT)",
		"add(DOARR_EXPORT[0].i, DOARR_EXPORT[1].i)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("want generated source to contain %q, got:\n%s", want, out)
		}
	}
}

func TestWriteWrapperSourceWithTemplateArgs(t *testing.T) {
	f, err := os.CreateTemp("", "wrapper-*.cxx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer os.Remove(f.Name())

	tmpl := expr.NewExprs([]*expr.Expr{expr.NewRawInt(4)})
	call := expr.NewExprs([]*expr.Expr{expr.NewDyn(expr.TagFloat, 0)})
	shape := CallShape{TemplateArgs: &tmpl, CallArgs: &call}

	if err := writeWrapperSource(f, "scale", shape); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_ = f.Close()

	data, _ := os.ReadFile(f.Name())
	out := string(data)
	if !strings.Contains(out, "scale<4>(DOARR_EXPORT[0].f)") {
		t.Errorf("want template-args rendered before call args, got:\n%s", out)
	}
}
