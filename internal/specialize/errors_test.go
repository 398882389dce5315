package specialize

import (
	"errors"
	"testing"
)

func TestCompilationErrorUnwraps(t *testing.T) {
	cause := errors.New("exit status 1")
	err := &CompilationError{Entry: "scale", Err: cause, Stderr: "scale.cxx:1: error"}

	var target *CompilationError
	if !errors.As(err, &target) {
		t.Fatalf("want: errors.As matches *CompilationError, got: %v", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("want: errors.Is sees through to the wrapped cause")
	}
}

func TestLoadErrorUnwraps(t *testing.T) {
	cause := errors.New("undefined symbol: DOARR_EXPORT")
	err := &LoadError{Entry: "scale", Err: cause}

	var target *LoadError
	if !errors.As(err, &target) {
		t.Fatalf("want: errors.As matches *LoadError, got: %v", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("want: errors.Is sees through to the wrapped cause")
	}
}

func TestLogicErrorMessageNamesEntry(t *testing.T) {
	err := &LogicError{Entry: "scale"}
	if got := err.Error(); got == "" {
		t.Fatal("want: non-empty message")
	}

	var target *LogicError
	if !errors.As(err, &target) || target.Entry != "scale" {
		t.Errorf("want: errors.As matches *LogicError with Entry %q, got: %+v", "scale", target)
	}
}
