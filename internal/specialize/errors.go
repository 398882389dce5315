package specialize

import "fmt"

// CompilationError reports that the host compiler rejected a generated
// wrapper translation unit (SPEC_FULL.md §4.G step 4, §7). This is a
// recoverable condition: the call shape that triggered it is at fault, not
// the engine itself, so a host program can catch this distinctly from
// LoadError or LogicError and decide how to proceed (e.g. surface the
// guest's compile error to its own caller).
type CompilationError struct {
	Entry  string
	Err    error
	Stderr string
}

func (e *CompilationError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("specialize: compile %s: %v", e.Entry, e.Err)
	}
	return fmt.Sprintf("specialize: compile %s: %v\n%s", e.Entry, e.Err, e.Stderr)
}

func (e *CompilationError) Unwrap() error { return e.Err }

// LoadError reports that dlopen or dlsym failed against a specialization
// that otherwise compiled successfully (§4.G step 4, §7). Distinct from
// CompilationError so a host program can tell "the guest code doesn't
// compile at this shape" from "the compiled .so couldn't be loaded".
type LoadError struct {
	Entry string
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("specialize: load %s: %v", e.Entry, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// LogicError reports a programmer error: a dynamic leaf used where only a
// compile-time template argument is allowed (§4.G's precondition, §7). This
// is never a property of the runtime environment — the same CallShape is
// always either a logic error or not, regardless of the host compiler or
// the cache's state — so it is raised before either is consulted.
type LogicError struct {
	Entry string
}

func (e *LogicError) Error() string {
	return fmt.Sprintf("specialize: %s: template arguments must be fully static", e.Entry)
}
