// Package specialize is the runtime half of the system: given a guest file's
// embedded precompiled header and an expression tree describing one call
// into an exported entry point, it generates a tiny wrapper translation
// unit, compiles and links it against the host C++ compiler, dlopens the
// result, and resolves the compiled specialization's entry symbol
// (SPEC_FULL.md §4.E–§4.G). Compiled specializations are cached for the
// lifetime of the process, keyed on the exact (entry, template args, call
// args) shape, so repeated calls at the same shape with different dynamic
// values never recompile (§4.F).
//
// See DESIGN.md for the precompiled-header handling and no-eviction,
// insert-only-after-a-successful-compile cache discipline this is grounded on, adapted
// from a network-keyed object cache to a single in-process map.
package specialize

import "github.com/doarr-lang/dcc/internal/expr"

// GuestFile is one guest translation unit's runtime-relevant state, as
// embedded by the build driver into the artifact linked into the host
// program: its precompiled header bytes and the subset of the original
// compiler flags that must be replayed to recompile a wrapper against it.
type GuestFile struct {
	Gch            []byte
	CxxArgs        []string
	PositionMarker int
}

// Entry identifies one exported function within a GuestFile. The host
// program holds one *Entry per doarr::exported declaration it calls,
// constructed once at startup from the descriptors the build driver
// generated; its address is stable for the process lifetime and is what the
// cache keys specializations on.
type Entry struct {
	File *GuestFile
	Name string
}

// CallShape is the pair of expression trees that together identify one
// specialization: the template arguments (if the export is a template) and
// the call arguments. Both trees' Dyn leaves are placeholders — their
// payload values are irrelevant to which specialization this call needs,
// only the tree shape is (SPEC_FULL.md §4.F).
type CallShape struct {
	TemplateArgs *expr.Exprs
	CallArgs     *expr.Exprs
}
