package specialize

/*
#cgo LDFLAGS: -ldl
#include <dlfcn.h>
#include <stdlib.h>

typedef void (*doarr_entry_fn)(const unsigned long long *params);

static void doarr_call_entry(void *fn, const unsigned long long *params) {
	((doarr_entry_fn)fn)(params);
}
*/
import "C"

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"unsafe"

	"github.com/doarr-lang/dcc/internal/ioutil"
)

// sharedLib is a dlopen'd specialization .so, kept alive for as long as its
// *Compiled entry may still be invoked (i.e. for the process lifetime, since
// the cache never evicts).
type sharedLib struct {
	handle unsafe.Pointer
}

func dlopenLib(path string) (*sharedLib, error) {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	C.dlerror()
	h := C.dlopen(cpath, C.RTLD_NOW|C.RTLD_LOCAL)
	if h == nil {
		return nil, fmt.Errorf("dlopen %s: %s", path, C.GoString(C.dlerror()))
	}
	return &sharedLib{handle: h}, nil
}

func (lib *sharedLib) resolve(symbol string) (unsafe.Pointer, error) {
	csym := C.CString(symbol)
	defer C.free(unsafe.Pointer(csym))
	C.dlerror()
	sym := C.dlsym(lib.handle, csym)
	if errMsg := C.dlerror(); errMsg != nil {
		return nil, fmt.Errorf("dlsym %s: %s", symbol, C.GoString(errMsg))
	}
	return sym, nil
}

// Compiler turns a CallShape into a loaded, callable Compiled specialization
// by generating a wrapper translation unit, compiling it against the guest
// file's embedded precompiled header, and dlopening the result
// (SPEC_FULL.md §4.G).
type Compiler struct {
	CxxPath string // host C++ compiler, e.g. "c++" resolved to an absolute path
	TmpDir  *ioutil.TempDir
	Verbose bool
	Logf    func(format string, args ...interface{})
}

// Compile generates, compiles, links, and loads the specialization for fn at
// shape, returning a Compiled ready to invoke. Every temp file this creates
// is unlinked before returning, success or failure — only the loaded .so
// itself survives, and even that is unlinked immediately after a successful
// dlopen (the kernel keeps the backing inode alive for as long as the
// mapping/handle is open).
func (c *Compiler) Compile(fn *Entry, shape CallShape) (*Compiled, error) {
	pchPath := c.TmpDir.MintPath(".gch")
	pchFile, err := ioutil.CreateExclusive(pchPath, 0600)
	if err != nil {
		return nil, err
	}
	if err := ioutil.WriteAll(pchFile, fn.File.Gch); err != nil {
		_ = pchFile.Close()
		_ = os.Remove(pchPath)
		return nil, err
	}
	_ = pchFile.Close()
	defer os.Remove(pchPath)

	wrapperPath := c.TmpDir.MintPath(".cxx")
	wf, err := ioutil.CreateExclusive(wrapperPath, 0600)
	if err != nil {
		return nil, err
	}
	if err := writeWrapperSource(wf, fn.Name, shape); err != nil {
		_ = wf.Close()
		_ = os.Remove(wrapperPath)
		return nil, err
	}
	_ = wf.Close()
	defer os.Remove(wrapperPath)

	soPath := c.TmpDir.MintPath(".so")
	args := spliceAtPosition(fn.File.CxxArgs, fn.File.PositionMarker, wrapperPath)
	args = append(args, "-include-pch", pchPath, "-shared", "-fPIC", "-O2", "-o", soPath)
	if c.Logf != nil && c.Verbose {
		c.Logf("%s %v", c.CxxPath, args)
	}
	cmd := exec.Command(c.CxxPath, args...)
	var stderr bytes.Buffer
	if c.Verbose {
		cmd.Stdout, cmd.Stderr = os.Stderr, os.Stderr
	} else {
		cmd.Stderr = &stderr
	}
	if err := cmd.Run(); err != nil {
		return nil, &CompilationError{Entry: fn.Name, Err: err, Stderr: stderr.String()}
	}
	defer os.Remove(soPath)

	lib, err := dlopenLib(soPath)
	if err != nil {
		return nil, &LoadError{Entry: fn.Name, Err: err}
	}
	// Every specialization is compiled into its own .so, dlopen'd RTLD_LOCAL,
	// so a fixed entry-point name never collides across specializations —
	// same shadowing trick the generated source uses to reuse the name
	// DOARR_EXPORT for both the macro it undefines and the function it
	// defines.
	sym, err := lib.resolve("DOARR_EXPORT")
	if err != nil {
		return nil, &LoadError{Entry: fn.Name, Err: err}
	}

	return &Compiled{
		lib: lib,
		Call: func(params []uint64) {
			var ptr *C.ulonglong
			if len(params) > 0 {
				ptr = (*C.ulonglong)(unsafe.Pointer(&params[0]))
			}
			C.doarr_call_entry(sym, ptr)
		},
	}, nil
}

// spliceAtPosition inserts the wrapper source path into args at position —
// the same position_between_args convention the build driver recorded for
// this guest file — rather than simply appending it, so flags that only
// apply to inputs after a certain point in the original invocation keep
// applying (or not) the same way for the synthesized recompile.
func spliceAtPosition(args []string, position int, wrapperPath string) []string {
	if position > len(args) {
		position = len(args)
	}
	out := make([]string, 0, len(args)+1)
	out = append(out, args[:position]...)
	out = append(out, wrapperPath)
	out = append(out, args[position:]...)
	return out
}

// writeWrapperSource emits the generated specialization's translation unit.
// DOARR_EXPORT names both the macro the guest header defines (undefined
// here) and the function this wrapper defines in its place: the function's
// sole parameter is also named DOARR_EXPORT, so every reference to
// DOARR_EXPORT inside the function body resolves to that parameter by
// ordinary scoping, letting the emitted call-shape expression — written in
// terms of DOARR_EXPORT[k].tag — read straight out of the packed argument
// array without any other indirection (SPEC_FULL.md §4.G step 2).
//
// The function body is exactly the call statement itself, no captured
// return value (SPEC_FULL.md §6, §9 OQ-2: this system commits to the void
// variant rather than the call/call_v/call_r family the source material
// offers).
func writeWrapperSource(w *os.File, exportName string, shape CallShape) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "typedef union { long long i; double f; const void *p; } doarr_param_t;")
	fmt.Fprintln(bw, "#undef DOARR_EXPORT")
	fmt.Fprintln(bw, `extern "C" __attribute__((visibility("default")))`)
	fmt.Fprintln(bw, "void DOARR_EXPORT(const doarr_param_t *DOARR_EXPORT) {")

	callExpr := exportName
	if shape.TemplateArgs != nil && shape.TemplateArgs.Len() > 0 {
		callExpr += "<" + joinEmit(*shape.TemplateArgs) + ">"
	}
	callExpr += "(" + joinEmit(derefExprs(shape.CallArgs)) + ")"

	fmt.Fprintf(bw, "\t%s;\n", callExpr)
	fmt.Fprintln(bw, "}")
	return bw.Flush()
}
