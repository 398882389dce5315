// Package driver implements the build-time half of the system: classifying
// the command line (options.go), scanning preprocessed guest text for
// exported entry points (scanner.go), resolving the host toolchain
// (tool.go), and orchestrating precompilation/preprocessing into a generated
// artifact (generate.go). See DESIGN.md for the invocation-handling source
// this is grounded on and the original pipeline it reimplements.
package driver

import (
	"os"

	"github.com/doarr-lang/dcc/internal/ioutil"
)

// CompilerArg is one textual flag from the command line, plus whether it
// must be replayed when a runtime specialization recompiles the guest file
// (SPEC_FULL.md §3: macros and include paths survive; object-file inputs and
// PCH-only flags don't).
type CompilerArg struct {
	Text        string
	AlsoRuntime bool
}

// InputFile is one non-flag command-line token naming a guest source file,
// plus how many CompilerArgs preceded it — this lets the runtime reconstruct
// that file's private view of the flag list when it recompiles a wrapper.
type InputFile struct {
	Path                string
	PositionBetweenArgs int
}

// Config is the fully parsed driver invocation. BuildConfig fills in the
// command-line fields; ResolveTools then adds the tool handles and /dev/null
// (released by Close), and Run adds the temp directory.
type Config struct {
	Args   []CompilerArg
	Inputs []InputFile

	Output  string
	Compile bool // -c
	Preproc bool // -E
	Nowarn  bool // -w
	Verbose bool

	Invalid    bool
	InvalidMsg string

	Cxx *Tool
	Ld  *Tool

	DevNull *os.File
	TmpDir  *ioutil.TempDir
	PchPath string
}

func (c *Config) reject(msg string) {
	c.Invalid = true
	if c.InvalidMsg == "" {
		c.InvalidMsg = msg
	}
}

// ResolveTools opens handles to the host-toolchain binaries this invocation
// actually needs, searching pathDirs (typically $PATH split on ':') for bare
// names. Cxx is needed either way. Ld is only needed in -c mode, to combine
// per-file objects and to synthesize the empty-export placeholder ("After
// all files", §4.D step 6) — a pure -E run never touches it, so a host
// missing ld on PATH must not fail a preprocess-only invocation.
func (c *Config) ResolveTools(cxxName, ldName string, pathDirs []string) error {
	var err error
	if c.Cxx, err = ResolveTool(cxxName, pathDirs); err != nil {
		return err
	}
	if c.Compile {
		if c.Ld, err = ResolveTool(ldName, pathDirs); err != nil {
			return err
		}
	}
	c.DevNull, err = os.OpenFile(os.DevNull, os.O_RDWR, 0)
	return err
}

// Close releases every resource Config owns. The temp directory is removed
// by the caller via TmpDir.RemoveSync once all artifacts have been read out
// of it (or immediately on an error path).
func (c *Config) Close() {
	for _, t := range []*Tool{c.Cxx, c.Ld} {
		if t != nil {
			_ = t.Close()
		}
	}
	if c.DevNull != nil {
		_ = c.DevNull.Close()
	}
}
