package driver

import (
	"fmt"
	"os"

	"github.com/doarr-lang/dcc/internal/common"
	"github.com/doarr-lang/dcc/internal/ioutil"
)

// Options carries everything Run needs beyond argv: the resolved host
// toolchain names and where to put the per-invocation temp directory.
// Populated by cmd/dcc/main.go from flags/env/config file.
type Options struct {
	CxxName   string
	LdName    string
	PathDirs  []string
	TmpParent string
}

// Run parses argv, drives the host toolchain, and writes the generated
// artifact, returning the process exit code (SPEC_FULL.md §7: 0 on success,
// 1 on any rejected invocation or child-process failure).
func Run(argv []string, opts Options, log *common.LoggerWrapper) int {
	cfg := BuildConfig(argv)
	if cfg.Invalid {
		if cfg.InvalidMsg == "" {
			printUsage()
			return 0
		}
		fmt.Fprintln(os.Stderr, "dcc: "+cfg.InvalidMsg)
		return 1
	}

	if err := cfg.ResolveTools(opts.CxxName, opts.LdName, opts.PathDirs); err != nil {
		log.Error("resolve toolchain:", err)
		return 1
	}
	defer cfg.Close()

	tmp, err := ioutil.NewTempDir(opts.TmpParent, "dcc.")
	if err != nil {
		log.Error("create temp dir:", err)
		return 1
	}
	defer func() { _ = tmp.RemoveSync() }()
	cfg.TmpDir = tmp

	gen := NewGenerator(cfg)
	gen.Logf = func(format string, args ...interface{}) {
		log.Info(1, fmt.Sprintf(format, args...))
	}
	gen.Warnf = func(format string, args ...interface{}) {
		log.Error(fmt.Sprintf(format, args...))
	}

	out, err := gen.Run()
	if err != nil {
		log.Error("generate:", err)
		return 1
	}
	log.Info(1, "wrote", out)
	return 0
}

func printUsage() {
	fmt.Println("usage: dcc (-c|-E) [options] file...")
	for _, e := range optionTable {
		fmt.Printf("  %-14s %s\n", e.key, e.desc)
	}
}
