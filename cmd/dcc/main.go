// Command dcc is the build-time driver: a drop-in replacement for a C++
// compiler invocation (-c or -E) that, instead of producing an ordinary
// object or preprocessed file, scans each input for doarr::exported entry
// points and emits a generated artifact the runtime specialization engine
// loads later (SPEC_FULL.md §4). See DESIGN.md for the flag/env/config
// wiring this is grounded on, adapted from a long-running daemon to a
// one-shot CLI.
package main

import (
	"flag"
	"os"
	"strings"

	"github.com/doarr-lang/dcc/internal/common"
	"github.com/doarr-lang/dcc/internal/driver"
)

var (
	argConfigFile   = common.CmdEnvString("path to a dcc.toml config file", "", "config", "DCC_CONFIG")
	argCxxName      = common.CmdEnvString("host C++ compiler to invoke", "c++", "cxx-name", "DCC_CXX")
	argLdName       = common.CmdEnvString("host linker to invoke (only needed for -c)", "ld", "ld-name", "DCC_LD")
	argTmpDir       = common.CmdEnvString("parent directory for the per-invocation temp dir", os.TempDir(), "tmp-dir", "TMP")
	argLogFileName  = common.CmdEnvString("log file path (empty or \"stderr\": no log file; errors still go to stderr)", "", "log-filename", "DCC_LOG_FILENAME")
	argLogVerbosity = common.CmdEnvInt("log verbosity from -1 to 2: info messages up to this level are logged; errors are always logged", 0, "log-verbosity", "DCC_LOG_VERBOSITY")
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(argv []string) int {
	// -config is resolved before flag.Parse can see it on argv, since its
	// own value participates in ApplyConfigDefaults's precedence ordering.
	configPath := *argConfigFile
	for i, a := range argv {
		if a == "-config" && i+1 < len(argv) {
			configPath = argv[i+1]
		} else if strings.HasPrefix(a, "-config=") {
			configPath = strings.TrimPrefix(a, "-config=")
		}
	}

	fileCfg, err := common.ParseFileConfig(configPath)
	if err != nil {
		os.Stderr.WriteString("dcc: config: " + err.Error() + "\n")
		return 1
	}

	// Everything after the first unrecognized-by-dcc token is the actual
	// compiler invocation being driven; dcc's own flags are meant to be set
	// via environment or config, not mixed into that argv.
	common.ParseCmdFlagsCombiningWithEnv()
	if err := common.ApplyConfigDefaults(fileCfg.AsFlagDefaults()); err != nil {
		os.Stderr.WriteString("dcc: config: " + err.Error() + "\n")
		return 1
	}

	log, err := common.MakeLogger(*argLogFileName, *argLogVerbosity, true, true)
	if err != nil {
		os.Stderr.WriteString("dcc: logger: " + err.Error() + "\n")
		return 1
	}

	opts := driver.Options{
		CxxName:   *argCxxName,
		LdName:    *argLdName,
		PathDirs:  strings.Split(os.Getenv("PATH"), ":"),
		TmpParent: *argTmpDir,
	}
	return driver.Run(flag.Args(), opts, log)
}
