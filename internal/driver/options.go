package driver

import "strings"

// syntaxClass says how an option's value, if any, is written on the command
// line.
type syntaxClass int

const (
	syntaxNoArg    syntaxClass = iota // -c, -E, -w, -v: no value
	syntaxImmediate                   // -std=c++17, -O2: value glued to the key
	syntaxSeparate                    // -o foo: value is the next token
	syntaxImmOrSep                    // -I foo or -Ifoo: either form
)

// actionKind says what BuildConfig does once an option has matched.
type actionKind int

const (
	actionForward      actionKind = iota // keep, and replay at runtime (macros, includes, -std=...)
	actionForwardNoRT                    // keep for precompilation only (e.g. -g, -O, warnings)
	actionReject                         // not supported by this driver
	actionSetOutput                      // -o
	actionSetCompile                     // -c
	actionSetPreproc                     // -E
	actionSetNowarn                      // -w
	actionSetVerbose                     // -v / -verbose (also forwarded)
	actionSetLanguage                    // -x c++ / reject anything else
	actionHelp                           // -help / --help
)

type optionEntry struct {
	key    string
	syntax syntaxClass
	action actionKind
	desc   string
}

// optionTable lists every flag key this driver recognizes. It is scanned
// longest-prefix-match, later entries winning ties, so a more specific key
// (e.g. "-pg") must appear anywhere relative to a shorter one it overrides
// (e.g. "-p") — matchOption resolves that regardless of table order.
//
// SPEC_FULL.md §4.B additionally describes inheritable desc/action fields
// reset by divider rows, mirroring how the original C table (see
// original_source/dcc/dcc_options.c) lets adjacent rows share a syntax class
// without repeating it. This Go rendering writes every row out explicitly
// instead — same classification behavior, simpler to read without a
// stateful table-builder pass (see DESIGN.md, Open Question OQ-3).
var optionTable = []optionEntry{
	{"-D", syntaxImmOrSep, actionForward, "define a preprocessor macro"},
	{"-U", syntaxImmOrSep, actionForward, "undefine a preprocessor macro"},
	{"-I", syntaxImmOrSep, actionForward, "add an include search directory"},
	{"-include", syntaxSeparate, actionForward, "force-include a header"},
	{"-isystem", syntaxImmOrSep, actionForward, "add a system include search directory"},
	{"-std=", syntaxImmediate, actionForward, "set the language standard"},
	{"-pthread", syntaxNoArg, actionForward, "link against the threading library"},
	{"-fPIC", syntaxNoArg, actionForward, "position-independent code"},
	{"-fvisibility=", syntaxImmediate, actionForward, "set default symbol visibility"},
	{"-f", syntaxImmediate, actionForwardNoRT, "compiler feature flag"},
	{"-W", syntaxImmediate, actionForwardNoRT, "warning flag"},
	{"-g", syntaxImmediate, actionForwardNoRT, "debug info level"},
	{"-O", syntaxImmediate, actionForwardNoRT, "optimization level"},
	{"-m", syntaxImmediate, actionForwardNoRT, "target machine flag"},
	{"-shared", syntaxNoArg, actionForwardNoRT, "build a shared object (precompile step only)"},

	{"-o", syntaxSeparate, actionSetOutput, "output file"},
	{"-c", syntaxNoArg, actionSetCompile, "emit a relocatable object artifact"},
	{"-E", syntaxNoArg, actionSetPreproc, "emit a generated C source artifact"},
	{"-w", syntaxNoArg, actionSetNowarn, "suppress the no-exports warning"},
	{"-v", syntaxNoArg, actionSetVerbose, "verbose: echo every child-process invocation"},
	{"-verbose", syntaxNoArg, actionSetVerbose, "same as -v"},
	{"-x", syntaxSeparate, actionSetLanguage, "source language (only c++ accepted)"},
	{"-help", syntaxNoArg, actionHelp, "print usage and exit"},
	{"--help", syntaxNoArg, actionHelp, "print usage and exit"},

	{"-pg", syntaxNoArg, actionReject, "profiling is not supported"},
	{"-static", syntaxNoArg, actionReject, "static linking is not supported"},
	{"-flto", syntaxNoArg, actionReject, "LTO is not supported across the precompile/specialize split"},
}

// matchOption finds the longest key in optionTable that is a prefix of arg.
// On a tie in key length, the entry appearing later in optionTable wins,
// which is what lets a later, more specific row shadow an earlier general
// one without needing the two to be length-ordered in the table.
func matchOption(arg string) *optionEntry {
	var best *optionEntry
	for i := len(optionTable) - 1; i >= 0; i-- {
		e := &optionTable[i]
		if !strings.HasPrefix(arg, e.key) {
			continue
		}
		if best == nil || len(e.key) > len(best.key) {
			best = e
		}
	}
	return best
}

// optionValue extracts the option's value (if any) given its matched entry,
// consuming a following argv token for syntaxSeparate/syntaxImmOrSep when the
// value isn't glued to the key. ok is false when a required value is missing.
func optionValue(e *optionEntry, arg string, argv []string, i *int) (value string, ok bool) {
	glued := arg[len(e.key):]

	switch e.syntax {
	case syntaxNoArg:
		return "", true
	case syntaxImmediate:
		return glued, true
	case syntaxSeparate:
		if glued != "" {
			// tolerate "-o=foo" / "-ofoo" style typos by treating the rest as the value
			return glued, true
		}
		if *i+1 >= len(argv) {
			return "", false
		}
		*i++
		return argv[*i], true
	case syntaxImmOrSep:
		if glued != "" {
			return glued, true
		}
		if *i+1 >= len(argv) {
			return "", false
		}
		*i++
		return argv[*i], true
	default:
		return "", false
	}
}
