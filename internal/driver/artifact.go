package driver

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// artifactProlog is the once-per-translation-unit header every generated
// source carries: the shared descriptor and file struct definitions.
// Rendered verbatim into each per-input generated source; concatenation of
// several per-input sources (-E mode, with or without -o) relies on the
// include guard below to make that safe.
const artifactProlog = `#ifndef DOARR_GENERATED_PROLOG
#define DOARR_GENERATED_PROLOG
struct doarr_compiler_arg { const char *text; };
struct doarr_guest_file {
	const unsigned char *gch_data;
	unsigned long gch_data_size;
	const char *const *cxx_args;
	unsigned long cxx_args_count;
	unsigned long position_marker;
};
struct doarr_guest_fn { const struct doarr_guest_file *file; const char *name; };
#endif
`

// quoteCString escapes s for use as a C string literal body: backslash,
// double-quote, and a lone '?' that would otherwise start a trigraph when
// followed by a second '?'.
func quoteCString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			b.WriteString(`\"`)
		case c == '\\':
			b.WriteString(`\\`)
		case c == '?' && i+1 < len(s) && s[i+1] == '?':
			b.WriteString(`\?`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// writeOctalLiteral renders data as a C string literal, 32 bytes (4 chars
// each: backslash + 3 octal digits) per physical line, spliced with a
// backslash-newline so the value itself contains no embedded newlines
// (SPEC_FULL.md §4.D step 8).
func writeOctalLiteral(w *bufio.Writer, data []byte) error {
	if _, err := w.WriteString(`"`); err != nil {
		return err
	}
	for i, b := range data {
		if _, err := fmt.Fprintf(w, `\%03o`, b); err != nil {
			return err
		}
		if (i+1)%32 == 0 && i+1 != len(data) {
			if _, err := w.WriteString("\\\n"); err != nil {
				return err
			}
		}
	}
	_, err := w.WriteString("\"\n")
	return err
}

func cxxArgsVarName(fileIdx int) string {
	return fmt.Sprintf("doarr__cxx_args_%d", fileIdx)
}

func fileVarName(fileIdx int) string {
	return fmt.Sprintf("doarr__file_%d", fileIdx)
}

// writeRuntimeArgsArray writes the static `const char *const NAME[]` holding
// the arguments the runtime must replay when it recompiles a wrapper against
// this guest file.
func writeRuntimeArgsArray(w io.Writer, fileIdx int, runtimeArgs []string) error {
	if _, err := fmt.Fprintf(w, "static const char *const %s[] = {\n", cxxArgsVarName(fileIdx)); err != nil {
		return err
	}
	for _, a := range runtimeArgs {
		if _, err := fmt.Fprintf(w, "\t%s,\n", quoteCString(a)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "};\n")
	return err
}

// writeFileDescriptor writes the doarr_guest_file record for one input,
// pointing gchData/gchDataSize at wherever the caller already wrote the PCH
// payload (the local octal literal assembleOne emits in both -c and -E mode).
func writeFileDescriptor(w io.Writer, fileIdx int, runtimeArgCount, positionMarker int, gchData, gchDataSize string) error {
	_, err := fmt.Fprintf(w, "static const struct doarr_guest_file %s = {\n\t%s, %s,\n\t%s, %d,\n\t%d,\n};\n",
		fileVarName(fileIdx), gchData, gchDataSize, cxxArgsVarName(fileIdx), runtimeArgCount, positionMarker)
	return err
}

// writeExportDescriptors writes one include-guarded doarr_guest_fn record per
// scanned export, named after the export itself so the host program can
// refer to it directly by that symbol.
func writeExportDescriptors(w io.Writer, fileIdx int, exports []string) error {
	for _, name := range exports {
		guard := fmt.Sprintf("DOARR_EXPORTED_%s", name)
		if _, err := fmt.Fprintf(w, "#ifndef %s\n#define %s\nextern \"C\" const struct doarr_guest_fn %s;\nconst struct doarr_guest_fn %s = { &%s, %s };\n#endif\n",
			guard, guard, name, name, fileVarName(fileIdx), quoteCString(name)); err != nil {
			return err
		}
	}
	return nil
}
