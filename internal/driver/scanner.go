package driver

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// ScanExports reads preprocessed guest source from r and returns every
// `doarr::exported NAME(` marker's NAME, in source order. Grounded on
// original_source/dcc/dcc_scan.c's byte-level state machine, generalized
// from that file's manual pointer walk to a []byte scan — the underlying
// automaton (string/raw-string skipping, token-boundary tracking before
// attempting the marker) is unchanged.
func ScanExports(r io.Reader) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("scanner: read preprocessed source: %w", err)
	}
	return scanExportsBytes(data)
}

func isIdentContByte(c byte) bool {
	return c == '_' || c == '$' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c >= 0x80
}

func isIdentStartByte(c byte) bool {
	return c == '_' || c == '$' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || c >= 0x80
}

func skipWS(data []byte, i int) int {
	for i < len(data) {
		switch data[i] {
		case ' ', '\t', '\n', '\r':
			i++
			continue
		}
		break
	}
	return i
}

const marker = "doarr::exported"

// matchMarker attempts the literal "doarr::exported" starting at i, allowing
// insignificant whitespace before the "::" and before the "e" of "exported"
// (SPEC_FULL.md §4.C). Returns the position right after the match.
func matchMarker(data []byte, i int) (int, bool) {
	if !bytes.HasPrefix(data[i:], []byte("doarr")) {
		return i, false
	}
	i += len("doarr")
	i = skipWS(data, i)
	if !bytes.HasPrefix(data[i:], []byte("::")) {
		return i, false
	}
	i += 2
	i = skipWS(data, i)
	if !bytes.HasPrefix(data[i:], []byte("exported")) {
		return i, false
	}
	return i + len("exported"), true
}

func scanIdentEnd(data []byte, i int) int {
	if i >= len(data) || !isIdentStartByte(data[i]) {
		return i
	}
	j := i + 1
	for j < len(data) && isIdentContByte(data[j]) {
		j++
	}
	return j
}

// skipQuotedString advances past a double-quoted string literal starting at
// the opening '"' (data[i] == '"'), honoring a single backslash-escaped
// character. An unterminated string degrades gracefully to end-of-input
// rather than looping forever.
func skipQuotedString(data []byte, i int) int {
	j := i + 1
	for j < len(data) {
		switch data[j] {
		case '\\':
			j += 2
		case '"':
			return j + 1
		default:
			j++
		}
	}
	return j
}

// skipRawString advances past a C++11 raw string R"delim(...)delim" starting
// at data[i] == 'R'. ok is false when the R isn't actually a raw-string
// prefix (no '(' found within a 16-byte delimiter), in which case the caller
// should treat the 'R' as an ordinary identifier character instead.
func skipRawString(data []byte, i int) (newPos int, ok bool) {
	if i+1 >= len(data) || data[i+1] != '"' {
		return i, false
	}
	delimStart := i + 2
	j := delimStart
	for j < len(data) && data[j] != '(' && j-delimStart < 16 {
		j++
	}
	if j >= len(data) || data[j] != '(' {
		return i, false
	}
	delim := data[delimStart:j]
	closeSeq := append(append([]byte(")"), delim...), '"')
	rest := data[j+1:]
	idx := bytes.Index(rest, closeSeq)
	if idx == -1 {
		return len(data), true // unterminated: degrade to end-of-input
	}
	return j + 1 + idx + len(closeSeq), true
}

func scanExportsBytes(data []byte) ([]string, error) {
	names := make([]string, 0, 4)
	n := len(data)
	i := 0
	prevIdentCont := false

	for i < n {
		c := data[i]

		if c == '"' {
			i = skipQuotedString(data, i)
			prevIdentCont = false
			continue
		}

		if c == 'R' && !prevIdentCont {
			if newPos, ok := skipRawString(data, i); ok {
				i = newPos
				prevIdentCont = false
				continue
			}
		}

		if c == 'd' && !prevIdentCont {
			if after, ok := matchMarker(data, i); ok {
				namePos := skipWS(data, after)
				idEnd := scanIdentEnd(data, namePos)
				if idEnd == namePos {
					return names, fmt.Errorf("scanner: %q not followed by an identifier", marker)
				}
				name := string(data[namePos:idEnd])
				if strings.Contains(name, "__") {
					return names, fmt.Errorf("scanner: exported identifier %q must not contain '__'", name)
				}
				afterName := skipWS(data, idEnd)
				if afterName >= n || data[afterName] != '(' {
					return names, fmt.Errorf("scanner: exported identifier %q is not a function", name)
				}
				names = append(names, name)
				i = idEnd
				prevIdentCont = true
				continue
			}
		}

		prevIdentCont = isIdentContByte(c)
		i++
	}

	return names, nil
}
