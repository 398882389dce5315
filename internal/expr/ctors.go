package expr

import (
	"strconv"
	"strings"
)

// NewRawInt renders a signed integer literal.
func NewRawInt(v int64) *Expr {
	return NewRaw(strconv.FormatInt(v, 10))
}

// NewRawChar renders a byte as a C character literal when it's printable
// ASCII other than the two characters that need escaping in that position;
// otherwise it falls back to the equivalent integer literal, exactly as
// SPEC_FULL.md §4.E's "Character-literal emission" note describes.
func NewRawChar(b byte) *Expr {
	if b >= 0x20 && b < 0x7f && b != '\'' && b != '\\' {
		return NewRaw("'" + string(rune(b)) + "'")
	}
	return NewRawInt(int64(b))
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isIdentCont(b byte) bool {
	return isIdentStart(b) || (b >= '0' && b <= '9')
}

func isValidIdent(s string) bool {
	if s == "" || !isIdentStart(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isIdentCont(s[i]) {
			return false
		}
	}
	return true
}

// NewRawQualifiedName validates name as an optional leading "::" followed by
// one or more "::"-separated identifiers, then wraps it as a Raw node.
// Qualified names in this system originate only from trusted sources (guest
// export descriptors compiled into an artifact, or this package's own proto-
// structure helpers) — never from untrusted host input — so a malformed name
// here is a programming error in the caller, and this panics rather than
// returning an error, matching the abort-on-violation behavior
// SPEC_FULL.md §4.E specifies.
func NewRawQualifiedName(name string) *Expr {
	rest := name
	rest = strings.TrimPrefix(rest, "::")
	parts := strings.Split(rest, "::")
	for _, part := range parts {
		if !isValidIdent(part) {
			panic("dcc: malformed qualified name: " + name)
		}
	}
	return NewRaw(name)
}
