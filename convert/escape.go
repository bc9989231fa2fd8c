// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package convert

import (
	"fmt"
	"strings"
)

// Escaper prepares shader text for embedding between the double quotes of a
// C string literal.
type Escaper func(string) string

// EscapeNewlines replaces every newline with the two characters `\n` and
// leaves everything else untouched. Double quotes and backslashes in the
// shader pass through as is, so such shaders produce broken C.
//
// This matches the headers generated by earlier versions of the tool byte
// for byte.
func EscapeNewlines(s string) string {
	return strings.ReplaceAll(s, "\n", `\n`)
}

// EscapeC escapes s as a complete C string literal body: backslashes,
// double quotes and control characters are all escaped. Bytes at or above
// 0x80 are kept, since C compilers accept UTF-8 in string literals.
func EscapeC(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case '?':
			// No trigraphs such as ??=.
			if i > 0 && s[i-1] == '?' {
				sb.WriteString(`\?`)
				continue
			}
			sb.WriteByte(c)
		default:
			if c < 0x20 || c == 0x7f {
				// Three digits so a following digit is never absorbed.
				fmt.Fprintf(&sb, `\%03o`, c)
				continue
			}
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// Escapers maps the names accepted by the -escape flag to escapers.
var Escapers = map[string]Escaper{
	"newline": EscapeNewlines,
	"c":       EscapeC,
}

// ParseEscaper returns the escaper registered under name.
func ParseEscaper(name string) (Escaper, error) {
	esc, ok := Escapers[name]
	if !ok {
		return nil, fmt.Errorf("unknown escape mode %q (want newline or c)", name)
	}
	return esc, nil
}
