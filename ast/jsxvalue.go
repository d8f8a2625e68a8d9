package ast

import "strings"

// DecodeJSXString unescapes a JsxString token's raw slice: strips the
// surrounding quotes, then resolves the backslash escapes (\n \r \t
// \\ \" \') and the four named HTML entities (&amp; &lt; &gt; &quot;)
// the attribute-value grammar recognizes. Like DecodeFrontmatter, this
// is a pure read-side convenience — the token itself still holds the
// raw, quoted bytes.
func (a *Ast) DecodeJSXString(tok TokenIndex) string {
	// The slice runs to the next token's start, so it can carry the
	// whitespace the lexer skipped after the closing quote.
	raw := strings.TrimSpace(a.TokenSlice(tok))
	if len(raw) < 2 {
		return raw
	}
	return decodeJSXStringBody(raw[1 : len(raw)-1])
}

func decodeJSXStringBody(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]

		if c == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case '\\':
				b.WriteByte('\\')
			case '"':
				b.WriteByte('"')
			case '\'':
				b.WriteByte('\'')
			default:
				b.WriteByte(s[i+1])
			}
			i++
			continue
		}

		if c == '&' {
			switch {
			case strings.HasPrefix(s[i:], "&amp;"):
				b.WriteByte('&')
				i += 4
				continue
			case strings.HasPrefix(s[i:], "&lt;"):
				b.WriteByte('<')
				i += 3
				continue
			case strings.HasPrefix(s[i:], "&gt;"):
				b.WriteByte('>')
				i += 3
				continue
			case strings.HasPrefix(s[i:], "&quot;"):
				b.WriteByte('"')
				i += 5
				continue
			}
		}

		b.WriteByte(c)
	}
	return b.String()
}
