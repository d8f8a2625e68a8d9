// Package lexer tokenizes MDX source: Markdown fused with JSX
// elements, curly-brace expressions, and frontmatter.
package lexer

import (
	"github.com/hnmd-lang/go-hnmd/token"
)

// Lexer scans MDX source one token at a time. It tracks its byte
// index, the start of the current line (for start-of-line
// constructs and fenced-code closers), a stack of lexical Modes, and
// the handful of scalar flags the inline grammar needs (strong/
// emphasis nesting depth, link-URL state).
type Lexer struct {
	buffer    []byte
	index     uint32
	lineStart uint32

	mode      Mode
	modeStack []Mode

	strongDepth   uint32
	emphasisDepth uint32
	afterLinkText bool
	inLinkURL     bool
	afterPipe     bool

	// pending holds a one-token lookahead produced by the checkbox
	// peek: after a list-item marker, Next() looks ahead for
	// "[ ]"/"[x]"/"[X]" and buffers the checkbox token here to hand
	// back on the following call.
	pending *token.Token
}

// New creates a Lexer over source.
func New(source string) *Lexer {
	return &Lexer{
		buffer: []byte(source),
		mode:   Markdown,
	}
}

// Next returns the next token. It is safe to call past EOF: Eof is
// returned idempotently once the index reaches the end of the
// buffer.
func (l *Lexer) Next() token.Token {
	if l.pending != nil {
		tok := *l.pending
		l.pending = nil
		return tok
	}

	switch l.mode {
	case Markdown:
		return l.nextMarkdown()
	case Jsx:
		return l.nextJsx()
	case Expression:
		return l.nextExpression()
	case InlineCode:
		return l.nextInlineCode()
	case CodeBlock:
		return l.nextCodeBlock()
	default:
		return l.nextMarkdown()
	}
}

func (l *Lexer) nextMarkdown() token.Token {
	start := l.index
	if int(l.index) >= len(l.buffer) {
		return l.makeToken(token.Eof, start)
	}

	if l.index == l.lineStart {
		return l.nextMarkdownSOL(start)
	}
	return l.nextMarkdownInline(start)
}

func (l *Lexer) nextMarkdownSOL(start uint32) token.Token {
	c := l.buf(l.index)

	switch {
	case c == 0:
		return l.makeToken(token.Eof, start)
	case c == '\n':
		l.index++
		l.lineStart = l.index
		return l.makeToken(token.BlankLine, start)
	case c == '#':
		if n, ok := l.keycapLength(l.index); ok {
			l.index += n
			return l.text(start)
		}
		l.index++
		for l.buf(l.index) == '#' {
			l.index++
		}
		if l.buf(l.index) == ' ' {
			l.index++
		}
		return l.makeToken(token.HeadingStart, start)
	case c == '-' || c == '*' || c == '_':
		if n, ok := l.keycapLength(l.index); ok {
			l.index += n
			return l.text(start)
		}
		l.index++
		return l.hrOrFrontmatter(start, c)
	case c == '`':
		if l.peekAhead("```") {
			l.index += 3
			l.pushMode(CodeBlock)
			return l.makeToken(token.CodeFenceStart, start)
		}
		return l.nextMarkdownInline(start)
	case c == '>':
		l.index++
		if l.buf(l.index) == ' ' {
			l.index++
		}
		return l.makeToken(token.BlockquoteStart, start)
	case c == ' ' || c == '\t':
		indentStart := l.index
		for l.buf(l.index) == ' ' || l.buf(l.index) == '\t' {
			l.index++
		}
		return l.makeToken(token.Indent, indentStart)
	case c >= '0' && c <= '9':
		if n, ok := l.keycapLength(l.index); ok {
			l.index += n
			return l.text(start)
		}
		temp := l.index
		for int(temp) < len(l.buffer) && l.buf(temp) >= '0' && l.buf(temp) <= '9' {
			temp++
		}
		if int(temp) < len(l.buffer) && l.buf(temp) == '.' &&
			int(temp)+1 < len(l.buffer) && l.buf(temp+1) == ' ' {
			l.index = temp + 2
			tok := l.makeToken(token.ListItemOrdered, start)
			l.bufferCheckboxPeek()
			return tok
		}
		return l.nextMarkdownInline(start)
	default:
		return l.nextMarkdownInline(start)
	}
}

// hrOrFrontmatter disambiguates a run of '-', '*', or '_' at the
// start of a line: frontmatter fence (file offset 0 only), thematic
// break (3+ repeats), unordered list item (single '-'/'*' + space),
// or emphasis/strong falling through from a '*'/'**' at line start.
func (l *Lexer) hrOrFrontmatter(start uint32, firstChar byte) token.Token {
	count := uint32(1)
	for l.buf(l.index) == firstChar {
		count++
		l.index++
	}

	if firstChar == '-' && count >= 3 && start == 0 {
		next := l.buf(l.index)
		if next == '\n' || next == 0 {
			return l.makeToken(token.FrontmatterStart, start)
		}
	}

	if count >= 3 {
		next := l.buf(l.index)
		if next == '\n' || next == 0 {
			return l.makeToken(token.Hr, start)
		}
	}

	if (firstChar == '-' || firstChar == '*') && count == 1 {
		if l.buf(l.index) == ' ' {
			l.index++
			tok := l.makeToken(token.ListItemUnordered, start)
			l.bufferCheckboxPeek()
			return tok
		}
	}

	if firstChar == '*' {
		l.index = start + 1
		return l.maybeStrongOrEmphasis(start)
	}

	return l.text(start)
}

func (l *Lexer) nextMarkdownInline(start uint32) token.Token {
	if l.afterPipe {
		l.afterPipe = false
		if l.buf(l.index) == ' ' {
			l.index++
			return l.nextMarkdownInline(l.index)
		}
	}
	start = l.index
	c := l.buf(l.index)

	switch c {
	case 0:
		return l.makeToken(token.Eof, start)
	case '|':
		l.index++
		l.afterPipe = true
		return l.makeToken(token.Pipe, start)
	case '\n':
		l.index++
		l.lineStart = l.index
		return l.makeToken(token.Newline, start)
	case '\\':
		if int(l.index)+1 < len(l.buffer) && l.buf(l.index+1) == '\n' {
			l.index += 2
			l.lineStart = l.index
			return l.makeToken(token.HardBreak, start)
		}
		return l.text(start)
	case ' ':
		spaceCount := uint32(0)
		temp := l.index
		for int(temp) < len(l.buffer) && l.buf(temp) == ' ' {
			spaceCount++
			temp++
		}
		if spaceCount >= 2 && int(temp) < len(l.buffer) && l.buf(temp) == '\n' {
			l.index = temp + 1
			l.lineStart = l.index
			return l.makeToken(token.HardBreak, start)
		}
		return l.text(start)
	case '{':
		l.index++
		l.pushMode(Expression)
		return l.makeToken(token.ExprStart, start)
	case '<':
		if l.isJSXStart() {
			l.pushMode(Jsx)
			return l.nextJsx()
		}
		return l.text(start)
	case '*':
		if n, ok := l.keycapLength(l.index); ok {
			l.index += n
			return l.text(start)
		}
		l.index++
		return l.maybeStrongOrEmphasis(start)
	case '`':
		l.index++
		l.pushMode(InlineCode)
		return l.makeToken(token.CodeInlineStart, start)
	case '[':
		l.index++
		l.afterLinkText = false
		return l.makeToken(token.LinkStart, start)
	case ']':
		l.index++
		if l.buf(l.index) == '(' {
			l.afterLinkText = true
			return l.makeToken(token.LinkEnd, start)
		}
		l.afterLinkText = false
		return l.text(start)
	case '(':
		if l.afterLinkText {
			l.index++
			l.afterLinkText = false
			l.inLinkURL = true
			return l.makeToken(token.LinkUrlStart, start)
		}
		return l.text(start)
	case ')':
		if l.inLinkURL {
			l.index++
			l.inLinkURL = false
			return l.makeToken(token.LinkUrlEnd, start)
		}
		return l.text(start)
	case '!':
		if int(l.index)+1 < len(l.buffer) && l.buf(l.index+1) == '[' {
			l.index += 2
			return l.makeToken(token.ImageStart, start)
		}
		l.index++
		return l.text(start)
	default:
		return l.text(start)
	}
}

func (l *Lexer) maybeStrongOrEmphasis(start uint32) token.Token {
	if l.buf(l.index) == '*' {
		l.index++
		if l.strongDepth > 0 {
			l.strongDepth--
			return l.makeToken(token.StrongEnd, start)
		}
		l.strongDepth++
		return l.makeToken(token.StrongStart, start)
	}
	if l.emphasisDepth > 0 {
		l.emphasisDepth--
		return l.makeToken(token.EmphasisEnd, start)
	}
	l.emphasisDepth++
	return l.makeToken(token.EmphasisStart, start)
}

// text consumes a run of plain text, stopping at any byte that could
// start a structural token, then trims a trailing hard-break marker
// (backslash-newline, or 2+ trailing spaces before a newline) back
// out of the run so the caller's next Next() call re-tokenizes it.
func (l *Lexer) text(start uint32) token.Token {
runLoop:
	for int(l.index) < len(l.buffer) {
		ch := l.buf(l.index)
		switch ch {
		case 0, '\n', '{', '<', '*', '`', '[', '|':
			// If this stop byte is the very first one scanned (e.g. a
			// '<' that failed the JSX-start check), there is nowhere
			// else for it to go:
			// consume it as text so the token always makes progress,
			// and only stop here on a byte reached after that.
			if l.index > start {
				break runLoop
			}
			l.index++
		case ']':
			if int(l.index)+1 < len(l.buffer) && l.buf(l.index+1) == '(' {
				break runLoop
			}
			l.index++
		case '(':
			if l.afterLinkText {
				break runLoop
			}
			l.index++
		case ')':
			if l.inLinkURL {
				break runLoop
			}
			l.index++
		case '!':
			if int(l.index)+1 < len(l.buffer) && l.buf(l.index+1) == '[' {
				break runLoop
			}
			l.index++
		default:
			l.index++
		}
	}

	if int(l.index) < len(l.buffer) && l.buf(l.index) == '\n' {
		if l.index > start && l.buf(l.index-1) == '\\' {
			l.index--
			if l.index == start {
				l.index += 2
				l.lineStart = l.index
				return l.makeToken(token.HardBreak, start)
			}
		} else {
			endIdx := l.index
			spaces := uint32(0)
			for endIdx > start && l.buf(endIdx-1) == ' ' {
				spaces++
				endIdx--
			}
			if spaces >= 2 {
				if endIdx == start {
					l.index++
					l.lineStart = l.index
					return l.makeToken(token.HardBreak, start)
				}
				l.index = endIdx
			}
		}
	} else if int(l.index) < len(l.buffer) && l.buf(l.index) == '|' &&
		l.index > start && l.buf(l.index-1) == ' ' {
		if l.index-1 == start {
			// The whole run was a single insignificant space before the
			// pipe (nothing else was scanned). Backing up would emit a
			// zero-width token at the same position forever, so
			// tokenize past it and report the resulting token as
			// starting here instead — the skipped space then becomes
			// part of that (pipe) token's slice.
			tok := l.nextMarkdownInline(l.index)
			tok.Start = start
			return tok
		}
		l.index--
	}

	return l.makeToken(token.Text, start)
}

func (l *Lexer) nextJsx() token.Token {
	start := l.index
	if int(l.index) >= len(l.buffer) {
		return l.makeToken(token.Eof, start)
	}

	c := l.buf(l.index)

	switch c {
	case 0:
		return l.makeToken(token.Eof, start)
	case '<':
		l.index++
		if l.buf(l.index) == '/' {
			if l.buf(l.index+1) == '>' {
				l.index += 2
				l.popMode()
				return l.makeToken(token.JsxFragmentClose, start)
			}
			l.index++
			return l.makeToken(token.JsxCloseTag, start)
		}
		if l.buf(l.index) == '>' {
			l.index++
			l.popMode()
			return l.makeToken(token.JsxFragmentStart, start)
		}
		return l.makeToken(token.JsxTagStart, start)
	case '>':
		l.index++
		l.popMode()
		return l.makeToken(token.JsxTagEnd, start)
	case '/':
		if l.buf(l.index+1) == '>' {
			l.index += 2
			l.popMode()
			return l.makeToken(token.JsxSelfClose, start)
		}
		l.index++
		return l.makeToken(token.Invalid, start)
	case '{':
		l.index++
		l.pushMode(Expression)
		return l.makeToken(token.JsxAttrExprStart, start)
	case '=':
		l.index++
		return l.makeToken(token.JsxEqual, start)
	case '"', '\'':
		return l.nextJsxString(c)
	case '.':
		l.index++
		return l.makeToken(token.JsxDot, start)
	case ':':
		l.index++
		return l.makeToken(token.JsxColon, start)
	case '-':
		if l.buf(l.index+1) >= '0' && l.buf(l.index+1) <= '9' {
			return l.nextJsxNumber()
		}
		l.index++
		return l.makeToken(token.Invalid, start)
	case ' ', '\t', '\n':
		for int(l.index) < len(l.buffer) {
			ch := l.buf(l.index)
			if ch != ' ' && ch != '\t' && ch != '\n' {
				break
			}
			l.index++
		}
		return l.Next()
	default:
		if isIdentStart(c) {
			return l.nextJsxIdentifier()
		}
		if c >= '0' && c <= '9' {
			return l.nextJsxNumber()
		}
		l.index++
		return l.makeToken(token.Invalid, start)
	}
}

// nextJsxNumber consumes a bare (unquoted, unbraced) numeric attribute
// value like `count=3`, `ratio=1.5`, or `ratio=-1.5`, emitting it as
// Text so the parser's unquoted-value inference can classify it as a
// number.
func (l *Lexer) nextJsxNumber() token.Token {
	start := l.index
	if l.buf(l.index) == '-' {
		l.index++
	}
	for int(l.index) < len(l.buffer) {
		c := l.buf(l.index)
		if (c >= '0' && c <= '9') || c == '.' {
			l.index++
			continue
		}
		break
	}
	return l.makeToken(token.Text, start)
}

func isIdentStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func (l *Lexer) nextJsxIdentifier() token.Token {
	start := l.index
	for int(l.index) < len(l.buffer) {
		c := l.buf(l.index)
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
			(c >= '0' && c <= '9') || c == '_' || c == '-' {
			l.index++
			continue
		}
		break
	}
	return l.makeToken(token.JsxIdentifier, start)
}

func (l *Lexer) nextJsxString(quote byte) token.Token {
	start := l.index
	l.index++ // skip opening quote

	for int(l.index) < len(l.buffer) {
		c := l.buf(l.index)
		if c == quote {
			l.index++
			return l.makeToken(token.JsxString, start)
		}
		if c == '\\' {
			l.index += 2
		} else {
			l.index++
		}
	}

	return l.makeToken(token.Invalid, start)
}

func (l *Lexer) nextExpression() token.Token {
	start := l.index
	if int(l.index) >= len(l.buffer) {
		return l.makeToken(token.Eof, start)
	}

	c := l.buf(l.index)

	switch c {
	case 0:
		return l.makeToken(token.Eof, start)
	case '}':
		l.index++
		l.popMode()
		return l.makeToken(token.ExprEnd, start)
	case '{':
		l.index++
		l.pushMode(Expression)
		return l.makeToken(token.ExprStart, start)
	default:
		for int(l.index) < len(l.buffer) {
			ch := l.buf(l.index)
			if ch == '{' || ch == '}' || ch == 0 {
				break
			}
			l.index++
		}
		return l.makeToken(token.Text, start)
	}
}

func (l *Lexer) nextInlineCode() token.Token {
	start := l.index
	if int(l.index) >= len(l.buffer) {
		return l.makeToken(token.Eof, start)
	}

	c := l.buf(l.index)

	switch c {
	case 0:
		return l.makeToken(token.Eof, start)
	case '`':
		l.index++
		l.popMode()
		return l.makeToken(token.CodeInlineEnd, start)
	default:
		for int(l.index) < len(l.buffer) {
			ch := l.buf(l.index)
			if ch == '`' || ch == 0 {
				break
			}
			l.index++
		}
		return l.makeToken(token.Text, start)
	}
}

func (l *Lexer) nextCodeBlock() token.Token {
	start := l.index
	if int(l.index) >= len(l.buffer) {
		return l.makeToken(token.Eof, start)
	}

	c := l.buf(l.index)

	if l.index == l.lineStart && c == '`' && l.peekAhead("```") {
		l.index += 3
		l.popMode()
		return l.makeToken(token.CodeFenceEnd, start)
	}

	switch c {
	case 0:
		return l.makeToken(token.Eof, start)
	case '\n':
		l.index++
		l.lineStart = l.index
		return l.makeToken(token.Newline, start)
	default:
		for int(l.index) < len(l.buffer) {
			ch := l.buf(l.index)
			if ch == '\n' || ch == 0 {
				break
			}
			if l.index == l.lineStart && ch == '`' && l.peekAhead("```") {
				break
			}
			l.index++
		}
		return l.makeToken(token.Text, start)
	}
}

// isJSXStart reports whether the '<' at l.index opens a JSX
// construct: '<identifier', '</', '<>', are all JSX; anything else
// (e.g. "3 < 5") is left as plain text.
func (l *Lexer) isJSXStart() bool {
	if int(l.index)+1 >= len(l.buffer) {
		return false
	}
	next := l.buf(l.index + 1)
	switch {
	case next == '/' || next == '>':
		return true
	case (next >= 'a' && next <= 'z') || (next >= 'A' && next <= 'Z') || next == '_':
		return true
	default:
		return false
	}
}

// bufferCheckboxPeek looks for "[ ]", "[x]", or "[X]" immediately
// after a just-emitted list-item marker and, if found, buffers a
// checkbox token to hand back on the next Next() call, advancing the
// index past the bracket and its trailing space (if present). "[y]"
// and "[]" (no trailing space) are left untouched.
func (l *Lexer) bufferCheckboxPeek() {
	i := l.index
	if l.buf(i) != '[' {
		return
	}

	var checkedTag token.Tag
	switch l.buf(i + 1) {
	case ' ':
		checkedTag = token.CheckboxUnchecked
	case 'x', 'X':
		checkedTag = token.CheckboxChecked
	default:
		return
	}

	if l.buf(i+2) != ']' {
		return
	}

	after := l.buf(i + 3)
	if after != ' ' && after != '\n' && after != 0 {
		return
	}

	start := i
	l.index = i + 3
	if after == ' ' {
		l.index++
	}

	tok := token.Token{Tag: checkedTag, Start: start}
	l.pending = &tok
}

// keycapLength reports whether the byte at idx begins a keycap emoji
// sequence — an ASCII digit, '*', or '#' optionally followed by the
// UTF-8 encoding of U+FE0F (variation selector 16) and then the
// UTF-8 encoding of U+20E3 (combining enclosing keycap) — and, if so,
// how many bytes the whole sequence occupies. This guard runs before
// '#', digit, and '*' are dispatched as structural tokens so
// "#️⃣"/"*️⃣"/"3️⃣" are never mistaken for a heading, emphasis, or
// ordered-list marker.
func (l *Lexer) keycapLength(idx uint32) (uint32, bool) {
	c := l.buf(idx)
	if !((c >= '0' && c <= '9') || c == '*' || c == '#') {
		return 0, false
	}

	pos := idx + 1
	if l.buf(pos) == 0xEF && l.buf(pos+1) == 0xB8 && l.buf(pos+2) == 0x8F {
		pos += 3
	}

	if l.buf(pos) == 0xE2 && l.buf(pos+1) == 0x83 && l.buf(pos+2) == 0xA3 {
		return pos + 3 - idx, true
	}

	return 0, false
}

func (l *Lexer) peekAhead(needle string) bool {
	idx := int(l.index)
	if idx+len(needle) > len(l.buffer) {
		return false
	}
	return string(l.buffer[idx:idx+len(needle)]) == needle
}

// buf returns the byte at i, or 0 (treated as EOF throughout the
// grammar) when i is past the end of the buffer.
func (l *Lexer) buf(i uint32) byte {
	if int(i) < len(l.buffer) {
		return l.buffer[i]
	}
	return 0
}

func (l *Lexer) makeToken(tag token.Tag, start uint32) token.Token {
	return token.Token{Tag: tag, Start: start}
}

func (l *Lexer) pushMode(mode Mode) {
	l.modeStack = append(l.modeStack, l.mode)
	l.mode = mode
}

func (l *Lexer) popMode() {
	if len(l.modeStack) == 0 {
		l.mode = Markdown
		return
	}
	l.mode = l.modeStack[len(l.modeStack)-1]
	l.modeStack = l.modeStack[:len(l.modeStack)-1]
}
