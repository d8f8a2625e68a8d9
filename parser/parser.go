// Package parser turns a token stream into a flat-arena AST. Parsing
// is single-pass recursive descent: every loop that consumes tokens
// either advances the cursor or records an unexpected_token error and
// forces a one-token advance, so malformed input can never hang the
// parser.
package parser

import (
	"strconv"
	"strings"

	"github.com/hnmd-lang/go-hnmd/ast"
	"github.com/hnmd-lang/go-hnmd/lexer"
	"github.com/hnmd-lang/go-hnmd/token"
)

// Options configures the optional preprocessing passes available
// through ParseWithOptions. The zero value matches Parse.
type Options struct {
	// NormalizeEmojiShortcodes, when set, rewrites recognized
	// ":name:" shortcodes to their emoji equivalent before
	// tokenization. See shortcode.go.
	NormalizeEmojiShortcodes bool
}

// Parse tokenizes and parses source with default options.
func Parse(source string) *ast.Ast {
	return ParseWithOptions(source, Options{})
}

// ParseWithOptions tokenizes and parses source, applying any
// requested preprocessing first.
func ParseWithOptions(source string, opts Options) *ast.Ast {
	if opts.NormalizeEmojiShortcodes {
		source = normalizeEmojiShortcodes(source)
	}

	tags, starts := tokenize(source)
	p := &Parser{source: source, tokenTags: tags, tokenStarts: starts}
	p.parseDocument()

	return &ast.Ast{
		Source:      source,
		TokenTags:   p.tokenTags,
		TokenStarts: p.tokenStarts,
		Nodes:       p.nodes,
		ExtraData:   p.extraData,
		Errors:      p.errors,
	}
}

func tokenize(source string) ([]token.Tag, []uint32) {
	lx := lexer.New(source)
	var tags []token.Tag
	var starts []uint32
	for {
		tok := lx.Next()
		tags = append(tags, tok.Tag)
		starts = append(starts, tok.Start)
		if tok.Tag == token.Eof {
			break
		}
	}
	return tags, starts
}

// Parser holds the eagerly tokenized input and the growing arena it
// assembles nodes into. scratch is a stack used to gather variadic
// child lists before they're copied into a contiguous extraData
// range; it never outlives a single parse.
type Parser struct {
	source      string
	tokenTags   []token.Tag
	tokenStarts []uint32
	tokenIndex  uint32

	nodes     []ast.Node
	extraData []uint32
	scratch   []ast.NodeIndex
	errors    []ast.Error
}

func (p *Parser) cur() token.Tag {
	if int(p.tokenIndex) >= len(p.tokenTags) {
		return token.Eof
	}
	return p.tokenTags[p.tokenIndex]
}

func (p *Parser) curStart() ast.ByteOffset {
	if int(p.tokenIndex) < len(p.tokenStarts) {
		return p.tokenStarts[p.tokenIndex]
	}
	return ast.ByteOffset(len(p.source))
}

func (p *Parser) advance() ast.TokenIndex {
	idx := p.tokenIndex
	if p.cur() != token.Eof {
		p.tokenIndex++
	}
	return idx
}

func (p *Parser) expect(tag token.Tag) (ast.TokenIndex, bool) {
	if p.cur() == tag {
		return p.advance(), true
	}
	p.emitError(ast.ExpectedToken)
	return p.tokenIndex, false
}

func (p *Parser) tokenSlice(idx ast.TokenIndex) string {
	start := p.tokenStarts[idx]
	var end uint32
	if int(idx)+1 < len(p.tokenStarts) {
		end = p.tokenStarts[idx+1]
	} else {
		end = uint32(len(p.source))
	}
	return p.source[start:end]
}

func (p *Parser) tokenByteStart(tok ast.TokenIndex) ast.ByteOffset {
	if int(tok) < len(p.tokenStarts) {
		return p.tokenStarts[tok]
	}
	return ast.ByteOffset(len(p.source))
}

func (p *Parser) emitError(tag ast.ErrorTag) {
	if len(p.errors) >= ast.MaxParseErrors {
		return
	}
	p.errors = append(p.errors, ast.Error{Tag: tag, Token: p.tokenIndex, ByteOffset: p.curStart()})
}

func (p *Parser) emitErrorAt(tag ast.ErrorTag, tok ast.TokenIndex) {
	if len(p.errors) >= ast.MaxParseErrors {
		return
	}
	p.errors = append(p.errors, ast.Error{Tag: tag, Token: tok, ByteOffset: p.tokenByteStart(tok)})
}

func (p *Parser) addNode(n ast.Node) ast.NodeIndex {
	idx := uint32(len(p.nodes))
	p.nodes = append(p.nodes, n)
	return idx
}

func (p *Parser) reserveNode() ast.NodeIndex {
	return p.addNode(ast.Node{})
}

func (p *Parser) setNode(idx ast.NodeIndex, n ast.Node) {
	p.nodes[idx] = n
}

func (p *Parser) addExtra(values ...uint32) uint32 {
	off := uint32(len(p.extraData))
	p.extraData = append(p.extraData, values...)
	return off
}

// finishChildren copies everything pushed onto scratch since top into
// a contiguous extraData range and pops scratch back to top.
func (p *Parser) finishChildren(top int) (uint32, uint32) {
	start := uint32(len(p.extraData))
	p.extraData = append(p.extraData, p.scratch[top:]...)
	end := uint32(len(p.extraData))
	p.scratch = p.scratch[:top]
	return start, end
}

func (p *Parser) parseDocument() {
	docIdx := p.reserveNode()
	top := len(p.scratch)

	if fm, ok := p.tryParseFrontmatter(); ok {
		p.scratch = append(p.scratch, fm)
	}

	for p.cur() != token.Eof {
		if p.cur() == token.Newline || p.cur() == token.BlankLine {
			p.advance()
			continue
		}
		before := p.tokenIndex
		child, ok := p.parseBlock()
		if ok {
			p.scratch = append(p.scratch, child)
		}
		if p.tokenIndex == before {
			p.emitError(ast.UnexpectedToken)
			p.advance()
		}
		if len(p.errors) > 0 {
			break
		}
	}

	start, end := p.finishChildren(top)
	p.setNode(docIdx, ast.Node{Tag: ast.Document, Data: ast.NodeData{Kind: ast.DataChildren, ChildrenStart: start, ChildrenEnd: end}})
}

func (p *Parser) tryParseFrontmatter() (ast.NodeIndex, bool) {
	if p.tokenIndex != 0 {
		return 0, false
	}
	switch p.cur() {
	case token.FrontmatterStart:
		return p.parseYamlFrontmatter()
	case token.CodeFenceStart:
		return p.parseJSONFrontmatter()
	default:
		return 0, false
	}
}

func (p *Parser) parseYamlFrontmatter() (ast.NodeIndex, bool) {
	mainTok := p.advance() // FrontmatterStart
	contentStart := p.tokenIndex
	for p.cur() != token.Hr {
		if p.cur() == token.Eof {
			p.emitErrorAt(ast.UnclosedFrontmatter, mainTok)
			return 0, false
		}
		p.advance()
	}
	contentEnd := p.tokenIndex
	p.advance() // closing Hr
	extraOff := p.addExtra(uint32(ast.FrontmatterYaml), contentStart, contentEnd)
	idx := p.addNode(ast.Node{Tag: ast.Frontmatter, MainToken: mainTok, Data: ast.NodeData{Kind: ast.DataExtra, ExtraOffset: extraOff}})
	return idx, true
}

func (p *Parser) parseJSONFrontmatter() (ast.NodeIndex, bool) {
	if int(p.tokenIndex)+1 >= len(p.tokenTags) || p.tokenTags[p.tokenIndex+1] != token.Text {
		return 0, false
	}
	if strings.TrimSpace(p.tokenSlice(p.tokenIndex+1)) != "hnmd" {
		return 0, false
	}

	mainTok := p.advance() // CodeFenceStart
	p.advance()            // language word
	if p.cur() == token.Newline {
		p.advance()
	}

	contentStart := p.tokenIndex
	for p.cur() != token.CodeFenceEnd {
		if p.cur() == token.Eof {
			p.emitErrorAt(ast.UnclosedFrontmatter, mainTok)
			return 0, false
		}
		p.advance()
	}
	contentEnd := p.tokenIndex
	p.advance() // CodeFenceEnd
	extraOff := p.addExtra(uint32(ast.FrontmatterJSON), contentStart, contentEnd)
	idx := p.addNode(ast.Node{Tag: ast.Frontmatter, MainToken: mainTok, Data: ast.NodeData{Kind: ast.DataExtra, ExtraOffset: extraOff}})
	return idx, true
}

func (p *Parser) parseBlock() (ast.NodeIndex, bool) {
	switch p.cur() {
	case token.HeadingStart:
		return p.parseHeading()
	case token.CodeFenceStart:
		return p.parseCodeBlock()
	case token.Hr:
		return p.parseHr()
	case token.BlockquoteStart:
		return p.parseBlockquote()
	case token.ListItemUnordered, token.ListItemOrdered:
		return p.parseList()
	case token.Pipe:
		return p.parseTable()
	case token.JsxTagStart:
		return p.parseJSXElement()
	case token.JsxFragmentStart:
		return p.parseJSXFragment()
	default:
		return p.parseParagraph()
	}
}

func (p *Parser) parseHeading() (ast.NodeIndex, bool) {
	mainTok := p.tokenIndex
	level := 0
	for _, c := range p.tokenSlice(mainTok) {
		if c != '#' {
			break
		}
		level++
	}
	if level == 0 {
		level = 1
	}
	p.advance()

	idx := p.reserveNode()
	top := len(p.scratch)
	for p.cur() != token.Newline && p.cur() != token.Eof {
		before := p.tokenIndex
		child, ok := p.parseInline()
		if ok {
			p.scratch = append(p.scratch, child)
		}
		if p.tokenIndex == before {
			p.emitError(ast.UnexpectedToken)
			p.advance()
		}
	}
	if p.cur() == token.Newline {
		p.advance()
	}

	start, end := p.finishChildren(top)
	extraOff := p.addExtra(uint32(level), start, end)
	p.setNode(idx, ast.Node{Tag: ast.Heading, MainToken: mainTok, Data: ast.NodeData{Kind: ast.DataExtra, ExtraOffset: extraOff}})
	return idx, true
}

func (p *Parser) parseParagraph() (ast.NodeIndex, bool) {
	mainTok := p.tokenIndex
	idx := p.reserveNode()
	top := len(p.scratch)

	for p.cur() != token.BlankLine && p.cur() != token.Eof {
		if p.cur() == token.Newline {
			p.advance()
			continue
		}
		before := p.tokenIndex
		child, ok := p.parseInline()
		if ok {
			p.scratch = append(p.scratch, child)
		}
		if p.tokenIndex == before {
			break
		}
	}

	start, end := p.finishChildren(top)
	p.setNode(idx, ast.Node{Tag: ast.Paragraph, MainToken: mainTok, Data: ast.NodeData{Kind: ast.DataChildren, ChildrenStart: start, ChildrenEnd: end}})
	return idx, true
}

func (p *Parser) parseHr() (ast.NodeIndex, bool) {
	mainTok := p.advance()
	if p.cur() == token.Newline {
		p.advance()
	}
	idx := p.addNode(ast.Node{Tag: ast.Hr, MainToken: mainTok})
	return idx, true
}

func (p *Parser) parseBlockquote() (ast.NodeIndex, bool) {
	mainTok := p.advance()
	idx := p.reserveNode()
	top := len(p.scratch)

	for p.cur() != token.Newline && p.cur() != token.Eof {
		before := p.tokenIndex
		child, ok := p.parseInline()
		if ok {
			p.scratch = append(p.scratch, child)
		}
		if p.tokenIndex == before {
			p.emitError(ast.UnexpectedToken)
			p.advance()
		}
	}
	if p.cur() == token.Newline {
		p.advance()
	}

	start, end := p.finishChildren(top)
	p.setNode(idx, ast.Node{Tag: ast.Blockquote, MainToken: mainTok, Data: ast.NodeData{Kind: ast.DataChildren, ChildrenStart: start, ChildrenEnd: end}})
	return idx, true
}

func (p *Parser) parseCodeBlock() (ast.NodeIndex, bool) {
	mainTok := p.advance() // CodeFenceStart
	if p.cur() == token.Text {
		p.advance() // language word; recovered later by byte range
	}
	if p.cur() == token.Newline {
		p.advance()
	}
	for p.cur() != token.CodeFenceEnd && p.cur() != token.Eof {
		p.advance()
	}
	if p.cur() == token.CodeFenceEnd {
		p.advance()
	} else {
		p.emitErrorAt(ast.ExpectedToken, mainTok)
	}
	idx := p.addNode(ast.Node{Tag: ast.CodeBlock, MainToken: mainTok})
	return idx, true
}

func (p *Parser) parseList() (ast.NodeIndex, bool) {
	wantTag := token.ListItemUnordered
	listTag := ast.ListUnordered
	if p.cur() == token.ListItemOrdered {
		wantTag = token.ListItemOrdered
		listTag = ast.ListOrdered
	}

	mainTok := p.tokenIndex
	idx := p.reserveNode()
	top := len(p.scratch)

	for p.cur() == wantTag {
		item, ok := p.parseListItem()
		if ok {
			p.scratch = append(p.scratch, item)
		}
	}

	start, end := p.finishChildren(top)
	p.setNode(idx, ast.Node{Tag: listTag, MainToken: mainTok, Data: ast.NodeData{Kind: ast.DataChildren, ChildrenStart: start, ChildrenEnd: end}})
	return idx, true
}

func (p *Parser) parseListItem() (ast.NodeIndex, bool) {
	mainTok := p.advance() // ListItemUnordered/Ordered

	checked := ast.CheckedNone
	switch p.cur() {
	case token.CheckboxUnchecked:
		checked = ast.CheckedUnchecked
		p.advance()
	case token.CheckboxChecked:
		checked = ast.CheckedChecked
		p.advance()
	}

	idx := p.reserveNode()
	top := len(p.scratch)
	for p.cur() != token.Newline && p.cur() != token.Eof &&
		p.cur() != token.ListItemUnordered && p.cur() != token.ListItemOrdered {
		before := p.tokenIndex
		child, ok := p.parseInline()
		if ok {
			p.scratch = append(p.scratch, child)
		}
		if p.tokenIndex == before {
			break
		}
	}
	if p.cur() == token.Newline {
		p.advance()
	}

	start, end := p.finishChildren(top)
	extraOff := p.addExtra(uint32(checked), start, end)
	p.setNode(idx, ast.Node{Tag: ast.ListItem, MainToken: mainTok, Data: ast.NodeData{Kind: ast.DataExtra, ExtraOffset: extraOff}})
	return idx, true
}

func (p *Parser) parseTable() (ast.NodeIndex, bool) {
	mainTok := p.tokenIndex

	headerRow, numColumns, ok := p.parseTableRow()
	if !ok {
		idx := p.addNode(ast.Node{Tag: ast.Table, MainToken: mainTok})
		return idx, true
	}

	var alignments []ast.TableAlignment
	if p.cur() == token.Pipe {
		alignments = p.parseTableAlignmentRow()
	}

	rows := []ast.NodeIndex{headerRow}
	for p.cur() == token.Pipe {
		row, _, ok := p.parseTableRow()
		if !ok {
			break
		}
		rows = append(rows, row)
	}

	for uint32(len(alignments)) < numColumns {
		alignments = append(alignments, ast.AlignNone)
	}
	if uint32(len(alignments)) > numColumns {
		alignments = alignments[:numColumns]
	}

	extraOff := p.addExtra(numColumns, uint32(len(rows)))
	for _, a := range alignments {
		p.extraData = append(p.extraData, uint32(a))
	}
	p.extraData = append(p.extraData, rows...)

	idx := p.addNode(ast.Node{Tag: ast.Table, MainToken: mainTok, Data: ast.NodeData{Kind: ast.DataExtra, ExtraOffset: extraOff}})
	return idx, true
}

func (p *Parser) parseTableRow() (ast.NodeIndex, uint32, bool) {
	mainTok := p.tokenIndex
	if p.cur() != token.Pipe {
		return 0, 0, false
	}

	idx := p.reserveNode()
	top := len(p.scratch)
	var cellCount uint32
	for p.cur() == token.Pipe {
		p.advance()
		if p.cur() == token.Newline || p.cur() == token.Eof {
			break
		}
		cell, ok := p.parseTableCell()
		if ok {
			p.scratch = append(p.scratch, cell)
			cellCount++
		}
	}
	if p.cur() == token.Newline {
		p.advance()
	}

	start, end := p.finishChildren(top)
	p.setNode(idx, ast.Node{Tag: ast.TableRow, MainToken: mainTok, Data: ast.NodeData{Kind: ast.DataChildren, ChildrenStart: start, ChildrenEnd: end}})
	return idx, cellCount, true
}

func (p *Parser) parseTableCell() (ast.NodeIndex, bool) {
	mainTok := p.tokenIndex
	idx := p.reserveNode()
	top := len(p.scratch)

	for p.cur() != token.Pipe && p.cur() != token.Newline && p.cur() != token.Eof {
		before := p.tokenIndex
		child, ok := p.parseInline()
		if ok {
			p.scratch = append(p.scratch, child)
		}
		if p.tokenIndex == before {
			p.emitError(ast.UnexpectedToken)
			p.advance()
		}
	}

	start, end := p.finishChildren(top)
	p.setNode(idx, ast.Node{Tag: ast.TableCell, MainToken: mainTok, Data: ast.NodeData{Kind: ast.DataChildren, ChildrenStart: start, ChildrenEnd: end}})
	return idx, true
}

// parseTableAlignmentRow consumes a pipe-delimited separator row
// without allocating TableCell nodes, reading each cell's dash/colon
// pattern directly off the token slices.
func (p *Parser) parseTableAlignmentRow() []ast.TableAlignment {
	var alignments []ast.TableAlignment
	for p.cur() == token.Pipe {
		p.advance()
		if p.cur() == token.Newline || p.cur() == token.Eof {
			break
		}
		align := ast.AlignNone
		for p.cur() != token.Pipe && p.cur() != token.Newline && p.cur() != token.Eof {
			text := strings.TrimSpace(p.tokenSlice(p.tokenIndex))
			left := strings.HasPrefix(text, ":")
			right := strings.HasSuffix(text, ":")
			switch {
			case left && right:
				align = ast.AlignCenter
			case right:
				align = ast.AlignRight
			case left:
				align = ast.AlignLeft
			}
			p.advance()
		}
		alignments = append(alignments, align)
	}
	if p.cur() == token.Newline {
		p.advance()
	}
	return alignments
}

func (p *Parser) parseInline() (ast.NodeIndex, bool) {
	switch p.cur() {
	case token.Text, token.Indent, token.Space:
		tok := p.advance()
		return p.addNode(ast.Node{Tag: ast.Text, MainToken: tok}), true
	case token.StrongStart:
		return p.parseDelimited(ast.Strong, token.StrongEnd)
	case token.EmphasisStart:
		return p.parseDelimited(ast.Emphasis, token.EmphasisEnd)
	case token.CodeInlineStart:
		return p.parseCodeInline()
	case token.LinkStart:
		return p.parseLinkOrImage(ast.Link)
	case token.ImageStart:
		return p.parseLinkOrImage(ast.Image)
	case token.HardBreak:
		tok := p.advance()
		return p.addNode(ast.Node{Tag: ast.HardBreak, MainToken: tok}), true
	case token.ExprStart:
		return p.parseExpression()
	case token.JsxTagStart:
		return p.parseJSXElement()
	case token.JsxFragmentStart:
		return p.parseJSXFragment()
	default:
		return 0, false
	}
}

func (p *Parser) parseDelimited(tag ast.NodeTag, endTag token.Tag) (ast.NodeIndex, bool) {
	mainTok := p.advance()
	top := len(p.scratch)

	for p.cur() != endTag && p.cur() != token.Eof && p.cur() != token.BlankLine {
		before := p.tokenIndex
		child, ok := p.parseInline()
		if ok {
			p.scratch = append(p.scratch, child)
			continue
		}
		if p.tokenIndex != before {
			// child was a recognized construct that already failed and
			// recorded its own error; unwind rather than also reporting
			// this delimiter's closing marker as missing.
			p.scratch = p.scratch[:top]
			return 0, false
		}
		p.emitError(ast.UnexpectedToken)
		p.advance()
	}
	if p.cur() != endTag {
		p.emitErrorAt(ast.ExpectedToken, mainTok)
		p.scratch = p.scratch[:top]
		return 0, false
	}
	p.advance()

	start, end := p.finishChildren(top)
	idx := p.addNode(ast.Node{Tag: tag, MainToken: mainTok, Data: ast.NodeData{Kind: ast.DataChildren, ChildrenStart: start, ChildrenEnd: end}})
	return idx, true
}

func (p *Parser) parseCodeInline() (ast.NodeIndex, bool) {
	mainTok := p.advance() // CodeInlineStart
	data := ast.NodeData{Kind: ast.DataNone}
	if p.cur() == token.Text {
		data = ast.NodeData{Kind: ast.DataToken, Token: p.advance()}
	}
	if p.cur() == token.CodeInlineEnd {
		p.advance()
	} else {
		p.emitErrorAt(ast.ExpectedToken, mainTok)
	}
	idx := p.addNode(ast.Node{Tag: ast.CodeInline, MainToken: mainTok, Data: data})
	return idx, true
}

func (p *Parser) parseLinkOrImage(tag ast.NodeTag) (ast.NodeIndex, bool) {
	mainTok := p.advance() // LinkStart or ImageStart

	textNode := ast.Max
	if p.cur() == token.Text {
		textNode = p.addNode(ast.Node{Tag: ast.Text, MainToken: p.advance()})
	}

	if p.cur() != token.LinkEnd {
		p.emitErrorAt(ast.ExpectedToken, mainTok)
		return 0, false
	}
	p.advance()

	if p.cur() != token.LinkUrlStart {
		p.emitErrorAt(ast.ExpectedToken, mainTok)
		return 0, false
	}
	p.advance()

	var urlTok ast.TokenIndex
	if p.cur() == token.Text {
		urlTok = p.advance()
	} else {
		urlTok = p.tokenIndex
	}

	if p.cur() == token.LinkUrlEnd {
		p.advance()
	} else {
		p.emitErrorAt(ast.ExpectedToken, mainTok)
	}

	extraOff := p.addExtra(textNode, urlTok)
	idx := p.addNode(ast.Node{Tag: tag, MainToken: mainTok, Data: ast.NodeData{Kind: ast.DataExtra, ExtraOffset: extraOff}})
	return idx, true
}

func (p *Parser) parseExpression() (ast.NodeIndex, bool) {
	mainTok := p.advance() // ExprStart
	contentStart := p.tokenIndex
	depth := 0

	for {
		switch p.cur() {
		case token.Eof:
			p.emitErrorAt(ast.UnclosedExpression, mainTok)
			return 0, false
		case token.ExprStart:
			depth++
			p.advance()
		case token.ExprEnd:
			if depth == 0 {
				contentEnd := p.tokenIndex
				p.advance()
				extraOff := p.addExtra(contentStart, contentEnd)
				idx := p.addNode(ast.Node{Tag: ast.MdxTextExpression, MainToken: mainTok, Data: ast.NodeData{Kind: ast.DataExtra, ExtraOffset: extraOff}})
				return idx, true
			}
			depth--
			p.advance()
		default:
			p.advance()
		}
	}
}

func (p *Parser) parseJSXChild() (ast.NodeIndex, bool) {
	if p.cur() == token.HeadingStart {
		return p.parseHeading()
	}
	return p.parseInline()
}

func (p *Parser) parseJSXFragment() (ast.NodeIndex, bool) {
	mainTok := p.advance() // JsxFragmentStart
	top := len(p.scratch)

	for p.cur() != token.JsxFragmentClose && p.cur() != token.Eof {
		before := p.tokenIndex
		child, ok := p.parseJSXChild()
		if ok {
			p.scratch = append(p.scratch, child)
			continue
		}
		if p.tokenIndex != before {
			// child was a recognized construct that already failed and
			// recorded its own error; unwind rather than also reporting
			// this fragment's closing tag as missing.
			p.scratch = p.scratch[:top]
			return 0, false
		}
		p.emitError(ast.UnexpectedToken)
		p.advance()
	}

	if p.cur() != token.JsxFragmentClose {
		p.emitErrorAt(ast.ExpectedClosingTag, mainTok)
		p.scratch = p.scratch[:top]
		return 0, false
	}
	p.advance()

	start, end := p.finishChildren(top)
	idx := p.addNode(ast.Node{Tag: ast.MdxJsxFragment, MainToken: mainTok, Data: ast.NodeData{Kind: ast.DataChildren, ChildrenStart: start, ChildrenEnd: end}})
	return idx, true
}

func (p *Parser) parseJSXElement() (ast.NodeIndex, bool) {
	mainTok := p.advance() // JsxTagStart

	if p.cur() == token.JsxCloseTag {
		p.emitErrorAt(ast.UnexpectedToken, mainTok)
		return 0, false
	}

	nameTok, ok := p.expect(token.JsxIdentifier)
	if !ok {
		return 0, false
	}

	var attrWords []uint32
	for p.cur() == token.JsxIdentifier {
		attrNameTok := p.advance()
		var valueTok ast.TokenIndex
		var valueType ast.JsxAttributeType
		if p.cur() == token.JsxEqual {
			p.advance()
			valueTok, valueType = p.parseJSXAttributeValue()
		} else {
			valueTok, valueType = ast.Max, ast.JsxBoolean
		}
		attrWords = append(attrWords, attrNameTok, valueTok, uint32(valueType))
	}

	attrsOff := p.addExtra(attrWords...)
	attrsEnd := uint32(len(p.extraData))

	if p.cur() == token.JsxSelfClose {
		p.advance()
		extraOff := p.addExtra(nameTok, attrsOff, attrsEnd, 0, 0)
		idx := p.addNode(ast.Node{Tag: ast.MdxJsxSelfClosing, MainToken: mainTok, Data: ast.NodeData{Kind: ast.DataExtra, ExtraOffset: extraOff}})
		return idx, true
	}

	if p.cur() != token.JsxTagEnd {
		p.emitErrorAt(ast.ExpectedToken, mainTok)
		return 0, false
	}
	p.advance()

	top := len(p.scratch)
	for p.cur() != token.JsxCloseTag && p.cur() != token.Eof {
		before := p.tokenIndex
		child, ok := p.parseJSXChild()
		if ok {
			p.scratch = append(p.scratch, child)
			continue
		}
		if p.tokenIndex != before {
			// child was a recognized construct that already failed and
			// recorded its own error; unwind rather than also reporting
			// this element's closing tag as missing.
			p.scratch = p.scratch[:top]
			return 0, false
		}
		p.emitError(ast.UnexpectedToken)
		p.advance()
	}

	if p.cur() != token.JsxCloseTag {
		p.emitErrorAt(ast.ExpectedClosingTag, mainTok)
		p.scratch = p.scratch[:top]
		return 0, false
	}

	closeTagTok := p.advance() // JsxCloseTag
	closeNameTok, ok := p.expect(token.JsxIdentifier)
	if !ok {
		p.scratch = p.scratch[:top]
		return 0, false
	}

	if p.cur() != token.JsxTagEnd {
		p.emitErrorAt(ast.ExpectedToken, closeTagTok)
		p.scratch = p.scratch[:top]
		return 0, false
	}
	p.advance()

	if strings.TrimSpace(p.tokenSlice(nameTok)) != strings.TrimSpace(p.tokenSlice(closeNameTok)) {
		p.emitErrorAt(ast.MismatchedTags, closeTagTok)
		p.scratch = p.scratch[:top]
		return 0, false
	}

	childrenStart, childrenEnd := p.finishChildren(top)
	extraOff := p.addExtra(nameTok, attrsOff, attrsEnd, childrenStart, childrenEnd)
	idx := p.addNode(ast.Node{Tag: ast.MdxJsxElement, MainToken: mainTok, Data: ast.NodeData{Kind: ast.DataExtra, ExtraOffset: extraOff}})
	return idx, true
}

func (p *Parser) parseJSXAttributeValue() (ast.TokenIndex, ast.JsxAttributeType) {
	switch p.cur() {
	case token.JsxString:
		return p.advance(), ast.JsxString
	case token.JsxAttrExprStart:
		return p.parseJSXAttrExpr()
	case token.JsxIdentifier, token.Text:
		tok := p.advance()
		return tok, p.inferUnquotedJSXValueType(tok)
	default:
		p.emitError(ast.InvalidJsxAttribute)
		return ast.Max, ast.JsxString
	}
}

// parseJSXAttrExpr consumes a brace-balanced attribute expression,
// remembering the token following JsxAttrExprStart as the value token
// (spec.md §4.1: "content range captured exactly like text
// expressions" — the first content token, not the `{` itself) or
// returning Max when the expression was empty.
func (p *Parser) parseJSXAttrExpr() (ast.TokenIndex, ast.JsxAttributeType) {
	mainTok := p.advance() // JsxAttrExprStart
	contentStart := p.tokenIndex
	if p.cur() == token.ExprEnd {
		p.advance()
		return ast.Max, ast.JsxExpression
	}

	depth := 0
	for {
		switch p.cur() {
		case token.Eof:
			p.emitErrorAt(ast.UnclosedExpression, mainTok)
			return ast.Max, ast.JsxExpression
		case token.ExprStart, token.JsxAttrExprStart:
			depth++
			p.advance()
		case token.ExprEnd:
			if depth == 0 {
				p.advance()
				return contentStart, ast.JsxExpression
			}
			depth--
			p.advance()
		default:
			p.advance()
		}
	}
}

func (p *Parser) inferUnquotedJSXValueType(tok ast.TokenIndex) ast.JsxAttributeType {
	text := strings.TrimSpace(p.tokenSlice(tok))
	if text == "true" || text == "false" {
		return ast.JsxBoolean
	}
	if _, err := strconv.ParseFloat(text, 64); err == nil {
		return ast.JsxNumber
	}
	return ast.JsxString
}
