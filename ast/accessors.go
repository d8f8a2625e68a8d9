package ast

// HeadingData is the decoded extra-data record for a Heading node.
type HeadingData struct {
	Level         uint8
	ChildrenStart uint32
	ChildrenEnd   uint32
}

// ListItemChecked is the tri-state checkbox status of a list item.
type ListItemChecked int

const (
	CheckedNone ListItemChecked = iota
	CheckedUnchecked
	CheckedChecked
)

// ListItemData is the decoded extra-data record for a ListItem node.
type ListItemData struct {
	Checked       ListItemChecked
	ChildrenStart uint32
	ChildrenEnd   uint32
}

// JsxAttributeType is the inferred type of a JSX attribute value.
type JsxAttributeType int

const (
	JsxString JsxAttributeType = iota
	JsxNumber
	JsxBoolean
	JsxExpression
)

// JsxAttribute is one decoded attribute tuple from a JSX element's
// packed extra-data attribute range.
type JsxAttribute struct {
	NameToken  TokenIndex
	ValueToken TokenIndex // Max when absent
	ValueType  JsxAttributeType
}

// HasValue reports whether the attribute carries a value token.
func (a JsxAttribute) HasValue() bool { return a.ValueToken != Max }

// JsxElement is the decoded extra-data record shared by
// MdxJsxElement and MdxJsxSelfClosing nodes.
type JsxElement struct {
	NameToken     TokenIndex
	AttrsStart    uint32
	AttrsEnd      uint32
	ChildrenStart uint32
	ChildrenEnd   uint32
}

// LinkData is the decoded extra-data record shared by Link and Image
// nodes.
type LinkData struct {
	TextNode NodeIndex // Max when absent
	URLToken TokenIndex
}

// HasText reports whether the link/image carries inline text.
func (l LinkData) HasText() bool { return l.TextNode != Max }

// FrontmatterFormat distinguishes YAML from JSON frontmatter.
type FrontmatterFormat int

const (
	FrontmatterYaml FrontmatterFormat = iota
	FrontmatterJSON
)

// FrontmatterData is the decoded extra-data record for a
// Frontmatter node. ContentStart/ContentEnd are token indices, not
// byte offsets — the content is a run of raw tokens bracketed by the
// opening/closing markers.
type FrontmatterData struct {
	Format       FrontmatterFormat
	ContentStart uint32
	ContentEnd   uint32
}

// TableAlignment is one column's declared alignment.
type TableAlignment int

const (
	AlignNone TableAlignment = iota
	AlignLeft
	AlignCenter
	AlignRight
)

// TableData is the decoded extra-data record for a Table node.
type TableData struct {
	NumColumns uint32
	NumRows    uint32
	Alignments []TableAlignment
	Rows       []NodeIndex
}

// Children returns the child node indices of node, decoding whichever
// extra-data shape that node's tag uses (a raw Children range, or an
// Extra record that embeds one). Nodes with neither (Text, Hr,
// CodeBlock, Link, ...) return nil.
func (a *Ast) Children(idx NodeIndex) []NodeIndex {
	n := a.Nodes[idx]
	switch n.Tag {
	case Document, Paragraph, Blockquote, ListUnordered, ListOrdered,
		ListItem, Strong, Emphasis, MdxJsxFragment, TableRow, TableCell:
		if n.Tag == ListItem {
			info := a.ListItemInfo(idx)
			return a.childrenSlice(info.ChildrenStart, info.ChildrenEnd)
		}
		if n.Data.Kind != DataChildren {
			return nil
		}
		return a.childrenSlice(n.Data.ChildrenStart, n.Data.ChildrenEnd)
	case Heading:
		info := a.HeadingInfo(idx)
		return a.childrenSlice(info.ChildrenStart, info.ChildrenEnd)
	case MdxJsxElement:
		elem := a.JSXElementInfo(idx)
		return a.childrenSlice(elem.ChildrenStart, elem.ChildrenEnd)
	case Table:
		return a.TableInfo(idx).Rows
	default:
		return nil
	}
}

func (a *Ast) childrenSlice(start, end uint32) []NodeIndex {
	if start == end {
		return nil
	}
	return a.ExtraData[start:end]
}

// TokenSlice returns the raw source text covered by a single token:
// from its start up to the next token's start, or end-of-source for
// the last token.
func (a *Ast) TokenSlice(idx TokenIndex) string {
	start := a.TokenStarts[idx]
	var end uint32
	if int(idx)+1 < len(a.TokenStarts) {
		end = a.TokenStarts[idx+1]
	} else {
		end = uint32(len(a.Source))
	}
	return a.Source[start:end]
}

// Span is a byte range [Start, End) in Source.
type Span struct {
	Start ByteOffset
	End   ByteOffset
}

// NodeSpan returns the byte range covered by a node: from its main
// token to the end of its last child (recursively), or to the next
// token if it has no children.
func (a *Ast) NodeSpan(idx NodeIndex) Span {
	n := a.Nodes[idx]
	start := a.TokenStarts[n.MainToken]

	children := a.Children(idx)
	var end ByteOffset
	if len(children) > 0 {
		end = a.NodeSpan(children[len(children)-1]).End
	} else {
		endToken := n.MainToken + 1
		if int(endToken) < len(a.TokenStarts) {
			end = a.TokenStarts[endToken]
		} else {
			end = ByteOffset(len(a.Source))
		}
	}
	return Span{Start: start, End: end}
}

// NodeAtOffset descends from the document root, returning the
// deepest node whose span contains the given byte offset. Returns
// (0, false) when the AST has no nodes or the offset falls outside
// the document's span.
func (a *Ast) NodeAtOffset(offset ByteOffset) (NodeIndex, bool) {
	if len(a.Nodes) == 0 {
		return 0, false
	}
	var docIdx NodeIndex
	found := false
	for i, n := range a.Nodes {
		if n.Tag == Document {
			docIdx = uint32(i)
			found = true
			break
		}
	}
	if !found {
		return 0, false
	}
	return a.nodeAtOffsetRecursive(docIdx, offset)
}

func (a *Ast) nodeAtOffsetRecursive(idx NodeIndex, offset ByteOffset) (NodeIndex, bool) {
	span := a.NodeSpan(idx)
	if offset < span.Start || offset >= span.End {
		return 0, false
	}
	for _, child := range a.Children(idx) {
		if found, ok := a.nodeAtOffsetRecursive(child, offset); ok {
			return found, true
		}
	}
	return idx, true
}

// HeadingInfo decodes the extra-data record of a Heading node.
func (a *Ast) HeadingInfo(idx NodeIndex) HeadingData {
	n := a.Nodes[idx]
	off := n.Data.ExtraOffset
	return HeadingData{
		Level:         uint8(a.ExtraData[off]),
		ChildrenStart: a.ExtraData[off+1],
		ChildrenEnd:   a.ExtraData[off+2],
	}
}

// ListItemInfo decodes the extra-data record of a ListItem node.
func (a *Ast) ListItemInfo(idx NodeIndex) ListItemData {
	n := a.Nodes[idx]
	off := n.Data.ExtraOffset
	return ListItemData{
		Checked:       ListItemChecked(a.ExtraData[off]),
		ChildrenStart: a.ExtraData[off+1],
		ChildrenEnd:   a.ExtraData[off+2],
	}
}

// JSXElementInfo decodes the extra-data record shared by
// MdxJsxElement and MdxJsxSelfClosing nodes.
func (a *Ast) JSXElementInfo(idx NodeIndex) JsxElement {
	n := a.Nodes[idx]
	off := n.Data.ExtraOffset
	return JsxElement{
		NameToken:     a.ExtraData[off],
		AttrsStart:    a.ExtraData[off+1],
		AttrsEnd:      a.ExtraData[off+2],
		ChildrenStart: a.ExtraData[off+3],
		ChildrenEnd:   a.ExtraData[off+4],
	}
}

// JSXAttributes decodes the packed 3-word attribute tuples of a JSX
// element node.
func (a *Ast) JSXAttributes(idx NodeIndex) []JsxAttribute {
	elem := a.JSXElementInfo(idx)
	if elem.AttrsStart == elem.AttrsEnd {
		return nil
	}
	attrs := make([]JsxAttribute, 0, (elem.AttrsEnd-elem.AttrsStart)/3)
	for i := elem.AttrsStart; i < elem.AttrsEnd; i += 3 {
		attrs = append(attrs, JsxAttribute{
			NameToken:  a.ExtraData[i],
			ValueToken: a.ExtraData[i+1],
			ValueType:  JsxAttributeType(a.ExtraData[i+2]),
		})
	}
	return attrs
}

// LinkInfo decodes the extra-data record shared by Link and Image
// nodes.
func (a *Ast) LinkInfo(idx NodeIndex) LinkData {
	n := a.Nodes[idx]
	off := n.Data.ExtraOffset
	return LinkData{
		TextNode: a.ExtraData[off],
		URLToken: a.ExtraData[off+1],
	}
}

// FrontmatterInfo decodes the extra-data record of a Frontmatter
// node.
func (a *Ast) FrontmatterInfo(idx NodeIndex) FrontmatterData {
	n := a.Nodes[idx]
	off := n.Data.ExtraOffset
	return FrontmatterData{
		Format:       FrontmatterFormat(a.ExtraData[off]),
		ContentStart: a.ExtraData[off+1],
		ContentEnd:   a.ExtraData[off+2],
	}
}

// TableInfo decodes the extra-data record of a Table node:
// [num_columns, num_rows, align_0..align_{C-1}, row_0..row_{R-1}].
func (a *Ast) TableInfo(idx NodeIndex) TableData {
	n := a.Nodes[idx]
	off := n.Data.ExtraOffset
	numColumns := a.ExtraData[off]
	numRows := a.ExtraData[off+1]

	alignRaw := a.ExtraData[off+2 : off+2+numColumns]
	alignments := make([]TableAlignment, len(alignRaw))
	for i, v := range alignRaw {
		alignments[i] = TableAlignment(v)
	}

	rowsStart := off + 2 + numColumns
	rows := a.ExtraData[rowsStart : rowsStart+numRows]

	return TableData{
		NumColumns: numColumns,
		NumRows:    numRows,
		Alignments: alignments,
		Rows:       rows,
	}
}

// ExpressionInfo decodes the [content_token_start, content_token_end]
// extra-data record used by MdxTextExpression/MdxFlowExpression
// nodes. JSX attribute expressions do not use it: they store only
// their first content token as the attribute's value token.
type ExpressionInfo struct {
	ContentStart TokenIndex
	ContentEnd   TokenIndex
}

// ExpressionContent decodes the extra-data record of an expression
// node.
func (a *Ast) ExpressionContent(idx NodeIndex) ExpressionInfo {
	n := a.Nodes[idx]
	off := n.Data.ExtraOffset
	return ExpressionInfo{
		ContentStart: a.ExtraData[off],
		ContentEnd:   a.ExtraData[off+1],
	}
}
