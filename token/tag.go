// Package token defines the lexical tag enumeration shared by the
// lexer, parser, and ast packages.
//
// A Token is a (Tag, start byte offset) pair; its end is never stored
// explicitly — it is implicit in the start of the next token, or the
// length of the source for the last one. See ast.Ast.TokenSlice.
package token

// Tag is the kind of a single lexical token.
type Tag int

const (
	// Markdown block-level tokens.
	HeadingStart Tag = iota
	CodeFenceStart
	CodeFenceEnd
	ListItemUnordered
	ListItemOrdered
	CheckboxUnchecked
	CheckboxChecked
	BlockquoteStart
	Hr
	BlankLine

	// Table tokens.
	Pipe

	// Markdown inline tokens.
	Text
	StrongStart
	StrongEnd
	EmphasisStart
	EmphasisEnd
	CodeInlineStart
	CodeInlineEnd
	LinkStart
	LinkEnd
	LinkUrlStart
	LinkUrlEnd
	ImageStart
	HardBreak

	// MDX expression tokens.
	ExprStart
	ExprEnd

	// JSX tokens.
	JsxTagStart
	JsxTagEnd
	JsxCloseTag
	JsxSelfClose
	JsxFragmentStart
	JsxFragmentClose
	JsxIdentifier
	JsxDot
	JsxColon
	JsxEqual
	JsxString
	JsxAttrExprStart

	// Frontmatter tokens.
	FrontmatterStart
	FrontmatterEnd

	// ESM tokens — never produced by the lexer (see SPEC_FULL.md §12),
	// kept so downstream consumers can switch on a complete enum.
	EsmImport
	EsmExport

	// Whitespace and structural.
	Newline
	Space
	Indent

	// Special.
	Eof
	Invalid
)

// Token is a single lexical unit: a tag and the byte offset at which
// it begins.
type Token struct {
	Tag   Tag
	Start uint32
}

// Name returns the machine-readable name of the tag, used in error
// messages and the downstream JSON schema's error entries.
func (t Tag) Name() string {
	switch t {
	case HeadingStart:
		return "heading_start"
	case CodeFenceStart:
		return "code_fence_start"
	case CodeFenceEnd:
		return "code_fence_end"
	case ListItemUnordered:
		return "list_item_unordered"
	case ListItemOrdered:
		return "list_item_ordered"
	case CheckboxUnchecked:
		return "checkbox_unchecked"
	case CheckboxChecked:
		return "checkbox_checked"
	case BlockquoteStart:
		return "blockquote_start"
	case Hr:
		return "hr"
	case BlankLine:
		return "blank_line"
	case Pipe:
		return "pipe"
	case Text:
		return "text"
	case StrongStart:
		return "strong_start"
	case StrongEnd:
		return "strong_end"
	case EmphasisStart:
		return "emphasis_start"
	case EmphasisEnd:
		return "emphasis_end"
	case CodeInlineStart:
		return "code_inline_start"
	case CodeInlineEnd:
		return "code_inline_end"
	case LinkStart:
		return "link_start"
	case LinkEnd:
		return "link_end"
	case LinkUrlStart:
		return "link_url_start"
	case LinkUrlEnd:
		return "link_url_end"
	case ImageStart:
		return "image_start"
	case HardBreak:
		return "hard_break"
	case ExprStart:
		return "expr_start"
	case ExprEnd:
		return "expr_end"
	case JsxTagStart:
		return "jsx_tag_start"
	case JsxTagEnd:
		return "jsx_tag_end"
	case JsxCloseTag:
		return "jsx_close_tag"
	case JsxSelfClose:
		return "jsx_self_close"
	case JsxFragmentStart:
		return "jsx_fragment_start"
	case JsxFragmentClose:
		return "jsx_fragment_close"
	case JsxIdentifier:
		return "jsx_identifier"
	case JsxDot:
		return "jsx_dot"
	case JsxColon:
		return "jsx_colon"
	case JsxEqual:
		return "jsx_equal"
	case JsxString:
		return "jsx_string"
	case JsxAttrExprStart:
		return "jsx_attr_expr_start"
	case FrontmatterStart:
		return "frontmatter_start"
	case FrontmatterEnd:
		return "frontmatter_end"
	case EsmImport:
		return "esm_import"
	case EsmExport:
		return "esm_export"
	case Newline:
		return "newline"
	case Space:
		return "space"
	case Indent:
		return "indent"
	case Eof:
		return "eof"
	case Invalid:
		return "invalid"
	default:
		return "invalid"
	}
}

// String satisfies fmt.Stringer so Tag values print readably in test
// failures and %v-formatted errors.
func (t Tag) String() string {
	return t.Name()
}
