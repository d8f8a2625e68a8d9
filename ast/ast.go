// Package ast defines the flat-arena abstract syntax tree produced by
// the parser package, plus the read-only accessors that decode it.
//
// Nodes are not linked by pointer: every node is addressed by its
// index into Ast.Nodes, and variadic payloads (child lists, JSX
// attribute tuples, table rows) live in a single shared ExtraData
// side table addressed by offset. This keeps allocation to three
// growing slices for an entire parse and makes every node index
// trivially comparable and copyable. See DESIGN.md for why this
// replaces the teacher's pointer-tree ast.Node.
package ast

import (
	"fmt"
	"math"
	"strings"

	"github.com/hnmd-lang/go-hnmd/token"
)

// NodeIndex addresses a single node in Ast.Nodes.
type NodeIndex = uint32

// TokenIndex addresses a single token in the parallel token slices.
type TokenIndex = uint32

// ByteOffset is an offset into Ast.Source.
type ByteOffset = uint32

// Max is the sentinel used in ExtraData to mark an absent optional
// value (a link with no text, an attribute with no value, and so on).
const Max uint32 = math.MaxUint32

// NodeTag is the kind of an AST node.
type NodeTag int

const (
	Document NodeTag = iota

	// Markdown block nodes.
	Heading
	Paragraph
	CodeBlock
	Blockquote
	ListUnordered
	ListOrdered
	ListItem
	Hr
	Table
	TableRow
	TableCell
	Frontmatter

	// Markdown inline nodes.
	Text
	Strong
	Emphasis
	CodeInline
	Link
	Image
	HardBreak

	// MDX expression nodes.
	MdxTextExpression
	MdxFlowExpression

	// MDX JSX nodes. MdxJsxAttribute is declared for schema symmetry
	// with downstream consumers but is never allocated as a node —
	// attributes are packed into ExtraData (see JsxElement in
	// accessors.go).
	MdxJsxElement
	MdxJsxSelfClosing
	MdxJsxFragment
	MdxJsxAttribute

	// MDX ESM nodes — declared, never produced (SPEC_FULL.md §12).
	MdxEsmImport
	MdxEsmExport
)

// Name returns the snake_case name used by the downstream JSON schema.
func (t NodeTag) Name() string {
	switch t {
	case Document:
		return "document"
	case Heading:
		return "heading"
	case Paragraph:
		return "paragraph"
	case CodeBlock:
		return "code_block"
	case Blockquote:
		return "blockquote"
	case ListUnordered:
		return "list_unordered"
	case ListOrdered:
		return "list_ordered"
	case ListItem:
		return "list_item"
	case Hr:
		return "hr"
	case Table:
		return "table"
	case TableRow:
		return "table_row"
	case TableCell:
		return "table_cell"
	case Frontmatter:
		return "frontmatter"
	case Text:
		return "text"
	case Strong:
		return "strong"
	case Emphasis:
		return "emphasis"
	case CodeInline:
		return "code_inline"
	case Link:
		return "link"
	case Image:
		return "image"
	case HardBreak:
		return "hard_break"
	case MdxTextExpression:
		return "mdx_text_expression"
	case MdxFlowExpression:
		return "mdx_flow_expression"
	case MdxJsxElement:
		return "mdx_jsx_element"
	case MdxJsxSelfClosing:
		return "mdx_jsx_self_closing"
	case MdxJsxFragment:
		return "mdx_jsx_fragment"
	case MdxJsxAttribute:
		return "mdx_jsx_attribute"
	case MdxEsmImport:
		return "mdx_esm_import"
	case MdxEsmExport:
		return "mdx_esm_export"
	default:
		return "unknown"
	}
}

func (t NodeTag) String() string { return t.Name() }

// DataKind discriminates which field of NodeData is populated.
type DataKind int

const (
	DataNone DataKind = iota
	DataToken
	DataChildren
	DataExtra
)

// NodeData is the node payload. Exactly one field is meaningful,
// selected by Kind — Go has no tagged unions, so this mirrors the
// original's enum with a discriminant plus the union of possible
// field sets.
type NodeData struct {
	Kind DataKind

	// Valid when Kind == DataToken: a single auxiliary token index.
	Token TokenIndex

	// Valid when Kind == DataChildren: a half-open [Start,End) range
	// into ExtraData whose entries are child NodeIndex values.
	ChildrenStart uint32
	ChildrenEnd   uint32

	// Valid when Kind == DataExtra: the offset into ExtraData where a
	// tag-specific fixed-width record begins.
	ExtraOffset uint32
}

// Node is a single AST element: a tag, the token that defines it, and
// its payload.
type Node struct {
	Tag       NodeTag
	MainToken TokenIndex
	Data      NodeData
}

// ErrorTag is the kind of a parse error.
type ErrorTag int

const (
	ExpectedToken ErrorTag = iota
	ExpectedBlockElement
	ExpectedClosingTag
	UnclosedExpression
	UnclosedFrontmatter
	InvalidJsxAttribute
	BlankLineRequired
	MismatchedTags
	UnexpectedToken
)

func (t ErrorTag) Name() string {
	switch t {
	case ExpectedToken:
		return "expected_token"
	case ExpectedBlockElement:
		return "expected_block_element"
	case ExpectedClosingTag:
		return "expected_closing_tag"
	case UnclosedExpression:
		return "unclosed_expression"
	case UnclosedFrontmatter:
		return "unclosed_frontmatter"
	case InvalidJsxAttribute:
		return "invalid_jsx_attribute"
	case BlankLineRequired:
		return "blank_line_required"
	case MismatchedTags:
		return "mismatched_tags"
	case UnexpectedToken:
		return "unexpected_token"
	default:
		return "unknown"
	}
}

func (t ErrorTag) String() string { return t.Name() }

// Error is one recorded parse failure: its kind, the token it was
// raised at, and that token's byte offset (so editors can underline
// it without re-walking the token stream).
type Error struct {
	Tag        ErrorTag
	Token      TokenIndex
	ByteOffset ByteOffset
}

// Error satisfies the error interface so a single Error can be used
// wherever Go code expects one.
func (e Error) Error() string {
	return e.Tag.Name() + " at byte " + itoa(e.ByteOffset)
}

func itoa(v uint32) string {
	if v == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}

// MaxParseErrors bounds Ast.Errors; additional errors are dropped
// silently once this is reached (spec.md §3 invariant 5).
const MaxParseErrors = 4096

// Ast is the parse result: the source it was built from, the token
// stream's tags and start offsets, the node arena, the shared
// extra-data side table, and the (possibly empty, possibly truncated)
// error list.
type Ast struct {
	Source      string
	TokenTags   []token.Tag
	TokenStarts []ByteOffset
	Nodes       []Node
	ExtraData   []uint32
	Errors      []Error
}

// ParseFailedError bundles a non-empty Errors slice into a single
// error value, the way callers that just want one handleable error
// (log it, fail a build step, %w-wrap it) expect. Unwrap returns the
// full slice so callers can still errors.As/errors.Is into individual
// Error values.
type ParseFailedError struct {
	Errors []Error
}

func (e *ParseFailedError) Error() string {
	if len(e.Errors) == 1 {
		return "parse completed with 1 error"
	}
	return fmt.Sprintf("parse completed with %d errors", len(e.Errors))
}

func (e *ParseFailedError) Unwrap() []error {
	out := make([]error, len(e.Errors))
	for i, pe := range e.Errors {
		out[i] = pe
	}
	return out
}

// ErrorMessages returns a formatted string of all error messages.
func (e *ParseFailedError) ErrorMessages() string {
	msgs := make([]string, len(e.Errors))
	for i, pe := range e.Errors {
		msgs[i] = pe.Error()
	}
	return strings.Join(msgs, "\n")
}

// Err bundles Errors into a single error value, or returns nil when
// there were none.
func (a *Ast) Err() error {
	if len(a.Errors) == 0 {
		return nil
	}
	return &ParseFailedError{Errors: a.Errors}
}
