package lexer

// Mode is the current lexical context. <, {, and backtick mean
// different things in each one, so the lexer keeps an explicit stack
// of them (depth typically <= 4) rather than trying to disambiguate
// with a single flat state.
type Mode int

const (
	Markdown Mode = iota
	Jsx
	Expression
	InlineCode
	CodeBlock
)
