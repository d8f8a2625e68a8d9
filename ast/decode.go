package ast

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// FrontmatterSource returns the raw, undecoded source text of a
// Frontmatter node's content — the span the parser recorded as an
// opaque token range without ever interpreting it.
func (a *Ast) FrontmatterSource(idx NodeIndex) string {
	info := a.FrontmatterInfo(idx)
	start := a.tokenByteStart(info.ContentStart)
	end := a.tokenByteStart(info.ContentEnd)
	return a.Source[start:end]
}

func (a *Ast) tokenByteStart(token TokenIndex) ByteOffset {
	if int(token) < len(a.TokenStarts) {
		return a.TokenStarts[token]
	}
	return ByteOffset(len(a.Source))
}

// DecodeFrontmatter decodes a Frontmatter node's content according to
// its declared format: YAML via gopkg.in/yaml.v3, JSON via
// encoding/json. This is a convenience for downstream consumers; the
// core parser itself never interprets frontmatter bytes (spec.md §3),
// so this has no effect on node count, tag sequence, or errors.
func (a *Ast) DecodeFrontmatter(idx NodeIndex) (any, error) {
	info := a.FrontmatterInfo(idx)
	raw := a.FrontmatterSource(idx)

	var value any
	switch info.Format {
	case FrontmatterYaml:
		if err := yaml.Unmarshal([]byte(raw), &value); err != nil {
			return nil, fmt.Errorf("decoding yaml frontmatter: %w", err)
		}
	case FrontmatterJSON:
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			return nil, fmt.Errorf("decoding json frontmatter: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown frontmatter format %d", info.Format)
	}
	return value, nil
}
