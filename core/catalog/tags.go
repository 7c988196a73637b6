package catalog

import (
	"errors"
	"fmt"
	"strings"
)

type TagKind int

const (
	TagEmpty TagKind = iota
	TagSingle
	TagMultiple
	TagUnparseable
)

func (k TagKind) String() string {
	switch k {
	case TagSingle:
		return "single"
	case TagMultiple:
		return "multiple"
	case TagUnparseable:
		return "unparseable"
	default:
		return "empty"
	}
}

// TagValue is the parsed form of a tag-like cell.
type TagValue struct {
	Kind TagKind
	Tags []string
	Raw  string
}

// Set returns the tags the cell stands for. An unparseable cell is kept whole
// as a single tag.
func (v TagValue) Set() []string {
	switch v.Kind {
	case TagSingle, TagMultiple:
		out := make([]string, len(v.Tags))
		copy(out, v.Tags)
		return out
	case TagUnparseable:
		return []string{v.Raw}
	default:
		return nil
	}
}

func (v TagValue) First() string {
	set := v.Set()
	if len(set) == 0 {
		return ""
	}
	return set[0]
}

// ParseTags accepts a cell as delivered by a loader: nil, a JSON array, or text
// that may hold list literal syntax such as `['Vegan', "Gluten Free"]`.
func ParseTags(raw any) TagValue {
	switch v := raw.(type) {
	case nil:
		return TagValue{Kind: TagEmpty}
	case []string:
		return multiple(v)
	case []any:
		tags := make([]string, 0, len(v))
		for _, elem := range v {
			if elem == nil {
				continue
			}
			if s, ok := elem.(string); ok {
				tags = append(tags, s)
				continue
			}
			tags = append(tags, fmt.Sprint(elem))
		}
		return multiple(tags)
	case string:
		return parseTagText(v)
	default:
		return TagValue{Kind: TagSingle, Tags: []string{fmt.Sprint(v)}, Raw: fmt.Sprint(v)}
	}
}

func multiple(tags []string) TagValue {
	if len(tags) == 0 {
		return TagValue{Kind: TagEmpty}
	}
	out := make([]string, len(tags))
	copy(out, tags)
	return TagValue{Kind: TagMultiple, Tags: out}
}

func parseTagText(text string) TagValue {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return TagValue{Kind: TagEmpty, Raw: text}
	}

	if !strings.HasPrefix(trimmed, "[") {
		return TagValue{Kind: TagSingle, Tags: []string{text}, Raw: text}
	}

	tags, err := parseListLiteral(trimmed)
	if err != nil {
		return TagValue{Kind: TagUnparseable, Raw: text}
	}

	value := multiple(tags)
	value.Raw = text
	return value
}

var errBadLiteral = errors.New("bad list literal")

// parseListLiteral reads a bracketed list of quoted strings. Single and double
// quotes are accepted, a trailing comma is allowed.
func parseListLiteral(s string) ([]string, error) {
	p := literalParser{src: s}

	if !p.consume('[') {
		return nil, errBadLiteral
	}

	tags := []string{}
	p.skipSpace()
	if p.consume(']') {
		return tags, p.end()
	}

	for {
		p.skipSpace()
		str, err := p.quoted()
		if err != nil {
			return nil, err
		}
		tags = append(tags, str)

		p.skipSpace()
		if p.consume(']') {
			return tags, p.end()
		}
		if !p.consume(',') {
			return nil, errBadLiteral
		}
		p.skipSpace()
		if p.consume(']') {
			return tags, p.end()
		}
	}
}

type literalParser struct {
	src string
	pos int
}

func (p *literalParser) skipSpace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *literalParser) consume(b byte) bool {
	if p.pos < len(p.src) && p.src[p.pos] == b {
		p.pos++
		return true
	}
	return false
}

func (p *literalParser) end() error {
	p.skipSpace()
	if p.pos != len(p.src) {
		return errBadLiteral
	}
	return nil
}

func (p *literalParser) quoted() (string, error) {
	if p.pos >= len(p.src) {
		return "", errBadLiteral
	}

	quote := p.src[p.pos]
	if quote != '\'' && quote != '"' {
		return "", errBadLiteral
	}
	p.pos++

	var sb strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == quote:
			p.pos++
			return sb.String(), nil
		case c == '\\':
			if p.pos+1 >= len(p.src) {
				return "", errBadLiteral
			}
			next := p.src[p.pos+1]
			switch next {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case '\\', '\'', '"':
				sb.WriteByte(next)
			default:
				sb.WriteByte('\\')
				sb.WriteByte(next)
			}
			p.pos += 2
		default:
			sb.WriteByte(c)
			p.pos++
		}
	}

	return "", errBadLiteral
}
