package codec

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aretw0/cnftree/pkg/domain"
)

// MarshalSExpr renders a tree as (label child ...), leaves bare. Labels that
// would not read back as a single atom are written as Go string literals.
func MarshalSExpr(n *domain.Node) []byte {
	var sb strings.Builder
	writeSExpr(&sb, n)
	return []byte(sb.String())
}

func writeSExpr(sb *strings.Builder, n *domain.Node) {
	if n.IsLeaf() {
		sb.WriteString(quoteAtom(n.Label))
		return
	}
	sb.WriteByte('(')
	sb.WriteString(quoteAtom(n.Label))
	for _, c := range n.Children {
		sb.WriteByte(' ')
		writeSExpr(sb, c)
	}
	sb.WriteByte(')')
}

func quoteAtom(label string) string {
	if label == "" || strings.ContainsFunc(label, func(r rune) bool {
		return r == '(' || r == ')' || r == '"' || unicode.IsSpace(r) || !unicode.IsPrint(r)
	}) {
		return strconv.Quote(label)
	}
	return label
}

// UnmarshalSExpr parses a single tree written by MarshalSExpr.
func UnmarshalSExpr(data []byte) (*domain.Node, error) {
	p := &sexprParser{src: string(data)}
	n, err := p.parse(0)
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos < len(p.src) {
		return nil, p.errorf("unexpected %q after tree", p.src[p.pos:p.pos+1])
	}
	return n, nil
}

type sexprParser struct {
	src string
	pos int
}

func (p *sexprParser) errorf(format string, args ...any) error {
	return fmt.Errorf("codec: sexpr offset %d: %s", p.pos, fmt.Sprintf(format, args...))
}

func (p *sexprParser) skipSpace() {
	for p.pos < len(p.src) {
		r, size := utf8.DecodeRuneInString(p.src[p.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		p.pos += size
	}
}

func (p *sexprParser) parse(depth int) (*domain.Node, error) {
	if depth > MaxDepth {
		return nil, p.errorf("tree nested deeper than %d", MaxDepth)
	}
	p.skipSpace()
	if p.pos >= len(p.src) {
		return nil, p.errorf("unexpected end of input")
	}
	if p.src[p.pos] != '(' {
		label, err := p.atom()
		if err != nil {
			return nil, err
		}
		return domain.Leaf(label), nil
	}

	p.pos++
	p.skipSpace()
	label, err := p.atom()
	if err != nil {
		return nil, err
	}
	n := &domain.Node{Label: label}
	for {
		p.skipSpace()
		if p.pos >= len(p.src) {
			return nil, p.errorf("missing ')'")
		}
		if p.src[p.pos] == ')' {
			p.pos++
			return n, nil
		}
		child, err := p.parse(depth + 1)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, child)
	}
}

func (p *sexprParser) atom() (string, error) {
	if p.pos >= len(p.src) {
		return "", p.errorf("unexpected end of input")
	}
	switch p.src[p.pos] {
	case '(', ')':
		return "", p.errorf("expected a label, got %q", p.src[p.pos:p.pos+1])
	case '"':
		prefix, err := strconv.QuotedPrefix(p.src[p.pos:])
		if err != nil {
			return "", p.errorf("bad quoted label")
		}
		label, err := strconv.Unquote(prefix)
		if err != nil {
			return "", p.errorf("bad quoted label: %v", err)
		}
		p.pos += len(prefix)
		return label, nil
	}
	start := p.pos
	for p.pos < len(p.src) {
		r, size := utf8.DecodeRuneInString(p.src[p.pos:])
		if r == '(' || r == ')' || unicode.IsSpace(r) {
			break
		}
		p.pos += size
	}
	return p.src[start:p.pos], nil
}

// sexprEncoder writes one tree per line.
type sexprEncoder struct {
	w io.Writer
}

func (e *sexprEncoder) Encode(n *domain.Node) error {
	b := append(MarshalSExpr(n), '\n')
	_, err := e.w.Write(b)
	return err
}

// sexprDecoder reads one tree per non-blank line.
type sexprDecoder struct {
	s *bufio.Scanner
}

func (d *sexprDecoder) Decode() (*domain.Node, error) {
	for d.s.Scan() {
		line := strings.TrimSpace(d.s.Text())
		if line == "" {
			continue
		}
		return UnmarshalSExpr([]byte(line))
	}
	if err := d.s.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}
