package compiler

import (
	"fmt"
	"strings"

	"github.com/aretw0/cnftree/pkg/ast"
	"github.com/aretw0/cnftree/pkg/domain"
)

// Parser is responsible for converting raw TPTP CNF text into an AST.
// It holds no state between calls and is safe for concurrent use.
type Parser struct{}

// NewParser creates a new parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// Parse reads a whole TPTP file. name is used in error positions only.
// Failures are returned as *domain.SyntaxError.
func (p *Parser) Parse(name string, data []byte) (*ast.Document, error) {
	s := &parseState{l: NewLexer(string(data)), name: name}
	s.nextToken()
	s.nextToken()

	doc := &ast.Document{Name: name}
	for !s.curTokenIs(EOF) {
		entry, err := s.parseEntry()
		if err != nil {
			return nil, err
		}
		doc.Entries = append(doc.Entries, entry)
	}
	return doc, nil
}

type parseState struct {
	l         *Lexer
	name      string
	curToken  Token
	peekToken Token
}

func (s *parseState) nextToken() {
	s.curToken = s.peekToken
	s.peekToken = s.l.NextToken()
}

func (s *parseState) curTokenIs(t TokenType) bool  { return s.curToken.Type == t }
func (s *parseState) peekTokenIs(t TokenType) bool { return s.peekToken.Type == t }

// expect checks the current token and advances past it.
func (s *parseState) expect(t TokenType) (Token, error) {
	tok := s.curToken
	if tok.Type != t {
		return tok, s.unexpected(t.String())
	}
	s.nextToken()
	return tok, nil
}

func (s *parseState) errorAt(tok Token, format string, args ...any) error {
	return &domain.SyntaxError{
		File:   s.name,
		Line:   tok.Line,
		Column: tok.Column,
		Msg:    fmt.Sprintf(format, args...),
	}
}

func (s *parseState) unexpected(want string) error {
	got := s.curToken.Literal
	switch {
	case s.curToken.Type == EOF:
		got = "end of input"
	case s.curToken.Type == ILLEGAL:
		return s.errorAt(s.curToken, "illegal token %q", got)
	}
	return s.errorAt(s.curToken, "expected %s, got '%s'", want, got)
}

func (s *parseState) parseEntry() (ast.Entry, error) {
	tok := s.curToken
	if tok.Type != LOWER_WORD {
		return nil, s.unexpected("cnf or include")
	}
	switch tok.Literal {
	case "include":
		return s.parseInclude()
	case "cnf":
		return s.parseClauseEntry()
	case "fof", "tff", "thf", "tcf", "tpi":
		return nil, s.errorAt(tok, "unsupported formula language %q, only cnf is accepted", tok.Literal)
	}
	return nil, s.unexpected("cnf or include")
}

// include('path' [, [name, ...]]).
func (s *parseState) parseInclude() (ast.Entry, error) {
	start := s.curToken
	s.nextToken()
	if _, err := s.expect(LPAREN); err != nil {
		return nil, err
	}
	pathTok, err := s.expect(SINGLE_QUOTED)
	if err != nil {
		return nil, err
	}
	entry := &ast.IncludeEntry{
		Pos:  ast.Pos{Line: start.Line, Column: start.Column},
		Path: unquote(pathTok.Literal),
	}
	if s.curTokenIs(COMMA) {
		s.nextToken()
		names, err := s.parseNameList()
		if err != nil {
			return nil, err
		}
		entry.Selection = names
	}
	if _, err := s.expect(RPAREN); err != nil {
		return nil, err
	}
	if _, err := s.expect(DOT); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *parseState) parseNameList() ([]string, error) {
	if _, err := s.expect(LBRACKET); err != nil {
		return nil, err
	}
	names := []string{}
	if s.curTokenIs(RBRACKET) {
		s.nextToken()
		return names, nil
	}
	for {
		name, err := s.parseName()
		if err != nil {
			return nil, err
		}
		names = append(names, name)
		if !s.curTokenIs(COMMA) {
			break
		}
		s.nextToken()
	}
	if _, err := s.expect(RBRACKET); err != nil {
		return nil, err
	}
	return names, nil
}

// parseName reads a formula name: atomic word or integer.
func (s *parseState) parseName() (string, error) {
	tok := s.curToken
	switch tok.Type {
	case LOWER_WORD, NUMBER:
		s.nextToken()
		return tok.Literal, nil
	case SINGLE_QUOTED:
		s.nextToken()
		return functorName(tok.Literal), nil
	}
	return "", s.unexpected("formula name")
}

// cnf(name, role, formula [, annotations]).
func (s *parseState) parseClauseEntry() (ast.Entry, error) {
	start := s.curToken
	s.nextToken()
	if _, err := s.expect(LPAREN); err != nil {
		return nil, err
	}
	name, err := s.parseName()
	if err != nil {
		return nil, err
	}
	if _, err := s.expect(COMMA); err != nil {
		return nil, err
	}
	role, err := s.expect(LOWER_WORD)
	if err != nil {
		return nil, err
	}
	if _, err := s.expect(COMMA); err != nil {
		return nil, err
	}
	clause, err := s.parseFormula()
	if err != nil {
		return nil, err
	}
	if s.curTokenIs(COMMA) {
		s.nextToken()
		if err := s.skipAnnotations(); err != nil {
			return nil, err
		}
	}
	if _, err := s.expect(RPAREN); err != nil {
		return nil, err
	}
	if _, err := s.expect(DOT); err != nil {
		return nil, err
	}
	return &ast.ClauseEntry{
		Pos:    ast.Pos{Line: start.Line, Column: start.Column},
		Name:   name,
		Role:   role.Literal,
		Clause: clause,
	}, nil
}

// skipAnnotations consumes general terms up to the ')' closing the entry.
func (s *parseState) skipAnnotations() error {
	depth := 0
	for {
		switch s.curToken.Type {
		case EOF, ILLEGAL:
			return s.unexpected("')'")
		case LPAREN, LBRACKET:
			depth++
		case RBRACKET:
			depth--
		case RPAREN:
			if depth == 0 {
				return nil
			}
			depth--
		}
		if depth < 0 {
			return s.errorAt(s.curToken, "unbalanced ']' in annotations")
		}
		s.nextToken()
	}
}

// formula ::= disjunction | '(' disjunction ')'
func (s *parseState) parseFormula() (*ast.Clause, error) {
	if s.curTokenIs(LPAREN) {
		s.nextToken()
		clause, err := s.parseDisjunction()
		if err != nil {
			return nil, err
		}
		if _, err := s.expect(RPAREN); err != nil {
			return nil, err
		}
		return clause, nil
	}
	return s.parseDisjunction()
}

func (s *parseState) parseDisjunction() (*ast.Clause, error) {
	clause := &ast.Clause{}
	for {
		lit, err := s.parseLiteral()
		if err != nil {
			return nil, err
		}
		clause.Literals = append(clause.Literals, lit)
		if !s.curTokenIs(VLINE) {
			return clause, nil
		}
		s.nextToken()
	}
}

func (s *parseState) parseLiteral() (ast.Literal, error) {
	negated := false
	if s.curTokenIs(TILDE) {
		negated = true
		s.nextToken()
	}
	pred, err := s.parseAtomic()
	if err != nil {
		return ast.Literal{}, err
	}
	return ast.Literal{Negated: negated, Predicate: pred}, nil
}

// parseAtomic reads a predicate: a defined atom, an application, or an
// (in)equality between two terms.
func (s *parseState) parseAtomic() (ast.Predicate, error) {
	tok := s.curToken
	if tok.Type == DOLLAR_WORD && !s.peekTokenIs(LPAREN) && !s.peekTokenIs(EQUALS) && !s.peekTokenIs(NOT_EQUALS) {
		s.nextToken()
		return &ast.Atom{Token: tok.Literal}, nil
	}

	left, err := s.parseTerm()
	if err != nil {
		return nil, err
	}
	if s.curTokenIs(EQUALS) || s.curTokenIs(NOT_EQUALS) {
		symbol := s.curToken.Literal
		s.nextToken()
		right, err := s.parseTerm()
		if err != nil {
			return nil, err
		}
		return &ast.Equality{Symbol: symbol, Left: left, Right: right}, nil
	}

	fn, ok := left.(*ast.Function)
	if !ok || tok.Type == NUMBER || tok.Type == DISTINCT_OBJECT {
		return nil, s.errorAt(tok, "term %s used as a literal, expected '=' or '!='", tok.Literal)
	}
	return &ast.Application{Name: fn.Name, Args: fn.Args}, nil
}

func (s *parseState) parseTerm() (ast.Term, error) {
	tok := s.curToken
	switch tok.Type {
	case UPPER_WORD:
		s.nextToken()
		return &ast.Variable{Name: tok.Literal}, nil
	case NUMBER, DISTINCT_OBJECT:
		s.nextToken()
		return &ast.Function{Name: tok.Literal}, nil
	case LOWER_WORD, SINGLE_QUOTED, DOLLAR_WORD:
		s.nextToken()
		fn := &ast.Function{Name: functorName(tok.Literal)}
		if !s.curTokenIs(LPAREN) {
			return fn, nil
		}
		s.nextToken()
		for {
			arg, err := s.parseTerm()
			if err != nil {
				return nil, err
			}
			fn.Args = append(fn.Args, arg)
			if !s.curTokenIs(COMMA) {
				break
			}
			s.nextToken()
		}
		if _, err := s.expect(RPAREN); err != nil {
			return nil, err
		}
		return fn, nil
	}
	return nil, s.unexpected("term")
}

// functorName normalizes a quoted atom: 'abc' and abc name the same symbol,
// while atoms that need quoting keep their quotes.
func functorName(lit string) string {
	if len(lit) < 2 || lit[0] != '\'' {
		return lit
	}
	inner := lit[1 : len(lit)-1]
	if isLowerWord(inner) {
		return inner
	}
	return lit
}

func isLowerWord(s string) bool {
	if s == "" || !isLower(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isAlnum(s[i]) {
			return false
		}
	}
	return true
}

// unquote strips the quotes of a single-quoted token and resolves \\ and \'.
func unquote(lit string) string {
	if len(lit) < 2 {
		return lit
	}
	inner := lit[1 : len(lit)-1]
	if !strings.Contains(inner, `\`) {
		return inner
	}
	var sb strings.Builder
	for i := 0; i < len(inner); i++ {
		if inner[i] == '\\' && i+1 < len(inner) {
			i++
		}
		sb.WriteByte(inner[i])
	}
	return sb.String()
}
