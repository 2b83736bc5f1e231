package compiler

import (
	"fmt"
	"strings"
)

// TokenType represents the kinds of TPTP tokens the CNF parser cares about.
type TokenType int

const (
	ILLEGAL TokenType = iota
	EOF

	LOWER_WORD      // cnf, p, f, axiom
	UPPER_WORD      // X, Y1
	DOLLAR_WORD     // $false, $$system
	SINGLE_QUOTED   // 'foo bar'
	DISTINCT_OBJECT // "Apple"
	NUMBER          // 12, -3.5, 1/2

	LPAREN     // (
	RPAREN     // )
	LBRACKET   // [
	RBRACKET   // ]
	COMMA      // ,
	DOT        // .
	VLINE      // |
	TILDE      // ~
	EQUALS     // =
	NOT_EQUALS // !=

	// OPERATOR covers every other connective or punctuation (&, =>, :, ...).
	// CNF formulas never contain them, but annotations may.
	OPERATOR
)

var tokenNames = map[TokenType]string{
	ILLEGAL:         "ILLEGAL",
	EOF:             "end of input",
	LOWER_WORD:      "lower word",
	UPPER_WORD:      "variable",
	DOLLAR_WORD:     "defined word",
	SINGLE_QUOTED:   "quoted atom",
	DISTINCT_OBJECT: "distinct object",
	NUMBER:          "number",
	LPAREN:          "'('",
	RPAREN:          "')'",
	LBRACKET:        "'['",
	RBRACKET:        "']'",
	COMMA:           "','",
	DOT:             "'.'",
	VLINE:           "'|'",
	TILDE:           "'~'",
	EQUALS:          "'='",
	NOT_EQUALS:      "'!='",
	OPERATOR:        "operator",
}

func (tt TokenType) String() string {
	if name, ok := tokenNames[tt]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

// Token is a single lexeme with its 1-based position.
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

func (t Token) String() string {
	return fmt.Sprintf("{Type: %s, Literal: %s, Line: %d, Column: %d}", t.Type, t.Literal, t.Line, t.Column)
}

// Lexer splits TPTP source text into tokens, skipping whitespace and comments.
type Lexer struct {
	input        string
	position     int  // index of ch
	readPosition int  // index after ch
	ch           byte // current char, 0 at end of input
	line         int
	column       int
}

// NewLexer creates a lexer over input.
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input, line: 1}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		// Step once past the last character so EOF reports the column after it.
		if l.position < len(l.input) {
			l.column++
		}
		l.ch = 0
		l.position = l.readPosition
		return
	}
	l.ch = l.input[l.readPosition]
	l.position = l.readPosition
	l.readPosition++
	if l.ch == '\n' {
		l.line++
		l.column = 0
	} else {
		l.column++
	}
}

func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) atEOF() bool {
	return l.position >= len(l.input)
}

// NextToken returns the next token. At the end of input it keeps returning EOF.
func (l *Lexer) NextToken() Token {
	if err := l.skipBlanks(); err != nil {
		return *err
	}

	tok := Token{Line: l.line, Column: l.column}
	if l.atEOF() {
		tok.Type = EOF
		return tok
	}

	switch ch := l.ch; {
	case isLower(ch):
		tok.Type, tok.Literal = LOWER_WORD, l.readWord()
		return tok
	case isUpper(ch):
		tok.Type, tok.Literal = UPPER_WORD, l.readWord()
		return tok
	case ch == '$':
		return l.readDollarWord(tok)
	case ch == '\'':
		return l.readQuoted(tok, '\'', SINGLE_QUOTED)
	case ch == '"':
		return l.readQuoted(tok, '"', DISTINCT_OBJECT)
	case isDigit(ch), (ch == '+' || ch == '-') && isDigit(l.peekChar()):
		tok.Type, tok.Literal = NUMBER, l.readNumber()
		return tok
	}

	tok.Literal = string(l.ch)
	switch l.ch {
	case '(':
		tok.Type = LPAREN
	case ')':
		tok.Type = RPAREN
	case '[':
		tok.Type = LBRACKET
	case ']':
		tok.Type = RBRACKET
	case ',':
		tok.Type = COMMA
	case '.':
		tok.Type = DOT
	case '|':
		tok.Type = VLINE
	case '~':
		if next := l.peekChar(); next == '|' || next == '&' {
			l.readChar()
			tok.Type, tok.Literal = OPERATOR, "~"+string(next)
		} else {
			tok.Type = TILDE
		}
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			tok.Type, tok.Literal = NOT_EQUALS, "!="
		} else {
			tok.Type = OPERATOR
		}
	case '=':
		if l.peekChar() == '>' {
			l.readChar()
			tok.Type, tok.Literal = OPERATOR, "=>"
		} else {
			tok.Type = EQUALS
		}
	case '<':
		tok.Type, tok.Literal = OPERATOR, l.readOperator()
		return tok
	case '&', ':', '?', '@', '*', '+', '-', '>', '^', '#', '/':
		tok.Type = OPERATOR
	default:
		tok.Type = ILLEGAL
	}
	l.readChar()
	return tok
}

// skipBlanks consumes whitespace and comments. It returns an ILLEGAL token for
// an unterminated block comment.
func (l *Lexer) skipBlanks() *Token {
	for !l.atEOF() {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' || l.ch == '\f':
			l.readChar()
		case l.ch == '%':
			for !l.atEOF() && l.ch != '\n' {
				l.readChar()
			}
		case l.ch == '/' && l.peekChar() == '*':
			start := Token{Type: ILLEGAL, Literal: "unterminated comment", Line: l.line, Column: l.column}
			l.readChar()
			l.readChar()
			for !(l.ch == '*' && l.peekChar() == '/') {
				if l.atEOF() {
					return &start
				}
				l.readChar()
			}
			l.readChar()
			l.readChar()
		default:
			return nil
		}
	}
	return nil
}

func (l *Lexer) readWord() string {
	start := l.position
	for !l.atEOF() && isAlnum(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

func (l *Lexer) readDollarWord(tok Token) Token {
	start := l.position
	l.readChar()
	if l.ch == '$' {
		l.readChar()
	}
	if !isLower(l.ch) {
		tok.Type, tok.Literal = ILLEGAL, l.input[start:l.position]
		return tok
	}
	l.readWord()
	tok.Type, tok.Literal = DOLLAR_WORD, l.input[start:l.position]
	return tok
}

// readQuoted reads a quoted token keeping the quotes and escapes verbatim.
func (l *Lexer) readQuoted(tok Token, quote byte, tt TokenType) Token {
	start := l.position
	l.readChar()
	for {
		if l.atEOF() || l.ch == '\n' {
			tok.Type, tok.Literal = ILLEGAL, l.input[start:l.position]
			return tok
		}
		if l.ch == '\\' {
			l.readChar()
			if l.atEOF() {
				continue
			}
			l.readChar()
			continue
		}
		if l.ch == quote {
			l.readChar()
			break
		}
		l.readChar()
	}
	tok.Type, tok.Literal = tt, l.input[start:l.position]
	if tok.Literal == string([]byte{quote, quote}) {
		tok.Type = ILLEGAL
	}
	return tok
}

func (l *Lexer) readNumber() string {
	start := l.position
	if l.ch == '+' || l.ch == '-' {
		l.readChar()
	}
	l.readDigits()
	switch {
	case l.ch == '.' && isDigit(l.peekChar()):
		l.readChar()
		l.readDigits()
	case l.ch == '/' && isDigit(l.peekChar()):
		l.readChar()
		l.readDigits()
		return l.input[start:l.position]
	}
	if l.ch == 'e' || l.ch == 'E' {
		next := l.peekChar()
		if isDigit(next) || next == '+' || next == '-' {
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			l.readDigits()
		}
	}
	return l.input[start:l.position]
}

func (l *Lexer) readDigits() {
	for !l.atEOF() && isDigit(l.ch) {
		l.readChar()
	}
}

// readOperator reads <=>, <=, <~> or a lone <.
func (l *Lexer) readOperator() string {
	for _, op := range []string{"<=>", "<~>", "<="} {
		if strings.HasPrefix(l.input[l.position:], op) {
			for range op {
				l.readChar()
			}
			return op
		}
	}
	l.readChar()
	return "<"
}

func isLower(ch byte) bool { return 'a' <= ch && ch <= 'z' }
func isUpper(ch byte) bool { return 'A' <= ch && ch <= 'Z' }
func isDigit(ch byte) bool { return '0' <= ch && ch <= '9' }
func isAlnum(ch byte) bool { return isLower(ch) || isUpper(ch) || isDigit(ch) || ch == '_' }
