// Package lex is a small hand-rolled tokenizer shared by the pipeline
// grammar (internal/ast) and the embedded expression grammar
// (internal/expr). It follows the state-function technique the
// teacher's own predecessor lexer used (preserved in the retrieval
// pack's parse/lex_test.go: NewLexer(io.Reader).Run(), then repeated
// calls to Next() drain a Token channel) — a stateFn reads the input
// and returns the stateFn that should run next, until the input is
// exhausted or an error token is emitted.
package lex

import (
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Dialect fixes which multi-character operators and keywords a given
// grammar recognizes, so one lexer implementation serves both the
// pipeline grammar (->. =>, |, $, ;, {, }) and the expression grammar
// (==, !=, >=, <=, &&, ||, arithmetic operators).
type Dialect struct {
	// Operators maps operator text to its token type. The lexer tries
	// two-byte operators before single-byte Punct, so a longer operator
	// wins over its prefix.
	Operators map[string]TokenType
	// Punct maps single-byte punctuation to its token type.
	Punct map[byte]TokenType
	// Keywords maps a lowercase identifier to KeywordToken; anything
	// else lexes as IdentToken.
	Keywords map[string]bool
}

// PipelineDialect tokenizes the statement/flow/tool-ref grammar (§4.1).
var PipelineDialect = Dialect{
	Operators: map[string]TokenType{
		"->": ArrowToken,
		"=>": FatArrowToken,
	},
	Punct: map[byte]TokenType{
		'|': PipeToken,
		'{': LBraceToken,
		'}': RBraceToken,
		'(': LParenToken,
		')': RParenToken,
		',': CommaToken,
		'=': EqualsToken,
		'$': DollarToken,
		';': SemiToken,
	},
	Keywords: map[string]bool{"true": true, "false": true},
}

// ExprDialect tokenizes the per-row column expression grammar (§4.2).
var ExprDialect = Dialect{
	Operators: map[string]TokenType{
		"==": EqEqToken,
		"!=": NeqToken,
		">=": GeToken,
		"<=": LeToken,
		"&&": AndAndToken,
		"||": OrOrToken,
	},
	Punct: map[byte]TokenType{
		'(': LParenToken,
		')': RParenToken,
		',': CommaToken,
		'=': EqualsToken,
		'+': PlusToken,
		'-': MinusToken,
		'*': StarToken,
		'/': SlashToken,
		'%': PercentToken,
		'!': BangToken,
		'>': GtToken,
		'<': LtToken,
	},
	Keywords: map[string]bool{"true": true, "false": true},
}

type stateFn func(*Lexer) stateFn

// Lexer tokenizes one input under a fixed Dialect. Construct with New,
// drive to completion with Run, then drain tokens with Next.
type Lexer struct {
	input   string
	dialect Dialect
	start   int
	pos     int
	width   int
	tokens  []Token
	err     error
}

// New reads r fully (scripts and expressions are small) and returns a
// Lexer ready to Run under dialect.
func New(r io.Reader, dialect Dialect) (*Lexer, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return &Lexer{input: string(b), dialect: dialect}, nil
}

// FromString is a convenience constructor over an in-memory string.
func FromString(s string, dialect Dialect) *Lexer {
	return &Lexer{input: s, dialect: dialect}
}

// Run tokenizes the whole input, stopping at the first error. The
// resulting tokens (always terminated by an EOFToken or ErrorToken)
// are retrieved one at a time via Next.
func (l *Lexer) Run() error {
	for state := lexAny; state != nil; {
		state = state(l)
	}
	return l.err
}

// Next pops and returns the next token, or an EOFToken Token if all
// tokens have been consumed.
func (l *Lexer) Next() *Token {
	if len(l.tokens) == 0 {
		return &Token{Type: EOFToken}
	}
	tk := l.tokens[0]
	l.tokens = l.tokens[1:]
	return &tk
}

// Tokens returns every token produced by Run, in order (Run must have
// been called first). Parsers that need lookahead deeper than one
// token — as the pipeline grammar's arg_value production does — use
// this instead of draining one-at-a-time with Next.
func (l *Lexer) Tokens() []Token { return l.tokens }

func (l *Lexer) emit(t TokenType) {
	l.tokens = append(l.tokens, Token{Type: t, Value: l.input[l.start:l.pos], Pos: l.start})
	l.start = l.pos
}

func (l *Lexer) errorf(format string, args ...interface{}) stateFn {
	l.tokens = append(l.tokens, Token{Type: ErrorToken, Value: fmt.Sprintf(format, args...), Pos: l.start})
	l.err = fmt.Errorf(format, args...)
	return nil
}

func (l *Lexer) next() rune {
	if l.pos >= len(l.input) {
		l.width = 0
		return utf8.RuneError
	}
	r, w := utf8.DecodeRuneInString(l.input[l.pos:])
	l.width = w
	l.pos += w
	return r
}

func (l *Lexer) backup() { l.pos -= l.width }

func (l *Lexer) peek() rune {
	r := l.next()
	l.backup()
	return r
}

func lexAny(l *Lexer) stateFn {
	for {
		r := l.peek()
		switch {
		case r == utf8.RuneError && l.pos >= len(l.input):
			l.emit(EOFToken)
			return nil
		case unicode.IsSpace(r):
			l.next()
			l.start = l.pos
		case r == '"' || r == '\'':
			return lexQuote
		case unicode.IsDigit(r):
			return lexNumber
		case unicode.IsLetter(r) || r == '_':
			return lexIdentifier
		default:
			return lexOp
		}
	}
}

func lexNumber(l *Lexer) stateFn {
	isFloat := false
	for unicode.IsDigit(l.peek()) {
		l.next()
	}
	if l.peek() == '.' {
		isFloat = true
		l.next()
		if !unicode.IsDigit(l.peek()) {
			return l.errorf("malformed number %q", l.input[l.start:l.pos])
		}
		for unicode.IsDigit(l.peek()) {
			l.next()
		}
	}
	if r := l.peek(); unicode.IsLetter(r) {
		return l.errorf("malformed number %q", l.input[l.start:l.pos+1])
	}
	if isFloat {
		l.emit(FloatToken)
	} else {
		l.emit(IntToken)
	}
	return lexAny
}

func lexIdentifier(l *Lexer) stateFn {
	for {
		r := l.peek()
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			l.next()
			continue
		}
		break
	}
	word := l.input[l.start:l.pos]
	if l.dialect.Keywords[strings.ToLower(word)] {
		l.emit(KeywordToken)
	} else {
		l.emit(IdentToken)
	}
	return lexAny
}

func lexQuote(l *Lexer) stateFn {
	quote := l.next() // consume opening quote
	for {
		r := l.next()
		switch {
		case r == utf8.RuneError && l.width == 0:
			return l.errorf("unterminated string starting at %d", l.start)
		case r == '\\':
			l.next() // skip escaped rune verbatim
		case r == quote:
			l.emit(StringToken)
			return lexAny
		}
	}
}

func lexOp(l *Lexer) stateFn {
	// Try two-byte operators before falling back to single-byte punct.
	if l.pos+2 <= len(l.input) {
		two := l.input[l.pos : l.pos+2]
		if t, ok := l.dialect.Operators[two]; ok {
			l.pos += 2
			l.emit(t)
			return lexAny
		}
	}
	b := l.input[l.pos]
	if t, ok := l.dialect.Punct[b]; ok {
		l.pos++
		l.emit(t)
		return lexAny
	}
	return l.errorf("unexpected character %q", string(b))
}
