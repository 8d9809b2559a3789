package expr

import (
	"strconv"
	"strings"

	"github.com/anvil-lang/anvil/internal/errs"
	"github.com/anvil-lang/anvil/internal/lex"
)

// Parse lexes and parses a single expression from text (e.g. the
// string argument to filter("age > 1")), applying the precedence
// chain from spec.md §4.2: assignment ≺ or ≺ and ≺ comparison ≺
// additive ≺ multiplicative ≺ unary ≺ primary.
func Parse(text string) (Node, error) {
	l := lex.FromString(text, lex.ExprDialect)
	if err := l.Run(); err != nil {
		return nil, errs.ErrParse.New(err.Error())
	}
	p := &parser{tokens: l.Tokens()}
	n, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}
	if p.cur().Type != lex.EOFToken {
		return nil, errs.ErrParse.New("unexpected trailing token " + p.cur().Type.String())
	}
	return n, nil
}

type parser struct {
	tokens []lex.Token
	pos    int
}

func (p *parser) cur() lex.Token {
	if p.pos >= len(p.tokens) {
		return lex.Token{Type: lex.EOFToken}
	}
	return p.tokens[p.pos]
}

func (p *parser) advance() lex.Token {
	t := p.cur()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return t
}

func (p *parser) expect(t lex.TokenType) (lex.Token, error) {
	if p.cur().Type != t {
		return lex.Token{}, errs.ErrParse.New("expected " + t.String() + ", found " + p.cur().Type.String())
	}
	return p.advance(), nil
}

// parseAssignment is right-associative and only legal with a Column
// target: "col = expr". Anything else falls through to parseOr.
func (p *parser) parseAssignment() (Node, error) {
	left, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.cur().Type == lex.EqualsToken {
		col, ok := left.(*Column)
		if !ok {
			return nil, errs.ErrParse.New("assignment target must be a column")
		}
		p.advance()
		value, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		return NewAssign(col, value), nil
	}
	return left, nil
}

func (p *parser) parseOr() (Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.cur().Type == lex.OrOrToken {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = NewBinary(Or, left, right)
	}
	return left, nil
}

func (p *parser) parseAnd() (Node, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.cur().Type == lex.AndAndToken {
		p.advance()
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = NewBinary(And, left, right)
	}
	return left, nil
}

var comparisonOps = map[lex.TokenType]BinaryOp{
	lex.EqEqToken: Eq,
	lex.NeqToken:  Neq,
	lex.GtToken:   Gt,
	lex.LtToken:   Lt,
	lex.GeToken:   Ge,
	lex.LeToken:   Le,
}

func (p *parser) parseComparison() (Node, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := comparisonOps[p.cur().Type]
		if !ok {
			return left, nil
		}
		p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = NewBinary(op, left, right)
	}
}

func (p *parser) parseAdditive() (Node, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		var op BinaryOp
		switch p.cur().Type {
		case lex.PlusToken:
			op = Add
		case lex.MinusToken:
			op = Sub
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = NewBinary(op, left, right)
	}
}

func (p *parser) parseMultiplicative() (Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		var op BinaryOp
		switch p.cur().Type {
		case lex.StarToken:
			op = Mul
		case lex.SlashToken:
			op = Div
		case lex.PercentToken:
			op = Mod
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = NewBinary(op, left, right)
	}
}

func (p *parser) parseUnary() (Node, error) {
	switch p.cur().Type {
	case lex.MinusToken:
		p.advance()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return NewUnary(Neg, x), nil
	case lex.BangToken:
		p.advance()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return NewUnary(Not, x), nil
	default:
		return p.parsePrimary()
	}
}

func (p *parser) parsePrimary() (Node, error) {
	tok := p.cur()
	switch tok.Type {
	case lex.LParenToken:
		p.advance()
		n, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lex.RParenToken); err != nil {
			return nil, err
		}
		return n, nil
	case lex.IntToken:
		p.advance()
		n, err := strconv.ParseInt(tok.Value, 10, 64)
		if err != nil {
			return nil, errs.ErrParse.New("malformed integer " + tok.Value)
		}
		return NewIntLiteral(n), nil
	case lex.FloatToken:
		p.advance()
		f, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			return nil, errs.ErrParse.New("malformed float " + tok.Value)
		}
		return NewFloatLiteral(f), nil
	case lex.KeywordToken:
		p.advance()
		return NewBoolLiteral(strings.EqualFold(tok.Value, "true")), nil
	case lex.IdentToken:
		p.advance()
		if p.cur().Type == lex.LParenToken {
			return p.parseCallArgs(tok.Value)
		}
		return NewColumn(tok.Value), nil
	default:
		return nil, errs.ErrParse.New("unexpected token " + tok.Type.String() + " in expression")
	}
}

func (p *parser) parseCallArgs(name string) (Node, error) {
	if _, err := p.expect(lex.LParenToken); err != nil {
		return nil, err
	}
	var args []Node
	if p.cur().Type != lex.RParenToken {
		for {
			arg, err := p.parseAssignment()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.cur().Type != lex.CommaToken {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(lex.RParenToken); err != nil {
		return nil, err
	}
	return NewCall(name, args), nil
}
