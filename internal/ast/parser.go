package ast

import (
	"io"
	"strconv"
	"strings"

	"github.com/anvil-lang/anvil/internal/errs"
	"github.com/anvil-lang/anvil/internal/lex"
	"github.com/anvil-lang/anvil/internal/symbol"
)

// Parse lexes and parses r into a Program, allocating a fresh,
// monotonically increasing ToolId (starting at 1) for every ToolRef
// encountered, deterministically in source order.
func Parse(r io.Reader) (*Program, error) {
	l, err := lex.New(r, lex.PipelineDialect)
	if err != nil {
		return nil, errs.ErrParse.Wrap(err, "reading script")
	}
	if err := l.Run(); err != nil {
		return nil, errs.ErrParse.New(err.Error())
	}
	p := &parser{tokens: l.Tokens(), nextID: 1}
	return p.parseProgram()
}

type parser struct {
	tokens []lex.Token
	pos    int
	nextID ToolId
}

func (p *parser) cur() lex.Token {
	if p.pos >= len(p.tokens) {
		return lex.Token{Type: lex.EOFToken}
	}
	return p.tokens[p.pos]
}

func (p *parser) peekAt(n int) lex.Token {
	i := p.pos + n
	if i >= len(p.tokens) {
		return lex.Token{Type: lex.EOFToken}
	}
	return p.tokens[i]
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

func (p *parser) allocID() ToolId {
	id := p.nextID
	p.nextID++
	return id
}

func (p *parser) parseProgram() (*Program, error) {
	prog := &Program{}
	for p.cur().Type != lex.EOFToken {
		if p.cur().Type == lex.SemiToken {
			p.advance()
			continue
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		prog.Statements = append(prog.Statements, stmt)
		if p.cur().Type == lex.SemiToken {
			p.advance()
		}
	}
	return prog, nil
}

func (p *parser) parseStatement() (*Statement, error) {
	flow, err := p.parseFlow()
	if err != nil {
		return nil, err
	}
	stmt := &Statement{Flow: flow}

	if p.cur().Type == lex.LBraceToken {
		branches, err := p.parseBranchBlock()
		if err != nil {
			return nil, err
		}
		stmt.Branches = branches
	}

	if p.cur().Type == lex.FatArrowToken {
		p.advance()
		name, err := p.parseVariableName()
		if err != nil {
			return nil, err
		}
		stmt.Output = &name
	}

	return stmt, nil
}

// parseFlow parses flow_item ( "|" flow_item )*.
func (p *parser) parseFlow() (*Flow, error) {
	flow := &Flow{}
	item, err := p.parseFlowItem()
	if err != nil {
		return nil, err
	}
	flow.Items = append(flow.Items, item)

	for p.cur().Type == lex.PipeToken {
		p.advance()
		item, err := p.parseFlowItem()
		if err != nil {
			return nil, err
		}
		flow.Items = append(flow.Items, item)
	}
	if len(flow.Items) == 0 {
		return nil, errs.ErrParse.New("empty flow")
	}
	return flow, nil
}

func (p *parser) parseFlowItem() (FlowItem, error) {
	if p.cur().Type == lex.DollarToken {
		name, err := p.parseVariableName()
		if err != nil {
			return nil, err
		}
		return VarItem{Name: name}, nil
	}
	ref, err := p.parseToolRef()
	if err != nil {
		return nil, err
	}
	return ToolItem{Tool: ref}, nil
}

func (p *parser) parseVariableName() (symbol.Symbol, error) {
	if _, err := p.expect(lex.DollarToken); err != nil {
		return 0, err
	}
	tok, err := p.expect(lex.IdentToken)
	if err != nil {
		return 0, err
	}
	return symbol.Intern(tok.Value), nil
}

func (p *parser) parseToolRef() (*ToolRef, error) {
	nameTok, err := p.expect(lex.IdentToken)
	if err != nil {
		return nil, err
	}
	ref := &ToolRef{ID: p.allocID(), Name: symbol.Intern(nameTok.Value)}

	if p.cur().Type != lex.LParenToken {
		return ref, nil
	}
	p.advance()
	if p.cur().Type != lex.RParenToken {
		for {
			arg, err := p.parseToolArg()
			if err != nil {
				return nil, err
			}
			ref.Args = append(ref.Args, arg)
			if p.cur().Type != lex.CommaToken {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(lex.RParenToken); err != nil {
		return nil, err
	}
	return ref, nil
}

// parseToolArg disambiguates IDENT "=" arg_value (keyword) from a bare
// positional arg_value by looking one token ahead: IDENT immediately
// followed by "=" is a keyword argument.
func (p *parser) parseToolArg() (ToolArg, error) {
	if p.cur().Type == lex.IdentToken && p.peekAt(1).Type == lex.EqualsToken {
		nameTok := p.advance()
		p.advance() // "="
		val, err := p.parseArgValue()
		if err != nil {
			return ToolArg{}, err
		}
		name := symbol.Intern(nameTok.Value)
		return ToolArg{Name: &name, Value: val}, nil
	}
	val, err := p.parseArgValue()
	if err != nil {
		return ToolArg{}, err
	}
	return ToolArg{Value: val}, nil
}

// parseArgValue implements arg_value = flow | literal | IDENT. A
// literal is unambiguous on its leading token (STRING/INT/BOOLEAN). A
// leading "$" always starts a flow (a variable is a flow_item). A
// leading IDENT is ambiguous with a bare identifier value: it only
// starts a flow if it is itself a tool_ref, i.e. followed by "(" or
// chained with "|".
func (p *parser) parseArgValue() (ArgValue, error) {
	switch p.cur().Type {
	case lex.StringToken:
		tok := p.advance()
		return StringValue(unquote(tok.Value)), nil
	case lex.IntToken:
		tok := p.advance()
		n, err := strconv.ParseInt(tok.Value, 10, 64)
		if err != nil {
			return nil, errs.ErrParse.New("malformed integer " + tok.Value)
		}
		return IntValue(n), nil
	case lex.KeywordToken:
		tok := p.advance()
		return BoolValue(strings.EqualFold(tok.Value, "true")), nil
	case lex.DollarToken:
		flow, err := p.parseFlow()
		if err != nil {
			return nil, err
		}
		return FlowValue{Flow: flow}, nil
	case lex.IdentToken:
		if p.peekAt(1).Type == lex.LParenToken || p.peekAt(1).Type == lex.PipeToken {
			flow, err := p.parseFlow()
			if err != nil {
				return nil, err
			}
			return FlowValue{Flow: flow}, nil
		}
		tok := p.advance()
		return IdentValue(tok.Value), nil
	default:
		return nil, errs.ErrParse.New("unexpected token " + p.cur().Type.String() + " in argument value")
	}
}

func (p *parser) parseBranchBlock() ([]*Branch, error) {
	if _, err := p.expect(lex.LBraceToken); err != nil {
		return nil, err
	}
	var branches []*Branch
	if p.cur().Type != lex.RBraceToken {
		for {
			b, err := p.parseBranch()
			if err != nil {
				return nil, err
			}
			branches = append(branches, b)
			if p.cur().Type != lex.CommaToken {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(lex.RBraceToken); err != nil {
		return nil, err
	}
	return branches, nil
}

func (p *parser) parseBranch() (*Branch, error) {
	// A branch port name lexes as IdentToken in general, but the
	// canonical filter ports "true"/"false" are reserved keywords
	// (lex.go's Keywords table) and so lex as KeywordToken instead.
	if p.cur().Type != lex.IdentToken && p.cur().Type != lex.KeywordToken {
		return nil, errs.ErrParse.New("expected " + lex.IdentToken.String() + ", found " + p.cur().Type.String())
	}
	nameTok := p.advance()
	if _, err := p.expect(lex.ArrowToken); err != nil {
		return nil, err
	}
	branch := &Branch{Port: symbol.Intern(nameTok.Value)}

	if p.cur().Type == lex.DollarToken {
		name, err := p.parseVariableName()
		if err != nil {
			return nil, err
		}
		branch.Target = VarTarget{Name: name}
		return branch, nil
	}

	flow, err := p.parseFlow()
	if err != nil {
		return nil, err
	}
	target := FlowTarget{Flow: flow}
	if p.cur().Type == lex.FatArrowToken {
		p.advance()
		name, err := p.parseVariableName()
		if err != nil {
			return nil, err
		}
		target.Output = &name
	}
	branch.Target = target
	return branch, nil
}

func unquote(raw string) string {
	if len(raw) >= 2 {
		return raw[1 : len(raw)-1]
	}
	return raw
}
