package lex_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anvil-lang/anvil/internal/lex"
)

func TestPipelineDialectTokens(t *testing.T) {
	src := `input("a.csv") | select(cols) => $out`
	l, err := lex.New(strings.NewReader(src), lex.PipelineDialect)
	require.NoError(t, err)
	require.NoError(t, l.Run())

	var types []lex.TokenType
	for _, tok := range l.Tokens() {
		types = append(types, tok.Type)
	}
	assert.Equal(t, []lex.TokenType{
		lex.IdentToken, lex.LParenToken, lex.StringToken, lex.RParenToken,
		lex.PipeToken, lex.IdentToken, lex.LParenToken, lex.IdentToken, lex.RParenToken,
		lex.FatArrowToken, lex.DollarToken, lex.IdentToken, lex.EOFToken,
	}, types)
}

func TestExprDialectOperators(t *testing.T) {
	cases := []struct {
		input    string
		expected lex.TokenType
	}{
		{"==", lex.EqEqToken},
		{"!=", lex.NeqToken},
		{">=", lex.GeToken},
		{"<=", lex.LeToken},
		{"&&", lex.AndAndToken},
		{"||", lex.OrOrToken},
		{">", lex.GtToken},
		{"<", lex.LtToken},
		{"!", lex.BangToken},
	}
	for _, c := range cases {
		l := lex.FromString(c.input, lex.ExprDialect)
		require.NoError(t, l.Run())
		tok := l.Next()
		assert.Equal(t, c.expected, tok.Type, "input %q", c.input)
	}
}

func TestLexNumbers(t *testing.T) {
	l := lex.FromString("12 12.5", lex.ExprDialect)
	require.NoError(t, l.Run())
	assert.Equal(t, lex.IntToken, l.Next().Type)
	assert.Equal(t, lex.FloatToken, l.Next().Type)
}

func TestLexMalformedNumberErrors(t *testing.T) {
	l := lex.FromString("12.5.6", lex.ExprDialect)
	assert.Error(t, l.Run())
}

func TestLexKeywordVsIdent(t *testing.T) {
	l := lex.FromString("true foo", lex.PipelineDialect)
	require.NoError(t, l.Run())
	assert.Equal(t, lex.KeywordToken, l.Next().Type)
	assert.Equal(t, lex.IdentToken, l.Next().Type)
}

func TestLexQuotedString(t *testing.T) {
	l := lex.FromString(`"a\"b" 'c'`, lex.PipelineDialect)
	require.NoError(t, l.Run())
	tok := l.Next()
	assert.Equal(t, lex.StringToken, tok.Type)
	assert.Equal(t, `"a\"b"`, tok.Value)
	tok = l.Next()
	assert.Equal(t, lex.StringToken, tok.Type)
	assert.Equal(t, `'c'`, tok.Value)
}

func TestLexUnterminatedStringErrors(t *testing.T) {
	l := lex.FromString(`"unterminated`, lex.PipelineDialect)
	assert.Error(t, l.Run())
}

func TestLexUnexpectedCharacterErrors(t *testing.T) {
	l := lex.FromString("@", lex.PipelineDialect)
	assert.Error(t, l.Run())
}
