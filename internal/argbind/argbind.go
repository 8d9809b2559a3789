// Package argbind validates a tool's positional and named arguments
// against a per-tool schema and produces strongly-typed values
// (spec.md §4.4). Type coercion uses github.com/spf13/cast, the same
// library the teacher's own dependency surface carries for loosely
// typed value conversion.
package argbind

import (
	"github.com/spf13/cast"

	"github.com/anvil-lang/anvil/internal/ast"
	"github.com/anvil-lang/anvil/internal/errs"
	"github.com/anvil-lang/anvil/internal/symbol"
)

// Binder partitions one ToolRef's arguments into positional and
// keyword, validating as it goes (Property 7, spec.md §8).
type Binder struct {
	toolName   string
	positional []ast.ArgValue
	posIdx     int
	keyword    map[symbol.Symbol]ast.ArgValue
}

// New builds a Binder for toolName's args, rejecting duplicate named
// arguments and any named argument outside allowed immediately
// (Property 7a, 7b).
func New(toolName string, args []ast.ToolArg, allowed []string) (*Binder, error) {
	allowSet := make(map[string]bool, len(allowed))
	for _, a := range allowed {
		allowSet[a] = true
	}

	b := &Binder{toolName: toolName, keyword: make(map[symbol.Symbol]ast.ArgValue)}
	for _, a := range args {
		if a.Name == nil {
			b.positional = append(b.positional, a.Value)
			continue
		}
		name := a.Name.String()
		if !allowSet[name] {
			return nil, errs.ErrArg.New(toolName, "unexpected named argument "+name)
		}
		if _, dup := b.keyword[*a.Name]; dup {
			return nil, errs.ErrArg.New(toolName, "duplicate named argument "+name)
		}
		b.keyword[*a.Name] = a.Value
	}
	return b, nil
}

func (b *Binder) nextPositional() (ast.ArgValue, bool) {
	if b.posIdx >= len(b.positional) {
		return nil, false
	}
	v := b.positional[b.posIdx]
	b.posIdx++
	return v, true
}

func (b *Binder) err(msg string) error { return errs.ErrArg.New(b.toolName, msg) }

// RequiredPositionalString consumes the next positional argument as a
// string.
func (b *Binder) RequiredPositionalString() (string, error) {
	v, ok := b.nextPositional()
	if !ok {
		return "", b.err("missing required positional argument")
	}
	return asString(v)
}

// RequiredPositionalInteger consumes the next positional argument as
// an integer.
func (b *Binder) RequiredPositionalInteger() (int64, error) {
	v, ok := b.nextPositional()
	if !ok {
		return 0, b.err("missing required positional argument")
	}
	return asInt(v)
}

// RequiredPositionalFlow consumes the next positional argument as a
// Flow. A bare identifier or string is promoted into a one-item
// variable flow, per spec.md §4.4.
func (b *Binder) RequiredPositionalFlow() (*ast.Flow, error) {
	v, ok := b.nextPositional()
	if !ok {
		return nil, b.err("missing required positional flow argument")
	}
	switch val := v.(type) {
	case ast.FlowValue:
		return val.Flow, nil
	case ast.IdentValue:
		return promoteToFlow(string(val)), nil
	case ast.StringValue:
		return promoteToFlow(string(val)), nil
	default:
		return nil, b.err("expected a flow, identifier, or string argument")
	}
}

func promoteToFlow(name string) *ast.Flow {
	return &ast.Flow{Items: []ast.FlowItem{ast.VarItem{Name: symbol.Intern(name)}}}
}

// OptionalPositionalString consumes the next positional argument as a
// string if present, otherwise returns def.
func (b *Binder) OptionalPositionalString(def string) (string, error) {
	v, ok := b.nextPositional()
	if !ok {
		return def, nil
	}
	return asString(v)
}

// OptionalPositionalInteger consumes the next positional argument as
// an integer if present, otherwise returns def.
func (b *Binder) OptionalPositionalInteger(def int64) (int64, error) {
	v, ok := b.nextPositional()
	if !ok {
		return def, nil
	}
	return asInt(v)
}

// HasKeyword reports whether a keyword argument was supplied.
func (b *Binder) HasKeyword(key string) bool {
	_, ok := b.keyword[symbol.Intern(key)]
	return ok
}

// OptionalString returns the named argument as a string, or def if
// absent.
func (b *Binder) OptionalString(key, def string) (string, error) {
	v, ok := b.keyword[symbol.Intern(key)]
	if !ok {
		return def, nil
	}
	return asString(v)
}

// RequiredString returns the named argument as a string, failing if
// absent.
func (b *Binder) RequiredString(key string) (string, error) {
	v, ok := b.keyword[symbol.Intern(key)]
	if !ok {
		return "", b.err("missing required argument " + key)
	}
	return asString(v)
}

// OptionalInteger returns the named argument as an integer, or def if
// absent.
func (b *Binder) OptionalInteger(key string, def int64) (int64, error) {
	v, ok := b.keyword[symbol.Intern(key)]
	if !ok {
		return def, nil
	}
	return asInt(v)
}

// OptionalBool returns the named argument as a bool, or def if absent.
// Booleans are frequently spelled as the textual idents "true"/"false"
// inside comma-separated column specs (e.g. sort's col:asc:nulls_first)
// rather than as grammar-level BOOLEAN tokens, so this also accepts a
// string/ident "true"/"false" via cast.ToBoolE.
func (b *Binder) OptionalBool(key string, def bool) (bool, error) {
	v, ok := b.keyword[symbol.Intern(key)]
	if !ok {
		return def, nil
	}
	switch val := v.(type) {
	case ast.BoolValue:
		return bool(val), nil
	default:
		s, err := asString(v)
		if err != nil {
			return false, err
		}
		r, err := cast.ToBoolE(s)
		if err != nil {
			return false, b.err("expected a boolean: " + err.Error())
		}
		return r, nil
	}
}

// KeywordKeys returns the keyword arguments' names, for tools (like
// project and sql) whose keyword set is not fixed but is itself the
// payload (key=expr, key=expr, ...).
func (b *Binder) KeywordKeys() []symbol.Symbol {
	keys := make([]symbol.Symbol, 0, len(b.keyword))
	for k := range b.keyword {
		keys = append(keys, k)
	}
	return keys
}

// Keyword returns the raw ArgValue bound to a keyword argument.
func (b *Binder) Keyword(sym symbol.Symbol) ast.ArgValue { return b.keyword[sym] }

func asString(v ast.ArgValue) (string, error) {
	switch val := v.(type) {
	case ast.StringValue:
		return string(val), nil
	case ast.IdentValue:
		return string(val), nil
	case ast.IntValue:
		return cast.ToStringE(int64(val))
	case ast.BoolValue:
		return cast.ToStringE(bool(val))
	default:
		return "", errs.ErrArg.New("argbind", "expected a string-like argument")
	}
}

func asInt(v ast.ArgValue) (int64, error) {
	switch val := v.(type) {
	case ast.IntValue:
		return int64(val), nil
	case ast.StringValue:
		return cast.ToInt64E(string(val))
	case ast.IdentValue:
		return cast.ToInt64E(string(val))
	default:
		return 0, errs.ErrArg.New("argbind", "expected an integer argument")
	}
}
