// Package ast defines the pipeline grammar's abstract syntax tree:
// Program, Statement, Flow, FlowItem, ToolRef, ToolArg, ArgValue, and
// Branch, exactly as spec.md §3 describes them.
package ast

import "github.com/anvil-lang/anvil/internal/symbol"

// ToolId uniquely identifies one ToolRef within one parse. Ids are
// allocated monotonically starting at 1 and never repeat within a
// single Parse call (see Property 1 in spec.md §8).
type ToolId int

// Program is an ordered sequence of Statements.
type Program struct {
	Statements []*Statement
}

// Statement is a flow, an optional branch block, and an optional
// output-binding variable.
type Statement struct {
	Flow     *Flow
	Branches []*Branch
	Output   *symbol.Symbol // nil if the statement does not bind a variable
}

// Flow is a non-empty, left-to-right chained sequence of FlowItems.
type Flow struct {
	Items []FlowItem
}

// FlowItem is either a Tool or a Variable reference.
type FlowItem interface{ flowItem() }

// ToolItem is a FlowItem referencing a tool call.
type ToolItem struct{ Tool *ToolRef }

func (ToolItem) flowItem() {}

// VarItem is a FlowItem referencing a bound variable.
type VarItem struct{ Name symbol.Symbol }

func (VarItem) flowItem() {}

// ToolRef names one tool invocation: a fresh id, the tool name, and
// its argument list.
type ToolRef struct {
	ID   ToolId
	Name symbol.Symbol
	Args []ToolArg
}

// ToolArg is one argument to a tool call: positional if Name is nil,
// keyword otherwise.
type ToolArg struct {
	Name  *symbol.Symbol
	Value ArgValue
}

// ArgValue is the sum {Boolean, Integer, String, Ident, Flow}.
type ArgValue interface{ argValue() }

type BoolValue bool

func (BoolValue) argValue() {}

type IntValue int64

func (IntValue) argValue() {}

type StringValue string

func (StringValue) argValue() {}

// IdentValue is a bare identifier used as an argument (e.g. a variable
// name promoted into a one-item flow by argbind, or a bare keyword
// like a format name).
type IdentValue string

func (IdentValue) argValue() {}

// FlowValue is an embedded sub-pipeline, used by join/intersect/union
// to feed a side port.
type FlowValue struct{ Flow *Flow }

func (FlowValue) argValue() {}

// Branch routes one named output port of a statement's terminal tool
// to either a bare variable or a continuation flow.
type Branch struct {
	Port   symbol.Symbol
	Target BranchTarget
}

// BranchTarget is {Variable(Symbol), Flow{flow, variable?}}.
type BranchTarget interface{ branchTarget() }

type VarTarget struct{ Name symbol.Symbol }

func (VarTarget) branchTarget() {}

type FlowTarget struct {
	Flow   *Flow
	Output *symbol.Symbol
}

func (FlowTarget) branchTarget() {}
