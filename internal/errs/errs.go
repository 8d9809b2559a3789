// Package errs defines Anvil's error taxonomy: a closed set of kinds,
// not a closed set of Go types. Every fatal condition the compiler or
// executor can raise is constructed from one of the kinds below via
// New or Wrap, following the same pattern the teacher uses for its own
// SQL-layer errors (gopkg.in/src-d/go-errors.v1: errors.NewKind, then
// .New(args...) or .Wrap(cause)).
package errs

import "gopkg.in/src-d/go-errors.v1"

var (
	// ErrParse covers malformed scripts or expressions.
	ErrParse = errors.NewKind("parse error: %s")

	// ErrUnknownTool fires when a tool name is not in the catalog.
	ErrUnknownTool = errors.NewKind("unknown tool %q")

	// ErrArg covers missing required arguments, wrong types, duplicate
	// named arguments, and unexpected named arguments.
	ErrArg = errors.NewKind("argument error in %s: %s")

	// ErrUnknownFunction fires on an unresolvable call name in an
	// expression.
	ErrUnknownFunction = errors.NewKind("unknown function %q")

	// ErrUndefinedVariable fires when a variable is referenced before
	// it is bound.
	ErrUndefinedVariable = errors.NewKind("undefined variable %q")

	// ErrVariableRedefined fires on a second binding of the same
	// variable within one Program (open question 1, resolved: rebinding
	// is a hard error, not a silent overwrite).
	ErrVariableRedefined = errors.NewKind("variable %q is already bound")

	// ErrCycleDetected fires when the plan is not a DAG.
	ErrCycleDetected = errors.NewKind("cycle detected at node %v")

	// ErrPortMismatch fires when a multi-input tool is reached without
	// a required side port populated.
	ErrPortMismatch = errors.NewKind("tool %s: missing input on port %q")

	// ErrFile covers file-not-found on input/register and write
	// failures on output.
	ErrFile = errors.NewKind("file error: %s")

	// ErrEngine wraps any error raised by the table engine.
	ErrEngine = errors.NewKind("engine error: %s")

	// ErrUninitializedVariable fires when a Variable node is evaluated
	// with no producer having run.
	ErrUninitializedVariable = errors.NewKind("variable %q has no value")
)
