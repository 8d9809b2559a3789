// Package rt holds the small set of types shared between internal/tool
// and internal/exec that would otherwise force an import cycle: the
// Values tuple bag (spec.md §3) and the per-run Context a tool's Run
// method executes under.
package rt

import (
	"github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"

	"github.com/anvil-lang/anvil/engine"
	"github.com/anvil-lang/anvil/internal/symbol"
)

// Values maps Symbol port names to Tables. A tool consumes a Values
// with at most one entry per input port and emits one entry per
// produced port.
type Values map[symbol.Symbol]engine.Table

// NewValues builds a Values with a single entry on the default port.
func NewValues(t engine.Table) Values {
	return Values{symbol.Default: t}
}

// GetOne returns an arbitrary entry. Only meaningful for single-input
// tools, which by construction receive exactly one.
func (v Values) GetOne() (engine.Table, bool) {
	for _, t := range v {
		return t, true
	}
	return nil, false
}

// Context is the ambient per-run state a Tool.Run executes under: the
// engine.Context for cancellation/IO, a structured logger, and the
// current tracing span, mirroring the teacher's own
// logrus-plus-opentracing combination used across the analyzer and
// rowexec packages.
type Context struct {
	*engine.Context
	Log  *logrus.Entry
	Span opentracing.Span
}
