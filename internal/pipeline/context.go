package pipeline

import (
	"github.com/funvibe/ornlift/internal/lift"
	"github.com/funvibe/ornlift/internal/plan"
	"github.com/funvibe/ornlift/internal/term"
)

// Context carries one plan run through the stages: load, version gate,
// environment and configuration build, lifting.
type Context struct {
	// Inputs.
	PlanPath    string
	ToolVersion string
	Global      *lift.GlobalCache

	// Stage outputs.
	Plan   *plan.Plan
	Env    *term.Env
	Config *lift.Config
	Names  []string
	Terms  []term.Term
	Lifted []term.Term

	Err error
}

// Processor is one pipeline stage.
type Processor interface {
	Process(ctx *Context) *Context
}

// ProcessorFunc adapts a function to the Processor interface.
type ProcessorFunc func(ctx *Context) *Context

func (f ProcessorFunc) Process(ctx *Context) *Context { return f(ctx) }
