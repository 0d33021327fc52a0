package pipeline

import (
	"fmt"

	"github.com/funvibe/ornlift/internal/inspect"
	"github.com/funvibe/ornlift/internal/lift"
	"github.com/funvibe/ornlift/internal/plan"
)

// LoadStage reads and decodes the plan file.
func LoadStage() Processor {
	return ProcessorFunc(func(ctx *Context) *Context {
		p, err := plan.Load(ctx.PlanPath)
		if err != nil {
			ctx.Err = err
			return ctx
		}
		ctx.Plan = p
		return ctx
	})
}

// VersionStage enforces the plan's requires constraint.
func VersionStage() Processor {
	return ProcessorFunc(func(ctx *Context) *Context {
		ctx.Err = ctx.Plan.CheckVersion(ctx.ToolVersion)
		return ctx
	})
}

// BuildStage constructs the environment, the configuration and the term
// list from the decoded plan.
func BuildStage() Processor {
	return ProcessorFunc(func(ctx *Context) *Context {
		env, err := ctx.Plan.BuildEnv()
		if err != nil {
			ctx.Err = fmt.Errorf("building environment: %w", err)
			return ctx
		}
		cfg, err := ctx.Plan.BuildConfig()
		if err != nil {
			ctx.Err = fmt.Errorf("building configuration: %w", err)
			return ctx
		}
		terms, names, err := ctx.Plan.Terms()
		if err != nil {
			ctx.Err = err
			return ctx
		}
		ctx.Env, ctx.Config, ctx.Terms, ctx.Names = env, cfg, terms, names
		return ctx
	})
}

// LiftStage transports every term in the plan. Each term is one top-level
// lifting call with its own producer and local cache; the session cache is
// shared across them.
func LiftStage() Processor {
	return ProcessorFunc(func(ctx *Context) *Context {
		for i, t := range ctx.Terms {
			producer := lift.NewProducer(ctx.Config, ctx.Env, ctx.Global)
			_, lifted, err := producer.Lift(inspect.NewState(), t)
			if err != nil {
				ctx.Err = fmt.Errorf("lifting %s: %w", ctx.Names[i], err)
				return ctx
			}
			ctx.Lifted = append(ctx.Lifted, lifted)
		}
		return ctx
	})
}

// CheckOnly returns the stages of a validation-only run.
func CheckOnly() []Processor {
	return []Processor{LoadStage(), VersionStage(), BuildStage()}
}

// Full returns the stages of a complete run.
func Full() []Processor {
	return []Processor{LoadStage(), VersionStage(), BuildStage(), LiftStage()}
}
