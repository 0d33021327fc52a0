package lift

import (
	"fmt"

	"github.com/funvibe/ornlift/internal/inspect"
	"github.com/funvibe/ornlift/internal/term"
)

// Producer drives the lifting traversal: it asks the selector what to do
// with each subterm, acts on the decision, and records results in the cache
// layer. One Producer serves one top-level Lift call; its local cache is
// discarded with it.
type Producer struct {
	sel   *Selector
	depth int
}

// liftDepthLimit bounds constant unfolding during traversal so a
// pathological environment cannot loop the producer.
const liftDepthLimit = 512

// NewProducer wires a producer to a configuration and a session-wide cache.
func NewProducer(cfg *Config, env *term.Env, global *GlobalCache) *Producer {
	return &Producer{sel: NewSelector(cfg, env, global, NewLocalCache())}
}

// Selector exposes the producer's selector, mainly to tests and the CLI.
func (p *Producer) Selector() *Selector { return p.sel }

// Lift transports t across the configured equivalence. The returned state
// carries any placeholder assignments made along the way.
func (p *Producer) Lift(st inspect.State, t term.Term) (inspect.State, term.Term, error) {
	if t == nil {
		return st, nil, fmt.Errorf("cannot lift nil term")
	}
	if p.depth >= liftDepthLimit {
		return st, nil, fmt.Errorf("lifting exceeded depth limit %d at %s", liftDepthLimit, t.Key())
	}
	p.depth++
	defer func() { p.depth-- }()

	st, decision := p.sel.Select(st, t)
	st, lifted, err := p.act(st, t, decision)
	if err != nil {
		return st, nil, err
	}
	p.record(t, lifted, decision)
	return st, lifted, nil
}

// record populates the caches. Every result enters the local cache; results
// for constants also enter the session cache, since their lifted form does
// not depend on the local scope.
func (p *Producer) record(t, lifted term.Term, decision Decision) {
	switch decision.(type) {
	case GlobalCacheHit, LocalCacheHit:
		return
	}
	p.sel.Local.Put(t, lifted)
	if _, isConst := t.(term.Const); isConst {
		p.sel.Global.Put(p.sel.GlobalKeyFor(t), lifted)
	}
}

func (p *Producer) act(st inspect.State, t term.Term, decision Decision) (inspect.State, term.Term, error) {
	cfg := p.sel.Config
	switch d := decision.(type) {
	case GlobalCacheHit:
		return st, d.Term, nil
	case LocalCacheHit:
		return st, d.Term, nil
	case OpaqueSkip:
		return st, t, nil

	case Equivalence:
		st, args, err := p.liftAll(st, d.Args)
		if err != nil {
			return st, nil, err
		}
		return st, term.MkApp(term.Ind{Name: cfg.To()}, args...), nil

	case ConstructorLift:
		return p.rebuildConstructor(st, d.Constructor, d.Args)
	case FastConstructorLift:
		return p.rebuildConstructor(st, d.Constructor, d.Args)

	case Pack:
		if cfg.Dir == Forward {
			return st, term.MkApp(cfg.PackConstructor, t), nil
		}
		_, args := term.Decompose(t)
		if len(args) == 0 {
			return st, nil, fmt.Errorf("unpacking a bare packing constructor: %s", t.Key())
		}
		return p.Lift(st, args[len(args)-1])

	case Coherence:
		target := d.Target
		if cfg.Dir == Backward {
			target = d.Source
		}
		st, args, err := p.liftAll(st, d.Args)
		if err != nil {
			return st, nil, err
		}
		return st, term.MkApp(target, args...), nil

	case EliminatorLift:
		return p.rebuildEliminator(st, d)

	case Section, Retraction:
		// Map composed with its inverse collapses: the inner argument is
		// already on the other side.
		_, args := term.Decompose(t)
		return st, args[len(args)-1], nil

	case Internalize:
		if len(d.Args) == 0 {
			return st, nil, fmt.Errorf("internalizing a bare equivalence map: %s", t.Key())
		}
		return p.Lift(st, d.Args[len(d.Args)-1])

	case ProjectionOfPackedValue:
		// The decomposed redex reduces in one step; lift the reduct.
		return p.Lift(st, p.sel.whd(t))

	case LazyEtaExpansion:
		if term.Equal(d.Expanded, t) {
			return p.generic(st, t)
		}
		return p.Lift(st, d.Expanded)

	case DelayedUnfoldApplication:
		return p.unfoldApplication(st, t, d)

	case DelayedUnfoldConstant:
		return p.unfoldConstant(st, t, d)

	case GenericTerm:
		return p.generic(st, d.Term)

	default:
		return st, nil, fmt.Errorf("unhandled decision %s", decision.Name())
	}
}

func (p *Producer) rebuildConstructor(st inspect.State, ctor term.Construct, args []term.Term) (inspect.State, term.Term, error) {
	st, lifted, err := p.liftAll(st, args)
	if err != nil {
		return st, nil, err
	}
	return st, term.MkApp(ctor, lifted...), nil
}

func (p *Producer) rebuildEliminator(st inspect.State, d EliminatorLift) (inspect.State, term.Term, error) {
	cfg := p.sel.Config
	st, params, err := p.liftAll(st, d.Params)
	if err != nil {
		return st, nil, err
	}
	st, motive, err := p.Lift(st, d.Elim.Motive)
	if err != nil {
		return st, nil, err
	}
	st, minors, err := p.liftAll(st, d.Elim.Minors)
	if err != nil {
		return st, nil, err
	}
	st, finals, err := p.liftAll(st, d.Elim.Finals)
	if err != nil {
		return st, nil, err
	}
	rebuilt := inspect.ElimApp{
		Elim:   cfg.LiftedEliminator,
		Ind:    cfg.To(),
		Params: params,
		Motive: motive,
		Minors: minors,
		Finals: finals,
	}
	return st, rebuilt.Recompose(cfg.LiftedEliminator), nil
}

// unfoldApplication lifts head and arguments structurally; when nothing
// changes and the head has a body, it unfolds once and retries, which is
// the delayed half of the rule.
func (p *Producer) unfoldApplication(st inspect.State, t term.Term, d DelayedUnfoldApplication) (inspect.State, term.Term, error) {
	st, head, err := p.Lift(st, d.Fn)
	if err != nil {
		return st, nil, err
	}
	st, args, err := p.liftAll(st, d.Args)
	if err != nil {
		return st, nil, err
	}
	rebuilt := term.MkApp(head, args...)
	if !term.Equal(rebuilt, t) {
		return st, rebuilt, nil
	}
	if c, ok := d.Fn.(term.Const); ok && !p.sel.Config.IsOpaque(c.Name) {
		if decl, found := p.sel.Env.LookupConst(c.Name); found && decl.Body != nil {
			st, unfolded, err := p.Lift(st, term.MkApp(decl.Body, d.Args...))
			if err != nil {
				return st, nil, err
			}
			if !term.Equal(unfolded, term.MkApp(decl.Body, d.Args...)) {
				return st, unfolded, nil
			}
		}
	}
	return st, rebuilt, nil
}

// unfoldConstant lifts a bare constant by lifting its body; a constant
// whose body lifts to itself stays a reference.
func (p *Producer) unfoldConstant(st inspect.State, t term.Term, d DelayedUnfoldConstant) (inspect.State, term.Term, error) {
	decl, ok := p.sel.Env.LookupConst(d.Constant)
	if !ok || decl.Body == nil {
		return st, t, nil
	}
	st, lifted, err := p.Lift(st, decl.Body)
	if err != nil {
		return st, nil, err
	}
	if term.Equal(lifted, decl.Body) {
		return st, t, nil
	}
	return st, lifted, nil
}

// generic rebuilds the raw shape with recursively lifted children,
// extending the selector's scope under binders.
func (p *Producer) generic(st inspect.State, t term.Term) (inspect.State, term.Term, error) {
	switch tt := t.(type) {
	case term.App:
		st, head, err := p.Lift(st, tt.Head)
		if err != nil {
			return st, nil, err
		}
		st, args, err := p.liftAll(st, tt.Args)
		if err != nil {
			return st, nil, err
		}
		return st, term.MkApp(head, args...), nil
	case term.Lambda:
		st, typ, body, err := p.liftUnderBinder(st, tt.Binder, tt.Type, tt.Body)
		if err != nil {
			return st, nil, err
		}
		return st, term.Lambda{Binder: tt.Binder, Type: typ, Body: body}, nil
	case term.Prod:
		st, typ, body, err := p.liftUnderBinder(st, tt.Binder, tt.Type, tt.Body)
		if err != nil {
			return st, nil, err
		}
		return st, term.Prod{Binder: tt.Binder, Type: typ, Body: body}, nil
	default:
		return st, t, nil
	}
}

func (p *Producer) liftUnderBinder(st inspect.State, name string, typ, body term.Term) (inspect.State, term.Term, term.Term, error) {
	st, liftedType, err := p.Lift(st, typ)
	if err != nil {
		return st, nil, nil, err
	}
	p.sel.Scope = append(p.sel.Scope, inspect.Binder{Name: name, Type: typ})
	st, liftedBody, err := p.Lift(st, body)
	p.sel.Scope = p.sel.Scope[:len(p.sel.Scope)-1]
	if err != nil {
		return st, nil, nil, err
	}
	return st, liftedType, liftedBody, nil
}

func (p *Producer) liftAll(st inspect.State, args []term.Term) (inspect.State, []term.Term, error) {
	lifted := make([]term.Term, len(args))
	for i, a := range args {
		var err error
		st, lifted[i], err = p.Lift(st, a)
		if err != nil {
			return st, nil, err
		}
	}
	return st, lifted, nil
}
