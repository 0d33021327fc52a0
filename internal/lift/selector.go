package lift

import (
	"github.com/funvibe/ornlift/internal/inspect"
	"github.com/funvibe/ornlift/internal/term"
)

// Selector classifies subterms for the producer. Scope tracks the binders
// the traversal has descended under; the producer maintains it.
type Selector struct {
	Config *Config
	Env    *term.Env
	Global *GlobalCache
	Local  *LocalCache
	Scope  []inspect.Binder
}

func NewSelector(cfg *Config, env *term.Env, global *GlobalCache, local *LocalCache) *Selector {
	return &Selector{Config: cfg, Env: env, Global: global, Local: local}
}

// GlobalKeyFor builds the session-cache key for t under this configuration.
func (s *Selector) GlobalKeyFor(t term.Term) GlobalKey {
	return GlobalKey{
		Dir:    s.Config.Dir,
		Source: s.Config.SourceFamily,
		Target: s.Config.TargetFamily,
		Term:   t.Key(),
	}
}

// Select classifies t into exactly one Decision. It is total over any
// syntactically valid term and deterministic in (term, configuration, cache
// state). Premise order is a contract: caches short-circuit recomputation,
// opacity overrides all structural analysis, and the trial-unification
// premise runs after every cheaper syntactic check.
func (s *Selector) Select(st inspect.State, t term.Term) (inspect.State, Decision) {
	// 1. Session-wide cache.
	if cached, ok := s.Global.Get(s.GlobalKeyFor(t)); ok {
		return st, GlobalCacheHit{Term: cached}
	}

	// 2. Call-local cache.
	if cached, ok := s.Local.Get(t); ok {
		return st, LocalCacheHit{Term: cached}
	}

	// 3. Opacity overrides structure.
	if c, ok := t.(term.Const); ok && s.Config.IsOpaque(c.Name) {
		return st, OpaqueSkip{Constant: c.Name}
	}

	// 4. The tracked family itself, applied.
	if args, ok := s.equivalencePremise(t); ok {
		return st, Equivalence{Args: args}
	}

	// 5. Constructor of the from-side family.
	if st2, d, ok := s.constructorPremise(st, t); ok {
		return st2, d
	}

	// 6. Packing boundary.
	if ok := s.packPremise(st, t); ok {
		return st, Pack{}
	}

	// 7. Projection coherence (trial unification; ordered late).
	if st2, d, ok := s.projectionPremise(st, t); ok {
		return st2, d
	}

	// 8. Promoted eliminator.
	if st2, d, ok := s.eliminatorPremise(st, t); ok {
		return st2, d
	}

	// 9. Shape fallback.
	return st, s.shapeFallback(st, t)
}

// equivalencePremise recognizes the from-side family applied to arguments:
// the occurrence of the type itself that the equivalence rewrites.
func (s *Selector) equivalencePremise(t term.Term) ([]term.Term, bool) {
	head, args := term.Decompose(s.whd(t))
	ind, ok := head.(term.Ind)
	if !ok || ind.Name != s.Config.From() {
		return nil, false
	}
	return args, true
}

func (s *Selector) shapeFallback(st inspect.State, t term.Term) Decision {
	head, args := term.Decompose(t)
	switch h := head.(type) {
	case term.Const:
		if len(args) == 0 {
			return DelayedUnfoldConstant{Constant: h.Name}
		}
		if h.Name == s.Config.BackwardMap {
			if s.Config.Dir == Forward {
				return Retraction{Args: args}
			}
			return Section{Args: args}
		}
		if h.Name == s.Config.ForwardMap {
			return Internalize{Args: args}
		}
		if s.Config.ProjOfPack != nil && s.Config.ProjOfPack(head, args) {
			packHead, packArgs := term.Decompose(s.whd(args[len(args)-1]))
			return ProjectionOfPackedValue{Projector: head, Fn: packHead, Args: packArgs}
		}
		return DelayedUnfoldApplication{Fn: head, Args: args}
	case term.Construct:
		// A constructor of the side not yet transformed: eta-expand and
		// re-dispatch once its arguments are in scope.
		if h.Ind == s.Config.OtherUnderlying() {
			return LazyEtaExpansion{Expanded: inspect.EtaExpand(s.Env, s.Scope, t)}
		}
		if len(args) > 0 {
			return DelayedUnfoldApplication{Fn: head, Args: args}
		}
		return GenericTerm{Term: t}
	default:
		if len(args) > 0 {
			return DelayedUnfoldApplication{Fn: head, Args: args}
		}
		return GenericTerm{Term: t}
	}
}

// whd reduces at the head without unfolding opaque constants.
func (s *Selector) whd(t term.Term) term.Term {
	return inspect.Whd(s.Env, t, func(name string) bool {
		return !s.Config.IsOpaque(name)
	})
}
