package lift

import (
	"github.com/funvibe/ornlift/internal/inspect"
	"github.com/funvibe/ornlift/internal/term"
)

// The premises below return (…, false) on a miss and never raise: a
// type-membership or unification attempt that blows up internally is caught
// at the attempt and downgraded to a miss.

// member reports whether t's type is the named family applied to arguments,
// returning those arguments. Typing failures are misses.
func (s *Selector) member(t term.Term, family string) (args []term.Term, ok bool) {
	defer func() {
		if recover() != nil {
			args, ok = nil, false
		}
	}()
	typ, err := inspect.TypeInfer(s.Env, s.Scope, t)
	if err != nil {
		return nil, false
	}
	head, typArgs := term.Decompose(s.whd(typ))
	ind, isInd := head.(term.Ind)
	if !isInd || ind.Name != family {
		return nil, false
	}
	return typArgs, true
}

// constructorPremise recognizes a value of the from-side family built by
// constructor i, possibly behind one layer of packing, and extracts i plus
// the constructor's argument list.
func (s *Selector) constructorPremise(st inspect.State, t term.Term) (inspect.State, Decision, bool) {
	var index int
	var args []term.Term
	var ok bool
	switch s.Config.Flavor {
	case CurryRecord:
		index, args, ok = s.recordConstructor(t)
	default:
		index, args, ok = s.algebraicConstructor(t)
	}
	if !ok {
		return st, nil, false
	}
	lifted, err := s.Config.LiftedConstructor(index)
	if err != nil {
		return st, nil, false
	}
	// Backward with real arguments takes the precomputed fast path.
	if s.Config.Dir == Backward && len(args) > 0 {
		return st, FastConstructorLift{Index: index, Constructor: lifted, Args: args}, true
	}
	return st, ConstructorLift{Index: index, Constructor: lifted, Args: args}, true
}

func (s *Selector) algebraicConstructor(t term.Term) (int, []term.Term, bool) {
	head, args := term.Decompose(t)
	if ctor, ok := head.(term.Construct); ok {
		if i, ok := s.Config.ConstructorIndex(ctor); ok {
			if len(args) != s.Config.Constructors[i].Arity {
				return 0, nil, false
			}
			return i, args, true
		}
	}
	// Forward only: the packed representation is an application in
	// general. Unwrap one packing layer, then match the payload's head
	// against the zoomed reference copy of each constructor.
	if s.Config.Dir != Forward {
		return 0, nil, false
	}
	ctor, ok := head.(term.Construct)
	if !ok || ctor != s.Config.PackConstructor {
		return 0, nil, false
	}
	if len(args) == 0 {
		return 0, nil, false
	}
	payload := s.whd(args[len(args)-1])
	pHead, pArgs := term.Decompose(payload)
	for i, pair := range s.Config.Constructors {
		if pair.SourceRef == nil {
			continue
		}
		_, refBody := inspect.Zoom(pair.SourceRef)
		refHead, _ := term.Decompose(refBody)
		if term.Equal(refHead, pHead) && len(pArgs) == pair.Arity {
			return i, pArgs, true
		}
	}
	return 0, nil, false
}

// recordConstructor handles the curry-record flavor: membership in the
// from-side family, then trailing projections computed by repeated pair
// projection until the constructor's arity is filled.
func (s *Selector) recordConstructor(t term.Term) (int, []term.Term, bool) {
	if len(s.Config.Constructors) == 0 {
		return 0, nil, false
	}
	if _, ok := s.member(t, s.Config.From()); !ok {
		return 0, nil, false
	}
	arity := s.Config.Constructors[0].Arity
	if arity == 0 {
		return 0, nil, true
	}
	args := make([]term.Term, 0, arity)
	rest := t
	for i := 0; i < arity-1; i++ {
		args = append(args, term.MkApp(term.Const{Name: s.Config.PairFst}, rest))
		rest = term.MkApp(term.Const{Name: s.Config.PairSnd}, rest)
	}
	args = append(args, rest)
	return 0, args, true
}

// packPremise recognizes the packing boundary: forward, a local variable of
// exactly the from-side type; backward algebraic, a term already in packed
// form. The curry-record flavor never packs here.
func (s *Selector) packPremise(st inspect.State, t term.Term) bool {
	if s.Config.Flavor == CurryRecord && s.Config.Dir == Backward {
		return false
	}
	if s.Config.Dir == Forward {
		if _, isVar := t.(term.Var); !isVar {
			return false
		}
		_, ok := s.member(t, s.Config.From())
		return ok
	}
	head, _ := term.Decompose(t)
	ctor, isCtor := head.(term.Construct)
	if !isCtor || ctor != s.Config.PackConstructor {
		return false
	}
	_, ok := s.member(t, s.Config.From())
	return ok
}

// projectionPremise tries each projection pair: a cheap convertibility
// filter on the zoomed candidate's head, then trial unification of the
// candidate applied to fresh placeholders against the eta-expanded body.
// Unification failures advance to the next candidate.
func (s *Selector) projectionPremise(st inspect.State, t term.Term) (inspect.State, Decision, bool) {
	tHead, _ := term.Decompose(t)
	for _, pair := range s.Config.Projections {
		candidate := s.Config.FromProjection(pair)
		candScope, candBody := inspect.Zoom(candidate)
		candHead, _ := term.Decompose(candBody)
		st2, convertible := inspect.Convertible(s.Env, st, candHead, tHead)
		if !convertible {
			continue
		}
		candArity := len(candScope)
		if candArity == 0 {
			if a, err := inspect.Arity(s.Env, nil, candidate); err == nil {
				candArity = a
			}
		}
		expanded := inspect.EtaExpand(s.Env, s.Scope, t)
		exScope, exBody := inspect.Zoom(expanded)
		if len(exScope) > 0 {
			// Detection needs more arguments than are applied; defer.
			return st2, LazyEtaExpansion{Expanded: expanded}, true
		}
		st3, placeholders := st2.Fresh(candArity)
		trial := term.MkApp(candidate, placeholders...)
		st4, outcome := inspect.Unify(s.Env, st3, trial, exBody)
		if outcome != inspect.UnifyHit {
			continue
		}
		args := make([]term.Term, len(placeholders))
		for i, ph := range placeholders {
			args[i] = st4.Resolve(ph)
		}
		return st4, Coherence{Source: pair.Source, Target: pair.Target, Args: args}, true
	}
	return st, nil, false
}

// eliminatorPremise recognizes an application of the promoted eliminator
// and deconstructs it. It defers when the motive mentions variables the
// ambient scope does not bind yet.
func (s *Selector) eliminatorPremise(st inspect.State, t term.Term) (inspect.State, Decision, bool) {
	head, _ := term.Decompose(t)
	c, ok := head.(term.Const)
	if !ok || c.Name != s.Config.Eliminator {
		return st, nil, false
	}
	ea, ok := inspect.DeconstructElim(s.Env, t)
	if !ok {
		// Under-applied: defer until the traversal has the remaining
		// arguments in scope.
		expanded := inspect.EtaExpand(s.Env, s.Scope, t)
		if !term.Equal(expanded, t) {
			return st, LazyEtaExpansion{Expanded: expanded}, true
		}
		return st, nil, false
	}
	if s.motiveEscapes(ea.Motive) {
		return st, LazyEtaExpansion{Expanded: inspect.EtaExpand(s.Env, s.Scope, t)}, true
	}
	params, ok := s.eliminatorParams(ea)
	if !ok {
		return st, nil, false
	}
	return st, EliminatorLift{Elim: ea, Params: params}, true
}

// motiveEscapes reports whether the motive mentions a variable the ambient
// scope does not bind; its bindings are not available yet, so the selection
// must defer.
func (s *Selector) motiveEscapes(motive term.Term) bool {
	if motive == nil {
		return false
	}
	free := term.FreeVars(motive)
	for name := range free {
		bound := false
		for _, b := range s.Scope {
			if b.Name == name {
				bound = true
				break
			}
		}
		if !bound {
			return true
		}
	}
	return false
}

// eliminatorParams restricts or recomputes the parameter list per flavor.
func (s *Selector) eliminatorParams(ea inspect.ElimApp) ([]term.Term, bool) {
	if s.Config.Flavor != CurryRecord {
		return ea.Params, true
	}
	if s.Config.Dir == Backward && len(ea.Finals) > 0 {
		// The record/product equivalence moves the subject argument; the
		// first final argument must already be of the from-side type.
		if _, ok := s.member(ea.Finals[0], s.Config.From()); !ok {
			return nil, false
		}
		return ea.Params, true
	}
	if params, ok := s.productComponents(ea.Params); ok {
		return params, true
	}
	return ea.Params, true
}

// productComponents specializes the to-side constructor's type against the
// eliminator's parameters and destructures the resulting product into its
// two components.
func (s *Selector) productComponents(params []term.Term) ([]term.Term, bool) {
	decl, ok := s.Env.ConstructorOf(s.Config.To(), 0)
	if !ok || decl.Type == nil {
		return nil, false
	}
	typ := decl.Type
	for _, p := range params {
		typ = s.whd(typ)
		prod, isProd := typ.(term.Prod)
		if !isProd {
			return nil, false
		}
		typ = term.Subst(prod.Body, prod.Binder, p)
	}
	head, typArgs := term.Decompose(s.whd(typ))
	if _, isInd := head.(term.Ind); !isInd || len(typArgs) != 2 {
		return nil, false
	}
	return typArgs, true
}
