package inspect

import (
	"github.com/funvibe/ornlift/internal/term"
)

// UnfoldFilter decides whether a constant may be delta-unfolded.
// A nil filter unfolds everything that has a body.
type UnfoldFilter func(name string) bool

// reduction is bounded by the input's finite size plus the bodies it
// unfolds; the step limit is a backstop against pathological environments
// (a constant defined as itself).
const maxReductionSteps = 10000

// Whd reduces t to weak-head normal form: beta steps, delta unfolding of
// constants permitted by the filter, and iota reduction of eliminator
// applications whose subject is a constructor value.
func Whd(env *term.Env, t term.Term, filter UnfoldFilter) term.Term {
	for steps := 0; steps < maxReductionSteps; steps++ {
		head, args := term.Decompose(t)
		switch h := head.(type) {
		case term.Lambda:
			if len(args) == 0 {
				return t
			}
			body := term.Subst(h.Body, h.Binder, args[0])
			t = term.MkApp(body, args[1:]...)
		case term.Const:
			if reduced, ok := iotaStep(env, h, args, filter); ok {
				t = reduced
				continue
			}
			if filter != nil && !filter(h.Name) {
				return t
			}
			c, ok := env.LookupConst(h.Name)
			if !ok || c.Body == nil {
				return t
			}
			t = term.MkApp(c.Body, args...)
		default:
			return t
		}
	}
	return t
}

// iotaStep reduces elim(params…, motive, minors…, subject) when subject's head
// is a constructor of the eliminated family: the matching minor premise is
// applied to the constructor's own arguments. Recursive occurrences are not
// rebuilt here; callers needing full recursion unfold the eliminator's body.
func iotaStep(env *term.Env, head term.Const, args []term.Term, filter UnfoldFilter) (term.Term, bool) {
	indName, ok := env.ElimTarget(head.Name)
	if !ok {
		return nil, false
	}
	ind, ok := env.LookupInd(indName)
	if !ok {
		return nil, false
	}
	// params, motive, one minor per constructor, then the subject last.
	needed := ind.NParams + 1 + len(ind.Constructors) + 1
	if len(args) < needed {
		return nil, false
	}
	subject := Whd(env, args[len(args)-1], filter)
	subjHead, subjArgs := term.Decompose(subject)
	ctor, ok := subjHead.(term.Construct)
	if !ok || ctor.Ind != indName {
		return nil, false
	}
	if ctor.Index < 0 || ctor.Index >= len(ind.Constructors) {
		return nil, false
	}
	minor := args[ind.NParams+1+ctor.Index]
	ctorOwnArgs := subjArgs
	if len(ctorOwnArgs) >= ind.NParams {
		ctorOwnArgs = ctorOwnArgs[ind.NParams:]
	}
	return term.MkApp(minor, ctorOwnArgs...), true
}

// Reduce normalizes t everywhere, not just at the head.
func Reduce(env *term.Env, t term.Term, filter UnfoldFilter) term.Term {
	t = Whd(env, t, filter)
	switch tt := t.(type) {
	case term.App:
		args := make([]term.Term, len(tt.Args))
		for i, a := range tt.Args {
			args[i] = Reduce(env, a, filter)
		}
		return term.MkApp(tt.Head, args...)
	case term.Lambda:
		return term.Lambda{Binder: tt.Binder, Type: Reduce(env, tt.Type, filter), Body: Reduce(env, tt.Body, filter)}
	case term.Prod:
		return term.Prod{Binder: tt.Binder, Type: Reduce(env, tt.Type, filter), Body: Reduce(env, tt.Body, filter)}
	default:
		return t
	}
}
