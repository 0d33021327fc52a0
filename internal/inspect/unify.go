package inspect

import (
	"github.com/funvibe/ornlift/internal/term"
)

// UnifyOutcome is the tri-state result of a unification attempt. Recoverable
// internal failures are reported as UnifyFailed so callers can downgrade
// them to a miss without exception-style control flow.
type UnifyOutcome int

const (
	UnifyHit UnifyOutcome = iota
	UnifyMiss
	UnifyFailed
)

// Unify attempts to make a and b equal by assigning placeholders, extending
// the state on success. It never panics past the caller: an internal
// inconsistency surfaces as UnifyFailed with the input state.
func Unify(env *term.Env, st State, a, b term.Term) (outSt State, outcome UnifyOutcome) {
	outSt = st
	defer func() {
		if recover() != nil {
			outSt = st
			outcome = UnifyFailed
		}
	}()
	next, ok := unify(env, st, a, b)
	if !ok {
		return st, UnifyMiss
	}
	return next, UnifyHit
}

func unify(env *term.Env, st State, a, b term.Term) (State, bool) {
	a = Whd(env, st.Resolve(a), nil)
	b = Whd(env, st.Resolve(b), nil)
	if term.Equal(a, b) {
		return st, true
	}
	if ev, ok := a.(term.Evar); ok {
		return assignEvar(st, ev, b)
	}
	if ev, ok := b.(term.Evar); ok {
		return assignEvar(st, ev, a)
	}
	switch at := a.(type) {
	case term.App:
		bt, ok := b.(term.App)
		if !ok || len(at.Args) != len(bt.Args) {
			return st, false
		}
		st, ok = unify(env, st, at.Head, bt.Head)
		if !ok {
			return st, false
		}
		for i := range at.Args {
			st, ok = unify(env, st, at.Args[i], bt.Args[i])
			if !ok {
				return st, false
			}
		}
		return st, true
	case term.Lambda:
		bt, ok := b.(term.Lambda)
		if !ok {
			return st, false
		}
		return unifyBinder(env, st, at.Type, bt.Type, at.Binder, bt.Binder, at.Body, bt.Body)
	case term.Prod:
		bt, ok := b.(term.Prod)
		if !ok {
			return st, false
		}
		return unifyBinder(env, st, at.Type, bt.Type, at.Binder, bt.Binder, at.Body, bt.Body)
	default:
		return st, false
	}
}

func unifyBinder(env *term.Env, st State, aType, bType term.Term, aName, bName string, aBody, bBody term.Term) (State, bool) {
	st, ok := unify(env, st, aType, bType)
	if !ok {
		return st, false
	}
	if aName != bName {
		bBody = term.Subst(bBody, bName, term.Var{Name: aName})
	}
	return unify(env, st, aBody, bBody)
}

func assignEvar(st State, ev term.Evar, value term.Term) (State, bool) {
	if occurs(st, ev.ID, value) {
		return st, false
	}
	return st.Define(ev.ID, value), true
}

func occurs(st State, id int, t term.Term) bool {
	switch tt := st.Resolve(t).(type) {
	case term.Evar:
		return tt.ID == id
	case term.App:
		if occurs(st, id, tt.Head) {
			return true
		}
		for _, a := range tt.Args {
			if occurs(st, id, a) {
				return true
			}
		}
		return false
	case term.Lambda:
		return occurs(st, id, tt.Type) || occurs(st, id, tt.Body)
	case term.Prod:
		return occurs(st, id, tt.Type) || occurs(st, id, tt.Body)
	default:
		return false
	}
}
