package inspect

import (
	"github.com/funvibe/ornlift/internal/term"
)

// Convertible checks definitional equality of a and b under the evaluation
// state: placeholders are resolved, then both sides are reduced and compared
// up to alpha-renaming. The state is returned so the signature matches the
// rest of the inspector; convertibility itself never extends it.
func Convertible(env *term.Env, st State, a, b term.Term) (State, bool) {
	return st, conv(env, st, a, b)
}

func conv(env *term.Env, st State, a, b term.Term) bool {
	a = Whd(env, st.Resolve(a), nil)
	b = Whd(env, st.Resolve(b), nil)
	if term.Equal(a, b) {
		return true
	}
	switch at := a.(type) {
	case term.App:
		bt, ok := b.(term.App)
		if !ok || len(at.Args) != len(bt.Args) {
			return false
		}
		if !conv(env, st, at.Head, bt.Head) {
			return false
		}
		for i := range at.Args {
			if !conv(env, st, at.Args[i], bt.Args[i]) {
				return false
			}
		}
		return true
	case term.Lambda:
		bt, ok := b.(term.Lambda)
		if !ok {
			return false
		}
		return convBinder(env, st, at.Type, bt.Type, at.Binder, bt.Binder, at.Body, bt.Body)
	case term.Prod:
		bt, ok := b.(term.Prod)
		if !ok {
			return false
		}
		return convBinder(env, st, at.Type, bt.Type, at.Binder, bt.Binder, at.Body, bt.Body)
	default:
		return false
	}
}

func convBinder(env *term.Env, st State, aType, bType term.Term, aName, bName string, aBody, bBody term.Term) bool {
	if !conv(env, st, aType, bType) {
		return false
	}
	if aName != bName {
		bBody = term.Subst(bBody, bName, term.Var{Name: aName})
	}
	return conv(env, st, aBody, bBody)
}
