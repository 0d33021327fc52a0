package inspect

import (
	"fmt"

	"github.com/funvibe/ornlift/internal/term"
)

// TypeInfer computes the type of t from declared signatures, best-effort.
// It is not a type checker: it never validates argument types, it only
// propagates declared Prod telescopes through application spines. Terms it
// cannot type (unassigned placeholders, unbound variables) return an error,
// which callers treat as a premise miss.
func TypeInfer(env *term.Env, scope []Binder, t term.Term) (term.Term, error) {
	switch tt := t.(type) {
	case term.Var:
		for i := len(scope) - 1; i >= 0; i-- {
			if scope[i].Name == tt.Name {
				return scope[i].Type, nil
			}
		}
		return nil, fmt.Errorf("unbound variable %q", tt.Name)
	case term.Const:
		c, ok := env.LookupConst(tt.Name)
		if !ok || c.Type == nil {
			return nil, fmt.Errorf("constant %q has no declared type", tt.Name)
		}
		return c.Type, nil
	case term.Sort:
		return term.Sort{Name: "Type"}, nil
	case term.Ind:
		ind, ok := env.LookupInd(tt.Name)
		if !ok {
			return nil, fmt.Errorf("unknown inductive %q", tt.Name)
		}
		// Families are typed as iterated products into Type.
		result := term.Term(term.Sort{Name: "Type"})
		for i := ind.NParams - 1; i >= 0; i-- {
			result = term.Prod{Binder: fmt.Sprintf("p%d", i), Type: term.Sort{Name: "Type"}, Body: result}
		}
		return result, nil
	case term.Construct:
		decl, ok := env.ConstructorOf(tt.Ind, tt.Index)
		if !ok || decl.Type == nil {
			return nil, fmt.Errorf("constructor %s#%d has no declared type", tt.Ind, tt.Index)
		}
		return decl.Type, nil
	case term.Evar:
		return nil, fmt.Errorf("placeholder ?%d has no type", tt.ID)
	case term.App:
		headType, err := TypeInfer(env, scope, tt.Head)
		if err != nil {
			return nil, err
		}
		for _, arg := range tt.Args {
			headType = Whd(env, headType, nil)
			prod, ok := headType.(term.Prod)
			if !ok {
				return nil, fmt.Errorf("over-application: %s is not a product", headType.Key())
			}
			headType = term.Subst(prod.Body, prod.Binder, arg)
		}
		return headType, nil
	case term.Lambda:
		bodyType, err := TypeInfer(env, append(scope, Binder{Name: tt.Binder, Type: tt.Type}), tt.Body)
		if err != nil {
			return nil, err
		}
		return term.Prod{Binder: tt.Binder, Type: tt.Type, Body: bodyType}, nil
	case term.Prod:
		return term.Sort{Name: "Type"}, nil
	default:
		return nil, fmt.Errorf("untypeable term")
	}
}

// Arity counts the leading products of t's type: how many arguments the
// term still accepts.
func Arity(env *term.Env, scope []Binder, t term.Term) (int, error) {
	typ, err := TypeInfer(env, scope, t)
	if err != nil {
		return 0, err
	}
	n := 0
	for {
		typ = Whd(env, typ, nil)
		prod, ok := typ.(term.Prod)
		if !ok {
			return n, nil
		}
		typ = prod.Body
		n++
	}
}

// EtaExpand wraps t in lambdas until it is applied to as many arguments as
// its type accepts. A term that cannot be typed is returned unchanged.
// Introduced binders avoid the ambient scope and t's free variables.
func EtaExpand(env *term.Env, scope []Binder, t term.Term) term.Term {
	typ, err := TypeInfer(env, scope, t)
	if err != nil {
		return t
	}
	var binders []Binder
	inner := make([]Binder, len(scope), len(scope)+4)
	copy(inner, scope)
	for name := range term.FreeVars(t) {
		inner = append(inner, Binder{Name: name})
	}
	for {
		typ = Whd(env, typ, nil)
		prod, ok := typ.(term.Prod)
		if !ok {
			break
		}
		name := FreshName(prod.Binder, inner)
		if name == "_" || name == "" {
			name = FreshName("x", inner)
		}
		binders = append(binders, Binder{Name: name, Type: prod.Type})
		inner = append(inner, Binder{Name: name, Type: prod.Type})
		typ = term.Subst(prod.Body, prod.Binder, term.Var{Name: name})
	}
	if len(binders) == 0 {
		return t
	}
	extra := make([]term.Term, len(binders))
	for i, b := range binders {
		extra[i] = term.Var{Name: b.Name}
	}
	body := term.MkApp(t, extra...)
	for i := len(binders) - 1; i >= 0; i-- {
		body = term.Lambda{Binder: binders[i].Name, Type: binders[i].Type, Body: body}
	}
	return body
}
