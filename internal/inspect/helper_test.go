package inspect

import (
	"github.com/funvibe/ornlift/internal/term"
)

var (
	natT     = term.Ind{Name: "nat"}
	natlistT = term.Ind{Name: "natlist"}

	zero  = term.Construct{Ind: "nat", Index: 0}
	succ  = term.Construct{Ind: "nat", Index: 1}
	lnil  = term.Construct{Ind: "natlist", Index: 0}
	lcons = term.Construct{Ind: "natlist", Index: 1}
)

func testEnv() *term.Env {
	env := term.NewEnv()

	mustInd := func(ind term.Inductive) {
		if err := env.DefineInd(ind); err != nil {
			panic(err)
		}
	}
	mustConst := func(c term.Constant) {
		if err := env.DefineConst(c); err != nil {
			panic(err)
		}
	}

	mustInd(term.Inductive{
		Name:       "nat",
		Eliminator: "nat_rect",
		Constructors: []term.ConstructorDecl{
			{Name: "O", Arity: 0, Type: natT},
			{Name: "S", Arity: 1, Type: term.Prod{Binder: "n", Type: natT, Body: natT}},
		},
	})
	mustInd(term.Inductive{
		Name:       "natlist",
		Eliminator: "natlist_rect",
		Constructors: []term.ConstructorDecl{
			{Name: "lnil", Arity: 0, Type: natlistT},
			{Name: "lcons", Arity: 2, Type: term.Prod{
				Binder: "h", Type: natT,
				Body: term.Prod{Binder: "t", Type: natlistT, Body: natlistT},
			}},
		},
	})

	mustConst(term.Constant{
		Name: "idn",
		Type: term.Prod{Binder: "n", Type: natT, Body: natT},
		Body: term.Lambda{Binder: "n", Type: natT, Body: term.Var{Name: "n"}},
	})
	mustConst(term.Constant{
		Name: "hd",
		Type: term.Prod{Binder: "l", Type: natlistT, Body: natT},
	})

	return env
}
