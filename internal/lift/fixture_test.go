package lift

import (
	"github.com/funvibe/ornlift/internal/term"
)

// The test fixture relates a monomorphic list of naturals to its packed,
// length-indexed form:
//
//	natlist := lnil | lcons nat natlist
//	vec     := vnil | vcons nat vec        (packed presentation)
//
// with maps ltv/vtl, eliminators natlist_rect/vec_rect, and the packing
// constructor sigvec.0.

var (
	natT     = term.Ind{Name: "nat"}
	natlistT = term.Ind{Name: "natlist"}
	vecT     = term.Ind{Name: "vec"}

	zero  = term.Construct{Ind: "nat", Index: 0}
	lnil  = term.Construct{Ind: "natlist", Index: 0}
	lcons = term.Construct{Ind: "natlist", Index: 1}
	vnil  = term.Construct{Ind: "vec", Index: 0}
	vcons = term.Construct{Ind: "vec", Index: 1}
	packC = term.Construct{Ind: "sigvec", Index: 0}
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
	mustInd(term.Inductive{
		Name:       "vec",
		Eliminator: "vec_rect",
		Constructors: []term.ConstructorDecl{
			{Name: "vnil", Arity: 0, Type: vecT},
			{Name: "vcons", Arity: 2, Type: term.Prod{
				Binder: "h", Type: natT,
				Body: term.Prod{Binder: "t", Type: vecT, Body: vecT},
			}},
		},
	})
	mustInd(term.Inductive{
		Name: "sigvec",
		Constructors: []term.ConstructorDecl{
			{Name: "packvec", Arity: 2, Type: term.Prod{
				Binder: "n", Type: natT,
				Body: term.Prod{Binder: "v", Type: vecT, Body: term.Ind{Name: "sigvec"}},
			}},
		},
	})

	mustConst(term.Constant{
		Name: "ltv",
		Type: term.Prod{Binder: "l", Type: natlistT, Body: vecT},
	})
	mustConst(term.Constant{
		Name: "vtl",
		Type: term.Prod{Binder: "v", Type: vecT, Body: natlistT},
	})
	mustConst(term.Constant{
		Name: "hd",
		Type: term.Prod{Binder: "l", Type: natlistT, Body: natT},
	})
	mustConst(term.Constant{
		Name: "vhd",
		Type: term.Prod{Binder: "v", Type: vecT, Body: natT},
	})
	mustConst(term.Constant{
		Name: "vlen",
		Type: term.Prod{Binder: "s", Type: term.Ind{Name: "sigvec"}, Body: natT},
	})
	mustConst(term.Constant{
		Name: "natlist_rect",
		Type: term.Prod{Binder: "P", Type: term.Sort{Name: "Type"}, Body: term.Prod{
			Binder: "pn", Type: natT, Body: term.Prod{
				Binder: "pc", Type: natT, Body: term.Prod{
					Binder: "l", Type: natlistT, Body: natT,
				},
			},
		}},
	})
	mustConst(term.Constant{Name: "idnat", Type: term.Prod{Binder: "n", Type: natT, Body: natT},
		Body: term.Lambda{Binder: "n", Type: natT, Body: term.Var{Name: "n"}}})
	mustConst(term.Constant{Name: "mystery", Type: natT})

	return env
}

func testConfig() *Config {
	return &Config{
		Dir:          Forward,
		Flavor:       Algebraic,
		SourceFamily: "natlist",
		TargetFamily: "sigvec",
		Underlying:   "vec",
		Constructors: []ConstructorPair{
			{Source: lnil, Target: vnil, Arity: 0, SourceRef: vnil},
			{Source: lcons, Target: vcons, Arity: 2, SourceRef: term.Lambda{
				Binder: "h", Type: natT, Body: term.Lambda{
					Binder: "t", Type: vecT,
					Body: term.MkApp(vcons, term.Var{Name: "h"}, term.Var{Name: "t"}),
				},
			}},
		},
		Projections: []ProjectionPair{
			{
				Source: term.Lambda{Binder: "l", Type: natlistT,
					Body: term.MkApp(term.Const{Name: "hd"}, term.Var{Name: "l"})},
				Target: term.Const{Name: "vhd"},
			},
		},
		Eliminator:       "natlist_rect",
		LiftedEliminator: "vec_rect",
		ForwardMap:       "ltv",
		BackwardMap:      "vtl",
		PackConstructor:  packC,
		Opaque:           map[string]bool{"mystery": true},
		ProjOfPack: func(head term.Term, args []term.Term) bool {
			c, ok := head.(term.Const)
			if !ok || c.Name != "vlen" || len(args) == 0 {
				return false
			}
			innerHead, _ := term.Decompose(args[len(args)-1])
			ctor, ok := innerHead.(term.Construct)
			return ok && ctor == packC
		},
	}
}

func testSelector(cfg *Config) *Selector {
	return NewSelector(cfg, testEnv(), NewGlobalCache(), NewLocalCache())
}
