package lift

import (
	"reflect"
	"testing"

	"github.com/funvibe/ornlift/internal/inspect"
	"github.com/funvibe/ornlift/internal/term"
)

func TestSelectConstructorLift(t *testing.T) {
	sel := testSelector(testConfig())
	input := term.MkApp(lcons, zero, term.Term(lnil))

	_, decision := sel.Select(inspect.NewState(), input)

	cl, ok := decision.(ConstructorLift)
	if !ok {
		t.Fatalf("Select = %s, want ConstructorLift", decision.Name())
	}
	if cl.Index != 1 {
		t.Errorf("constructor index = %d, want 1", cl.Index)
	}
	if cl.Constructor != vcons {
		t.Errorf("lifted constructor = %v, want vcons", cl.Constructor)
	}
	if len(cl.Args) != 2 {
		t.Errorf("args = %d, want 2", len(cl.Args))
	}
}

// The worked two-level example: the outer term still classifies as a
// constructor lift, while the backward-map argument classifies as Retraction
// when the traversal recurses into it.
func TestSelectTwoLevel(t *testing.T) {
	sel := testSelector(testConfig())
	inner := term.MkApp(term.Const{Name: "vtl"}, term.Var{Name: "v"})
	outer := term.MkApp(lcons, zero, inner)

	_, outerDecision := sel.Select(inspect.NewState(), outer)
	if _, ok := outerDecision.(ConstructorLift); !ok {
		t.Fatalf("outer Select = %s, want ConstructorLift", outerDecision.Name())
	}

	_, innerDecision := sel.Select(inspect.NewState(), inner)
	if _, ok := innerDecision.(Retraction); !ok {
		t.Fatalf("inner Select = %s, want Retraction", innerDecision.Name())
	}
}

func TestSelectDispatch(t *testing.T) {
	tests := []struct {
		name string
		term term.Term
		want string
	}{
		{
			name: "equivalence on the tracked family",
			term: natlistT,
			want: "Equivalence",
		},
		{
			name: "opaque constant",
			term: term.Const{Name: "mystery"},
			want: "OpaqueSkip",
		},
		{
			name: "bare from-side constructor",
			term: lnil,
			want: "ConstructorLift",
		},
		{
			name: "internalize forward map",
			term: term.MkApp(term.Const{Name: "ltv"}, term.Var{Name: "l"}),
			want: "Internalize",
		},
		{
			name: "retraction of backward map",
			term: term.MkApp(term.Const{Name: "vtl"}, term.Var{Name: "v"}),
			want: "Retraction",
		},
		{
			name: "projection of packed value",
			term: term.MkApp(term.Const{Name: "vlen"},
				term.MkApp(packC, term.Var{Name: "n"}, term.Var{Name: "v"})),
			want: "ProjectionOfPackedValue",
		},
		{
			name: "generic application delays unfolding",
			term: term.MkApp(term.Const{Name: "idnat"}, zero),
			want: "DelayedUnfoldApplication",
		},
		{
			name: "bare constant delays unfolding",
			term: term.Const{Name: "idnat"},
			want: "DelayedUnfoldConstant",
		},
		{
			name: "other side constructor eta-expands lazily",
			term: vcons,
			want: "LazyEtaExpansion",
		},
		{
			name: "eliminator application",
			term: term.MkApp(term.Const{Name: "natlist_rect"},
				term.Const{Name: "idnat"}, zero, zero, term.Term(lnil)),
			want: "EliminatorLift",
		},
		{
			name: "unrecognized shape falls back to generic",
			term: term.Var{Name: "x"},
			want: "GenericTerm",
		},
		{
			name: "sort falls back to generic",
			term: term.Sort{Name: "Type"},
			want: "GenericTerm",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := testSelector(testConfig())
			_, decision := sel.Select(inspect.NewState(), tt.term)
			if decision.Name() != tt.want {
				t.Errorf("Select(%s) = %s, want %s", tt.term.Key(), decision.Name(), tt.want)
			}
		})
	}
}

func TestSelectPackOnVariable(t *testing.T) {
	sel := testSelector(testConfig())
	sel.Scope = []inspect.Binder{{Name: "l", Type: natlistT}}

	_, decision := sel.Select(inspect.NewState(), term.Var{Name: "l"})
	if _, ok := decision.(Pack); !ok {
		t.Fatalf("Select = %s, want Pack", decision.Name())
	}
}

func TestSelectUnpackBackward(t *testing.T) {
	cfg := testConfig().Inverse()
	sel := testSelector(cfg)
	// Backward lifts from the vec side; a value in packed form unpacks.
	sel.Scope = []inspect.Binder{
		{Name: "n", Type: natT},
		{Name: "v", Type: vecT},
	}
	packed := term.MkApp(packC, term.Var{Name: "n"}, term.Var{Name: "v"})
	_, decision := sel.Select(inspect.NewState(), packed)
	if _, ok := decision.(Pack); !ok {
		t.Fatalf("Select = %s, want Pack", decision.Name())
	}
}

func TestSelectCoherence(t *testing.T) {
	sel := testSelector(testConfig())
	sel.Scope = []inspect.Binder{{Name: "l", Type: natlistT}}
	input := term.MkApp(term.Const{Name: "hd"}, term.Var{Name: "l"})

	_, decision := sel.Select(inspect.NewState(), input)
	co, ok := decision.(Coherence)
	if !ok {
		t.Fatalf("Select = %s, want Coherence", decision.Name())
	}
	if len(co.Args) != 1 || !term.Equal(co.Args[0], term.Var{Name: "l"}) {
		t.Errorf("coherence args = %v, want [l]", co.Args)
	}
	if !term.Equal(co.Target, term.Const{Name: "vhd"}) {
		t.Errorf("coherence target = %s, want vhd", co.Target.Key())
	}
}

func TestSelectCoherenceDefersUnderApplied(t *testing.T) {
	sel := testSelector(testConfig())
	_, decision := sel.Select(inspect.NewState(), term.Const{Name: "hd"})
	if _, ok := decision.(LazyEtaExpansion); !ok {
		t.Fatalf("Select = %s, want LazyEtaExpansion", decision.Name())
	}
}

func TestCachePrecedence(t *testing.T) {
	sel := testSelector(testConfig())
	input := term.MkApp(lcons, zero, term.Term(lnil))
	global := term.Const{Name: "fromGlobal"}
	local := term.Const{Name: "fromLocal"}

	sel.Local.Put(input, local)
	sel.Global.Put(sel.GlobalKeyFor(input), global)

	_, decision := sel.Select(inspect.NewState(), input)
	hit, ok := decision.(GlobalCacheHit)
	if !ok {
		t.Fatalf("Select = %s, want GlobalCacheHit", decision.Name())
	}
	if !term.Equal(hit.Term, global) {
		t.Errorf("cache hit = %s, want the global entry", hit.Term.Key())
	}
}

func TestLocalCacheHit(t *testing.T) {
	sel := testSelector(testConfig())
	input := term.Var{Name: "x"}
	cached := term.Const{Name: "cached"}
	sel.Local.Put(input, cached)

	_, decision := sel.Select(inspect.NewState(), input)
	hit, ok := decision.(LocalCacheHit)
	if !ok {
		t.Fatalf("Select = %s, want LocalCacheHit", decision.Name())
	}
	if !term.Equal(hit.Term, cached) {
		t.Errorf("cache hit = %s, want the local entry", hit.Term.Key())
	}
}

// Opacity overrides every structural premise, even for terms that would
// classify as constructor or equivalence occurrences.
func TestOpacityPrecedence(t *testing.T) {
	cfg := testConfig()
	cfg.Opaque["ltv"] = true
	cfg.Opaque["natlist_rect"] = true
	sel := testSelector(cfg)

	for _, input := range []term.Term{
		term.Const{Name: "ltv"},
		term.Const{Name: "natlist_rect"},
		term.Const{Name: "mystery"},
	} {
		_, decision := sel.Select(inspect.NewState(), input)
		if _, ok := decision.(OpaqueSkip); !ok {
			t.Errorf("Select(%s) = %s, want OpaqueSkip", input.Key(), decision.Name())
		}
	}
}

func TestSelectDeterminism(t *testing.T) {
	inputs := []term.Term{
		term.MkApp(lcons, zero, term.Term(lnil)),
		natlistT,
		term.Const{Name: "mystery"},
		term.MkApp(term.Const{Name: "vtl"}, term.Var{Name: "v"}),
		term.Var{Name: "x"},
	}
	for _, input := range inputs {
		sel := testSelector(testConfig())
		_, first := sel.Select(inspect.NewState(), input)
		_, second := sel.Select(inspect.NewState(), input)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("Select(%s) not deterministic: %s vs %s", input.Key(), first.Name(), second.Name())
		}
	}
}

// FastConstructorLift fires instead of the plain rule when direction is
// backward and the constructor is applied to real arguments.
func TestFastConstructorLiftBackward(t *testing.T) {
	cfg := testConfig().Inverse()
	sel := testSelector(cfg)
	input := term.MkApp(vcons, zero, term.Term(vnil))

	_, decision := sel.Select(inspect.NewState(), input)
	fast, ok := decision.(FastConstructorLift)
	if !ok {
		t.Fatalf("Select = %s, want FastConstructorLift", decision.Name())
	}
	if fast.Index != 1 || fast.Constructor != lcons {
		t.Errorf("fast lift = (%d, %v), want (1, lcons)", fast.Index, fast.Constructor)
	}

	// A bare backward constructor reference takes the plain rule.
	_, bare := sel.Select(inspect.NewState(), vnil)
	if _, ok := bare.(ConstructorLift); !ok {
		t.Errorf("bare Select = %s, want ConstructorLift", bare.Name())
	}
}

// Lifting a constructor application and then classifying its image under
// the inverse configuration reports the same constructor index.
func TestConstructorRoundTrip(t *testing.T) {
	cfg := testConfig()
	sel := testSelector(cfg)
	input := term.MkApp(lcons, zero, term.Term(lnil))

	_, decision := sel.Select(inspect.NewState(), input)
	cl, ok := decision.(ConstructorLift)
	if !ok {
		t.Fatalf("forward Select = %s, want ConstructorLift", decision.Name())
	}

	image := term.MkApp(cl.Constructor, cl.Args...)
	back := testSelector(cfg.Inverse())
	_, decision = back.Select(inspect.NewState(), image)
	fast, ok := decision.(FastConstructorLift)
	if !ok {
		t.Fatalf("backward Select = %s, want FastConstructorLift", decision.Name())
	}
	if fast.Index != cl.Index {
		t.Errorf("round trip index = %d, want %d", fast.Index, cl.Index)
	}
}

// No term satisfies more than one structural premise for a fixed
// configuration. Checked by exhaustive construction over a small grammar.
func TestPremiseMutualExclusivity(t *testing.T) {
	cfg := testConfig()
	atoms := []term.Term{
		term.Var{Name: "l"},
		term.Var{Name: "x"},
		zero, lnil, lcons, vnil, vcons, packC,
		natlistT, vecT, natT,
		term.Const{Name: "ltv"},
		term.Const{Name: "vtl"},
		term.Const{Name: "hd"},
		term.Const{Name: "natlist_rect"},
	}
	var inputs []term.Term
	inputs = append(inputs, atoms...)
	for _, head := range atoms {
		for _, arg := range atoms {
			inputs = append(inputs, term.MkApp(head, arg))
			inputs = append(inputs, term.MkApp(head, arg, arg))
		}
	}

	scope := []inspect.Binder{{Name: "l", Type: natlistT}}
	for _, input := range inputs {
		sel := testSelector(cfg)
		sel.Scope = scope
		st := inspect.NewState()

		hits := 0
		if _, ok := sel.equivalencePremise(input); ok {
			hits++
		}
		if _, _, ok := sel.constructorPremise(st, input); ok {
			hits++
		}
		if sel.packPremise(st, input) {
			hits++
		}
		if _, d, ok := sel.projectionPremise(st, input); ok {
			// A deferral is not a projection claim.
			if _, deferred := d.(LazyEtaExpansion); !deferred {
				hits++
			}
		}
		if _, d, ok := sel.eliminatorPremise(st, input); ok {
			if _, deferred := d.(LazyEtaExpansion); !deferred {
				hits++
			}
		}
		if hits > 1 {
			t.Errorf("term %s satisfies %d premises, want at most 1", input.Key(), hits)
		}
	}
}
