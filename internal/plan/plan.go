// Package plan reads lifting plans: YAML files declaring a global
// environment, one equivalence, and the terms to lift across it. Terms are
// written as structured trees, not surface syntax; elaboration of a real
// proof-assistant syntax happens upstream of this tool.
package plan

import (
	"fmt"
	"os"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/funvibe/ornlift/internal/lift"
	"github.com/funvibe/ornlift/internal/term"
)

// Plan is the top-level document.
type Plan struct {
	// Requires constrains the tool version this plan was written for,
	// as a semver range (">= 0.1, < 0.2"). Empty accepts any version.
	Requires string `yaml:"requires,omitempty"`

	Env         EnvDecl   `yaml:"env"`
	Equivalence EquivDecl `yaml:"equivalence"`

	// Lift lists the terms to transport, in order.
	Lift []LiftDecl `yaml:"lift"`
}

type EnvDecl struct {
	Inductives []InductiveDecl `yaml:"inductives,omitempty"`
	Constants  []ConstantDecl  `yaml:"constants,omitempty"`
}

type InductiveDecl struct {
	Name string `yaml:"name"`
	// Params is the number of family parameters.
	Params       int        `yaml:"params"`
	Eliminator   string     `yaml:"eliminator,omitempty"`
	Constructors []CtorDecl `yaml:"constructors"`
}

type CtorDecl struct {
	Name  string     `yaml:"name"`
	Arity int        `yaml:"arity"`
	Type  *term.Node `yaml:"type,omitempty"`
}

type ConstantDecl struct {
	Name string     `yaml:"name"`
	Type *term.Node `yaml:"type,omitempty"`
	Body *term.Node `yaml:"body,omitempty"`
}

type EquivDecl struct {
	Direction string `yaml:"direction"`
	Flavor    string `yaml:"flavor"`
	Source    string `yaml:"source"`
	Target    string `yaml:"target"`
	// Underlying names the inductive the target packs, when the packed
	// family and its constructor-bearing form differ.
	Underlying string `yaml:"underlying,omitempty"`

	ForwardMap  string `yaml:"forward_map"`
	BackwardMap string `yaml:"backward_map"`

	Eliminator       string `yaml:"eliminator,omitempty"`
	LiftedEliminator string `yaml:"lifted_eliminator,omitempty"`

	Pack    *term.CtorNode `yaml:"pack,omitempty"`
	PairFst string         `yaml:"pair_fst,omitempty"`
	PairSnd string         `yaml:"pair_snd,omitempty"`

	Constructors []CtorPairDecl `yaml:"constructors"`
	Projections  []ProjPairDecl `yaml:"projections,omitempty"`

	// Opaque lists constants the lifting must never unfold or analyze.
	Opaque []string `yaml:"opaque,omitempty"`

	// ReducibleProjections names projections whose application to a
	// packed value is a redex worth reducing eagerly.
	ReducibleProjections []string `yaml:"reducible_projections,omitempty"`
}

type CtorPairDecl struct {
	Source term.CtorNode `yaml:"source"`
	Target term.CtorNode `yaml:"target"`
	Arity  int           `yaml:"arity"`
	// Ref is the packed-form reference copy of the source constructor.
	Ref *term.Node `yaml:"ref,omitempty"`
}

type ProjPairDecl struct {
	Source term.Node `yaml:"source"`
	Target term.Node `yaml:"target"`
}

type LiftDecl struct {
	Name string    `yaml:"name,omitempty"`
	Term term.Node `yaml:"term"`
}

// Load reads and decodes a plan file.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading plan: %w", err)
	}
	return Parse(data)
}

// Parse decodes a plan document.
func Parse(data []byte) (*Plan, error) {
	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decoding plan: %w", err)
	}
	return &p, nil
}

// CheckVersion enforces the plan's requires constraint against the tool
// version.
func (p *Plan) CheckVersion(toolVersion string) error {
	if p.Requires == "" {
		return nil
	}
	constraint, err := semver.NewConstraint(p.Requires)
	if err != nil {
		return fmt.Errorf("invalid requires %q: %w", p.Requires, err)
	}
	version, err := semver.NewVersion(toolVersion)
	if err != nil {
		return fmt.Errorf("invalid tool version %q: %w", toolVersion, err)
	}
	if !constraint.Check(version) {
		return fmt.Errorf("plan requires tool version %q, have %s", p.Requires, toolVersion)
	}
	return nil
}

// BuildEnv registers the plan's declarations into a fresh environment.
func (p *Plan) BuildEnv() (*term.Env, error) {
	env := term.NewEnv()
	for _, ind := range p.Env.Inductives {
		decl := term.Inductive{
			Name:       ind.Name,
			NParams:    ind.Params,
			Eliminator: ind.Eliminator,
		}
		for _, ctor := range ind.Constructors {
			cd := term.ConstructorDecl{Name: ctor.Name, Arity: ctor.Arity}
			if ctor.Type != nil {
				t, err := ctor.Type.FromNode()
				if err != nil {
					return nil, fmt.Errorf("constructor %s.%s: %w", ind.Name, ctor.Name, err)
				}
				cd.Type = t
			}
			decl.Constructors = append(decl.Constructors, cd)
		}
		if err := env.DefineInd(decl); err != nil {
			return nil, err
		}
	}
	for _, c := range p.Env.Constants {
		decl := term.Constant{Name: c.Name}
		if c.Type != nil {
			t, err := c.Type.FromNode()
			if err != nil {
				return nil, fmt.Errorf("constant %s type: %w", c.Name, err)
			}
			decl.Type = t
		}
		if c.Body != nil {
			t, err := c.Body.FromNode()
			if err != nil {
				return nil, fmt.Errorf("constant %s body: %w", c.Name, err)
			}
			decl.Body = t
		}
		if err := env.DefineConst(decl); err != nil {
			return nil, err
		}
	}
	return env, nil
}

// BuildConfig assembles the lifting configuration the plan describes.
func (p *Plan) BuildConfig() (*lift.Config, error) {
	eq := p.Equivalence
	cfg := &lift.Config{
		SourceFamily:     eq.Source,
		TargetFamily:     eq.Target,
		Underlying:       eq.Underlying,
		ForwardMap:       eq.ForwardMap,
		BackwardMap:      eq.BackwardMap,
		Eliminator:       eq.Eliminator,
		LiftedEliminator: eq.LiftedEliminator,
		PairFst:          eq.PairFst,
		PairSnd:          eq.PairSnd,
		Opaque:           make(map[string]bool, len(eq.Opaque)),
	}

	switch eq.Direction {
	case "", "forward":
		cfg.Dir = lift.Forward
	case "backward":
		cfg.Dir = lift.Backward
	default:
		return nil, fmt.Errorf("unknown direction %q", eq.Direction)
	}
	switch eq.Flavor {
	case "", "algebraic":
		cfg.Flavor = lift.Algebraic
	case "curry-record":
		cfg.Flavor = lift.CurryRecord
	default:
		return nil, fmt.Errorf("unknown flavor %q", eq.Flavor)
	}

	if eq.Pack != nil {
		cfg.PackConstructor = term.Construct{Ind: eq.Pack.Ind, Index: eq.Pack.Index}
	}
	for _, name := range eq.Opaque {
		cfg.Opaque[name] = true
	}

	for i, pair := range eq.Constructors {
		cp := lift.ConstructorPair{
			Source: term.Construct{Ind: pair.Source.Ind, Index: pair.Source.Index},
			Target: term.Construct{Ind: pair.Target.Ind, Index: pair.Target.Index},
			Arity:  pair.Arity,
		}
		if pair.Ref != nil {
			ref, err := pair.Ref.FromNode()
			if err != nil {
				return nil, fmt.Errorf("constructor pair %d ref: %w", i, err)
			}
			cp.SourceRef = ref
		}
		cfg.Constructors = append(cfg.Constructors, cp)
	}

	for i, pair := range eq.Projections {
		src, err := pair.Source.FromNode()
		if err != nil {
			return nil, fmt.Errorf("projection pair %d source: %w", i, err)
		}
		tgt, err := pair.Target.FromNode()
		if err != nil {
			return nil, fmt.Errorf("projection pair %d target: %w", i, err)
		}
		cfg.Projections = append(cfg.Projections, lift.ProjectionPair{Source: src, Target: tgt})
	}

	if len(eq.ReducibleProjections) > 0 {
		reducible := make(map[string]bool, len(eq.ReducibleProjections))
		for _, name := range eq.ReducibleProjections {
			reducible[name] = true
		}
		pack := cfg.PackConstructor
		cfg.ProjOfPack = func(head term.Term, args []term.Term) bool {
			c, ok := head.(term.Const)
			if !ok || !reducible[c.Name] || len(args) == 0 {
				return false
			}
			innerHead, _ := term.Decompose(args[len(args)-1])
			ctor, ok := innerHead.(term.Construct)
			return ok && ctor == pack
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Terms decodes the plan's lift list.
func (p *Plan) Terms() ([]term.Term, []string, error) {
	terms := make([]term.Term, 0, len(p.Lift))
	names := make([]string, 0, len(p.Lift))
	for i, decl := range p.Lift {
		t, err := decl.Term.FromNode()
		if err != nil {
			return nil, nil, fmt.Errorf("lift entry %d: %w", i, err)
		}
		name := decl.Name
		if name == "" {
			name = fmt.Sprintf("term%d", i)
		}
		terms = append(terms, t)
		names = append(names, name)
	}
	return terms, names, nil
}
