package lift

import (
	"fmt"

	"github.com/funvibe/ornlift/internal/term"
)

// Direction selects which side of the equivalence terms are lifted from.
type Direction int

const (
	Forward Direction = iota
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// Flavor is the shape of the equivalence.
type Flavor int

const (
	// Algebraic relates an inductive type to its index-augmented form
	// (list vs. length-indexed vector).
	Algebraic Flavor = iota
	// CurryRecord relates a single-constructor record to a nested product.
	CurryRecord
)

func (f Flavor) String() string {
	if f == CurryRecord {
		return "curry-record"
	}
	return "algebraic"
}

// ConstructorPair relates constructor i of the source family to constructor
// i of the target family. Indexing is 0-based on both sides, everywhere.
type ConstructorPair struct {
	Source term.Construct
	Target term.Construct
	// Arity is the exact number of arguments both constructors take.
	Arity int
	// SourceRef is the configuration's reference copy of the source
	// constructor in packed form, possibly wrapped in leading binders.
	// The constructor premise zooms it before comparing heads.
	SourceRef term.Term
}

// ProjectionPair relates a projection on the source side to the projection
// it commutes with on the target side.
type ProjectionPair struct {
	Source term.Term
	Target term.Term
}

// Config describes one equivalence instance. It is built once per top-level
// lifting invocation and never mutated afterwards.
type Config struct {
	Dir    Direction
	Flavor Flavor

	SourceFamily string
	TargetFamily string

	// Underlying is the target side's underlying inductive when the
	// target family is a packed (dependent-pair) presentation of it.
	// Empty means the target family is its own underlying type.
	Underlying string

	// Constructors is ordered to match the source family's declaration
	// order: entry i relates source constructor i to target constructor i.
	Constructors []ConstructorPair
	Projections  []ProjectionPair

	// Eliminator is the eliminator constant being promoted; Lifted is its
	// image on the other side.
	Eliminator       string
	LiftedEliminator string

	ForwardMap  string
	BackwardMap string

	// PackConstructor builds the dependent-pair representation of an
	// index-augmented value. PairFst/PairSnd are the pair projections the
	// curry-record flavor unfolds a record value with.
	PackConstructor term.Construct
	PairFst         string
	PairSnd         string

	// Opaque constants are never unfolded and never analyzed structurally.
	Opaque map[string]bool

	// ProjOfPack recognizes a reducible projection-of-packed-value redex
	// from its decomposed head and arguments.
	ProjOfPack func(head term.Term, args []term.Term) bool
}

// From is the family terms are lifted from under the configured direction.
func (c *Config) From() string {
	if c.Dir == Backward {
		return c.TargetFamily
	}
	return c.SourceFamily
}

// To is the family terms are lifted to.
func (c *Config) To() string {
	if c.Dir == Backward {
		return c.SourceFamily
	}
	return c.TargetFamily
}

func (c *Config) IsOpaque(name string) bool {
	return c.Opaque[name]
}

// OtherUnderlying is the underlying inductive of the side not yet
// transformed under the configured direction.
func (c *Config) OtherUnderlying() string {
	if c.Dir == Backward {
		return c.SourceFamily
	}
	if c.Underlying != "" {
		return c.Underlying
	}
	return c.TargetFamily
}

// ConstructorIndex finds the table entry whose from-side constructor is
// ctor. The entry offset doubles as the constructor index.
func (c *Config) ConstructorIndex(ctor term.Construct) (int, bool) {
	for i, pair := range c.Constructors {
		side := pair.Source
		if c.Dir == Backward {
			side = pair.Target
		}
		if side.Ind == ctor.Ind && side.Index == ctor.Index {
			return i, true
		}
	}
	return 0, false
}

// LiftedConstructor returns the to-side image of constructor index i.
func (c *Config) LiftedConstructor(i int) (term.Construct, error) {
	if i < 0 || i >= len(c.Constructors) {
		return term.Construct{}, fmt.Errorf("constructor index %d out of range [0, %d)", i, len(c.Constructors))
	}
	if c.Dir == Backward {
		return c.Constructors[i].Source, nil
	}
	return c.Constructors[i].Target, nil
}

// FromProjection is the from-side member of a projection pair.
func (c *Config) FromProjection(pair ProjectionPair) term.Term {
	if c.Dir == Backward {
		return pair.Target
	}
	return pair.Source
}

// Inverse returns a copy of the configuration with the direction flipped.
// The copy shares the immutable tables with the original.
func (c *Config) Inverse() *Config {
	inv := *c
	if c.Dir == Forward {
		inv.Dir = Backward
	} else {
		inv.Dir = Forward
	}
	return &inv
}

// Validate checks the invariants the selector relies on.
func (c *Config) Validate() error {
	if c.SourceFamily == "" || c.TargetFamily == "" {
		return fmt.Errorf("equivalence must name both type families")
	}
	if c.SourceFamily == c.TargetFamily {
		return fmt.Errorf("equivalence relates %q to itself", c.SourceFamily)
	}
	for i, pair := range c.Constructors {
		if pair.Source.Ind != c.SourceFamily {
			return fmt.Errorf("constructor pair %d: source %q does not belong to %q", i, pair.Source.Ind, c.SourceFamily)
		}
		if pair.Arity < 0 {
			return fmt.Errorf("constructor pair %d: negative arity", i)
		}
	}
	if c.ForwardMap == "" || c.BackwardMap == "" {
		return fmt.Errorf("equivalence must name both maps")
	}
	return nil
}
