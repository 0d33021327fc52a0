package lift

import (
	"github.com/funvibe/ornlift/internal/inspect"
	"github.com/funvibe/ornlift/internal/term"
)

// Decision is what the selector hands the producer for one subterm: exactly
// one structural rule or one optimization. The sum is closed — the marker
// method keeps variants enumerable so the producer's switch stays exhaustive
// over a known set.
type Decision interface {
	decision()
	Name() string
}

// --- Structural rules ---

// Equivalence: the term is the tracked family applied to Args; rewrite it
// through the equivalence.
type Equivalence struct {
	Args []term.Term
}

// ConstructorLift: the term builds a value with constructor index Index of
// the from-side family; rebuild with the lifted constructor.
type ConstructorLift struct {
	Index       int
	Constructor term.Construct
	Args        []term.Term
}

// Pack: wrap (forward) or unwrap (backward) the dependent-pair
// representation. No payload; the producer acts on the term itself.
type Pack struct{}

// Coherence: the term is a lifted projection; Source and Target are the
// corresponding projection pair, Args the filled argument slots.
type Coherence struct {
	Source term.Term
	Target term.Term
	Args   []term.Term
}

// EliminatorLift: the term applies the promoted eliminator. Params is the
// parameter list to lift, which the curry-record flavor recomputes.
type EliminatorLift struct {
	Elim   inspect.ElimApp
	Params []term.Term
}

// Section: the term applies the forward-then-backward composite that the
// equivalence's section lemma collapses.
type Section struct {
	Args []term.Term
}

// Retraction: the backward-then-forward composite; collapses likewise.
type Retraction struct {
	Args []term.Term
}

// Internalize: strip a redundant equivalence-map wrapper.
type Internalize struct {
	Args []term.Term
}

// GenericTerm: no rule applies; rebuild the raw shape with recursively
// lifted children.
type GenericTerm struct {
	Term term.Term
}

// --- Optimizations ---

type GlobalCacheHit struct {
	Term term.Term
}

type LocalCacheHit struct {
	Term term.Term
}

type OpaqueSkip struct {
	Constant string
}

// ProjectionOfPackedValue: the term is project(pack(…)); Fn and Args are
// the decomposed packed value, so the producer reduces the redex in one
// step instead of generic delta/iota reduction.
type ProjectionOfPackedValue struct {
	Projector term.Term
	Fn        term.Term
	Args      []term.Term
}

// LazyEtaExpansion: analysis needs more arguments than are applied; carry
// the expanded term and re-dispatch on the next traversal step.
type LazyEtaExpansion struct {
	Expanded term.Term
}

// DelayedUnfoldApplication: lift head and arguments structurally, unfolding
// the head only if that changes nothing.
type DelayedUnfoldApplication struct {
	Fn   term.Term
	Args []term.Term
}

// DelayedUnfoldConstant: a bare constant reference; unfold on demand.
type DelayedUnfoldConstant struct {
	Constant string
}

// FastConstructorLift: the backward fast path for a constructor applied to
// real arguments.
type FastConstructorLift struct {
	Index       int
	Constructor term.Construct
	Args        []term.Term
}

func (Equivalence) decision()             {}
func (ConstructorLift) decision()         {}
func (Pack) decision()                    {}
func (Coherence) decision()               {}
func (EliminatorLift) decision()          {}
func (Section) decision()                 {}
func (Retraction) decision()              {}
func (Internalize) decision()             {}
func (GenericTerm) decision()             {}
func (GlobalCacheHit) decision()          {}
func (LocalCacheHit) decision()           {}
func (OpaqueSkip) decision()              {}
func (ProjectionOfPackedValue) decision() {}
func (LazyEtaExpansion) decision()        {}
func (DelayedUnfoldApplication) decision() {}
func (DelayedUnfoldConstant) decision()   {}
func (FastConstructorLift) decision()     {}

func (Equivalence) Name() string             { return "Equivalence" }
func (ConstructorLift) Name() string         { return "ConstructorLift" }
func (Pack) Name() string                    { return "Pack" }
func (Coherence) Name() string               { return "Coherence" }
func (EliminatorLift) Name() string          { return "EliminatorLift" }
func (Section) Name() string                 { return "Section" }
func (Retraction) Name() string              { return "Retraction" }
func (Internalize) Name() string             { return "Internalize" }
func (GenericTerm) Name() string             { return "GenericTerm" }
func (GlobalCacheHit) Name() string          { return "GlobalCacheHit" }
func (LocalCacheHit) Name() string           { return "LocalCacheHit" }
func (OpaqueSkip) Name() string              { return "OpaqueSkip" }
func (ProjectionOfPackedValue) Name() string { return "ProjectionOfPackedValue" }
func (LazyEtaExpansion) Name() string        { return "LazyEtaExpansion" }
func (DelayedUnfoldApplication) Name() string { return "DelayedUnfoldApplication" }
func (DelayedUnfoldConstant) Name() string   { return "DelayedUnfoldConstant" }
func (FastConstructorLift) Name() string     { return "FastConstructorLift" }
