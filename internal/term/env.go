package term

import "fmt"

// ConstructorDecl declares one constructor of an inductive family.
// Arity counts the constructor's own arguments, excluding family parameters.
type ConstructorDecl struct {
	Name  string
	Arity int
	Type  Term
}

// Inductive declares an inductive family: its parameter count, its
// constructors in declaration order, and the name of its eliminator constant.
type Inductive struct {
	Name         string
	NParams      int
	Constructors []ConstructorDecl
	Eliminator   string
}

// Constant declares a global constant. A nil Body means the constant is an
// axiom (or otherwise has no unfolding).
type Constant struct {
	Name string
	Type Term
	Body Term
}

// Env is the global environment the selector consults. It is read-only
// during a lifting call; definitions are registered up front.
type Env struct {
	consts map[string]Constant
	inds   map[string]Inductive
	elims  map[string]string // eliminator constant -> inductive name
}

func NewEnv() *Env {
	return &Env{
		consts: make(map[string]Constant),
		inds:   make(map[string]Inductive),
		elims:  make(map[string]string),
	}
}

func (e *Env) DefineConst(c Constant) error {
	if _, ok := e.consts[c.Name]; ok {
		return fmt.Errorf("constant %q already defined", c.Name)
	}
	e.consts[c.Name] = c
	return nil
}

func (e *Env) DefineInd(ind Inductive) error {
	if _, ok := e.inds[ind.Name]; ok {
		return fmt.Errorf("inductive %q already defined", ind.Name)
	}
	e.inds[ind.Name] = ind
	if ind.Eliminator != "" {
		e.elims[ind.Eliminator] = ind.Name
	}
	return nil
}

func (e *Env) LookupConst(name string) (Constant, bool) {
	c, ok := e.consts[name]
	return c, ok
}

func (e *Env) LookupInd(name string) (Inductive, bool) {
	ind, ok := e.inds[name]
	return ind, ok
}

// ElimTarget returns the inductive family a constant eliminates, when the
// constant is a registered eliminator.
func (e *Env) ElimTarget(name string) (string, bool) {
	ind, ok := e.elims[name]
	return ind, ok
}

// ConstructorOf returns the declaration of constructor index of family ind.
func (e *Env) ConstructorOf(ind string, index int) (ConstructorDecl, bool) {
	decl, ok := e.inds[ind]
	if !ok || index < 0 || index >= len(decl.Constructors) {
		return ConstructorDecl{}, false
	}
	return decl.Constructors[index], true
}
