package term

import (
	"strconv"
	"strings"
)

// Term is the interface for all terms of the core calculus.
// The grammar is deliberately small: variables, global constants, sorts,
// inductive families, constructors, existential placeholders, application
// spines and the two dependent binders.
type Term interface {
	// Key returns a stable structural key. Two terms are equal exactly
	// when their keys are equal, which makes Key usable as a map key for
	// the cache layer.
	Key() string
	termNode()
}

// Var is a named local variable bound by an enclosing binder.
type Var struct {
	Name string
}

// Const references a global constant by name.
type Const struct {
	Name string
}

// Sort is a universe ("Type", "Prop").
type Sort struct {
	Name string
}

// Ind references an inductive family by name.
type Ind struct {
	Name string
}

// Construct references constructor Index of inductive family Ind.
// Index is 0-based everywhere in this codebase.
type Construct struct {
	Ind   string
	Index int
}

// Evar is an existential placeholder introduced during unification.
type Evar struct {
	ID int
}

// App is an application spine: Head applied to Args.
// Head is never itself an App (see MkApp).
type App struct {
	Head Term
	Args []Term
}

// Lambda is the term-level binder.
type Lambda struct {
	Binder string
	Type   Term
	Body   Term
}

// Prod is the dependent function type binder.
type Prod struct {
	Binder string
	Type   Term
	Body   Term
}

func (Var) termNode()       {}
func (Const) termNode()     {}
func (Sort) termNode()      {}
func (Ind) termNode()       {}
func (Construct) termNode() {}
func (Evar) termNode()      {}
func (App) termNode()       {}
func (Lambda) termNode()    {}
func (Prod) termNode()      {}

func (t Var) Key() string   { return "v:" + t.Name }
func (t Const) Key() string { return "c:" + t.Name }
func (t Sort) Key() string  { return "s:" + t.Name }
func (t Ind) Key() string   { return "i:" + t.Name }
func (t Construct) Key() string {
	return "k:" + t.Ind + "#" + strconv.Itoa(t.Index)
}
func (t Evar) Key() string { return "e:" + strconv.Itoa(t.ID) }

func (t App) Key() string {
	var sb strings.Builder
	sb.WriteString("(")
	sb.WriteString(t.Head.Key())
	for _, a := range t.Args {
		sb.WriteString(" ")
		sb.WriteString(a.Key())
	}
	sb.WriteString(")")
	return sb.String()
}

func (t Lambda) Key() string {
	return "(λ" + t.Binder + ":" + t.Type.Key() + "." + t.Body.Key() + ")"
}

func (t Prod) Key() string {
	return "(Π" + t.Binder + ":" + t.Type.Key() + "." + t.Body.Key() + ")"
}

// Equal reports structural equality.
func Equal(a, b Term) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Key() == b.Key()
}

// MkApp builds an application spine, flattening a nested App head and
// returning the head unchanged when args is empty.
func MkApp(head Term, args ...Term) Term {
	if len(args) == 0 {
		return head
	}
	if app, ok := head.(App); ok {
		merged := make([]Term, 0, len(app.Args)+len(args))
		merged = append(merged, app.Args...)
		merged = append(merged, args...)
		return App{Head: app.Head, Args: merged}
	}
	return App{Head: head, Args: args}
}

// Decompose splits a term into its head and argument spine.
// Non-applications decompose into themselves with no arguments.
func Decompose(t Term) (Term, []Term) {
	if app, ok := t.(App); ok {
		return app.Head, app.Args
	}
	return t, nil
}

// Subst substitutes replacement for every free occurrence of name in t.
// Binders shadow: substitution does not descend past a binder reusing name.
// A binder that would capture a free variable of the replacement is renamed
// before descending.
func Subst(t Term, name string, replacement Term) Term {
	switch tt := t.(type) {
	case Var:
		if tt.Name == name {
			return replacement
		}
		return tt
	case App:
		args := make([]Term, len(tt.Args))
		for i, a := range tt.Args {
			args[i] = Subst(a, name, replacement)
		}
		return App{Head: Subst(tt.Head, name, replacement), Args: args}
	case Lambda:
		typ := Subst(tt.Type, name, replacement)
		if tt.Binder == name {
			return Lambda{Binder: tt.Binder, Type: typ, Body: tt.Body}
		}
		binder, body := avoidCapture(tt.Binder, tt.Body, name, replacement)
		return Lambda{Binder: binder, Type: typ, Body: Subst(body, name, replacement)}
	case Prod:
		typ := Subst(tt.Type, name, replacement)
		if tt.Binder == name {
			return Prod{Binder: tt.Binder, Type: typ, Body: tt.Body}
		}
		binder, body := avoidCapture(tt.Binder, tt.Body, name, replacement)
		return Prod{Binder: binder, Type: typ, Body: Subst(body, name, replacement)}
	default:
		return t
	}
}

// avoidCapture renames binder when substituting replacement into body would
// capture one of the replacement's free variables. The fresh name avoids
// every name in body, so the rename itself cannot capture.
func avoidCapture(binder string, body Term, name string, replacement Term) (string, Term) {
	if !FreeVars(replacement)[binder] || !FreeVars(body)[name] {
		return binder, body
	}
	avoid := map[string]bool{name: true}
	collectNames(replacement, avoid)
	collectNames(body, avoid)
	var fresh string
	for i := 0; ; i++ {
		fresh = binder + strconv.Itoa(i)
		if !avoid[fresh] {
			break
		}
	}
	return fresh, Subst(body, binder, Var{Name: fresh})
}

// collectNames gathers every variable and binder name occurring in t.
func collectNames(t Term, into map[string]bool) {
	switch tt := t.(type) {
	case Var:
		into[tt.Name] = true
	case App:
		collectNames(tt.Head, into)
		for _, a := range tt.Args {
			collectNames(a, into)
		}
	case Lambda:
		into[tt.Binder] = true
		collectNames(tt.Type, into)
		collectNames(tt.Body, into)
	case Prod:
		into[tt.Binder] = true
		collectNames(tt.Type, into)
		collectNames(tt.Body, into)
	}
}

// SubstAll applies a set of independent substitutions in one pass.
func SubstAll(t Term, subst map[string]Term) Term {
	for name, rep := range subst {
		t = Subst(t, name, rep)
	}
	return t
}

// FreeVars collects the names of free variables in t, in no particular order.
func FreeVars(t Term) map[string]bool {
	free := make(map[string]bool)
	collectFree(t, make(map[string]bool), free)
	return free
}

func collectFree(t Term, bound, free map[string]bool) {
	switch tt := t.(type) {
	case Var:
		if !bound[tt.Name] {
			free[tt.Name] = true
		}
	case App:
		collectFree(tt.Head, bound, free)
		for _, a := range tt.Args {
			collectFree(a, bound, free)
		}
	case Lambda:
		collectFree(tt.Type, bound, free)
		shadowed := bound[tt.Binder]
		bound[tt.Binder] = true
		collectFree(tt.Body, bound, free)
		bound[tt.Binder] = shadowed
	case Prod:
		collectFree(tt.Type, bound, free)
		shadowed := bound[tt.Binder]
		bound[tt.Binder] = true
		collectFree(tt.Body, bound, free)
		bound[tt.Binder] = shadowed
	}
}
