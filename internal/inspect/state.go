package inspect

import (
	"strconv"

	"github.com/funvibe/ornlift/internal/term"
)

// State is the evaluation state threaded through every inspector call: a
// monotone existential-variable context. It is passed in and returned
// updated; callers never mutate a State they did not receive back.
type State struct {
	next   int
	assign map[int]term.Term
}

func NewState() State {
	return State{assign: map[int]term.Term{}}
}

// Fresh allocates n unassigned placeholders with consecutive IDs.
func (s State) Fresh(n int) (State, []term.Term) {
	evars := make([]term.Term, n)
	for i := range evars {
		evars[i] = term.Evar{ID: s.next + i}
	}
	return State{next: s.next + n, assign: s.assign}, evars
}

// Define records an assignment for an unassigned placeholder. Assignments
// are append-only: defining an already-assigned placeholder is ignored.
func (s State) Define(id int, t term.Term) State {
	if _, ok := s.assign[id]; ok {
		return s
	}
	next := make(map[int]term.Term, len(s.assign)+1)
	for k, v := range s.assign {
		next[k] = v
	}
	next[id] = t
	return State{next: s.next, assign: next}
}

// Lookup resolves a placeholder assignment.
func (s State) Lookup(id int) (term.Term, bool) {
	t, ok := s.assign[id]
	return t, ok
}

// Resolve replaces every assigned placeholder in t with its assignment,
// repeatedly, so chains of assignments collapse.
func (s State) Resolve(t term.Term) term.Term {
	switch tt := t.(type) {
	case term.Evar:
		if def, ok := s.assign[tt.ID]; ok {
			return s.Resolve(def)
		}
		return tt
	case term.App:
		args := make([]term.Term, len(tt.Args))
		for i, a := range tt.Args {
			args[i] = s.Resolve(a)
		}
		return term.MkApp(s.Resolve(tt.Head), args...)
	case term.Lambda:
		return term.Lambda{Binder: tt.Binder, Type: s.Resolve(tt.Type), Body: s.Resolve(tt.Body)}
	case term.Prod:
		return term.Prod{Binder: tt.Binder, Type: s.Resolve(tt.Type), Body: s.Resolve(tt.Body)}
	default:
		return t
	}
}

// Binder is one entry of a zoomed scope.
type Binder struct {
	Name string
	Type term.Term
}

// Zoom strips the leading Lambda binders of t into a scope plus body.
func Zoom(t term.Term) ([]Binder, term.Term) {
	var scope []Binder
	for {
		lam, ok := t.(term.Lambda)
		if !ok {
			return scope, t
		}
		scope = append(scope, Binder{Name: lam.Binder, Type: lam.Type})
		t = lam.Body
	}
}

// FreshName returns a variable name not bound in scope, derived from base.
func FreshName(base string, scope []Binder) string {
	taken := func(name string) bool {
		for _, b := range scope {
			if b.Name == name {
				return true
			}
		}
		return false
	}
	if !taken(base) {
		return base
	}
	for i := 0; ; i++ {
		candidate := base + strconv.Itoa(i)
		if !taken(candidate) {
			return candidate
		}
	}
}
