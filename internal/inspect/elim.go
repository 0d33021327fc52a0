package inspect

import (
	"github.com/funvibe/ornlift/internal/term"
)

// ElimApp is the structured view of an eliminator application:
//
//	elim params… motive minors… finals…
//
// with one minor premise per constructor of the eliminated family.
type ElimApp struct {
	Elim   string
	Ind    string
	Params []term.Term
	Motive term.Term
	Minors []term.Term
	Finals []term.Term
}

// DeconstructElim recognizes an application of a registered eliminator and
// splits its argument spine. Under-applied eliminators (missing the motive
// or a minor premise) do not deconstruct.
func DeconstructElim(env *term.Env, t term.Term) (ElimApp, bool) {
	head, args := term.Decompose(t)
	c, ok := head.(term.Const)
	if !ok {
		return ElimApp{}, false
	}
	indName, ok := env.ElimTarget(c.Name)
	if !ok {
		return ElimApp{}, false
	}
	ind, ok := env.LookupInd(indName)
	if !ok {
		return ElimApp{}, false
	}
	needed := ind.NParams + 1 + len(ind.Constructors)
	if len(args) < needed {
		return ElimApp{}, false
	}
	return ElimApp{
		Elim:   c.Name,
		Ind:    indName,
		Params: args[:ind.NParams],
		Motive: args[ind.NParams],
		Minors: args[ind.NParams+1 : needed],
		Finals: args[needed:],
	}, true
}

// Recompose rebuilds the application the ElimApp was deconstructed from,
// possibly with a different eliminator constant.
func (e ElimApp) Recompose(elim string) term.Term {
	args := make([]term.Term, 0, len(e.Params)+1+len(e.Minors)+len(e.Finals))
	args = append(args, e.Params...)
	args = append(args, e.Motive)
	args = append(args, e.Minors...)
	args = append(args, e.Finals...)
	return term.MkApp(term.Const{Name: elim}, args...)
}
