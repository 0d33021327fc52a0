package prettyprinter

import (
	"strconv"
	"strings"

	"github.com/funvibe/ornlift/internal/term"
)

// --- Term Printer (compact notation for diagnostics and CLI output) ---

// Precedence levels (higher = binds tighter).
const (
	precBinder = 0
	precApp    = 1
	precAtom   = 2
)

// Print renders a term in a compact applicative notation:
//
//	cons h (backward v)
//	λx:list A. x
//	Πn:nat. vector A n
//
// Constructors print as family.index; PrintNamed resolves their names.
func Print(t term.Term) string {
	var sb strings.Builder
	printAt(&sb, nil, t, precBinder)
	return sb.String()
}

// PrintNamed renders like Print, resolving constructor names through env.
func PrintNamed(env *term.Env, t term.Term) string {
	var sb strings.Builder
	printAt(&sb, env, t, precBinder)
	return sb.String()
}

func printAt(sb *strings.Builder, env *term.Env, t term.Term, prec int) {
	switch tt := t.(type) {
	case term.Var:
		sb.WriteString(tt.Name)
	case term.Const:
		sb.WriteString(tt.Name)
	case term.Sort:
		sb.WriteString(tt.Name)
	case term.Ind:
		sb.WriteString(tt.Name)
	case term.Construct:
		if env != nil {
			sb.WriteString(PrintCtorName(env, tt))
			return
		}
		sb.WriteString(tt.Ind)
		sb.WriteString(".")
		sb.WriteString(strconv.Itoa(tt.Index))
	case term.Evar:
		sb.WriteString("?")
		sb.WriteString(strconv.Itoa(tt.ID))
	case term.App:
		if prec > precApp {
			sb.WriteString("(")
		}
		printAt(sb, env, tt.Head, precAtom)
		for _, a := range tt.Args {
			sb.WriteString(" ")
			printAt(sb, env, a, precAtom)
		}
		if prec > precApp {
			sb.WriteString(")")
		}
	case term.Lambda:
		printBinder(sb, env, "λ", tt.Binder, tt.Type, tt.Body, prec)
	case term.Prod:
		printBinder(sb, env, "Π", tt.Binder, tt.Type, tt.Body, prec)
	default:
		sb.WriteString("<?>")
	}
}

func printBinder(sb *strings.Builder, env *term.Env, symbol, name string, typ, body term.Term, prec int) {
	if prec > precBinder {
		sb.WriteString("(")
	}
	sb.WriteString(symbol)
	sb.WriteString(name)
	sb.WriteString(":")
	printAt(sb, env, typ, precApp)
	sb.WriteString(". ")
	printAt(sb, env, body, precBinder)
	if prec > precBinder {
		sb.WriteString(")")
	}
}

// PrintCtorName renders a constructor using its declared name when the
// environment knows it, falling back to family.index notation.
func PrintCtorName(env *term.Env, ctor term.Construct) string {
	if decl, ok := env.ConstructorOf(ctor.Ind, ctor.Index); ok && decl.Name != "" {
		return decl.Name
	}
	return ctor.Ind + "." + strconv.Itoa(ctor.Index)
}
