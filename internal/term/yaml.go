package term

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Terms cross two serialization boundaries: YAML plan files describe terms
// as structured trees, and the session store persists cached lifted terms as
// YAML text. Both go through the Node wrapper below so the two encodings
// never drift apart.

// Node is the YAML-facing representation of a Term. Exactly one field group
// is set per node; which one determines the variant.
type Node struct {
	Var   string      `yaml:"var,omitempty"`
	Const string      `yaml:"const,omitempty"`
	Sort  string      `yaml:"sort,omitempty"`
	Ind   string      `yaml:"ind,omitempty"`
	Ctor  *CtorNode   `yaml:"ctor,omitempty"`
	Evar  *int        `yaml:"evar,omitempty"`
	App   *AppNode    `yaml:"app,omitempty"`
	Lam   *BinderNode `yaml:"lam,omitempty"`
	Prod  *BinderNode `yaml:"prod,omitempty"`
}

type CtorNode struct {
	Ind   string `yaml:"ind"`
	Index int    `yaml:"index"`
}

type AppNode struct {
	Head Node   `yaml:"head"`
	Args []Node `yaml:"args"`
}

type BinderNode struct {
	Name string `yaml:"name"`
	Type Node   `yaml:"type"`
	Body Node   `yaml:"body"`
}

// ToNode converts a term to its YAML representation.
func ToNode(t Term) Node {
	switch tt := t.(type) {
	case Var:
		return Node{Var: tt.Name}
	case Const:
		return Node{Const: tt.Name}
	case Sort:
		return Node{Sort: tt.Name}
	case Ind:
		return Node{Ind: tt.Name}
	case Construct:
		return Node{Ctor: &CtorNode{Ind: tt.Ind, Index: tt.Index}}
	case Evar:
		id := tt.ID
		return Node{Evar: &id}
	case App:
		app := &AppNode{Head: ToNode(tt.Head), Args: make([]Node, len(tt.Args))}
		for i, a := range tt.Args {
			app.Args[i] = ToNode(a)
		}
		return Node{App: app}
	case Lambda:
		return Node{Lam: &BinderNode{Name: tt.Binder, Type: ToNode(tt.Type), Body: ToNode(tt.Body)}}
	case Prod:
		return Node{Prod: &BinderNode{Name: tt.Binder, Type: ToNode(tt.Type), Body: ToNode(tt.Body)}}
	default:
		return Node{}
	}
}

// FromNode converts a YAML node back into a term.
func (n Node) FromNode() (Term, error) {
	switch {
	case n.Var != "":
		return Var{Name: n.Var}, nil
	case n.Const != "":
		return Const{Name: n.Const}, nil
	case n.Sort != "":
		return Sort{Name: n.Sort}, nil
	case n.Ind != "":
		return Ind{Name: n.Ind}, nil
	case n.Ctor != nil:
		return Construct{Ind: n.Ctor.Ind, Index: n.Ctor.Index}, nil
	case n.Evar != nil:
		return Evar{ID: *n.Evar}, nil
	case n.App != nil:
		head, err := n.App.Head.FromNode()
		if err != nil {
			return nil, err
		}
		args := make([]Term, len(n.App.Args))
		for i, an := range n.App.Args {
			if args[i], err = an.FromNode(); err != nil {
				return nil, err
			}
		}
		return App{Head: head, Args: args}, nil
	case n.Lam != nil:
		typ, body, err := n.Lam.parts()
		if err != nil {
			return nil, err
		}
		return Lambda{Binder: n.Lam.Name, Type: typ, Body: body}, nil
	case n.Prod != nil:
		typ, body, err := n.Prod.parts()
		if err != nil {
			return nil, err
		}
		return Prod{Binder: n.Prod.Name, Type: typ, Body: body}, nil
	default:
		return nil, fmt.Errorf("empty term node")
	}
}

func (b *BinderNode) parts() (Term, Term, error) {
	typ, err := b.Type.FromNode()
	if err != nil {
		return nil, nil, err
	}
	body, err := b.Body.FromNode()
	if err != nil {
		return nil, nil, err
	}
	return typ, body, nil
}

// MarshalTerm serializes a term to YAML text.
func MarshalTerm(t Term) ([]byte, error) {
	return yaml.Marshal(ToNode(t))
}

// UnmarshalTerm deserializes YAML text produced by MarshalTerm.
func UnmarshalTerm(data []byte) (Term, error) {
	var n Node
	if err := yaml.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("decoding term: %w", err)
	}
	return n.FromNode()
}
