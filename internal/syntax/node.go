// Package syntax defines the node model the cops operate on: a closed,
// kind-tagged tree converted from a tree-sitter Ruby parse.
package syntax

// Kind tags the payload a Node carries.
type Kind uint8

const (
	Other Kind = iota
	Call
	Block
	Class
	String
	Symbol
	Integer
	Sequence
)

var kindNames = [...]string{
	Other:    "other",
	Call:     "call",
	Block:    "block",
	Class:    "class",
	String:   "string",
	Symbol:   "symbol",
	Integer:  "integer",
	Sequence: "sequence",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Span locates a node in its source buffer.
// Start and End are byte offsets, Line is 1-based, Column is a 0-based byte column.
type Span struct {
	Start  int
	End    int
	Line   int
	Column int
}

// Text returns the slice of source covered by the span.
func (s Span) Text(source []byte) string {
	if s.Start < 0 || s.End > len(source) || s.Start > s.End {
		return ""
	}
	return string(source[s.Start:s.End])
}

// Len returns the span's length in bytes.
func (s Span) Len() int {
	return s.End - s.Start
}

// Node is one element of the syntax tree. Which fields are meaningful depends on Kind:
//
//	Call:     Method, Receiver, Args, Selector, Parenthesized
//	Block:    Send (the wrapped Call), Body
//	Class:    Name, Superclass, Body
//	String:   Value, Interpolated
//	Symbol:   Value
//	Integer:  Value
//	Sequence: Children
//	Other:    Type, Children
//
// Body fields are nil for an empty body, the statement itself when there is
// exactly one, and a Sequence otherwise.
type Node struct {
	Kind Kind
	Span Span

	// Type is the tree-sitter node type the node was converted from.
	Type string

	Method        string
	Receiver      *Node
	Args          []*Node
	Selector      Span
	Parenthesized bool

	Send *Node
	Body *Node

	Name       string
	Superclass string

	Value        string
	Interpolated bool

	Children []*Node
}

// ChildNodes returns the node's children in document order.
func (n *Node) ChildNodes() []*Node {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case Call:
		var out []*Node
		if n.Receiver != nil {
			out = append(out, n.Receiver)
		}
		return append(out, n.Args...)
	case Block:
		out := []*Node{n.Send}
		if n.Body != nil {
			out = append(out, n.Body)
		}
		return out
	case Class:
		if n.Body != nil {
			return []*Node{n.Body}
		}
		return nil
	case Sequence, Other:
		return n.Children
	}
	return nil
}

// IsCall reports whether n is a receiver-less call to method.
func (n *Node) IsCall(method string) bool {
	return n != nil && n.Kind == Call && n.Receiver == nil && n.Method == method
}

// Walk visits n and its descendants in depth-first document order.
// Returning false from fn prunes the node's children.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.ChildNodes() {
		Walk(c, fn)
	}
}

// Find returns the first node in depth-first document order satisfying pred.
func Find(n *Node, pred func(*Node) bool) *Node {
	var found *Node
	Walk(n, func(c *Node) bool {
		if found != nil {
			return false
		}
		if pred(c) {
			found = c
			return false
		}
		return true
	})
	return found
}
