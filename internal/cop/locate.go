package cop

import (
	"github.com/phobologic/grapelint/internal/grape"
	"github.com/phobologic/grapelint/internal/syntax"
)

// Entry is a located `desc` declaration.
type Entry struct {
	// Node is the desc call, or the block wrapping it when one is attached.
	Node *syntax.Node
	// Call is the desc call itself.
	Call *syntax.Node
	// Direct is set when Node is a statement of the searched body.
	Direct bool
}

// HasBlock reports whether a detail block is attached.
func (e *Entry) HasBlock() bool {
	return e.Node.Kind == syntax.Block
}

// Span returns the full span of the entry, block included.
func (e *Entry) Span() syntax.Span {
	return e.Node.Span
}

// Empty reports whether the entry lacks a usable description: no argument at
// all, or a plain empty string. Non-literal arguments count as descriptions.
func (e *Entry) Empty() bool {
	if len(e.Call.Args) == 0 {
		return true
	}
	arg := e.Call.Args[0]
	return arg.Kind == syntax.String && !arg.Interpolated && arg.Value == ""
}

// IsDescription reports whether n is a desc call with at most one argument.
func IsDescription(n *syntax.Node) bool {
	return n.IsCall("desc") && len(n.Args) <= 1
}

// isEntry reports whether n is a desc call, with or without a block.
func isEntry(n *syntax.Node) bool {
	if n == nil {
		return false
	}
	if n.Kind == syntax.Block {
		return IsDescription(n.Send)
	}
	return IsDescription(n)
}

// FindDescription returns the first desc entry in body in depth-first
// document order, or nil. A node that does not qualify is still searched.
func FindDescription(body *syntax.Node) *Entry {
	for _, stmt := range grape.Statements(body) {
		found := syntax.Find(stmt, isEntry)
		if found == nil {
			continue
		}
		e := &Entry{Node: found, Call: found, Direct: found == stmt}
		if found.Kind == syntax.Block {
			e.Call = found.Send
		}
		return e
	}
	return nil
}

// HasDirectDescription reports whether any statement of body is itself a desc entry.
func HasDirectDescription(body *syntax.Node) bool {
	return grape.AnyStatement(body, isEntry)
}
