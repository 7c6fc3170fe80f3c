// Package grape classifies Grape DSL constructs in a syntax tree.
package grape

import (
	"slices"

	"github.com/phobologic/grapelint/internal/syntax"
)

// GroupingMethods open a nested scope of further declarations.
var GroupingMethods = []string{"namespace", "resource", "resources", "group", "segment"}

// RequestMethods declare a single HTTP endpoint.
var RequestMethods = []string{"get", "post", "put", "head", "delete", "options", "patch"}

// IsRequestMethod reports whether name is an HTTP verb method.
func IsRequestMethod(name string) bool {
	return slices.Contains(RequestMethods, name)
}

// IsGroupingBlock reports whether n is a block wrapping a grouping call.
func IsGroupingBlock(n *syntax.Node) bool {
	return blockCalling(n, GroupingMethods)
}

// IsRequestBlock reports whether n is a block wrapping a request call.
func IsRequestBlock(n *syntax.Node) bool {
	return blockCalling(n, RequestMethods)
}

func blockCalling(n *syntax.Node, methods []string) bool {
	if n == nil || n.Kind != syntax.Block {
		return false
	}
	send := n.Send
	return send != nil && send.Receiver == nil && slices.Contains(methods, send.Method)
}

// ContainsRequest reports whether n or any of its descendants is a request block.
func ContainsRequest(n *syntax.Node) bool {
	return syntax.Find(n, IsRequestBlock) != nil
}

// IsMount reports whether n is a receiver-less mount call.
func IsMount(n *syntax.Node) bool {
	return n.IsCall("mount")
}

// ContainsMount reports whether n or any of its descendants is a mount call.
func ContainsMount(n *syntax.Node) bool {
	return syntax.Find(n, IsMount) != nil
}

// Statements returns the statements of a body, treating a lone statement
// as a sequence of one. A nil body has no statements.
func Statements(body *syntax.Node) []*syntax.Node {
	switch {
	case body == nil:
		return nil
	case body.Kind == syntax.Sequence:
		return body.Children
	default:
		return []*syntax.Node{body}
	}
}

// AnyStatement reports whether pred holds for any statement of body.
func AnyStatement(body *syntax.Node, pred func(*syntax.Node) bool) bool {
	return slices.ContainsFunc(Statements(body), pred)
}
