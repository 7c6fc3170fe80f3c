package parse

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/grapelint/internal/lang"
	"github.com/phobologic/grapelint/internal/syntax"
)

// statementContainers are tree-sitter node types whose named children are
// statements. A bare identifier in statement position is a method call
// (`desc` with no arguments), not a variable read.
var statementContainers = map[string]struct{}{
	"program":                  {},
	"body_statement":           {},
	"block_body":               {},
	"begin":                    {},
	"then":                     {},
	"else":                     {},
	"ensure":                   {},
	"parenthesized_statements": {},
	"argument_list":            {},
}

// bodyWrappers hold the statements of a class or block body in newer grammar
// versions; older ones place the statements directly under the parent.
var bodyWrappers = map[string]struct{}{
	"body_statement": {},
	"block_body":     {},
}

type converter struct {
	source  []byte
	classes map[uint32]*syntax.Node
	// heredocs maps the start of each heredoc opener to the end of its body.
	heredocs map[uint32]int
}

func newConverter(source []byte, root *sitter.Node) *converter {
	c := &converter{
		source:   source,
		classes:  make(map[uint32]*syntax.Node),
		heredocs: make(map[uint32]int),
	}
	c.indexHeredocs(root)
	return c
}

// indexHeredocs pairs heredoc openers with their bodies. A body is not a child
// of the call that opens it; it follows the opening line, so openers and
// bodies are matched in document order.
func (c *converter) indexHeredocs(root *sitter.Node) {
	var openers []uint32
	var ends []int
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		switch n.Type() {
		case "heredoc_beginning":
			openers = append(openers, n.StartByte())
		case "heredoc_body":
			end := int(n.EndByte())
			for end > int(n.StartByte()) && isSpace(c.source[end-1]) {
				end--
			}
			ends = append(ends, end)
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(root)
	for i := range min(len(openers), len(ends)) {
		c.heredocs[openers[i]] = ends[i]
	}
}

// heredocEnd returns the end of the last heredoc body opened within n, or -1.
func (c *converter) heredocEnd(n *sitter.Node) int {
	end := -1
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n.Type() == "heredoc_beginning" {
			if e, ok := c.heredocs[n.StartByte()]; ok {
				end = max(end, e)
			}
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(n)
	return end
}

// ignored reports whether n carries nothing for the syntax tree: comments and
// heredoc bodies, which are folded into the span of their opening call.
func ignored(n *sitter.Node) bool {
	switch n.Type() {
	case "comment", "heredoc_body":
		return true
	}
	return false
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r':
		return true
	}
	return false
}

func span(n *sitter.Node) syntax.Span {
	p := n.StartPoint()
	return syntax.Span{
		Start:  int(n.StartByte()),
		End:    int(n.EndByte()),
		Line:   int(p.Row) + 1,
		Column: int(p.Column),
	}
}

func (c *converter) convert(n *sitter.Node) *syntax.Node {
	switch n.Type() {
	case "call":
		return c.call(n)
	case "class":
		return c.class(n)
	case "string":
		return c.str(n)
	case "simple_symbol":
		return &syntax.Node{
			Kind:  syntax.Symbol,
			Type:  n.Type(),
			Span:  span(n),
			Value: strings.TrimPrefix(lang.NodeText(n, c.source), ":"),
		}
	case "integer":
		return &syntax.Node{Kind: syntax.Integer, Type: n.Type(), Span: span(n), Value: lang.NodeText(n, c.source)}
	}

	node := &syntax.Node{Kind: syntax.Other, Type: n.Type(), Span: span(n)}
	_, container := statementContainers[n.Type()]
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if ignored(child) {
			continue
		}
		if container {
			node.Children = append(node.Children, c.statement(child))
		} else {
			node.Children = append(node.Children, c.convert(child))
		}
	}
	return node
}

// statement converts a node in statement position.
func (c *converter) statement(n *sitter.Node) *syntax.Node {
	if n.Type() == "identifier" {
		s := span(n)
		return &syntax.Node{
			Kind:     syntax.Call,
			Type:     n.Type(),
			Span:     s,
			Method:   lang.NodeText(n, c.source),
			Selector: s,
		}
	}
	return c.convert(n)
}

func (c *converter) call(n *sitter.Node) *syntax.Node {
	call := &syntax.Node{Kind: syntax.Call, Type: n.Type(), Span: span(n)}

	if recv := n.ChildByFieldName("receiver"); recv != nil {
		call.Receiver = c.convert(recv)
	}
	if method := n.ChildByFieldName("method"); method != nil {
		call.Method = lang.NodeText(method, c.source)
		call.Selector = span(method)
	}
	args := n.ChildByFieldName("arguments")
	if args != nil {
		call.Parenthesized = args.ChildCount() > 0 && args.Child(0).Type() == "("
		for i := 0; i < int(args.NamedChildCount()); i++ {
			arg := args.NamedChild(i)
			if ignored(arg) {
				continue
			}
			call.Args = append(call.Args, c.statement(arg))
		}
	}

	// A heredoc argument's text lives on the lines after the call.
	end := call.Span.End
	if args != nil {
		end = max(end, c.heredocEnd(args))
	}

	blk := n.ChildByFieldName("block")
	if blk == nil {
		call.Span.End = end
		return call
	}

	// The wrapped call ends where its arguments (or its selector) end.
	switch {
	case args != nil:
		call.Span.End = int(args.EndByte())
	case call.Method != "":
		call.Span.End = call.Selector.End
	}
	whole := span(n)
	whole.End = max(whole.End, end)
	return &syntax.Node{
		Kind: syntax.Block,
		Type: blk.Type(),
		Span: whole,
		Send: call,
		Body: c.body(blk, nil),
	}
}

func (c *converter) class(n *sitter.Node) *syntax.Node {
	cls := &syntax.Node{Kind: syntax.Class, Type: n.Type(), Span: span(n)}

	skip := make(map[uint32]struct{})
	if name := n.ChildByFieldName("name"); name != nil {
		cls.Name = lang.NodeText(name, c.source)
		skip[name.StartByte()] = struct{}{}
	}
	if sc := n.ChildByFieldName("superclass"); sc != nil {
		if sc.NamedChildCount() > 0 {
			cls.Superclass = lang.NodeText(sc.NamedChild(0), c.source)
		}
		skip[sc.StartByte()] = struct{}{}
	}
	cls.Body = c.body(n, skip)

	c.classes[n.StartByte()] = cls
	return cls
}

// body collects the statements of a class or block node, skipping header
// children (name, superclass, block parameters) and comments.
func (c *converter) body(n *sitter.Node, skip map[uint32]struct{}) *syntax.Node {
	var stmts []*syntax.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if _, ok := skip[child.StartByte()]; ok {
			continue
		}
		if ignored(child) || child.Type() == "block_parameters" {
			continue
		}
		if _, ok := bodyWrappers[child.Type()]; ok {
			for j := 0; j < int(child.NamedChildCount()); j++ {
				stmt := child.NamedChild(j)
				if ignored(stmt) {
					continue
				}
				stmts = append(stmts, c.statement(stmt))
			}
			continue
		}
		stmts = append(stmts, c.statement(child))
	}
	return pack(stmts)
}

// pack mirrors the parser convention for bodies: nil when empty, the
// statement itself when alone, a Sequence otherwise.
func pack(stmts []*syntax.Node) *syntax.Node {
	switch len(stmts) {
	case 0:
		return nil
	case 1:
		return stmts[0]
	}
	first, last := stmts[0].Span, stmts[len(stmts)-1].Span
	return &syntax.Node{
		Kind:     syntax.Sequence,
		Span:     syntax.Span{Start: first.Start, End: last.End, Line: first.Line, Column: first.Column},
		Children: stmts,
	}
}

func (c *converter) str(n *sitter.Node) *syntax.Node {
	node := &syntax.Node{Kind: syntax.String, Type: n.Type(), Span: span(n)}
	var b strings.Builder
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "string_content", "escape_sequence":
			b.WriteString(lang.NodeText(child, c.source))
		case "interpolation":
			node.Interpolated = true
		}
	}
	node.Value = b.String()
	return node
}
