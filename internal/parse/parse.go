// Package parse turns Ruby source into syntax trees using tree-sitter.
package parse

import (
	"context"
	"errors"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/grapelint/internal/lang"
	"github.com/phobologic/grapelint/internal/syntax"
)

// ErrSyntax is returned when the source does not parse cleanly.
var ErrSyntax = errors.New("syntax error")

// Declaration is a class declaration with an explicit superclass.
type Declaration struct {
	Node       *syntax.Node
	Name       string
	Superclass string
}

// File is one parsed source file.
type File struct {
	Path         string
	Source       []byte
	Root         *syntax.Node
	Declarations []Declaration
}

// Parse parses source and collects its class declarations.
// The parser must be created for Ruby and query must be its declaration query.
// filePath is used only for File.Path and should be the repo-relative path.
func Parse(ctx context.Context, parser *sitter.Parser, query *sitter.Query, source []byte, filePath string) (*File, error) {
	f := &File{Path: filePath, Source: source}
	if len(source) == 0 {
		f.Root = &syntax.Node{Kind: syntax.Other, Type: "program"}
		return f, nil
	}

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filePath, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, fmt.Errorf("%s: %w", filePath, syntaxErrorAt(root))
	}

	conv := newConverter(source, root)
	f.Root = conv.convert(root)

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(query, root)

	for {
		match, ok := qc.NextMatch()
		if !ok {
			break
		}
		match = qc.FilterPredicates(match, source)

		var decl Declaration
		for _, c := range match.Captures {
			switch query.CaptureNameForId(c.Index) {
			case "declaration":
				decl.Node = conv.classes[c.Node.StartByte()]
			case "name":
				decl.Name = lang.NodeText(c.Node, source)
			case "superclass":
				decl.Superclass = lang.NodeText(c.Node, source)
			}
		}
		if decl.Node == nil {
			continue
		}
		f.Declarations = append(f.Declarations, decl)
	}

	return f, nil
}

// syntaxErrorAt locates the first ERROR or missing node for the message.
func syntaxErrorAt(root *sitter.Node) error {
	var walk func(n *sitter.Node) *sitter.Node
	walk = func(n *sitter.Node) *sitter.Node {
		if n.Type() == "ERROR" || n.IsMissing() {
			return n
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			if found := walk(n.Child(i)); found != nil {
				return found
			}
		}
		return nil
	}
	if n := walk(root); n != nil {
		p := n.StartPoint()
		return fmt.Errorf("%w at line %d, column %d", ErrSyntax, p.Row+1, p.Column+1)
	}
	return ErrSyntax
}
