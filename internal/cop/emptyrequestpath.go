package cop

import (
	"fmt"
	"strings"

	"github.com/phobologic/grapelint/internal/correct"
	"github.com/phobologic/grapelint/internal/grape"
	"github.com/phobologic/grapelint/internal/model"
	"github.com/phobologic/grapelint/internal/parse"
	"github.com/phobologic/grapelint/internal/syntax"
)

// EmptyRequestPathName is the configuration key of the EmptyRequestPath cop.
const EmptyRequestPathName = "Grape/EmptyRequestPath"

// EmptyRequestPath flags request declarations given a blank path, which is
// the same as giving none: `post '' do` is `post do`.
type EmptyRequestPath struct{}

// Name implements Cop.
func (EmptyRequestPath) Name() string {
	return EmptyRequestPathName
}

// Check implements Cop.
func (EmptyRequestPath) Check(f *parse.File) []Finding {
	var out []Finding
	syntax.Walk(f.Root, func(n *syntax.Node) bool {
		if !blankPathCall(n) {
			return true
		}
		arg := n.Args[0]
		at := blankPathRange(n)
		fix := correct.Replacement{Span: at, Original: at.Text(f.Source)}
		msg := fmt.Sprintf("Do not pass a blank path to `%s`.", n.Method)
		out = append(out, finding(f, EmptyRequestPathName, model.BlankPath, arg.Span, msg, fix))
		return true
	})
	return out
}

func blankPathCall(n *syntax.Node) bool {
	if n.Kind != syntax.Call || n.Receiver != nil || !grape.IsRequestMethod(n.Method) || len(n.Args) == 0 {
		return false
	}
	arg := n.Args[0]
	return arg.Kind == syntax.String && !arg.Interpolated && strings.TrimSpace(arg.Value) == ""
}

// blankPathRange returns the text to delete: the argument up to the next
// one, the argument with its parentheses, or the argument with the space
// separating it from the method name.
func blankPathRange(n *syntax.Node) syntax.Span {
	at := n.Args[0].Span
	switch {
	case len(n.Args) > 1:
		at.End = n.Args[1].Span.Start
	case n.Parenthesized:
		at.Start--
		at.End++
		at.Column--
	default:
		at.Column -= at.Start - n.Selector.End
		at.Start = n.Selector.End
	}
	return at
}
