package cop

import (
	"fmt"

	"github.com/phobologic/grapelint/internal/correct"
	"github.com/phobologic/grapelint/internal/model"
	"github.com/phobologic/grapelint/internal/parse"
	"github.com/phobologic/grapelint/internal/syntax"
)

// StatusNoContentName is the configuration key of the StatusNoContent cop.
const StatusNoContentName = "Grape/StatusNoContent"

// StatusNoContent flags `status :no_content` and `status 204`. Without a
// body some clients never see the request complete; `body false` sets the
// same status and ends the response.
type StatusNoContent struct{}

// Name implements Cop.
func (StatusNoContent) Name() string {
	return StatusNoContentName
}

// Check implements Cop.
func (StatusNoContent) Check(f *parse.File) []Finding {
	var out []Finding
	syntax.Walk(f.Root, func(n *syntax.Node) bool {
		if !noContentStatus(n) {
			return true
		}
		src := n.Span.Text(f.Source)
		fix := correct.Replacement{Span: n.Span, Original: src, NewText: "body false"}
		msg := fmt.Sprintf("Use `body false` instead of `%s`.", src)
		out = append(out, finding(f, StatusNoContentName, model.NoContentStatus, n.Span, msg, fix))
		return false
	})
	return out
}

func noContentStatus(n *syntax.Node) bool {
	if !n.IsCall("status") || len(n.Args) != 1 {
		return false
	}
	arg := n.Args[0]
	switch arg.Kind {
	case syntax.Symbol:
		return arg.Value == "no_content"
	case syntax.Integer:
		return arg.Value == "204"
	}
	return false
}
