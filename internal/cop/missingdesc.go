package cop

import (
	"slices"

	"github.com/phobologic/grapelint/internal/correct"
	"github.com/phobologic/grapelint/internal/grape"
	"github.com/phobologic/grapelint/internal/model"
	"github.com/phobologic/grapelint/internal/parse"
	"github.com/phobologic/grapelint/internal/syntax"
)

// MissingDescName is the configuration key of the MissingDesc cop.
const MissingDescName = "Grape/MissingDesc"

const (
	msgMissing       = "Grape API classes must have a `desc`."
	msgEmptyArgument = "`desc` must be given a non-empty string."
	msgMisplaced     = "`desc` must not be placed within a block."
)

// MissingDesc requires every API class to carry a `desc`.
//
// With TopLevel set, the desc must be a direct statement of the class body
// rather than nested in a block; such a misplaced desc is moved to the top of
// the class by autocorrect. With RequiredForResources unset, classes that only
// mount other APIs and declare no requests are exempt.
type MissingDesc struct {
	TopLevel             bool
	RequiredForResources bool
	// BaseClasses lists the superclass names that mark an API class.
	BaseClasses []string
}

// Verdict is the outcome of investigating one declaration.
type Verdict struct {
	// Kind is empty when the declaration conforms.
	Kind    model.OffenseKind
	Span    syntax.Span
	Message string
	// Entry is the governing desc entry, if one was found.
	Entry *Entry
}

// Valid reports whether the declaration conforms.
func (v Verdict) Valid() bool {
	return v.Kind == ""
}

// Name implements Cop.
func (c *MissingDesc) Name() string {
	return MissingDescName
}

// Check implements Cop.
func (c *MissingDesc) Check(f *parse.File) []Finding {
	var out []Finding
	for _, decl := range f.Declarations {
		if !slices.Contains(c.BaseClasses, decl.Superclass) {
			continue
		}
		v := c.Investigate(decl.Node)
		if v.Valid() {
			continue
		}

		var fix correct.Corrector
		if v.Kind == model.Misplaced {
			r := correct.Relocation{
				Node:      v.Entry.Node,
				Text:      v.Entry.Span().Text(f.Source),
				Body:      decl.Node.Body,
				Container: decl.Node,
			}
			if r.Movable() {
				fix = r
			}
		}
		out = append(out, finding(f, MissingDescName, v.Kind, v.Span, v.Message, fix))
	}
	return out
}

// Investigate classifies the body of an API class declaration.
func (c *MissingDesc) Investigate(decl *syntax.Node) Verdict {
	body := decl.Body
	if !c.RequiredForResources && resourceLike(body) {
		return Verdict{}
	}

	entry := FindDescription(body)
	switch {
	case entry == nil:
		return Verdict{Kind: model.Missing, Span: decl.Span, Message: msgMissing}
	case entry.Empty():
		return Verdict{Kind: model.EmptyArgument, Span: entry.Call.Span, Message: msgEmptyArgument, Entry: entry}
	case c.TopLevel && !entry.Direct && !HasDirectDescription(body):
		return Verdict{Kind: model.Misplaced, Span: entry.Span(), Message: msgMisplaced, Entry: entry}
	}
	return Verdict{Entry: entry}
}

// resourceLike reports whether body only mounts other APIs. A body made of a
// single grouping block is judged by that block's contents; deeper nesting is
// not unwrapped.
func resourceLike(body *syntax.Node) bool {
	if grape.IsGroupingBlock(body) {
		body = body.Body
	}
	if body == nil {
		return false
	}
	return !grape.ContainsRequest(body) && grape.ContainsMount(body)
}
