// Package correct builds and applies text corrections for reported offenses.
//
// Corrections are computed against an unmodified source buffer and applied in
// a single pass, so every plan built from the same buffer shares one
// coordinate space.
package correct

import (
	"errors"
	"fmt"
	"slices"

	"github.com/phobologic/grapelint/internal/syntax"
)

var (
	// ErrCorrectionStale reports that the source no longer holds the text a
	// correction was computed for.
	ErrCorrectionStale = errors.New("correction is stale")

	// ErrOverlap reports edits that touch the same region of the source.
	ErrOverlap = errors.New("overlapping edits")
)

// Edit replaces source[Start:End] with NewText. Start == End is an insertion.
type Edit struct {
	Start   int
	End     int
	NewText string
}

// Plan is an ordered set of non-overlapping edits that together fix one offense.
type Plan struct {
	Edits []Edit
}

// Corrector computes a plan against the current source buffer.
type Corrector interface {
	Plan(source []byte) (Plan, error)
}

// Replacement replaces a span whose original text is known.
type Replacement struct {
	Span     syntax.Span
	Original string
	NewText  string
}

// Plan implements Corrector.
func (r Replacement) Plan(source []byte) (Plan, error) {
	if err := verify(source, r.Span, r.Original); err != nil {
		return Plan{}, err
	}
	return Plan{Edits: []Edit{{Start: r.Span.Start, End: r.Span.End, NewText: r.NewText}}}, nil
}

// verify checks that source still holds want at s.
func verify(source []byte, s syntax.Span, want string) error {
	if s.Start < 0 || s.End > len(source) || s.Start > s.End {
		return fmt.Errorf("span %d:%d outside %d-byte source: %w", s.Start, s.End, len(source), ErrCorrectionStale)
	}
	if string(source[s.Start:s.End]) != want {
		return fmt.Errorf("text at line %d changed: %w", s.Line, ErrCorrectionStale)
	}
	return nil
}

// Apply returns a copy of source with edits applied. All edits must be
// relative to source itself; they are applied in descending start order so
// earlier offsets stay valid.
func Apply(source []byte, edits []Edit) ([]byte, error) {
	sorted := slices.Clone(edits)
	slices.SortFunc(sorted, compareEdits)

	for i, e := range sorted {
		if e.Start < 0 || e.End > len(source) || e.Start > e.End {
			return nil, fmt.Errorf("edit %d:%d outside %d-byte source", e.Start, e.End, len(source))
		}
		if i > 0 && overlaps(sorted[i-1], e) {
			return nil, fmt.Errorf("edits at %d and %d: %w", sorted[i-1].Start, e.Start, ErrOverlap)
		}
	}

	out := slices.Clone(source)
	for i := len(sorted) - 1; i >= 0; i-- {
		e := sorted[i]
		out = slices.Replace(out, e.Start, e.End, []byte(e.NewText)...)
	}
	return out, nil
}

// compareEdits orders by start, placing an insertion before a replacement
// that begins at the same offset.
func compareEdits(a, b Edit) int {
	if a.Start != b.Start {
		return a.Start - b.Start
	}
	return a.End - b.End
}

// overlaps reports whether a and b conflict. Two insertions at the same
// offset conflict because their relative order would be ambiguous.
func overlaps(a, b Edit) bool {
	if compareEdits(a, b) > 0 {
		a, b = b, a
	}
	if a.Start == a.End && b.Start == b.End {
		return a.Start == b.Start
	}
	return a.End > b.Start
}

// Combine merges plans in order, skipping any plan that overlaps an already
// accepted one. It returns the merged edits and the indexes of the accepted plans.
func Combine(plans []Plan) ([]Edit, []int) {
	var (
		edits    []Edit
		accepted []int
	)
	for i, p := range plans {
		if conflicts(edits, p.Edits) {
			continue
		}
		edits = append(edits, p.Edits...)
		accepted = append(accepted, i)
	}
	return edits, accepted
}

func conflicts(have, add []Edit) bool {
	for _, a := range add {
		for _, h := range have {
			if overlaps(h, a) {
				return true
			}
		}
	}
	return false
}
