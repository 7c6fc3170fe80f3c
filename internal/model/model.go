// Package model defines core data structures for grapelint.
package model

import "github.com/phobologic/grapelint/internal/syntax"

// OffenseKind classifies a rule violation.
type OffenseKind string

const (
	Missing         OffenseKind = "missing"
	EmptyArgument   OffenseKind = "empty_argument"
	Misplaced       OffenseKind = "misplaced"
	BlankPath       OffenseKind = "blank_path"
	NoContentStatus OffenseKind = "no_content_status"
)

// Offense is a single reported rule violation.
type Offense struct {
	File        string
	Cop         string
	Kind        OffenseKind
	Span        syntax.Span
	Message     string
	Correctable bool
	Corrected   bool
}

// FileResult holds the offenses found in one file.
type FileResult struct {
	Path     string
	Offenses []Offense
	// Corrected is the rewritten source when autocorrect changed the file.
	Corrected []byte
}

// Report is the outcome of one lint run.
type Report struct {
	Files []FileResult
}

// OffenseCount returns the number of offenses across all files.
func (r *Report) OffenseCount() int {
	n := 0
	for i := range r.Files {
		n += len(r.Files[i].Offenses)
	}
	return n
}

// CorrectedCount returns the number of corrected offenses across all files.
func (r *Report) CorrectedCount() int {
	n := 0
	for i := range r.Files {
		for j := range r.Files[i].Offenses {
			if r.Files[i].Offenses[j].Corrected {
				n++
			}
		}
	}
	return n
}

// Outstanding reports whether any offense was left uncorrected.
func (r *Report) Outstanding() bool {
	return r.OffenseCount() > r.CorrectedCount()
}
