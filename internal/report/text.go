// Package report renders lint results for terminals.
package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/phobologic/grapelint/internal/model"
)

// Text writes offenses one per line followed by a summary, in the form
//
//	app/api/users.rb:3:5: C: [Corrected] Grape/MissingDesc: `desc` must not be placed within a block.
type Text struct {
	w io.Writer

	path      *color.Color
	severity  *color.Color
	corrected *color.Color
	clean     *color.Color
	dirty     *color.Color
}

// NewText returns a Text writing to w. Colors are used only when colored is set.
func NewText(w io.Writer, colored bool) *Text {
	t := &Text{
		w:         w,
		path:      color.New(color.FgCyan),
		severity:  color.New(color.FgYellow, color.Bold),
		corrected: color.New(color.FgGreen),
		clean:     color.New(color.FgGreen),
		dirty:     color.New(color.FgRed),
	}
	for _, c := range []*color.Color{t.path, t.severity, t.corrected, t.clean, t.dirty} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return t
}

// Write renders r. inspected is the number of files looked at, which may
// exceed len(r.Files) when some could not be parsed.
func (t *Text) Write(r *model.Report, inspected int) error {
	for i := range r.Files {
		fr := &r.Files[i]
		for j := range fr.Offenses {
			if err := t.offense(fr.Path, &fr.Offenses[j]); err != nil {
				return err
			}
		}
	}
	if r.OffenseCount() > 0 {
		if _, err := fmt.Fprintln(t.w); err != nil {
			return err
		}
	}
	return t.summary(r, inspected)
}

func (t *Text) offense(path string, o *model.Offense) error {
	tag := ""
	if o.Corrected {
		tag = t.corrected.Sprint("[Corrected]") + " "
	} else if o.Correctable {
		tag = "[Correctable] "
	}
	_, err := fmt.Fprintf(t.w, "%s:%d:%d: %s: %s%s: %s\n",
		t.path.Sprint(path), o.Span.Line, o.Span.Column+1,
		t.severity.Sprint("C"), tag, o.Cop, o.Message)
	return err
}

func (t *Text) summary(r *model.Report, inspected int) error {
	n := r.OffenseCount()
	counts := t.clean.Sprint("no offenses")
	if n > 0 {
		counts = t.dirty.Sprint(plural(n, "offense"))
	}
	line := fmt.Sprintf("%s inspected, %s detected", plural(inspected, "file"), counts)
	if c := r.CorrectedCount(); c > 0 {
		line += ", " + t.corrected.Sprintf("%d corrected", c)
	}
	_, err := fmt.Fprintln(t.w, line)
	return err
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
