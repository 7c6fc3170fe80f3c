package correct

import (
	"bytes"
	"strings"

	"github.com/phobologic/grapelint/internal/grape"
	"github.com/phobologic/grapelint/internal/syntax"
)

// Relocation moves a node to the top of a body it is nested in.
type Relocation struct {
	// Node is the node to move, including any attached block.
	Node *syntax.Node
	// Text is the source of Node captured when the offense was found.
	Text string
	// Body is the target body. Node must lie inside it.
	Body *syntax.Node
	// Container owns Body. It places the node when Body has no statements.
	Container *syntax.Node
}

// Plan implements Corrector. It deletes the node together with its
// surrounding whitespace and inserts a re-indented copy before the first
// statement of the body. A comment trailing the node's last line moves with it.
func (r Relocation) Plan(source []byte) (Plan, error) {
	if err := verify(source, r.Node.Span, r.Text); err != nil {
		return Plan{}, err
	}
	moved := r.Node.Span
	moved.End = trailingComment(source, moved.End)
	del := removal(source, moved)
	text := Reindent(moved.Text(source), r.delta())

	stmts := grape.Statements(r.Body)
	if len(stmts) == 0 {
		return Plan{Edits: []Edit{del, r.soleStatement(source, text)}}, nil
	}

	first := stmts[0].Span
	ins := Edit{
		Start:   first.Start,
		End:     first.Start,
		NewText: text + "\n\n" + strings.Repeat(" ", first.Column),
	}
	return Plan{Edits: []Edit{del, ins}}, nil
}

// Movable reports whether re-indenting the node keeps its meaning. Heredoc
// text is literal: only squiggly heredocs strip indentation, and only when
// every line keeps at least the indentation being removed.
func (r Relocation) Movable() bool {
	heredoc, literal := false, false
	syntax.Walk(r.Node, func(n *syntax.Node) bool {
		if n.Type != "heredoc_beginning" {
			return true
		}
		heredoc = true
		off := n.Span.Start - r.Node.Span.Start
		if off < 0 || off > len(r.Text) || !strings.HasPrefix(r.Text[off:], "<<~") {
			literal = true
		}
		return true
	})
	if !heredoc {
		return true
	}
	if literal {
		return false
	}
	delta := r.delta()
	for _, line := range strings.Split(r.Text, "\n")[1:] {
		if strings.TrimSpace(line) != "" && leadingSpace(line) < delta {
			return false
		}
	}
	return true
}

// delta is the indentation removed from the node when it moves.
func (r Relocation) delta() int {
	if stmts := grape.Statements(r.Body); len(stmts) > 0 {
		return r.Node.Span.Column - stmts[0].Span.Column
	}
	return r.Node.Span.Column - r.soleIndent()
}

func (r Relocation) soleIndent() int {
	if r.Container != nil {
		return r.Container.Span.Column + 2
	}
	return 2
}

// soleStatement inserts text on a new line after the container's header.
func (r Relocation) soleStatement(source []byte, text string) Edit {
	pos := len(source)
	if r.Container != nil {
		pos = r.Container.Span.End
		if nl := bytes.IndexByte(source[r.Container.Span.Start:r.Container.Span.End], '\n'); nl >= 0 {
			pos = r.Container.Span.Start + nl
		}
	}
	return Edit{Start: pos, End: pos, NewText: "\n" + strings.Repeat(" ", r.soleIndent()) + text}
}

// trailingComment returns the end of a comment that follows end on the same
// line, or end when the rest of the line is not a comment.
func trailingComment(source []byte, end int) int {
	i := end
	for i < len(source) && (source[i] == ' ' || source[i] == '\t') {
		i++
	}
	if i == len(source) || source[i] != '#' {
		return end
	}
	if nl := bytes.IndexByte(source[i:], '\n'); nl >= 0 {
		i += nl
	} else {
		i = len(source)
	}
	for i > end && isSpace(source[i-1]) {
		i--
	}
	return i
}

// removal deletes s and all whitespace around it. The gap is closed with a
// newline and the indentation of whatever follows, so the next token keeps
// its column.
func removal(source []byte, s syntax.Span) Edit {
	start := s.Start
	for start > 0 && isSpace(source[start-1]) {
		start--
	}
	end := s.End
	for end < len(source) && isSpace(source[end]) {
		end++
	}

	text := " "
	switch {
	case bytes.IndexByte(source[s.End:end], '\n') >= 0:
		lineStart := bytes.LastIndexByte(source[:end], '\n') + 1
		text = "\n" + strings.Repeat(" ", end-lineStart)
	case bytes.IndexByte(source[start:s.Start], '\n') >= 0:
		text = "\n" + strings.Repeat(" ", s.Column)
	}
	if start == 0 || end == len(source) {
		text = strings.TrimRight(text, " ")
	}
	return Edit{Start: start, End: end, NewText: text}
}

// Reindent removes delta leading whitespace characters from every line that
// has at least that many. A non-positive delta leaves text unchanged.
func Reindent(text string, delta int) string {
	if delta <= 0 {
		return text
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if leadingSpace(line) >= delta {
			lines[i] = line[delta:]
		}
	}
	return strings.Join(lines, "\n")
}

func leadingSpace(line string) int {
	n := 0
	for n < len(line) && (line[n] == ' ' || line[n] == '\t') {
		n++
	}
	return n
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}
