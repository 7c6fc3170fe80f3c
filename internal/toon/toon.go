// Package toon implements TOON (Token-Oriented Object Notation) encoding.
package toon

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/phobologic/grapelint/internal/model"
)

var (
	needsQuoting = regexp.MustCompile(`[,:"\\{}\[\]]`)
	looksNumeric = regexp.MustCompile(`^-?(?:0|[1-9]\d*)(?:\.\d+)?$`)
	keywords     = map[string]struct{}{
		"true":  {},
		"false": {},
		"null":  {},
	}
)

// Encode converts a lint report into TOON format.
func Encode(root string, r *model.Report) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("root: %s", encodeValue(root)))

	var fileRows [][]string
	for i := range r.Files {
		fr := &r.Files[i]
		corrected := 0
		for j := range fr.Offenses {
			if fr.Offenses[j].Corrected {
				corrected++
			}
		}
		fileRows = append(fileRows, []string{
			fr.Path,
			strconv.Itoa(len(fr.Offenses)),
			strconv.Itoa(corrected),
		})
	}
	parts = append(parts, formatTabular("files", []string{"path", "offenses", "corrected"}, fileRows))

	var offenseRows [][]string
	for i := range r.Files {
		fr := &r.Files[i]
		for j := range fr.Offenses {
			o := &fr.Offenses[j]
			offenseRows = append(offenseRows, []string{
				fr.Path,
				strconv.Itoa(o.Span.Line),
				strconv.Itoa(o.Span.Column + 1),
				o.Cop,
				string(o.Kind),
				o.Message,
				status(o),
			})
		}
	}
	parts = append(parts, formatTabular("offenses",
		[]string{"file", "line", "column", "cop", "kind", "message", "status"}, offenseRows))

	return strings.Join(parts, "\n")
}

func status(o *model.Offense) string {
	switch {
	case o.Corrected:
		return "corrected"
	case o.Correctable:
		return "correctable"
	}
	return "offense"
}

func formatTabular(name string, columns []string, rows [][]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s[%d]{%s}:", name, len(rows), strings.Join(columns, ","))
	for _, row := range rows {
		encoded := make([]string, len(row))
		for i, cell := range row {
			encoded[i] = encodeValue(cell)
		}
		fmt.Fprintf(&b, "\n  %s", strings.Join(encoded, ","))
	}
	return b.String()
}

func encodeValue(value string) string {
	if value == "" {
		return `""`
	}

	if value != strings.TrimSpace(value) {
		return quote(value)
	}

	if strings.ContainsAny(value, "\n\r\t") {
		return quote(value)
	}

	if _, ok := keywords[strings.ToLower(value)]; ok {
		return quote(value)
	}

	if looksNumeric.MatchString(value) {
		return value
	}

	if needsQuoting.MatchString(value) {
		return quote(value)
	}

	if strings.HasPrefix(value, "-") {
		return quote(value)
	}

	return value
}

func quote(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	escaped = strings.ReplaceAll(escaped, "\n", `\n`)
	escaped = strings.ReplaceAll(escaped, "\r", `\r`)
	escaped = strings.ReplaceAll(escaped, "\t", `\t`)
	return `"` + escaped + `"`
}
