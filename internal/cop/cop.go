// Package cop implements the grapelint rules.
//
// Each cop inspects a parsed file and returns findings. A finding pairs an
// offense with an optional corrector that can compute a fix against the
// file's source.
package cop

import (
	"fmt"
	"slices"

	"github.com/phobologic/grapelint/internal/config"
	"github.com/phobologic/grapelint/internal/correct"
	"github.com/phobologic/grapelint/internal/model"
	"github.com/phobologic/grapelint/internal/parse"
	"github.com/phobologic/grapelint/internal/syntax"
)

// Cop is a single lint rule.
type Cop interface {
	Name() string
	Check(f *parse.File) []Finding
}

// Finding is an offense plus the means to correct it, if any.
type Finding struct {
	Offense   model.Offense
	Corrector correct.Corrector
}

// Names lists every cop in reporting order.
var Names = []string{MissingDescName, EmptyRequestPathName, StatusNoContentName}

// FromConfig builds the enabled cops. When only is non-empty, just those
// cops run, regardless of their Enabled setting.
func FromConfig(cfg config.Config, only []string) ([]Cop, error) {
	for _, name := range only {
		if !slices.Contains(Names, name) {
			return nil, fmt.Errorf("unknown cop %q", name)
		}
	}

	var cops []Cop
	for _, name := range Names {
		if len(only) > 0 {
			if !slices.Contains(only, name) {
				continue
			}
		} else if !cfg.Enabled(name) {
			continue
		}
		cops = append(cops, newCop(name, cfg))
	}
	return cops, nil
}

func newCop(name string, cfg config.Config) Cop {
	switch name {
	case MissingDescName:
		cc := cfg.Cop(name)
		return &MissingDesc{
			TopLevel:             config.BoolOr(cc.TopLevel, true),
			RequiredForResources: config.BoolOr(cc.RequiredForResources, true),
			BaseClasses:          cfg.BaseClasses(),
		}
	case EmptyRequestPathName:
		return EmptyRequestPath{}
	case StatusNoContentName:
		return StatusNoContent{}
	}
	panic("unregistered cop " + name)
}

func finding(f *parse.File, name string, kind model.OffenseKind, at syntax.Span, msg string, fix correct.Corrector) Finding {
	return Finding{
		Offense: model.Offense{
			File:        f.Path,
			Cop:         name,
			Kind:        kind,
			Span:        at,
			Message:     msg,
			Correctable: fix != nil,
		},
		Corrector: fix,
	}
}
