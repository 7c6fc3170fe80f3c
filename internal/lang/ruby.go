package lang

import (
	"github.com/smacker/go-tree-sitter/ruby"
)

// Ruby is the only language grapelint lints. Rakefiles and rackup files are
// plain Ruby and can hold Grape endpoints too.
func init() {
	Languages["ruby"] = &Language{
		Name:       "ruby",
		Extensions: []string{".rb", ".ru", ".rake"},
		lang:       ruby.GetLanguage(),
	}
}
