package styco

import (
	"github.com/gnana997/styco/pkg/generator"
)

// Config holds the refactor options. It is built once by the host and
// passed to every invocation.
type Config struct {
	// SaveAfterExecute persists the document after a successful edit.
	SaveAfterExecute bool `yaml:"save_after_execute" toml:"save_after_execute" json:"save_after_execute"`
	// OrderStyleByName sorts the emitted style lines by CSS property name.
	OrderStyleByName bool `yaml:"order_style_by_name" toml:"order_style_by_name" json:"order_style_by_name"`
	// ObjectSyntax emits styled.tag({...}) instead of a tagged template.
	ObjectSyntax bool `yaml:"object_syntax" toml:"object_syntax" json:"object_syntax"`
	// InsertImportStatement adds an import for `styled` when the nearest
	// package.json declares a supported library and none is imported yet.
	InsertImportStatement bool `yaml:"insert_import_statement" toml:"insert_import_statement" json:"insert_import_statement"`
	// DisableCodeAction suppresses the quick-fix trigger.
	DisableCodeAction bool `yaml:"disable_code_action" toml:"disable_code_action" json:"disable_code_action"`
}

// DefaultConfig returns the defaults: only import insertion is enabled.
func DefaultConfig() Config {
	return Config{InsertImportStatement: true}
}

// GeneratorOptions returns the options the synthesizer needs.
func (c Config) GeneratorOptions() generator.Options {
	return generator.Options{
		OrderByName:  c.OrderStyleByName,
		ObjectSyntax: c.ObjectSyntax,
	}
}
