// Package jsx holds tree-sitter query patterns over JSX markup.
//
// The JavaScript and TSX grammars share node names for JSX, objects and
// imports, so one set of patterns serves both.
package jsx

// StyleQueries matches inline style attributes whose value is an object
// literal wrapped in an expression container: style={{ ... }}.
//
// Captures:
//   - @style.attribute - the whole jsx_attribute node
//   - @style.name      - the attribute name (always "style")
//   - @style.object    - the object expression
const StyleQueries = `
(jsx_attribute
  (property_identifier) @style.name
  (jsx_expression
    (object) @style.object)
  (#eq? @style.name "style")
) @style.attribute
`

// ImportQueries matches import statements and the local names they bind.
//
// Captures:
//   - @import.statement - the import_statement node
//   - @import.source    - module path without quotes
//   - @import.default   - default binding (import styled from ...)
//   - @import.named     - named binding without alias
//   - @import.alias     - alias of a named binding
//   - @import.namespace - namespace binding (import * as styled from ...)
const ImportQueries = `
(import_statement
  source: (string (string_fragment) @import.source)
) @import.statement

(import_clause
  (identifier) @import.default
)

(import_specifier
  name: (identifier) @import.named
)

(import_specifier
  alias: (identifier) @import.alias
)

(namespace_import
  (identifier) @import.namespace
)
`
