package parser

import (
	"path/filepath"
	"strings"
)

// Language represents a supported grammar family.
type Language int

const (
	// LanguageTypeScript represents TypeScript (.ts, .tsx files)
	LanguageTypeScript Language = iota
	// LanguageJavaScript represents JavaScript (.js, .jsx files)
	LanguageJavaScript
	// LanguageUnknown represents an unsupported language
	LanguageUnknown
)

// String returns the string representation of the language.
func (l Language) String() string {
	switch l {
	case LanguageTypeScript:
		return "typescript"
	case LanguageJavaScript:
		return "javascript"
	default:
		return "unknown"
	}
}

// DetectLanguage detects the programming language from a file path.
// Returns LanguageUnknown if the file extension is not recognized.
func DetectLanguage(filePath string) Language {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".ts", ".mts", ".cts", ".tsx":
		return LanguageTypeScript
	case ".js", ".jsx", ".mjs", ".cjs":
		return LanguageJavaScript
	default:
		return LanguageUnknown
	}
}

// GrammarFor returns the grammar used to analyze a document at filePath.
//
// JavaScript files use the JavaScript grammar, which understands JSX.
// Everything else, including plain .ts files and documents without a
// path, uses the TSX grammar: it accepts JSX together with type
// annotations and decorators.
func GrammarFor(filePath string) (Language, bool) {
	if DetectLanguage(filePath) == LanguageJavaScript {
		return LanguageJavaScript, false
	}
	return LanguageTypeScript, true
}

// IsMarkupFile reports whether filePath can contain JSX.
func IsMarkupFile(filePath string) bool {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".tsx", ".jsx", ".js", ".mjs", ".cjs":
		return true
	default:
		return false
	}
}
