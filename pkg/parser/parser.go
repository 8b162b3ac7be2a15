package parser

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"unsafe"

	ts "github.com/tree-sitter/go-tree-sitter"
	ts_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	ts_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// ErrSyntax is returned (wrapped in a *SyntaxError) by ParseDocument when
// the source does not parse cleanly.
var ErrSyntax = errors.New("source contains syntax errors")

// SyntaxError locates the first error or missing node of a parse tree.
// Row and Column are 0-based, as reported by tree-sitter.
type SyntaxError struct {
	Row    uint
	Column uint
	Offset uint
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at line %d, column %d", e.Row+1, e.Column+1)
}

func (e *SyntaxError) Unwrap() error { return ErrSyntax }

// poolKey uniquely identifies a parser pool (language + TSX variant)
type poolKey struct {
	lang  Language
	isTSX bool
}

// ParserManager manages tree-sitter parsers for the JavaScript and TSX
// grammars with lazy initialization and thread-safe concurrent access.
//
// Memory Management:
// - Parser pools are created lazily on first use per grammar
// - ParserManager owns the pools and must be closed via Close()
// - Callers own Tree instances and must call tree.Close() after use
//
// Example:
//
//	manager := NewParserManager(logger)
//	defer manager.Close()
//
//	tree, err := manager.ParseDocument([]byte(text), "src/App.tsx")
//	if err != nil {
//	    return err
//	}
//	defer tree.Close()
type ParserManager struct {
	// pools stores parser pools per grammar (lazily initialized)
	pools map[poolKey]*parserPool

	// mutex provides thread-safe access to pools map and stats
	mutex sync.RWMutex

	logger   *slog.Logger
	poolSize int

	stats struct {
		parsesCalled int
	}
}

// Option configures a ParserManager.
type Option func(*ParserManager)

// WithPoolSize caps the number of parsers per grammar.
func WithPoolSize(size int) Option {
	return func(pm *ParserManager) {
		pm.poolSize = getPoolSize(size)
	}
}

// NewParserManager creates a new ParserManager instance.
//
// The returned manager must be closed via Close() to free resources.
func NewParserManager(logger *slog.Logger, opts ...Option) *ParserManager {
	if logger == nil {
		logger = slog.Default()
	}

	pm := &ParserManager{
		pools:    make(map[poolKey]*parserPool),
		logger:   logger,
		poolSize: getPoolSize(0),
	}
	for _, opt := range opts {
		opt(pm)
	}
	return pm
}

// Parse parses source code using the specified language grammar.
//
// The isTSX parameter is only relevant for TypeScript - it enables JSX support.
//
// Returns a Tree that MUST be closed by the caller via tree.Close(). Trees
// with syntax errors are still returned; use ParseDocument to reject them.
func (pm *ParserManager) Parse(source []byte, lang Language, isTSX bool) (*ts.Tree, error) {
	if lang == LanguageUnknown {
		return nil, fmt.Errorf("cannot parse unknown language")
	}

	pm.mutex.Lock()
	pm.stats.parsesCalled++
	pm.mutex.Unlock()

	pool, err := pm.getOrCreatePool(lang, isTSX)
	if err != nil {
		return nil, fmt.Errorf("failed to get pool for %s: %w", lang, err)
	}

	parser, err := pool.acquire()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire parser: %w", err)
	}

	tree := parser.Parse(source, nil)
	pool.release(parser)

	if tree == nil {
		return nil, fmt.Errorf("parser.Parse returned nil tree")
	}

	return tree, nil
}

// ParseDocument parses a whole document with the grammar chosen by
// GrammarFor(filePath).
//
// Unlike Parse, it refuses trees containing syntax errors: the tree is
// closed and a *SyntaxError pointing at the first problem is returned.
func (pm *ParserManager) ParseDocument(source []byte, filePath string) (*ts.Tree, error) {
	lang, isTSX := GrammarFor(filePath)

	tree, err := pm.Parse(source, lang, isTSX)
	if err != nil {
		return nil, err
	}

	root := tree.RootNode()
	if root.HasError() {
		synErr := firstSyntaxError(root)
		tree.Close()
		pm.logger.Debug("document has syntax errors",
			"path", filePath,
			"language", lang.String(),
			"line", synErr.Row+1,
			"column", synErr.Column+1)
		return nil, synErr
	}

	return tree, nil
}

// firstSyntaxError returns the position of the first ERROR or MISSING node.
func firstSyntaxError(node *ts.Node) *SyntaxError {
	if node.IsError() || node.IsMissing() {
		pos := node.StartPosition()
		return &SyntaxError{Row: pos.Row, Column: pos.Column, Offset: node.StartByte()}
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil || !(child.HasError() || child.IsMissing()) {
			continue
		}
		if found := firstSyntaxError(child); found != nil {
			return found
		}
	}
	if node.Parent() == nil {
		// HasError was set but no concrete node was found; report the root.
		pos := node.StartPosition()
		return &SyntaxError{Row: pos.Row, Column: pos.Column, Offset: node.StartByte()}
	}
	return nil
}

// Close releases all parser pool resources.
//
// MUST be called when ParserManager is no longer needed to avoid memory leaks.
func (pm *ParserManager) Close() error {
	pm.mutex.Lock()
	defer pm.mutex.Unlock()

	pm.logger.Debug("closing ParserManager",
		"parses_called", pm.stats.parsesCalled)

	for _, pool := range pm.pools {
		if pool != nil {
			pool.close()
		}
	}
	pm.pools = make(map[poolKey]*parserPool)

	return nil
}

// getOrCreatePool returns an existing parser pool or creates a new one.
// Thread-safe using double-checked locking pattern.
func (pm *ParserManager) getOrCreatePool(lang Language, isTSX bool) (*parserPool, error) {
	key := poolKey{lang: lang, isTSX: isTSX}

	pm.mutex.RLock()
	pool, exists := pm.pools[key]
	pm.mutex.RUnlock()

	if exists {
		return pool, nil
	}

	pm.mutex.Lock()
	defer pm.mutex.Unlock()

	if pool, exists = pm.pools[key]; exists {
		return pool, nil
	}

	langPtr, err := pm.GetLanguagePointer(lang, isTSX)
	if err != nil {
		return nil, err
	}

	pool = newParserPool(lang, langPtr, isTSX, pm.poolSize, pm.logger)
	pm.pools[key] = pool

	pm.logger.Debug("created new parser pool",
		"language", lang.String(),
		"isTSX", isTSX,
		"maxSize", pm.poolSize)

	return pool, nil
}

// GetLanguagePointer returns the unsafe.Pointer to the tree-sitter language grammar.
//
// Used by QueryManager to compile queries against the same grammar.
func (pm *ParserManager) GetLanguagePointer(lang Language, isTSX bool) (unsafe.Pointer, error) {
	switch lang {
	case LanguageTypeScript:
		if isTSX {
			return ts_typescript.LanguageTSX(), nil
		}
		return ts_typescript.LanguageTypescript(), nil

	case LanguageJavaScript:
		return ts_javascript.Language(), nil

	default:
		return nil, fmt.Errorf("unsupported language: %s", lang.String())
	}
}

// GetStats returns parser usage statistics.
func (pm *ParserManager) GetStats() ParserStats {
	pm.mutex.RLock()
	defer pm.mutex.RUnlock()

	totalParsers := 0
	for _, pool := range pm.pools {
		totalParsers += pool.getCreatedCount()
	}

	return ParserStats{
		ParsersCreated: totalParsers,
		ParsesCalled:   pm.stats.parsesCalled,
	}
}

// ParserStats contains parser usage statistics.
type ParserStats struct {
	// ParsersCreated is the total number of parser instances created
	ParsersCreated int

	// ParsesCalled is the total number of Parse() calls
	ParsesCalled int
}
