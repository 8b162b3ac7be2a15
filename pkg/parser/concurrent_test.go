package parser

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestConcurrentParseDocument parses many documents at once across both
// grammars without races or deadlocks, as the MCP server does.
func TestConcurrentParseDocument(t *testing.T) {
	manager := NewParserManager(nil, WithPoolSize(4))
	defer manager.Close()

	const numGoroutines = 50
	var wg sync.WaitGroup
	errChan := make(chan error, numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()

			path := "App.tsx"
			if id%2 == 0 {
				path = "App.jsx"
			}
			source := []byte(fmt.Sprintf(`const C%d = () => <div style={{ zIndex: %d }} />;`, id, id))

			tree, err := manager.ParseDocument(source, path)
			if err != nil {
				errChan <- err
				return
			}
			tree.Close()
		}(i)
	}

	wg.Wait()
	close(errChan)

	var errs []error
	for err := range errChan {
		errs = append(errs, err)
	}
	assert.Empty(t, errs, "No errors should occur during concurrent parsing")

	stats := manager.GetStats()
	assert.Equal(t, numGoroutines, stats.ParsesCalled)
	// Two grammars, at most 4 parsers each.
	assert.LessOrEqual(t, stats.ParsersCreated, 8)
}

// TestConcurrentCloseAfterUse makes sure Close after heavy use frees every pool.
func TestConcurrentCloseAfterUse(t *testing.T) {
	manager := NewParserManager(nil, WithPoolSize(2))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tree, err := manager.Parse([]byte("<a/>"), LanguageTypeScript, true)
			if err == nil {
				tree.Close()
			}
		}()
	}
	wg.Wait()

	assert.NoError(t, manager.Close())
	assert.Equal(t, 0, manager.GetStats().ParsersCreated)
}
