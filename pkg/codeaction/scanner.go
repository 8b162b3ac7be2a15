package codeaction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/styco/pkg/jsx"
	"github.com/gnana997/styco/pkg/parser"
	"github.com/gnana997/styco/pkg/parser/queries"
	"github.com/gnana997/styco/pkg/util"
)

// Site is an element with a literal inline style that can be extracted.
type Site struct {
	Path string `json:"path"`
	// Line and Column (1-based, byte column) locate the element's tag name.
	Line   int    `json:"line"`
	Column int    `json:"column"`
	Offset int    `json:"offset"`
	Tag    string `json:"tag"`
	// Properties is the number of literal entries that would be extracted.
	Properties int `json:"properties"`
	Skipped    int `json:"skipped"`
}

// FileReport is the scan result for one file.
type FileReport struct {
	Path        string `json:"path"`
	Sites       []Site `json:"sites"`
	StyledBound bool   `json:"styled_bound"`
	Error       string `json:"error,omitempty"`
}

// Report aggregates a workspace scan.
type Report struct {
	Root     string        `json:"root"`
	Files    []FileReport  `json:"files"`
	Scanned  int           `json:"scanned"`
	Sites    int           `json:"sites"`
	Failed   int           `json:"failed"`
	Duration time.Duration `json:"duration"`
}

// Scanner finds style sites in files. It is safe for concurrent use.
type Scanner struct {
	parser  *parser.ParserManager
	queries *queries.QueryManager
	logger  *slog.Logger

	filesScanned atomic.Int64
}

// NewScanner creates a scanner sharing the given parser manager.
func NewScanner(pm *parser.ParserManager, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{
		parser:  pm,
		queries: queries.NewQueryManager(pm, logger),
		logger:  logger,
	}
}

// Close releases the compiled queries. The parser manager is not closed.
func (s *Scanner) Close() error {
	return s.queries.Close()
}

// ScanFile reads path through a memory map and reports its style sites.
func (s *Scanner) ScanFile(path string) (*FileReport, error) {
	mf, err := util.OpenMapped(path, s.logger)
	if err != nil {
		return nil, err
	}
	defer mf.Close()

	return s.ScanSource(path, mf.Bytes())
}

// ScanSource reports the style sites of source. path selects the grammar.
// Files with syntax errors yield an error wrapping parser.ErrSyntax.
func (s *Scanner) ScanSource(path string, source []byte) (*FileReport, error) {
	s.filesScanned.Add(1)
	report := &FileReport{Path: path, Sites: []Site{}}

	tree, err := s.parser.ParseDocument(source, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	defer tree.Close()

	sites, err := s.styleSites(tree, path, source)
	if err != nil {
		return nil, err
	}
	report.Sites = sites

	bound, err := s.styledBound(tree, path, source)
	if err != nil {
		return nil, err
	}
	report.StyledBound = bound

	return report, nil
}

// styleSites runs the style attribute query and resolves each match to its
// owning element.
func (s *Scanner) styleSites(tree *ts.Tree, path string, source []byte) ([]Site, error) {
	query, err := s.queries.GetQueryForFile(path, queries.QueryTypeStyles)
	if err != nil {
		return nil, err
	}
	matches, err := s.queries.ExecuteQuery(tree, query, source)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	root := tree.RootNode()
	seen := make(map[int]bool)
	sites := []Site{}

	for _, m := range matches {
		attr := m.Capture("style.attribute")
		if attr == nil {
			continue
		}

		el, err := jsx.Locate(root, source, int(attr.Location.StartByte))
		if err != nil || seen[el.Span.Start] {
			continue
		}
		seen[el.Span.Start] = true

		style := jsx.ExtractStyle(el, source)
		if style == nil {
			continue
		}

		pos := el.Node().StartPosition()
		sites = append(sites, Site{
			Path:       path,
			Line:       int(pos.Row) + 1,
			Column:     int(pos.Column) + 1,
			Offset:     el.OpenName.Start,
			Tag:        el.TagName,
			Properties: len(style.Properties),
			Skipped:    style.Skipped,
		})
	}

	sort.Slice(sites, func(i, j int) bool { return sites[i].Offset < sites[j].Offset })
	return sites, nil
}

// styledBound reports whether any import binds the local name `styled`.
func (s *Scanner) styledBound(tree *ts.Tree, path string, source []byte) (bool, error) {
	query, err := s.queries.GetQueryForFile(path, queries.QueryTypeImports)
	if err != nil {
		return false, err
	}
	matches, err := s.queries.ExecuteQuery(tree, query, source)
	if err != nil {
		return false, fmt.Errorf("%s: %w", path, err)
	}

	for _, m := range matches {
		for _, c := range m.Captures {
			if c.Category != "import" || c.Text != jsx.StyledIdentifier {
				continue
			}
			switch c.Field {
			case "default", "alias", "namespace":
				return true, nil
			case "named":
				if c.Node.Parent().ChildByFieldName("alias") == nil {
					return true, nil
				}
			}
		}
	}
	return false, nil
}

// Scan discovers files under root and scans them in parallel. Files that
// fail to read or parse are recorded in the report, not returned as errors.
func (s *Scanner) Scan(ctx context.Context, root string, cfg ScanConfig) (*Report, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	files, err := DiscoverFiles(root, cfg)
	if err != nil {
		return nil, err
	}

	workers := util.GetOptimalPoolSizeWithOverride(cfg.Workers)
	s.logger.Debug("scanning workspace", "root", root, "files", len(files), "workers", workers)

	reports := make([]FileReport, len(files))
	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				reports[i] = s.scanOne(files[i])
			}
		}()
	}

	var cancelled error
feed:
	for i := range files {
		select {
		case <-ctx.Done():
			cancelled = ctx.Err()
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if cancelled != nil {
		return nil, cancelled
	}

	report := &Report{Root: root, Files: []FileReport{}, Scanned: len(files)}
	for _, fr := range reports {
		if fr.Error != "" {
			report.Failed++
		}
		report.Sites += len(fr.Sites)
		if len(fr.Sites) > 0 || fr.Error != "" {
			report.Files = append(report.Files, fr)
		}
	}
	report.Duration = time.Since(start)

	s.logger.Info("scan complete",
		"root", root,
		"files", report.Scanned,
		"sites", report.Sites,
		"failed", report.Failed,
		"duration", report.Duration)

	return report, nil
}

func (s *Scanner) scanOne(path string) FileReport {
	fr, err := s.ScanFile(path)
	if err != nil {
		level := slog.LevelWarn
		if errors.Is(err, parser.ErrSyntax) {
			level = slog.LevelDebug
		}
		s.logger.Log(context.Background(), level, "failed to scan file", "path", path, "error", err)
		return FileReport{Path: path, Sites: []Site{}, Error: err.Error()}
	}
	return *fr
}

// FilesScanned returns the number of files scanned so far.
func (s *Scanner) FilesScanned() int64 {
	return s.filesScanned.Load()
}
