// Package ingest parses suite result documents produced by the test driver
// and feeds them to the tracking engine. A results document is YAML or JSON
// (detected by extension, then content) holding one entry per executed test.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	yaml "gopkg.in/yaml.v3"

	"vigil/internal/track"
)

// Entry is one test's reported outcome in a results document.
type Entry struct {
	TestID       string `json:"test_id" yaml:"test_id"`
	TestName     string `json:"test_name,omitempty" yaml:"test_name,omitempty"`
	Category     string `json:"category,omitempty" yaml:"category,omitempty"`
	Result       string `json:"result" yaml:"result"`
	ErrorMessage string `json:"error_message,omitempty" yaml:"error_message,omitempty"`
	Severity     string `json:"severity,omitempty" yaml:"severity,omitempty"`
}

// Document is one suite shard's results: totals plus per-test entries.
// Totals are optional; when absent they are derived from the entries.
type Document struct {
	TotalTests int     `json:"total_tests,omitempty" yaml:"total_tests,omitempty"`
	DurationMS int64   `json:"duration_ms,omitempty" yaml:"duration_ms,omitempty"`
	Results    []Entry `json:"results" yaml:"results"`
}

// Parse decodes a results document from bytes. ext is the file extension for
// a format hint (".json"/".yaml"/".yml"); empty means detect from content.
func Parse(data []byte, ext string) (*Document, error) {
	ext = strings.ToLower(ext)
	if ext == ".yml" {
		ext = ".yaml"
	}
	var doc Document
	switch ext {
	case ".json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("ingest: parse json: %w", err)
		}
	case ".yaml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("ingest: parse yaml: %w", err)
		}
	default:
		trimmed := strings.TrimSpace(string(data))
		if strings.HasPrefix(trimmed, "{") {
			if err := json.Unmarshal(data, &doc); err != nil {
				return nil, fmt.Errorf("ingest: parse json: %w", err)
			}
			break
		}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("ingest: parse yaml: %w", err)
		}
	}
	for i, e := range doc.Results {
		if e.TestID == "" {
			return nil, fmt.Errorf("ingest: entry %d: missing test_id", i)
		}
		switch track.Result(e.Result) {
		case track.ResultPassed, track.ResultFailed, track.ResultSkipped:
		default:
			return nil, fmt.Errorf("ingest: entry %d (%s): unknown result %q", i, e.TestID, e.Result)
		}
	}
	return &doc, nil
}

// ParseFile reads and decodes one results file.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ingest: read %s: %w", path, err)
	}
	doc, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, path)
	}
	return doc, nil
}

// ParseFiles decodes many shard files concurrently and merges them in path
// order, so the merged entry order is deterministic regardless of which
// shard finished first. Any parse failure fails the whole batch: a malformed
// shard must not seal a partial run.
func ParseFiles(ctx context.Context, paths []string) (*Document, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("ingest: no result files given")
	}
	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)

	var mu sync.Mutex
	docs := make(map[string]*Document, len(sorted))
	g, _ := errgroup.WithContext(ctx)
	for _, p := range sorted {
		g.Go(func() error {
			doc, err := ParseFile(p)
			if err != nil {
				return err
			}
			mu.Lock()
			docs[p] = doc
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := &Document{}
	for _, p := range sorted {
		doc := docs[p]
		merged.TotalTests += doc.TotalTests
		merged.DurationMS += doc.DurationMS
		merged.Results = append(merged.Results, doc.Results...)
	}
	return merged, nil
}

// Feed reports every entry of the document into an open run on the tracker
// and returns the totals to complete it with.
func Feed(t *track.Tracker, doc *Document) (track.Totals, error) {
	var totals track.Totals
	for _, e := range doc.Results {
		id := track.TestID(e.TestID)
		var err error
		switch track.Result(e.Result) {
		case track.ResultPassed:
			err = t.ReportPass(id)
			totals.Passed++
		case track.ResultFailed:
			err = t.ReportFailure(id, e.TestName, e.Category, e.ErrorMessage,
				track.NormalizeSeverity(e.Severity))
			totals.Failed++
		case track.ResultSkipped:
			err = t.ReportSkip(id)
			totals.Skipped++
		}
		if err != nil {
			return track.Totals{}, fmt.Errorf("ingest: report %s: %w", e.TestID, err)
		}
	}
	totals.TotalTests = totals.Passed + totals.Failed + totals.Skipped
	if doc.TotalTests > totals.TotalTests {
		// Driver knew about tests that never reported; they seal as skipped.
		totals.TotalTests = doc.TotalTests
	}
	totals.DurationMS = doc.DurationMS
	return totals, nil
}
