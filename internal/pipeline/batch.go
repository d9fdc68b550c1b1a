package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dgallion1/docoutline/internal/config"
	"github.com/dgallion1/docoutline/internal/render"
)

// ErrNoInputDir means neither the configured nor the fallback input
// directory exists.
var ErrNoInputDir = errors.New("no input directory")

// Dirs is a resolved input/output directory pair.
type Dirs struct {
	Input  string `json:"input"`
	Output string `json:"output"`
}

// ResolveDirs picks the configured pair when the input directory exists, and
// the fallback pair otherwise.
func ResolveDirs(cfg config.Config) (Dirs, error) {
	if isDir(cfg.InputDir) {
		return Dirs{Input: cfg.InputDir, Output: cfg.OutputDir}, nil
	}
	if isDir(cfg.FallbackInputDir) {
		return Dirs{Input: cfg.FallbackInputDir, Output: cfg.FallbackOutputDir}, nil
	}
	return Dirs{}, fmt.Errorf("%w: tried %s and %s", ErrNoInputDir, cfg.InputDir, cfg.FallbackInputDir)
}

func isDir(path string) bool {
	if path == "" {
		return false
	}
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}

// Discover lists the regular files in dir whose names match any of the
// patterns, sorted by name. Subdirectories are not searched.
func Discover(dir string, patterns []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		ok, err := MatchAny(e.Name(), patterns)
		if err != nil {
			return nil, err
		}
		if ok {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// MatchAny reports whether name matches one of the glob patterns.
func MatchAny(name string, patterns []string) (bool, error) {
	for _, p := range patterns {
		ok, err := filepath.Match(p, name)
		if err != nil {
			return false, fmt.Errorf("bad input pattern %q: %w", p, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// OutputPath maps an input file to its sidecar in outDir: the input stem plus
// the format's extension.
func OutputPath(input, outDir string, format render.Format) string {
	base := filepath.Base(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outDir, stem+format.Extension())
}

// FileResult is the outcome for one input file.
type FileResult struct {
	Input      string    `json:"input"`
	Output     string    `json:"output"`
	Status     JobStatus `json:"status"`
	Title      string    `json:"title"`
	Headings   int       `json:"headings"`
	DurationMs int64     `json:"duration_ms"`
	Errors     []string  `json:"errors,omitempty"`

	ContentHash string `json:"content_hash,omitempty"`
}

// Summary aggregates a batch run. Degraded files were written with the
// default outline after an extraction error.
type Summary struct {
	Dirs     Dirs          `json:"dirs"`
	Files    int           `json:"files"`
	Headings int           `json:"headings"`
	Degraded int           `json:"degraded"`
	Failed   int           `json:"failed"`
	Elapsed  time.Duration `json:"elapsed"`
	Stats    StatsSnapshot `json:"stats"`
	Results  []FileResult  `json:"results"`
}

// RunBatch processes every matching file in dirs.Input and writes one
// sidecar per file into dirs.Output. Per-file failures are recorded in the
// summary; only directory errors and cancellation are returned.
func (o *Orchestrator) RunBatch(ctx context.Context, dirs Dirs) (*Summary, error) {
	start := time.Now()
	summary := &Summary{Dirs: dirs, Results: []FileResult{}}

	format, err := render.ParseFormat(o.cfg.OutputFormat)
	if err != nil {
		return summary, err
	}
	if err := os.MkdirAll(dirs.Output, 0o755); err != nil {
		return summary, fmt.Errorf("create output dir: %w", err)
	}

	files, err := Discover(dirs.Input, o.cfg.InputPatterns)
	if err != nil {
		return summary, err
	}
	if len(files) == 0 {
		o.log.Info("no input files found", "dir", dirs.Input, "patterns", o.cfg.InputPatterns)
		return summary, nil
	}
	o.log.Info("processing batch", "files", len(files), "input", dirs.Input, "output", dirs.Output)

	jobs := make([]*Job, 0, len(files))
	for _, f := range files {
		job := NewFileJob(f, OutputPath(f, dirs.Output, format), format)
		if err := o.SubmitWait(ctx, job); err != nil {
			return o.summarize(summary, jobs, start), err
		}
		jobs = append(jobs, job)
	}

	for _, job := range jobs {
		select {
		case <-job.Done():
		case <-ctx.Done():
			return o.summarize(summary, jobs, start), ctx.Err()
		}
	}
	return o.summarize(summary, jobs, start), nil
}

func (o *Orchestrator) summarize(s *Summary, jobs []*Job, start time.Time) *Summary {
	for _, job := range jobs {
		snap := job.Snapshot()
		r := FileResult{
			Input:      job.Path,
			Output:     job.OutputPath,
			Status:     snap.Status,
			Title:      snap.Title,
			Headings:   snap.Headings,
			DurationMs: snap.DurationMs,
			Errors:     snap.Errors,

			ContentHash: snap.ContentHash,
		}
		s.Files++
		s.Headings += snap.Headings
		switch {
		case snap.Status == StatusFailed:
			s.Failed++
		case snap.Status == StatusCompleted && len(snap.Errors) > 0:
			s.Degraded++
		}
		s.Results = append(s.Results, r)
	}
	s.Elapsed = time.Since(start)
	s.Stats = o.stats.Snapshot()
	return s
}
