// Package watch keeps an input directory's sidecars current. It processes the
// files already present, then submits every matching file that is created or
// rewritten, once writes to it have been quiet for the debounce interval.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dgallion1/docoutline/internal/pipeline"
	"github.com/dgallion1/docoutline/internal/render"
)

// Watcher feeds an orchestrator from filesystem events.
type Watcher struct {
	orch     *pipeline.Orchestrator
	dirs     pipeline.Dirs
	patterns []string
	format   render.Format
	debounce time.Duration
	log      *slog.Logger

	// OnProcessed, when set, is called from a separate goroutine after each
	// watched file's job finishes.
	OnProcessed func(pipeline.JobSnapshot)
}

// New creates a watcher for dirs using the orchestrator's configuration.
func New(orch *pipeline.Orchestrator, dirs pipeline.Dirs, log *slog.Logger) (*Watcher, error) {
	cfg := orch.Config()
	format, err := render.ParseFormat(cfg.OutputFormat)
	if err != nil {
		return nil, err
	}
	debounce := cfg.WatchDebounce
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	return &Watcher{
		orch:     orch,
		dirs:     dirs,
		patterns: cfg.InputPatterns,
		format:   format,
		debounce: debounce,
		log:      log.With("input", dirs.Input),
	}, nil
}

// Run blocks until ctx is cancelled or the watch fails.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	// Watch before the initial batch so files arriving meanwhile are not missed.
	if err := fw.Add(w.dirs.Input); err != nil {
		return fmt.Errorf("watch %s: %w", w.dirs.Input, err)
	}

	summary, err := w.orch.RunBatch(ctx, w.dirs)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("initial batch: %w", err)
	}
	w.log.Info("initial batch complete", "files", summary.Files, "failed", summary.Failed)
	w.log.Info("watching for changes", "debounce", w.debounce.String())

	pending := make(map[string]*time.Timer)
	ready := make(chan string)
	defer func() {
		for _, t := range pending {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			path, ok := w.handleEvent(ev)
			if !ok {
				continue
			}
			if t, exists := pending[path]; exists && t.Reset(w.debounce) {
				continue
			}
			pending[path] = time.AfterFunc(w.debounce, func() {
				select {
				case ready <- path:
				case <-ctx.Done():
				}
			})

		case path := <-ready:
			delete(pending, path)
			if err := w.submit(ctx, path); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				w.log.Warn("submit failed", "file", path, "error", err)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", "error", err)
		}
	}
}

// handleEvent returns the path to process for ev, if any. Only creations and
// writes of visible regular files matching the input patterns count.
func (w *Watcher) handleEvent(ev fsnotify.Event) (string, bool) {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		return "", false
	}
	name := filepath.Base(ev.Name)
	if strings.HasPrefix(name, ".") {
		return "", false
	}
	ok, err := pipeline.MatchAny(name, w.patterns)
	if err != nil || !ok {
		return "", false
	}
	fi, err := os.Stat(ev.Name)
	if err != nil || !fi.Mode().IsRegular() {
		return "", false
	}
	return ev.Name, true
}

func (w *Watcher) submit(ctx context.Context, path string) error {
	out := pipeline.OutputPath(path, w.dirs.Output, w.format)
	job := pipeline.NewFileJob(path, out, w.format)
	if err := w.orch.SubmitWait(ctx, job); err != nil {
		return err
	}
	w.log.Debug("queued changed file", "file", path, "job_id", job.ID)

	if w.OnProcessed != nil {
		go func() {
			select {
			case <-job.Done():
				w.OnProcessed(job.Snapshot())
			case <-ctx.Done():
			}
		}()
	}
	return nil
}
