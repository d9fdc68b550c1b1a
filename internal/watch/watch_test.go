package watch

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/docoutline/internal/config"
	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/dgallion1/docoutline/internal/pipeline"
	"github.com/dgallion1/docoutline/internal/testpdf"
)

func newWatcher(t *testing.T, in, out string) *Watcher {
	t.Helper()
	cfg := config.Defaults()
	cfg.InputDir, cfg.OutputDir = in, out
	cfg.WatchDebounce = 20 * time.Millisecond
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	orch := pipeline.NewOrchestrator(cfg, log)
	orch.Start(context.Background())
	t.Cleanup(orch.Stop)

	w, err := New(orch, pipeline.Dirs{Input: in, Output: out}, log)
	require.NoError(t, err)
	return w
}

func pdfWithTitle(title string) []byte {
	return testpdf.Build(testpdf.Page{
		{Text: title, Size: 24, X: 72, Y: 700},
		{Text: "OVERVIEW", Size: 16, X: 72, Y: 650},
	})
}

func readSidecar(path string) (*doctree.Document, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	var doc doctree.Document
	if json.Unmarshal(data, &doc) != nil {
		return nil, false
	}
	return &doc, true
}

func TestHandleEvent(t *testing.T) {
	dir := t.TempDir()
	w := newWatcher(t, dir, t.TempDir())

	pdf := filepath.Join(dir, "report.pdf")
	require.NoError(t, os.WriteFile(pdf, []byte("x"), 0o644))
	hidden := filepath.Join(dir, ".partial.pdf")
	require.NoError(t, os.WriteFile(hidden, []byte("x"), 0o644))
	txt := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("x"), 0o644))
	sub := filepath.Join(dir, "folder.pdf")
	require.NoError(t, os.Mkdir(sub, 0o755))

	tests := []struct {
		name string
		path string
		op   fsnotify.Op
		want bool
	}{
		{"create pdf", pdf, fsnotify.Create, true},
		{"write pdf", pdf, fsnotify.Write, true},
		{"chmod pdf", pdf, fsnotify.Chmod, false},
		{"remove pdf", filepath.Join(dir, "gone.pdf"), fsnotify.Remove, false},
		{"rename pdf", pdf, fsnotify.Rename, false},
		{"hidden file", hidden, fsnotify.Create, false},
		{"non-matching extension", txt, fsnotify.Create, false},
		{"directory", sub, fsnotify.Create, false},
		{"vanished before stat", filepath.Join(dir, "tmp.pdf"), fsnotify.Create, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, ok := w.handleEvent(fsnotify.Event{Name: tt.path, Op: tt.op})
			assert.Equal(t, tt.want, ok)
			if tt.want {
				assert.Equal(t, tt.path, path)
			}
		})
	}
}

func TestNew_RejectsBadFormat(t *testing.T) {
	cfg := config.Defaults()
	cfg.OutputFormat = "pdf"
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	orch := pipeline.NewOrchestrator(cfg, log)

	_, err := New(orch, pipeline.Dirs{Input: t.TempDir(), Output: t.TempDir()}, log)
	assert.Error(t, err)
}

func TestRun_ProcessesExistingAndNewFiles(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(in, "first.pdf"), pdfWithTitle("FIRST REPORT"), 0o644))

	w := newWatcher(t, in, out)
	processed := make(chan pipeline.JobSnapshot, 4)
	w.OnProcessed = func(s pipeline.JobSnapshot) { processed <- s }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	defer func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("watcher did not stop")
		}
	}()

	require.Eventually(t, func() bool {
		doc, ok := readSidecar(filepath.Join(out, "first.json"))
		return ok && doc.Title == "FIRST REPORT"
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(in, "second.pdf"), pdfWithTitle("SECOND REPORT"), 0o644))

	select {
	case snap := <-processed:
		assert.Equal(t, "second.pdf", snap.Filename)
		assert.Equal(t, pipeline.StatusCompleted, snap.Status)
		assert.Equal(t, "SECOND REPORT", snap.Title)
	case <-time.After(5 * time.Second):
		t.Fatal("new file was not processed")
	}

	doc, ok := readSidecar(filepath.Join(out, "second.json"))
	require.True(t, ok)
	require.Len(t, doc.Outline, 1)
	assert.Equal(t, doctree.LevelH1, doc.Outline[0].Level)
	assert.Equal(t, "OVERVIEW", doc.Outline[0].Text)
}
