package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/dgallion1/docoutline/internal/parser"
	"github.com/dgallion1/docoutline/internal/pdfmeta"
	"github.com/dgallion1/docoutline/internal/render"
)

// Worker processes a single document job. It holds no per-document state,
// so one Worker may serve jobs sequentially for its whole life.
type Worker struct {
	classifier    *outline.Classifier
	stats         *Stats
	log           *slog.Logger
	metadataTitle bool
}

func NewWorker(classifier *outline.Classifier, stats *Stats, log *slog.Logger, metadataTitle bool) *Worker {
	return &Worker{
		classifier:    classifier,
		stats:         stats,
		log:           log,
		metadataTitle: metadataTitle,
	}
}

// Process extracts, classifies and optionally writes one document. An
// unreadable document still produces the default outline; only a failed
// write fails the job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	start := time.Now()
	log := w.log.With("job_id", job.ID, "file", job.Filename)

	if err := ctx.Err(); err != nil {
		job.AddError(err.Error())
		job.Finish(StatusFailed, 0)
		return
	}

	// Phase 1: Extract
	job.SetStatus(StatusExtracting, "extracting")
	frags, err := w.extract(job)
	if err != nil {
		log.Error("extraction failed", "path", job.source(), "error", err)
		job.AddError(fmt.Sprintf("extract: %s", err))
		frags = nil
	}
	if len(frags) == 0 {
		log.Warn("no content extracted", "path", job.source())
	}
	job.SetContentHash(ContentHashHex([]byte(doctree.FlattenText(frags))))

	// Phase 2: Classify
	job.SetStatus(StatusClassifying, "classifying")
	doc := w.classifier.Classify(frags)
	if w.metadataTitle && doc.Title == outline.UntitledDocument {
		if title := w.metadataTitleFor(job, log); title != "" {
			doc.Title = title
		}
	}
	job.SetResult(doc)

	// Phase 3: Write
	if job.OutputPath != "" {
		job.SetStatus(StatusWriting, "writing")
		if err := writeOutput(job.OutputPath, job.Format, doc); err != nil {
			log.Error("write failed", "output", job.OutputPath, "error", err)
			job.AddError(fmt.Sprintf("write: %s", err))
			job.Finish(StatusFailed, time.Since(start).Milliseconds())
			return
		}
	}

	durationMs := time.Since(start).Milliseconds()
	w.stats.Record(durationMs, len(doc.Outline))
	log.Info("processed document",
		"title", doc.Title,
		"headings", len(doc.Outline),
		"output", job.OutputPath,
		"duration_ms", durationMs,
	)
	job.Finish(StatusCompleted, durationMs)
}

func (w *Worker) extract(job *Job) ([]doctree.Fragment, error) {
	if data := job.FileData(); data != nil {
		return parser.ParseBytes(data, job.Filename)
	}
	return parser.ParseFile(job.Path)
}

// metadataTitleFor reads the PDF Info title. Failures are logged and ignored.
func (w *Worker) metadataTitleFor(job *Job, log *slog.Logger) string {
	if !strings.EqualFold(filepath.Ext(job.Filename), ".pdf") {
		return ""
	}
	var (
		info *pdfmeta.Info
		err  error
	)
	if data := job.FileData(); data != nil {
		info, err = pdfmeta.InspectBytes(data)
	} else {
		info, err = pdfmeta.Inspect(job.Path)
	}
	if err != nil {
		log.Debug("metadata title unavailable", "error", err)
		return ""
	}
	return info.Title
}

func (j *Job) source() string {
	if j.Path != "" {
		return j.Path
	}
	return j.Filename
}

// writeOutput renders doc into a temporary file next to path and renames it
// into place, so readers never see a partial sidecar.
func writeOutput(path string, format render.Format, doc *doctree.Document) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := render.Write(tmp, format, doc); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
