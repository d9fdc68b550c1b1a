package pipeline

import (
	"crypto/sha256"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/dgallion1/docoutline/internal/render"
)

// JobStatus represents the state of an outline job.
type JobStatus string

const (
	StatusQueued      JobStatus = "queued"
	StatusExtracting  JobStatus = "extracting"
	StatusClassifying JobStatus = "classifying"
	StatusWriting     JobStatus = "writing"
	StatusCompleted   JobStatus = "completed"
	StatusFailed      JobStatus = "failed"
)

// Job tracks the state of a single document.
type Job struct {
	mu sync.Mutex

	ID string `json:"job_id"`

	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Filename string    `json:"filename"`

	// Path is the source file on disk. Uploads carry their bytes instead.
	Path string `json:"path,omitempty"`
	// OutputPath is where the rendering is written; empty keeps the result
	// in memory only.
	OutputPath string        `json:"output_path,omitempty"`
	Format     render.Format `json:"format"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData    []byte
	contentHash string
	result     *doctree.Document
	errors     []string
	durationMs int64
	done       chan struct{}
	doneOnce   sync.Once
}

// NewJob creates a queued job for an uploaded document.
func NewJob(filename string, data []byte) *Job {
	now := time.Now()
	return &Job{
		ID:        uuid.NewString(),
		Status:    StatusQueued,
		Phase:     "queued",
		Filename:  filename,
		Format:    render.FormatJSON,
		CreatedAt: now,
		UpdatedAt: now,
		fileData:  data,
		done:      make(chan struct{}),
	}
}

// NewFileJob creates a queued job for a file on disk whose rendering goes to
// outputPath.
func NewFileJob(path, outputPath string, format render.Format) *Job {
	job := NewJob(filepath.Base(path), nil)
	job.Path = path
	job.OutputPath = outputPath
	job.Format = format
	return job
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Len returns the number of tracked jobs.
func (s *JobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		job.mu.Lock()
		updated := job.UpdatedAt
		job.mu.Unlock()
		if now.Sub(updated) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.UpdatedAt = time.Now()
}

// SetFileData sets the raw file bytes for processing.
func (j *Job) SetFileData(data []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = data
}

// FileData returns the raw file bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// SetResult stores the classified document.
func (j *Job) SetResult(doc *doctree.Document) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.result = doc
	j.UpdatedAt = time.Now()
}

// Result returns the classified document, or nil before classification.
func (j *Job) Result() *doctree.Document {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.result
}

// Finish moves the job to a terminal status and releases waiters. Only the
// first call has any effect.
func (j *Job) Finish(status JobStatus, durationMs int64) {
	j.doneOnce.Do(func() {
		j.mu.Lock()
		j.Status = status
		j.Phase = "done"
		j.durationMs = durationMs
		j.fileData = nil
		j.UpdatedAt = time.Now()
		j.mu.Unlock()
		close(j.done)
	})
}

// SetContentHash records the hash of the extracted text.
func (j *Job) SetContentHash(hash string) {
	j.mu.Lock()
	j.contentHash = hash
	j.mu.Unlock()
}

// Done is closed once the job reaches a terminal status.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID         string            `json:"job_id"`
	Status     JobStatus         `json:"status"`
	Phase      string            `json:"phase"`
	Filename   string            `json:"filename"`
	Title      string            `json:"title,omitempty"`
	Headings   int               `json:"headings"`
	DurationMs int64             `json:"duration_ms"`
	Errors     []string          `json:"errors"`
	Document   *doctree.Document `json:"document,omitempty"`

	// ContentHash identifies the extracted text; an unchanged input hashes
	// the same on every run.
	ContentHash string `json:"content_hash,omitempty"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := make([]string, len(j.errors))
	copy(errs, j.errors)
	snap := JobSnapshot{
		ID:          j.ID,
		Status:      j.Status,
		Phase:       j.Phase,
		Filename:    j.Filename,
		DurationMs:  j.durationMs,
		Errors:      errs,
		ContentHash: j.contentHash,
	}
	if j.result != nil {
		snap.Title = j.result.Title
		snap.Headings = len(j.result.Outline)
		if j.Status == StatusCompleted {
			snap.Document = j.result
		}
	}
	return snap
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
