package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/dgallion1/filingsight/internal/analysis"
	"github.com/dgallion1/filingsight/internal/mdrender"
	"github.com/google/uuid"
)

// JobStatus represents the state of an analysis job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusExtracting JobStatus = "extracting"
	StatusGenerating JobStatus = "generating"
	StatusRendering  JobStatus = "rendering"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// Done reports whether the status is terminal.
func (s JobStatus) Done() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Job tracks the state of a single filing analysis.
type Job struct {
	mu sync.Mutex

	ID string `json:"job_id"`

	Status   JobStatus     `json:"status"`
	Phase    string        `json:"phase"`
	Mode     analysis.Mode `json:"mode"`
	Filename string        `json:"filename"`
	Title    string        `json:"title"`

	Progress Progress `json:"progress"`

	ContentHash string    `json:"content_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData []byte
	result   *Result
	errors   []string
}

// Progress tracks processing progress.
type Progress struct {
	PageCount int      `json:"page_count"`
	Attempts  int      `json:"attempts"`
	Errors    []string `json:"errors"`
}

// Result is the output of a completed job.
type Result struct {
	Mode  analysis.Mode `json:"mode"`
	Model string        `json:"model,omitempty"`

	// Simple mode.
	Summary *analysis.Summary `json:"summary,omitempty"`

	// Complex mode.
	Markdown  string              `json:"markdown,omitempty"`
	HTML      string              `json:"html,omitempty"`
	Citations []mdrender.Citation `json:"citations,omitempty"`

	PageCount int      `json:"page_count"`
	Truncated bool     `json:"truncated,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
}

// NewJob creates a queued job holding the uploaded file.
func NewJob(filename, title string, mode analysis.Mode, data []byte) *Job {
	now := time.Now()
	return &Job{
		ID:          uuid.New().String(),
		Status:      StatusQueued,
		Phase:       "queued",
		Mode:        mode,
		Filename:    filename,
		Title:       title,
		ContentHash: ContentHashHex(data),
		CreatedAt:   now,
		UpdatedAt:   now,
		fileData:    data,
	}
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

// Cleanup removes finished jobs that have not changed within the TTL.
func (s *JobStore) Cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	removed := 0
	for id, job := range s.jobs {
		job.mu.Lock()
		expired := job.Status.Done() && now.Sub(job.UpdatedAt) > s.ttl
		job.mu.Unlock()
		if expired {
			delete(s.jobs, id)
			removed++
		}
	}
	return removed
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
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// IncrAttempts counts one generation attempt.
func (j *Job) IncrAttempts() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Attempts++
	j.UpdatedAt = time.Now()
}

// SetPageCount records how many pages were extracted.
func (j *Job) SetPageCount(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.PageCount = n
	j.UpdatedAt = time.Now()
}

// SetTitle replaces the title with the one found in the document.
func (j *Job) SetTitle(title string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Title = title
}

// FileData returns the raw file bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// releaseFileData drops the upload once the job no longer needs it.
func (j *Job) releaseFileData() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = nil
}

// SetResult stores the job output.
func (j *Job) SetResult(r *Result) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.result = r
	j.UpdatedAt = time.Now()
}

// Result returns the job output, or nil until the job completes.
func (j *Job) Result() *Result {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.result
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID        string        `json:"job_id"`
	Status    JobStatus     `json:"status"`
	Phase     string        `json:"phase"`
	Mode      analysis.Mode `json:"mode"`
	Filename  string        `json:"filename"`
	Title     string        `json:"title"`
	Progress  Progress      `json:"progress"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := make([]string, len(j.Progress.Errors))
	copy(errs, j.Progress.Errors)
	return JobSnapshot{
		ID:       j.ID,
		Status:   j.Status,
		Phase:    j.Phase,
		Mode:     j.Mode,
		Filename: j.Filename,
		Title:    j.Title,
		Progress: Progress{
			PageCount: j.Progress.PageCount,
			Attempts:  j.Progress.Attempts,
			Errors:    errs,
		},
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
