package pipeline

import (
	"testing"
	"time"

	"github.com/dgallion1/filingsight/internal/analysis"
	"github.com/google/uuid"
)

func TestContentHashHex_Consistency(t *testing.T) {
	data := []byte("hello world")
	h1 := ContentHashHex(data)
	h2 := ContentHashHex(data)
	if h1 != h2 {
		t.Errorf("expected identical hashes, got %q and %q", h1, h2)
	}
	// SHA-256 of "hello world" is well-known.
	want := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if h1 != want {
		t.Errorf("expected hash %q, got %q", want, h1)
	}
}

func TestContentHashHex_DifferentInputs(t *testing.T) {
	h1 := ContentHashHex([]byte("aaa"))
	h2 := ContentHashHex([]byte("bbb"))
	if h1 == h2 {
		t.Error("expected different hashes for different inputs")
	}
}

func TestContentHashHex_EmptyInput(t *testing.T) {
	h := ContentHashHex([]byte{})
	// SHA-256 of empty input is well-known.
	want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if h != want {
		t.Errorf("expected hash %q, got %q", want, h)
	}
}

func TestJob_StateTransitions(t *testing.T) {
	job := &Job{
		ID:        "test-1",
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	transitions := []struct {
		status JobStatus
		phase  string
	}{
		{StatusExtracting, "extracting"},
		{StatusGenerating, "generating"},
		{StatusRendering, "rendering"},
		{StatusCompleted, "done"},
	}

	for _, tr := range transitions {
		before := job.UpdatedAt
		// Small sleep to ensure time difference is detectable.
		time.Sleep(time.Millisecond)
		job.SetStatus(tr.status, tr.phase)

		if job.Status != tr.status {
			t.Errorf("expected status %q, got %q", tr.status, job.Status)
		}
		if job.Phase != tr.phase {
			t.Errorf("expected phase %q, got %q", tr.phase, job.Phase)
		}
		if !job.UpdatedAt.After(before) {
			t.Errorf("expected UpdatedAt to advance after SetStatus(%q)", tr.status)
		}
	}
}

func TestJob_SetStatusFailed(t *testing.T) {
	job := &Job{
		ID:        "test-fail",
		Status:    StatusGenerating,
		UpdatedAt: time.Now(),
	}
	job.SetStatus(StatusFailed, "generating")
	if job.Status != StatusFailed {
		t.Errorf("expected status %q, got %q", StatusFailed, job.Status)
	}
}

func TestJob_AddError(t *testing.T) {
	job := &Job{ID: "err-test", UpdatedAt: time.Now()}
	job.AddError("page 3 unreadable")
	job.AddError("generate: quota")

	snap := job.Snapshot()
	if len(snap.Progress.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(snap.Progress.Errors))
	}
	if snap.Progress.Errors[0] != "page 3 unreadable" {
		t.Errorf("expected first error %q, got %q", "page 3 unreadable", snap.Progress.Errors[0])
	}
}

func TestJob_FileDataReleased(t *testing.T) {
	job := NewJob("a.txt", "", analysis.ModeSimple, []byte("file content here"))
	if string(job.FileData()) != "file content here" {
		t.Errorf("expected file data %q, got %q", "file content here", job.FileData())
	}
	job.releaseFileData()
	if job.FileData() != nil {
		t.Errorf("expected file data to be released, got %q", job.FileData())
	}
}

func TestJob_SnapshotErrorsNotNil(t *testing.T) {
	// Snapshot should always return non-nil errors slice.
	job := &Job{ID: "snap-test", UpdatedAt: time.Now()}
	snap := job.Snapshot()
	if snap.Progress.Errors == nil {
		t.Error("expected non-nil errors slice in snapshot")
	}
	if len(snap.Progress.Errors) != 0 {
		t.Errorf("expected empty errors, got %d", len(snap.Progress.Errors))
	}
}

func TestJobStore_PutGet(t *testing.T) {
	store := NewJobStore(time.Hour)
	job := &Job{ID: "store-1", UpdatedAt: time.Now()}
	store.Put(job)

	got := store.Get("store-1")
	if got == nil {
		t.Fatal("expected to get job back")
	}
	if got.ID != "store-1" {
		t.Errorf("expected ID %q, got %q", "store-1", got.ID)
	}
}

func TestJobStore_GetMissing(t *testing.T) {
	store := NewJobStore(time.Hour)
	if store.Get("nonexistent") != nil {
		t.Error("expected nil for missing job")
	}
}

func TestJobStore_TTLCleanup(t *testing.T) {
	store := NewJobStore(50 * time.Millisecond)

	expired := NewJob("old.txt", "", analysis.ModeSimple, nil)
	expired.SetStatus(StatusCompleted, "done")
	store.Put(expired)

	// Wait for the TTL to pass.
	time.Sleep(100 * time.Millisecond)

	fresh := NewJob("new.txt", "", analysis.ModeSimple, nil)
	fresh.SetStatus(StatusCompleted, "done")
	store.Put(fresh)

	if n := store.Cleanup(); n != 1 {
		t.Errorf("expected 1 removed job, got %d", n)
	}
	if store.Get(expired.ID) != nil {
		t.Error("expected expired job to be cleaned up")
	}
	if store.Get(fresh.ID) == nil {
		t.Error("expected fresh job to survive cleanup")
	}
}

func TestJobStore_CleanupEmpty(t *testing.T) {
	store := NewJobStore(time.Hour)
	// Should not panic on empty store.
	store.Cleanup()
}

func TestNewJob(t *testing.T) {
	a := NewJob("acme.pdf", "", analysis.ModeComplex, []byte("data"))
	b := NewJob("acme.pdf", "", analysis.ModeComplex, []byte("data"))
	if a.ID == b.ID {
		t.Errorf("expected unique ids, got %q twice", a.ID)
	}
	if _, err := uuid.Parse(a.ID); err != nil {
		t.Errorf("expected uuid job id, got %q", a.ID)
	}
	if a.Status != StatusQueued {
		t.Errorf("expected status %q, got %q", StatusQueued, a.Status)
	}
	if a.ContentHash != ContentHashHex([]byte("data")) {
		t.Errorf("expected content hash of upload, got %q", a.ContentHash)
	}
	if string(a.FileData()) != "data" {
		t.Errorf("expected file data to be kept until processing")
	}
}

func TestJob_SnapshotCopiesErrors(t *testing.T) {
	job := NewJob("a.txt", "", analysis.ModeSimple, nil)
	snap := job.Snapshot()
	if snap.Progress.Errors == nil {
		t.Error("expected non-nil errors slice")
	}
	job.AddError("one")
	snap = job.Snapshot()
	job.AddError("two")
	if len(snap.Progress.Errors) != 1 {
		t.Errorf("expected snapshot to be isolated, got %v", snap.Progress.Errors)
	}
}

func TestJobStore_CleanupKeepsActiveJobs(t *testing.T) {
	store := NewJobStore(time.Millisecond)
	done := NewJob("a.txt", "", analysis.ModeSimple, nil)
	done.SetStatus(StatusCompleted, "done")
	active := NewJob("b.txt", "", analysis.ModeSimple, nil)
	active.SetStatus(StatusGenerating, "generating")
	store.Put(done)
	store.Put(active)

	time.Sleep(5 * time.Millisecond)
	if n := store.Cleanup(); n != 1 {
		t.Errorf("expected 1 removed job, got %d", n)
	}
	if store.Get(done.ID) != nil {
		t.Error("expected finished job to expire")
	}
	if store.Get(active.ID) == nil {
		t.Error("expected in-flight job to survive cleanup")
	}
	if store.Len() != 1 {
		t.Errorf("expected 1 job left, got %d", store.Len())
	}
}
