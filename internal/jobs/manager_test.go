package jobs

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"farc/internal/archive"
	"farc/internal/config"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m := NewManager(archive.NewManager(config.ArchiveConfig{}, nil))
	t.Cleanup(m.Close)
	return m
}

func TestCopyJob(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	writeFile(t, filepath.Join(src, "a.txt"), "hello")
	writeFile(t, filepath.Join(src, "dir", "b.txt"), "world")

	m := newTestManager(t)
	j := m.EnqueueCopy([]string{filepath.Join(src, "a.txt"), filepath.Join(src, "dir")}, dst)
	snap := m.Wait(j)

	if snap.Status != StatusCompleted {
		t.Fatalf("expected completed, got %s (err=%s)", snap.Status, snap.Error)
	}
	if snap.DoneFiles != 2 {
		t.Errorf("expected 2 done, got %d", snap.DoneFiles)
	}
	for _, rel := range []string{"a.txt", filepath.Join("dir", "b.txt")} {
		if _, err := os.Stat(filepath.Join(dst, rel)); err != nil {
			t.Errorf("missing copied file %s: %v", rel, err)
		}
	}
	// sources remain after a copy
	if _, err := os.Stat(filepath.Join(src, "a.txt")); err != nil {
		t.Errorf("copy must not remove the source: %v", err)
	}
}

func TestMoveJob(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	writeFile(t, filepath.Join(src, "dir", "b.txt"), "world")

	m := newTestManager(t)
	j := m.EnqueueMove([]string{filepath.Join(src, "dir")}, dst)
	snap := m.Wait(j)

	if snap.Status != StatusCompleted {
		t.Fatalf("expected completed, got %s (err=%s)", snap.Status, snap.Error)
	}
	if _, err := os.Stat(filepath.Join(dst, "dir", "b.txt")); err != nil {
		t.Errorf("missing moved file: %v", err)
	}
	if _, err := os.Stat(filepath.Join(src, "dir")); !os.IsNotExist(err) {
		t.Errorf("move must remove the source directory, stat err=%v", err)
	}
}

func TestCopyJobFailureRecordsPath(t *testing.T) {
	dst := t.TempDir()
	missing := filepath.Join(t.TempDir(), "missing.txt")

	m := newTestManager(t)
	j := m.EnqueueCopy([]string{missing}, dst)
	snap := m.Wait(j)

	if snap.Status != StatusFailed {
		t.Fatalf("expected failed, got %s", snap.Status)
	}
	if len(snap.Failures) != 1 || snap.Failures[0].TopSource != missing {
		t.Errorf("expected failure record for %s, got %#v", missing, snap.Failures)
	}
}

func TestCompressAndExtractJobs(t *testing.T) {
	src := t.TempDir()
	work := t.TempDir()
	writeFile(t, filepath.Join(src, "a.txt"), "0123456789")

	m := newTestManager(t)
	dest := filepath.Join(work, "out.zip")
	j := m.EnqueueCompress([]string{filepath.Join(src, "a.txt")}, dest, archive.FormatZip)
	snap := m.Wait(j)
	if snap.Status != StatusCompleted {
		t.Fatalf("compress job failed: %s (err=%s)", snap.Status, snap.Error)
	}
	if snap.Output != dest {
		t.Errorf("expected output %s, got %s", dest, snap.Output)
	}

	extractDir := filepath.Join(work, "out")
	j = m.EnqueueExtract(dest, extractDir)
	snap = m.Wait(j)
	if snap.Status != StatusCompleted {
		t.Fatalf("extract job failed: %s (err=%s)", snap.Status, snap.Error)
	}
	data, err := os.ReadFile(filepath.Join(extractDir, "a.txt"))
	if err != nil || string(data) != "0123456789" {
		t.Errorf("extracted content mismatch: %q err=%v", data, err)
	}
}

func TestCompressUnsupportedFormatFailsJob(t *testing.T) {
	m := newTestManager(t)
	j := m.EnqueueCompress([]string{"/tmp/x"}, "/tmp/out.rar", archive.FormatRar)
	snap := m.Wait(j)
	if snap.Status != StatusFailed {
		t.Fatalf("expected failed, got %s", snap.Status)
	}
	if snap.Error == "" {
		t.Error("failed job should carry an error message")
	}
}

func TestCancelPendingJob(t *testing.T) {
	m := newTestManager(t)

	// hold the worker on a slow-ish first job so the second stays pending
	src := t.TempDir()
	dst := t.TempDir()
	writeFile(t, filepath.Join(src, "a.txt"), "x")
	first := m.EnqueueCopy([]string{filepath.Join(src, "a.txt")}, dst)
	second := m.EnqueueCopy([]string{filepath.Join(src, "a.txt")}, dst)

	// whichever state the second job is in, cancel must resolve it
	m.Cancel(second.ID)
	m.Wait(first)
	snap := m.Wait(second)
	if snap.Status != StatusCanceled && snap.Status != StatusCompleted {
		t.Fatalf("unexpected status %s", snap.Status)
	}
}

func TestSubscribeNotifiedOnJobProgress(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	writeFile(t, filepath.Join(src, "a.txt"), "x")

	m := newTestManager(t)
	var mu sync.Mutex
	notified := 0
	m.Subscribe(func() {
		mu.Lock()
		notified++
		mu.Unlock()
	})

	j := m.EnqueueCopy([]string{filepath.Join(src, "a.txt")}, dst)
	m.Wait(j)

	mu.Lock()
	defer mu.Unlock()
	if notified == 0 {
		t.Error("subscriber should be notified at least once over a job's lifetime")
	}
}

func TestListIncludesHistory(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	writeFile(t, filepath.Join(src, "a.txt"), "x")

	m := newTestManager(t)
	j := m.EnqueueCopy([]string{filepath.Join(src, "a.txt")}, dst)
	m.Wait(j)

	found := false
	for _, snap := range m.List() {
		if snap.ID == j.ID && snap.Status == StatusCompleted {
			found = true
		}
	}
	if !found {
		t.Error("completed job should appear in List output")
	}
}
