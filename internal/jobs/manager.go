package jobs

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"farc/internal/archive"
)

// debug hook, set from main; should print only when -d enabled
var debugf func(format string, args ...interface{})

// SetDebug installs a debug logger used when -d flag is on.
func SetDebug(fn func(format string, args ...interface{})) { debugf = fn }

func dbg(format string, args ...interface{}) {
	if debugf != nil {
		debugf("jobs: "+format, args...)
	}
}

// Manager coordinates queueing and background processing (single worker).
// Copy and move are handled in-process; compress and extract delegate to
// the archive manager.
type Manager struct {
	mu          sync.Mutex
	cond        *sync.Cond
	queue       []*Job
	closed      bool
	nextID      int64
	subscribers []func()
	current     *Job
	history     []*Job
	historyMax  int
	archiver    *archive.Manager
}

// NewManager constructs and starts a Manager. archiver may be nil when
// only copy/move jobs will be enqueued.
func NewManager(archiver *archive.Manager) *Manager {
	m := &Manager{historyMax: 100, archiver: archiver}
	m.cond = sync.NewCond(&m.mu)
	go m.worker()
	dbg("manager created; worker started")
	return m
}

// Close stops the worker after the current job finishes. Pending jobs
// are left unprocessed.
func (m *Manager) Close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	m.cond.Signal()
}

// Subscribe registers a callback called on state changes.
func (m *Manager) Subscribe(cb func()) {
	m.mu.Lock()
	m.subscribers = append(m.subscribers, cb)
	n := len(m.subscribers)
	m.mu.Unlock()
	dbg("subscriber added (total=%d)", n)
}

func (m *Manager) notify() {
	// call without holding the lock to avoid re-entrancy
	m.mu.Lock()
	subs := append([]func(){}, m.subscribers...)
	m.mu.Unlock()
	for _, cb := range subs {
		cb()
	}
}

// EnqueueCopy enqueues a copy job.
func (m *Manager) EnqueueCopy(sources []string, destDir string) *Job {
	return m.enqueue(TypeCopy, sources, destDir, 0)
}

// EnqueueMove enqueues a move job.
func (m *Manager) EnqueueMove(sources []string, destDir string) *Job {
	return m.enqueue(TypeMove, sources, destDir, 0)
}

// EnqueueCompress enqueues an archive creation job.
func (m *Manager) EnqueueCompress(sources []string, dest string, format archive.Format) *Job {
	return m.enqueue(TypeCompress, sources, dest, format)
}

// EnqueueExtract enqueues an archive extraction job.
func (m *Manager) EnqueueExtract(archivePath, destDir string) *Job {
	return m.enqueue(TypeExtract, []string{archivePath}, destDir, 0)
}

func (m *Manager) enqueue(t Type, sources []string, dest string, format archive.Format) *Job {
	j := &Job{
		ID:         atomic.AddInt64(&m.nextID, 1),
		Type:       t,
		Sources:    append([]string(nil), sources...),
		Dest:       dest,
		Format:     format,
		Status:     StatusPending,
		EnqueuedAt: time.Now(),
		done:       make(chan struct{}),
	}
	j.ctx, j.cancel = context.WithCancel(context.Background())
	j.TotalFiles = len(sources)

	m.mu.Lock()
	m.queue = append(m.queue, j)
	m.mu.Unlock()
	dbg("enqueue id=%d type=%s n=%d -> %s", j.ID, string(t), len(sources), dest)
	m.notify()
	m.cond.Signal()
	return j
}

// Cancel cancels a job by ID.
func (m *Manager) Cancel(id int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	// pending in queue
	for i, j := range m.queue {
		if j.ID == id {
			j.mu.Lock()
			j.Status = StatusCanceled
			j.CompletedAt = time.Now()
			j.mu.Unlock()
			m.queue = append(m.queue[:i], m.queue[i+1:]...)
			close(j.done)
			dbg("cancel pending id=%d", id)
			m.addHistoryLocked(j)
			go m.notify()
			return true
		}
	}
	// currently running
	if m.current != nil && m.current.ID == id {
		m.current.Cancel()
		dbg("cancel running id=%d", id)
		go m.notify()
		return true
	}
	return false
}

// Wait blocks until the job finishes and returns its final snapshot.
func (m *Manager) Wait(j *Job) JobSnapshot {
	<-j.done
	return j.Snapshot()
}

// List returns snapshots of pending + possibly running job (head is running when active).
func (m *Manager) List() []JobSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]JobSnapshot, 0, len(m.queue)+1+len(m.history))
	if m.current != nil {
		out = append(out, m.current.Snapshot())
	}
	for _, j := range m.queue {
		out = append(out, j.Snapshot())
	}
	for i := len(m.history) - 1; i >= 0; i-- {
		out = append(out, m.history[i].Snapshot())
	}
	return out
}

func (m *Manager) worker() {
	for {
		m.mu.Lock()
		for len(m.queue) == 0 && !m.closed {
			m.cond.Wait()
		}
		if m.closed {
			m.mu.Unlock()
			return
		}
		// pop head
		j := m.queue[0]
		m.queue = m.queue[1:]
		m.current = j
		dbg("worker popped id=%d type=%s (remaining=%d)", j.ID, string(j.Type), len(m.queue))
		m.mu.Unlock()

		// run job serially
		j.mu.Lock()
		j.Status = StatusRunning
		j.StartedAt = time.Now()
		j.mu.Unlock()
		dbg("start job id=%d", j.ID)
		m.notify()
		err := m.runJob(j)
		j.mu.Lock()
		if err != nil {
			if errors.Is(err, errCanceled) || errors.Is(err, context.Canceled) {
				j.Status = StatusCanceled
				dbg("job canceled id=%d after %d/%d", j.ID, j.DoneFiles, j.TotalFiles)
			} else {
				j.Status = StatusFailed
				j.Error = err.Error()
				dbg("job failed id=%d err=%v", j.ID, err)
			}
		} else {
			j.Status = StatusCompleted
			dbg("job completed id=%d done=%d", j.ID, j.DoneFiles)
		}
		j.CompletedAt = time.Now()
		j.mu.Unlock()
		close(j.done)
		m.notify()
		m.mu.Lock()
		m.current = nil
		m.addHistoryLocked(j)
		m.mu.Unlock()
	}
}

// addHistoryLocked appends a finished job to history and trims oldest; caller must hold m.mu
func (m *Manager) addHistoryLocked(j *Job) {
	m.history = append(m.history, j)
	if m.historyMax > 0 && len(m.history) > m.historyMax {
		drop := len(m.history) - m.historyMax
		m.history = append([]*Job{}, m.history[drop:]...)
	}
}

// runJob processes one job.
func (m *Manager) runJob(j *Job) error {
	switch j.Type {
	case TypeCompress:
		return m.runCompress(j)
	case TypeExtract:
		return m.runExtract(j)
	}

	dbg("runJob id=%d total=%d dest=%s", j.ID, len(j.Sources), j.Dest)
	for i, src := range j.Sources {
		if canceled(j) {
			return errCanceled
		}
		j.mu.Lock()
		j.CurrentSource = src
		j.Message = ""
		j.mu.Unlock()
		m.notify()
		if err := copyOrMovePath(j, src, j.Dest); err != nil {
			fp := failingPath(err)
			j.mu.Lock()
			j.Failures = append(j.Failures, JobFailure{TopSource: src, Path: fp, Error: err.Error()})
			j.mu.Unlock()
			return err
		}
		j.mu.Lock()
		j.DoneFiles = i + 1
		j.mu.Unlock()
		m.notify()
	}
	return nil
}

func (m *Manager) runCompress(j *Job) error {
	if m.archiver == nil {
		return errors.New("no archive manager configured")
	}
	j.mu.Lock()
	j.Message = "compressing"
	j.mu.Unlock()
	m.notify()
	written, err := m.archiver.Compress(j.ctx, j.Sources, j.Dest, j.Format)
	if err != nil {
		return err
	}
	j.mu.Lock()
	j.Output = written
	j.DoneFiles = j.TotalFiles
	j.mu.Unlock()
	return nil
}

func (m *Manager) runExtract(j *Job) error {
	if m.archiver == nil {
		return errors.New("no archive manager configured")
	}
	j.mu.Lock()
	j.CurrentSource = j.Sources[0]
	j.Message = "extracting"
	j.mu.Unlock()
	m.notify()
	if err := m.archiver.Extract(j.ctx, j.Sources[0], j.Dest); err != nil {
		return err
	}
	j.mu.Lock()
	j.DoneFiles = j.TotalFiles
	j.mu.Unlock()
	return nil
}

// --- copying primitives ---

var errCanceled = errors.New("job canceled")

func canceled(j *Job) bool {
	select {
	case <-j.ctx.Done():
		return true
	default:
		return false
	}
}

// copyOrMovePath copies or moves a path (file or directory).
func copyOrMovePath(j *Job, src string, destDir string) error {
	fi, err := os.Lstat(src)
	if err != nil {
		return wrapPath(src, err)
	}
	base := filepath.Base(src)
	dst := filepath.Join(destDir, base)

	if fi.IsDir() {
		if err := ensureDir(dst, fi.Mode()); err != nil {
			return wrapPath(dst, err)
		}
		entries, err := os.ReadDir(src)
		if err != nil {
			return wrapPath(src, err)
		}
		for _, e := range entries {
			if canceled(j) {
				return errCanceled
			}
			child := filepath.Join(src, e.Name())
			if err := copyOrMovePath(j, child, dst); err != nil {
				return err
			}
		}
		if j.Type == TypeMove {
			if canceled(j) {
				return errCanceled
			}
			// remove empty dir after moving children
			if err := os.Remove(src); err != nil {
				return wrapPath(src, err)
			}
		}
		return nil
	}

	// handle symlink as symlink
	if fi.Mode()&os.ModeSymlink != 0 {
		target, err := os.Readlink(src)
		if err != nil {
			return wrapPath(src, err)
		}
		_ = os.Remove(dst)
		if err := os.Symlink(target, dst); err != nil {
			return wrapPath(dst, err)
		}
		if j.Type == TypeMove {
			if err := os.Remove(src); err != nil {
				return wrapPath(src, err)
			}
		}
		return nil
	}

	// regular file
	if err := copyFileWithCancel(j, src, dst, fi.Mode()); err != nil {
		return err
	}
	if j.Type == TypeMove {
		if canceled(j) {
			return errCanceled
		}
		if err := os.Remove(src); err != nil {
			return wrapPath(src, err)
		}
	}
	return nil
}

func ensureDir(path string, mode os.FileMode) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return err
	}
	// best-effort to set mode
	_ = os.Chmod(path, mode.Perm())
	return nil
}

func copyFileWithCancel(j *Job, src, dst string, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return wrapPath(dst, err)
	}
	in, err := os.Open(src)
	if err != nil {
		return wrapPath(src, err)
	}
	defer in.Close()
	// create temp file then rename for atomic-ish replace
	tmp := dst + ".part"
	out, err := os.Create(tmp)
	if err != nil {
		return wrapPath(tmp, err)
	}
	buf := make([]byte, 1<<20) // 1 MiB
	for {
		if canceled(j) {
			out.Close()
			os.Remove(tmp)
			return errCanceled
		}
		n, rerr := in.Read(buf)
		if n > 0 {
			if _, werr := out.Write(buf[:n]); werr != nil {
				out.Close()
				os.Remove(tmp)
				return wrapPath(tmp, werr)
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			out.Close()
			os.Remove(tmp)
			return wrapPath(src, rerr)
		}
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return wrapPath(tmp, err)
	}
	if err := os.Chmod(tmp, mode.Perm()); err != nil {
		os.Remove(tmp)
		return wrapPath(tmp, err)
	}
	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return wrapPath(dst, err)
	}
	return nil
}

// --- error wrapping helpers ---

type opError struct {
	Path string
	Err  error
}

func (e opError) Error() string { return e.Path + ": " + e.Err.Error() }
func (e opError) Unwrap() error { return e.Err }
func wrapPath(p string, err error) error {
	if err == nil {
		return nil
	}
	return opError{Path: p, Err: err}
}

func failingPath(err error) string {
	var oe opError
	if errors.As(err, &oe) {
		return oe.Path
	}
	return ""
}

// exported cancel for running job (owner keeps pointer)
func (j *Job) Cancel() {
	if j.cancel != nil {
		j.cancel()
	}
}
