package watcher

import (
	"path/filepath"
	"sync"
	"time"

	"farc/internal/config"
	"farc/internal/fileinfo"
)

// ChangeHandler receives batches of detected changes. Handlers run on
// the watcher's processing goroutine and must not block for long.
type ChangeHandler interface {
	HandleChanges(changes *Changes)
}

// ChangeHandlerFunc adapts a function to the ChangeHandler interface.
type ChangeHandlerFunc func(changes *Changes)

func (f ChangeHandlerFunc) HandleChanges(changes *Changes) { f(changes) }

// Changes represents one batch of detected directory changes.
type Changes struct {
	Added    []fileinfo.FileInfo
	Deleted  []fileinfo.FileInfo
	Modified []fileinfo.FileInfo
}

// DirectoryWatcher polls a directory and reports incremental changes
// to a handler. Detection is snapshot-based; a file counts as modified
// when its size or modification time differs from the previous poll.
type DirectoryWatcher struct {
	dir      string
	handler  ChangeHandler
	fs       fileinfo.FileSystem
	interval time.Duration

	mu            sync.RWMutex // Protects previousFiles from concurrent access
	previousFiles map[string]fileinfo.FileInfo

	ticker     *time.Ticker
	stopChan   chan bool
	changeChan chan *Changes
	stopped    bool
	debugPrint func(format string, args ...interface{})
}

// NewDirectoryWatcher creates a watcher for dir. A nil filesystem
// selects the real one; a nil debug function disables debug output.
func NewDirectoryWatcher(dir string, cfg config.WatcherConfig, handler ChangeHandler, fs fileinfo.FileSystem, debugPrint func(format string, args ...interface{})) *DirectoryWatcher {
	if fs == nil {
		fs = &fileinfo.RealFileSystem{}
	}
	if debugPrint == nil {
		debugPrint = func(format string, args ...interface{}) {}
	}
	interval := cfg.Interval()
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &DirectoryWatcher{
		dir:           dir,
		handler:       handler,
		fs:            fs,
		interval:      interval,
		previousFiles: make(map[string]fileinfo.FileInfo),
		stopChan:      make(chan bool),
		changeChan:    make(chan *Changes, 10),
		debugPrint:    debugPrint,
	}
}

// Start begins polling. The first poll after Start establishes the
// baseline snapshot; only subsequent differences are reported.
func (dw *DirectoryWatcher) Start() {
	dw.mu.Lock()
	if dw.ticker != nil && !dw.stopped {
		dw.mu.Unlock()
		return // Already running
	}

	dw.stopped = false

	if dw.stopChan == nil {
		dw.stopChan = make(chan bool)
	}
	if dw.changeChan == nil {
		dw.changeChan = make(chan *Changes, 10)
	}

	dw.ticker = time.NewTicker(dw.interval)
	// capture for the goroutines so a later Stop cannot nil them out
	ticker := dw.ticker
	stopChan := dw.stopChan
	changeChan := dw.changeChan
	dw.mu.Unlock()

	dw.updateSnapshot()

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				dw.checkForChanges()
			case <-stopChan:
				return
			}
		}
	}()

	go func() {
		for {
			select {
			case changes, ok := <-changeChan:
				if !ok {
					return
				}
				dw.handler.HandleChanges(changes)
				dw.updateSnapshot()
			case <-stopChan:
				return
			}
		}
	}()
}

// Stop stops the watcher. Stopping an already stopped watcher is a
// no-op. Channel close happens under the lock that the poll goroutine's
// send path holds, so a racing poll cannot send on a closed channel.
func (dw *DirectoryWatcher) Stop() {
	dw.mu.Lock()
	defer dw.mu.Unlock()

	if dw.stopped {
		return
	}

	dw.stopped = true
	dw.ticker = nil

	close(dw.stopChan)
	dw.stopChan = nil

	close(dw.changeChan)
	dw.changeChan = nil
}

// updateSnapshot replaces the baseline with the current directory state.
func (dw *DirectoryWatcher) updateSnapshot() {
	current := dw.readCurrent()

	dw.mu.Lock()
	defer dw.mu.Unlock()
	dw.previousFiles = current
}

func (dw *DirectoryWatcher) readCurrent() map[string]fileinfo.FileInfo {
	current := make(map[string]fileinfo.FileInfo)
	entries, err := dw.fs.ReadDir(dw.dir)
	if err != nil {
		return current // Skip this poll if the directory read fails
	}
	for _, entry := range entries {
		fullPath := filepath.Join(dw.dir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			continue
		}
		current[fullPath] = fileinfo.FileInfo{
			Name:        entry.Name(),
			Path:        fullPath,
			IsDir:       entry.IsDir(),
			Size:        info.Size(),
			Modified:    info.ModTime(),
			FileType:    fileinfo.DetermineFileType(fullPath, entry.Name(), entry.IsDir()),
			Status:      fileinfo.StatusNormal,
			ContentType: fileinfo.ContentTypeForPath(entry.Name()),
		}
	}
	return current
}

// checkForChanges compares the current directory state against the
// baseline and queues any differences for the handler.
func (dw *DirectoryWatcher) checkForChanges() {
	current := dw.readCurrent()
	added, deleted, modified := dw.detectChanges(current)
	if len(added) == 0 && len(deleted) == 0 && len(modified) == 0 {
		return
	}

	dw.mu.RLock()
	defer dw.mu.RUnlock()
	if !dw.stopped && dw.changeChan != nil {
		select {
		case dw.changeChan <- &Changes{Added: added, Deleted: deleted, Modified: modified}:
		default:
			// Channel full, skip this update
			dw.debugPrint("Change channel full, skipping update")
		}
	}
}

// detectChanges compares current and previous states to find differences.
func (dw *DirectoryWatcher) detectChanges(currentFiles map[string]fileinfo.FileInfo) (added, deleted, modified []fileinfo.FileInfo) {
	dw.mu.RLock()
	defer dw.mu.RUnlock()

	for path, file := range currentFiles {
		if prevFile, exists := dw.previousFiles[path]; !exists {
			file.Status = fileinfo.StatusAdded
			added = append(added, file)
		} else if !file.Modified.Equal(prevFile.Modified) || file.Size != prevFile.Size {
			file.Status = fileinfo.StatusModified
			modified = append(modified, file)
		}
	}

	for path, file := range dw.previousFiles {
		if _, exists := currentFiles[path]; !exists {
			file.Status = fileinfo.StatusDeleted
			deleted = append(deleted, file)
		}
	}

	return added, deleted, modified
}
