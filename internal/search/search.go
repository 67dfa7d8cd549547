package search

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	apperrors "farc/internal/errors"
	"farc/internal/fileinfo"
)

// Options configures one search call. Passed by value; the engine keeps
// no state between calls.
type Options struct {
	MatchType       MatchType
	CaseSensitive   bool
	MaxResults      int   // 0 means unbounded
	IncludeHidden   bool  // hidden entries are skipped unless set
	FileSizeLimit   int64 // content scans skip larger files; 0 means no limit
	ExcludePatterns []string
}

// Result is one filesystem entry matched by a search.
type Result struct {
	Path        string
	Name        string
	IsDir       bool
	Size        int64
	Modified    time.Time
	Created     time.Time // zero where the platform exposes no birth time
	ContentType string
}

// Engine locates filesystem entries by name or content. Every call is
// stateless and independent; a superseded search's results are the
// caller's to discard.
type Engine struct {
	fs fileinfo.FileSystem
}

// NewEngine creates a search engine. A nil filesystem selects the real one.
func NewEngine(fs fileinfo.FileSystem) *Engine {
	if fs == nil {
		fs = &fileinfo.RealFileSystem{}
	}
	return &Engine{fs: fs}
}

// SearchByName recursively walks root and applies the match strategy to
// each entry's name. Directories and files are both eligible matches;
// traversal order is the directory order, making early termination at
// MaxResults deterministic.
func (e *Engine) SearchByName(ctx context.Context, root, query string, opts Options) ([]Result, error) {
	var results []Result
	err := e.walkTop(ctx, root, opts, func(fi fileinfo.FileInfo) bool {
		if Matches(opts.MatchType, fi.Name, query, opts.CaseSensitive) {
			results = append(results, resultFrom(fi))
		}
		return opts.MaxResults > 0 && len(results) >= opts.MaxResults
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// SearchByContent walks root and applies the match strategy to the text
// content of candidate files. Directories never match; files outside the
// extension filter, over the size limit, unreadable, or binary are
// skipped without error.
func (e *Engine) SearchByContent(ctx context.Context, root, query string, extFilter []string, opts Options) ([]Result, error) {
	filter := make(map[string]bool, len(extFilter))
	for _, ext := range extFilter {
		filter[strings.ToLower(ext)] = true
	}

	var results []Result
	err := e.walkTop(ctx, root, opts, func(fi fileinfo.FileInfo) bool {
		if fi.IsDir {
			return false
		}
		if len(filter) > 0 && !filter[strings.ToLower(filepath.Ext(fi.Name))] {
			return false
		}
		if opts.FileSizeLimit > 0 && fi.Size > opts.FileSizeLimit {
			return false
		}
		data, err := e.fs.ReadFile(fi.Path)
		if err != nil || !isTextData(data) {
			return false
		}
		if Matches(opts.MatchType, string(data), query, opts.CaseSensitive) {
			results = append(results, resultFrom(fi))
		}
		return opts.MaxResults > 0 && len(results) >= opts.MaxResults
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// walk visits every eligible entry under dir. The visit callback returns
// true to stop the walk early. Only a failed read of the root itself is
// a terminal error; unreadable subdirectories are skipped.
func (e *Engine) walk(ctx context.Context, root, dir string, opts Options, isRoot bool, visit func(fileinfo.FileInfo) bool) error {
	entries, err := e.fs.ReadDir(dir)
	if err != nil {
		if isRoot {
			return apperrors.NewSearchError("walk", dir, "cannot read search root", err)
		}
		return nil
	}

	for _, entry := range entries {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		name := entry.Name()
		if !opts.IncludeHidden && fileinfo.IsHiddenName(name) {
			continue
		}
		path := filepath.Join(dir, name)
		if excluded(root, path, opts.ExcludePatterns) {
			continue
		}

		fi := fileinfo.FileInfo{
			Name:        name,
			Path:        path,
			IsDir:       entry.IsDir(),
			ContentType: fileinfo.ContentTypeForPath(name),
		}
		if info, err := entry.Info(); err == nil {
			fi.Size = info.Size()
			fi.Modified = info.ModTime()
		}
		if visit(fi) {
			return errWalkDone
		}
		if entry.IsDir() {
			if err := e.walk(ctx, root, path, opts, false, visit); err != nil {
				return err
			}
		}
	}
	return nil
}

// errWalkDone signals early termination; it never escapes the engine.
var errWalkDone = walkDoneError{}

type walkDoneError struct{}

func (walkDoneError) Error() string { return "walk done" }

func (e *Engine) walkTop(ctx context.Context, root string, opts Options, visit func(fileinfo.FileInfo) bool) error {
	err := e.walk(ctx, root, root, opts, true, visit)
	if err == errWalkDone {
		return nil
	}
	return err
}

// excluded applies the doublestar exclude patterns to the path relative
// to the search root. Patterns that fail to compile exclude nothing.
func excluded(root, path string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// isTextData reports whether data looks like text by probing the first
// 8 KB for null bytes.
func isTextData(data []byte) bool {
	probe := data
	if len(probe) > 8192 {
		probe = probe[:8192]
	}
	for _, b := range probe {
		if b == 0 {
			return false
		}
	}
	return true
}

func resultFrom(fi fileinfo.FileInfo) Result {
	return Result{
		Path:        fi.Path,
		Name:        fi.Name,
		IsDir:       fi.IsDir,
		Size:        fi.Size,
		Modified:    fi.Modified,
		ContentType: fi.ContentType,
	}
}
