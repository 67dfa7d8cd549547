package index

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"farc/internal/config"
	apperrors "farc/internal/errors"
	"farc/internal/fileinfo"
	"farc/internal/search"
)

// Entry is one indexed file.
type Entry struct {
	Path        string
	Name        string
	Dir         string
	Size        int64
	Modified    time.Time
	ContentType string
	Content     string
}

// Store is a SQLite-backed content index. Queries run against stored
// content, so results reflect the last Build or Update, not the live
// filesystem.
type Store struct {
	db  *sql.DB
	cfg config.IndexConfig
	fs  fileinfo.FileSystem
}

const schema = `
CREATE TABLE IF NOT EXISTS files (
	path TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	dir TEXT NOT NULL,
	size INTEGER NOT NULL,
	modified INTEGER NOT NULL,
	content_type TEXT NOT NULL,
	content TEXT NOT NULL,
	indexed_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_files_name ON files(name);
CREATE INDEX IF NOT EXISTS idx_files_dir ON files(dir);
`

// Open creates or opens the index database at cfg.Path. A nil filesystem
// selects the real one.
func Open(cfg config.IndexConfig, fs fileinfo.FileSystem) (*Store, error) {
	if fs == nil {
		fs = &fileinfo.RealFileSystem{}
	}
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, apperrors.NewIndexError("open", cfg.Path, "failed to create index directory", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.Path)
	if err != nil {
		return nil, apperrors.NewIndexError("open", cfg.Path, "failed to open index database", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, apperrors.NewIndexError("open", cfg.Path, "failed to initialize index schema", err)
	}

	return &Store{db: db, cfg: cfg, fs: fs}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Build walks root and indexes every eligible file's content. Files
// outside the configured extension set, over the size cap, unreadable,
// or binary are skipped. Entries under root that no longer exist on
// disk are removed.
func (s *Store) Build(ctx context.Context, root string) (int, error) {
	abs, err := s.fs.Abs(root)
	if err == nil {
		root = abs
	}

	seen := make(map[string]bool)
	count := 0
	if err := s.walk(ctx, root, true, func(e Entry) error {
		seen[e.Path] = true
		count++
		return s.Upsert(ctx, e)
	}); err != nil {
		return count, err
	}
	if err := s.pruneMissing(ctx, root, seen); err != nil {
		return count, err
	}
	return count, nil
}

// walk emits an Entry for every indexable file under dir. Only a failed
// read of the root itself is terminal; unreadable subdirectories are
// skipped.
func (s *Store) walk(ctx context.Context, dir string, isRoot bool, emit func(Entry) error) error {
	entries, err := s.fs.ReadDir(dir)
	if err != nil {
		if isRoot {
			return apperrors.NewIndexError("build", dir, "cannot read index root", err)
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
		if fileinfo.IsHiddenName(name) {
			continue
		}
		path := filepath.Join(dir, name)
		if entry.IsDir() {
			if err := s.walk(ctx, path, false, emit); err != nil {
				return err
			}
			continue
		}
		if !s.indexable(name) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if s.cfg.MaxFileSize > 0 && info.Size() > s.cfg.MaxFileSize {
			continue
		}
		data, err := s.fs.ReadFile(path)
		if err != nil || !isText(data) {
			continue
		}
		e := Entry{
			Path:        path,
			Name:        name,
			Dir:         dir,
			Size:        info.Size(),
			Modified:    info.ModTime(),
			ContentType: fileinfo.ContentTypeForPath(name),
			Content:     string(data),
		}
		if err := emit(e); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) indexable(name string) bool {
	if len(s.cfg.Extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range s.cfg.Extensions {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}

func (s *Store) pruneMissing(ctx context.Context, root string, seen map[string]bool) error {
	rows, err := s.db.QueryContext(ctx, `SELECT path FROM files WHERE path LIKE ? ESCAPE '\'`, likePrefix(root))
	if err != nil {
		return apperrors.NewIndexError("build", root, "failed to enumerate indexed files", err)
	}
	defer rows.Close()

	var stale []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return apperrors.NewIndexError("build", root, "failed to scan indexed path", err)
		}
		if !seen[path] {
			stale = append(stale, path)
		}
	}
	if err := rows.Err(); err != nil {
		return apperrors.NewIndexError("build", root, "failed to enumerate indexed files", err)
	}
	for _, path := range stale {
		if err := s.Remove(ctx, path); err != nil {
			return err
		}
	}
	return nil
}

// Upsert inserts or replaces the entry for one file.
func (s *Store) Upsert(ctx context.Context, e Entry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO files
		(path, name, dir, size, modified, content_type, content, indexed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, e.Path, e.Name, e.Dir, e.Size, e.Modified.Unix(), e.ContentType, e.Content, time.Now().Unix())
	if err != nil {
		return apperrors.NewIndexError("upsert", e.Path, "failed to store index entry", err)
	}
	return nil
}

// Remove drops the entry for one file. Removing an unindexed path is
// not an error.
func (s *Store) Remove(ctx context.Context, path string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM files WHERE path = ?", path); err != nil {
		return apperrors.NewIndexError("remove", path, "failed to remove index entry", err)
	}
	return nil
}

// Refresh re-reads one file and updates its entry, or removes it when
// the file is gone or no longer indexable.
func (s *Store) Refresh(ctx context.Context, path string) error {
	info, err := s.fs.Stat(path)
	if err != nil || info.IsDir() {
		return s.Remove(ctx, path)
	}
	if !s.indexable(info.Name()) {
		return s.Remove(ctx, path)
	}
	if s.cfg.MaxFileSize > 0 && info.Size() > s.cfg.MaxFileSize {
		return s.Remove(ctx, path)
	}
	data, err := s.fs.ReadFile(path)
	if err != nil || !isText(data) {
		return s.Remove(ctx, path)
	}
	return s.Upsert(ctx, Entry{
		Path:        path,
		Name:        info.Name(),
		Dir:         filepath.Dir(path),
		Size:        info.Size(),
		Modified:    info.ModTime(),
		ContentType: fileinfo.ContentTypeForPath(info.Name()),
		Content:     string(data),
	})
}

// QueryContent returns indexed files whose content contains query,
// case-insensitively. A non-empty scope restricts results to that
// directory subtree. limit caps results; 0 means unbounded.
func (s *Store) QueryContent(ctx context.Context, query, scope string, limit int) ([]search.Result, error) {
	return s.query(ctx, "content", query, scope, limit)
}

// QueryName returns indexed files whose name contains query.
func (s *Store) QueryName(ctx context.Context, query, scope string, limit int) ([]search.Result, error) {
	return s.query(ctx, "name", query, scope, limit)
}

func (s *Store) query(ctx context.Context, column, query, scope string, limit int) ([]search.Result, error) {
	sqlQuery := `
		SELECT path, name, size, modified, content_type FROM files
		WHERE ` + column + ` LIKE ? ESCAPE '\'`
	args := []interface{}{likeContains(query)}
	if scope != "" {
		sqlQuery += ` AND path LIKE ? ESCAPE '\'`
		args = append(args, likePrefix(scope))
	}
	sqlQuery += " ORDER BY path"
	if limit > 0 {
		sqlQuery += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, apperrors.NewIndexError("query", scope, "index query failed", err)
	}
	defer rows.Close()

	var results []search.Result
	for rows.Next() {
		var r search.Result
		var modified int64
		if err := rows.Scan(&r.Path, &r.Name, &r.Size, &modified, &r.ContentType); err != nil {
			return nil, apperrors.NewIndexError("query", scope, "failed to scan result row", err)
		}
		r.Modified = time.Unix(modified, 0)
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewIndexError("query", scope, "index query failed", err)
	}
	return results, nil
}

// Stats reports the number of indexed files and their total size.
func (s *Store) Stats(ctx context.Context) (files int64, bytes int64, err error) {
	err = s.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(size), 0) FROM files").Scan(&files, &bytes)
	if err != nil {
		err = apperrors.NewIndexError("stats", "", "failed to read index stats", err)
	}
	return files, bytes, err
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)
	return r.Replace(s)
}

func likeContains(s string) string {
	return "%" + escapeLike(s) + "%"
}

func likePrefix(s string) string {
	return escapeLike(s) + string(filepath.Separator) + "%"
}

func isText(data []byte) bool {
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
