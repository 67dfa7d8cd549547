package fileinfo

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// FileType represents the type of file
type FileType int

const (
	FileTypeRegular FileType = iota
	FileTypeDirectory
	FileTypeSymlink
	FileTypeHidden
)

// FileStatus represents the current status of a file in the directory watcher
type FileStatus int

const (
	StatusNormal FileStatus = iota
	StatusAdded
	StatusDeleted
	StatusModified
)

// FileInfo represents a file or directory
type FileInfo struct {
	Name        string
	Path        string
	IsDir       bool
	Size        int64
	Modified    time.Time
	FileType    FileType
	Status      FileStatus
	ContentType string
}

// DetermineFileType determines the file type based on file attributes
func DetermineFileType(path string, name string, isDir bool) FileType {
	// Check if it's a symlink first (works on both Linux and Windows)
	if info, err := os.Lstat(path); err == nil {
		if info.Mode()&os.ModeSymlink != 0 {
			return FileTypeSymlink
		}
	}

	// Check for directory
	if isDir {
		return FileTypeDirectory
	}

	// Check for hidden files (starting with .)
	if strings.HasPrefix(name, ".") {
		return FileTypeHidden
	}

	// Check for Windows hidden file attribute
	if runtime.GOOS == "windows" && IsWindowsHidden(path) {
		return FileTypeHidden
	}

	return FileTypeRegular
}

// IsHiddenName reports whether a bare file name counts as hidden.
func IsHiddenName(name string) bool {
	return strings.HasPrefix(name, ".")
}

// FormatFileSize formats file size in human-readable format
func FormatFileSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}

// contentTypes maps common extensions to coarse content-type tags. The tag
// is informational; unknown extensions report an empty tag.
var contentTypes = map[string]string{
	".txt":  "text/plain",
	".md":   "text/markdown",
	".go":   "text/x-go",
	".py":   "text/x-python",
	".js":   "text/javascript",
	".json": "application/json",
	".yaml": "application/yaml",
	".yml":  "application/yaml",
	".toml": "application/toml",
	".xml":  "application/xml",
	".html": "text/html",
	".css":  "text/css",
	".csv":  "text/csv",
	".log":  "text/plain",
	".sh":   "text/x-shellscript",
	".c":    "text/x-c",
	".h":    "text/x-c",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".pdf":  "application/pdf",
	".zip":  "application/zip",
	".tar":  "application/x-tar",
	".gz":   "application/gzip",
	".bz2":  "application/x-bzip2",
	".7z":   "application/x-7z-compressed",
	".rar":  "application/vnd.rar",
}

// ContentTypeForPath returns a coarse content-type tag for a path based on
// its extension, or "" when the extension is not recognized.
func ContentTypeForPath(path string) string {
	return contentTypes[strings.ToLower(filepath.Ext(path))]
}

// FromDirEntry builds a FileInfo for one directory entry under dir.
// Entries whose attributes cannot be read return ok=false.
func FromDirEntry(dir string, entry os.DirEntry) (FileInfo, bool) {
	fullPath := filepath.Join(dir, entry.Name())
	info, err := entry.Info()
	if err != nil {
		return FileInfo{}, false
	}
	return FileInfo{
		Name:        entry.Name(),
		Path:        fullPath,
		IsDir:       entry.IsDir(),
		Size:        info.Size(),
		Modified:    info.ModTime(),
		FileType:    DetermineFileType(fullPath, entry.Name(), entry.IsDir()),
		Status:      StatusNormal,
		ContentType: ContentTypeForPath(entry.Name()),
	}, true
}
