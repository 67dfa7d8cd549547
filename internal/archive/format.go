package archive

import (
	"path/filepath"
	"strings"
	"time"
)

// Format identifies an archive container type.
type Format int

const (
	FormatZip Format = iota
	FormatTar
	FormatGzip
	FormatBzip2
	FormatSevenZip
	FormatRar
	FormatIso
	FormatCab
	FormatLzh
	FormatLz4
)

// formatSpec describes one format: its display name, the filename
// extensions it is resolved from, and an icon hint for callers that
// present archives in a listing.
type formatSpec struct {
	name       string
	extensions []string
	iconHint   string
}

var formatSpecs = map[Format]formatSpec{
	FormatZip:      {name: "zip", extensions: []string{".zip"}, iconHint: "archive-zip"},
	FormatTar:      {name: "tar", extensions: []string{".tar"}, iconHint: "archive-tar"},
	FormatGzip:     {name: "gzip", extensions: []string{".gz", ".tgz"}, iconHint: "archive-gzip"},
	FormatBzip2:    {name: "bzip2", extensions: []string{".bz2", ".tbz2", ".tbz"}, iconHint: "archive-bzip2"},
	FormatSevenZip: {name: "7z", extensions: []string{".7z"}, iconHint: "archive-7z"},
	FormatRar:      {name: "rar", extensions: []string{".rar"}, iconHint: "archive-rar"},
	FormatIso:      {name: "iso", extensions: []string{".iso"}, iconHint: "disc-image"},
	FormatCab:      {name: "cab", extensions: []string{".cab"}, iconHint: "archive-cab"},
	FormatLzh:      {name: "lzh", extensions: []string{".lzh", ".lha"}, iconHint: "archive-lzh"},
	FormatLz4:      {name: "lz4", extensions: []string{".lz4"}, iconHint: "archive-lz4"},
}

// String returns the format's display name
func (f Format) String() string {
	if spec, ok := formatSpecs[f]; ok {
		return spec.name
	}
	return "unknown"
}

// Extensions returns the filename extensions recognized for the format
func (f Format) Extensions() []string {
	return append([]string(nil), formatSpecs[f].extensions...)
}

// IconHint returns the icon hint associated with the format
func (f Format) IconHint() string {
	return formatSpecs[f].iconHint
}

// ParseFormat resolves a format name as used on the command line.
func ParseFormat(name string) (Format, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for f, spec := range formatSpecs {
		if spec.name == name {
			return f, true
		}
	}
	return 0, false
}

// FormatForPath resolves a format from a file path's extension.
// Resolution uses the last extension only; compressed tar names such as
// x.tar.gz resolve to the compression format and are recognized as
// tar-wrapped by the operations themselves.
func FormatForPath(path string) (Format, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return 0, false
	}
	for f, spec := range formatSpecs {
		for _, e := range spec.extensions {
			if e == ext {
				return f, true
			}
		}
	}
	return 0, false
}

// compressedTarSuffixes maps tar-wrapped stream suffixes to the plain
// tar suffix used when deriving the decompressed name.
var compressedTarSuffixes = []string{".tar.gz", ".tgz", ".tar.bz2", ".tbz2", ".tbz", ".tar.lz4"}

// isCompressedTar reports whether the path names a tar archive wrapped
// in a single-stream compressor.
func isCompressedTar(path string) bool {
	lower := strings.ToLower(path)
	for _, suffix := range compressedTarSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}

// streamBaseName derives the decompressed file name for a single-stream
// archive by stripping the format's extension. Short-form tar suffixes
// (.tgz, .tbz2) restore the implied .tar.
func streamBaseName(path string) string {
	base := filepath.Base(path)
	lower := strings.ToLower(base)
	switch {
	case strings.HasSuffix(lower, ".tgz"):
		return base[:len(base)-len(".tgz")] + ".tar"
	case strings.HasSuffix(lower, ".tbz2"):
		return base[:len(base)-len(".tbz2")] + ".tar"
	case strings.HasSuffix(lower, ".tbz"):
		return base[:len(base)-len(".tbz")] + ".tar"
	}
	if ext := filepath.Ext(base); ext != "" {
		return base[:len(base)-len(ext)]
	}
	return base
}

// Item represents one entry listed from an archive.
type Item struct {
	Name     string
	Size     int64
	IsDir    bool
	Modified time.Time // zero when the listing carries no timestamp
}
