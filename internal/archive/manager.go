package archive

import (
	"context"
	"os"

	"farc/internal/config"
)

// Manager dispatches compress, extract and list operations per format.
// It holds no state beyond its configuration; every call is independent
// and retryable by the caller.
type Manager struct {
	cfg    config.ArchiveConfig
	runner Runner
}

// NewManager creates an archive manager. A nil runner selects the real
// process runner; tests inject a fake.
func NewManager(cfg config.ArchiveConfig, runner Runner) *Manager {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Manager{cfg: cfg, runner: runner}
}

// operations carries the per-format capability closures. A nil field
// means the operation is unsupported for that format.
type operations struct {
	compress func(m *Manager, ctx context.Context, sources []string, dest string) (string, error)
	extract  func(m *Manager, ctx context.Context, archivePath, destDir string) error
	list     func(m *Manager, ctx context.Context, archivePath string) ([]Item, error)
}

// formatOps is the dispatch table. rar, iso, cab and lzh have no entry:
// every operation on them reports an unsupported format.
var formatOps = map[Format]operations{
	FormatZip: {
		compress: opCompressZip,
		extract:  opExtractZip,
		list:     opListZip,
	},
	FormatTar: {
		compress: opCompressTar,
		extract:  opExtractTar,
		list:     opListTar,
	},
	FormatGzip: {
		compress: streamCompressOp(FormatGzip),
		extract:  streamExtractOp(FormatGzip),
		list:     opListStream,
	},
	FormatBzip2: {
		compress: streamCompressOp(FormatBzip2),
		extract:  streamExtractOp(FormatBzip2),
		list:     opListStream,
	},
	FormatLz4: {
		compress: streamCompressOp(FormatLz4),
		extract:  streamExtractOp(FormatLz4),
		list:     opListStream,
	},
	FormatSevenZip: {
		compress: opCompressSevenZip,
		extract:  opExtractSevenZip,
		list:     opListSevenZip,
	},
}

// supported reports whether the format has the operation at all,
// including the 7z tool-availability gate. The check runs before any
// filesystem effect so unsupported operations leave no trace.
func (m *Manager) supported(f Format, have bool) bool {
	if !have {
		return false
	}
	if f == FormatSevenZip && m.cfg.SevenZipTool == "" {
		return false
	}
	return true
}

// Compress produces a new archive at dest from the source paths.
// The returned path is the archive actually written; it differs from
// dest only when a single-stream format wraps a tar step and the name
// is normalized to reflect it (x.gz becomes x.tar.gz).
func (m *Manager) Compress(ctx context.Context, sources []string, dest string, format Format) (string, error) {
	ops := formatOps[format]
	if !m.supported(format, ops.compress != nil) {
		return "", unsupportedError(dest)
	}
	if len(sources) == 0 {
		return "", creationError(dest, "no source paths", nil)
	}
	return ops.compress(m, ctx, sources, dest)
}

// Extract expands the archive's contents into destDir, creating it if
// absent. Pre-existing colliding files are governed by the underlying
// tool's overwrite behavior.
func (m *Manager) Extract(ctx context.Context, archivePath, destDir string) error {
	format, ok := FormatForPath(archivePath)
	if !ok {
		return unsupportedError(archivePath)
	}
	ops := formatOps[format]
	if !m.supported(format, ops.extract != nil) {
		return unsupportedError(archivePath)
	}
	if err := os.MkdirAll(destDir, 0755); err != nil {
		// filesystem errors propagate untranslated
		return err
	}
	return ops.extract(m, ctx, archivePath, destDir)
}

// List enumerates the archive's entries without extracting.
func (m *Manager) List(ctx context.Context, archivePath string) ([]Item, error) {
	format, ok := FormatForPath(archivePath)
	if !ok {
		return nil, unsupportedError(archivePath)
	}
	ops := formatOps[format]
	if !m.supported(format, ops.list != nil) {
		return nil, unsupportedError(archivePath)
	}
	return ops.list(m, ctx, archivePath)
}

// opListStream synthesizes the single entry of a compressed stream from
// the file's own metadata; the entry name strips the format extension.
// Tar-wrapped streams list the contained tar instead.
func opListStream(m *Manager, ctx context.Context, archivePath string) ([]Item, error) {
	if isCompressedTar(archivePath) {
		return m.listCompressedTar(ctx, archivePath)
	}
	info, err := os.Stat(archivePath)
	if err != nil {
		return nil, listingError(archivePath, "cannot stat archive", err)
	}
	return []Item{{
		Name:     streamBaseName(archivePath),
		Size:     info.Size(),
		IsDir:    false,
		Modified: info.ModTime(),
	}}, nil
}
