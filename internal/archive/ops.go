package archive

import (
	"context"
	"os"
	"strings"
)

// The op functions select between the native codec backend and the
// external tool backend. Native is the default; PreferTools flips the
// formats that have a standard command-line tool. lz4 has no tool slot
// in the configuration and is always handled natively.

func opCompressZip(m *Manager, ctx context.Context, sources []string, dest string) (string, error) {
	if m.cfg.PreferTools {
		return dest, m.toolCompressZip(ctx, sources, dest)
	}
	return dest, m.nativeCompress(ctx, sources, dest, FormatZip)
}

func opExtractZip(m *Manager, ctx context.Context, archivePath, destDir string) error {
	if m.cfg.PreferTools {
		return m.toolExtractZip(ctx, archivePath, destDir)
	}
	return m.nativeExtract(ctx, archivePath, destDir)
}

func opListZip(m *Manager, ctx context.Context, archivePath string) ([]Item, error) {
	if m.cfg.PreferTools {
		return m.toolListZip(ctx, archivePath)
	}
	return m.nativeList(ctx, archivePath)
}

func opCompressTar(m *Manager, ctx context.Context, sources []string, dest string) (string, error) {
	if m.cfg.PreferTools {
		return dest, m.toolCompressTar(ctx, sources, dest, FormatTar)
	}
	return dest, m.nativeCompress(ctx, sources, dest, FormatTar)
}

func opExtractTar(m *Manager, ctx context.Context, archivePath, destDir string) error {
	if m.cfg.PreferTools {
		return m.toolExtractTar(ctx, archivePath, destDir, FormatTar)
	}
	return m.nativeExtract(ctx, archivePath, destDir)
}

func opListTar(m *Manager, ctx context.Context, archivePath string) ([]Item, error) {
	if m.cfg.PreferTools {
		return m.toolListTar(ctx, archivePath, FormatTar)
	}
	return m.nativeList(ctx, archivePath)
}

// streamCompressOp builds the compress op for a single-stream format.
// One regular file compresses as a bare stream; anything else wraps a
// tar step, and the destination name is normalized so it reflects the
// tar wrapping (x.gz becomes x.tar.gz).
func streamCompressOp(f Format) func(*Manager, context.Context, []string, string) (string, error) {
	return func(m *Manager, ctx context.Context, sources []string, dest string) (string, error) {
		if len(sources) == 1 && isRegularFile(sources[0]) && !isCompressedTarDest(dest) {
			if m.cfg.PreferTools && f != FormatLz4 {
				return dest, m.toolCompressStream(ctx, sources[0], dest, f)
			}
			return dest, m.nativeCompressStream(ctx, sources[0], dest, f)
		}
		out := normalizeTarStreamDest(dest, f)
		if m.cfg.PreferTools && f != FormatLz4 {
			return out, m.toolCompressTar(ctx, sources, out, f)
		}
		return out, m.nativeCompress(ctx, sources, out, f)
	}
}

// streamExtractOp builds the extract op for a single-stream format.
// Tar-wrapped archives expand fully; a bare stream decompresses to a
// single file named by stripping the extension.
func streamExtractOp(f Format) func(*Manager, context.Context, string, string) error {
	return func(m *Manager, ctx context.Context, archivePath, destDir string) error {
		if isCompressedTar(archivePath) {
			if m.cfg.PreferTools && f != FormatLz4 {
				return m.toolExtractTar(ctx, archivePath, destDir, f)
			}
			return m.nativeExtract(ctx, archivePath, destDir)
		}
		if m.cfg.PreferTools && f != FormatLz4 {
			return m.toolExtractStream(ctx, archivePath, destDir, f)
		}
		return m.nativeExtractStream(ctx, archivePath, destDir, f)
	}
}

// listCompressedTar lists a tar archive wrapped in a stream compressor.
func (m *Manager) listCompressedTar(ctx context.Context, archivePath string) ([]Item, error) {
	if m.cfg.PreferTools && !strings.HasSuffix(strings.ToLower(archivePath), ".lz4") {
		f := FormatGzip
		if format, ok := FormatForPath(archivePath); ok {
			f = format
		}
		return m.toolListTar(ctx, archivePath, f)
	}
	return m.nativeList(ctx, archivePath)
}

func opCompressSevenZip(m *Manager, ctx context.Context, sources []string, dest string) (string, error) {
	return dest, m.toolCompressSevenZip(ctx, sources, dest)
}

func opExtractSevenZip(m *Manager, ctx context.Context, archivePath, destDir string) error {
	return m.toolExtractSevenZip(ctx, archivePath, destDir)
}

func opListSevenZip(m *Manager, ctx context.Context, archivePath string) ([]Item, error) {
	return m.toolListSevenZip(ctx, archivePath)
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// isCompressedTarDest reports whether the destination name already asks
// for a tar-wrapped stream, forcing the tar path even for one source.
func isCompressedTarDest(dest string) bool {
	return isCompressedTar(dest)
}

// normalizeTarStreamDest extends a single-stream destination name to
// carry the .tar marker when a tar step is wrapped in.
func normalizeTarStreamDest(dest string, f Format) string {
	if isCompressedTar(dest) {
		return dest
	}
	lower := strings.ToLower(dest)
	for _, ext := range f.Extensions() {
		if strings.HasSuffix(lower, ext) {
			return dest[:len(dest)-len(ext)] + ".tar" + ext
		}
	}
	return dest + ".tar" + f.Extensions()[0]
}
