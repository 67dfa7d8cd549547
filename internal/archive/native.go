package archive

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mholt/archives"
	"github.com/pierrec/lz4/v4"
)

// Native backend built on the archives codecs. Byte-exact behavior does
// not depend on which tool versions the host ships, which is why this
// backend is the default.

// compressionFor returns the stream compressor for a single-stream format.
func compressionFor(f Format) archives.Compression {
	switch f {
	case FormatBzip2:
		return archives.Bz2{}
	case FormatLz4:
		return archives.Lz4{}
	default:
		return archives.Gz{}
	}
}

// archiverFor resolves the multi-entry archiver from the requested
// format. Single-stream formats reach here only on the tar-wrapping
// path, so they archive through tar before the stream compressor.
func archiverFor(f Format) (archives.Archiver, bool) {
	switch f {
	case FormatZip:
		return archives.Zip{}, true
	case FormatTar:
		return archives.Tar{}, true
	case FormatGzip, FormatBzip2, FormatLz4:
		return archives.CompressedArchive{
			Compression: compressionFor(f),
			Archival:    archives.Tar{},
			Extraction:  archives.Tar{},
		}, true
	}
	return nil, false
}

// extractorForPath resolves the extractor from the archive path's name.
func extractorForPath(archivePath string) (archives.Extractor, bool) {
	lower := strings.ToLower(archivePath)
	switch {
	case strings.HasSuffix(lower, ".zip"):
		return archives.Zip{}, true
	case strings.HasSuffix(lower, ".tar"):
		return archives.Tar{}, true
	case isCompressedTar(archivePath):
		f, ok := FormatForPath(archivePath)
		if !ok {
			return nil, false
		}
		return archives.CompressedArchive{
			Compression: compressionFor(f),
			Extraction:  archives.Tar{},
		}, true
	}
	return nil, false
}

// filesFromSources maps each source to its base name inside the archive;
// directories are walked by the codec.
func filesFromSources(ctx context.Context, sources []string) ([]archives.FileInfo, error) {
	names := make(map[string]string, len(sources))
	for _, src := range sources {
		names[src] = filepath.Base(src)
	}
	return archives.FilesFromDisk(ctx, nil, names)
}

func (m *Manager) nativeCompress(ctx context.Context, sources []string, dest string, f Format) error {
	// the requested format binds the codec; dest is only a file name
	archiver, ok := archiverFor(f)
	if !ok {
		return unsupportedError(dest)
	}
	files, err := filesFromSources(ctx, sources)
	if err != nil {
		return creationError(dest, "cannot read source paths", err)
	}
	out, err := os.Create(dest)
	if err != nil {
		return creationError(dest, "cannot create archive file", err)
	}
	defer out.Close()
	if err := archiver.Archive(ctx, out, files); err != nil {
		os.Remove(dest)
		return creationError(dest, err.Error(), err)
	}
	return nil
}

func (m *Manager) nativeExtract(ctx context.Context, archivePath, destDir string) error {
	extractor, ok := extractorForPath(archivePath)
	if !ok {
		return unsupportedError(archivePath)
	}
	in, err := os.Open(archivePath)
	if err != nil {
		return extractionError(archivePath, "cannot open archive", err)
	}
	defer in.Close()
	if err := extractor.Extract(ctx, in, writeHandler(destDir)); err != nil {
		return extractionError(archivePath, err.Error(), err)
	}
	return nil
}

// writeHandler writes each extracted entry under destDir. Entries whose
// name would escape destDir are skipped; existing files are overwritten,
// matching the tool backends.
func writeHandler(destDir string) archives.FileHandler {
	root := filepath.Clean(destDir)
	return func(ctx context.Context, f archives.FileInfo) error {
		target := filepath.Join(root, filepath.FromSlash(f.NameInArchive))
		if target != root && !strings.HasPrefix(target, root+string(os.PathSeparator)) {
			return nil
		}
		if f.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		if f.LinkTarget != "" {
			_ = os.Remove(target)
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return err
			}
			return os.Symlink(f.LinkTarget, target)
		}
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}
		src, err := f.Open()
		if err != nil {
			return err
		}
		defer src.Close()
		out, err := os.Create(target)
		if err != nil {
			return err
		}
		if _, err := io.Copy(out, src); err != nil {
			out.Close()
			return err
		}
		if err := out.Close(); err != nil {
			return err
		}
		if perm := f.Mode().Perm(); perm != 0 {
			_ = os.Chmod(target, perm)
		}
		return nil
	}
}

func (m *Manager) nativeList(ctx context.Context, archivePath string) ([]Item, error) {
	extractor, ok := extractorForPath(archivePath)
	if !ok {
		return nil, unsupportedError(archivePath)
	}
	in, err := os.Open(archivePath)
	if err != nil {
		return nil, listingError(archivePath, "cannot open archive", err)
	}
	defer in.Close()
	var items []Item
	err = extractor.Extract(ctx, in, func(ctx context.Context, f archives.FileInfo) error {
		items = append(items, Item{
			Name:     f.NameInArchive,
			Size:     f.Size(),
			IsDir:    f.IsDir(),
			Modified: f.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, listingError(archivePath, err.Error(), err)
	}
	return items, nil
}

func (m *Manager) nativeCompressStream(ctx context.Context, source, dest string, f Format) error {
	in, err := os.Open(source)
	if err != nil {
		return creationError(dest, "cannot open source file", err)
	}
	defer in.Close()
	out, err := os.Create(dest)
	if err != nil {
		return creationError(dest, "cannot create archive file", err)
	}
	defer out.Close()

	var w io.WriteCloser
	if f == FormatLz4 {
		w = lz4.NewWriter(out)
	} else {
		w, err = compressionFor(f).OpenWriter(out)
		if err != nil {
			os.Remove(dest)
			return creationError(dest, err.Error(), err)
		}
	}
	if _, err := io.Copy(w, in); err != nil {
		w.Close()
		os.Remove(dest)
		return creationError(dest, err.Error(), err)
	}
	if err := w.Close(); err != nil {
		os.Remove(dest)
		return creationError(dest, err.Error(), err)
	}
	return nil
}

func (m *Manager) nativeExtractStream(ctx context.Context, archivePath, destDir string, f Format) error {
	in, err := os.Open(archivePath)
	if err != nil {
		return extractionError(archivePath, "cannot open archive", err)
	}
	defer in.Close()

	var r io.Reader
	if f == FormatLz4 {
		r = lz4.NewReader(in)
	} else {
		rc, err := compressionFor(f).OpenReader(in)
		if err != nil {
			return extractionError(archivePath, err.Error(), err)
		}
		defer rc.Close()
		r = rc
	}

	target := filepath.Join(destDir, streamBaseName(archivePath))
	out, err := os.Create(target)
	if err != nil {
		return extractionError(archivePath, "cannot create output file", err)
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		os.Remove(target)
		return extractionError(archivePath, err.Error(), err)
	}
	if err := out.Close(); err != nil {
		return extractionError(archivePath, err.Error(), err)
	}
	return nil
}
