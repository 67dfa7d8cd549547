package archive

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// Tool backend shelling out to the configured command-line archivers.
// Kept behind the same dispatcher as the native codecs; output parsing
// is defensive because tool output varies across OS versions.

// splitSources returns a working directory and relative names when all
// sources share one parent, so archives carry base names. Mixed parents
// fall back to absolute paths.
func splitSources(sources []string) (dir string, names []string) {
	parent := filepath.Dir(sources[0])
	for _, src := range sources[1:] {
		if filepath.Dir(src) != parent {
			return "", sources
		}
	}
	names = make([]string, len(sources))
	for i, src := range sources {
		names[i] = filepath.Base(src)
	}
	return parent, names
}

func (m *Manager) toolCompressZip(ctx context.Context, sources []string, dest string) error {
	absDest, err := filepath.Abs(dest)
	if err != nil {
		return creationError(dest, "cannot resolve destination", err)
	}
	dir, names := splitSources(sources)
	args := append([]string{"-r", absDest}, names...)
	_, stderr, err := m.runner.Run(ctx, dir, m.cfg.ZipTool, args...)
	if err != nil {
		return creationError(dest, strings.TrimSpace(string(stderr)), err)
	}
	return nil
}

func (m *Manager) toolExtractZip(ctx context.Context, archivePath, destDir string) error {
	// -o overwrites existing files without prompting
	_, stderr, err := m.runner.Run(ctx, "", m.cfg.UnzipTool, "-o", archivePath, "-d", destDir)
	if err != nil {
		return extractionError(archivePath, strings.TrimSpace(string(stderr)), err)
	}
	return nil
}

func (m *Manager) toolListZip(ctx context.Context, archivePath string) ([]Item, error) {
	stdout, stderr, err := m.runner.Run(ctx, "", m.cfg.UnzipTool, "-l", archivePath)
	if err != nil {
		return nil, listingError(archivePath, strings.TrimSpace(string(stderr)), err)
	}
	return parseZipListing(string(stdout)), nil
}

// tarFlag builds a tar mode flag with the compression letter implied by
// the format.
func tarFlag(mode string, f Format) string {
	switch f {
	case FormatGzip:
		return mode + "zf"
	case FormatBzip2:
		return mode + "jf"
	default:
		return mode + "f"
	}
}

func (m *Manager) toolCompressTar(ctx context.Context, sources []string, dest string, f Format) error {
	absDest, err := filepath.Abs(dest)
	if err != nil {
		return creationError(dest, "cannot resolve destination", err)
	}
	dir, names := splitSources(sources)
	args := []string{tarFlag("-c", f), absDest}
	if dir != "" {
		args = append(args, "-C", dir)
	}
	args = append(args, names...)
	_, stderr, err := m.runner.Run(ctx, "", m.cfg.TarTool, args...)
	if err != nil {
		return creationError(dest, strings.TrimSpace(string(stderr)), err)
	}
	return nil
}

func (m *Manager) toolExtractTar(ctx context.Context, archivePath, destDir string, f Format) error {
	_, stderr, err := m.runner.Run(ctx, "", m.cfg.TarTool, tarFlag("-x", f), archivePath, "-C", destDir)
	if err != nil {
		return extractionError(archivePath, strings.TrimSpace(string(stderr)), err)
	}
	return nil
}

func (m *Manager) toolListTar(ctx context.Context, archivePath string, f Format) ([]Item, error) {
	stdout, stderr, err := m.runner.Run(ctx, "", m.cfg.TarTool, tarFlag("-tv", f), archivePath)
	if err != nil {
		return nil, listingError(archivePath, strings.TrimSpace(string(stderr)), err)
	}
	return parseTarListing(string(stdout)), nil
}

// streamTool returns the compressor binary for a single-stream format.
func (m *Manager) streamTool(f Format) string {
	if f == FormatBzip2 {
		return m.cfg.Bzip2Tool
	}
	return m.cfg.GzipTool
}

func (m *Manager) toolCompressStream(ctx context.Context, source, dest string, f Format) error {
	stdout, stderr, err := m.runner.Run(ctx, "", m.streamTool(f), "-c", source)
	if err != nil {
		return creationError(dest, strings.TrimSpace(string(stderr)), err)
	}
	if err := os.WriteFile(dest, stdout, 0644); err != nil {
		return creationError(dest, "cannot write archive file", err)
	}
	return nil
}

func (m *Manager) toolExtractStream(ctx context.Context, archivePath, destDir string, f Format) error {
	stdout, stderr, err := m.runner.Run(ctx, "", m.streamTool(f), "-dc", archivePath)
	if err != nil {
		return extractionError(archivePath, strings.TrimSpace(string(stderr)), err)
	}
	target := filepath.Join(destDir, streamBaseName(archivePath))
	if err := os.WriteFile(target, stdout, 0644); err != nil {
		return extractionError(archivePath, "cannot write output file", err)
	}
	return nil
}

func (m *Manager) toolCompressSevenZip(ctx context.Context, sources []string, dest string) error {
	absDest, err := filepath.Abs(dest)
	if err != nil {
		return creationError(dest, "cannot resolve destination", err)
	}
	dir, names := splitSources(sources)
	args := append([]string{"a", absDest}, names...)
	_, stderr, err := m.runner.Run(ctx, dir, m.cfg.SevenZipTool, args...)
	if err != nil {
		return creationError(dest, strings.TrimSpace(string(stderr)), err)
	}
	return nil
}

func (m *Manager) toolExtractSevenZip(ctx context.Context, archivePath, destDir string) error {
	// -y assumes yes on overwrite prompts
	_, stderr, err := m.runner.Run(ctx, "", m.cfg.SevenZipTool, "x", "-y", "-o"+destDir, archivePath)
	if err != nil {
		return extractionError(archivePath, strings.TrimSpace(string(stderr)), err)
	}
	return nil
}

func (m *Manager) toolListSevenZip(ctx context.Context, archivePath string) ([]Item, error) {
	stdout, stderr, err := m.runner.Run(ctx, "", m.cfg.SevenZipTool, "l", archivePath)
	if err != nil {
		return nil, listingError(archivePath, strings.TrimSpace(string(stderr)), err)
	}
	return parseSevenZipListing(string(stdout)), nil
}
