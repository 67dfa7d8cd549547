package archive

import (
	"testing"
)

func TestFormatForPath(t *testing.T) {
	testCases := []struct {
		path     string
		expected Format
		ok       bool
	}{
		{"/tmp/backup.zip", FormatZip, true},
		{"/tmp/backup.ZIP", FormatZip, true},
		{"/tmp/backup.tar", FormatTar, true},
		{"/tmp/backup.tar.gz", FormatGzip, true},
		{"/tmp/backup.tgz", FormatGzip, true},
		{"/tmp/backup.bz2", FormatBzip2, true},
		{"/tmp/backup.tbz2", FormatBzip2, true},
		{"/tmp/backup.7z", FormatSevenZip, true},
		{"/tmp/backup.rar", FormatRar, true},
		{"/tmp/image.iso", FormatIso, true},
		{"/tmp/setup.cab", FormatCab, true},
		{"/tmp/old.lzh", FormatLzh, true},
		{"/tmp/old.lha", FormatLzh, true},
		{"/tmp/data.lz4", FormatLz4, true},
		{"/tmp/readme.txt", 0, false},
		{"/tmp/noext", 0, false},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			format, ok := FormatForPath(tc.path)
			if ok != tc.ok {
				t.Fatalf("Expected ok=%v, got %v", tc.ok, ok)
			}
			if ok && format != tc.expected {
				t.Errorf("Expected format %v, got %v", tc.expected, format)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	if f, ok := ParseFormat("zip"); !ok || f != FormatZip {
		t.Error("zip should parse to FormatZip")
	}
	if f, ok := ParseFormat(" GZIP "); !ok || f != FormatGzip {
		t.Error("GZIP should parse case-insensitively")
	}
	if _, ok := ParseFormat("arj"); ok {
		t.Error("arj should not parse")
	}
}

func TestIsCompressedTar(t *testing.T) {
	testCases := []struct {
		path     string
		expected bool
	}{
		{"/tmp/a.tar.gz", true},
		{"/tmp/a.tgz", true},
		{"/tmp/a.tar.bz2", true},
		{"/tmp/a.tbz2", true},
		{"/tmp/a.tar.lz4", true},
		{"/tmp/a.gz", false},
		{"/tmp/a.tar", false},
		{"/tmp/a.zip", false},
	}

	for _, tc := range testCases {
		if isCompressedTar(tc.path) != tc.expected {
			t.Errorf("isCompressedTar(%s) should be %v", tc.path, tc.expected)
		}
	}
}

func TestStreamBaseName(t *testing.T) {
	testCases := []struct {
		path     string
		expected string
	}{
		{"/tmp/report.txt.gz", "report.txt"},
		{"/tmp/data.bz2", "data"},
		{"/tmp/bundle.tgz", "bundle.tar"},
		{"/tmp/bundle.tbz2", "bundle.tar"},
		{"/tmp/plain", "plain"},
	}

	for _, tc := range testCases {
		result := streamBaseName(tc.path)
		if result != tc.expected {
			t.Errorf("streamBaseName(%s): expected '%s', got '%s'", tc.path, tc.expected, result)
		}
	}
}

func TestNormalizeTarStreamDest(t *testing.T) {
	testCases := []struct {
		dest     string
		format   Format
		expected string
	}{
		{"/tmp/out.gz", FormatGzip, "/tmp/out.tar.gz"},
		{"/tmp/out.tar.gz", FormatGzip, "/tmp/out.tar.gz"},
		{"/tmp/out.tgz", FormatGzip, "/tmp/out.tgz"},
		{"/tmp/out.bz2", FormatBzip2, "/tmp/out.tar.bz2"},
		{"/tmp/out", FormatGzip, "/tmp/out.tar.gz"},
		{"/tmp/out.lz4", FormatLz4, "/tmp/out.tar.lz4"},
	}

	for _, tc := range testCases {
		result := normalizeTarStreamDest(tc.dest, tc.format)
		if result != tc.expected {
			t.Errorf("normalizeTarStreamDest(%s): expected '%s', got '%s'", tc.dest, tc.expected, result)
		}
	}
}

func TestFormatMetadata(t *testing.T) {
	if FormatZip.String() != "zip" {
		t.Errorf("Expected 'zip', got '%s'", FormatZip.String())
	}
	if Format(999).String() != "unknown" {
		t.Error("Unknown format should stringify to 'unknown'")
	}
	if FormatZip.IconHint() != "archive-zip" {
		t.Errorf("Unexpected icon hint '%s'", FormatZip.IconHint())
	}
	exts := FormatLzh.Extensions()
	if len(exts) != 2 || exts[0] != ".lzh" {
		t.Errorf("Unexpected lzh extensions %v", exts)
	}
}
