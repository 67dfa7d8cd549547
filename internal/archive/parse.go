package archive

import (
	"strconv"
	"strings"
	"time"
)

// Listing parsers are defensive: header and separator lines are skipped
// by pattern, malformed lines are dropped, and partial results are
// preferred over failing the whole listing.

// parseZipListing parses `unzip -l` output:
//
//	Archive:  test.zip
//	  Length      Date    Time    Name
//	---------  ---------- -----   ----
//	       10  2024-01-02 03:04   a.txt
//	---------                     -------
//	       30                     1 file
func parseZipListing(out string) []Item {
	var items []Item
	inBody := false
	for _, line := range strings.Split(out, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "---") {
			if inBody {
				break
			}
			inBody = true
			continue
		}
		if !inBody || trimmed == "" {
			continue
		}
		fields := strings.Fields(trimmed)
		if len(fields) < 4 {
			continue
		}
		size, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			continue
		}
		name := strings.Join(fields[3:], " ")
		if name == "" {
			continue
		}
		isDir := strings.HasSuffix(name, "/")
		items = append(items, Item{
			Name:     strings.TrimSuffix(name, "/"),
			Size:     size,
			IsDir:    isDir,
			Modified: parseListingTime(fields[1] + " " + fields[2]),
		})
	}
	return items
}

// parseTarListing parses `tar -tvf` output (GNU format):
//
//	-rw-r--r-- user/group       10 2024-01-02 03:04 a.txt
//	drwxr-xr-x user/group        0 2024-01-02 03:04 sub/
func parseTarListing(out string) []Item {
	var items []Item
	for _, line := range strings.Split(out, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		fields := strings.Fields(trimmed)
		if len(fields) < 6 {
			continue
		}
		perms := fields[0]
		if len(perms) < 10 || !strings.ContainsRune("-dlbcps", rune(perms[0])) {
			continue
		}
		size, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			continue
		}
		name := strings.Join(fields[5:], " ")
		// symlink entries carry "name -> target"
		if idx := strings.Index(name, " -> "); idx >= 0 {
			name = name[:idx]
		}
		if name == "" {
			continue
		}
		items = append(items, Item{
			Name:     strings.TrimSuffix(name, "/"),
			Size:     size,
			IsDir:    perms[0] == 'd',
			Modified: parseListingTime(fields[3] + " " + fields[4]),
		})
	}
	return items
}

// parseSevenZipListing parses `7z l` output; entries sit between the two
// dashed separator lines:
//
//	2024-01-02 03:04:05 ....A           10           12  a.txt
//	2024-01-02 03:04:05 D....            0            0  sub
func parseSevenZipListing(out string) []Item {
	var items []Item
	inBody := false
	for _, line := range strings.Split(out, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "----") {
			if inBody {
				break
			}
			inBody = true
			continue
		}
		if !inBody || trimmed == "" {
			continue
		}
		fields := strings.Fields(trimmed)
		if len(fields) < 5 {
			continue
		}
		attr := fields[2]
		size, err := strconv.ParseInt(fields[3], 10, 64)
		if err != nil {
			continue
		}
		// the Compressed column is blank for some entries
		var name string
		if len(fields) >= 6 {
			name = strings.Join(fields[5:], " ")
		} else {
			name = fields[4]
		}
		if name == "" {
			continue
		}
		items = append(items, Item{
			Name:     name,
			Size:     size,
			IsDir:    strings.Contains(attr, "D"),
			Modified: parseListingTime(fields[0] + " " + fields[1]),
		})
	}
	return items
}

// listingTimeLayouts covers the timestamp shapes the tools emit; a
// timestamp that matches none of them yields a zero time.
var listingTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"01-02-2006 15:04",
}

func parseListingTime(s string) time.Time {
	for _, layout := range listingTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}
