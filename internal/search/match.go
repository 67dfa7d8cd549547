package search

import (
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// MatchType selects how the query string is compared against a name or
// content.
type MatchType int

const (
	MatchContains MatchType = iota
	MatchStartsWith
	MatchEndsWith
	MatchExact
	MatchRegex
	MatchGlob
)

// String returns the match type's name as used on the command line.
func (mt MatchType) String() string {
	switch mt {
	case MatchContains:
		return "contains"
	case MatchStartsWith:
		return "starts-with"
	case MatchEndsWith:
		return "ends-with"
	case MatchExact:
		return "exact"
	case MatchRegex:
		return "regex"
	case MatchGlob:
		return "glob"
	default:
		return "unknown"
	}
}

// ParseMatchType resolves a match type name.
func ParseMatchType(name string) (MatchType, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "contains":
		return MatchContains, true
	case "starts-with", "startswith":
		return MatchStartsWith, true
	case "ends-with", "endswith":
		return MatchEndsWith, true
	case "exact", "exact-match":
		return MatchExact, true
	case "regex":
		return MatchRegex, true
	case "glob":
		return MatchGlob, true
	}
	return 0, false
}

// Matches applies the strategy to text. A regex or glob pattern that
// fails to compile is treated as matching nothing rather than aborting
// the search.
func Matches(mt MatchType, text, query string, caseSensitive bool) bool {
	switch mt {
	case MatchRegex:
		pattern := query
		if !caseSensitive {
			pattern = "(?i)" + pattern
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return false
		}
		return re.MatchString(text)
	case MatchGlob:
		if !caseSensitive {
			text = strings.ToLower(text)
			query = strings.ToLower(query)
		}
		ok, err := doublestar.Match(query, text)
		return err == nil && ok
	}

	if !caseSensitive {
		text = strings.ToLower(text)
		query = strings.ToLower(query)
	}
	switch mt {
	case MatchContains:
		return strings.Contains(text, query)
	case MatchStartsWith:
		return strings.HasPrefix(text, query)
	case MatchEndsWith:
		return strings.HasSuffix(text, query)
	case MatchExact:
		return text == query
	default:
		return false
	}
}
