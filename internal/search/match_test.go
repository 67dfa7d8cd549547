package search

import (
	"testing"
)

func TestMatches(t *testing.T) {
	testCases := []struct {
		name          string
		matchType     MatchType
		text          string
		query         string
		caseSensitive bool
		expected      bool
	}{
		{"contains hit", MatchContains, "report_final.txt", "report", true, true},
		{"contains miss", MatchContains, "image.png", "report", true, false},
		{"contains case-insensitive", MatchContains, "REPORT.TXT", "report", false, true},
		{"contains case-sensitive miss", MatchContains, "REPORT.TXT", "report", true, false},
		{"starts-with hit", MatchStartsWith, "report.txt", "rep", true, true},
		{"starts-with miss", MatchStartsWith, "my_report.txt", "rep", true, false},
		{"ends-with hit", MatchEndsWith, "report.txt", ".txt", true, true},
		{"ends-with miss", MatchEndsWith, "report.txt.bak", ".txt", true, false},
		{"exact hit", MatchExact, "report.txt", "report.txt", true, true},
		{"exact miss", MatchExact, "report.txt", "report", true, false},
		{"exact case-insensitive", MatchExact, "Report.TXT", "report.txt", false, true},
		{"regex hit", MatchRegex, "report_2024.txt", `report_\d+`, true, true},
		{"regex case folding", MatchRegex, "REPORT.txt", "report", false, true},
		{"regex invalid is no match", MatchRegex, "anything", "[unclosed", true, false},
		{"glob hit", MatchGlob, "report.txt", "report.*", true, true},
		{"glob miss", MatchGlob, "report.txt", "*.png", true, false},
		{"glob case folding", MatchGlob, "REPORT.TXT", "report.*", false, true},
		{"glob invalid is no match", MatchGlob, "anything", "[unclosed", true, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := Matches(tc.matchType, tc.text, tc.query, tc.caseSensitive)
			if result != tc.expected {
				t.Errorf("Matches(%v, %q, %q, %v): expected %v, got %v",
					tc.matchType, tc.text, tc.query, tc.caseSensitive, tc.expected, result)
			}
		})
	}
}

func TestParseMatchType(t *testing.T) {
	testCases := []struct {
		input    string
		expected MatchType
		ok       bool
	}{
		{"contains", MatchContains, true},
		{"starts-with", MatchStartsWith, true},
		{"startswith", MatchStartsWith, true},
		{"ends-with", MatchEndsWith, true},
		{"EXACT", MatchExact, true},
		{"regex", MatchRegex, true},
		{"glob", MatchGlob, true},
		{"fuzzy", 0, false},
	}

	for _, tc := range testCases {
		mt, ok := ParseMatchType(tc.input)
		if ok != tc.ok {
			t.Errorf("ParseMatchType(%q): expected ok=%v, got %v", tc.input, tc.ok, ok)
		}
		if ok && mt != tc.expected {
			t.Errorf("ParseMatchType(%q): expected %v, got %v", tc.input, tc.expected, mt)
		}
	}
}

func TestMatchTypeString(t *testing.T) {
	if MatchContains.String() != "contains" {
		t.Errorf("Unexpected name %s", MatchContains.String())
	}
	if MatchType(999).String() != "unknown" {
		t.Error("Unknown match type should stringify to 'unknown'")
	}
}
