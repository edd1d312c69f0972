package core

// convert.go turns raw CSV cells into record fields.
//
// Observation sheets are filled in by hand, so cells arrive with stray
// whitespace, thousands separators, Excel formula prefixes (="12") and
// decimal counts ("3.0"). Everything numeric is coerced to a non-negative
// int once here; consumers never see a missing value.

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// numericRegex validates that a string is a valid numeric format after cleanup.
// Matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// ParseCount converts a cell to a count.
// Empty, non-numeric and negative values all become 0. Fractions are truncated.
func ParseCount(s string) int {
	s = CleanCell(s)
	if s == "" {
		return 0
	}

	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")

	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return 0
		}
		return n
	}

	if !numericRegex.MatchString(s) {
		return leadingDigits(s)
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 || math.IsNaN(f) || f > math.MaxInt32 {
		return 0
	}
	return int(f)
}

// leadingDigits returns the integer prefix of s ("12 birds" -> 12),
// or 0 if s does not start with a digit.
func leadingDigits(s string) int {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

// HeaderIndex maps column labels to their position in the CSV row.
type HeaderIndex map[string]int

// MakeHeaderIndex creates a HeaderIndex from a CSV header row.
// Keys are canonical column labels; unknown headers are ignored.
// When a column appears twice the first occurrence wins.
func MakeHeaderIndex(header []string) HeaderIndex {
	idx := make(HeaderIndex, len(header))
	for i, h := range header {
		col, ok := LookupColumn(h)
		if !ok {
			continue
		}
		if _, seen := idx[col.Name]; !seen {
			idx[col.Name] = i
		}
	}
	return idx
}

// Cell returns the raw value of the named column, or "" if the column
// is absent from the header or the row is short.
// Text cells are kept verbatim so an exported file reads back unchanged.
func (h HeaderIndex) Cell(row []string, name string) string {
	i, ok := h[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

// CleanCell removes common CSV artifacts from a cell value:
// - Trims whitespace
// - Removes Excel formula prefix (="...")
// - Removes surrounding quotes
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") && len(s) >= 3 {
		s = s[2 : len(s)-1]
	}

	s = strings.Trim(s, `"`)
	return strings.TrimSpace(s)
}
