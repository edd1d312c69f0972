package core

import (
	"sort"
	"strings"
)

// ParseSort validates a requested column and direction.
// Unknown columns yield ok=false; any direction other than "desc" is "asc".
func ParseSort(column, dir string) (SortSpec, bool) {
	col, ok := LookupColumn(column)
	if !ok {
		return SortSpec{}, false
	}
	if strings.ToLower(strings.TrimSpace(dir)) != "desc" {
		dir = "asc"
	} else {
		dir = "desc"
	}
	return SortSpec{Column: col.Name, Dir: dir}, true
}

// SortView returns a sorted copy of view. Count columns compare numerically,
// text columns lexicographically; ties keep their view order.
// An unknown column returns an unsorted copy.
func SortView(view View, spec SortSpec) View {
	out := make(View, len(view))
	copy(out, view)

	col, ok := LookupColumn(spec.Column)
	if !ok {
		return out
	}
	desc := spec.Dir == "desc"

	var less func(a, b Record) bool
	if col.Type == FieldCount {
		less = func(a, b Record) bool { return ParseCount(col.Value(a)) < ParseCount(col.Value(b)) }
	} else {
		less = func(a, b Record) bool { return col.Value(a) < col.Value(b) }
	}

	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}
