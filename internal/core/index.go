package core

import "sort"

// BuildIndex collects the distinct species and observers in records,
// each sorted lexicographically so filter controls are reproducible.
func BuildIndex(records []Record) Index {
	species := make(map[string]bool)
	observers := make(map[string]bool)
	for _, r := range records {
		species[r.Species] = true
		observers[r.Observer] = true
	}
	return Index{
		Species:   sortedKeys(species),
		Observers: sortedKeys(observers),
	}
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// HasSpecies reports whether s is one of the indexed species.
func (i Index) HasSpecies(s string) bool {
	n := sort.SearchStrings(i.Species, s)
	return n < len(i.Species) && i.Species[n] == s
}

// HasObserver reports whether o is one of the indexed observers.
func (i Index) HasObserver(o string) bool {
	n := sort.SearchStrings(i.Observers, o)
	return n < len(i.Observers) && i.Observers[n] == o
}
