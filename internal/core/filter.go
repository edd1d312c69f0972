package core

import "strings"

// All is the selector value that disables a categorical filter.
const All = "all"

// FilterCriteria is the set of active filters for one interaction.
// Empty Species or Observer behave like All.
type FilterCriteria struct {
	Species  string
	Observer string
	Search   string
}

// DefaultCriteria returns criteria that match every record.
func DefaultCriteria() FilterCriteria {
	return FilterCriteria{Species: All, Observer: All}
}

// Predicate decides whether a record belongs in a view.
type Predicate func(Record) bool

// SpeciesIs matches records whose species equals s exactly.
// All (or "") matches everything.
func SpeciesIs(s string) Predicate {
	if isAll(s) {
		return nil
	}
	return func(r Record) bool { return r.Species == s }
}

// ObserverIs matches records whose observer equals o exactly.
// All (or "") matches everything.
func ObserverIs(o string) Predicate {
	if isAll(o) {
		return nil
	}
	return func(r Record) bool { return r.Observer == o }
}

// TextContains matches records whose species, observer or comment contains
// text, ignoring case. Empty text matches everything.
func TextContains(text string) Predicate {
	needle := strings.ToLower(text)
	if needle == "" {
		return nil
	}
	return func(r Record) bool {
		return strings.Contains(strings.ToLower(r.Species), needle) ||
			strings.Contains(strings.ToLower(r.Observer), needle) ||
			strings.Contains(strings.ToLower(r.Comment), needle)
	}
}

func isAll(v string) bool {
	return v == "" || v == All
}

// Predicates returns the predicates that are active for c.
// Inactive filters are left out, so an all-pass criteria returns none.
func (c FilterCriteria) Predicates() []Predicate {
	var preds []Predicate
	for _, p := range []Predicate{SpeciesIs(c.Species), ObserverIs(c.Observer), TextContains(c.Search)} {
		if p != nil {
			preds = append(preds, p)
		}
	}
	return preds
}

// IsZero reports whether c filters nothing out.
func (c FilterCriteria) IsZero() bool {
	return len(c.Predicates()) == 0
}

// Filter returns the records matching every active criterion, in source order.
func Filter(records []Record, c FilterCriteria) View {
	return Apply(records, c.Predicates()...)
}

// Apply returns the records for which every predicate holds, in source order.
// Nil predicates are ignored. The input slice is never modified.
func Apply(records []Record, preds ...Predicate) View {
	view := make(View, 0, len(records))
	for _, r := range records {
		if matchAll(r, preds) {
			view = append(view, r)
		}
	}
	return view
}

func matchAll(r Record, preds []Predicate) bool {
	for _, p := range preds {
		if p != nil && !p(r) {
			return false
		}
	}
	return true
}
