package core

// Record is one normalized observation entry.
// Numeric fields are never negative; missing or unparseable values are 0.
type Record struct {
	Species      string `json:"species"`
	DateObserved string `json:"dateObserved"` // Display string, never parsed as a date
	Observer     string `json:"observer"`
	Eggs         int    `json:"eggs"`
	Offspring    int    `json:"offspring"`
	Nests        int    `json:"nests"`
	Adults       int    `json:"adults"`
	Total        int    `json:"total"`
	Comment      string `json:"comment"`
}

// Seen reports whether any animal was counted for this record.
func (r Record) Seen() bool {
	return r.Total > 0
}

// View is an ordered subset of the full record set.
type View []Record

// Index holds the distinct values used to populate filter controls.
type Index struct {
	Species   []string `json:"species"`
	Observers []string `json:"observers"`
}

// Projection holds chart-ready series derived from a View.
// Labels, Adults, Nests and Totals are parallel and have len(view) entries.
type Projection struct {
	Labels  []string `json:"labels"`
	Adults  []int    `json:"adults"`
	Nests   []int    `json:"nests"`
	Totals  []int    `json:"totals"`
	Seen    int      `json:"seen"`
	NotSeen int      `json:"notSeen"`
}

// Len returns the number of records the projection was built from.
func (p Projection) Len() int {
	return p.Seen + p.NotSeen
}

// SortSpec represents a single sort column and direction.
type SortSpec struct {
	Column string // Column header label
	Dir    string // "asc" or "desc"
}
