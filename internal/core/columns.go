package core

import (
	"strconv"
	"strings"
)

// FieldType represents the expected data type for a CSV column.
type FieldType int

const (
	FieldText FieldType = iota
	FieldCount
)

// Column header labels, exactly as they appear in the source dataset.
const (
	ColSpecies   = "Species"
	ColDate      = "Date observed"
	ColObserver  = "Observer"
	ColEggs      = "No eggs"
	ColOffspring = "No of offspring’s" // Right single quotation mark, as exported by the survey sheet
	ColNests     = "No of nests"
	ColAdults    = "No adults"
	ColTotal     = "Total"
	ColComment   = "Comment"
)

// FieldSpec describes one column of the observation file.
type FieldSpec struct {
	Name    string                // Canonical header label, used on export
	Aliases []string              // Other header spellings accepted on load
	Type    FieldType             // Text or non-negative count
	get     func(Record) string   // Reads the column from a record
	set     func(*Record, string) // Writes a cell into a record
}

// Header returns every label accepted for this column.
func (f FieldSpec) Header() []string {
	return append([]string{f.Name}, f.Aliases...)
}

// Value returns the column's value for r as it is written on export.
func (f FieldSpec) Value(r Record) string {
	return f.get(r)
}

// Columns lists the observation columns in file order.
var Columns = []FieldSpec{
	{
		Name: ColSpecies, Type: FieldText,
		get: func(r Record) string { return r.Species },
		set: func(r *Record, s string) { r.Species = s },
	},
	{
		Name: ColDate, Type: FieldText,
		get: func(r Record) string { return r.DateObserved },
		set: func(r *Record, s string) { r.DateObserved = s },
	},
	{
		Name: ColObserver, Type: FieldText,
		get: func(r Record) string { return r.Observer },
		set: func(r *Record, s string) { r.Observer = s },
	},
	{
		Name: ColEggs, Type: FieldCount,
		get: func(r Record) string { return strconv.Itoa(r.Eggs) },
		set: func(r *Record, s string) { r.Eggs = ParseCount(s) },
	},
	{
		Name: ColOffspring, Type: FieldCount,
		Aliases: []string{"No of offspring's", "No of offsprings", "No of offspring"},
		get:     func(r Record) string { return strconv.Itoa(r.Offspring) },
		set:     func(r *Record, s string) { r.Offspring = ParseCount(s) },
	},
	{
		Name: ColNests, Type: FieldCount,
		get: func(r Record) string { return strconv.Itoa(r.Nests) },
		set: func(r *Record, s string) { r.Nests = ParseCount(s) },
	},
	{
		Name: ColAdults, Type: FieldCount,
		get: func(r Record) string { return strconv.Itoa(r.Adults) },
		set: func(r *Record, s string) { r.Adults = ParseCount(s) },
	},
	{
		Name: ColTotal, Type: FieldCount,
		get: func(r Record) string { return strconv.Itoa(r.Total) },
		set: func(r *Record, s string) { r.Total = ParseCount(s) },
	},
	{
		Name: ColComment, Type: FieldText,
		get: func(r Record) string { return r.Comment },
		set: func(r *Record, s string) { r.Comment = s },
	},
}

// HeaderLabels returns the canonical header row.
func HeaderLabels() []string {
	labels := make([]string, len(Columns))
	for i, c := range Columns {
		labels[i] = c.Name
	}
	return labels
}

// LookupColumn finds a column by any accepted label, ignoring case.
func LookupColumn(label string) (FieldSpec, bool) {
	key := headerKey(label)
	for _, c := range Columns {
		for _, h := range c.Header() {
			if headerKey(h) == key {
				return c, true
			}
		}
	}
	return FieldSpec{}, false
}

// headerKey normalizes a header label for matching: cleaned, lowercased,
// and with typographic apostrophes folded to ASCII.
func headerKey(label string) string {
	s := strings.ToLower(CleanCell(label))
	return apostrophes.Replace(s)
}

var apostrophes = strings.NewReplacer(
	"’", "'", // right single quotation mark
	"‘", "'", // left single quotation mark
	"ʼ", "'", // modifier letter apostrophe
	"`", "'",
)
