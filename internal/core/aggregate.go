package core

// Aggregate derives the chart series for a view.
// Every series has one entry per record, in view order.
func Aggregate(view View) Projection {
	p := Projection{
		Labels: make([]string, len(view)),
		Adults: make([]int, len(view)),
		Nests:  make([]int, len(view)),
		Totals: make([]int, len(view)),
	}
	for i, r := range view {
		p.Labels[i] = r.Species
		p.Adults[i] = r.Adults
		p.Nests[i] = r.Nests
		p.Totals[i] = r.Total
		if r.Seen() {
			p.Seen++
		} else {
			p.NotSeen++
		}
	}
	return p
}

// Summary holds whole-view totals shown above the charts.
type Summary struct {
	Records   int `json:"records"`
	Eggs      int `json:"eggs"`
	Offspring int `json:"offspring"`
	Nests     int `json:"nests"`
	Adults    int `json:"adults"`
	Total     int `json:"total"`
	Seen      int `json:"seen"`
	NotSeen   int `json:"notSeen"`
}

// Summarize sums every count column of view.
func Summarize(view View) Summary {
	var s Summary
	for _, r := range view {
		s.Records++
		s.Eggs += r.Eggs
		s.Offspring += r.Offspring
		s.Nests += r.Nests
		s.Adults += r.Adults
		s.Total += r.Total
		if r.Seen() {
			s.Seen++
		} else {
			s.NotSeen++
		}
	}
	return s
}
