package templates

import (
	"context"
	"io"
	"net/url"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/wildlife/internal/core"
)

// ChartRef is one chart image on the dashboard.
type ChartRef struct {
	Kind  string
	Title string
}

// DashboardParams is everything the dashboard page shows for one request.
type DashboardParams struct {
	Criteria core.FilterCriteria
	Sort     core.SortSpec
	Index    core.Index
	View     core.View // Already sorted
	Summary  core.Summary
	Status   core.Status
	Charts   []ChartRef

	// Query holds the filter parameters, reused for chart, export and sort links.
	Query url.Values
}

// Dashboard renders the full dashboard page.
func Dashboard(p DashboardParams) templ.Component {
	return Layout(Page{Title: "Wildlife observations"}, dashboardBody(p))
}

func dashboardBody(p DashboardParams) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}

		h.raw(`<header><h1>Wildlife observations</h1><p class="status">`)
		h.num(len(p.View))
		h.raw(` of `)
		h.num(p.Status.Records)
		h.raw(` records`)
		if p.Status.Source != "" {
			h.raw(` from <code>`)
			h.text(p.Status.Source)
			h.raw(`</code>`)
		}
		h.raw(`</p></header>`)

		h.component(ctx, FilterForm(p.Criteria, p.Sort, p.Index))
		h.component(ctx, SummaryCards(p.Summary))

		h.raw(`<section class="charts">`)
		chartQuery := p.Query.Encode()
		for _, c := range p.Charts {
			src := "/charts/" + c.Kind + ".svg"
			if chartQuery != "" {
				src += "?" + chartQuery
			}
			h.raw(`<figure class="chart chart-`)
			h.text(c.Kind)
			h.raw(`"><img`)
			h.attr("src", src)
			h.attr("alt", c.Title)
			h.raw(` loading="lazy"><figcaption>`)
			h.text(c.Title)
			h.raw(`</figcaption></figure>`)
		}
		h.raw(`</section>`)

		exportURL := "/api/export"
		if chartQuery != "" {
			exportURL += "?" + chartQuery
		}
		h.raw(`<p class="actions"><a class="button"`)
		h.attr("href", exportURL)
		h.attr("download", core.ExportFileName)
		h.raw(`>Export CSV</a></p>`)

		h.component(ctx, RecordsTable(p.View, p.Sort, p.Query))
		return h.err
	})
}

// FilterForm renders the species, observer and search controls.
// A selected value missing from the index is still shown so a stale
// link keeps its (empty) selection visible.
func FilterForm(c core.FilterCriteria, sort core.SortSpec, idx core.Index) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}

		h.raw(`<form class="filters" id="filters" method="get" action="/">`)

		h.raw(`<label>Species <select name="species">`)
		writeOptions(h, "All species", c.Species, idx.Species, idx.HasSpecies(c.Species))
		h.raw(`</select></label>`)

		h.raw(`<label>Observer <select name="observer">`)
		writeOptions(h, "All observers", c.Observer, idx.Observers, idx.HasObserver(c.Observer))
		h.raw(`</select></label>`)

		h.raw(`<label>Search <input type="search" name="q" placeholder="species, observer or comment"`)
		h.attr("value", c.Search)
		h.raw(`></label>`)

		if sort.Column != "" {
			h.raw(`<input type="hidden" name="sort"`)
			h.attr("value", sort.Column)
			h.raw(`><input type="hidden" name="dir"`)
			h.attr("value", sort.Dir)
			h.raw(`>`)
		}

		h.raw(`<button type="submit">Apply</button> <a href="/">Reset</a></form>`)
		return h.err
	})
}

func writeOptions(h *htmlWriter, allLabel, selected string, values []string, known bool) {
	h.raw(`<option value="all"`)
	if selected == "" || selected == core.All {
		h.raw(` selected`)
	}
	h.raw(`>`)
	h.text(allLabel)
	h.raw(`</option>`)

	if selected != "" && selected != core.All && !known {
		h.raw(`<option selected`)
		h.attr("value", selected)
		h.raw(`>`)
		h.text(selected)
		h.raw(`</option>`)
	}

	for _, v := range values {
		h.raw(`<option`)
		h.attr("value", v)
		if v == selected {
			h.raw(` selected`)
		}
		h.raw(`>`)
		h.text(v)
		h.raw(`</option>`)
	}
}

// SummaryCards renders whole-view totals.
func SummaryCards(s core.Summary) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		cards := []struct {
			label string
			value int
		}{
			{"Records", s.Records},
			{"Adults", s.Adults},
			{"Nests", s.Nests},
			{"Eggs", s.Eggs},
			{"Offspring", s.Offspring},
			{"Total counted", s.Total},
			{"Seen", s.Seen},
			{"Not seen", s.NotSeen},
		}

		h.raw(`<section class="summary">`)
		for _, c := range cards {
			h.raw(`<div class="card"><span class="value">`)
			h.num(c.value)
			h.raw(`</span><span class="label">`)
			h.text(c.label)
			h.raw(`</span></div>`)
		}
		h.raw(`</section>`)
		return h.err
	})
}

// RecordsTable renders the view as a table whose headers link to the
// same filters sorted by that column.
func RecordsTable(view core.View, sort core.SortSpec, query url.Values) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}

		h.raw(`<table class="records"><thead><tr>`)
		for _, col := range core.Columns {
			h.raw(`<th`)
			if col.Type == core.FieldCount {
				h.raw(` class="num"`)
			}
			h.raw(`><a`)
			h.attr("href", sortLink(query, col.Name, sort))
			h.raw(`>`)
			h.text(col.Name)
			if sort.Column == col.Name {
				if sort.Dir == "desc" {
					h.raw(` &#9660;`)
				} else {
					h.raw(` &#9650;`)
				}
			}
			h.raw(`</a></th>`)
		}
		h.raw(`</tr></thead><tbody>`)

		if len(view) == 0 {
			h.raw(`<tr class="empty"><td colspan="`)
			h.num(len(core.Columns))
			h.raw(`">No records match the current filters.</td></tr>`)
		}
		for _, r := range view {
			h.raw(`<tr>`)
			for _, col := range core.Columns {
				if col.Type == core.FieldCount {
					h.raw(`<td class="num">`)
				} else {
					h.raw(`<td>`)
				}
				h.text(col.Value(r))
				h.raw(`</td>`)
			}
			h.raw(`</tr>`)
		}

		h.raw(`</tbody></table>`)
		return h.err
	})
}

// sortLink returns the dashboard URL sorted by column. Clicking the active
// column flips its direction.
func sortLink(query url.Values, column string, current core.SortSpec) string {
	dir := "asc"
	if current.Column == column && current.Dir != "desc" {
		dir = "desc"
	}

	q := url.Values{}
	for k, v := range query {
		q[k] = v
	}
	q.Set("sort", column)
	q.Set("dir", dir)
	return "/?" + q.Encode()
}
