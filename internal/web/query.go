package web

import (
	"net/http"
	"net/url"

	"github.com/JonMunkholm/wildlife/internal/core"
)

// Query parameter names shared by the dashboard, chart and API routes.
const (
	paramSpecies  = "species"
	paramObserver = "observer"
	paramSearch   = "q"
	paramSort     = "sort"
	paramDir      = "dir"
)

// parseCriteria reads the filter selection from r. Missing or empty
// selectors mean All. Values are used verbatim so that every entry of the
// filter index, padding included, selects its own records.
func parseCriteria(r *http.Request) core.FilterCriteria {
	q := r.URL.Query()
	c := core.DefaultCriteria()
	if v := q.Get(paramSpecies); v != "" {
		c.Species = v
	}
	if v := q.Get(paramObserver); v != "" {
		c.Observer = v
	}
	c.Search = q.Get(paramSearch)
	return c
}

// parseSort reads the table sort. An unknown or missing column leaves the
// view in source order.
func parseSort(r *http.Request) core.SortSpec {
	q := r.URL.Query()
	spec, ok := core.ParseSort(q.Get(paramSort), q.Get(paramDir))
	if !ok {
		return core.SortSpec{}
	}
	return spec
}

// criteriaValues encodes the active filters. All-pass selectors are left out
// so equal selections always encode the same way.
func criteriaValues(c core.FilterCriteria) url.Values {
	v := url.Values{}
	if c.Species != "" && c.Species != core.All {
		v.Set(paramSpecies, c.Species)
	}
	if c.Observer != "" && c.Observer != core.All {
		v.Set(paramObserver, c.Observer)
	}
	if c.Search != "" {
		v.Set(paramSearch, c.Search)
	}
	return v
}

// boardKey identifies the chart set rendered for c on one dataset.
func boardKey(datasetID string, c core.FilterCriteria) string {
	return datasetID + "?" + criteriaValues(c).Encode()
}
