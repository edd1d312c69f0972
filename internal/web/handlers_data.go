package web

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/JonMunkholm/wildlife/internal/chart"
	"github.com/JonMunkholm/wildlife/internal/core"
	"github.com/JonMunkholm/wildlife/internal/logging"
)

// StatusResponse is returned by /api/status.
type StatusResponse struct {
	core.Status
	Charts chart.BoardStats `json:"charts"`
	Slots  SlotStats        `json:"renderSlots"`
}

// SlotStats reports render limiter usage.
type SlotStats struct {
	Active   int `json:"active"`
	Capacity int `json:"capacity"`
}

// RecordsResponse is returned by /api/records.
type RecordsResponse struct {
	Count   int           `json:"count"`
	Total   int           `json:"total"`
	Sort    *SortParam    `json:"sort,omitempty"`
	Records []core.Record `json:"records"`
}

// SortParam echoes the applied table sort.
type SortParam struct {
	Column string `json:"column"`
	Dir    string `json:"dir"`
}

// ProjectionResponse is returned by /api/projection.
type ProjectionResponse struct {
	Projection core.Projection `json:"projection"`
	Summary    core.Summary    `json:"summary"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, StatusResponse{
		Status: s.session.Status(),
		Charts: s.board.Stats(),
		Slots:  SlotStats{Active: s.limiter.Active(), Capacity: s.limiter.Cap()},
	})
}

// handleFilters returns the distinct species and observers.
func (s *Server) handleFilters(w http.ResponseWriter, r *http.Request) {
	idx, err := s.session.Index()
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	writeJSON(w, r, idx)
}

// handleRecords returns the filtered view, optionally sorted.
func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	records, err := s.session.Records()
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	view := core.Filter(records, parseCriteria(r))
	resp := RecordsResponse{Count: len(view), Total: len(records)}

	if spec := parseSort(r); spec.Column != "" {
		view = core.SortView(view, spec)
		resp.Sort = &SortParam{Column: spec.Column, Dir: spec.Dir}
	}
	resp.Records = view

	writeJSON(w, r, resp)
}

// handleProjection returns the chart series and totals for the current filters.
func (s *Server) handleProjection(w http.ResponseWriter, r *http.Request) {
	view, err := s.session.View(parseCriteria(r))
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	writeJSON(w, r, ProjectionResponse{
		Projection: core.Aggregate(view),
		Summary:    core.Summarize(view),
	})
}

// handleExport streams the filtered view as a CSV download. It holds a
// render slot for the duration of the write.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	criteria := parseCriteria(r)

	view, err := s.session.View(criteria)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	err = s.limiter.Do(ctx, func() error {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, core.ExportFileName))
		w.Header().Set("X-Record-Count", strconv.Itoa(len(view)))
		return core.Export(w, view)
	})
	switch {
	case err == nil:
		s.metrics.exportsTotal.Inc()
		s.metrics.exportedRows.Add(float64(len(view)))
		logging.WithFields(ctx, "records", len(view), "criteria", criteriaValues(criteria).Encode()).
			Info("export complete")
	case w.Header().Get("Content-Disposition") == "":
		// No slot was acquired, nothing has been written yet.
		s.respondError(w, r, err, 0)
	default:
		logging.FromContext(ctx).Error("export write failed", "error", err)
	}
}
