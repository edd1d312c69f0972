package web

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/JonMunkholm/wildlife/internal/chart"
	"github.com/JonMunkholm/wildlife/internal/core"
	"github.com/JonMunkholm/wildlife/internal/logging"
	"github.com/JonMunkholm/wildlife/internal/web/templates"
)

// chartNamespace seeds the name-based chart ETags.
var chartNamespace = uuid.MustParse("6f1c2a9e-4b0d-4f55-9a3e-2d7c8b1e0f41")

// handleDashboard renders the dashboard page for the current filters.
// While the dataset loads it serves a self-refreshing placeholder; after a
// failed load it serves the failure page.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	st := s.session.Status()

	switch st.State {
	case core.StateLoading:
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Retry-After", "2")
		w.WriteHeader(http.StatusServiceUnavailable)
		templates.Loading(st).Render(ctx, w)
		return
	case core.StateFailed:
		msg := core.MapError(s.session.Err())
		s.metrics.errorsTotal.WithLabelValues(msg.Code).Inc()
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		templates.LoadFailed(msg).Render(ctx, w)
		return
	}

	criteria := parseCriteria(r)
	sortSpec := parseSort(r)

	idx, err := s.session.Index()
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	view, err := s.session.View(criteria)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	charts := make([]templates.ChartRef, len(chart.Kinds))
	for i, k := range chart.Kinds {
		charts[i] = templates.ChartRef{Kind: string(k), Title: k.Title()}
	}

	params := templates.DashboardParams{
		Criteria: criteria,
		Sort:     sortSpec,
		Index:    idx,
		View:     core.SortView(view, sortSpec),
		Summary:  core.Summarize(view),
		Status:   st,
		Charts:   charts,
		Query:    criteriaValues(criteria),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Dashboard(params).Render(ctx, w); err != nil {
		logging.FromContext(ctx).Error("render dashboard", "error", err)
	}
}

// handleChart serves one chart of the board for the current filters.
// The four charts on a page share a key, so the first request renders the
// set and the rest are served from the board.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	kind, err := chart.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		s.respondError(w, r, err, http.StatusNotFound)
		return
	}

	st := s.session.Status()
	if st.State != core.StateReady {
		s.respondError(w, r, core.ErrNotReady, 0)
		return
	}

	criteria := parseCriteria(r)
	key := boardKey(st.DatasetID, criteria)
	etag := `"` + uuid.NewSHA1(chartNamespace, []byte(key+"#"+string(kind))).String() + `"`
	if match := r.Header.Get("If-None-Match"); match != "" && strings.Contains(match, etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	var data []byte
	err = s.limiter.Do(r.Context(), func() error {
		var err error
		data, err = s.board.Get(key, kind, func() (core.Projection, error) {
			view, err := s.session.View(criteria)
			if err != nil {
				return core.Projection{}, err
			}
			return core.Aggregate(view), nil
		})
		return err
	})
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	w.Header().Set("Content-Type", chart.FormatSVG.ContentType())
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("ETag", etag)
	w.Write(data)
}

// handleHealth reports liveness. The process is alive even while the
// dataset is loading or after a failed load.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok\n"))
}

// handleReady reports readiness: 200 once the dataset is loaded, 503 before
// that or after a failed load.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	st := s.session.Status()
	if st.State != core.StateReady {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	writeJSON(w, r, st)
}
