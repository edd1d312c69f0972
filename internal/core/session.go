package core

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// State is the lifecycle stage of a Session.
type State string

const (
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateFailed  State = "failed"
)

var (
	// ErrNotReady is returned by queries made before the dataset has loaded.
	ErrNotReady = errors.New("dataset not ready")

	// ErrAlreadyLoaded is returned when Load is called a second time.
	ErrAlreadyLoaded = errors.New("dataset already loaded")
)

// Session owns the full record set and its filter index.
// It starts in StateLoading; Load moves it to StateReady or StateFailed
// exactly once. After that the record set is never modified, so queries
// may run concurrently.
type Session struct {
	mu       sync.RWMutex
	state    State
	started  bool
	id       uuid.UUID
	source   string
	records  []Record
	index    Index
	loadErr  error
	loadedAt time.Time
}

// NewSession creates a session in StateLoading.
func NewSession() *Session {
	return &Session{state: StateLoading}
}

// Status is a point-in-time description of a session.
type Status struct {
	State     State     `json:"state"`
	DatasetID string    `json:"datasetId,omitempty"`
	Source    string    `json:"source,omitempty"`
	Records   int       `json:"records"`
	LoadedAt  time.Time `json:"loadedAt,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// Load reads src and publishes the result. It blocks until the load
// completes or fails; a failure leaves the session in StateFailed.
func (s *Session) Load(ctx context.Context, src string, opts LoadOptions) error {
	return s.load(src, func() ([]Record, error) {
		return LoadFile(ctx, src, opts)
	})
}

// LoadReader is Load for an already open stream.
func (s *Session) LoadReader(ctx context.Context, name string, r io.Reader, maxSize int64) error {
	return s.load(name, func() ([]Record, error) {
		return LoadRecords(ctx, r, maxSize)
	})
}

func (s *Session) load(src string, read func() ([]Record, error)) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return ErrAlreadyLoaded
	}
	s.started = true
	s.source = src
	s.mu.Unlock()

	start := time.Now()
	records, err := read()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		var le *LoadError
		if !errors.As(err, &le) {
			err = &LoadError{Source: src, Op: "load", Err: err}
		}
		s.state = StateFailed
		s.loadErr = err
		slog.Error("dataset load failed", "source", src, "error", err)
		return err
	}

	s.records = records
	s.index = BuildIndex(records)
	s.id = uuid.New()
	s.loadedAt = time.Now()
	s.state = StateReady

	slog.Info("dataset loaded",
		"source", src,
		"dataset_id", s.id,
		"records", len(records),
		"species", len(s.index.Species),
		"observers", len(s.index.Observers),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// Status reports the session's current state.
func (s *Session) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Status{State: s.state, Source: s.source, Records: len(s.records)}
	if s.state == StateReady {
		st.DatasetID = s.id.String()
		st.LoadedAt = s.loadedAt
	}
	if s.loadErr != nil {
		st.Error = s.loadErr.Error()
	}
	return st
}

// Err returns the load failure, if any.
func (s *Session) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadErr
}

// Records returns the full record set.
// Callers must not modify the returned slice.
func (s *Session) Records() ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != StateReady {
		return nil, ErrNotReady
	}
	return s.records, nil
}

// Index returns the distinct filter values of the dataset.
func (s *Session) Index() (Index, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != StateReady {
		return Index{}, ErrNotReady
	}
	return s.index, nil
}

// View filters the dataset with c.
func (s *Session) View(c FilterCriteria) (View, error) {
	records, err := s.Records()
	if err != nil {
		return nil, err
	}
	return Filter(records, c), nil
}

// Export writes the view selected by c as CSV.
func (s *Session) Export(w io.Writer, c FilterCriteria) (int, error) {
	view, err := s.View(c)
	if err != nil {
		return 0, err
	}
	return len(view), Export(w, view)
}
