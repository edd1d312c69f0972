package chart

import (
	"errors"
	"sync"
	"testing"

	"github.com/JonMunkholm/wildlife/internal/core"
)

// stubRenderer records calls and checks that a full board has released
// a set before a new one starts rendering.
type stubRenderer struct {
	board    *Board
	capacity int
	failOn   Kind
	calls    int
	leaks    int
}

func (s *stubRenderer) render(k Kind, p core.Projection) ([]byte, error) {
	s.calls++
	if k == Kinds[0] && s.board.Stats().Active > int64((s.capacity-1)*len(Kinds)) {
		s.leaks++
	}
	if k == s.failOn {
		return nil, errors.New("boom")
	}
	return []byte(string(k)), nil
}

func newStubBoard(capacity int) (*Board, *stubRenderer) {
	s := &stubRenderer{capacity: capacity}
	b := NewBoard(s.render, capacity)
	s.board = b
	return b, s
}

func projectSample() (core.Projection, error) { return sampleProjection(), nil }

func TestBoard_NewKeyReleasesFirst(t *testing.T) {
	b, s := newStubBoard(1)

	for _, key := range []string{"a", "b", "c"} {
		if _, err := b.Get(key, KindAdults, projectSample); err != nil {
			t.Fatalf("Get(%s) error = %v", key, err)
		}
	}

	if s.leaks != 0 {
		t.Errorf("%d renders started with live handles", s.leaks)
	}
	st := b.Stats()
	if st.Active != int64(len(Kinds)) || st.Sets != 1 {
		t.Errorf("stats = %+v, want %d active in 1 set", st, len(Kinds))
	}
	if st.Acquired-st.Released != st.Active {
		t.Errorf("acquired %d - released %d != active %d", st.Acquired, st.Released, st.Active)
	}
}

func TestBoard_EvictsLeastRecentlyUsed(t *testing.T) {
	b, s := newStubBoard(2)

	for _, key := range []string{"a", "b", "a", "c"} {
		if _, err := b.Get(key, KindSeen, projectSample); err != nil {
			t.Fatalf("Get(%s) error = %v", key, err)
		}
	}
	if s.leaks != 0 {
		t.Errorf("%d renders started on a full board", s.leaks)
	}
	if want := 3 * len(Kinds); s.calls != want {
		t.Fatalf("renders = %d, want %d", s.calls, want)
	}

	// "b" was evicted by "c"; "a" was used more recently and survives.
	if _, err := b.Get("a", KindNests, projectSample); err != nil {
		t.Fatal(err)
	}
	if want := 3 * len(Kinds); s.calls != want {
		t.Errorf("renders = %d after cached key, want %d", s.calls, want)
	}
	if _, err := b.Get("b", KindNests, projectSample); err != nil {
		t.Fatal(err)
	}
	if want := 4 * len(Kinds); s.calls != want {
		t.Errorf("renders = %d after evicted key, want %d", s.calls, want)
	}

	st := b.Stats()
	if st.Sets != 2 || st.Active != int64(2*len(Kinds)) || st.Released != int64(2*len(Kinds)) {
		t.Errorf("stats = %+v", st)
	}
}

func TestBoard_FailureReleasesPartialSet(t *testing.T) {
	b, s := newStubBoard(2)

	if _, err := b.Get("first", KindAdults, projectSample); err != nil {
		t.Fatal(err)
	}

	s.failOn = KindTotals
	if _, err := b.Get("second", KindAdults, projectSample); err == nil {
		t.Fatal("expected render failure")
	}

	st := b.Stats()
	if st.Active != int64(len(Kinds)) || st.Sets != 1 {
		t.Errorf("stats = %+v after failure, want only the first set", st)
	}
	if st.Failures != 1 {
		t.Errorf("Failures = %d, want 1", st.Failures)
	}

	// A failed key is retried on the next request.
	s.failOn = ""
	if out, err := b.Get("second", KindTotals, projectSample); err != nil || string(out) != string(KindTotals) {
		t.Errorf("retry = %q, %v", out, err)
	}
}

func TestBoard_GetCachesByKey(t *testing.T) {
	b, s := newStubBoard(1)
	projections := 0
	project := func() (core.Projection, error) {
		projections++
		return sampleProjection(), nil
	}

	for _, k := range Kinds {
		out, err := b.Get("species=Heron", k, project)
		if err != nil {
			t.Fatalf("Get(%s) error = %v", k, err)
		}
		if string(out) != string(k) {
			t.Errorf("Get(%s) = %q", k, out)
		}
	}
	if projections != 1 || s.calls != len(Kinds) {
		t.Errorf("projections = %d, renders = %d; want 1, %d", projections, s.calls, len(Kinds))
	}

	if _, err := b.Get("species=Duck", KindSeen, project); err != nil {
		t.Fatal(err)
	}
	if projections != 2 {
		t.Errorf("projections = %d after key change, want 2", projections)
	}
	if got := b.Stats().Released; got != int64(len(Kinds)) {
		t.Errorf("Released = %d, want %d", got, len(Kinds))
	}
}

func TestBoard_GetErrors(t *testing.T) {
	b, _ := newStubBoard(1)

	_, err := b.Get("k", Kind("radar"), func() (core.Projection, error) { return core.Projection{}, nil })
	if !errors.Is(err, ErrUnknownChart) {
		t.Errorf("error = %v, want ErrUnknownChart", err)
	}

	_, err = b.Get("k", KindSeen, func() (core.Projection, error) { return core.Projection{}, core.ErrNotReady })
	if !errors.Is(err, core.ErrNotReady) {
		t.Errorf("error = %v, want ErrNotReady", err)
	}
	if b.Stats().Acquired != 0 {
		t.Error("nothing should be rendered when the projection fails")
	}
}

func TestBoard_ReleasedBytesSurvive(t *testing.T) {
	b, _ := newStubBoard(2)

	out, err := b.Get("a", KindAdults, projectSample)
	if err != nil {
		t.Fatal(err)
	}
	b.Release()

	if string(out) != string(KindAdults) {
		t.Errorf("bytes changed after release: %q", out)
	}
	if st := b.Stats(); st.Active != 0 || st.Sets != 0 {
		t.Errorf("stats = %+v after Release, want empty", st)
	}
}

func TestBoard_Concurrent(t *testing.T) {
	b := NewBoard(func(k Kind, p core.Projection) ([]byte, error) { return []byte(k), nil }, 2)
	keys := []string{"a", "b", "c"}

	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := keys[i%len(keys)]
			kind := Kinds[i%len(Kinds)]
			out, err := b.Get(key, kind, func() (core.Projection, error) { return core.Projection{}, nil })
			if err != nil || string(out) != string(kind) {
				t.Errorf("Get(%s, %s) = %q, %v", key, kind, out, err)
			}
		}(i)
	}
	wg.Wait()

	if got := b.Stats().Active; got != int64(2*len(Kinds)) {
		t.Errorf("Active = %d, want %d", got, 2*len(Kinds))
	}
}
