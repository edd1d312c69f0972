package core

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestSession_NotReadyBeforeLoad(t *testing.T) {
	s := NewSession()

	if st := s.Status(); st.State != StateLoading {
		t.Errorf("State = %q, want loading", st.State)
	}
	if _, err := s.Records(); !errors.Is(err, ErrNotReady) {
		t.Errorf("Records() error = %v, want ErrNotReady", err)
	}
	if _, err := s.Index(); !errors.Is(err, ErrNotReady) {
		t.Errorf("Index() error = %v, want ErrNotReady", err)
	}
	if _, err := s.View(DefaultCriteria()); !errors.Is(err, ErrNotReady) {
		t.Errorf("View() error = %v, want ErrNotReady", err)
	}
	if _, err := s.Export(&bytes.Buffer{}, DefaultCriteria()); !errors.Is(err, ErrNotReady) {
		t.Errorf("Export() error = %v, want ErrNotReady", err)
	}
}

func TestSession_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "obs.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewSession()
	if err := s.Load(context.Background(), path, LoadOptions{}); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	st := s.Status()
	if st.State != StateReady || st.Records != 3 || st.Source != path {
		t.Errorf("Status() = %+v", st)
	}
	if st.DatasetID == "" || st.LoadedAt.IsZero() {
		t.Errorf("ready status missing dataset id or load time: %+v", st)
	}

	idx, err := s.Index()
	if err != nil {
		t.Fatalf("Index() error = %v", err)
	}
	if want := []string{"Duck", "Heron", "Swan"}; !equalStrings(idx.Species, want) {
		t.Errorf("Species = %v, want %v", idx.Species, want)
	}

	view, err := s.View(FilterCriteria{Observer: "Alice"})
	if err != nil {
		t.Fatalf("View() error = %v", err)
	}
	if want := []string{"Heron", "Swan"}; !equalStrings(species(view), want) {
		t.Errorf("View(Alice) = %v, want %v", species(view), want)
	}

	var buf bytes.Buffer
	n, err := s.Export(&buf, FilterCriteria{Species: "Swan"})
	if err != nil || n != 1 {
		t.Fatalf("Export() = %d, %v", n, err)
	}
	if !strings.Contains(buf.String(), "Swan,03/04/2024,Alice,4,0,1,2,6,Pair on nest") {
		t.Errorf("export missing Swan row:\n%s", buf.String())
	}
}

func TestSession_LoadOnce(t *testing.T) {
	s := NewSession()
	if err := s.LoadReader(context.Background(), "first", strings.NewReader(sampleCSV), 0); err != nil {
		t.Fatalf("first load: %v", err)
	}

	err := s.LoadReader(context.Background(), "second", strings.NewReader(sampleCSV), 0)
	if !errors.Is(err, ErrAlreadyLoaded) {
		t.Errorf("second load error = %v, want ErrAlreadyLoaded", err)
	}
	if st := s.Status(); st.Source != "first" {
		t.Errorf("Source = %q, want first", st.Source)
	}
}

func TestSession_LoadFailure(t *testing.T) {
	s := NewSession()
	err := s.Load(context.Background(), filepath.Join(t.TempDir(), "missing.csv"), LoadOptions{})
	if err == nil {
		t.Fatal("expected load error")
	}

	st := s.Status()
	if st.State != StateFailed {
		t.Errorf("State = %q, want failed", st.State)
	}
	if st.Error == "" || s.Err() == nil {
		t.Error("failed session should report its error")
	}
	if st.DatasetID != "" {
		t.Errorf("failed session has dataset id %q", st.DatasetID)
	}
	if _, err := s.Records(); !errors.Is(err, ErrNotReady) {
		t.Errorf("Records() error = %v, want ErrNotReady", err)
	}
}

func TestSession_ConcurrentViews(t *testing.T) {
	s := NewSession()
	if err := s.LoadReader(context.Background(), "mem", strings.NewReader(sampleCSV), 0); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c := DefaultCriteria()
			if i%2 == 0 {
				c.Species = "Heron"
			}
			if _, err := s.View(c); err != nil {
				t.Errorf("View() error = %v", err)
			}
		}(i)
	}
	wg.Wait()
}
