package chart

import (
	"sync"
	"sync/atomic"

	"github.com/JonMunkholm/wildlife/internal/core"
)

// Handle is one rendered chart owned by a Board. Its bytes stay valid for
// callers that already hold them after the handle is released.
type Handle struct {
	Kind     Kind
	data     []byte
	released bool
}

// Bytes returns the rendered image, or nil once released.
func (h *Handle) Bytes() []byte {
	if h == nil || h.released {
		return nil
	}
	return h.data
}

// RenderFunc produces the image for one chart kind.
type RenderFunc func(Kind, core.Projection) ([]byte, error)

// BoardStats counts handle lifecycle events.
type BoardStats struct {
	Active   int64 `json:"active"`
	Acquired int64 `json:"acquired"`
	Released int64 `json:"released"`
	Failures int64 `json:"failures"`
	Sets     int64 `json:"sets"`
}

// chartSet is every chart kind rendered for one projection key.
type chartSet struct {
	key     string
	handles map[Kind]*Handle
}

// Board keeps the chart sets of the most recently used projection keys.
// When a new key arrives and the board is full, the least recently used
// set is released before anything is rendered for the new key.
type Board struct {
	mu       sync.Mutex
	render   RenderFunc
	capacity int
	sets     []*chartSet // most recently used first

	active   atomic.Int64
	acquired atomic.Int64
	released atomic.Int64
	failures atomic.Int64
	count    atomic.Int64
}

// NewBoard creates an empty board holding up to capacity chart sets.
// A nil render draws SVG at DefaultSize; capacity below 1 means 1.
func NewBoard(render RenderFunc, capacity int) *Board {
	if render == nil {
		render = SVGRenderer(DefaultSize)
	}
	if capacity < 1 {
		capacity = 1
	}
	return &Board{render: render, capacity: capacity}
}

// SVGRenderer returns a RenderFunc drawing SVG charts of the given size.
func SVGRenderer(size Size) RenderFunc {
	return func(k Kind, p core.Projection) ([]byte, error) {
		return RenderBytes(k, p, FormatSVG, size)
	}
}

// Get returns the chart of kind for the projection identified by key.
// A key without a set is rendered in full using project to compute the
// projection.
func (b *Board) Get(key string, kind Kind, project func() (core.Projection, error)) ([]byte, error) {
	if _, err := ParseKind(string(kind)); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if set := b.touchLocked(key); set != nil {
		return set.handles[kind].Bytes(), nil
	}

	p, err := project()
	if err != nil {
		return nil, err
	}
	set, err := b.addLocked(key, p)
	if err != nil {
		return nil, err
	}
	return set.handles[kind].Bytes(), nil
}

// touchLocked moves the set for key to the front and returns it.
func (b *Board) touchLocked(key string) *chartSet {
	for i, set := range b.sets {
		if set.key != key {
			continue
		}
		copy(b.sets[1:i+1], b.sets[:i])
		b.sets[0] = set
		return set
	}
	return nil
}

// addLocked renders every chart kind for p under key. On failure the
// partial set is released and the board keeps its other sets.
func (b *Board) addLocked(key string, p core.Projection) (*chartSet, error) {
	for len(b.sets) >= b.capacity {
		b.evictLocked()
	}

	set := &chartSet{key: key, handles: make(map[Kind]*Handle, len(Kinds))}
	for _, k := range Kinds {
		data, err := b.render(k, p)
		if err != nil {
			b.failures.Add(1)
			for _, h := range set.handles {
				b.releaseHandle(h)
			}
			return nil, err
		}
		set.handles[k] = &Handle{Kind: k, data: data}
		b.active.Add(1)
		b.acquired.Add(1)
	}

	b.sets = append([]*chartSet{set}, b.sets...)
	b.count.Store(int64(len(b.sets)))
	return set, nil
}

// evictLocked releases the least recently used set.
func (b *Board) evictLocked() {
	last := len(b.sets) - 1
	for _, h := range b.sets[last].handles {
		b.releaseHandle(h)
	}
	b.sets[last] = nil
	b.sets = b.sets[:last]
	b.count.Store(int64(len(b.sets)))
}

// Release drops every handle held by the board.
func (b *Board) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for len(b.sets) > 0 {
		b.evictLocked()
	}
}

func (b *Board) releaseHandle(h *Handle) {
	if h.released {
		return
	}
	h.released = true
	h.data = nil
	b.active.Add(-1)
	b.released.Add(1)
}

// Stats returns lifecycle counters.
func (b *Board) Stats() BoardStats {
	return BoardStats{
		Active:   b.active.Load(),
		Acquired: b.acquired.Load(),
		Released: b.released.Load(),
		Failures: b.failures.Load(),
		Sets:     b.count.Load(),
	}
}
