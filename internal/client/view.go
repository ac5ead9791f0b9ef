package client

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/tuanvumaihuynh/storefront/pkg/zerror"
)

const (
	LoadingMessage = "Carregando produtos..."
	EmptyMessage   = "Nenhum produto encontrado"
	// EmptyCategoryMessage is shown by category scoped views.
	EmptyCategoryMessage = "Nenhum produto encontrado nesta categoria"
)

type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Loader fetches the products a view displays.
type Loader func(ctx context.Context) ([]Product, error)

// Snapshot is what a view renders at one point in time.
type Snapshot struct {
	State   State
	Query   string
	Items   []Product
	Total   int
	Message string
	// CanRetry is set when the last fetch failed.
	CanRetry bool
}

type ViewOption func(*View)

// WithEmptyMessage overrides the text shown when nothing matches.
func WithEmptyMessage(msg string) ViewOption {
	return func(v *View) {
		v.emptyMessage = msg
	}
}

// WithOnChange registers a callback invoked after every state change of a
// mounted view. Callbacks are serialized and must not call Mount, Unmount,
// Retry or Search on the same view.
func WithOnChange(fn func(Snapshot)) ViewOption {
	return func(v *View) {
		v.onChange = fn
	}
}

// View owns one cancellable fetch bound to its lifetime and the search over
// the fetched items. Results of a fetch that completes after Unmount, or
// after a newer fetch started, are dropped.
type View struct {
	load         Loader
	emptyMessage string
	onChange     func(Snapshot)

	// publishMu is held while a state change is applied and published, so
	// Unmount cannot return in between.
	publishMu sync.Mutex

	mu         sync.Mutex
	mounted    bool
	generation uint64
	cancel     context.CancelFunc
	wg         sync.WaitGroup

	state State
	all   []Product
	query string
	err   error
}

func NewView(load Loader, opts ...ViewOption) *View {
	v := &View{
		load:         load,
		emptyMessage: EmptyMessage,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Mount starts the fetch. ctx bounds the lifetime of the view.
func (v *View) Mount(ctx context.Context) {
	v.publishMu.Lock()
	defer v.publishMu.Unlock()

	v.mu.Lock()
	if v.mounted {
		v.mu.Unlock()
		return
	}
	v.mounted = true
	v.start(ctx)
	snap := v.snapshotLocked()
	v.mu.Unlock()

	v.notify(snap)
}

// Unmount cancels any fetch in flight. No state change is published after
// it returns.
func (v *View) Unmount() {
	v.publishMu.Lock()
	defer v.publishMu.Unlock()

	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.mounted {
		return
	}
	v.mounted = false
	v.generation++
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
}

// Retry restarts the fetch of a mounted view whose last fetch failed.
func (v *View) Retry(ctx context.Context) bool {
	v.publishMu.Lock()
	defer v.publishMu.Unlock()

	v.mu.Lock()
	if !v.mounted || v.state != StateFailed {
		v.mu.Unlock()
		return false
	}
	v.start(ctx)
	snap := v.snapshotLocked()
	v.mu.Unlock()

	v.notify(snap)
	return true
}

// Search recomputes the visible items for query over the fetched snapshot.
func (v *View) Search(query string) Snapshot {
	v.publishMu.Lock()
	defer v.publishMu.Unlock()

	v.mu.Lock()
	v.query = query
	snap := v.snapshotLocked()
	mounted := v.mounted
	v.mu.Unlock()

	if mounted {
		v.notify(snap)
	}
	return snap
}

func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snapshotLocked()
}

// Wait blocks until no fetch is running.
func (v *View) Wait() {
	v.wg.Wait()
}

// start must be called with v.mu held.
func (v *View) start(parent context.Context) {
	if v.cancel != nil {
		v.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	v.cancel = cancel
	v.generation++
	gen := v.generation

	v.state = StateLoading
	v.err = nil

	v.wg.Add(1)
	go func() {
		defer v.wg.Done()
		defer cancel()

		items, err := v.load(ctx)
		v.finish(gen, items, err)
	}()
}

func (v *View) finish(gen uint64, items []Product, err error) {
	v.publishMu.Lock()
	defer v.publishMu.Unlock()

	v.mu.Lock()
	if !v.mounted || gen != v.generation {
		v.mu.Unlock()
		return
	}

	v.cancel = nil
	if err != nil {
		v.state = StateFailed
		v.err = err
	} else {
		v.state = StateReady
		v.all = items
	}
	snap := v.snapshotLocked()
	v.mu.Unlock()

	v.notify(snap)
}

func (v *View) snapshotLocked() Snapshot {
	snap := Snapshot{State: v.state, Query: v.query}

	switch v.state {
	case StateLoading:
		snap.Message = LoadingMessage
	case StateFailed:
		snap.Message = errorText(v.err)
		snap.CanRetry = true
	case StateReady:
		snap.Items = Filter(v.all, v.query)
		snap.Total = len(v.all)
		if len(snap.Items) == 0 {
			snap.Message = v.emptyMessage
		}
	}
	return snap
}

func (v *View) notify(snap Snapshot) {
	if v.onChange != nil {
		v.onChange(snap)
	}
}

func errorText(err error) string {
	var zErr zerror.ZError
	if errors.As(err, &zErr) {
		return zErr.Msg()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "a requisição expirou"
	}
	return fmt.Sprintf("erro inesperado: %v", err)
}
