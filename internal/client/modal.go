package client

import (
	"context"
	"sync"
)

// ModalState tracks where a detail modal is in its lifecycle.
type ModalState int

const (
	ModalIdle ModalState = iota
	ModalLoading
	ModalReady
	ModalError
)

func (s ModalState) String() string {
	switch s {
	case ModalIdle:
		return "idle"
	case ModalLoading:
		return "loading"
	case ModalReady:
		return "ready"
	case ModalError:
		return "error"
	}
	return "unknown"
}

// Modal drives a single detail view: opening triggers a fetch, the result
// is cached while the modal stays open, and closing discards it so the
// next open fetches fresh data.
type Modal[T any] struct {
	mu     sync.Mutex
	state  ModalState
	detail *T
	err    error
}

func NewModal[T any]() *Modal[T] {
	return &Modal[T]{state: ModalIdle}
}

// Open runs fetch unless a result is already cached. It moves the modal
// through loading into ready or error.
func (m *Modal[T]) Open(ctx context.Context, fetch func(context.Context) (*T, error)) {
	m.mu.Lock()
	if m.state == ModalReady && m.detail != nil {
		m.mu.Unlock()
		return
	}
	m.state = ModalLoading
	m.err = nil
	m.mu.Unlock()

	detail, err := fetch(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.state = ModalError
		m.err = err
		m.detail = nil
		return
	}
	m.state = ModalReady
	m.detail = detail
}

// Close resets the modal and clears the cached detail.
func (m *Modal[T]) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = ModalIdle
	m.detail = nil
	m.err = nil
}

func (m *Modal[T]) State() ModalState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Modal[T]) Detail() *T {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.detail
}

func (m *Modal[T]) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}
