package handshake

import "sync"

// Closer terminates the surface hosting the callback handler.
type Closer interface {
	Close()
}

// Window is the completion signal of a popup. Close may be called any number
// of times; Done is closed on the first call.
type Window struct {
	once sync.Once
	done chan struct{}
}

var _ Closer = (*Window)(nil)

func NewWindow() *Window {
	return &Window{done: make(chan struct{})}
}

func (w *Window) Close() {
	w.once.Do(func() { close(w.done) })
}

func (w *Window) Done() <-chan struct{} {
	return w.done
}
