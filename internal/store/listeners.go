package store

import "sync"

// listeners fans state snapshots out to subscribers. Callbacks run outside
// the store lock, in subscription order.
type listeners[T any] struct {
	mu    sync.Mutex
	next  int
	order []int
	fns   map[int]func(T)
}

func (l *listeners[T]) subscribe(fn func(T)) func() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.fns == nil {
		l.fns = make(map[int]func(T))
	}

	id := l.next
	l.next++
	l.fns[id] = fn
	l.order = append(l.order, id)

	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.fns, id)
	}
}

func (l *listeners[T]) notify(state T) {
	l.mu.Lock()
	var fns []func(T)
	for _, id := range l.order {
		if fn, ok := l.fns[id]; ok {
			fns = append(fns, fn)
		}
	}
	l.mu.Unlock()

	for _, fn := range fns {
		fn(state)
	}
}
