package simulation

type listener[T any] struct {
	id uint64
	fn func(T)
}

// listeners is an ordered set of callbacks that can be removed by handle.
type listeners[T any] struct {
	next uint64
	fns  []listener[T]
}

func (l *listeners[T]) add(fn func(T)) func() {
	l.next++
	id := l.next
	l.fns = append(l.fns, listener[T]{id: id, fn: fn})
	return func() { l.remove(id) }
}

func (l *listeners[T]) remove(id uint64) {
	for i, e := range l.fns {
		if e.id == id {
			l.fns = append(l.fns[:i:i], l.fns[i+1:]...)
			return
		}
	}
}

func (l *listeners[T]) has(id uint64) bool {
	for _, e := range l.fns {
		if e.id == id {
			return true
		}
	}
	return false
}

// emit calls every listener registered at the time of the call, skipping any
// removed by an earlier listener in the same round.
func (l *listeners[T]) emit(v T) {
	snapshot := append([]listener[T](nil), l.fns...)
	for _, e := range snapshot {
		if l.has(e.id) {
			e.fn(v)
		}
	}
}

func (l *listeners[T]) len() int { return len(l.fns) }
