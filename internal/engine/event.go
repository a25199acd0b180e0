package engine

// ListenerID identifies a registered callback so it can be removed later.
type ListenerID int

// EventWithArg is a multi-cast event with one argument.
type EventWithArg[T any] struct {
	listeners []eventListener[T]
	nextID    ListenerID
}

type eventListener[T any] struct {
	id ListenerID
	fn func(T)
}

// AddListener registers callback and returns its id. Nil callbacks are ignored.
func (e *EventWithArg[T]) AddListener(callback func(T)) ListenerID {
	if callback == nil {
		return 0
	}
	e.nextID++
	e.listeners = append(e.listeners, eventListener[T]{id: e.nextID, fn: callback})
	return e.nextID
}

// RemoveListener unregisters the callback with the given id.
func (e *EventWithArg[T]) RemoveListener(id ListenerID) {
	for i, l := range e.listeners {
		if l.id == id {
			e.listeners = append(e.listeners[:i], e.listeners[i+1:]...)
			return
		}
	}
}

// Invoke calls all registered listeners in registration order
func (e *EventWithArg[T]) Invoke(arg T) {
	for _, l := range e.listeners {
		l.fn(arg)
	}
}

func (e *EventWithArg[T]) GetListenerCount() int {
	return len(e.listeners)
}
