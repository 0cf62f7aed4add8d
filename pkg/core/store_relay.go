package core

// storeRelay fans the root's single store subscription out to the change
// handlers registered by UseStore.
type storeRelay struct {
	nextID   int
	handlers []relayHandler
}

type relayHandler struct {
	id int
	fn func()
}

// subscribe registers fn and returns a func removing it. The returned func
// is idempotent.
func (s *storeRelay) subscribe(fn func()) func() {
	s.nextID++
	id := s.nextID
	s.handlers = append(s.handlers, relayHandler{id: id, fn: fn})
	return func() {
		for i, h := range s.handlers {
			if h.id == id {
				s.handlers = append(s.handlers[:i:i], s.handlers[i+1:]...)
				return
			}
		}
	}
}

// notify calls every handler registered when notify started, in
// registration order.
func (s *storeRelay) notify() {
	handlers := append([]relayHandler(nil), s.handlers...)
	for _, h := range handlers {
		h.fn()
	}
}

func (s *storeRelay) len() int { return len(s.handlers) }
