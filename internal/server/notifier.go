package server

import "sync"

// notifier fans a reload signal out to every connected browser. A
// listener receives an empty struct when the served snapshot changed
// and should push a page reload.
type notifier struct {
	mu        sync.RWMutex
	listeners map[chan struct{}]struct{}
}

func newNotifier() *notifier {
	return &notifier{
		listeners: make(map[chan struct{}]struct{}),
	}
}

// subscribe returns a channel that receives pings when the snapshot
// changed. The caller must unsubscribe when done.
func (n *notifier) subscribe() chan struct{} {
	ch := make(chan struct{}, 1)
	n.mu.Lock()
	n.listeners[ch] = struct{}{}
	n.mu.Unlock()
	return ch
}

// unsubscribe removes a listener channel and closes it.
func (n *notifier) unsubscribe(ch chan struct{}) {
	n.mu.Lock()
	delete(n.listeners, ch)
	n.mu.Unlock()
	close(ch)
}

// broadcast pings all listeners. Non-blocking: a listener whose channel
// is already full catches up on its pending ping instead.
func (n *notifier) broadcast() {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for ch := range n.listeners {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
