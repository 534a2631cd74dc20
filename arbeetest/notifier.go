package arbeetest

import (
	"sync"

	"github.com/arbee-network/arbee"
)

// Notifier records all notifications it was given. Set Err to make every
// delivery fail.
type Notifier struct {
	mu       sync.Mutex
	received []arbee.Notification
	Err      error
}

var _ arbee.Notifier = (*Notifier)(nil)

func (n *Notifier) Notify(ctx arbee.Context, msg arbee.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.received = append(n.received, msg)
	return n.Err
}

// Received returns a copy of all recorded notifications.
func (n *Notifier) Received() []arbee.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]arbee.Notification(nil), n.received...)
}

// Kinds returns the kinds of all recorded notifications in order.
func (n *Notifier) Kinds() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	kinds := make([]string, len(n.received))
	for i, r := range n.received {
		kinds[i] = r.Kind()
	}
	return kinds
}
