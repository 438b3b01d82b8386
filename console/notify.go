package console

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelWarning Level = "warning"
)

// Notification is a toast shown to the admin.
type Notification struct {
	ID        string    `json:"id"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

const maxNotifications = 50

// Notifier queues toasts until the front end drains them. The oldest are
// dropped once the queue is full.
type Notifier struct {
	mu    sync.Mutex
	items []Notification
}

func (n *Notifier) push(level Level, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.items = append(n.items, Notification{
		ID:        uuid.NewString(),
		Level:     level,
		Message:   msg,
		CreatedAt: time.Now(),
	})
	if len(n.items) > maxNotifications {
		n.items = append([]Notification(nil), n.items[len(n.items)-maxNotifications:]...)
	}
}

func (n *Notifier) Success(msg string) { n.push(LevelSuccess, msg) }
func (n *Notifier) Error(msg string)   { n.push(LevelError, msg) }
func (n *Notifier) Warning(msg string) { n.push(LevelWarning, msg) }

// Drain returns and clears the queued notifications.
func (n *Notifier) Drain() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := n.items
	n.items = nil
	if out == nil {
		out = []Notification{}
	}
	return out
}

// Peek returns the queued notifications without clearing them.
func (n *Notifier) Peek() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Notification{}, n.items...)
}
