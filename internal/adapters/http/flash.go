package web

import (
	"sync"

	domain "schooladmin/internal/domain/roster"
)

// Flash keeps one-shot messages per roster kind. It implements the
// screens' Notifier; the next render of that kind's page takes them.
type Flash struct {
	mu       sync.Mutex
	messages map[domain.Kind][]string
}

// NewFlash returns an empty flash store.
func NewFlash() *Flash {
	return &Flash{messages: make(map[domain.Kind][]string)}
}

// Notify queues message for kind. Repeats of the last queued message are dropped.
func (f *Flash) Notify(kind domain.Kind, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	msgs := f.messages[kind]
	if n := len(msgs); n > 0 && msgs[n-1] == message {
		return
	}
	f.messages[kind] = append(msgs, message)
}

// Take returns and clears the messages queued for kind.
func (f *Flash) Take(kind domain.Kind) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	msgs := f.messages[kind]
	delete(f.messages, kind)
	return msgs
}
