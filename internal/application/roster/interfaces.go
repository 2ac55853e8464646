package roster

import (
	"context"

	"schooladmin/internal/adapters/gateway"
	domain "schooladmin/internal/domain/roster"
)

// Gateway is the remote collection a Screen reads from and writes to.
type Gateway interface {
	List(ctx context.Context) (gateway.ListResult, error)
	Update(ctx context.Context, id domain.ID, patch domain.Raw) (domain.Raw, error)
	Remove(ctx context.Context, id domain.ID) error
}

// Notifier surfaces failures to the user.
type Notifier interface {
	Notify(kind domain.Kind, message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(kind domain.Kind, message string)

// Notify calls f.
func (f NotifierFunc) Notify(kind domain.Kind, message string) { f(kind, message) }

type discardNotifier struct{}

func (discardNotifier) Notify(domain.Kind, string) {}
