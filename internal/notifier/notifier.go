// Package notifier delivers messages to the chat and email channels and
// formats what they show.
package notifier

import "context"

// Notifier pushes a message to one delivery channel. Body is Telegram-style
// HTML (b, i and code tags only).
type Notifier interface {
	Name() string
	Notify(ctx context.Context, subject, body string) error
}
