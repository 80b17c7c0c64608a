package trade

import "context"

// Message is a transactional email. TextBody is the plain-text alternative.
type Message struct {
	To       []string
	Subject  string
	HTMLBody string
	TextBody string
}

// Mailer delivers transactional email.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
