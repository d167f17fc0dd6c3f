package noop

import (
	"context"
	"log"

	"quotely/internal/port"
)

type noopSender struct{}

// NewNoopSender creates an EmailSender that only logs the document link.
func NewNoopSender() port.EmailSender {
	return &noopSender{}
}

func (s *noopSender) SendDocumentEmail(_ context.Context, msg port.DocumentEmail) error {
	log.Printf("[NOOP EMAIL] %s %s (%s) for %s <%s>: %s",
		msg.Title, msg.Number, msg.Total, msg.ToName, msg.ToEmail, msg.Link)
	return nil
}
