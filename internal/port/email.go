package port

import "context"

// DocumentEmail carries what a client needs to open a sent quotation or invoice.
type DocumentEmail struct {
	ToEmail     string
	ToName      string
	CompanyName string
	Title       string
	Number      string
	Total       string
	Link        string
}

// EmailSender defines the contract for sending emails.
type EmailSender interface {
	SendDocumentEmail(ctx context.Context, msg DocumentEmail) error
}
