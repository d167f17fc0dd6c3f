package service

import (
	"bytes"
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"quotely/internal/config"
	"quotely/internal/csvexport"
	"quotely/internal/domain"
	"quotely/internal/pdfexport"
	"quotely/internal/port"
	"quotely/internal/xlsxexport"
)

const (
	contentTypePDF  = "application/pdf"
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	registerPageSize = 500
)

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// SendResult describes a document delivered to its client.
type SendResult struct {
	Number    string `json:"number"`
	EmailedTo string `json:"emailed_to"`
	Link      string `json:"link"`
	ObjectKey string `json:"object_key"`
	Status    string `json:"status"`
}

// ExportService renders documents and registers, and delivers documents by email.
type ExportService interface {
	RenderPDF(ctx context.Context, kind domain.DocumentKind, id uuid.UUID) (*ExportFile, error)
	ExportRegister(ctx context.Context, kind domain.DocumentKind, format domain.ExportFormat) (*ExportFile, error)
	Send(ctx context.Context, kind domain.DocumentKind, id uuid.UUID) (*SendResult, error)
}

type exportService struct {
	quotationRepo port.QuotationRepository
	invoiceRepo   port.InvoiceRepository
	settings      SettingsService
	coordinator   *DocumentCoordinator
	storage       port.ObjectStorage
	email         port.EmailSender
	s3Cfg         config.S3Config
}

// NewExportService creates a new ExportService implementation.
func NewExportService(
	quotationRepo port.QuotationRepository,
	invoiceRepo port.InvoiceRepository,
	settings SettingsService,
	coordinator *DocumentCoordinator,
	storage port.ObjectStorage,
	email port.EmailSender,
	s3Cfg config.S3Config,
) ExportService {
	return &exportService{
		quotationRepo: quotationRepo,
		invoiceRepo:   invoiceRepo,
		settings:      settings,
		coordinator:   coordinator,
		storage:       storage,
		email:         email,
		s3Cfg:         s3Cfg,
	}
}

// loadDocument fetches a document with client and items for rendering.
func (s *exportService) loadDocument(ctx context.Context, kind domain.DocumentKind, id uuid.UUID) (pdfexport.Document, error) {
	switch kind {
	case domain.KindQuotation:
		q, err := s.quotationRepo.GetByID(ctx, id)
		if err != nil {
			return pdfexport.Document{}, err
		}
		return pdfexport.FromQuotation(q), nil
	case domain.KindInvoice:
		inv, err := s.invoiceRepo.GetByID(ctx, id)
		if err != nil {
			return pdfexport.Document{}, err
		}
		return pdfexport.FromInvoice(inv), nil
	}
	return pdfexport.Document{}, fmt.Errorf("%w: unknown document kind %q", domain.ErrInvalidInput, kind)
}

func (s *exportService) render(ctx context.Context, doc pdfexport.Document) (*ExportFile, *domain.CompanySettings, error) {
	company, err := s.settings.Get(ctx)
	if err != nil {
		return nil, nil, err
	}
	var buf bytes.Buffer
	if err := pdfexport.Render(&buf, doc, *company); err != nil {
		log.Printf("exportService.render: %s %s: %v", doc.Kind, doc.Number, err)
		return nil, nil, fmt.Errorf("%w: %w", domain.ErrExportFailed, err)
	}
	return &ExportFile{
		Filename:    csvexport.SanitizeFilename(doc.Number) + ".pdf",
		ContentType: contentTypePDF,
		Data:        buf.Bytes(),
	}, company, nil
}

func (s *exportService) RenderPDF(ctx context.Context, kind domain.DocumentKind, id uuid.UUID) (*ExportFile, error) {
	doc, err := s.loadDocument(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	file, _, err := s.render(ctx, doc)
	return file, err
}

func (s *exportService) ExportRegister(ctx context.Context, kind domain.DocumentKind, format domain.ExportFormat) (*ExportFile, error) {
	entries, err := s.registerEntries(ctx, kind)
	if err != nil {
		return nil, err
	}

	name := string(kind) + "s"
	var buf bytes.Buffer
	switch format {
	case domain.ExportCSV:
		buf.Write(csvexport.BOM)
		w := csvexport.NewWriter(&buf, kind)
		if err := w.WriteHeader(); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrExportFailed, err)
		}
		if err := w.WriteEntries(entries); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrExportFailed, err)
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrExportFailed, err)
		}
		return &ExportFile{Filename: csvexport.BuildFilename(name, "csv"), ContentType: contentTypeCSV, Data: buf.Bytes()}, nil
	case domain.ExportXLSX:
		if err := xlsxexport.WriteRegister(&buf, kind, entries); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrExportFailed, err)
		}
		return &ExportFile{Filename: csvexport.BuildFilename(name, "xlsx"), ContentType: contentTypeXLSX, Data: buf.Bytes()}, nil
	}
	return nil, fmt.Errorf("%w: unknown export format %q", domain.ErrInvalidInput, format)
}

// registerEntries pages through every document of kind, newest first.
func (s *exportService) registerEntries(ctx context.Context, kind domain.DocumentKind) ([]domain.RegisterEntry, error) {
	var entries []domain.RegisterEntry
	for offset := 0; ; offset += registerPageSize {
		var page []domain.RegisterEntry
		var total int
		switch kind {
		case domain.KindQuotation:
			quotations, n, err := s.quotationRepo.List(ctx, port.QuotationFilter{}, offset, registerPageSize)
			if err != nil {
				return nil, err
			}
			total = n
			for i := range quotations {
				page = append(page, quotationEntry(&quotations[i]))
			}
		case domain.KindInvoice:
			invoices, n, err := s.invoiceRepo.List(ctx, port.InvoiceFilter{}, offset, registerPageSize)
			if err != nil {
				return nil, err
			}
			total = n
			for i := range invoices {
				page = append(page, invoiceEntry(&invoices[i]))
			}
		default:
			return nil, fmt.Errorf("%w: unknown document kind %q", domain.ErrInvalidInput, kind)
		}
		entries = append(entries, page...)
		if len(page) == 0 || offset+len(page) >= total {
			return entries, nil
		}
	}
}

func quotationEntry(q *domain.Quotation) domain.RegisterEntry {
	return domain.RegisterEntry{
		Kind:           domain.KindQuotation,
		Number:         q.Number,
		ClientName:     q.ClientName,
		Status:         string(q.Status),
		Subtotal:       q.Subtotal,
		TaxAmount:      q.TaxAmount,
		DiscountAmount: q.DiscountAmount(),
		TotalAmount:    q.TotalAmount,
		DateLabel:      "Valid Until",
		Date:           q.ValidUntil,
		CreatedAt:      q.CreatedAt,
	}
}

func invoiceEntry(inv *domain.Invoice) domain.RegisterEntry {
	return domain.RegisterEntry{
		Kind:           domain.KindInvoice,
		Number:         inv.Number,
		ClientName:     inv.ClientName,
		Status:         string(inv.PaymentStatus),
		Subtotal:       inv.Subtotal,
		TaxAmount:      inv.TaxAmount,
		DiscountAmount: inv.DiscountAmount(),
		TotalAmount:    inv.TotalAmount,
		PaidAmount:     inv.PaidAmount,
		DateLabel:      "Due Date",
		Date:           inv.DueDate,
		CreatedAt:      inv.CreatedAt,
	}
}

func (s *exportService) Send(ctx context.Context, kind domain.DocumentKind, id uuid.UUID) (*SendResult, error) {
	doc, err := s.loadDocument(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if doc.Client.Email == "" {
		return nil, domain.ErrClientEmailMissing
	}

	file, company, err := s.render(ctx, doc)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("documents/%ss/%s/%s", kind, id, file.Filename)
	if _, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:             s.s3Cfg.Bucket,
		Key:                key,
		Body:               bytes.NewReader(file.Data),
		ContentType:        file.ContentType,
		ContentDisposition: fmt.Sprintf(`attachment; filename="%s"`, file.Filename),
	}); err != nil {
		log.Printf("exportService.Send: upload %s: %v", key, err)
		return nil, fmt.Errorf("%w: %w", domain.ErrExportFailed, err)
	}

	link, err := s.storage.GetPresignedURL(ctx, s.s3Cfg.Bucket, key, s.s3Cfg.PresignExpiry)
	if err != nil {
		s.discardArchive(ctx, key)
		return nil, fmt.Errorf("%w: %w", domain.ErrExportFailed, err)
	}

	msg := port.DocumentEmail{
		ToEmail:     doc.Client.Email,
		ToName:      doc.Client.Name,
		CompanyName: company.CompanyName,
		Title:       kind.Title(),
		Number:      doc.Number,
		Total:       pdfexport.Money(company.Currency, doc.Totals.TotalAmount),
		Link:        link,
	}
	if err := s.email.SendDocumentEmail(ctx, msg); err != nil {
		log.Printf("exportService.Send: email %s to %s: %v", doc.Number, doc.Client.Email, err)
		s.discardArchive(ctx, key)
		return nil, fmt.Errorf("%w: %w", domain.ErrExportFailed, err)
	}

	status := doc.Status
	if kind == domain.KindQuotation && doc.Status == string(domain.QuotationStatusDraft) {
		q, err := s.coordinator.TransitionQuotation(ctx, id, domain.QuotationStatusSent)
		if err != nil {
			return nil, err
		}
		status = string(q.Status)
	}

	return &SendResult{
		Number:    doc.Number,
		EmailedTo: doc.Client.Email,
		Link:      link,
		ObjectKey: key,
		Status:    status,
	}, nil
}

// discardArchive removes an uploaded PDF whose send did not complete.
func (s *exportService) discardArchive(ctx context.Context, key string) {
	if err := s.storage.Delete(ctx, s.s3Cfg.Bucket, key); err != nil {
		log.Printf("WARN: exportService.Send: failed to delete archived %s: %v", key, err)
	}
}
