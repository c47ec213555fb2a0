package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/itsMeSaikrishna/Creative-Invoice/internal/client"
	"github.com/itsMeSaikrishna/Creative-Invoice/internal/model"
)

// InvoiceExporter defines the interface for export download operations.
type InvoiceExporter interface {
	Download(ctx context.Context, invoiceID string, format model.OutputFormat, dir string) (string, error)
}

// ExportService fetches extracted invoice data in a requested encoding and
// saves it client-side. Only meaningful once an invoice has completed;
// the backend rejects earlier calls.
type ExportService struct {
	api client.InvoiceAPI
}

// NewExportService creates a new export service.
func NewExportService(api client.InvoiceAPI) *ExportService {
	return &ExportService{api: api}
}

// Download fetches the invoice in the given format and writes it to dir as
// invoice_{id}.{ext}. Returns the written path.
func (s *ExportService) Download(ctx context.Context, invoiceID string, format model.OutputFormat, dir string) (string, error) {
	if !format.Valid() {
		return "", fmt.Errorf("format must be json, xml, or csv")
	}

	data, err := s.api.DownloadInvoice(ctx, invoiceID, format)
	if err != nil {
		return "", fmt.Errorf("failed to download invoice %s: %w", invoiceID, err)
	}

	filename := fmt.Sprintf("invoice_%s.%s", invoiceID, format.Extension())
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to save export: %w", err)
	}
	return path, nil
}
