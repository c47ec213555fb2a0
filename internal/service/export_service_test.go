package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/itsMeSaikrishna/Creative-Invoice/internal/client"
	"github.com/itsMeSaikrishna/Creative-Invoice/internal/model"
)

// stubAPI cans the two operations these services use.
type stubAPI struct {
	client.InvoiceAPI

	downloadData []byte
	downloadErr  error
	sub          *model.SubscriptionInfo
	subErr       error
}

func (s *stubAPI) DownloadInvoice(ctx context.Context, invoiceID string, format model.OutputFormat) ([]byte, error) {
	return s.downloadData, s.downloadErr
}

func (s *stubAPI) GetSubscription(ctx context.Context) (*model.SubscriptionInfo, error) {
	return s.sub, s.subErr
}

func TestExportService_Download(t *testing.T) {
	dir := t.TempDir()
	svc := NewExportService(&stubAPI{downloadData: []byte(`{"invoice_metadata":{}}`)})

	path, err := svc.Download(context.Background(), "inv_123", model.FormatJSON, dir)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if want := filepath.Join(dir, "invoice_inv_123.json"); path != want {
		t.Errorf("path = %q, want %q", path, want)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != `{"invoice_metadata":{}}` {
		t.Errorf("file content = %q", data)
	}
}

func TestExportService_FilenamePerFormat(t *testing.T) {
	dir := t.TempDir()
	svc := NewExportService(&stubAPI{downloadData: []byte("x")})

	for _, format := range model.ValidOutputFormats {
		path, err := svc.Download(context.Background(), "inv_9", format, dir)
		if err != nil {
			t.Fatalf("download %s: %v", format, err)
		}
		want := fmt.Sprintf("invoice_inv_9.%s", format)
		if filepath.Base(path) != want {
			t.Errorf("filename = %q, want %q", filepath.Base(path), want)
		}
	}
}

func TestExportService_InvalidFormat(t *testing.T) {
	svc := NewExportService(&stubAPI{})
	if _, err := svc.Download(context.Background(), "inv_123", model.OutputFormat("pdf"), t.TempDir()); err == nil {
		t.Error("expected an error for an unsupported format")
	}
}

func TestExportService_BackendError(t *testing.T) {
	svc := NewExportService(&stubAPI{downloadErr: &client.APIError{StatusCode: 400, Message: "Invoice not ready. Status: processing"}})
	_, err := svc.Download(context.Background(), "inv_123", model.FormatXML, t.TempDir())
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected wrapped APIError, got %v", err)
	}
}

func TestSubscriptionService_CheckQuota(t *testing.T) {
	svc := NewSubscriptionService(&stubAPI{sub: &model.SubscriptionInfo{
		Plan:  model.PlanFree,
		Usage: model.Usage{Used: 3, Limit: 10, Allowed: true},
	}})

	usage, err := svc.CheckQuota(context.Background())
	if err != nil {
		t.Fatalf("check quota: %v", err)
	}
	if usage.Used != 3 || usage.Limit != 10 {
		t.Errorf("usage = %+v", usage)
	}
}

func TestSubscriptionService_CheckQuotaExhausted(t *testing.T) {
	svc := NewSubscriptionService(&stubAPI{sub: &model.SubscriptionInfo{
		Plan:  model.PlanFree,
		Usage: model.Usage{Used: 10, Limit: 10, Allowed: false},
	}})

	usage, err := svc.CheckQuota(context.Background())
	if !errors.Is(err, ErrQuotaExhausted) {
		t.Fatalf("expected ErrQuotaExhausted, got %v", err)
	}
	if usage == nil || usage.Used != 10 {
		t.Errorf("usage should accompany the error, got %+v", usage)
	}
}
