package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/itsMeSaikrishna/Creative-Invoice/internal/config"
	"github.com/itsMeSaikrishna/Creative-Invoice/internal/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *InvoiceClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewInvoiceClient(&config.APIConfig{
		BaseURL: srv.URL,
		Token:   "test-token",
		Timeout: 5,
	})
}

func TestUploadInvoice(t *testing.T) {
	var gotAuth, gotGSTIN, gotFilename string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/invoices/upload" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		gotGSTIN = r.FormValue("buyer_gstin")
		if files := r.MultipartForm.File["file"]; len(files) == 1 {
			gotFilename = files[0].Filename
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success":    true,
			"invoice_id": "inv_123",
			"status":     "processing",
		})
	})

	id, err := c.UploadInvoice(context.Background(), UploadFile{
		Name:    "bill.pdf",
		Content: []byte("%PDF-1.4 test"),
	}, "29AABCB1234C1Z5")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if id != "inv_123" {
		t.Errorf("invoice id = %q", id)
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("authorization = %q", gotAuth)
	}
	if gotGSTIN != "29AABCB1234C1Z5" {
		t.Errorf("buyer_gstin = %q", gotGSTIN)
	}
	if gotFilename != "bill.pdf" {
		t.Errorf("filename = %q", gotFilename)
	}
}

func TestUploadInvoice_QuotaExceeded(t *testing.T) {
	detail := "Monthly invoice limit reached (10/10). Upgrade to Pro for unlimited invoices."
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		json.NewEncoder(w).Encode(map[string]string{"detail": detail})
	})

	_, err := c.UploadInvoice(context.Background(), UploadFile{Name: "bill.pdf"}, "")
	if !IsQuotaError(err) {
		t.Fatalf("expected quota error, got %v", err)
	}
	if err.Error() != detail {
		t.Errorf("error = %q, want backend detail", err.Error())
	}
}

func TestUploadInvoice_QuotaFallbackMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
	})

	_, err := c.UploadInvoice(context.Background(), UploadFile{Name: "bill.pdf"}, "")
	if !IsQuotaError(err) {
		t.Fatalf("expected quota error, got %v", err)
	}
	if err.Error() != QuotaFallbackMessage {
		t.Errorf("error = %q, want fallback message", err.Error())
	}
}

func TestUploadInvoice_NestedErrorMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{
				"code":    "QUOTA_EXCEEDED",
				"message": "Monthly invoice limit reached (5/5). Upgrade to Pro for unlimited invoices.",
			},
		})
	})

	_, err := c.UploadInvoice(context.Background(), UploadFile{Name: "bill.pdf"}, "")
	var qe *QuotaError
	if !errors.As(err, &qe) {
		t.Fatalf("expected quota error, got %v", err)
	}
	if qe.Detail == "" {
		t.Error("detail should be extracted from the nested error envelope")
	}
}

func TestUploadBatch_SizeLimit(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the server")
	})

	files := make([]UploadFile, MaxBatchFiles+1)
	for i := range files {
		files[i] = UploadFile{Name: fmt.Sprintf("f%d.pdf", i)}
	}
	if _, err := c.UploadBatch(context.Background(), files, ""); err == nil {
		t.Error("expected an error for an oversized batch")
	}
	if _, err := c.UploadBatch(context.Background(), nil, ""); err == nil {
		t.Error("expected an error for an empty batch")
	}
}

func TestUploadBatch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/invoices/upload-batch" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if n := len(r.MultipartForm.File["files"]); n != 2 {
			t.Errorf("files field carries %d parts, want 2", n)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"total":   2,
			"results": []map[string]interface{}{
				{"filename": "a.pdf", "success": true, "invoice_id": "inv_a"},
				{"filename": "b.txt", "success": false, "error": "Only PDF files are supported"},
			},
			"accepted": 1,
		})
	})

	outcome, err := c.UploadBatch(context.Background(), []UploadFile{
		{Name: "a.pdf", Content: []byte("%PDF-1.4")},
		{Name: "b.txt", Content: []byte("nope")},
	}, "")
	if err != nil {
		t.Fatalf("upload batch: %v", err)
	}
	if ids := outcome.AcceptedIDs(); len(ids) != 1 || ids[0] != "inv_a" {
		t.Errorf("accepted ids = %v", ids)
	}
	if outcome.Results[1].Error == nil || *outcome.Results[1].Error != "Only PDF files are supported" {
		t.Errorf("rejected file error = %v", outcome.Results[1].Error)
	}
}

func TestGetInvoice(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/invoices/inv_123" {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"invoice": map[string]interface{}{
				"id":     "inv_123",
				"status": "processing",
			},
		})
	})

	record, err := c.GetInvoice(context.Background(), "inv_123")
	if err != nil {
		t.Fatalf("get invoice: %v", err)
	}
	if record["status"] != "processing" {
		t.Errorf("record = %v", record)
	}
}

func TestGetInvoice_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Invoice not found"})
	})

	_, err := c.GetInvoice(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDownloadInvoice(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/invoices/inv_123/download" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("format"); got != "csv" {
			t.Errorf("format = %q", got)
		}
		w.Write([]byte("header\nrow\n"))
	})

	data, err := c.DownloadInvoice(context.Background(), "inv_123", model.FormatCSV)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if string(data) != "header\nrow\n" {
		t.Errorf("body = %q", data)
	}
}

func TestDownloadInvoice_BadFormat(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the server")
	})
	if _, err := c.DownloadInvoice(context.Background(), "inv_123", model.OutputFormat("pdf")); err == nil {
		t.Error("expected an error for an unsupported format")
	}
}

func TestServerErrorSurfacesAsAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"detail": "boom"})
	})

	_, err := c.GetInvoice(context.Background(), "inv_123")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError || apiErr.Message != "boom" {
		t.Errorf("apiErr = %+v", apiErr)
	}
}
