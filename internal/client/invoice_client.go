package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"time"

	"github.com/itsMeSaikrishna/Creative-Invoice/internal/auth"
	"github.com/itsMeSaikrishna/Creative-Invoice/internal/config"
	"github.com/itsMeSaikrishna/Creative-Invoice/internal/model"
)

// MaxBatchFiles is the backend's per-request batch ceiling.
const MaxBatchFiles = 10

// UploadFile is one PDF to submit for extraction.
type UploadFile struct {
	Name    string
	Content []byte
}

// InvoiceAPI defines the operations the extraction backend exposes.
type InvoiceAPI interface {
	UploadInvoice(ctx context.Context, file UploadFile, buyerGSTIN string) (string, error)
	UploadBatch(ctx context.Context, files []UploadFile, buyerGSTIN string) (*model.BatchUploadResult, error)
	GetInvoice(ctx context.Context, invoiceID string) (map[string]interface{}, error)
	DownloadInvoice(ctx context.Context, invoiceID string, format model.OutputFormat) ([]byte, error)
	ListInvoices(ctx context.Context, page, limit int) (*model.InvoiceList, error)
	DeleteInvoice(ctx context.Context, invoiceID string) error
	GetSubscription(ctx context.Context) (*model.SubscriptionInfo, error)
}

// InvoiceClient implements InvoiceAPI against the remote extraction service.
type InvoiceClient struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewInvoiceClient creates a new extraction API client.
func NewInvoiceClient(cfg *config.APIConfig) *InvoiceClient {
	if cfg.Token != "" {
		if exp, err := auth.InspectExpiry(cfg.Token); err == nil && time.Now().After(exp) {
			log.Printf("[Invoice API] Warning: bearer token expired at %s", exp.Format(time.RFC3339))
		}
	}
	return &InvoiceClient{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
	}
}

// UploadInvoice submits one PDF for processing and returns the invoice id
// the backend assigned. A 402 response surfaces as *QuotaError.
func (c *InvoiceClient) UploadInvoice(ctx context.Context, file UploadFile, buyerGSTIN string) (string, error) {
	body, contentType, err := buildMultipart([]UploadFile{file}, "file", buyerGSTIN)
	if err != nil {
		return "", err
	}

	var result struct {
		Success   bool   `json:"success"`
		InvoiceID string `json:"invoice_id"`
		Status    string `json:"status"`
	}
	if err := c.postMultipart(ctx, "/api/invoices/upload", body, contentType, &result); err != nil {
		return "", err
	}
	return result.InvoiceID, nil
}

// UploadBatch submits up to MaxBatchFiles PDFs in one request and returns
// the per-file outcomes.
func (c *InvoiceClient) UploadBatch(ctx context.Context, files []UploadFile, buyerGSTIN string) (*model.BatchUploadResult, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("no files provided")
	}
	if len(files) > MaxBatchFiles {
		return nil, fmt.Errorf("maximum %d files per batch", MaxBatchFiles)
	}

	body, contentType, err := buildMultipart(files, "files", buyerGSTIN)
	if err != nil {
		return nil, err
	}

	var result model.BatchUploadResult
	if err := c.postMultipart(ctx, "/api/invoices/upload-batch", body, contentType, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetInvoice fetches the backend record for an invoice. The record is
// returned opaque; the processor's mapper normalizes it.
func (c *InvoiceClient) GetInvoice(ctx context.Context, invoiceID string) (map[string]interface{}, error) {
	endpoint := fmt.Sprintf("/api/invoices/%s", invoiceID)
	var result struct {
		Success bool                   `json:"success"`
		Invoice map[string]interface{} `json:"invoice"`
	}
	if err := c.get(ctx, endpoint, &result); err != nil {
		return nil, err
	}
	return result.Invoice, nil
}

// DownloadInvoice fetches the extracted data of a completed invoice in the
// requested encoding.
func (c *InvoiceClient) DownloadInvoice(ctx context.Context, invoiceID string, format model.OutputFormat) ([]byte, error) {
	if !format.Valid() {
		return nil, fmt.Errorf("format must be json, xml, or csv")
	}
	endpoint := fmt.Sprintf("/api/invoices/%s/download?format=%s", invoiceID, format)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.doRaw(req)
}

// ListInvoices fetches one page of the caller's invoices.
func (c *InvoiceClient) ListInvoices(ctx context.Context, page, limit int) (*model.InvoiceList, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	endpoint := "/api/invoices?" + q.Encode()

	var result model.InvoiceList
	if err := c.get(ctx, endpoint, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteInvoice removes an invoice and its stored PDF.
func (c *InvoiceClient) DeleteInvoice(ctx context.Context, invoiceID string) error {
	endpoint := fmt.Sprintf("/api/invoices/%s", invoiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	_, err = c.doRaw(req)
	return err
}

// GetSubscription fetches the caller's plan and quota usage.
func (c *InvoiceClient) GetSubscription(ctx context.Context) (*model.SubscriptionInfo, error) {
	var result model.SubscriptionInfo
	if err := c.get(ctx, "/api/subscriptions/me", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// buildMultipart assembles a multipart/form-data body with the given files
// under fieldName and an optional buyer_gstin field.
func buildMultipart(files []UploadFile, fieldName, buyerGSTIN string) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for _, f := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, fieldName, f.Name))
		header.Set("Content-Type", "application/pdf")
		part, err := writer.CreatePart(header)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create form file: %w", err)
		}
		if _, err := part.Write(f.Content); err != nil {
			return nil, "", fmt.Errorf("failed to write form file: %w", err)
		}
	}
	if buyerGSTIN != "" {
		if err := writer.WriteField("buyer_gstin", buyerGSTIN); err != nil {
			return nil, "", fmt.Errorf("failed to write form field: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize form: %w", err)
	}
	return &buf, writer.FormDataContentType(), nil
}

// postMultipart sends a multipart POST request
func (c *InvoiceClient) postMultipart(ctx context.Context, endpoint string, body *bytes.Buffer, contentType string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	return c.doRequest(req, result)
}

// get sends a GET request and parses the JSON response
func (c *InvoiceClient) get(ctx context.Context, endpoint string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return c.doRequest(req, result)
}

// doRequest executes an HTTP request and parses the JSON response
func (c *InvoiceClient) doRequest(req *http.Request, result interface{}) error {
	respBody, err := c.doRaw(req)
	if err != nil {
		return err
	}
	if result == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, result); err != nil {
		log.Printf("[Invoice API] ✗ unmarshal error for %s %s: %v", req.Method, req.URL.String(), err)
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

// doRaw executes an HTTP request, maps the distinguished error statuses,
// and returns the raw response body.
func (c *InvoiceClient) doRaw(req *http.Request) ([]byte, error) {
	if req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	log.Printf("[Invoice API] → %s %s", req.Method, req.URL.String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("[Invoice API] ✗ %s %s — request failed: %v", req.Method, req.URL.String(), err)
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("[Invoice API] ✗ %s %s — failed to read response: %v", req.Method, req.URL.String(), err)
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	log.Printf("[Invoice API] ← %d %s %s", resp.StatusCode, req.Method, req.URL.String())

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return respBody, nil
	case resp.StatusCode == http.StatusPaymentRequired:
		return nil, &QuotaError{Detail: parseDetail(respBody)}
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	default:
		msg := parseDetail(respBody)
		if msg == "" {
			msg = fmt.Sprintf("invoice API error (status %d)", resp.StatusCode)
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: msg}
	}
}

// parseDetail extracts the backend's error detail string, if present.
func parseDetail(body []byte) string {
	var payload struct {
		Detail string `json:"detail"`
		Error  struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Detail != "" {
		return payload.Detail
	}
	return payload.Error.Message
}
