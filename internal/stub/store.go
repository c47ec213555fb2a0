// Package stub is an in-process stand-in for the remote extraction
// backend. It serves the same API surface with simulated asynchronous
// processing, so the client, orchestrators and CLI can run end to end
// without the real OCR/LLM pipeline.
package stub

import (
	"bytes"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/itsMeSaikrishna/Creative-Invoice/internal/model"
)

// InvoiceRow is the backend's database record for one invoice.
type InvoiceRow struct {
	ID               string                 `json:"id"`
	UserID           string                 `json:"user_id"`
	OriginalFilename string                 `json:"original_filename"`
	Status           model.ProcessingStatus `json:"status"`
	SellerName       string                 `json:"seller_name,omitempty"`
	SellerGSTIN      string                 `json:"seller_gstin,omitempty"`
	BuyerGSTIN       *string                `json:"buyer_gstin,omitempty"`
	BillNo           string                 `json:"bill_no,omitempty"`
	BillDate         string                 `json:"bill_date,omitempty"`
	TaxBreakup       []model.TaxBreakup     `json:"tax_breakup,omitempty"`
	TotalTaxableValue float64               `json:"total_taxable_value,omitempty"`
	TotalCGST        float64                `json:"total_cgst,omitempty"`
	TotalSGST        float64                `json:"total_sgst,omitempty"`
	TotalIGST        float64                `json:"total_igst,omitempty"`
	TotalQuantity    float64                `json:"total_quantity,omitempty"`
	TotalAmount      float64                `json:"total_amount,omitempty"`
	ValidationPassed bool                   `json:"validation_passed"`
	ValidationErrors []string               `json:"validation_errors,omitempty"`
	ProcessingTimeMs int64                  `json:"processing_time_ms,omitempty"`
	CreatedAt        string                 `json:"created_at"`
	UpdatedAt        string                 `json:"updated_at"`
}

// Store holds the stub backend's invoices and quota counter.
type Store struct {
	quotaLimit      int
	processingDelay time.Duration

	mu       sync.Mutex
	invoices map[string]*InvoiceRow
	order    []string
	used     int
}

// NewStore creates an empty store. Invoices transition from processing to
// a terminal status after processingDelay.
func NewStore(quotaLimit int, processingDelay time.Duration) *Store {
	return &Store{
		quotaLimit:      quotaLimit,
		processingDelay: processingDelay,
		invoices:        make(map[string]*InvoiceRow),
	}
}

// Quota returns the current usage counters.
func (s *Store) Quota() model.Usage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.Usage{
		Used:    s.used,
		Limit:   s.quotaLimit,
		Allowed: s.used < s.quotaLimit,
	}
}

// ValidatePDF applies the backend's upload validation: .pdf extension and
// the PDF magic bytes.
func ValidatePDF(filename string, content []byte) (bool, string) {
	if !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return false, "Only PDF files are supported"
	}
	if !bytes.HasPrefix(content, []byte("%PDF")) {
		return false, "File is not a valid PDF"
	}
	return true, ""
}

// CreateInvoice accepts an upload, counts it against the quota and
// schedules the simulated extraction. Content containing the marker
// "FAIL" ends in a failed status.
func (s *Store) CreateInvoice(userID, filename string, content []byte, buyerGSTIN string) InvoiceRow {
	now := time.Now().UTC().Format(time.RFC3339)
	row := &InvoiceRow{
		ID:               uuid.New().String(),
		UserID:           userID,
		OriginalFilename: filename,
		Status:           model.StatusProcessing,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if buyerGSTIN != "" {
		row.BuyerGSTIN = &buyerGSTIN
	}

	s.mu.Lock()
	s.invoices[row.ID] = row
	s.order = append(s.order, row.ID)
	s.used++
	created := *row
	s.mu.Unlock()

	fail := bytes.Contains(content, []byte("FAIL"))
	time.AfterFunc(s.processingDelay, func() {
		s.finishProcessing(row.ID, fail)
	})
	return created
}

// finishProcessing flips an invoice to its terminal status with either the
// sample extraction or a failure record.
func (s *Store) finishProcessing(invoiceID string, fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.invoices[invoiceID]
	if !ok || row.Status.IsTerminal() {
		return
	}

	row.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	row.ProcessingTimeMs = s.processingDelay.Milliseconds()
	if row.ProcessingTimeMs == 0 {
		row.ProcessingTimeMs = 1
	}

	if fail {
		row.Status = model.StatusFailed
		row.ValidationPassed = false
		row.ValidationErrors = []string{
			"Could not extract seller details",
			"OCR confidence too low",
		}
		return
	}

	row.Status = model.StatusCompleted
	row.SellerName = "Creative Traders Pvt Ltd"
	row.SellerGSTIN = "27AAPCC1234D1ZV"
	row.BillNo = "CT-2024-0042"
	row.BillDate = "2024-11-18"
	row.TaxBreakup = []model.TaxBreakup{
		{Rate: 18, TaxableValue: 4810.00, CGSTAmount: 433.00, SGSTAmount: 433.00, IGSTAmount: 0, TotalWithTax: 5676.00},
	}
	row.TotalTaxableValue = 4810.00
	row.TotalCGST = 433.00
	row.TotalSGST = 433.00
	row.TotalIGST = 0
	row.TotalQuantity = 12
	row.TotalAmount = 5676.00
	row.ValidationPassed = true
	row.ValidationErrors = []string{}
}

// Get returns a copy of an invoice by id. Copying keeps callers from
// observing a row mid-transition.
func (s *Store) Get(invoiceID string) (InvoiceRow, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.invoices[invoiceID]
	if !ok {
		return InvoiceRow{}, false
	}
	return *row, true
}

// List returns one page of invoices, newest first, plus the total count.
func (s *Store) List(page, limit int) ([]InvoiceRow, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := len(s.order)
	rows := make([]InvoiceRow, 0, limit)
	start := (page - 1) * limit
	for i := 0; i < limit; i++ {
		idx := total - 1 - start - i
		if idx < 0 {
			break
		}
		rows = append(rows, *s.invoices[s.order[idx]])
	}
	return rows, total
}

// Delete removes an invoice. It reports whether the id existed.
func (s *Store) Delete(invoiceID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.invoices[invoiceID]; !ok {
		return false
	}
	delete(s.invoices, invoiceID)
	for i, id := range s.order {
		if id == invoiceID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}
