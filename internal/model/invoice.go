package model

// TaxBreakup is one per-rate line of an invoice's tax computation.
// Either the CGST/SGST pair or the IGST amount is non-zero for a row,
// never both; the backend's validation rules enforce this.
type TaxBreakup struct {
	Rate          float64 `json:"rate"`
	TaxableValue  float64 `json:"taxable_value"`
	CGSTAmount    float64 `json:"cgst_amount"`
	SGSTAmount    float64 `json:"sgst_amount"`
	IGSTAmount    float64 `json:"igst_amount"`
	TotalWithTax  float64 `json:"total_with_tax"`
}

// InvoiceData holds the extracted fields of a completed invoice.
// Immutable once set on a ProcessingResult.
type InvoiceData struct {
	SellerName        string       `json:"seller_name"`
	SellerGSTIN       string       `json:"seller_gstin"`
	BuyerGSTIN        *string      `json:"buyer_gstin"`
	BillNo            string       `json:"bill_no"`
	BillDate          string       `json:"bill_date"`
	TaxBreakup        []TaxBreakup `json:"tax_breakup"`
	TotalTaxableValue float64      `json:"total_taxable_value"`
	TotalCGST         float64      `json:"total_cgst"`
	TotalSGST         float64      `json:"total_sgst"`
	TotalIGST         float64      `json:"total_igst"`
	TotalQuantity     float64      `json:"total_quantity"`
	TotalAmount       float64      `json:"total_amount"`
	ValidationPassed  bool         `json:"validation_passed"`
	ValidationErrors  []string     `json:"validation_errors"`
}

// InvoiceRecord is one row of the invoice listing endpoint.
type InvoiceRecord struct {
	ID               string           `json:"id"`
	UserID           string           `json:"user_id,omitempty"`
	OriginalFilename string           `json:"original_filename"`
	Status           ProcessingStatus `json:"status"`
	SellerName       *string          `json:"seller_name"`
	SellerGSTIN      *string          `json:"seller_gstin"`
	BuyerGSTIN       *string          `json:"buyer_gstin"`
	BillNo           *string          `json:"bill_no"`
	BillDate         *string          `json:"bill_date"`
	TotalAmount      *float64         `json:"total_amount"`
	ValidationPassed *bool            `json:"validation_passed"`
	CreatedAt        string           `json:"created_at"`
	UpdatedAt        string           `json:"updated_at"`
}

// InvoiceList is a page of invoice records.
type InvoiceList struct {
	Invoices []InvoiceRecord `json:"invoices"`
	Total    int             `json:"total"`
	Page     int             `json:"page"`
	Limit    int             `json:"limit"`
}
