package processor

import (
	"strings"

	"github.com/itsMeSaikrishna/Creative-Invoice/internal/model"
)

const fallbackFailureMessage = "Processing failed"

// MapInvoiceRecord converts an opaque backend record into a typed
// processing result. Missing numeric fields default to 0, missing arrays
// to empty, a missing buyer GSTIN to nil. A malformed record yields a
// result with neither invoice data nor error; the transform never fails.
func MapInvoiceRecord(record map[string]interface{}) *model.ProcessingResult {
	status := model.ProcessingStatus(recordString(record, "status"))

	var invoiceData *model.InvoiceData
	if status == model.StatusCompleted && recordString(record, "seller_name") != "" {
		invoiceData = &model.InvoiceData{
			SellerName:        recordString(record, "seller_name"),
			SellerGSTIN:       recordString(record, "seller_gstin"),
			BuyerGSTIN:        recordStringPtr(record, "buyer_gstin"),
			BillNo:            recordString(record, "bill_no"),
			BillDate:          recordString(record, "bill_date"),
			TaxBreakup:        recordBreakup(record, "tax_breakup"),
			TotalTaxableValue: recordFloat(record, "total_taxable_value"),
			TotalCGST:         recordFloat(record, "total_cgst"),
			TotalSGST:         recordFloat(record, "total_sgst"),
			TotalIGST:         recordFloat(record, "total_igst"),
			TotalQuantity:     recordFloat(record, "total_quantity"),
			TotalAmount:       recordFloat(record, "total_amount"),
			ValidationPassed:  recordBool(record, "validation_passed"),
			ValidationErrors:  recordStrings(record, "validation_errors"),
		}
	}

	var procErr *model.ProcessingError
	if status == model.StatusFailed {
		errs := recordStrings(record, "validation_errors")
		procErr = &model.ProcessingError{Message: fallbackFailureMessage}
		if len(errs) > 0 {
			procErr.Message = errs[0]
			procErr.Details = strings.Join(errs[1:], ", ")
		}
	}

	var timeMs *int64
	if ms := int64(recordFloat(record, "processing_time_ms")); ms != 0 {
		timeMs = &ms
	}

	return &model.ProcessingResult{
		InvoiceID:        recordString(record, "id"),
		Status:           status,
		InvoiceData:      invoiceData,
		Error:            procErr,
		ProcessingTimeMs: timeMs,
	}
}

func recordString(record map[string]interface{}, key string) string {
	if s, ok := record[key].(string); ok {
		return s
	}
	return ""
}

func recordStringPtr(record map[string]interface{}, key string) *string {
	if s, ok := record[key].(string); ok && s != "" {
		return &s
	}
	return nil
}

// recordFloat handles both float64 (decoded JSON) and integer values.
func recordFloat(record map[string]interface{}, key string) float64 {
	switch v := record[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}

func recordBool(record map[string]interface{}, key string) bool {
	if b, ok := record[key].(bool); ok {
		return b
	}
	return false
}

func recordStrings(record map[string]interface{}, key string) []string {
	out := []string{}
	switch v := record[key].(type) {
	case []string:
		return append(out, v...)
	case []interface{}:
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
	}
	return out
}

func recordBreakup(record map[string]interface{}, key string) []model.TaxBreakup {
	rows := []model.TaxBreakup{}
	items, ok := record[key].([]interface{})
	if !ok {
		return rows
	}
	for _, item := range items {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		rows = append(rows, model.TaxBreakup{
			Rate:         recordFloat(entry, "rate"),
			TaxableValue: recordFloat(entry, "taxable_value"),
			CGSTAmount:   recordFloat(entry, "cgst_amount"),
			SGSTAmount:   recordFloat(entry, "sgst_amount"),
			IGSTAmount:   recordFloat(entry, "igst_amount"),
			TotalWithTax: recordFloat(entry, "total_with_tax"),
		})
	}
	return rows
}
