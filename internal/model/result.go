package model

// ProcessingError carries a backend-reported extraction failure.
type ProcessingError struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ProcessingResult is the client-side view of one invoice's processing
// lifecycle. On a terminal status exactly one of InvoiceData/Error is set:
// InvoiceData when completed, Error when failed.
type ProcessingResult struct {
	InvoiceID        string           `json:"invoice_id"`
	Status           ProcessingStatus `json:"status"`
	InvoiceData      *InvoiceData     `json:"invoice_data"`
	Error            *ProcessingError `json:"error"`
	ProcessingTimeMs *int64           `json:"processing_time_ms"`
}

// Terminal reports whether the result reached a terminal status.
func (r *ProcessingResult) Terminal() bool {
	return r != nil && r.Status.IsTerminal()
}
