package model

// BatchFileResult is the per-file outcome of a batch upload.
type BatchFileResult struct {
	Filename  string  `json:"filename"`
	Success   bool    `json:"success"`
	Error     *string `json:"error"`
	InvoiceID *string `json:"invoice_id"`
}

// BatchUploadResult is the response of the batch upload endpoint.
type BatchUploadResult struct {
	Success  bool              `json:"success"`
	Results  []BatchFileResult `json:"results"`
	Total    int               `json:"total"`
	Accepted int               `json:"accepted"`
}

// AcceptedIDs returns the invoice ids of the files the backend accepted,
// in submission order. These seed the batch poller's pending set.
func (b *BatchUploadResult) AcceptedIDs() []string {
	ids := make([]string, 0, b.Accepted)
	for _, r := range b.Results {
		if r.Success && r.InvoiceID != nil {
			ids = append(ids, *r.InvoiceID)
		}
	}
	return ids
}
