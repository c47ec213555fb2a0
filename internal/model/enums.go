package model

// Processing status of an invoice job
type ProcessingStatus string

const (
	StatusPending    ProcessingStatus = "pending"
	StatusProcessing ProcessingStatus = "processing"
	StatusCompleted  ProcessingStatus = "completed"
	StatusFailed     ProcessingStatus = "failed"
)

// IsTerminal reports whether no further status transition will occur.
func (s ProcessingStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Output formats for extracted invoice data
type OutputFormat string

const (
	FormatJSON OutputFormat = "json"
	FormatXML  OutputFormat = "xml"
	FormatCSV  OutputFormat = "csv"
)

var ValidOutputFormats = []OutputFormat{FormatJSON, FormatXML, FormatCSV}

// Extension returns the file extension used when saving the format.
func (f OutputFormat) Extension() string {
	return string(f)
}

// Valid reports whether f is a supported output format.
func (f OutputFormat) Valid() bool {
	for _, v := range ValidOutputFormats {
		if f == v {
			return true
		}
	}
	return false
}

// Subscription plans
type Plan string

const (
	PlanFree Plan = "free"
	PlanPro  Plan = "pro"
)
