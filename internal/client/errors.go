package client

import "errors"

// QuotaFallbackMessage is shown when the backend rejects an upload for
// quota reasons without providing its own detail string.
const QuotaFallbackMessage = "Monthly invoice limit reached. Upgrade to Pro for unlimited invoices."

// ErrNotFound is returned when the backend reports an unknown invoice id.
var ErrNotFound = errors.New("invoice not found")

// QuotaError is returned when a submission is rejected with the
// distinguished quota status code (402).
type QuotaError struct {
	Detail string
}

func (e *QuotaError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return QuotaFallbackMessage
}

// IsQuotaError reports whether err is a quota rejection.
func IsQuotaError(err error) bool {
	var qe *QuotaError
	return errors.As(err, &qe)
}

// APIError is a non-2xx response from the backend that is not one of the
// distinguished cases.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}
