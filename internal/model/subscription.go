package model

// Usage is the caller's quota consumption for the current period.
// Allowed is computed by the backend (used < limit); the client consults
// it before uploading but never mutates it.
type Usage struct {
	Used    int  `json:"used"`
	Limit   int  `json:"limit"`
	Allowed bool `json:"allowed"`
}

// SubscriptionDetail describes the subscription record itself.
type SubscriptionDetail struct {
	Status    string  `json:"status"`
	StartedAt *string `json:"started_at"`
	ExpiresAt *string `json:"expires_at"`
}

// SubscriptionInfo is the response of GET /api/subscriptions/me.
type SubscriptionInfo struct {
	Success      bool               `json:"success"`
	Plan         Plan               `json:"plan"`
	Usage        Usage              `json:"usage"`
	Subscription SubscriptionDetail `json:"subscription"`
}
