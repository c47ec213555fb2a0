package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/itsMeSaikrishna/Creative-Invoice/internal/client"
	"github.com/itsMeSaikrishna/Creative-Invoice/internal/model"
)

// ErrQuotaExhausted is returned by CheckQuota when the caller's usage
// reached the plan limit. Uploads gated on it never hit the wire; the
// backend still enforces the quota authoritatively.
var ErrQuotaExhausted = errors.New("monthly invoice quota exhausted")

// SubscriptionService reads the caller's plan and usage. Usage is external
// state: consulted before submission, never mutated here.
type SubscriptionService struct {
	api client.InvoiceAPI
}

// NewSubscriptionService creates a new subscription service.
func NewSubscriptionService(api client.InvoiceAPI) *SubscriptionService {
	return &SubscriptionService{api: api}
}

// Get fetches the subscription and usage info.
func (s *SubscriptionService) Get(ctx context.Context) (*model.SubscriptionInfo, error) {
	info, err := s.api.GetSubscription(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch subscription: %w", err)
	}
	return info, nil
}

// CheckQuota fetches current usage and returns ErrQuotaExhausted when the
// backend reports the caller over limit.
func (s *SubscriptionService) CheckQuota(ctx context.Context) (*model.Usage, error) {
	info, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !info.Usage.Allowed {
		return &info.Usage, fmt.Errorf("%w (%d/%d used)", ErrQuotaExhausted, info.Usage.Used, info.Usage.Limit)
	}
	return &info.Usage, nil
}
