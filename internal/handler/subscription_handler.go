package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/itsMeSaikrishna/Creative-Invoice/internal/model"
	"github.com/itsMeSaikrishna/Creative-Invoice/internal/stub"
	"github.com/itsMeSaikrishna/Creative-Invoice/pkg/response"
)

// SubscriptionHandler serves the stub backend's subscription endpoint.
type SubscriptionHandler struct {
	store *stub.Store
}

func NewSubscriptionHandler(store *stub.Store) *SubscriptionHandler {
	return &SubscriptionHandler{store: store}
}

// Me handles GET /api/subscriptions/me
func (h *SubscriptionHandler) Me(c *fiber.Ctx) error {
	return response.OK(c, model.SubscriptionInfo{
		Success: true,
		Plan:    model.PlanFree,
		Usage:   h.store.Quota(),
		Subscription: model.SubscriptionDetail{
			Status: "active",
		},
	})
}
