package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/itsMeSaikrishna/Creative-Invoice/internal/middleware"
	"github.com/itsMeSaikrishna/Creative-Invoice/internal/stub"
)

// StubRoutes returns the route wiring for the stub backend: the full
// invoice API surface behind bearer-token auth.
func StubRoutes(jwtSecret string) func(app *fiber.App, store *stub.Store) {
	return func(app *fiber.App, store *stub.Store) {
		validate := stub.NewValidator()
		authMw := middleware.NewAuthMiddleware(jwtSecret)
		invoices := NewInvoiceHandler(store, validate)
		subscriptions := NewSubscriptionHandler(store)

		api := app.Group("/api", authMw.Authenticate())
		api.Post("/invoices/upload", invoices.Upload)
		api.Post("/invoices/upload-batch", invoices.UploadBatch)
		api.Get("/invoices", invoices.List)
		api.Get("/invoices/:id", invoices.Get)
		api.Get("/invoices/:id/download", invoices.Download)
		api.Delete("/invoices/:id", invoices.Delete)
		api.Get("/subscriptions/me", subscriptions.Me)
	}
}
