package handler

import (
	"fmt"
	"io"
	"mime/multipart"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/itsMeSaikrishna/Creative-Invoice/internal/model"
	"github.com/itsMeSaikrishna/Creative-Invoice/internal/stub"
	"github.com/itsMeSaikrishna/Creative-Invoice/pkg/response"
)

const maxBatchFiles = 10

// InvoiceHandler serves the stub backend's invoice endpoints.
type InvoiceHandler struct {
	store     *stub.Store
	validator *validator.Validate
}

func NewInvoiceHandler(store *stub.Store, v *validator.Validate) *InvoiceHandler {
	return &InvoiceHandler{
		store:     store,
		validator: v,
	}
}

// Upload handles POST /api/invoices/upload
func (h *InvoiceHandler) Upload(c *fiber.Ctx) error {
	userID, _ := c.Locals("userId").(string)

	quota := h.store.Quota()
	if !quota.Allowed {
		return response.QuotaExceeded(c, fmt.Sprintf(
			"Monthly invoice limit reached (%d/%d). Upgrade to Pro for unlimited invoices.",
			quota.Used, quota.Limit))
	}

	file, err := c.FormFile("file")
	if err != nil {
		return response.ValidationError(c, "File is required", nil)
	}
	content, err := readMultipartFile(file)
	if err != nil {
		return response.ServiceError(c, "Failed to read file")
	}

	buyerGSTIN := c.FormValue("buyer_gstin")
	if err := h.validateGSTIN(buyerGSTIN); err != nil {
		return response.ValidationError(c, "Invalid buyer GSTIN", nil)
	}

	if ok, msg := stub.ValidatePDF(file.Filename, content); !ok {
		return response.ValidationError(c, msg, nil)
	}

	row := h.store.CreateInvoice(userID, file.Filename, content, buyerGSTIN)
	return response.OK(c, fiber.Map{
		"success":    true,
		"invoice_id": row.ID,
		"status":     "processing",
	})
}

// UploadBatch handles POST /api/invoices/upload-batch
func (h *InvoiceHandler) UploadBatch(c *fiber.Ctx) error {
	userID, _ := c.Locals("userId").(string)

	form, err := c.MultipartForm()
	if err != nil {
		return response.ValidationError(c, "Invalid multipart form", nil)
	}
	files := form.File["files"]
	if len(files) == 0 {
		return response.ValidationError(c, "No files provided", nil)
	}
	if len(files) > maxBatchFiles {
		return response.ValidationError(c, fmt.Sprintf("Maximum %d files per batch", maxBatchFiles), nil)
	}

	quota := h.store.Quota()
	if !quota.Allowed {
		return response.QuotaExceeded(c, fmt.Sprintf(
			"Monthly invoice limit reached (%d/%d). Upgrade to Pro for unlimited invoices.",
			quota.Used, quota.Limit))
	}
	if remaining := quota.Limit - quota.Used; len(files) > remaining {
		return response.QuotaExceeded(c, fmt.Sprintf(
			"Not enough quota. %d invoice(s) remaining this month, but %d files uploaded.",
			remaining, len(files)))
	}

	buyerGSTIN := c.FormValue("buyer_gstin")
	if err := h.validateGSTIN(buyerGSTIN); err != nil {
		return response.ValidationError(c, "Invalid buyer GSTIN", nil)
	}

	results := make([]model.BatchFileResult, 0, len(files))
	accepted := 0
	for _, f := range files {
		content, err := readMultipartFile(f)
		if err != nil {
			msg := "Failed to read file"
			results = append(results, model.BatchFileResult{Filename: f.Filename, Success: false, Error: &msg})
			continue
		}
		if ok, msg := stub.ValidatePDF(f.Filename, content); !ok {
			results = append(results, model.BatchFileResult{Filename: f.Filename, Success: false, Error: &msg})
			continue
		}

		row := h.store.CreateInvoice(userID, f.Filename, content, buyerGSTIN)
		id := row.ID
		results = append(results, model.BatchFileResult{Filename: f.Filename, Success: true, InvoiceID: &id})
		accepted++
	}

	return response.OK(c, model.BatchUploadResult{
		Success:  accepted > 0,
		Results:  results,
		Total:    len(results),
		Accepted: accepted,
	})
}

// Get handles GET /api/invoices/:id
func (h *InvoiceHandler) Get(c *fiber.Ctx) error {
	row, ok := h.store.Get(c.Params("id"))
	if !ok {
		return response.NotFound(c, "Invoice not found")
	}
	return response.OK(c, fiber.Map{
		"success": true,
		"invoice": row,
	})
}

// Download handles GET /api/invoices/:id/download?format=
func (h *InvoiceHandler) Download(c *fiber.Ctx) error {
	row, ok := h.store.Get(c.Params("id"))
	if !ok {
		return response.NotFound(c, "Invoice not found")
	}
	if row.Status != model.StatusCompleted {
		return response.ValidationError(c, fmt.Sprintf("Invoice not ready. Status: %s", row.Status), nil)
	}

	format := model.OutputFormat(c.Query("format", "json"))
	if !format.Valid() {
		return response.ValidationError(c, "Format must be json, xml, or csv", nil)
	}

	output, err := stub.GenerateOutput(row, format)
	if err != nil {
		return response.ServiceError(c, err.Error())
	}

	c.Set("Content-Type", stub.ContentTypes[format])
	c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="invoice_%s.%s"`, row.ID, format.Extension()))
	return c.SendString(output)
}

// List handles GET /api/invoices
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	params := struct {
		Page  int `validate:"gte=1"`
		Limit int `validate:"gte=1,lte=100"`
	}{
		Page:  c.QueryInt("page", 1),
		Limit: c.QueryInt("limit", 20),
	}
	if err := h.validator.Struct(&params); err != nil {
		return response.ValidationError(c, "Invalid pagination parameters", nil)
	}

	rows, total := h.store.List(params.Page, params.Limit)
	return response.OK(c, fiber.Map{
		"success":  true,
		"invoices": rows,
		"total":    total,
		"page":     params.Page,
		"limit":    params.Limit,
	})
}

// Delete handles DELETE /api/invoices/:id
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	if !h.store.Delete(c.Params("id")) {
		return response.NotFound(c, "Invoice not found")
	}
	return response.OK(c, fiber.Map{"success": true})
}

// validateGSTIN checks the optional buyer GSTIN format.
func (h *InvoiceHandler) validateGSTIN(gstin string) error {
	if gstin == "" {
		return nil
	}
	return h.validator.Var(gstin, "gstin")
}

func readMultipartFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
