package handlers

import (
	"errors"

	"neogaming/internal/checkout"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ReceiptHandler checks payment receipts shown on the success page.
type ReceiptHandler struct {
	signer   *checkout.ReceiptSigner
	validate *validator.Validate
}

// NewReceiptHandler creates a new ReceiptHandler.
func NewReceiptHandler(signer *checkout.ReceiptSigner) *ReceiptHandler {
	return &ReceiptHandler{signer: signer, validate: validator.New()}
}

// RegisterRoutes registers the receipt routes with the Fiber app.
func (h *ReceiptHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/receipts/verify", h.HandleVerify)
}

// VerifyReceiptRequest represents the request body for receipt verification.
type VerifyReceiptRequest struct {
	Receipt string `json:"receipt" validate:"required"`
}

// HandleVerify returns the claims of a valid receipt.
func (h *ReceiptHandler) HandleVerify(c *fiber.Ctx) error {
	var req VerifyReceiptRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "Invalid request body",
			"errors": fieldErrors(err),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "Receipt is required",
			"errors": fieldErrors(err),
		})
	}

	claims, err := h.signer.Verify(req.Receipt)
	if err != nil {
		if errors.Is(err, checkout.ErrInvalidReceipt) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"valid": false, "error": "Invalid receipt"})
		}
		return err
	}
	return c.JSON(fiber.Map{
		"valid":          true,
		"transaction_id": claims.TransactionID,
		"product_id":     claims.ProductID,
		"amount":         claims.Amount,
		"currency":       claims.Currency,
		"issued_at":      claims.IssuedAt,
	})
}
