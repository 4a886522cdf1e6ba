package storefront

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"neogaming/internal/checkout"
	"neogaming/internal/models"
)

// BeginCheckout shows the payment form for a product, opening its modal
// when it is not already open.
func (c *Client) BeginCheckout(productID uint) (*checkout.Form, error) {
	c.mu.Lock()
	open := c.state.Modal != nil && c.state.Modal.Product.ID == productID
	c.mu.Unlock()
	if !open {
		if _, err := c.OpenProduct(productID); err != nil {
			return nil, err
		}
	}
	return c.session.ShowForm(productID)
}

// CancelCheckout closes the payment form without paying.
func (c *Client) CancelCheckout() error {
	return c.session.Cancel()
}

// SubmitPayment pays for the product whose form is shown. On success the
// purchase is recorded, the modal closes and the success view is shown.
func (c *Client) SubmitPayment(ctx context.Context, form checkout.PaymentForm) (*checkout.Confirmation, error) {
	return c.session.Submit(ctx, form)
}

// CheckoutState is the current step of the checkout flow.
func (c *Client) CheckoutState() checkout.State {
	return c.session.State()
}

// PurchaseHistory returns the purchases recorded in this session.
func (c *Client) PurchaseHistory() ([]models.PurchaseRecord, error) {
	return readPurchases(c.storage)
}

func (c *Client) recordPurchase(r checkout.Result) {
	userID := models.AnonymousUserID
	if user, ok := c.CurrentUser(); ok {
		userID = strconv.FormatUint(uint64(user.ID), 10)
	}
	rec := checkout.NewPurchaseRecord(r, userID, c.cfg.Now())
	if err := appendPurchase(c.storage, rec); err != nil {
		zap.S().Errorf("failed to record purchase %s: %v", rec.TransactionID, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.LastPurchase = &rec
	c.state.Modal = nil
	c.state.View = ViewSuccess
}
