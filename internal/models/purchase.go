package models

import "time"

// AnonymousUserID is recorded on purchases made without a logged-in user.
const AnonymousUserID = "anonymous"

// PurchaseRecord is a client-local log entry for a completed (simulated) checkout.
type PurchaseRecord struct {
	ProductID     uint      `json:"productId"`
	ProductName   string    `json:"productName"`
	Price         float64   `json:"price"`
	Currency      string    `json:"currency"`
	TransactionID string    `json:"transactionId"`
	Status        string    `json:"status"`
	Timestamp     time.Time `json:"timestamp"`
	UserID        string    `json:"userId"`
}
