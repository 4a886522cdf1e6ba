package checkout

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const (
	// DefaultDelay is how long the simulated processor "thinks".
	DefaultDelay = 2 * time.Second

	StatusCompleted = "COMPLETED"
	Currency        = "USD"
)

// ChargeRequest is a single payment attempt.
type ChargeRequest struct {
	ProductID   uint
	ProductName string
	Amount      float64
	Currency    string
	Form        PaymentForm
}

// Confirmation is returned by a Gateway once the payment is accepted.
type Confirmation struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	MaskedCard string `json:"masked_card"`
	Amount     string `json:"amount"`
	Currency   string `json:"currency"`
	Receipt    string `json:"receipt,omitempty"`
}

// Gateway charges a payment.
type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*Confirmation, error)
}

// SimulatedGateway accepts every payment after Delay. Nothing is sent over
// the network. Transaction ids are DEMO_<unix-millis>, bumped by one
// millisecond when two charges land in the same millisecond.
type SimulatedGateway struct {
	Delay  time.Duration
	Now    func() time.Time
	Signer *ReceiptSigner // optional

	mu     sync.Mutex
	lastID int64
}

func (g *SimulatedGateway) nextID(issued time.Time) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := issued.UnixMilli()
	if id <= g.lastID {
		id = g.lastID + 1
	}
	g.lastID = id
	return fmt.Sprintf("DEMO_%d", id)
}

// NewSimulatedGateway creates a gateway with the default delay.
func NewSimulatedGateway(signer *ReceiptSigner) *SimulatedGateway {
	return &SimulatedGateway{Delay: DefaultDelay, Now: time.Now, Signer: signer}
}

// Charge waits for the configured delay and confirms the payment.
func (g *SimulatedGateway) Charge(ctx context.Context, req ChargeRequest) (*Confirmation, error) {
	if g.Delay > 0 {
		timer := time.NewTimer(g.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	issued := now()

	currency := req.Currency
	if currency == "" {
		currency = Currency
	}
	conf := &Confirmation{
		ID:         g.nextID(issued),
		Status:     StatusCompleted,
		MaskedCard: MaskCard(req.Form.CardNumber),
		Amount:     fmt.Sprintf("%.2f", req.Amount),
		Currency:   currency,
	}

	if g.Signer != nil {
		receipt, err := g.Signer.Sign(ReceiptClaims{
			TransactionID: conf.ID,
			ProductID:     req.ProductID,
			Amount:        conf.Amount,
			Currency:      conf.Currency,
			IssuedAt:      issued.Unix(),
		})
		if err != nil {
			return nil, err
		}
		conf.Receipt = receipt
	}
	return conf, nil
}
