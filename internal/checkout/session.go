package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"neogaming/internal/metrics"
	"neogaming/internal/models"
)

var (
	ErrInvalidTransition = errors.New("invalid checkout transition")
	ErrProductNotFound   = errors.New("product not found")
)

// Resolver looks products up in the authoritative product registry.
type Resolver interface {
	Lookup(id uint) (models.Product, bool)
}

// Result describes a completed checkout.
type Result struct {
	Product      models.Product
	Price        float64
	Confirmation Confirmation
}

// Session is the checkout flow for one product at a time. It is safe for
// concurrent use.
type Session struct {
	gateway  Gateway
	resolver Resolver

	mu           sync.Mutex
	state        State
	form         *Form
	confirmation *Confirmation
	err          error
	hooks        []func(Result)
}

// NewSession creates a new Session in the Idle state.
func NewSession(gateway Gateway, resolver Resolver) *Session {
	return &Session{gateway: gateway, resolver: resolver}
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Form returns the currently displayed form, if any.
func (s *Session) Form() *Form {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

// Err returns the error that moved the session to Failed.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Confirmation returns the last confirmation, if the session completed.
func (s *Session) Confirmation() *Confirmation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.confirmation
}

// OnComplete registers fn to run after every completed checkout.
func (s *Session) OnComplete(fn func(Result)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, fn)
}

func (s *Session) setState(state State) {
	s.state = state
	if state.Terminal() {
		metrics.RecordCheckout(state.String())
	}
}

// ShowForm renders the payment form for productID. It is allowed from Idle
// and from either terminal state.
func (s *Session) ShowForm(productID uint) (*Form, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Idle && !s.state.Terminal() {
		return nil, fmt.Errorf("%w: show form from %s", ErrInvalidTransition, s.state)
	}
	product, ok := s.resolver.Lookup(productID)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrProductNotFound, productID)
	}

	s.form = &Form{
		ProductID:   product.ID,
		ContainerID: ContainerID(product.ID),
		ProductName: product.Name,
		Amount:      product.SafePrice(),
		Currency:    Currency,
	}
	s.confirmation = nil
	s.err = nil
	s.setState(FormShown)
	return s.form, nil
}

// Cancel closes the form and returns to Idle.
func (s *Session) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != FormShown {
		return fmt.Errorf("%w: cancel from %s", ErrInvalidTransition, s.state)
	}
	s.form = nil
	s.setState(Idle)
	return nil
}

// Submit processes the displayed form. The product is resolved again at
// submit time so the charged price is the registry's current one.
func (s *Session) Submit(ctx context.Context, input PaymentForm) (*Confirmation, error) {
	s.mu.Lock()
	if s.state != FormShown {
		state := s.state
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: submit from %s", ErrInvalidTransition, state)
	}
	s.setState(Submitted)

	product, ok := s.resolver.Lookup(s.form.ProductID)
	if !ok {
		err := fmt.Errorf("%w: %d", ErrProductNotFound, s.form.ProductID)
		s.fail(err)
		s.mu.Unlock()
		return nil, err
	}
	price := product.SafePrice()
	s.setState(Processing)
	s.mu.Unlock()

	started := time.Now()
	conf, err := s.charge(ctx, ChargeRequest{
		ProductID:   product.ID,
		ProductName: product.Name,
		Amount:      price,
		Currency:    Currency,
		Form:        input,
	})

	s.mu.Lock()
	if err != nil {
		s.fail(err)
		s.mu.Unlock()
		return nil, err
	}
	s.confirmation = conf
	s.setState(Completed)
	hooks := append([]func(Result){}, s.hooks...)
	s.mu.Unlock()

	zap.S().Infow("checkout completed",
		"transaction", conf.ID,
		"product_id", product.ID,
		"amount", conf.Amount,
		"took", time.Since(started))

	result := Result{Product: product, Price: price, Confirmation: *conf}
	for _, hook := range hooks {
		hook(result)
	}
	return conf, nil
}

// fail must be called with s.mu held.
func (s *Session) fail(err error) {
	s.err = err
	s.setState(Failed)
	zap.S().Warnf("checkout failed: %v", err)
}

func (s *Session) charge(ctx context.Context, req ChargeRequest) (conf *Confirmation, err error) {
	defer func() {
		if r := recover(); r != nil {
			conf, err = nil, fmt.Errorf("payment processing panicked: %v", r)
		}
	}()
	conf, err = s.gateway.Charge(ctx, req)
	if err == nil && conf == nil {
		err = errors.New("payment gateway returned no confirmation")
	}
	return conf, err
}

// NewPurchaseRecord builds the client-side purchase log entry for r.
// An empty userID is recorded as anonymous.
func NewPurchaseRecord(r Result, userID string, at time.Time) models.PurchaseRecord {
	if userID == "" {
		userID = models.AnonymousUserID
	}
	return models.PurchaseRecord{
		ProductID:     r.Product.ID,
		ProductName:   r.Product.Name,
		Price:         r.Price,
		Currency:      r.Confirmation.Currency,
		TransactionID: r.Confirmation.ID,
		Status:        r.Confirmation.Status,
		Timestamp:     at,
		UserID:        userID,
	}
}
