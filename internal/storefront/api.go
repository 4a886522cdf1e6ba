package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"neogaming/internal/models"
	"neogaming/internal/upstream"
)

// APIError is an error answer from the storefront API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// asAPIError extracts the {"error": "..."} message of a failed call.
func asAPIError(err error) error {
	var statusErr *upstream.StatusError
	if !errors.As(err, &statusErr) {
		return err
	}
	var body struct {
		Error string `json:"error"`
	}
	msg := strings.TrimSpace(statusErr.Body)
	if json.Unmarshal([]byte(statusErr.Body), &body) == nil && body.Error != "" {
		msg = body.Error
	}
	return &APIError{Status: statusErr.Code, Message: msg}
}

// wireProduct accepts prices encoded as numbers or strings (DECIMAL columns
// come back as strings from some drivers).
type wireProduct struct {
	models.Product
	Price any `json:"price"`
}

func decodeProducts(body []byte) ([]models.Product, error) {
	var wire []wireProduct
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	products := make([]models.Product, 0, len(wire))
	for _, w := range wire {
		p := w.Product
		p.Price = models.CoercePrice(w.Price)
		products = append(products, p)
	}
	return products, nil
}

// LoadProducts fetches the catalog and replaces the registry with it.
// The fetch is bounded by ProductFetchTimeout.
func (c *Client) LoadProducts(ctx context.Context) ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.ProductFetchTimeout)
	defer cancel()

	products, err := c.fetchProducts(ctx)
	source := SourceAPI
	if err != nil {
		if c.cfg.Fallback != FallbackExamples {
			c.mu.Lock()
			c.state.ProductsErr = err
			c.state.Source = SourceNone
			c.state.Products = nil
			c.mu.Unlock()
			return nil, err
		}
		zap.S().Warnf("catalog unavailable, showing example products: %v", err)
		products, source = models.ExampleProducts(), SourceExamples
	}

	c.registry.Replace(products)

	c.mu.Lock()
	c.state.ProductsErr = nil
	c.state.Source = source
	c.state.Products = c.displayLocked()
	c.mu.Unlock()
	return products, nil
}

func (c *Client) fetchProducts(ctx context.Context) ([]models.Product, error) {
	body, err := c.api.Get(ctx, c.cfg.BaseURL+"/products", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", asAPIError(err))
	}
	return decodeProducts(body)
}

// Register creates an account and returns the new user id.
func (c *Client) Register(ctx context.Context, username, email, password string) (uint, error) {
	body, err := c.api.PostJSON(ctx, c.cfg.BaseURL+"/auth/register", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
	if err != nil {
		return 0, asAPIError(err)
	}
	var resp struct {
		UserID uint `json:"userId"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, fmt.Errorf("failed to decode register response: %w", err)
	}
	return resp.UserID, nil
}

// Login authenticates and stores the user in session storage.
func (c *Client) Login(ctx context.Context, email, password string) (*models.PublicUser, error) {
	body, err := c.api.PostJSON(ctx, c.cfg.BaseURL+"/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, asAPIError(err)
	}
	var resp struct {
		User models.PublicUser `json:"user"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode login response: %w", err)
	}

	raw, err := json.Marshal(resp.User)
	if err != nil {
		return nil, err
	}
	c.storage.Set(KeyUser, string(raw))
	c.storage.Set(KeyLoggedIn, loggedInValue)
	return &resp.User, nil
}

// Logout forgets the stored user. Purchase history is kept.
func (c *Client) Logout() {
	c.storage.Remove(KeyUser)
	c.storage.Remove(KeyLoggedIn)
}

// CurrentUser returns the logged-in user, if any.
func (c *Client) CurrentUser() (*models.PublicUser, bool) {
	if v, _ := c.storage.Get(KeyLoggedIn); v != loggedInValue {
		return nil, false
	}
	raw, ok := c.storage.Get(KeyUser)
	if !ok {
		return nil, false
	}
	var user models.PublicUser
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		zap.S().Warnf("ignoring corrupt stored user: %v", err)
		return nil, false
	}
	return &user, true
}
