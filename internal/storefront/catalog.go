package storefront

import (
	"fmt"

	"neogaming/internal/checkout"
	"neogaming/internal/models"
)

const defaultCategoryIcon = "🎮"

var categoryIcons = map[string]string{
	"Shooter / FPS":           "🔫",
	"RPG / Fantasía":          "⚔️",
	"Deportes / Carreras":     "🎯",
	"Estrategia / Simulación": "🗺️",
	"Terror / Suspenso":       "👻",
	"Indie / Creativos":       "🎨",
}

var categoryDescriptions = map[string]string{
	"Shooter / FPS":           "Pure adrenaline with the best first-person shooters. Intense firefights, varied arsenals and non-stop action.",
	"RPG / Fantasía":          "Dive into fantastic worlds full of epic quests, powerful magic and unforgettable characters.",
	"Deportes / Carreras":     "Feel the speed and the competition with ultra-realistic sports simulators and racing games.",
	"Estrategia / Simulación": "Put your tactical mind to the test building empires, managing resources and conquering territory.",
	"Terror / Suspenso":       "Chilling experiences that will test your nerves and speed up your heart.",
	"Indie / Creativos":       "Creative, innovative gems from independent developers with unique visions.",
}

// CategoryIcon returns the icon shown next to a category name.
func CategoryIcon(category string) string {
	if icon, ok := categoryIcons[category]; ok {
		return icon
	}
	return defaultCategoryIcon
}

// CategoryDescription returns the blurb of a category page.
func CategoryDescription(category string) string {
	if d, ok := categoryDescriptions[category]; ok {
		return d
	}
	return "Explore a carefully curated selection of the best games in this category."
}

// FormatPrice renders a price with two decimals and the currency suffix.
func FormatPrice(price float64) string {
	return fmt.Sprintf("%.2f %s", models.CoercePrice(price), checkout.Currency)
}

// ProductDetail is the content of the product modal.
type ProductDetail struct {
	Product      models.Product `json:"product"`
	PriceLabel   string         `json:"price_label"`
	CategoryIcon string         `json:"category_icon"`
	// PaymentContainerID is where the payment form is rendered.
	PaymentContainerID string `json:"payment_container_id"`
}

func newProductDetail(p models.Product) *ProductDetail {
	p.Price = p.SafePrice()
	return &ProductDetail{
		Product:            p,
		PriceLabel:         FormatPrice(p.Price),
		CategoryIcon:       CategoryIcon(p.Category),
		PaymentContainerID: checkout.ContainerID(p.ID),
	}
}

// displayLocked returns the home grid. c.mu must be held.
func (c *Client) displayLocked() []models.Product {
	catalog := c.registry.Catalog()
	if len(catalog) > c.cfg.DisplayLimit {
		catalog = catalog[:c.cfg.DisplayLimit]
	}
	return catalog
}

// DisplayProducts returns the cards of the home grid, at most DisplayLimit.
func (c *Client) DisplayProducts() []models.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.displayLocked()
}

// ShowAllProducts returns to the home view listing the whole catalog.
func (c *Client) ShowAllProducts() []models.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.View = ViewHome
	c.state.Category = nil
	c.state.Products = c.registry.Catalog()
	return c.state.Products
}

// OpenProduct opens the product modal for id.
func (c *Client) OpenProduct(id uint) (*ProductDetail, error) {
	p, ok := c.registry.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %d", checkout.ErrProductNotFound, id)
	}
	detail := newProductDetail(p)

	c.mu.Lock()
	c.state.Modal = detail
	c.mu.Unlock()
	return detail, nil
}

// CloseProduct closes the product modal, abandoning any open payment form.
func (c *Client) CloseProduct() {
	if c.session.State() == checkout.FormShown {
		// Cancel only fails outside FormShown.
		_ = c.session.Cancel()
	}
	c.mu.Lock()
	c.state.Modal = nil
	c.mu.Unlock()
}
