package storefront

import (
	"fmt"
	"hash/fnv"

	"neogaming/internal/geo"
	"neogaming/internal/models"
)

// GeneratedIDBase is the first id used for generated products; real catalog
// ids stay below it.
const GeneratedIDBase uint = 900000

// CategoryPage is a category view: up to three products plus a header.
type CategoryPage struct {
	Category    string           `json:"category"`
	Icon        string           `json:"icon"`
	Description string           `json:"description"`
	Products    []models.Product `json:"products"`
	// Fallback is set when the catalog had no products in the category and
	// generated ones are shown instead.
	Fallback bool `json:"fallback"`
}

// FilterByCategory returns exactly the products whose category equals
// category, in input order.
func FilterByCategory(products []models.Product, category string) []models.Product {
	var out []models.Product
	for _, p := range products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

var generatedTitles = map[string][3]string{
	"Shooter / FPS":           {"Tactical Ops: Frontline", "Neon Strike Arena", "Squad Zero Recon"},
	"RPG / Fantasía":          {"Chronicles of Eldermoor", "The Last Runekeeper", "Shards of Aether"},
	"Deportes / Carreras":     {"Turbo Circuit Pro", "Street League Legends", "Rally Horizon Extreme"},
	"Estrategia / Simulación": {"Empire Architect", "Colony Frontier", "Supply Line Tycoon"},
	"Terror / Suspenso":       {"Whispers in the Ward", "The Hollow House", "Static Signal"},
	"Indie / Creativos":       {"Paper Lanterns", "Pixel Garden", "Tiny Cartographer"},
}

var generatedPrices = [3]float64{29.99, 39.99, 49.99}

func generatedBase(category string) uint {
	h := fnv.New32a()
	h.Write([]byte(category))
	return GeneratedIDBase + uint(h.Sum32()%10000)*10
}

// GenerateCategoryProducts builds three stand-in products for a category
// that has none in the catalog. The result is deterministic per category.
func GenerateCategoryProducts(category string) []models.Product {
	titles, ok := generatedTitles[category]
	if !ok {
		titles = [3]string{category + " Essentials", category + " Deluxe", category + " Collection"}
	}
	base := generatedBase(category)

	products := make([]models.Product, 0, len(titles))
	for i, title := range titles {
		products = append(products, models.Product{
			ID:          base + uint(i),
			Name:        title,
			Description: fmt.Sprintf("A hand-picked %s title.", category),
			Price:       generatedPrices[i],
			Category:    category,
		})
	}
	return products
}

// ShowCategory switches to the category page for category. Generated
// products are registered so they can be opened and bought.
func (c *Client) ShowCategory(category string) CategoryPage {
	products := FilterByCategory(c.registry.Catalog(), category)
	page := CategoryPage{
		Category:    category,
		Icon:        CategoryIcon(category),
		Description: CategoryDescription(category),
	}
	if len(products) == 0 {
		products = c.registry.Add(GenerateCategoryProducts(category)...)
		page.Fallback = true
	}
	if len(products) > geo.CategoryLimit {
		products = products[:geo.CategoryLimit]
	}
	page.Products = products

	c.mu.Lock()
	c.state.View = ViewCategory
	c.state.Category = &page
	c.mu.Unlock()
	return page
}

// ReturnHome leaves the category or success view.
func (c *Client) ReturnHome() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.View = ViewHome
	c.state.Category = nil
	c.state.Products = c.displayLocked()
}
