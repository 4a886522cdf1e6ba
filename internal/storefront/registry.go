package storefront

import (
	"sync"

	"neogaming/internal/models"
)

// Registry is the single source of products for display and checkout,
// keyed by id.
type Registry struct {
	mu     sync.RWMutex
	byID   map[uint]models.Product
	loaded []uint // catalog order
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[uint]models.Product)}
}

// Replace swaps the catalog for products, dropping everything else.
func (r *Registry) Replace(products []models.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID = make(map[uint]models.Product, len(products))
	r.loaded = r.loaded[:0]
	for _, p := range products {
		if _, dup := r.byID[p.ID]; !dup {
			r.loaded = append(r.loaded, p.ID)
		}
		r.byID[p.ID] = p
	}
}

// Add makes products resolvable without listing them in the catalog and
// returns them as registered. A product never replaces a different one: on
// an id clash it moves to the next free id. Adding the same product (same
// name and category) again reuses its entry.
func (r *Registry) Add(products ...models.Product) []models.Product {
	r.mu.Lock()
	defer r.mu.Unlock()

	added := make([]models.Product, 0, len(products))
	for _, p := range products {
		for {
			existing, taken := r.byID[p.ID]
			if !taken {
				r.byID[p.ID] = p
				break
			}
			if existing.Name == p.Name && existing.Category == p.Category {
				p = existing
				break
			}
			p.ID++
		}
		added = append(added, p)
	}
	return added
}

// Lookup returns the product with id.
func (r *Registry) Lookup(id uint) (models.Product, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byID[id]
	return p, ok
}

// Catalog returns the loaded products in load order.
func (r *Registry) Catalog() []models.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Product, 0, len(r.loaded))
	for _, id := range r.loaded {
		out = append(out, r.byID[id])
	}
	return out
}

// Len is the number of catalog products.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.loaded)
}
