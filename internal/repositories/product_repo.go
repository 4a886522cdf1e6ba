package repositories

import (
	"neogaming/internal/models"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	// GetAll returns every product, newest first.
	GetAll() ([]models.Product, error)
	GetByID(id uint) (*models.Product, error)
	// GetByCategory returns the products of one category, newest first.
	GetByCategory(category string) ([]models.Product, error)
	// ListCategories returns the distinct categories in alphabetical order.
	ListCategories() ([]string, error)
	Create(product *models.Product) error
	Count() (int64, error)
}
