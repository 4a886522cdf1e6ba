package services

import (
	"fmt"

	"go.uber.org/zap"

	"neogaming/internal/models"
	"neogaming/internal/repositories"
)

// ProductService handles business logic related to products.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// GetAllProducts retrieves all products, newest first.
func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	return s.repo.GetAll()
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id uint) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// GetProductsByCategory retrieves the products with exactly this category.
func (s *ProductService) GetProductsByCategory(category string) ([]models.Product, error) {
	return s.repo.GetByCategory(category)
}

// ListCategories returns the distinct product categories.
func (s *ProductService) ListCategories() ([]string, error) {
	return s.repo.ListCategories()
}

// SeedIfEmpty inserts products when the catalog has none and reports how
// many were inserted. IDs are left to the database.
func (s *ProductService) SeedIfEmpty(products []models.Product) (int, error) {
	n, err := s.repo.Count()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}

	for i := range products {
		p := products[i]
		p.ID = 0
		if err := s.repo.Create(&p); err != nil {
			return i, fmt.Errorf("failed to seed %q: %w", p.Name, err)
		}
	}
	zap.S().Infof("seeded %d example products", len(products))
	return len(products), nil
}
