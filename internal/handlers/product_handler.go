package handlers

import (
	"errors"
	"net/url"
	"strconv"

	"neogaming/internal/models"
	"neogaming/internal/repositories"
	"neogaming/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const msgProductNotFound = "Product not found"

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	productService *services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(productService *services.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleList)
	productRoutes.Get("/categories/list", h.HandleCategories)
	productRoutes.Get("/category/:category", h.HandleByCategory)
	productRoutes.Get("/:id", h.HandleGet)
}

// HandleList returns every product, newest first.
func (h *ProductHandler) HandleList(c *fiber.Ctx) error {
	products, err := h.productService.GetAllProducts()
	if err != nil {
		zap.S().Errorf("error getting products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": msgInternal})
	}
	return c.JSON(nonNil(products))
}

// HandleGet returns a single product.
func (h *ProductHandler) HandleGet(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": msgProductNotFound})
	}

	product, err := h.productService.GetProductByID(uint(id))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": msgProductNotFound})
		}
		zap.S().Errorf("error getting product %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": msgInternal})
	}
	return c.JSON(product)
}

// HandleByCategory returns the products of one category.
func (h *ProductHandler) HandleByCategory(c *fiber.Ctx) error {
	category, err := decodeParam(c.Params("category"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid category"})
	}

	products, err := h.productService.GetProductsByCategory(category)
	if err != nil {
		zap.S().Errorf("error getting products for category %q: %v", category, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": msgInternal})
	}
	return c.JSON(nonNil(products))
}

// HandleCategories returns the distinct categories.
func (h *ProductHandler) HandleCategories(c *fiber.Ctx) error {
	categories, err := h.productService.ListCategories()
	if err != nil {
		zap.S().Errorf("error listing categories: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": msgInternal})
	}
	if categories == nil {
		categories = []string{}
	}
	return c.JSON(categories)
}

func nonNil(products []models.Product) []models.Product {
	if products == nil {
		return []models.Product{}
	}
	return products
}

// decodeParam unescapes a route parameter; categories such as
// "Shooter / FPS" arrive percent-encoded.
func decodeParam(raw string) (string, error) {
	return url.PathUnescape(raw)
}
