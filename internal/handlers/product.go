package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/prudhivi99/shopsys-go/internal/db"
	"github.com/prudhivi99/shopsys-go/internal/models"
)

type ProductStore interface {
	GetAll() ([]models.Product, error)
	GetByID(id int) (*models.Product, error)
	Create(req models.CreateProductRequest) (*models.Product, error)
	Delete(id int) error
}

// ProductCache is satisfied by cache.Cache. A nil cache disables caching.
type ProductCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}) error
	Delete(ctx context.Context, key string) error
}

type ProductHandler struct {
	repo  ProductStore
	cache ProductCache
}

func NewProductHandler(repo ProductStore, cache ProductCache) *ProductHandler {
	return &ProductHandler{
		repo:  repo,
		cache: cache,
	}
}

func productKey(id int) string {
	return fmt.Sprintf("product:%d", id)
}

func allProductsKey() string {
	return "products:all"
}

// HealthCheck returns server status
func (h *ProductHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "api-server"})
}

// ListProducts returns all products, serving from cache when possible
func (h *ProductHandler) ListProducts(c *gin.Context) {
	ctx := c.Request.Context()

	if h.cache != nil {
		var cached []models.Product
		if err := h.cache.Get(ctx, allProductsKey(), &cached); err == nil {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	products, err := h.repo.GetAll()
	if err != nil {
		log.Printf("❌ Failed to list products: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list products"})
		return
	}
	if products == nil {
		products = []models.Product{}
	}

	if h.cache != nil {
		if err := h.cache.Set(ctx, allProductsKey(), products); err != nil {
			log.Printf("⚠️ Failed to cache products: %v", err)
		}
	}

	c.JSON(http.StatusOK, products)
}

// GetProduct returns a single product
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
		return
	}

	product, err := h.repo.GetByID(id)
	if err != nil {
		log.Printf("❌ Failed to get product %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get product"})
		return
	}

	if product == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}

	c.JSON(http.StatusOK, product)
}

// CreateProduct inserts a new product and invalidates the list cache
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.repo.Create(req)
	if err != nil {
		log.Printf("❌ Failed to create product: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create product"})
		return
	}

	h.invalidate(c.Request.Context(), allProductsKey())

	c.JSON(http.StatusCreated, product)
}

// DeleteProduct removes a product and invalidates caches
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
		return
	}

	if err := h.repo.Delete(id); err != nil {
		if errors.Is(err, db.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		log.Printf("❌ Failed to delete product %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete product"})
		return
	}

	h.invalidate(c.Request.Context(), productKey(id), allProductsKey())

	c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
}

func (h *ProductHandler) invalidate(ctx context.Context, keys ...string) {
	if h.cache == nil {
		return
	}
	for _, key := range keys {
		if err := h.cache.Delete(ctx, key); err != nil {
			log.Printf("⚠️ Failed to invalidate cache key %s: %v", key, err)
		}
	}
}
