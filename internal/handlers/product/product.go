package product

import (
	"context"
	"log"
	"net/http"
	"strings"

	"verideal_back_end/internal/handlers"
	"verideal_back_end/internal/middleware"
	"verideal_back_end/internal/models"

	"github.com/gin-gonic/gin"
)

// Catalog is the remote product catalog.
type Catalog interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id int64) (models.Product, error)
	ListByCategory(ctx context.Context, category string) ([]models.Product, error)
	ListBySubCategory(ctx context.Context, category, subCategory string) ([]models.Product, error)
	ListCategories(ctx context.Context) []models.Category
	Search(ctx context.Context, q string) ([]models.Product, error)
	Reindex(ctx context.Context) (int, error)
}

// RatingReader returns a product's live rating.
type RatingReader interface {
	CurrentState(ctx context.Context, productID int64) (models.RatingState, error)
}

type Handler struct {
	catalog Catalog
	ratings RatingReader
}

func NewHandler(catalog Catalog, ratings RatingReader) *Handler {
	return &Handler{catalog: catalog, ratings: ratings}
}

//
// 🟢 GET /api/products?category=&subCategory=
//
func (h *Handler) ListProducts(c *gin.Context) {
	ctx := c.Request.Context()
	category := strings.TrimSpace(c.Query("category"))
	sub := strings.TrimSpace(c.Query("subCategory"))

	var (
		products []models.Product
		err      error
	)
	switch {
	case category != "" && sub != "":
		products, err = h.catalog.ListBySubCategory(ctx, category, sub)
	case category != "":
		products, err = h.catalog.ListByCategory(ctx, category)
	default:
		products, err = h.catalog.ListProducts(ctx)
	}
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products, "count": len(products)})
}

//
// 🟢 GET /api/products/:id
//
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := handlers.ProductID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	p, err := h.catalog.GetProduct(ctx, id)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	if h.ratings != nil {
		if state, err := h.ratings.CurrentState(ctx, id); err == nil {
			p.Rating = state
		} else {
			log.Printf("⚠️ Rating for product %d unavailable: %v", id, err)
		}
	}
	c.JSON(http.StatusOK, p)
}

//
// 🟢 GET /api/products/categories
//
func (h *Handler) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.ListCategories(c.Request.Context()))
}

//
// 🔍 GET /api/search?q=
//
func (h *Handler) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter 'q' is required"})
		return
	}
	results, err := h.catalog.Search(c.Request.Context(), q)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"query": q, "results": results, "count": len(results)})
}

//
// 🔄 POST /api/admin/reindex
//
func (h *Handler) Reindex(c *gin.Context) {
	n, err := h.catalog.Reindex(c.Request.Context())
	if err != nil {
		handlers.Error(c, err)
		return
	}
	log.Printf("🔄 Search index rebuilt by %s (%d products)", c.GetString(middleware.ContextUserID), n)
	c.JSON(http.StatusOK, gin.H{"indexed": n})
}
