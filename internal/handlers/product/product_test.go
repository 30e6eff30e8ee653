package product

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"verideal_back_end/internal/catalog"
	"verideal_back_end/internal/middleware"
	"verideal_back_end/internal/models"
	"verideal_back_end/internal/rating"
	"verideal_back_end/internal/store/storetest"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeCatalog struct {
	products []models.Product
	down     bool
	indexed  int
}

func (f *fakeCatalog) ListProducts(context.Context) ([]models.Product, error) {
	if f.down {
		return nil, errors.New("catalog returned 503")
	}
	return f.products, nil
}

func (f *fakeCatalog) GetProduct(_ context.Context, id int64) (models.Product, error) {
	for _, p := range f.products {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Product{}, fmt.Errorf("product %d: %w", id, models.ErrNotFound)
}

func (f *fakeCatalog) ListByCategory(_ context.Context, category string) ([]models.Product, error) {
	out := []models.Product{}
	for _, p := range f.products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeCatalog) ListBySubCategory(ctx context.Context, category, sub string) ([]models.Product, error) {
	products, _ := f.ListByCategory(ctx, category)
	out := []models.Product{}
	for _, p := range products {
		if strings.EqualFold(p.SubCategory, sub) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeCatalog) ListCategories(context.Context) []models.Category {
	return catalog.FallbackCategories()
}

func (f *fakeCatalog) Search(_ context.Context, q string) ([]models.Product, error) {
	return catalog.FilterProducts(f.products, q), nil
}

func (f *fakeCatalog) Reindex(context.Context) (int, error) {
	f.indexed = len(f.products)
	return f.indexed, nil
}

func sampleCatalog() *fakeCatalog {
	return &fakeCatalog{products: []models.Product{
		{ID: 1, Name: "Fjallraven Backpack", Price: decimal.RequireFromString("109.95"), Category: "men's clothing", Rating: models.RatingState{Rate: 3.9, Count: 120}},
		{ID: 2, Name: "Solid Gold Ring", Price: decimal.RequireFromString("168"), Category: "jewelery", SubCategory: "rings"},
	}}
}

func newRouter(cat *fakeCatalog, userID string) (*gin.Engine, *rating.Aggregator) {
	agg := rating.NewAggregator(storetest.NewReviews(), storetest.NewRatings(), cat)
	products := NewHandler(cat, agg)
	reviews := NewReviewHandler(agg)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != "" {
			c.Set(middleware.ContextUserID, userID)
		}
	})
	r.GET("/api/products", products.ListProducts)
	r.GET("/api/products/categories", products.ListCategories)
	r.GET("/api/products/:id", products.GetProduct)
	r.GET("/api/products/:id/rating", reviews.GetRating)
	r.GET("/api/products/:id/review", reviews.GetReview)
	r.POST("/api/products/:id/review", reviews.SubmitReview)
	r.DELETE("/api/products/:id/review", reviews.RetractReview)
	r.GET("/api/search", products.Search)
	r.POST("/api/admin/reindex", products.Reindex)
	return r, agg
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

func TestListProducts(t *testing.T) {
	r, _ := newRouter(sampleCatalog(), "")

	w := do(r, http.MethodGet, "/api/products", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":2`)

	w = do(r, http.MethodGet, "/api/products?category=jewelery", "")
	assert.Contains(t, w.Body.String(), `"count":1`)

	w = do(r, http.MethodGet, "/api/products?category=jewelery&subCategory=RINGS", "")
	assert.Contains(t, w.Body.String(), "Solid Gold Ring")
}

func TestListProducts_CatalogDown(t *testing.T) {
	cat := sampleCatalog()
	cat.down = true
	r, _ := newRouter(cat, "")

	w := do(r, http.MethodGet, "/api/products", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "catalog returned 503")
}

func TestGetProduct(t *testing.T) {
	r, _ := newRouter(sampleCatalog(), "")

	w := do(r, http.MethodGet, "/api/products/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	var p models.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, "Fjallraven Backpack", p.Name)
	assert.Equal(t, 120, p.Rating.Count)

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/products/99", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/api/products/abc", "").Code)
}

func TestListCategories(t *testing.T) {
	r, _ := newRouter(sampleCatalog(), "")
	w := do(r, http.MethodGet, "/api/products/categories", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "electronics")
}

func TestSearch(t *testing.T) {
	r, _ := newRouter(sampleCatalog(), "")

	w := do(r, http.MethodGet, "/api/search?q=ring", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":1`)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/api/search?q=", "").Code)
}

func TestReindex(t *testing.T) {
	cat := sampleCatalog()
	r, _ := newRouter(cat, "admin")
	w := do(r, http.MethodPost, "/api/admin/reindex", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, cat.indexed)
}

func TestReview_SubmitThenRetract(t *testing.T) {
	r, _ := newRouter(sampleCatalog(), "user-1")

	w := do(r, http.MethodGet, "/api/products/1/review", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"reviewed":false`)

	w = do(r, http.MethodPost, "/api/products/1/review", `{"rating":5,"experience":"Great bag"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"count":121`)

	w = do(r, http.MethodPost, "/api/products/1/review", `{"rating":4,"experience":"Again"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(r, http.MethodGet, "/api/products/1/review", "")
	assert.Contains(t, w.Body.String(), "Great bag")

	w = do(r, http.MethodDelete, "/api/products/1/review", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":120`)

	w = do(r, http.MethodDelete, "/api/products/1/review", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReview_Invalid(t *testing.T) {
	r, _ := newRouter(sampleCatalog(), "user-1")

	w := do(r, http.MethodPost, "/api/products/1/review", `{"rating":6,"experience":"x"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(r, http.MethodPost, "/api/products/1/review", `{"rating":3,"experience":"   "}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(r, http.MethodPost, "/api/products/1/review", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReview_RequiresUser(t *testing.T) {
	r, _ := newRouter(sampleCatalog(), "")
	w := do(r, http.MethodPost, "/api/products/1/review", `{"rating":5,"experience":"ok"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"redirect":"/login"`)
}

func TestGetRating(t *testing.T) {
	r, _ := newRouter(sampleCatalog(), "")
	w := do(r, http.MethodGet, "/api/products/1/rating", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"stars":4`)
}
