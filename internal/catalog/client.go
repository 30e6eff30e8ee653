// Package catalog reads products and categories from the remote product API.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"verideal_back_end/internal/cache"
	"verideal_back_end/internal/models"

	"github.com/shopspring/decimal"
)

// SearchIndex is the optional full-text index (services.ProductIndex).
type SearchIndex interface {
	Search(ctx context.Context, q string) ([]models.Product, error)
	IndexProducts(ctx context.Context, products []models.Product) (int, error)
}

type Client struct {
	baseURL  string
	http     *http.Client
	cache    *cache.Store
	cacheTTL time.Duration
	index    SearchIndex
}

type Option func(*Client)

func WithCache(store *cache.Store, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = store
		c.cacheTTL = ttl
	}
}

func WithIndex(index SearchIndex) Option {
	return func(c *Client) { c.index = index }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// apiProduct is the wire shape; some catalogs send "title", others "name".
type apiProduct struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	Category    string          `json:"category"`
	SubCategory string          `json:"subCategory"`
	Rating      *struct {
		Rate  float64 `json:"rate"`
		Count int     `json:"count"`
	} `json:"rating"`
}

func (p apiProduct) normalize() models.Product {
	name := p.Title
	if name == "" {
		name = p.Name
	}
	out := models.Product{
		ID:          p.ID,
		Name:        name,
		Price:       p.Price,
		Description: p.Description,
		Image:       p.Image,
		Category:    p.Category,
		SubCategory: p.SubCategory,
	}
	if p.Rating != nil {
		out.Rating = models.RatingState{Rate: p.Rating.Rate, Count: p.Rating.Count}
	}
	return out
}

func (c *Client) getJSON(ctx context.Context, path string, dst interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("catalog request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("catalog %s: status %d: %w", path, resp.StatusCode, models.ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("catalog %s: status %d", path, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("catalog %s: read: %w", path, err)
	}
	// The public API answers 200 with an empty body for unknown ids.
	if len(bytes.TrimSpace(body)) == 0 {
		return fmt.Errorf("catalog %s: empty response: %w", path, models.ErrNotFound)
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("catalog %s: decode: %w", path, err)
	}
	return nil
}

func (c *Client) fetchProducts(ctx context.Context, path string) ([]models.Product, error) {
	var raw []apiProduct
	if err := c.getJSON(ctx, path, &raw); err != nil {
		return nil, err
	}
	products := make([]models.Product, 0, len(raw))
	for _, p := range raw {
		products = append(products, p.normalize())
	}
	return products, nil
}

func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	return cache.Remember(ctx, c.cache, "catalog:products", c.cacheTTL, func(ctx context.Context) ([]models.Product, error) {
		return c.fetchProducts(ctx, "/products")
	})
}

func (c *Client) GetProduct(ctx context.Context, id int64) (models.Product, error) {
	key := "catalog:product:" + strconv.FormatInt(id, 10)
	return cache.Remember(ctx, c.cache, key, c.cacheTTL, func(ctx context.Context) (models.Product, error) {
		var raw *apiProduct
		if err := c.getJSON(ctx, "/products/"+strconv.FormatInt(id, 10), &raw); err != nil {
			return models.Product{}, err
		}
		if raw == nil || raw.ID == 0 {
			return models.Product{}, fmt.Errorf("product %d: %w", id, models.ErrNotFound)
		}
		return raw.normalize(), nil
	})
}

// ListByCategory tags every product with the requested category.
func (c *Client) ListByCategory(ctx context.Context, category string) ([]models.Product, error) {
	key := "catalog:category:" + category
	return cache.Remember(ctx, c.cache, key, c.cacheTTL, func(ctx context.Context) ([]models.Product, error) {
		products, err := c.fetchProducts(ctx, "/products/category/"+url.PathEscape(category))
		if err != nil {
			return nil, err
		}
		for i := range products {
			products[i].Category = category
		}
		return products, nil
	})
}

// ListBySubCategory filters a category's products on subCategory, case-insensitively.
func (c *Client) ListBySubCategory(ctx context.Context, category, subCategory string) ([]models.Product, error) {
	products, err := c.ListByCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	out := []models.Product{}
	for _, p := range products {
		if p.SubCategory != "" && strings.EqualFold(p.SubCategory, subCategory) {
			out = append(out, p)
		}
	}
	return out, nil
}

// ListCategories never fails: when the remote call does, the built-in list is returned.
func (c *Client) ListCategories(ctx context.Context) []models.Category {
	categories, err := cache.Remember(ctx, c.cache, "catalog:categories", c.cacheTTL, c.fetchCategories)
	if err != nil {
		log.Printf("⚠️ Catalog categories unavailable, using fallback list: %v", err)
		return FallbackCategories()
	}
	return categories
}

func (c *Client) fetchCategories(ctx context.Context) ([]models.Category, error) {
	var names []string
	if err := c.getJSON(ctx, "/products/categories", &names); err != nil {
		return nil, err
	}

	categories := make([]models.Category, 0, len(names))
	for _, name := range names {
		id := slug(name)
		cat := models.Category{
			ID:            id,
			Name:          name,
			Image:         c.baseURL + "/images/categories/" + id + ".jpg",
			SubCategories: []models.SubCategory{},
		}

		var subs []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		}
		if err := c.getJSON(ctx, "/categories/"+url.PathEscape(name)+"/subcategories", &subs); err == nil {
			for _, s := range subs {
				subID := s.ID
				if subID == "" {
					subID = slug(s.Name)
				}
				cat.SubCategories = append(cat.SubCategories, models.SubCategory{ID: subID, Name: s.Name})
			}
		}
		categories = append(categories, cat)
	}
	return categories, nil
}

func slug(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "_")
}
