package catalog

import (
	"context"
	"log"
	"strings"

	"verideal_back_end/internal/models"
)

// Search asks the index first and falls back to scanning the full catalog.
func (c *Client) Search(ctx context.Context, q string) ([]models.Product, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []models.Product{}, nil
	}

	if c.index != nil {
		results, err := c.index.Search(ctx, q)
		if err == nil {
			return results, nil
		}
		log.Printf("⚠️ Search index failed, scanning catalog: %v", err)
	}

	products, err := c.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	return FilterProducts(products, q), nil
}

// FilterProducts keeps products whose category equals q or whose name contains q, ignoring case.
func FilterProducts(products []models.Product, q string) []models.Product {
	lower := strings.ToLower(q)
	out := []models.Product{}
	for _, p := range products {
		if strings.ToLower(p.Category) == lower || strings.Contains(strings.ToLower(p.Name), lower) {
			out = append(out, p)
		}
	}
	return out
}

// Reindex pushes the whole catalog into the search index.
func (c *Client) Reindex(ctx context.Context) (int, error) {
	if c.index == nil {
		return 0, models.ErrNotConfigured
	}
	products, err := c.ListProducts(ctx)
	if err != nil {
		return 0, err
	}
	return c.index.IndexProducts(ctx, products)
}
