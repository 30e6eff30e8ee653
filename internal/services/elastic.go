package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"

	"verideal_back_end/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// ProductIndex is the Elasticsearch search index over catalog products.
type ProductIndex struct {
	es    *elasticsearch.Client
	index string
}

func NewProductIndex(es *elasticsearch.Client, index string) *ProductIndex {
	if es == nil {
		return nil
	}
	return &ProductIndex{es: es, index: index}
}

//
// --- INDEXING ---
//

// IndexProducts writes every product with a single bulk request.
func (p *ProductIndex) IndexProducts(ctx context.Context, products []models.Product) (int, error) {
	if len(products) == 0 {
		return 0, nil
	}

	var buf bytes.Buffer
	for _, product := range products {
		meta := map[string]interface{}{
			"index": map[string]interface{}{"_index": p.index, "_id": strconv.FormatInt(product.ID, 10)},
		}
		if err := json.NewEncoder(&buf).Encode(meta); err != nil {
			return 0, err
		}
		if err := json.NewEncoder(&buf).Encode(product); err != nil {
			return 0, err
		}
	}

	req := esapi.BulkRequest{
		Body:    &buf,
		Refresh: "true",
	}
	res, err := req.Do(ctx, p.es)
	if err != nil {
		return 0, fmt.Errorf("elastic bulk request: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, fmt.Errorf("elastic bulk: %s", res.String())
	}

	var r struct {
		Errors bool `json:"errors"`
		Items  []map[string]struct {
			Status int `json:"status"`
		} `json:"items"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, fmt.Errorf("elastic bulk decode: %w", err)
	}

	indexed := 0
	for _, item := range r.Items {
		for _, op := range item {
			if op.Status < 300 {
				indexed++
			}
		}
	}
	if r.Errors {
		log.Printf("⚠️ Elastic bulk indexed %d/%d products", indexed, len(products))
	} else {
		log.Printf("✅ %d products indexed in Elasticsearch", indexed)
	}
	return indexed, nil
}

//
// --- SEARCH ---
//

// Search matches q against name, description and category.
func (p *ProductIndex) Search(ctx context.Context, q string) ([]models.Product, error) {
	var buf bytes.Buffer
	query := map[string]interface{}{
		"size": 100,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"should": []interface{}{
					map[string]interface{}{
						"multi_match": map[string]interface{}{
							"query":     q,
							"fields":    []string{"name^3", "description", "category^2"},
							"fuzziness": "AUTO",
						},
					},
					map[string]interface{}{
						"term": map[string]interface{}{"category.keyword": q},
					},
				},
			},
		},
	}
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	req := esapi.SearchRequest{
		Index: []string{p.index},
		Body:  &buf,
	}
	res, err := req.Do(ctx, p.es)
	if err != nil {
		return nil, fmt.Errorf("elastic request: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		log.Printf("❌ Elasticsearch error: %s", res.String())
		return nil, errors.New("index missing or empty")
	}

	var r struct {
		Hits struct {
			Hits []struct {
				Source models.Product `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode elastic response: %w", err)
	}

	results := make([]models.Product, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		results = append(results, hit.Source)
	}
	return results, nil
}
