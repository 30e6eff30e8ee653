package services

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"verideal_back_end/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIndex(t *testing.T, handler http.HandlerFunc) *ProductIndex {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return NewProductIndex(es, "products")
}

func TestNewProductIndex_NilClient(t *testing.T) {
	assert.Nil(t, NewProductIndex(nil, "products"))
}

func TestProductIndex_IndexProducts(t *testing.T) {
	var lines []string
	idx := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/_bulk", r.URL.Path)
		sc := bufio.NewScanner(r.Body)
		for sc.Scan() {
			lines = append(lines, sc.Text())
		}
		w.Write([]byte(`{"errors":false,"items":[{"index":{"status":201}},{"index":{"status":201}}]}`))
	})

	n, err := idx.IndexProducts(context.Background(), []models.Product{
		{ID: 1, Name: "Backpack", Price: decimal.RequireFromString("109.95")},
		{ID: 2, Name: "T-shirt", Price: decimal.RequireFromString("22.3")},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], `"_id":"1"`)
	assert.Contains(t, lines[1], `"name":"Backpack"`)
}

func TestProductIndex_IndexProducts_Empty(t *testing.T) {
	idx := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})
	n, err := idx.IndexProducts(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestProductIndex_Search(t *testing.T) {
	idx := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.URL.Path, "/products/_search"))
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Contains(t, body, "query")
		w.Write([]byte(`{"hits":{"hits":[{"_source":{"id":3,"name":"Mens Cotton Jacket","price":"55.99","category":"men's clothing"}}]}}`))
	})

	results, err := idx.Search(context.Background(), "jacket")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, int64(3), results[0].ID)
	assert.Equal(t, "55.99", results[0].Price.StringFixed(2))
}

func TestProductIndex_Search_MissingIndex(t *testing.T) {
	idx := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":{"type":"index_not_found_exception"},"status":404}`))
	})
	_, err := idx.Search(context.Background(), "jacket")
	assert.Error(t, err)
}
