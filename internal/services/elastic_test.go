package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storefront_back_end/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gocql/gocql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIndex(t *testing.T, h http.HandlerFunc) *ProductIndex {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		h(w, r)
	}))
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return NewProductIndex(es, "products")
}

func TestProductIndex_Search(t *testing.T) {
	a, b := gocql.TimeUUID(), gocql.TimeUUID()
	var body map[string]interface{}

	idx := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.URL.Path, "/products/_search"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = w.Write([]byte(`{"hits":{"hits":[{"_id":"` + a.String() + `"},{"_id":"pas-un-uuid"},{"_id":"` + b.String() + `"}]}}`))
	})

	ids, err := idx.SearchProducts(context.Background(), "tasse")
	require.NoError(t, err)
	assert.Equal(t, []gocql.UUID{a, b}, ids)

	query := body["query"].(map[string]interface{})["multi_match"].(map[string]interface{})
	assert.Equal(t, "tasse", query["query"])
}

func TestProductIndex_SearchMissingIndex(t *testing.T) {
	idx := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"type":"index_not_found_exception"}}`))
	})

	ids, err := idx.SearchProducts(context.Background(), "tasse")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestProductIndex_IndexAndDelete(t *testing.T) {
	p := models.Product{ID: gocql.TimeUUID(), Name: "Tasse", Price: decimal.RequireFromString("9.5")}
	var methods []string
	var doc productDocument

	idx := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method)
		assert.Contains(t, r.URL.Path, p.ID.String())
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"result":"not_found"}`))
			return
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&doc))
		_, _ = w.Write([]byte(`{"result":"created"}`))
	})

	require.NoError(t, idx.IndexProduct(context.Background(), p))
	assert.Equal(t, "Tasse", doc.Name)
	assert.Equal(t, "9.50", doc.Price)

	require.NoError(t, idx.DeleteProduct(context.Background(), p.ID), "an already deleted document is not an error")
	assert.Equal(t, []string{http.MethodPut, http.MethodDelete}, methods)
}
