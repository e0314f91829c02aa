package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"storefront_back_end/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

const searchSize = 50

// ProductIndex indexe les produits dans Elasticsearch, un document par product_id.
type ProductIndex struct {
	es    *elasticsearch.Client
	index string
}

func NewProductIndex(es *elasticsearch.Client, index string) *ProductIndex {
	return &ProductIndex{es: es, index: index}
}

type productDocument struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	CategoryID  string `json:"category_id,omitempty"`
}

//
// --- INDEXATION ---
//

func (x *ProductIndex) IndexProduct(ctx context.Context, p models.Product) error {
	doc := productDocument{Name: p.Name, Description: p.Description, Price: p.Price.StringFixed(2)}
	if p.CategoryID != nil {
		doc.CategoryID = p.CategoryID.String()
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	req := esapi.IndexRequest{
		Index:      x.index,
		DocumentID: p.ID.String(),
		Body:       bytes.NewReader(data),
		Refresh:    "true",
	}
	res, err := req.Do(ctx, x.es)
	if err != nil {
		return fmt.Errorf("erreur envoi Elastic: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("indexation %s: %s", p.ID, res.String())
	}
	return nil
}

// DeleteProduct ignore les documents déjà absents.
func (x *ProductIndex) DeleteProduct(ctx context.Context, id gocql.UUID) error {
	req := esapi.DeleteRequest{Index: x.index, DocumentID: id.String(), Refresh: "true"}
	res, err := req.Do(ctx, x.es)
	if err != nil {
		return fmt.Errorf("erreur envoi Elastic: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("suppression %s: %s", id, res.String())
	}
	return nil
}

//
// --- RECHERCHE ---
//

type searchResponse struct {
	Hits struct {
		Hits []struct {
			ID string `json:"_id"`
		} `json:"hits"`
	} `json:"hits"`
}

// SearchProducts renvoie les identifiants par pertinence décroissante.
func (x *ProductIndex) SearchProducts(ctx context.Context, query string) ([]gocql.UUID, error) {
	var buf bytes.Buffer
	q := map[string]interface{}{
		"size": searchSize,
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    []string{"name^2", "description"},
				"fuzziness": "AUTO",
			},
		},
	}
	if err := json.NewEncoder(&buf).Encode(q); err != nil {
		return nil, fmt.Errorf("erreur encodage requête: %w", err)
	}

	req := esapi.SearchRequest{Index: []string{x.index}, Body: &buf}
	res, err := req.Do(ctx, x.es)
	if err != nil {
		return nil, fmt.Errorf("erreur requête Elastic: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		// index pas encore créé
		return nil, nil
	}
	if res.IsError() {
		return nil, fmt.Errorf("recherche Elastic: %s", res.String())
	}

	var r searchResponse
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("erreur décodage JSON: %w", err)
	}

	ids := make([]gocql.UUID, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		parsed, err := uuid.Parse(strings.TrimSpace(hit.ID))
		if err != nil {
			continue
		}
		ids = append(ids, gocql.UUID(parsed))
	}
	return ids, nil
}
