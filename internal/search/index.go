// Package search indexes scored submissions in Elasticsearch for reporting.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// ResultDocument is the indexed form of a submission. One document per user;
// a resubmission overwrites it.
type ResultDocument struct {
	UserID      string         `json:"userId"`
	ClassStatus string         `json:"classStatus,omitempty"`
	Domain      string         `json:"domain"`
	Aggregates  map[string]int `json:"aggregates"`
	SubmittedAt time.Time      `json:"submittedAt"`
}

type DomainCount struct {
	Domain string `json:"domain"`
	Count  int64  `json:"count"`
}

const indexMapping = `{
  "mappings": {
    "properties": {
      "userId":      {"type": "keyword"},
      "classStatus": {"type": "keyword"},
      "domain":      {"type": "keyword"},
      "aggregates":  {"type": "object"},
      "submittedAt": {"type": "date"}
    }
  }
}`

const maxDomainBuckets = 50

// ResultIndex reads and writes result documents in a single index.
type ResultIndex struct {
	client *elasticsearch.Client
	index  string
}

func NewResultIndex(client *elasticsearch.Client, index string) *ResultIndex {
	return &ResultIndex{client: client, index: index}
}

// EnsureIndex creates the index with its mapping if it does not exist.
func (r *ResultIndex) EnsureIndex(ctx context.Context) error {
	exists, err := esapi.IndicesExistsRequest{Index: []string{r.index}}.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("check index %s: %w", r.index, err)
	}
	exists.Body.Close()
	if exists.StatusCode == http.StatusOK {
		return nil
	}

	res, err := esapi.IndicesCreateRequest{
		Index: r.index,
		Body:  bytes.NewReader([]byte(indexMapping)),
	}.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("create index %s: %w", r.index, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("create index %s: %s", r.index, res.Status())
	}
	return nil
}

// Index writes doc, keyed by user id.
func (r *ResultIndex) Index(ctx context.Context, doc ResultDocument) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode result document: %w", err)
	}

	res, err := esapi.IndexRequest{
		Index:      r.index,
		DocumentID: doc.UserID,
		Body:       bytes.NewReader(body),
	}.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("index result %s: %w", doc.UserID, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index result %s: %s", doc.UserID, res.Status())
	}
	return nil
}

type domainsResponse struct {
	Aggregations struct {
		Domains struct {
			Buckets []struct {
				Key      string `json:"key"`
				DocCount int64  `json:"doc_count"`
			} `json:"buckets"`
		} `json:"domains"`
	} `json:"aggregations"`
}

// DomainCounts returns how many users were recommended each domain, most
// frequent first. A missing index yields an empty result.
func (r *ResultIndex) DomainCounts(ctx context.Context) ([]DomainCount, error) {
	query := map[string]interface{}{
		"size": 0,
		"aggs": map[string]interface{}{
			"domains": map[string]interface{}{
				"terms": map[string]interface{}{
					"field": "domain",
					"size":  maxDomainBuckets,
				},
			},
		},
	}
	body, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	res, err := esapi.SearchRequest{
		Index: []string{r.index},
		Body:  bytes.NewReader(body),
	}.Do(ctx, r.client)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", r.index, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return []DomainCount{}, nil
	}
	if res.IsError() {
		return nil, fmt.Errorf("search %s: %s", r.index, res.Status())
	}

	var parsed domainsResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	out := make([]DomainCount, 0, len(parsed.Aggregations.Domains.Buckets))
	for _, b := range parsed.Aggregations.Domains.Buckets {
		out = append(out, DomainCount{Domain: b.Key, Count: b.DocCount})
	}
	return out, nil
}
