// internal/search/bills.go

// Package search keeps the bill history index in Elasticsearch.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"franchise-pos/internal/common/errors"
	"franchise-pos/internal/common/logger"
	"franchise-pos/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/shopspring/decimal"
)

const (
	defaultSize = 20
	maxSize     = 100
)

var billMapping = `{
  "mappings": {
    "properties": {
      "id":          {"type": "keyword"},
      "franchiseId": {"type": "keyword"},
      "modePayment": {"type": "keyword"},
      "createdAt":   {"type": "date"},
      "total":       {"type": "scaled_float", "scaling_factor": 100},
      "itemNames":   {"type": "text"},
      "items":       {"type": "object", "enabled": false}
    }
  }
}`

// BillDocument is the indexed form of a bill.
type BillDocument struct {
	ID          string             `json:"id"`
	FranchiseID string             `json:"franchiseId"`
	ModePayment models.PaymentMode `json:"modePayment"`
	CreatedAt   time.Time          `json:"createdAt"`
	Total       decimal.Decimal    `json:"total"`
	ItemNames   []string           `json:"itemNames"`
	Items       []models.BillItem  `json:"items"`
}

func NewBillDocument(b *models.Bill) BillDocument {
	names := make([]string, 0, len(b.Items))
	for _, it := range b.Items {
		names = append(names, it.ItemName)
	}
	return BillDocument{
		ID:          b.ID,
		FranchiseID: b.FranchiseID,
		ModePayment: b.ModePayment,
		CreatedAt:   b.CreatedAt,
		Total:       b.Total,
		ItemNames:   names,
		Items:       b.Items,
	}
}

type Query struct {
	FranchiseID string
	Text        string
	From        *time.Time
	To          *time.Time
	Offset      int
	Size        int
}

type Result struct {
	Bills     []BillDocument `json:"bills"`
	TotalHits int64          `json:"totalHits"`
	Took      int64          `json:"took"`
}

type BillIndex struct {
	client *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewBillIndex(client *elasticsearch.Client, index string, log logger.Logger) *BillIndex {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &BillIndex{client: client, index: index, logger: log}
}

func (b *BillIndex) Index() string {
	return b.index
}

// EnsureIndex creates the index with its mapping when it does not exist.
func (b *BillIndex) EnsureIndex(ctx context.Context) error {
	res, err := esapi.IndicesExistsRequest{Index: []string{b.index}}.Do(ctx, b.client)
	if err != nil {
		return errors.NewSearchQueryFailedError(b.index, err)
	}
	res.Body.Close()
	if res.StatusCode == 200 {
		return nil
	}

	res, err = esapi.IndicesCreateRequest{
		Index: b.index,
		Body:  strings.NewReader(billMapping),
	}.Do(ctx, b.client)
	if err != nil {
		return errors.NewSearchQueryFailedError(b.index, err)
	}
	defer res.Body.Close()
	if res.IsError() && !strings.Contains(readBody(res.Body), "resource_already_exists_exception") {
		return errors.NewSearchQueryFailedError(b.index, fmt.Errorf("create index: %s", res.Status()))
	}
	return nil
}

// IndexBill writes bill under its id, replacing any earlier copy.
func (b *BillIndex) IndexBill(ctx context.Context, bill *models.Bill) error {
	body, err := json.Marshal(NewBillDocument(bill))
	if err != nil {
		return errors.NewSearchQueryFailedError(b.index, err)
	}

	res, err := esapi.IndexRequest{
		Index:      b.index,
		DocumentID: bill.ID,
		Body:       bytes.NewReader(body),
	}.Do(ctx, b.client)
	if err != nil {
		return errors.NewSearchQueryFailedError(b.index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return errors.NewSearchQueryFailedError(b.index, fmt.Errorf("index bill %s: %s", bill.ID, res.Status()))
	}
	return nil
}

// Search runs a full-text search over item names, always filtered to the
// query's franchise.
func (b *BillIndex) Search(ctx context.Context, q Query) (*Result, error) {
	if q.FranchiseID == "" {
		return nil, errors.NewValidationError("franchiseId is required")
	}

	body, err := json.Marshal(BuildSearchBody(q))
	if err != nil {
		return nil, errors.NewSearchQueryFailedError(b.index, err)
	}

	from, size := q.Offset, clampSize(q.Size)
	res, err := esapi.SearchRequest{
		Index: []string{b.index},
		Body:  bytes.NewReader(body),
		From:  &from,
		Size:  &size,
	}.Do(ctx, b.client)
	if err != nil {
		return nil, errors.NewSearchQueryFailedError(b.index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, errors.NewSearchQueryFailedError(b.index, fmt.Errorf("search failed: %s", res.Status()))
	}

	var r searchResponse
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, errors.NewSearchQueryFailedError(b.index, err)
	}

	out := &Result{Bills: make([]BillDocument, 0, len(r.Hits.Hits)), TotalHits: r.Hits.Total.Value, Took: r.Took}
	for _, h := range r.Hits.Hits {
		out.Bills = append(out.Bills, h.Source)
	}
	return out, nil
}

type searchResponse struct {
	Took int64 `json:"took"`
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			Source BillDocument `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// BuildSearchBody builds the bool query for q.
func BuildSearchBody(q Query) map[string]interface{} {
	filter := []interface{}{
		map[string]interface{}{"term": map[string]interface{}{"franchiseId": q.FranchiseID}},
	}
	if q.From != nil || q.To != nil {
		rng := map[string]interface{}{}
		if q.From != nil {
			rng["gte"] = q.From.UTC().Format(time.RFC3339)
		}
		if q.To != nil {
			rng["lt"] = q.To.UTC().Format(time.RFC3339)
		}
		filter = append(filter, map[string]interface{}{"range": map[string]interface{}{"createdAt": rng}})
	}

	boolQuery := map[string]interface{}{"filter": filter}
	if text := strings.TrimSpace(q.Text); text != "" {
		boolQuery["must"] = []interface{}{
			map[string]interface{}{
				"match": map[string]interface{}{
					"itemNames": map[string]interface{}{"query": text, "fuzziness": "AUTO"},
				},
			},
		}
	}

	return map[string]interface{}{
		"query": map[string]interface{}{"bool": boolQuery},
		"sort":  []interface{}{map[string]interface{}{"createdAt": map[string]interface{}{"order": "desc"}}},
	}
}

func clampSize(size int) int {
	if size < 1 {
		return defaultSize
	}
	if size > maxSize {
		return maxSize
	}
	return size
}

func readBody(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 4096))
	return string(b)
}
