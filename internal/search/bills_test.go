// internal/search/bills_test.go
package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"franchise-pos/internal/common/errors"
	"franchise-pos/internal/common/logger"
	"franchise-pos/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Fake transport
// ==========================

type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Body   string
}

type fakeTransport struct {
	mu       sync.Mutex
	requests []recordedRequest
	respond  func(req *http.Request) (int, string)
}

func (f *fakeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var body string
	if req.Body != nil {
		b, _ := io.ReadAll(req.Body)
		body = string(b)
	}

	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{req.Method, req.URL.Path, req.URL.RawQuery, body})
	f.mu.Unlock()

	status, payload := f.respond(req)
	header := http.Header{}
	header.Set("Content-Type", "application/json")
	header.Set("X-Elastic-Product", "Elasticsearch")
	return &http.Response{
		StatusCode: status,
		Header:     header,
		Body:       io.NopCloser(strings.NewReader(payload)),
		Request:    req,
	}, nil
}

func newTestIndex(t *testing.T, respond func(req *http.Request) (int, string)) (*BillIndex, *fakeTransport) {
	ft := &fakeTransport{respond: respond}
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{"http://es.test:9200"},
		Transport: ft,
	})
	require.NoError(t, err)
	return NewBillIndex(client, "bills", logger.NewTestLogger(t)), ft
}

func testBill() *models.Bill {
	return &models.Bill{
		ID:          "b-1",
		CreatedAt:   time.Date(2026, 10, 12, 9, 30, 0, 0, time.UTC),
		Total:       decimal.RequireFromString("123.40"),
		ModePayment: models.PaymentUPI,
		FranchiseID: "FR-7",
		Items: []models.BillItem{
			{ItemName: "Masala Dosa", Qty: 2, Price: decimal.RequireFromString("60.50")},
			{ItemName: "Filter Coffee", Qty: 1, Price: decimal.RequireFromString("2.40")},
		},
	}
}

// ==========================
// Tests
// ==========================

func TestIndexBill(t *testing.T) {
	idx, ft := newTestIndex(t, func(*http.Request) (int, string) {
		return 201, `{"result":"created"}`
	})

	require.NoError(t, idx.IndexBill(context.Background(), testBill()))

	require.Len(t, ft.requests, 1)
	req := ft.requests[0]
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/bills/_doc/b-1", req.Path)

	var doc BillDocument
	require.NoError(t, json.Unmarshal([]byte(req.Body), &doc))
	assert.Equal(t, "FR-7", doc.FranchiseID)
	assert.Equal(t, []string{"Masala Dosa", "Filter Coffee"}, doc.ItemNames)
}

func TestIndexBill_ErrorStatus(t *testing.T) {
	idx, _ := newTestIndex(t, func(*http.Request) (int, string) {
		return 400, `{"error":"mapper_parsing_exception"}`
	})

	err := idx.IndexBill(context.Background(), testBill())
	stdErr, ok := errors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeSearchQueryFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
}

func TestSearch(t *testing.T) {
	idx, ft := newTestIndex(t, func(*http.Request) (int, string) {
		return 200, `{
			"took": 3,
			"hits": {
				"total": {"value": 1},
				"hits": [{"_source": {"id": "b-1", "franchiseId": "FR-7", "modePayment": "upi", "total": "123.4", "itemNames": ["Masala Dosa"]}}]
			}
		}`
	})

	res, err := idx.Search(context.Background(), Query{FranchiseID: "FR-7", Text: "dosa", Size: 500})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.TotalHits)
	require.Len(t, res.Bills, 1)
	assert.Equal(t, "b-1", res.Bills[0].ID)
	assert.True(t, decimal.RequireFromString("123.4").Equal(res.Bills[0].Total))

	require.Len(t, ft.requests, 1)
	assert.Equal(t, "/bills/_search", ft.requests[0].Path)
	assert.Contains(t, ft.requests[0].Query, "size=100")
	assert.Contains(t, ft.requests[0].Body, `"franchiseId":"FR-7"`)
	assert.Contains(t, ft.requests[0].Body, `"itemNames"`)
}

func TestSearch_RequiresFranchise(t *testing.T) {
	idx, ft := newTestIndex(t, func(*http.Request) (int, string) { return 200, `{}` })

	_, err := idx.Search(context.Background(), Query{Text: "dosa"})
	assert.True(t, errors.HasCode(err, errors.ErrCodeValidationFailed))
	assert.Empty(t, ft.requests)
}

func TestEnsureIndex(t *testing.T) {
	idx, ft := newTestIndex(t, func(req *http.Request) (int, string) {
		if req.Method == http.MethodHead {
			return 404, ``
		}
		return 200, `{"acknowledged":true}`
	})

	require.NoError(t, idx.EnsureIndex(context.Background()))
	require.Len(t, ft.requests, 2)
	assert.Equal(t, http.MethodPut, ft.requests[1].Method)
	assert.Contains(t, ft.requests[1].Body, `"franchiseId": {"type": "keyword"}`)
}

func TestBuildSearchBody(t *testing.T) {
	from := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	body := BuildSearchBody(Query{FranchiseID: "FR-7", From: &from})

	boolQuery := body["query"].(map[string]interface{})["bool"].(map[string]interface{})
	filters := boolQuery["filter"].([]interface{})
	require.Len(t, filters, 2)
	_, hasMust := boolQuery["must"]
	assert.False(t, hasMust)

	rng := filters[1].(map[string]interface{})["range"].(map[string]interface{})["createdAt"].(map[string]interface{})
	assert.Equal(t, "2026-10-01T00:00:00Z", rng["gte"])
}

func TestClampSize(t *testing.T) {
	assert.Equal(t, 20, clampSize(0))
	assert.Equal(t, 100, clampSize(1000))
	assert.Equal(t, 7, clampSize(7))
}
