// internal/workers/billing/search-bills/handler_test.go
package searchbills

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"franchise-pos/internal/common/camunda/camundatest"
	"franchise-pos/internal/common/errors"
	"franchise-pos/internal/common/logger"
	"franchise-pos/internal/models"
	"franchise-pos/internal/search"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchResponse = `{
  "took": 3,
  "hits": {
    "total": {"value": 1},
    "hits": [{"_source": {
      "id": "b-1", "franchiseId": "FR-7", "modePayment": "upi",
      "createdAt": "2026-10-12T09:30:00Z", "total": "123.4",
      "itemNames": ["Masala Dosa"], "items": []
    }}]
  }
}`

type esServer struct {
	*httptest.Server

	mu     sync.Mutex
	bodies []map[string]interface{}
}

func newESServer(t *testing.T, status int, payload string) *esServer {
	s := &esServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var body map[string]interface{}
		_ = json.Unmarshal(raw, &body)
		s.mu.Lock()
		s.bodies = append(s.bodies, body)
		s.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, payload)
	}))
	t.Cleanup(s.Close)
	return s
}

func newTestHandler(t *testing.T, srv *esServer) *Handler {
	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	index := search.NewBillIndex(client, "bills", logger.NewTestLogger(t))
	return NewHandler(DefaultConfig(), index, logger.NewTestLogger(t), nil)
}

func identity(fid string, kind models.AccountKind) *models.Identity {
	return &models.Identity{AccountID: "acc-1", FranchiseID: fid, Kind: kind}
}

func TestHandler_Execute_FiltersByFranchise(t *testing.T) {
	srv := newESServer(t, http.StatusOK, searchResponse)

	out, err := newTestHandler(t, srv).Execute(context.Background(), &Input{
		Identity: identity("FR-7", models.KindStore),
		Text:     "dosa",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), out.TotalHits)
	require.Len(t, out.Bills, 1)
	assert.Equal(t, "b-1", out.Bills[0].ID)

	require.Len(t, srv.bodies, 1)
	raw, _ := json.Marshal(srv.bodies[0])
	assert.Contains(t, string(raw), `"term":{"franchiseId":"FR-7"}`)
	assert.Contains(t, string(raw), `"query":"dosa"`)
}

func TestHandler_Execute_BackendError(t *testing.T) {
	srv := newESServer(t, http.StatusInternalServerError, `{"error":"boom"}`)

	_, err := newTestHandler(t, srv).Execute(context.Background(), &Input{
		Identity: identity("FR-7", models.KindAdmin),
		Text:     "coffee",
	})

	assert.True(t, errors.HasCode(err, errors.ErrCodeSearchQueryFailed))
}

func TestHandler_Execute_RejectsBadInput(t *testing.T) {
	srv := newESServer(t, http.StatusOK, searchResponse)
	h := newTestHandler(t, srv)

	_, err := h.Execute(context.Background(), &Input{Identity: identity("FR-7", models.KindAdmin), Offset: -1})
	assert.True(t, errors.HasCode(err, errors.ErrCodeValidationFailed))

	_, err = h.Execute(context.Background(), &Input{Identity: identity("FR-7", models.KindAdmin), From: "yesterday"})
	assert.True(t, errors.HasCode(err, errors.ErrCodeValidationFailed))

	assert.Empty(t, srv.bodies)
}

func TestHandler_Handle_CompletesJob(t *testing.T) {
	srv := newESServer(t, http.StatusOK, searchResponse)
	client := camundatest.NewJobClient()

	newTestHandler(t, srv).Handle(client, camundatest.NewJob(1, TaskType, map[string]interface{}{
		"identity": identity("FR-7", models.KindAdmin),
		"text":     "dosa",
	}))

	vars, ok := client.Gateway.CompletedVariables()
	require.True(t, ok)
	assert.Equal(t, "FR-7", vars["franchiseId"])
	assert.EqualValues(t, 1, vars["totalHits"])
}
