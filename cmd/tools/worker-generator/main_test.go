// cmd/tools/worker-generator/main_test.go
package main

import (
	"testing"
	"time"

	"franchise-pos/pkg/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWorkerData(t *testing.T) {
	a := &registry.Activity{
		ID:          "void-bill",
		DisplayName: "Void Bill",
		Category:    "billing",
		TaskType:    "void-bill",
		Timeout:     "20s",
		InputSchema: map[string]interface{}{
			"properties": map[string]interface{}{
				"identity": map[string]interface{}{"type": "object"},
				"billId":   map[string]interface{}{"type": "string"},
				"amount":   map[string]interface{}{"type": "number"},
				"reason":   map[string]interface{}{"type": "string"},
			},
			"required": []interface{}{"billId"},
		},
	}

	data, err := newWorkerData(a)
	require.NoError(t, err)

	assert.Equal(t, "voidbill", data.PackageName)
	assert.Equal(t, 20*time.Second, data.Timeout)
	require.Len(t, data.InputFields, 3)
	assert.Equal(t, Field{GoName: "Amount", JSONName: "amount", GoType: "decimal.Decimal"}, data.InputFields[0])
	assert.Equal(t, Field{GoName: "BillID", JSONName: "billId", GoType: "string", Required: true}, data.InputFields[1])
	assert.True(t, data.UsesDecimal())
}

func TestNewWorkerData_InvalidTimeout(t *testing.T) {
	_, err := newWorkerData(&registry.Activity{ID: "x", Timeout: "later"})
	assert.Error(t, err)
}

func TestRender_ProducesFormattedSources(t *testing.T) {
	data, err := newWorkerData(&registry.Activity{
		ID:          "void-bill",
		DisplayName: "Void Bill",
		Category:    "billing",
		TaskType:    "void-bill",
		InputSchema: map[string]interface{}{
			"properties": map[string]interface{}{
				"billId": map[string]interface{}{"type": "string"},
			},
		},
	})
	require.NoError(t, err)

	files, err := render(data)
	require.NoError(t, err)

	assert.Len(t, files, 4)
	assert.Contains(t, string(files["handler.go"]), `TaskType = "void-bill"`)
	assert.Regexp(t, `BillID\s+string\s+`+"`"+`json:"billId,omitempty"`, string(files["models.go"]))
	assert.NotContains(t, string(files["models.go"]), "shopspring")
	assert.Contains(t, string(files["config.go"]), "15000 * time.Millisecond")
}
