// internal/common/config/loader_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseYAML = `
app:
  name: franchise-pos
  version: 1.0.0
camunda:
  broker_address: localhost:26500
database:
  postgres:
    host: localhost
    database: pos
    user: ${TEST_DB_USER}
  elasticsearch:
    addresses: ["http://localhost:9200"]
  redis:
    address: localhost:6379
workers:
  create-bill:
    enabled: true
    max_jobs_active: 8
  predict-trends:
    enabled: false
pos:
  lookback_days: 14
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_ExpandsEnvAndAppliesDefaults(t *testing.T) {
	t.Setenv("TEST_DB_USER", "pos_admin")

	cfg, err := LoadFromFile(writeConfig(t, baseYAML))
	require.NoError(t, err)

	assert.Equal(t, "pos_admin", cfg.Database.Postgres.User)
	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)
	assert.Equal(t, "bills", cfg.Database.Elasticsearch.BillIndex)
	assert.Equal(t, 14, cfg.POS.LookbackDays)
	assert.Equal(t, "FRANCHISE POS", cfg.POS.ReceiptHeader)
	assert.Equal(t, "Thank you! Visit again", cfg.POS.ReceiptFooter)
	assert.Equal(t, 300, cfg.POS.SalesCacheTTL)
	assert.Equal(t, 0, cfg.POS.IdentityCacheTTL)
	assert.Equal(t, "pos.local", cfg.Auth.StoreEmailDomain)
}

func TestLoadFromFile_WorkerDefaults(t *testing.T) {
	t.Setenv("TEST_DB_USER", "pos_admin")

	cfg, err := LoadFromFile(writeConfig(t, baseYAML))
	require.NoError(t, err)

	cb := GetWorkerConfig(cfg, "create-bill")
	assert.True(t, cb.Enabled)
	assert.Equal(t, 8, cb.MaxJobsActive)
	assert.Equal(t, 30000, cb.Timeout)
	assert.Equal(t, 3, cb.MaxRetries)

	assert.False(t, IsWorkerEnabled(cfg, "predict-trends"))
	assert.True(t, IsWorkerEnabled(cfg, "unknown-task"))
	assert.Equal(t, 5, GetWorkerConfig(cfg, "unknown-task").MaxJobsActive)
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		errMsg string
	}{
		{
			name:   "missing broker",
			body:   "database:\n  postgres:\n    host: h\n",
			errMsg: "camunda.broker_address is required",
		},
		{
			name: "lookback out of range",
			body: `
camunda: {broker_address: "b:1"}
database:
  postgres: {host: h, database: d, user: u}
  elasticsearch: {addresses: ["http://es"]}
  redis: {address: "r:1"}
pos: {lookback_days: 120}
`,
			errMsg: "pos.lookback_days must be between 1 and 90",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestGetDSN(t *testing.T) {
	p := PostgresConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "pos", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=pos sslmode=disable", p.GetDSN())
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
}
