// cmd/tools/worker-generator/main.go
package main

import (
	"bytes"
	"flag"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"

	"franchise-pos/pkg/registry"
)

// WorkerData feeds the scaffold templates.
type WorkerData struct {
	Name        string
	PackageName string
	TaskType    string
	Description string
	Category    string
	Timeout     time.Duration
	ErrorCodes  []string
	InputFields []Field
}

type Field struct {
	GoName   string
	JSONName string
	GoType   string
	Required bool
}

func newWorkerData(a *registry.Activity) (*WorkerData, error) {
	timeout := 15 * time.Second
	if a.Timeout != "" {
		d, err := time.ParseDuration(a.Timeout)
		if err != nil {
			return nil, fmt.Errorf("activity %s: invalid timeout %q", a.ID, a.Timeout)
		}
		timeout = d
	}
	return &WorkerData{
		Name:        a.DisplayName,
		PackageName: strings.ReplaceAll(a.ID, "-", ""),
		TaskType:    a.TaskType,
		Description: a.Description,
		Category:    a.Category,
		Timeout:     timeout,
		ErrorCodes:  a.ErrorCodes,
		InputFields: schemaFields(a.InputSchema),
	}, nil
}

// schemaFields turns the properties of a JSON schema object into struct
// fields, sorted by name. identity is always present on the generated Input.
func schemaFields(schema map[string]interface{}) []Field {
	props, _ := schema["properties"].(map[string]interface{})
	required := map[string]bool{}
	if list, ok := schema["required"].([]interface{}); ok {
		for _, r := range list {
			if s, ok := r.(string); ok {
				required[s] = true
			}
		}
	}

	var fields []Field
	for name, raw := range props {
		if name == "identity" {
			continue
		}
		details, _ := raw.(map[string]interface{})
		fields = append(fields, Field{
			GoName:   upperFirst(name),
			JSONName: name,
			GoType:   goType(details["type"]),
			Required: required[name],
		})
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].JSONName < fields[j].JSONName })
	return fields
}

func goType(jsonType interface{}) string {
	switch jsonType {
	case "string":
		return "string"
	case "integer":
		return "int"
	case "number":
		return "decimal.Decimal"
	case "boolean":
		return "bool"
	case "object":
		return "map[string]interface{}"
	case "array":
		return "[]interface{}"
	default:
		return "interface{}"
	}
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	if strings.HasSuffix(s, "Id") {
		s = strings.TrimSuffix(s, "Id") + "ID"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (d *WorkerData) UsesDecimal() bool {
	for _, f := range d.InputFields {
		if f.GoType == "decimal.Decimal" {
			return true
		}
	}
	return false
}

const configTemplate = `package {{ .PackageName }}

import (
	"time"

	"franchise-pos/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		Timeout: {{ printf "%d" .Timeout.Milliseconds }} * time.Millisecond,
	}
}

func NewConfig(wc config.WorkerConfig) *Config {
	cfg := DefaultConfig()
	if wc.Timeout > 0 {
		cfg.Timeout = config.GetDuration(wc.Timeout)
	}
	return cfg
}
`

const modelsTemplate = `package {{ .PackageName }}

import (
	"franchise-pos/internal/models"
{{- if .UsesDecimal }}

	"github.com/shopspring/decimal"
{{- end }}
)

type Input struct {
	Identity *models.Identity ` + "`json:\"identity\"`" + `
{{- range .InputFields }}
	{{ .GoName }} {{ .GoType }} ` + "`json:\"{{ .JSONName }}{{ if not .Required }},omitempty{{ end }}\"`" + `
{{- end }}
}

type Output struct {
	FranchiseID string ` + "`json:\"franchiseId\"`" + `
}
`

const handlerTemplate = `package {{ .PackageName }}

import (
	"context"

	"franchise-pos/internal/common/camunda"
	"franchise-pos/internal/common/errors"
	"franchise-pos/internal/common/logger"
	"franchise-pos/internal/common/observability"
	"franchise-pos/internal/tenancy"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "{{ .TaskType }}"
)

type Handler struct {
	config *Config
	runner *camunda.Runner
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger, obs *observability.Observability) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		runner: camunda.NewRunner(TaskType, config.Timeout, log, obs),
		logger: log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.runner.Run(client, job, func(ctx context.Context) (interface{}, error) {
		var input Input
		if err := camunda.DecodeVariables(job, &input); err != nil {
			return nil, err
		}
		return h.Execute(ctx, &input)
	})
}

// Execute runs {{ .Name }}.{{ if .Description }} {{ .Description }}{{ end }}
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.NewValidationError("input cannot be nil")
	}
	franchiseID, err := tenancy.ScopeFranchise(input.Identity, "")
	if err != nil {
		return nil, err
	}
	return &Output{FranchiseID: franchiseID}, nil
}
`

const testTemplate = `package {{ .PackageName }}

import (
	"context"
	"testing"

	"franchise-pos/internal/common/camunda/camundatest"
	"franchise-pos/internal/common/logger"
	"franchise-pos/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_Execute(t *testing.T) {
	h := NewHandler(DefaultConfig(), logger.NewTestLogger(t), nil)

	out, err := h.Execute(context.Background(), &Input{
		Identity: &models.Identity{AccountID: "acc-1", FranchiseID: "FR-1", Kind: models.KindAdmin},
	})

	require.NoError(t, err)
	assert.Equal(t, "FR-1", out.FranchiseID)
}

func TestHandler_Handle_CompletesJob(t *testing.T) {
	client := camundatest.NewJobClient()
	job := camundatest.NewJob(1, TaskType, map[string]interface{}{
		"identity": &models.Identity{AccountID: "acc-1", FranchiseID: "FR-1", Kind: models.KindAdmin},
	})

	NewHandler(DefaultConfig(), logger.NewTestLogger(t), nil).Handle(client, job)

	vars, ok := client.Gateway.CompletedVariables()
	require.True(t, ok)
	assert.Equal(t, "FR-1", vars["franchiseId"])
}
`

var templates = map[string]string{
	"config.go":       configTemplate,
	"models.go":       modelsTemplate,
	"handler.go":      handlerTemplate,
	"handler_test.go": testTemplate,
}

// render executes every template and gofmts the result.
func render(data *WorkerData) (map[string][]byte, error) {
	out := make(map[string][]byte, len(templates))
	for name, src := range templates {
		tmpl, err := template.New(name).Parse(src)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return nil, fmt.Errorf("execute %s: %w", name, err)
		}
		formatted, err := format.Source(buf.Bytes())
		if err != nil {
			return nil, fmt.Errorf("format %s: %w", name, err)
		}
		out[name] = formatted
	}
	return out, nil
}

func main() {
	activity := flag.String("activity", "", "Activity ID from the registry (e.g. create-bill)")
	outputDir := flag.String("output", "./internal/workers/", "Root directory for generated workers")
	registryPath := flag.String("registry", "configs/activity-registry.json", "Path to the activity registry")
	force := flag.Bool("force", false, "Overwrite existing files")
	flag.Parse()

	if *activity == "" {
		fmt.Println("Usage: worker-generator -activity <id> [-output <dir>] [-registry <path>] [-force]")
		os.Exit(1)
	}

	reg, err := registry.LoadRegistry(*registryPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading registry from %s: %v\n", *registryPath, err)
		os.Exit(1)
	}
	a, ok := reg.Lookup(*activity)
	if !ok {
		fmt.Fprintf(os.Stderr, "Activity %q not found in registry %s\n", *activity, *registryPath)
		os.Exit(1)
	}

	data, err := newWorkerData(a)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	files, err := render(data)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	workerDir := filepath.Join(*outputDir, a.Category, a.ID)
	if err := os.MkdirAll(workerDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating directory: %v\n", err)
		os.Exit(1)
	}

	for name, content := range files {
		path := filepath.Join(workerDir, name)
		if _, err := os.Stat(path); err == nil && !*force {
			fmt.Printf("skip %s (exists)\n", path)
			continue
		}
		if err := os.WriteFile(path, content, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", path, err)
			os.Exit(1)
		}
		fmt.Printf("wrote %s\n", path)
	}

	fmt.Printf("\nWorker scaffold generated at %s\n", workerDir)
	fmt.Println("Register it in cmd/worker-manager/main.go and add it to configs/config.yaml.")
}
