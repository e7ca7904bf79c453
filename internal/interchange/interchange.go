// Package interchange implements the persisted JSON interchange format for
// export, import, and backups: a document holding the full task list and the
// full dependency edge set. Incoming documents are validated against an
// embedded JSON Schema before anything touches the store.
package interchange

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/groblegark/flowtask/internal/model"
	"github.com/groblegark/flowtask/internal/store"
)

//go:embed schema.json
var schemaJSON string

const schemaURL = "https://github.com/groblegark/flowtask/interchange.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, strings.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile(schemaURL)
	})
	return schema, schemaErr
}

// DepPair is a dependency edge on the wire: [task_id, depends_on_id].
type DepPair [2]int64

// Document is the interchange payload. Dates travel as YYYY-MM-DD text and
// timestamps as RFC 3339 with a trailing Z; both come straight from the
// model types' JSON encodings.
type Document struct {
	Tasks []*model.Task `json:"tasks"`
	Deps  []DepPair     `json:"deps"`
}

// Snapshot reads the full task list and edge set from the store and frames
// them as a Document.
func Snapshot(ctx context.Context, st store.Store) (*Document, error) {
	tasks, err := st.ListTasks(ctx, model.TaskFilter{})
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	deps, err := st.ListDependencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("list dependencies: %w", err)
	}

	doc := &Document{
		Tasks: tasks,
		Deps:  make([]DepPair, len(deps)),
	}
	for i, d := range deps {
		doc.Deps[i] = DepPair{d.TaskID, d.DependsOnID}
	}
	if doc.Tasks == nil {
		doc.Tasks = []*model.Task{}
	}
	return doc, nil
}

// Encode writes the document as indented JSON.
func (d *Document) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

// Dependencies converts the wire pairs back into dependency rows.
func (d *Document) Dependencies() []*model.Dependency {
	deps := make([]*model.Dependency, len(d.Deps))
	for i, p := range d.Deps {
		deps[i] = &model.Dependency{TaskID: p[0], DependsOnID: p[1]}
	}
	return deps
}

// Decode reads, schema-validates, and unmarshals an interchange document.
// Validation failures are user-input errors and come back wrapped in
// *ValidationError.
func Decode(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	if err := Validate(data); err != nil {
		return nil, err
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal document: %w", err)
	}
	return &doc, nil
}

// ValidationError describes why a document was rejected.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return "invalid interchange document: " + e.Message
}

// Validate checks raw JSON against the embedded interchange schema.
func Validate(data []byte) error {
	s, err := compiledSchema()
	if err != nil {
		return err
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return &ValidationError{Message: "not valid JSON: " + err.Error()}
	}

	if err := s.Validate(raw); err != nil {
		ve, ok := err.(*jsonschema.ValidationError)
		if !ok {
			return &ValidationError{Message: err.Error()}
		}
		return &ValidationError{Message: leafCause(ve).Error()}
	}
	return nil
}

// leafCause walks to the deepest cause so the user sees the actual failing
// field rather than the root "doesn't validate" summary.
func leafCause(ve *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return ve
}
