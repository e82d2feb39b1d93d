// Package contract checks engine responses against the OpenAPI document
// describing their wire shapes.
package contract

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var document []byte

// Component schema names
const (
	SchemaClassification    = "Classification"
	SchemaMatrix            = "RiskMatrix"
	SchemaHistogram         = "LevelHistogram"
	SchemaComplianceSummary = "ComplianceSummary"
	SchemaDomainBreakdown   = "DomainBreakdown"
	SchemaDashboardSummary  = "DashboardSummary"
)

// Validator validates values against the component schemas of the embedded document
type Validator struct {
	loader *openapi3.Loader
	doc    *openapi3.T
}

// NewValidator loads and validates the embedded OpenAPI document
func NewValidator() (*Validator, error) {
	return NewValidatorFromData(document)
}

// NewValidatorFromData creates a validator from a raw OpenAPI document
func NewValidatorFromData(data []byte) (*Validator, error) {
	loader := openapi3.NewLoader()
	loader.Context = context.Background()

	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI document: %w", err)
	}

	if err := doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("invalid OpenAPI document: %w", err)
	}

	return &Validator{
		loader: loader,
		doc:    doc,
	}, nil
}

// SchemaNames lists the component schemas in name order
func (v *Validator) SchemaNames() []string {
	names := make([]string, 0, len(v.doc.Components.Schemas))
	for name := range v.doc.Components.Schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidateSchema validates a Go value against a named component schema. The
// value is round-tripped through JSON so struct tags decide the field names.
func (v *Validator) ValidateSchema(schemaName string, data interface{}) error {
	schema := v.doc.Components.Schemas[schemaName]
	if schema == nil || schema.Value == nil {
		return fmt.Errorf("schema %s not found", schemaName)
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode value for schema %s: %w", schemaName, err)
	}

	var generic interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		return fmt.Errorf("failed to decode value for schema %s: %w", schemaName, err)
	}

	if err := schema.Value.VisitJSON(generic); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}

	return nil
}
