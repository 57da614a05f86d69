// Package itemschema validates item payloads posted to the macro endpoint.
package itemschema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"reflect"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"horse.fit/ansa/internal/item"
)

//go:embed item.schema.json
var itemSchemaJSON string

const schemaResource = "item.schema.json"

var (
	compileOnce       sync.Once
	compiledSchema    *jsonschema.Schema
	compiledSchemaErr error
)

// Document is a validated item payload: the complete platform object and
// the typed view macros operate on.
type Document struct {
	Item *item.Item

	raw  map[string]any
	base map[string]any
}

// ValidateItem checks payload against the embedded item schema and decodes it.
func ValidateItem(payload json.RawMessage) (*item.Item, error) {
	doc, err := ValidateDocument(payload)
	if err != nil {
		return nil, err
	}
	return doc.Item, nil
}

// ValidateDocument is ValidateItem that also keeps every field of the payload,
// including the ones item.Item does not model.
func ValidateDocument(payload json.RawMessage) (*Document, error) {
	value, err := decodeStrictJSON(payload)
	if err != nil {
		return nil, fmt.Errorf("decode item JSON: %w", err)
	}

	schema, err := loadSchema()
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	if err := schema.Validate(value); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}
	raw, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("item must be a JSON object")
	}

	normalized, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("normalize item JSON: %w", err)
	}

	var it item.Item
	if err := json.Unmarshal(normalized, &it); err != nil {
		return nil, fmt.Errorf("unmarshal item: %w", err)
	}
	if err := validateSemantics(&it); err != nil {
		return nil, err
	}

	base, err := fieldsOf(&it)
	if err != nil {
		return nil, err
	}
	return &Document{Item: &it, raw: raw, base: base}, nil
}

// Merge returns the original payload with the fields out changed relative
// to the validated item written over it. Untouched and unmodeled fields keep
// their posted values.
func (d *Document) Merge(out *item.Item) (map[string]any, error) {
	if d == nil {
		return nil, fmt.Errorf("document is nil")
	}
	merged := maps.Clone(d.raw)
	if out == nil {
		return merged, nil
	}

	after, err := fieldsOf(out)
	if err != nil {
		return nil, err
	}
	for key, value := range after {
		if previous, ok := d.base[key]; ok && reflect.DeepEqual(previous, value) {
			continue
		}
		merged[key] = value
	}
	for key := range d.base {
		if _, ok := after[key]; !ok {
			delete(merged, key)
		}
	}
	return merged, nil
}

func fieldsOf(it *item.Item) (map[string]any, error) {
	encoded, err := json.Marshal(it)
	if err != nil {
		return nil, fmt.Errorf("encode item: %w", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(encoded, &fields); err != nil {
		return nil, fmt.Errorf("decode item fields: %w", err)
	}
	return fields, nil
}

func loadSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		compiler.AssertFormat = true

		if err := compiler.AddResource(schemaResource, strings.NewReader(itemSchemaJSON)); err != nil {
			compiledSchemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		schema, err := compiler.Compile(schemaResource)
		if err != nil {
			compiledSchemaErr = fmt.Errorf("compile schema: %w", err)
			return
		}
		compiledSchema = schema
	})

	if compiledSchemaErr != nil {
		return nil, compiledSchemaErr
	}
	if compiledSchema == nil {
		return nil, fmt.Errorf("schema not initialized")
	}
	return compiledSchema, nil
}

func decodeStrictJSON(raw []byte) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("payload is empty")
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("payload contains trailing content")
	}
	return value, nil
}

func validateSemantics(it *item.Item) error {
	if it == nil {
		return fmt.Errorf("item is nil")
	}
	for name, rendition := range it.Renditions {
		if strings.TrimSpace(rendition.Href) == "" {
			return fmt.Errorf("renditions.%s.href must not be empty", name)
		}
	}
	return nil
}
