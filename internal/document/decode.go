package document

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Decode parses JSON bytes into an Edit without resolving any symbols.
// Unknown fields are rejected; schema validation is a separate, earlier step.
func Decode(raw []byte) (*Edit, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()

	var edit Edit
	if err := dec.Decode(&edit); err != nil {
		return nil, fmt.Errorf("document: decode: %w", err)
	}
	return &edit, nil
}

// DecodeYAML parses a YAML-authored edit by converting it to JSON first, so
// both formats share one decode path and one schema.
func DecodeYAML(raw []byte) (*Edit, error) {
	jsonBytes, err := YAMLToJSON(raw)
	if err != nil {
		return nil, err
	}
	return Decode(jsonBytes)
}

// YAMLToJSON converts YAML bytes to JSON bytes. Used by the CLI loader and
// the scenario harness so that validation always runs on JSON.
func YAMLToJSON(raw []byte) ([]byte, error) {
	var tree any
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("document: yaml: %w", err)
	}
	jsonBytes, err := json.Marshal(normalizeYAML(tree))
	if err != nil {
		return nil, fmt.Errorf("document: yaml to json: %w", err)
	}
	return jsonBytes, nil
}

// normalizeYAML rewrites yaml.v3 map[string]any trees into JSON-marshalable
// form. yaml.v3 already decodes mappings with string keys, but nested
// map[any]any can still appear for merged keys.
func normalizeYAML(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[k] = normalizeYAML(elem)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[fmt.Sprintf("%v", k)] = normalizeYAML(elem)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = normalizeYAML(elem)
		}
		return out
	default:
		return v
	}
}

// Encode serializes the edit to indented JSON in wire form.
func Encode(e *Edit) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(e); err != nil {
		return nil, fmt.Errorf("document: encode: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Tree serializes the edit and re-parses it into a generic map tree.
// The merge service operates on trees when detecting and re-inserting
// placeholders for export.
func Tree(e *Edit) (map[string]any, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("document: tree: %w", err)
	}
	var tree map[string]any
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("document: tree: %w", err)
	}
	return tree, nil
}
