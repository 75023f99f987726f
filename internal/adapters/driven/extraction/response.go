package extraction

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/custodia-labs/docfiler/internal/core/domain"
)

// responseSchema describes the JSON object the model is asked to return.
// Every field may be null; required-ness is checked after cleaning.
const responseSchema = `{
  "type": "object",
  "properties": {
    "docType":   {"type": ["string", "null"]},
    "name":      {"type": ["string", "null"]},
    "docNumber": {"type": ["string", "null"]},
    "dob":       {"type": ["string", "null"]},
    "gender":    {"type": ["string", "null"]}
  }
}`

var compiledSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("extraction.json", strings.NewReader(responseSchema)); err != nil {
		panic(fmt.Sprintf("add extraction schema: %v", err))
	}
	schema, err := compiler.Compile("extraction.json")
	if err != nil {
		panic(fmt.Sprintf("compile extraction schema: %v", err))
	}
	return schema
}

// wireFields is the model's JSON output.
type wireFields struct {
	DocType   *string `json:"docType"`
	Name      *string `json:"name"`
	DocNumber *string `json:"docNumber"`
	DOB       *string `json:"dob"`
	Gender    *string `json:"gender"`
}

// DecodeFields parses the model's text output into cleaned fields.
// Markdown code fences around the JSON are tolerated.
func DecodeFields(text string) (*domain.ExtractedFields, error) {
	raw := []byte(stripCodeFence(text))

	var v any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: not JSON: %w", domain.ErrMalformedResponse, err)
	}
	if err := compiledSchema.Validate(v); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedResponse, err)
	}

	var w wireFields
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedResponse, err)
	}

	fields := &domain.ExtractedFields{
		DocType:   domain.DocType(deref(w.DocType)),
		Name:      deref(w.Name),
		DocNumber: deref(w.DocNumber),
		DOB:       deref(w.DOB),
		Gender:    deref(w.Gender),
	}
	fields.Clean()
	if err := fields.Validate(); err != nil {
		return nil, err
	}
	return fields, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	v := strings.TrimSpace(*s)
	if strings.EqualFold(v, "null") {
		return ""
	}
	return v
}

// stripCodeFence removes a surrounding ```json ... ``` block.
func stripCodeFence(text string) string {
	t := strings.TrimSpace(text)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	t = strings.TrimPrefix(t, "```")
	if nl := strings.IndexByte(t, '\n'); nl >= 0 {
		t = t[nl+1:]
	}
	t = strings.TrimSuffix(strings.TrimSpace(t), "```")
	return strings.TrimSpace(t)
}
