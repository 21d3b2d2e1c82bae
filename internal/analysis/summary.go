package analysis

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed summary.schema.json
var summarySchemaJSON []byte

// Summary is the parsed result of a simple-mode generation.
type Summary struct {
	// Data holds the JSON object when the response could be parsed.
	Data json.RawMessage `json:"data,omitempty"`
	// Raw is the model text as returned.
	Raw string `json:"raw"`
	// Valid reports whether Data holds a JSON object.
	Valid bool `json:"valid"`
	// Repaired reports that the JSON needed repair before it parsed.
	Repaired bool `json:"repaired,omitempty"`
	// Warnings lists schema violations. They never fail the job.
	Warnings []string `json:"warnings,omitempty"`
}

var codeBlockRe = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")

func stripCodeBlock(s string) string {
	s = strings.TrimSpace(s)
	if m := codeBlockRe.FindStringSubmatch(s); len(m) > 1 {
		return m[1]
	}
	return s
}

// ParseSummary decodes a simple-mode response. Malformed JSON is repaired when
// possible; otherwise the raw text is kept with Valid=false.
func ParseSummary(raw string) *Summary {
	s := &Summary{Raw: raw}
	text := stripCodeBlock(raw)

	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err != nil || obj == nil {
		repaired, rerr := jsonrepair.RepairJSON(text)
		if rerr != nil {
			return s
		}
		obj = nil
		if err := json.Unmarshal([]byte(repaired), &obj); err != nil || obj == nil {
			return s
		}
		text = repaired
		s.Repaired = true
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(text)); err != nil {
		return s
	}
	s.Data = buf.Bytes()
	s.Valid = true
	s.Warnings = validateSummary(obj)
	return s
}

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func summarySchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("summary.schema.json", bytes.NewReader(summarySchemaJSON)); err != nil {
			schemaErr = fmt.Errorf("load summary schema: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile("summary.schema.json")
	})
	return schema, schemaErr
}

func validateSummary(obj map[string]any) []string {
	sch, err := summarySchema()
	if err != nil {
		return []string{err.Error()}
	}
	err = sch.Validate(obj)
	if err == nil {
		return nil
	}
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return []string{err.Error()}
	}
	var warnings []string
	for _, leaf := range leaves(verr) {
		loc := leaf.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		warnings = append(warnings, fmt.Sprintf("%s: %s", loc, leaf.Message))
	}
	return warnings
}

func leaves(e *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(e.Causes) == 0 {
		return []*jsonschema.ValidationError{e}
	}
	var out []*jsonschema.ValidationError
	for _, c := range e.Causes {
		out = append(out, leaves(c)...)
	}
	return out
}
