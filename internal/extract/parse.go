package extract

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/cchalm/groq-multitool/internal/export"
)

// ErrInvalidJSON matches every *InvalidJSONError via errors.Is
var ErrInvalidJSON = errors.New("model returned invalid JSON")

// InvalidJSONError carries the cleaned model output that failed to parse, for display in place of the structure
type InvalidJSONError struct {
	Text string
	Err  error
}

func (e *InvalidJSONError) Error() string {
	return fmt.Sprintf("%s: %v", ErrInvalidJSON, e.Err)
}

func (e *InvalidJSONError) Unwrap() error {
	return e.Err
}

func (e *InvalidJSONError) Is(target error) bool {
	return target == ErrInvalidJSON
}

// Result is successfully parsed model output. Raw keeps the model's key order.
type Result struct {
	Raw   json.RawMessage
	Value any
}

// Clean strips code fence markers from anywhere in the model output and trims surrounding whitespace
func Clean(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// Parse cleans the model output and parses it strictly as JSON
func Parse(output string) (Result, error) {
	cleaned := Clean(output)

	var v any
	if err := json.Unmarshal([]byte(cleaned), &v); err != nil {
		return Result{}, &InvalidJSONError{Text: cleaned, Err: err}
	}
	return Result{Raw: json.RawMessage(cleaned), Value: v}, nil
}

// Pretty renders the result with a 4-space indent, preserving key order
func (r Result) Pretty() (string, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, r.Raw, "", "    "); err != nil {
		return "", fmt.Errorf("failed to indent JSON: %w", err)
	}
	return buf.String(), nil
}

// Artifact returns the pretty-printed result as a downloadable file
func (r Result) Artifact() (export.Artifact, error) {
	s, err := r.Pretty()
	if err != nil {
		return export.Artifact{}, err
	}
	return export.Artifact{Filename: "extracted_data.json", MIMEType: export.MIMEJSON, Data: []byte(s)}, nil
}

// Conformance compares the returned object's keys with the requested ones. It is advisory: a mismatch never
// rejects the result.
type Conformance struct {
	Missing []string
	Extra   []string
}

func (c Conformance) OK() bool {
	return len(c.Missing) == 0 && len(c.Extra) == 0
}

// Conformance reports requested keys that are absent and returned keys that were not requested. Non-object results
// report every requested key as missing.
func (r Result) Conformance(schema Schema) Conformance {
	obj, _ := r.Value.(map[string]any)

	var c Conformance
	wanted := map[string]bool{}
	for _, k := range schema.Keys() {
		wanted[k] = true
		if _, ok := obj[k]; !ok {
			c.Missing = append(c.Missing, k)
		}
	}
	for k := range obj {
		if !wanted[k] {
			c.Extra = append(c.Extra, k)
		}
	}
	sort.Strings(c.Extra)
	return c
}
