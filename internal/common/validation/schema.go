package validation

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"bizplan-workers/internal/businessplan"

	"github.com/hashicorp/go-multierror"
	"github.com/xeipuuv/gojsonschema"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var (
	schemaOnce   sync.Once
	schemaLoader gojsonschema.JSONLoader
)

// InputSchema returns the JSON schema of a raw import document: an object
// keyed by camelCase or kebab section keys, each an object of the declared
// fields. Collections may be an array of objects or a JSON-encoded string.
func InputSchema() map[string]interface{} {
	props := map[string]interface{}{}
	for _, sec := range businessplan.Sections() {
		fields := map[string]interface{}{}
		for _, f := range sec.Fields {
			switch f.Kind {
			case businessplan.KindScalar:
				fields[f.Name] = map[string]interface{}{"type": []string{"string", "number", "boolean", "null"}}
			case businessplan.KindBool:
				fields[f.Name] = map[string]interface{}{
					"anyOf": []interface{}{
						map[string]interface{}{"type": []string{"boolean", "null"}},
						map[string]interface{}{"type": "string", "enum": []string{"true", "false", ""}},
					},
				}
			case businessplan.KindCollection:
				fields[f.Name] = map[string]interface{}{
					"anyOf": []interface{}{
						map[string]interface{}{"type": []string{"string", "null"}},
						map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "object"}},
					},
				}
			}
		}
		section := map[string]interface{}{"type": []string{"object", "null"}, "properties": fields}
		props[sec.DocumentKey] = section
		props[string(sec.Key)] = section
	}
	return map[string]interface{}{
		"type":                 "object",
		"properties":           props,
		"additionalProperties": false,
	}
}

func loader() gojsonschema.JSONLoader {
	schemaOnce.Do(func() {
		schemaLoader = gojsonschema.NewGoLoader(InputSchema())
	})
	return schemaLoader
}

// Options relaxes document validation.
type Options struct {
	// AllowMalformedCollections skips the encoded collection check, leaving
	// undecodable strings to the importer's lenient fallback handling.
	AllowMalformedCollections bool
}

// ValidateDocumentInput checks a raw import document before it reaches the
// importer. Besides the schema it requires every encoded collection string to
// decode to a JSON array of objects, which the importer otherwise reports as a
// fatal malformed fallback.
func ValidateDocumentInput(input map[string]interface{}, opts ...Options) *ValidationResult {
	var opt Options
	if len(opts) > 0 {
		opt = opts[0]
	}
	var errs []ValidationError

	result, err := gojsonschema.Validate(loader(), gojsonschema.NewGoLoader(input))
	if err != nil {
		return &ValidationResult{Errors: []ValidationError{{
			Field: "(root)", Message: err.Error(), Code: "SCHEMA_ERROR",
		}}}
	}
	for _, desc := range result.Errors() {
		errs = append(errs, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
			Code:    strings.ToUpper(desc.Type()),
		})
	}

	if !opt.AllowMalformedCollections {
		errs = append(errs, validateEncodedCollections(input)...)
	}
	sort.SliceStable(errs, func(i, j int) bool { return errs[i].Field < errs[j].Field })

	return &ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

func validateEncodedCollections(input map[string]interface{}) []ValidationError {
	var errs []ValidationError
	for name, raw := range input {
		key, err := businessplan.ParseSectionKey(name)
		if err != nil {
			continue
		}
		sectionInput, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		sec, _ := businessplan.Lookup(key)
		for _, field := range sec.FieldNames(businessplan.KindCollection) {
			encoded, ok := sectionInput[field].(string)
			if !ok || encoded == "" {
				continue
			}
			if msg := checkEncodedArray(encoded); msg != "" {
				errs = append(errs, ValidationError{
					Field:   name + "." + field,
					Message: msg,
					Code:    "MALFORMED_COLLECTION",
				})
			}
		}
	}
	return errs
}

func checkEncodedArray(encoded string) string {
	var items []interface{}
	if err := json.Unmarshal([]byte(encoded), &items); err != nil {
		return fmt.Sprintf("not a JSON array: %v", err)
	}
	for i, item := range items {
		if _, ok := item.(map[string]interface{}); !ok {
			return fmt.Sprintf("element %d is %T, want object", i, item)
		}
	}
	return ""
}

// Err aggregates every problem into one error, or nil when valid.
func (vr *ValidationResult) Err() error {
	if vr == nil || len(vr.Errors) == 0 {
		return nil
	}
	var merr *multierror.Error
	for _, e := range vr.Errors {
		merr = multierror.Append(merr, e)
	}
	merr.ErrorFormat = func(errs []error) string {
		parts := make([]string, len(errs))
		for i, e := range errs {
			parts[i] = e.Error()
		}
		return fmt.Sprintf("%d validation error(s): %s", len(errs), strings.Join(parts, "; "))
	}
	return merr.ErrorOrNil()
}

// GetErrorMessages returns a simple list of error messages.
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = err.Error()
	}
	return messages
}

// HasErrors checks if validation has errors for a specific field.
func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field || strings.HasPrefix(err.Field, field+".") {
			return true
		}
	}
	return false
}
