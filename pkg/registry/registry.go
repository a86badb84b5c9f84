// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"bizplan-workers/internal/businessplan"
	"bizplan-workers/internal/common/errors"
)

const Version = "1.0.0"

var tasks = []Task{
	{
		TaskType:    "import-business-plan",
		Description: "Merge remote section data with caller fallbacks into a 13-section document",
		Inputs:      []string{"requestId", "data"},
		Outputs:     []string{"documentId", "requestId", "document", "importPath"},
		ErrorCodes: []string{
			string(errors.ErrCodeInputParseFailed),
			string(errors.ErrCodeInputValidationFailed),
			string(errors.ErrCodeMalformedFallbackEncoding),
			string(errors.ErrCodeOrchestrationFailed),
			string(errors.ErrCodeUnknownSection),
		},
		Timeout: "60s",
	},
	{
		TaskType:    "render-business-plan",
		Description: "Render document sections as fixed-size HTML pages",
		Inputs:      []string{"requestId", "document", "theme", "sections"},
		Outputs:     []string{"requestId", "pages", "html"},
		ErrorCodes: []string{
			string(errors.ErrCodeInputParseFailed),
			string(errors.ErrCodeInputValidationFailed),
			string(errors.ErrCodeUnknownSection),
			string(errors.ErrCodeRenderFailed),
		},
		Timeout: "30s",
	},
}

// Build describes every section against baseURL.
func Build(baseURL string, now time.Time) *SectionRegistry {
	reg := &SectionRegistry{
		Version: Version,
		Tasks:   append([]Task(nil), tasks...),
	}
	for _, sec := range businessplan.Sections() {
		reg.Sections = append(reg.Sections, Section{
			Key:         string(sec.Key),
			DocumentKey: sec.DocumentKey,
			Title:       sec.Title,
			Subtitle:    sec.Subtitle,
			Position:    businessplan.Position(sec.Key),
			Endpoint:    sec.Endpoint(),
			Scalars:     sec.FieldNames(businessplan.KindScalar),
			Booleans:    sec.FieldNames(businessplan.KindBool),
			Collections: sec.FieldNames(businessplan.KindCollection),
		})
	}
	reg.Rebase(baseURL, now)
	return reg
}

// Rebase points every section URL at baseURL.
func (r *SectionRegistry) Rebase(baseURL string, now time.Time) {
	r.BaseURL = strings.TrimRight(baseURL, "/")
	r.LastUpdated = now.UTC().Format(time.RFC3339)
	for i := range r.Sections {
		r.Sections[i].URL = r.BaseURL + r.Sections[i].Endpoint
	}
}

// Keys returns the section keys in document order.
func (r *SectionRegistry) Keys() []string {
	keys := make([]string, len(r.Sections))
	for i, s := range r.Sections {
		keys[i] = s.Key
	}
	return keys
}

// Endpoints maps section keys to absolute URLs.
func (r *SectionRegistry) Endpoints() map[string]string {
	out := make(map[string]string, len(r.Sections))
	for _, s := range r.Sections {
		out[s.Key] = s.URL
	}
	return out
}

// Section finds an entry by kebab key or document key.
func (r *SectionRegistry) Section(key string) (Section, bool) {
	for _, s := range r.Sections {
		if s.Key == key || s.DocumentKey == key {
			return s, true
		}
	}
	return Section{}, false
}

// Validate checks that the registry lists every known section once, in order.
func (r *SectionRegistry) Validate() error {
	want := businessplan.Keys()
	if len(r.Sections) != len(want) {
		return fmt.Errorf("registry lists %d sections, want %d", len(r.Sections), len(want))
	}
	seen := make(map[string]bool, len(r.Sections))
	for i, s := range r.Sections {
		if seen[s.Key] {
			return fmt.Errorf("duplicate section key: %s", s.Key)
		}
		seen[s.Key] = true
		if s.Key != string(want[i]) {
			return fmt.Errorf("section %d is %q, want %q", i+1, s.Key, want[i])
		}
		if s.Position != i+1 {
			return fmt.Errorf("section %s has position %d, want %d", s.Key, s.Position, i+1)
		}
	}
	for _, t := range r.Tasks {
		if t.TaskType == "" {
			return fmt.Errorf("task missing required field: taskType")
		}
	}
	return nil
}

// Write encodes the registry as indented JSON.
func (r *SectionRegistry) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func LoadRegistry(path string) (*SectionRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg SectionRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse registry %s: %w", path, err)
	}
	return &reg, nil
}

// SaveRegistry writes reg to path, creating the directory if needed.
func SaveRegistry(reg *SectionRegistry, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create registry directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := reg.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
