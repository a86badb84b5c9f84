package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"

	"bizplan-workers/internal/businessplan"
	"bizplan-workers/internal/common/metrics"

	"github.com/spf13/cast"
	"golang.org/x/sync/errgroup"
)

// Execution paths reported by ImportAll.
const (
	PathConcurrent = "concurrent"
	PathSequential = "sequential"
)

// RawInput holds the caller's fallback object per section.
type RawInput map[businessplan.SectionKey]map[string]interface{}

// ParseRawInput accepts section objects keyed by camelCase document keys or
// kebab keys. A null section is treated as an empty object.
func ParseRawInput(m map[string]interface{}) (RawInput, error) {
	raw := make(RawInput, len(m))
	for name, v := range m {
		key, err := businessplan.ParseSectionKey(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownSection, name)
		}
		if v == nil {
			raw[key] = map[string]interface{}{}
			continue
		}
		obj, err := cast.ToStringMapE(v)
		if err != nil {
			return nil, fmt.Errorf("section %s: expected object, got %T", name, v)
		}
		raw[key] = obj
	}
	return raw, nil
}

// UnmarshalJSON decodes a document-shaped JSON object.
func (r *RawInput) UnmarshalJSON(data []byte) error {
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	parsed, err := ParseRawInput(m)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Result is a document together with the path that produced it.
type Result struct {
	Document *businessplan.Document
	Path     string
}

// ImportAll imports all sections concurrently. If the batch fails it logs
// the failure and imports every section again, one at a time in document
// order, returning that result instead.
func (i *Importer) ImportAll(ctx context.Context, raw RawInput) (*businessplan.Document, error) {
	res, err := i.ImportAllWithPath(ctx, raw)
	if err != nil {
		return nil, err
	}
	return res.Document, nil
}

// ImportAllWithPath is ImportAll that also reports which path succeeded.
func (i *Importer) ImportAllWithPath(ctx context.Context, raw RawInput) (*Result, error) {
	contents, err := i.runBatch(ctx, raw)
	if err == nil {
		metrics.DocumentImportsTotal.WithLabelValues(PathConcurrent, "ok").Inc()
		return &Result{Document: businessplan.NewDocument(contents), Path: PathConcurrent}, nil
	}

	metrics.DocumentImportsTotal.WithLabelValues(PathConcurrent, "failed").Inc()
	i.logger.Warn("concurrent import failed, falling back to sequential", map[string]interface{}{
		"error": err.Error(),
	})

	contents, err = i.importSequentially(ctx, raw)
	if err != nil {
		metrics.DocumentImportsTotal.WithLabelValues(PathSequential, "failed").Inc()
		i.logger.Error("sequential import failed", map[string]interface{}{"error": err.Error()})
		return nil, fmt.Errorf("%w: %w", ErrOrchestration, err)
	}
	metrics.DocumentImportsTotal.WithLabelValues(PathSequential, "ok").Inc()
	return &Result{Document: businessplan.NewDocument(contents), Path: PathSequential}, nil
}

// importConcurrently runs one goroutine per section. The group context is not
// passed to the fetches so a failing section never cancels its siblings.
func (i *Importer) importConcurrently(ctx context.Context, raw RawInput) (map[businessplan.SectionKey]*businessplan.Content, error) {
	keys := businessplan.Keys()
	results := make([]*businessplan.Content, len(keys))

	var g errgroup.Group
	for idx, key := range keys {
		g.Go(func() (err error) {
			defer recoverInto(key, &err)
			c, err := i.ImportSection(ctx, key, raw[key])
			if err != nil {
				return err
			}
			results[idx] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[businessplan.SectionKey]*businessplan.Content, len(keys))
	for idx, key := range keys {
		out[key] = results[idx]
	}
	return out, nil
}

func (i *Importer) importSequentially(ctx context.Context, raw RawInput) (map[businessplan.SectionKey]*businessplan.Content, error) {
	out := make(map[businessplan.SectionKey]*businessplan.Content, 13)
	for _, key := range businessplan.Keys() {
		c, err := i.importOne(ctx, key, raw[key])
		if err != nil {
			return nil, err
		}
		out[key] = c
	}
	return out, nil
}

func (i *Importer) importOne(ctx context.Context, key businessplan.SectionKey, fallback map[string]interface{}) (c *businessplan.Content, err error) {
	defer recoverInto(key, &err)
	return i.ImportSection(ctx, key, fallback)
}

func recoverInto(key businessplan.SectionKey, err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("section %s panicked: %v\n%s", key, r, debug.Stack())
	}
}
