// Package importer merges remote section data with caller-supplied fallbacks
// and assembles the full business-plan document.
package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bizplan-workers/internal/businessplan"
	"bizplan-workers/internal/common/logger"
	"bizplan-workers/internal/common/metrics"
	"bizplan-workers/internal/common/observability"
)

var (
	// ErrMalformedFallback means an encoded fallback collection was not valid
	// JSON. It is not recovered from unless the importer is lenient.
	ErrMalformedFallback = errors.New("malformed fallback encoding")
	ErrUnknownSection    = errors.New("unknown section")
	// ErrOrchestration wraps the error of a failed sequential retry.
	ErrOrchestration = errors.New("document import failed")
)

// Fetcher returns a section payload or nil.
type Fetcher interface {
	FetchJSON(ctx context.Context, endpoint string) map[string]interface{}
}

type Importer struct {
	fetcher Fetcher
	logger  logger.Logger
	obs     *observability.Observability
	lenient bool

	// runBatch is the concurrent path of ImportAll.
	runBatch func(ctx context.Context, raw RawInput) (map[businessplan.SectionKey]*businessplan.Content, error)
}

type Option func(*Importer)

func WithLogger(l logger.Logger) Option {
	return func(i *Importer) { i.logger = l }
}

func WithObservability(o *observability.Observability) Option {
	return func(i *Importer) { i.obs = o }
}

// WithLenientFallback turns malformed encoded fallbacks into empty
// collections instead of errors.
func WithLenientFallback() Option {
	return func(i *Importer) { i.lenient = true }
}

func New(fetcher Fetcher, opts ...Option) *Importer {
	i := &Importer{
		fetcher: fetcher,
		logger:  logger.NewNoOpLogger(),
	}
	for _, opt := range opts {
		opt(i)
	}
	i.runBatch = i.importConcurrently
	return i
}

// ImportSection fetches the section's endpoint and merges it with fallback.
// A nil fallback is treated as an empty object.
func (i *Importer) ImportSection(ctx context.Context, key businessplan.SectionKey, fallback map[string]interface{}) (*businessplan.Content, error) {
	sec, ok := businessplan.Lookup(key)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSection, key)
	}
	if fallback == nil {
		fallback = map[string]interface{}{}
	}

	start := time.Now()
	defer func() {
		metrics.SectionImportDuration.WithLabelValues(string(key)).Observe(time.Since(start).Seconds())
	}()

	var remote map[string]interface{}
	if i.fetcher != nil {
		remote = i.fetcher.FetchJSON(ctx, sec.Endpoint())
	}

	r := resolver{remote: remote, fallback: fallback, lenient: i.lenient}
	content, usedRemote, err := r.resolve(sec)
	if err != nil {
		i.logger.Error("section import failed", map[string]interface{}{
			"section": string(key),
			"error":   err.Error(),
		})
		return nil, err
	}

	i.obs.RecordSectionImported(ctx, string(key), remote != nil)
	i.logger.Debug("section imported", map[string]interface{}{
		"section":    string(key),
		"remote":     remote != nil,
		"usedRemote": usedRemote,
	})
	return content, nil
}

// ImportSectionJSON is ImportSection for a fallback given as a JSON object.
func (i *Importer) ImportSectionJSON(ctx context.Context, key businessplan.SectionKey, fallback []byte) (*businessplan.Content, error) {
	var m map[string]interface{}
	if len(fallback) > 0 {
		if err := json.Unmarshal(fallback, &m); err != nil {
			return nil, fmt.Errorf("decode %s fallback: %w", key, err)
		}
	}
	return i.ImportSection(ctx, key, m)
}

func (i *Importer) ImportCoverPage(ctx context.Context, fallback map[string]interface{}) (*businessplan.Content, error) {
	return i.ImportSection(ctx, businessplan.CoverPage, fallback)
}

func (i *Importer) ImportTableOfContents(ctx context.Context, fallback map[string]interface{}) (*businessplan.Content, error) {
	return i.ImportSection(ctx, businessplan.TableOfContents, fallback)
}

func (i *Importer) ImportCompanyDescription(ctx context.Context, fallback map[string]interface{}) (*businessplan.Content, error) {
	return i.ImportSection(ctx, businessplan.CompanyDescription, fallback)
}

func (i *Importer) ImportMarketAnalysis(ctx context.Context, fallback map[string]interface{}) (*businessplan.Content, error) {
	return i.ImportSection(ctx, businessplan.MarketAnalysis, fallback)
}

func (i *Importer) ImportOrganizationManagement(ctx context.Context, fallback map[string]interface{}) (*businessplan.Content, error) {
	return i.ImportSection(ctx, businessplan.OrganizationManagement, fallback)
}

func (i *Importer) ImportProductService(ctx context.Context, fallback map[string]interface{}) (*businessplan.Content, error) {
	return i.ImportSection(ctx, businessplan.ProductService, fallback)
}

func (i *Importer) ImportMarketingSales(ctx context.Context, fallback map[string]interface{}) (*businessplan.Content, error) {
	return i.ImportSection(ctx, businessplan.MarketingSales, fallback)
}

func (i *Importer) ImportFinancialProjections(ctx context.Context, fallback map[string]interface{}) (*businessplan.Content, error) {
	return i.ImportSection(ctx, businessplan.FinancialProjections, fallback)
}

func (i *Importer) ImportFundingRequest(ctx context.Context, fallback map[string]interface{}) (*businessplan.Content, error) {
	return i.ImportSection(ctx, businessplan.FundingRequest, fallback)
}

func (i *Importer) ImportAppendix(ctx context.Context, fallback map[string]interface{}) (*businessplan.Content, error) {
	return i.ImportSection(ctx, businessplan.Appendix, fallback)
}

func (i *Importer) ImportGovernmentPolicy(ctx context.Context, fallback map[string]interface{}) (*businessplan.Content, error) {
	return i.ImportSection(ctx, businessplan.GovernmentPolicy, fallback)
}

func (i *Importer) ImportNGOLandscape(ctx context.Context, fallback map[string]interface{}) (*businessplan.Content, error) {
	return i.ImportSection(ctx, businessplan.NGOLandscape, fallback)
}

func (i *Importer) ImportGrants(ctx context.Context, fallback map[string]interface{}) (*businessplan.Content, error) {
	return i.ImportSection(ctx, businessplan.Grants, fallback)
}
