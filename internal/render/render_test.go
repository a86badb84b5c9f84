package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"bizplan-workers/internal/businessplan"
	"bizplan-workers/internal/common/metrics"

	"github.com/PuerkitoBio/goquery"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================================
// Helpers
// ==========================================

func fixedClock() func() time.Time {
	return func() time.Time { return time.Date(2031, time.March, 4, 10, 0, 0, 0, time.UTC) }
}

func mustContent(t *testing.T, key businessplan.SectionKey, m map[string]interface{}) *businessplan.Content {
	t.Helper()
	c, err := businessplan.ContentFromMap(key, m)
	require.NoError(t, err)
	return c
}

func parse(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func renderPage(t *testing.T, key businessplan.SectionKey, m map[string]interface{}) (Page, *goquery.Document) {
	t.Helper()
	r := New(WithClock(fixedClock()))
	var c *businessplan.Content
	if m != nil {
		c = mustContent(t, key, m)
	}
	p := r.Render(key, c, businessplan.DefaultTheme(), businessplan.Position(key), 13)
	return p, parse(t, p.HTML)
}

// ==========================================
// Cover page
// ==========================================

func TestRender_CoverPageWithEmptyStats(t *testing.T) {
	p, doc := renderPage(t, businessplan.CoverPage, map[string]interface{}{
		"companyName": "Acme",
		"statsCards":  []interface{}{},
	})

	assert.Contains(t, p.HTML, "Acme")
	assert.Equal(t, "Acme", doc.Find(".cover-title").Text())
	assert.Zero(t, doc.Find(".card-grid").Length())
	assert.Zero(t, doc.Find(".card").Length())
}

func TestRender_CoverPageDefaults(t *testing.T) {
	_, doc := renderPage(t, businessplan.CoverPage, nil)

	assert.Equal(t, "Your Company Name", doc.Find(".cover-title").Text())
	assert.Equal(t, "Business Plan", doc.Find(".cover-subtitle").Text())
	assert.Equal(t, "2031", doc.Find(".cover-year").Text())
	assert.Equal(t, "Business Team", doc.Find(".cover-prepared-by").Text())
}

func TestRender_CoverPageIsDeterministicForFixedClock(t *testing.T) {
	r := New(WithClock(fixedClock()))
	a := r.Render(businessplan.CoverPage, nil, businessplan.Theme{}, 1, 13)
	b := r.Render(businessplan.CoverPage, nil, businessplan.Theme{}, 1, 13)
	assert.Equal(t, a.HTML, b.HTML)
}

func TestRender_CoverPageStatsGrid(t *testing.T) {
	_, doc := renderPage(t, businessplan.CoverPage, map[string]interface{}{
		"year": "2025",
		"statsCards": []interface{}{
			map[string]interface{}{"label": "Customers", "value": "1,200"},
			map[string]interface{}{"label": "Markets", "value": 4},
		},
	})

	assert.Equal(t, "2025", doc.Find(".cover-year").Text())
	require.Equal(t, 2, doc.Find(".card").Length())
	assert.Equal(t, "1,200", doc.Find(".card .card-value").First().Text())
	assert.Equal(t, "Customers", doc.Find(".card .card-detail").First().Text())
}

func TestRender_EscapesContent(t *testing.T) {
	p, doc := renderPage(t, businessplan.CoverPage, map[string]interface{}{
		"companyName": "<b>Acme</b>",
	})

	assert.Zero(t, doc.Find(".cover-title b").Length())
	assert.Equal(t, "<b>Acme</b>", doc.Find(".cover-title").Text())
	assert.NotContains(t, p.HTML, "<b>Acme</b>")
}

// ==========================================
// Table of contents
// ==========================================

func TestRender_TableOfContents(t *testing.T) {
	tests := []struct {
		name          string
		content       map[string]interface{}
		wantPages     bool
		wantSubtitles bool
	}{
		{
			name:      "defaults",
			content:   nil,
			wantPages: true,
		},
		{
			name:          "page numbers hidden, subsections shown",
			content:       map[string]interface{}{"showPageNumbers": false, "includeSubsections": true},
			wantPages:     false,
			wantSubtitles: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, doc := renderPage(t, businessplan.TableOfContents, tt.content)

			entries := doc.Find(".toc-entry")
			require.Equal(t, 11, entries.Length())
			assert.Equal(t, "Company Description", entries.First().Find(".toc-title").Text())
			assert.Equal(t, "Grants & Funding", entries.Last().Find(".toc-title").Text())

			if tt.wantPages {
				assert.Equal(t, 11, doc.Find(".toc-page").Length())
				assert.Equal(t, "3", entries.First().Find(".toc-page").Text())
				assert.Equal(t, "13", entries.Last().Find(".toc-page").Text())
			} else {
				assert.Zero(t, doc.Find(".toc-page").Length())
			}

			if tt.wantSubtitles {
				assert.Equal(t, "Foundation & Vision", entries.First().Find(".toc-subtitle").Text())
			} else {
				assert.Zero(t, doc.Find(".toc-subtitle").Length())
			}
		})
	}
}

// ==========================================
// Text pages
// ==========================================

func TestRender_PlaceholderProse(t *testing.T) {
	_, doc := renderPage(t, businessplan.CompanyDescription, nil)

	blocks := doc.Find(".bp-block")
	require.Equal(t, 5, blocks.Length())
	assert.Equal(t, "Legal Structure", blocks.First().Find("h3").Text())
	assert.Contains(t, blocks.First().Find(".bp-text").Text(), "Our company operates as a [legal structure]")
	assert.Zero(t, doc.Find(".card-grid").Length())
}

func TestRender_TextBlocksUseMarkdown(t *testing.T) {
	p, doc := renderPage(t, businessplan.MarketAnalysis, map[string]interface{}{
		"industryAnalysis": "Growth is **strong**",
		"targetMarket":     "<script>alert(1)</script>",
	})

	assert.Equal(t, "strong", doc.Find(`[data-field="industryAnalysis"] strong`).Text())
	assert.Zero(t, doc.Find("script").Length())
	assert.NotContains(t, p.HTML, "alert(1)</script>")
}

func TestRender_HighlightsOnlyWhenSet(t *testing.T) {
	_, doc := renderPage(t, businessplan.MarketAnalysis, map[string]interface{}{
		"totalMarket": "$4.2B",
	})
	require.Equal(t, 1, doc.Find(".bp-highlight").Length())
	assert.Equal(t, "$4.2B", doc.Find(".bp-highlight-value").Text())
	assert.Equal(t, "Total Market", doc.Find(".bp-highlight-label").Text())

	_, empty := renderPage(t, businessplan.FinancialProjections, nil)
	assert.Zero(t, empty.Find(".bp-highlights").Length())
}

func TestRender_CardGridStyles(t *testing.T) {
	_, doc := renderPage(t, businessplan.FundingRequest, map[string]interface{}{
		"fundingAllocation": []interface{}{
			map[string]interface{}{"category": "R&D", "amount": "$200K", "percentage": "40%", "color": "#3b82f6"},
		},
	})

	grid := doc.Find(`[data-field="fundingAllocation"]`)
	require.Equal(t, 1, grid.Length())
	assert.Equal(t, "Funding Allocation", grid.Find("h3").Text())
	assert.Equal(t, "R&D", grid.Find(".card-title").Text())
	assert.Equal(t, "$200K", grid.Find(".card-value").Text())
	assert.Equal(t, "40%", grid.Find(".card-detail").Text())
	style, _ := grid.Find(".card-value").Attr("style")
	assert.Contains(t, style, "#3b82f6")
}

// ==========================================
// Organization
// ==========================================

func TestRender_TeamMembers(t *testing.T) {
	_, doc := renderPage(t, businessplan.OrganizationManagement, map[string]interface{}{
		"teamMembers": []interface{}{
			map[string]interface{}{
				"firstName":           "Ada",
				"lastName":            "Lovelace",
				"title":               "CTO",
				"ownershipPercentage": 25,
				"role":                "founder",
				"email":               "ada@example.com",
			},
			map[string]interface{}{
				"firstName": "Grace",
				"lastName":  "Hopper",
				"imageUrl":  "https://cdn.example.com/grace.png",
				"bio":       "Compiler pioneer.",
			},
		},
	})

	cards := doc.Find(".team-card")
	require.Equal(t, 2, cards.Length())

	ada := cards.Eq(0)
	assert.Equal(t, "AL", ada.Find(".initials").Text())
	assert.Zero(t, ada.Find("img").Length())
	assert.Equal(t, "Ada Lovelace", ada.Find(".member-name").Text())
	assert.Equal(t, "25%", ada.Find(".ownership-value").Text())
	assert.Equal(t, teamBioPlaceholder, ada.Find(".member-bio").Text())
	assert.Equal(t, "ada@example.com", ada.Find(".member-email").Text())

	grace := cards.Eq(1)
	src, ok := grace.Find("img.avatar-image").Attr("src")
	require.True(t, ok)
	assert.Equal(t, "https://cdn.example.com/grace.png", src)
	assert.Zero(t, grace.Find(".initials").Length())
	assert.Zero(t, grace.Find(".ownership").Length())
	assert.Equal(t, "Compiler pioneer.", grace.Find(".member-bio").Text())

	assert.Zero(t, doc.Find(".stakeholder-card").Length())
}

func TestRender_Stakeholders(t *testing.T) {
	_, doc := renderPage(t, businessplan.OrganizationManagement, map[string]interface{}{
		"stakeholders": []interface{}{
			map[string]interface{}{"name": "Seed Fund", "role": "Investor", "stake": "10%"},
		},
	})

	require.Equal(t, 1, doc.Find(".stakeholder-card").Length())
	assert.Equal(t, "Seed Fund", doc.Find(".stakeholder-name").Text())
	assert.Equal(t, "Stake: 10%", doc.Find(".stakeholder-stake").Text())
	assert.Zero(t, doc.Find(".team-card").Length())
}

func TestRender_PageCarriesTheme(t *testing.T) {
	r := New(WithClock(fixedClock()))
	teal := businessplan.Theme{Primary: "#0f766e", Accent: "#f97316"}
	plum := businessplan.Theme{Primary: "#6b21a8", Accent: "#facc15"}

	for _, key := range []businessplan.SectionKey{businessplan.CoverPage, businessplan.MarketAnalysis, "pricing-matrix"} {
		a := r.Render(key, nil, teal, 1, 13)
		b := r.Render(key, nil, plum, 1, 13)
		assert.NotEqual(t, a.HTML, b.HTML, key)

		style, ok := parse(t, a.HTML).Find("article.bp-page").Attr("style")
		require.True(t, ok, key)
		assert.Contains(t, style, "--bp-primary: #0f766e")
		assert.Contains(t, style, "--bp-accent: #f97316")
		assert.Contains(t, style, "--bp-background: #ffffff")

		style, _ = parse(t, b.HTML).Find("article.bp-page").Attr("style")
		assert.Contains(t, style, "--bp-primary: #6b21a8")
	}
}

// ==========================================
// Unknown sections, legacy ids and footer
// ==========================================

func TestRender_UnknownSection(t *testing.T) {
	r := New(WithClock(fixedClock()))
	a := r.Render("pricing-matrix", nil, businessplan.DefaultTheme(), 4, 13)
	b := r.Render("pricing-matrix", nil, businessplan.DefaultTheme(), 4, 13)

	assert.Equal(t, a.HTML, b.HTML)
	assert.Contains(t, a.HTML, NotFoundText)
	assert.Equal(t, businessplan.SectionKey("pricing-matrix"), a.Section)
	assert.Equal(t, "Page 4 of 13", parse(t, a.HTML).Find(".bp-footer").Text())
}

func TestRender_LegacyIdentifiers(t *testing.T) {
	p := Render("service-product-line", nil, businessplan.DefaultTheme(), 6, 13)

	assert.Equal(t, businessplan.ProductService, p.Section)
	assert.Equal(t, "Service or Product Line", parse(t, p.HTML).Find(".page-title").Text())
}

func TestRender_Footer(t *testing.T) {
	_, doc := renderPage(t, businessplan.MarketingSales, nil)
	assert.Equal(t, "Page 7 of 13", doc.Find(".bp-footer").Text())
}

func TestRender_CountsPages(t *testing.T) {
	before := testutil.ToFloat64(metrics.PagesRenderedTotal.WithLabelValues(string(businessplan.Grants)))
	Render(businessplan.Grants, nil, businessplan.DefaultTheme(), 13, 13)
	after := testutil.ToFloat64(metrics.PagesRenderedTotal.WithLabelValues(string(businessplan.Grants)))
	assert.Equal(t, before+1, after)
}

// ==========================================
// Documents
// ==========================================

func TestRenderDocument(t *testing.T) {
	r := New(WithClock(fixedClock()))
	pages := r.RenderDocument(businessplan.NewDocument(nil), businessplan.DefaultTheme())

	require.Len(t, pages, 13)
	for i, p := range pages {
		assert.Equal(t, i+1, p.PageNumber)
		assert.Equal(t, 13, p.TotalPages)
		assert.NotContains(t, p.HTML, NotFoundText)
	}
	assert.Equal(t, businessplan.CoverPage, pages[0].Section)
	assert.Equal(t, businessplan.Grants, pages[12].Section)
}

func TestRenderSections_KeepsDocumentPositions(t *testing.T) {
	r := New()
	pages := r.RenderSections(nil, businessplan.Theme{}, []businessplan.SectionKey{businessplan.Appendix})

	require.Len(t, pages, 1)
	assert.Equal(t, 10, pages[0].PageNumber)
	assert.Equal(t, "Page 10 of 13", parse(t, pages[0].HTML).Find(".bp-footer").Text())
}

func TestWriteHTML(t *testing.T) {
	r := New(WithClock(fixedClock()))
	pages := r.RenderDocument(businessplan.NewDocument(nil), businessplan.Theme{Primary: "#123456"})

	var buf bytes.Buffer
	require.NoError(t, r.WriteHTML(&buf, "Acme Plan", businessplan.Theme{Primary: "#123456"}, pages))

	doc := parse(t, buf.String())
	assert.Equal(t, "Acme Plan", doc.Find("title").Text())
	assert.Equal(t, 13, doc.Find(".page-box").Length())
	assert.Equal(t, 13, doc.Find(".page-box > article.bp-page").Length())
	style := doc.Find("style").Text()
	assert.Contains(t, style, "140mm")
	assert.Contains(t, style, "198mm")
	assert.Contains(t, style, "#123456")
}
