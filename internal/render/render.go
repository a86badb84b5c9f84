// Package render turns normalized section content into fixed-size HTML pages.
// Rendering is pure apart from the injected clock and never fails: missing
// text falls back to placeholder prose and unknown sections produce a stable
// placeholder page.
package render

import (
	"bytes"
	"embed"
	"html/template"
	"strconv"
	"strings"
	"time"

	"bizplan-workers/internal/businessplan"
	"bizplan-workers/internal/common/metrics"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

var templates = template.Must(template.New("pages").ParseFS(templateFS, "templates/*.gohtml"))

const (
	notFoundTemplate = "not-found"
	unknownLabel     = "unknown"

	// NotFoundText is the body of the page rendered for unknown sections.
	NotFoundText = "Page content not found"
)

// Page is one rendered page.
type Page struct {
	Section    businessplan.SectionKey `json:"section"`
	PageNumber int                     `json:"pageNumber"`
	TotalPages int                     `json:"totalPages"`
	HTML       string                  `json:"html"`
}

// Renderer renders pages. The zero value is not usable; call New.
type Renderer struct {
	now func() time.Time
	md  goldmark.Markdown
}

type Option func(*Renderer)

// WithClock sets the clock used for the cover page year.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) { r.now = now }
}

func New(opts ...Option) *Renderer {
	r := &Renderer{
		now: time.Now,
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(
				gmhtml.WithHardWraps(),
				gmhtml.WithXHTML(),
			),
		),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var defaultRenderer = New()

// Render renders one page with the wall clock.
func Render(key businessplan.SectionKey, content *businessplan.Content, theme businessplan.Theme, pageNumber, totalPages int) Page {
	return defaultRenderer.Render(key, content, theme, pageNumber, totalPages)
}

// Render renders the page for key. Legacy page identifiers are accepted. A nil
// content renders every field empty.
func (r *Renderer) Render(key businessplan.SectionKey, content *businessplan.Content, theme businessplan.Theme, pageNumber, totalPages int) Page {
	page := Page{Section: key, PageNumber: pageNumber, TotalPages: totalPages}
	theme = theme.Merge(businessplan.DefaultTheme())

	sec, ok := lookupSection(key)
	if !ok {
		page.HTML = r.placeholder(theme, pageNumber, totalPages)
		metrics.PagesRenderedTotal.WithLabelValues(unknownLabel).Inc()
		return page
	}
	page.Section = sec.Key
	if content == nil || content.Section != sec.Key {
		content = businessplan.NewContent(sec.Key)
	}

	view := r.buildView(sec, content, theme, pageNumber, totalPages)

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, string(sec.Key), view); err != nil {
		page.HTML = r.placeholder(theme, pageNumber, totalPages)
		metrics.PagesRenderedTotal.WithLabelValues(unknownLabel).Inc()
		return page
	}
	page.HTML = buf.String()
	metrics.PagesRenderedTotal.WithLabelValues(string(sec.Key)).Inc()
	return page
}

func lookupSection(key businessplan.SectionKey) (businessplan.Section, bool) {
	if sec, ok := businessplan.Lookup(key); ok {
		return sec, true
	}
	parsed, err := businessplan.ParseSectionKey(string(key))
	if err != nil {
		return businessplan.Section{}, false
	}
	return businessplan.Lookup(parsed)
}

func (r *Renderer) placeholder(theme businessplan.Theme, pageNumber, totalPages int) string {
	var buf bytes.Buffer
	view := pageView{Key: unknownLabel, Theme: theme, PageNumber: pageNumber, TotalPages: totalPages, Missing: NotFoundText}
	if err := templates.ExecuteTemplate(&buf, notFoundTemplate, view); err != nil {
		return "<article class=\"bp-page\" data-section=\"unknown\"><div class=\"bp-missing\">" + NotFoundText + "</div></article>"
	}
	return buf.String()
}

type pageView struct {
	Key        string
	Title      string
	Subtitle   string
	PageNumber int
	TotalPages int
	Theme      businessplan.Theme
	Missing    string

	Highlights []highlightView
	Blocks     []blockView
	Grids      []gridView

	Cover *coverView

	Contents           []tocView
	ShowPageNumbers    bool
	IncludeSubsections bool

	Team         []memberView
	Stakeholders []stakeholderView
}

type highlightView struct {
	Label string
	Value string
}

type blockView struct {
	Field   string
	Heading string
	Body    template.HTML
}

type gridView struct {
	Field   string
	Heading string
	Cards   []cardView
}

type cardView struct {
	Title  string
	Value  string
	Detail string
	Color  string
}

type coverView struct {
	CompanyName string
	Subtitle    string
	Year        string
	PreparedBy  string
}

type tocView struct {
	Title    string
	Subtitle string
	Page     int
}

type memberView struct {
	Name          string
	Initials      string
	ImageURL      string
	Title         string
	Qualification string
	Ownership     string
	Bio           string
	Role          string
	Email         string
	LinkedIn      string
}

type stakeholderView struct {
	Name       string
	Role       string
	Experience string
	Stake      string
	Email      string
	LinkedIn   string
}

func (r *Renderer) buildView(sec businessplan.Section, c *businessplan.Content, theme businessplan.Theme, pageNumber, totalPages int) pageView {
	v := pageView{
		Key:        string(sec.Key),
		Title:      sec.Title,
		Subtitle:   sec.Subtitle,
		PageNumber: pageNumber,
		TotalPages: totalPages,
		Theme:      theme,
	}

	switch sec.Key {
	case businessplan.CoverPage:
		v.Cover = &coverView{
			CompanyName: orDefault(c.Str("companyName"), "Your Company Name"),
			Subtitle:    orDefault(c.Str("subtitle"), "Business Plan"),
			Year:        orDefault(c.Str("year"), strconv.Itoa(r.now().Year())),
			PreparedBy:  orDefault(c.Str("preparedBy"), "Business Team"),
		}
		v.Grids = buildGrids([]cardGrid{{"statsCards", "", statGrid}}, c)
		return v
	case businessplan.TableOfContents:
		v.ShowPageNumbers = c.Bool("showPageNumbers")
		v.IncludeSubsections = c.Bool("includeSubsections")
		for _, s := range businessplan.Sections()[2:] {
			v.Contents = append(v.Contents, tocView{
				Title:    s.Title,
				Subtitle: s.Subtitle,
				Page:     businessplan.Position(s.Key),
			})
		}
		return v
	case businessplan.OrganizationManagement:
		v.Team = buildTeam(c.CardList("teamMembers"))
		v.Stakeholders = buildStakeholders(c.CardList("stakeholders"))
	}

	l := layouts[sec.Key]
	for _, h := range l.Highlights {
		if val := c.Str(h.Field); val != "" {
			v.Highlights = append(v.Highlights, highlightView{Label: h.Label, Value: val})
		}
	}
	for _, b := range l.Blocks {
		v.Blocks = append(v.Blocks, blockView{
			Field:   b.Field,
			Heading: b.Heading,
			Body:    r.markdown(orDefault(c.Str(b.Field), b.Placeholder)),
		})
	}
	v.Grids = buildGrids(l.Grids, c)
	return v
}

// markdown converts a text block. Raw HTML in the source is omitted.
func (r *Renderer) markdown(text string) template.HTML {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(text), &buf); err != nil {
		return template.HTML("<p>" + template.HTMLEscapeString(text) + "</p>")
	}
	return template.HTML(buf.String())
}

func buildGrids(grids []cardGrid, c *businessplan.Content) []gridView {
	var out []gridView
	for _, g := range grids {
		cards := c.CardList(g.Field)
		if len(cards) == 0 {
			continue
		}
		gv := gridView{Field: g.Field, Heading: g.Heading}
		for _, card := range cards {
			gv.Cards = append(gv.Cards, cardFor(g.Style, card))
		}
		out = append(out, gv)
	}
	return out
}

func cardFor(style gridStyle, c businessplan.Card) cardView {
	switch style {
	case segmentGrid:
		return cardView{Title: orDefault(c.Name, c.Label), Value: c.Value, Detail: c.Percentage, Color: c.Color}
	case featureGrid:
		return cardView{Title: orDefault(c.Name, c.Label), Value: c.Percentage, Detail: c.Description, Color: c.Color}
	case allocationGrid:
		return cardView{Title: orDefault(c.Category, c.Name), Value: orDefault(c.Amount, c.Value), Detail: c.Percentage, Color: c.Color}
	default:
		return cardView{Value: c.Value, Detail: orDefault(c.Label, c.Name)}
	}
}

func buildTeam(members []businessplan.TeamMember) []memberView {
	out := make([]memberView, 0, len(members))
	for _, m := range members {
		mv := memberView{
			Name:          m.FullName(),
			Initials:      m.Initials(),
			ImageURL:      strings.TrimSpace(m.ImageURL),
			Title:         m.Title,
			Qualification: m.Qualification,
			Bio:           orDefault(m.Bio, teamBioPlaceholder),
			Role:          m.Role,
			Email:         m.Email,
			LinkedIn:      m.LinkedIn,
		}
		if m.HasOwnership() {
			mv.Ownership = strconv.FormatFloat(m.Ownership(), 'f', -1, 64) + "%"
		}
		out = append(out, mv)
	}
	return out
}

func buildStakeholders(cards []businessplan.Card) []stakeholderView {
	out := make([]stakeholderView, 0, len(cards))
	for _, c := range cards {
		out = append(out, stakeholderView{
			Name:       c.FullName(),
			Role:       c.Role,
			Experience: c.Experience,
			Stake:      c.Stake,
			Email:      c.Email,
			LinkedIn:   c.LinkedIn,
		})
	}
	return out
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
