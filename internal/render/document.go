package render

import (
	"fmt"
	"html/template"
	"io"

	"bizplan-workers/internal/businessplan"
)

// RenderDocument renders all 13 sections in document order.
func RenderDocument(doc *businessplan.Document, theme businessplan.Theme) []Page {
	return defaultRenderer.RenderDocument(doc, theme)
}

// WriteHTML writes pages as one standalone HTML file.
func WriteHTML(w io.Writer, title string, theme businessplan.Theme, pages []Page) error {
	return defaultRenderer.WriteHTML(w, title, theme, pages)
}

func (r *Renderer) RenderDocument(doc *businessplan.Document, theme businessplan.Theme) []Page {
	return r.RenderSections(doc, theme, businessplan.Keys())
}

// RenderSections renders the given sections only. Page numbers stay the
// sections' positions in the full document.
func (r *Renderer) RenderSections(doc *businessplan.Document, theme businessplan.Theme, keys []businessplan.SectionKey) []Page {
	total := len(businessplan.Keys())
	pages := make([]Page, 0, len(keys))
	for _, key := range keys {
		content, _ := doc.Section(key)
		pos := businessplan.Position(key)
		if pos == 0 {
			pos = len(pages) + 1
		}
		pages = append(pages, r.Render(key, content, theme, pos, total))
	}
	return pages
}

type documentView struct {
	Title string
	Theme businessplan.Theme
	Pages []template.HTML
}

func (r *Renderer) WriteHTML(w io.Writer, title string, theme businessplan.Theme, pages []Page) error {
	view := documentView{
		Title: title,
		Theme: theme.Merge(businessplan.DefaultTheme()),
		Pages: make([]template.HTML, len(pages)),
	}
	if view.Title == "" {
		view.Title = "Business Plan"
	}
	for i, p := range pages {
		// Page HTML was produced by the escaping templates above.
		view.Pages[i] = template.HTML(p.HTML)
	}
	if err := templates.ExecuteTemplate(w, "document", view); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}
