package businessplan

// Theme is the presentation theme handed to the renderer.
type Theme struct {
	Name       string `json:"name" yaml:"name"`
	Primary    string `json:"primary" yaml:"primary"`
	Accent     string `json:"accent" yaml:"accent"`
	Text       string `json:"text" yaml:"text"`
	Background string `json:"background" yaml:"background"`
	FontFamily string `json:"fontFamily" yaml:"fontFamily"`
}

// DefaultTheme is the stock blue/amber theme.
func DefaultTheme() Theme {
	return Theme{
		Name:       "canbiz",
		Primary:    "#1e3a8a",
		Accent:     "#f59e0b",
		Text:       "#1f2937",
		Background: "#ffffff",
		FontFamily: "Inter, Helvetica, Arial, sans-serif",
	}
}

// Merge returns t with empty values taken from base.
func (t Theme) Merge(base Theme) Theme {
	pick := func(v, def string) string {
		if v == "" {
			return def
		}
		return v
	}
	return Theme{
		Name:       pick(t.Name, base.Name),
		Primary:    pick(t.Primary, base.Primary),
		Accent:     pick(t.Accent, base.Accent),
		Text:       pick(t.Text, base.Text),
		Background: pick(t.Background, base.Background),
		FontFamily: pick(t.FontFamily, base.FontFamily),
	}
}
