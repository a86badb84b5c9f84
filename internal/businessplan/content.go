package businessplan

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cast"
)

// Content is the normalized field set of one section. Every declared field
// holds a value: scalars default to "", booleans to their declared default and
// collections to an empty slice.
type Content struct {
	Section SectionKey
	Text    map[string]string
	Flags   map[string]bool
	Cards   map[string][]Card
}

// NewContent returns content for key with every declared field at its empty
// value.
func NewContent(key SectionKey) *Content {
	c := &Content{
		Section: key,
		Text:    map[string]string{},
		Flags:   map[string]bool{},
		Cards:   map[string][]Card{},
	}
	sec, ok := Lookup(key)
	if !ok {
		return c
	}
	for _, f := range sec.Fields {
		switch f.Kind {
		case KindScalar:
			c.Text[f.Name] = ""
		case KindBool:
			c.Flags[f.Name] = f.Default
		case KindCollection:
			c.Cards[f.Name] = []Card{}
		}
	}
	return c
}

// Str returns a scalar field, "" when absent.
func (c *Content) Str(name string) string {
	if c == nil {
		return ""
	}
	return c.Text[name]
}

// Bool returns a boolean field, falling back to the declared default.
func (c *Content) Bool(name string) bool {
	if c == nil {
		return false
	}
	if v, ok := c.Flags[name]; ok {
		return v
	}
	if sec, ok := Lookup(c.Section); ok {
		if f, ok := sec.Field(name); ok {
			return f.Default
		}
	}
	return false
}

// CardList returns a collection field, never nil.
func (c *Content) CardList(name string) []Card {
	if c == nil || c.Cards[name] == nil {
		return []Card{}
	}
	return c.Cards[name]
}

// MarshalJSON writes a flat object in declared field order.
func (c *Content) MarshalJSON() ([]byte, error) {
	sec, ok := Lookup(c.Section)
	if !ok {
		return nil, fmt.Errorf("unknown section %q", c.Section)
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range sec.Fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, _ := json.Marshal(f.Name)
		buf.Write(name)
		buf.WriteByte(':')

		var val interface{}
		switch f.Kind {
		case KindScalar:
			val = c.Str(f.Name)
		case KindBool:
			val = c.Bool(f.Name)
		case KindCollection:
			val = c.CardList(f.Name)
		}
		b, err := json.Marshal(val)
		if err != nil {
			return nil, fmt.Errorf("marshal %s.%s: %w", c.Section, f.Name, err)
		}
		buf.Write(b)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ContentFromMap rebuilds already-normalized content, for example a document
// handed from one job to the next. It does not apply remote or fallback
// precedence; collections must be arrays.
func ContentFromMap(key SectionKey, m map[string]interface{}) (*Content, error) {
	sec, ok := Lookup(key)
	if !ok {
		return nil, fmt.Errorf("unknown section %q", key)
	}
	c := NewContent(key)
	for _, f := range sec.Fields {
		raw, ok := m[f.Name]
		if !ok || raw == nil {
			continue
		}
		switch f.Kind {
		case KindScalar:
			c.Text[f.Name] = stringify(raw)
		case KindBool:
			b, err := cast.ToBoolE(raw)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", key, f.Name, err)
			}
			c.Flags[f.Name] = b
		case KindCollection:
			cards, err := CardsFromValue(raw)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", key, f.Name, err)
			}
			c.Cards[f.Name] = cards
		}
	}
	return c, nil
}

// Document is the assembled content of all 13 sections.
type Document struct {
	sections map[SectionKey]*Content
}

// NewDocument assembles a document. Sections missing from contents are filled
// with empty content so the result always carries every key.
func NewDocument(contents map[SectionKey]*Content) *Document {
	d := &Document{sections: make(map[SectionKey]*Content, len(sections))}
	for _, key := range Keys() {
		c, ok := contents[key]
		if !ok || c == nil {
			c = NewContent(key)
		}
		d.sections[key] = c
	}
	return d
}

// Section returns the content for key.
func (d *Document) Section(key SectionKey) (*Content, bool) {
	if d == nil {
		return nil, false
	}
	c, ok := d.sections[key]
	return c, ok
}

// Len is the number of sections held.
func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	return len(d.sections)
}

// Keys returns the held section keys in document order.
func (d *Document) Keys() []SectionKey {
	var keys []SectionKey
	for _, key := range Keys() {
		if _, ok := d.sections[key]; ok {
			keys = append(keys, key)
		}
	}
	return keys
}

// MarshalJSON writes the document keyed by camelCase document keys in fixed
// section order.
func (d *Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range d.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		sec, _ := Lookup(key)
		name, _ := json.Marshal(sec.DocumentKey)
		buf.Write(name)
		buf.WriteByte(':')
		b, err := d.sections[key].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON accepts a document keyed by camelCase or kebab section keys.
func (d *Document) UnmarshalJSON(data []byte) error {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	doc, err := DocumentFromMap(raw)
	if err != nil {
		return err
	}
	*d = *doc
	return nil
}

// DocumentFromMap rebuilds a document from a decoded JSON object. Unknown
// keys are rejected.
func DocumentFromMap(raw map[string]interface{}) (*Document, error) {
	contents := make(map[SectionKey]*Content, len(raw))
	for name, v := range raw {
		key, err := ParseSectionKey(name)
		if err != nil {
			return nil, err
		}
		if v == nil {
			contents[key] = NewContent(key)
			continue
		}
		m, err := cast.ToStringMapE(v)
		if err != nil {
			return nil, fmt.Errorf("section %s: expected object, got %T", name, v)
		}
		c, err := ContentFromMap(key, m)
		if err != nil {
			return nil, err
		}
		contents[key] = c
	}
	return NewDocument(contents), nil
}
