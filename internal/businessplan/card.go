package businessplan

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cast"
)

// Card is one tile in a section grid. Stats cards, market segments, product
// features, marketing channels, financial metrics, funding allocations,
// stakeholders and team members all share it; each variant uses a subset.
type Card struct {
	ID          string `json:"id,omitempty"`
	Label       string `json:"label,omitempty"`
	Value       string `json:"value,omitempty"`
	Name        string `json:"name,omitempty"`
	Category    string `json:"category,omitempty"`
	Amount      string `json:"amount,omitempty"`
	Percentage  string `json:"percentage,omitempty"`
	Color       string `json:"color,omitempty"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`

	// People variants (team members, stakeholders).
	FirstName           string   `json:"firstName,omitempty"`
	LastName            string   `json:"lastName,omitempty"`
	Title               string   `json:"title,omitempty"`
	Qualification       string   `json:"qualification,omitempty"`
	OwnershipPercentage *float64 `json:"ownershipPercentage,omitempty"`
	Bio                 string   `json:"bio,omitempty"`
	Role                string   `json:"role,omitempty"`
	Email               string   `json:"email,omitempty"`
	LinkedIn            string   `json:"linkedin,omitempty"`
	ImageURL            string   `json:"imageUrl,omitempty"`
	Stake               string   `json:"stake,omitempty"`
	Experience          string   `json:"experience,omitempty"`
}

// TeamMember is the people variant of Card.
type TeamMember = Card

// cardAttrs lists accepted source keys per attribute, camelCase first.
var cardAttrs = []struct {
	keys []string
	set  func(*Card, string)
}{
	{[]string{"id", "_id"}, func(c *Card, v string) { c.ID = v }},
	{[]string{"label"}, func(c *Card, v string) { c.Label = v }},
	{[]string{"value"}, func(c *Card, v string) { c.Value = v }},
	{[]string{"name"}, func(c *Card, v string) { c.Name = v }},
	{[]string{"category"}, func(c *Card, v string) { c.Category = v }},
	{[]string{"amount"}, func(c *Card, v string) { c.Amount = v }},
	{[]string{"percentage"}, func(c *Card, v string) { c.Percentage = v }},
	{[]string{"color"}, func(c *Card, v string) { c.Color = v }},
	{[]string{"description"}, func(c *Card, v string) { c.Description = v }},
	{[]string{"icon"}, func(c *Card, v string) { c.Icon = v }},
	{[]string{"firstName", "first_name"}, func(c *Card, v string) { c.FirstName = v }},
	{[]string{"lastName", "last_name"}, func(c *Card, v string) { c.LastName = v }},
	{[]string{"title"}, func(c *Card, v string) { c.Title = v }},
	{[]string{"qualification"}, func(c *Card, v string) { c.Qualification = v }},
	{[]string{"bio"}, func(c *Card, v string) { c.Bio = v }},
	{[]string{"role"}, func(c *Card, v string) { c.Role = v }},
	{[]string{"email"}, func(c *Card, v string) { c.Email = v }},
	{[]string{"linkedin", "linkedIn", "linkedin_url"}, func(c *Card, v string) { c.LinkedIn = v }},
	{[]string{"imageUrl", "image_url", "avatar"}, func(c *Card, v string) { c.ImageURL = v }},
	{[]string{"stake"}, func(c *Card, v string) { c.Stake = v }},
	{[]string{"experience"}, func(c *Card, v string) { c.Experience = v }},
}

var ownershipKeys = []string{"ownershipPercentage", "ownership_percentage", "ownership"}

// CardFromMap normalizes a loosely typed object into a Card. Numbers and
// booleans are stringified, snake_case keys are accepted, and unknown keys
// are ignored.
func CardFromMap(m map[string]interface{}) Card {
	var c Card
	for _, attr := range cardAttrs {
		for _, k := range attr.keys {
			raw, ok := m[k]
			if !ok || raw == nil {
				continue
			}
			attr.set(&c, stringify(raw))
			break
		}
	}
	for _, k := range ownershipKeys {
		raw, ok := m[k]
		if !ok || raw == nil || raw == "" {
			continue
		}
		pct, err := cast.ToFloat64E(strings.TrimSuffix(stringify(raw), "%"))
		if err != nil {
			break
		}
		pct = clampPercent(pct)
		c.OwnershipPercentage = &pct
		break
	}
	return c
}

// CardsFromValue normalizes a decoded JSON array. Elements that are not
// objects are skipped.
func CardsFromValue(v interface{}) ([]Card, error) {
	switch items := v.(type) {
	case nil:
		return []Card{}, nil
	case []Card:
		out := make([]Card, len(items))
		copy(out, items)
		return out, nil
	case []map[string]interface{}:
		out := make([]Card, 0, len(items))
		for _, m := range items {
			out = append(out, CardFromMap(m))
		}
		return out, nil
	case []interface{}:
		out := make([]Card, 0, len(items))
		for _, item := range items {
			m, err := cast.ToStringMapE(item)
			if err != nil {
				continue
			}
			out = append(out, CardFromMap(m))
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected array, got %T", v)
	}
}

// DecodeCards decodes a JSON-encoded array of card objects.
func DecodeCards(encoded string) ([]Card, error) {
	var raw interface{}
	if err := json.Unmarshal([]byte(encoded), &raw); err != nil {
		return nil, err
	}
	return CardsFromValue(raw)
}

// FullName joins the name parts, falling back to Name.
func (c Card) FullName() string {
	full := strings.TrimSpace(c.FirstName + " " + c.LastName)
	if full == "" {
		return c.Name
	}
	return full
}

// Initials returns up to two upper-case initials for avatar placeholders.
func (c Card) Initials() string {
	var out []rune
	for _, part := range strings.Fields(c.FullName()) {
		for _, r := range part {
			out = append(out, r)
			break
		}
		if len(out) == 2 {
			break
		}
	}
	return strings.ToUpper(string(out))
}

// HasOwnership reports whether an ownership percentage was supplied.
func (c Card) HasOwnership() bool {
	return c.OwnershipPercentage != nil
}

// Ownership returns the ownership percentage, or 0 when absent.
func (c Card) Ownership() float64 {
	if c.OwnershipPercentage == nil {
		return 0
	}
	return *c.OwnershipPercentage
}

func clampPercent(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}

// stringify renders loose scalars the way a template would print them.
func stringify(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return cast.ToString(t)
	case json.Number:
		return t.String()
	default:
		s, err := cast.ToStringE(v)
		if err != nil {
			b, _ := json.Marshal(v)
			return string(b)
		}
		return s
	}
}

// Stringify is exported for the resolver so scalars and card attributes
// print identically.
func Stringify(v interface{}) string {
	return stringify(v)
}
