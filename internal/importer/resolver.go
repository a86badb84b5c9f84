package importer

import (
	"fmt"
	"strings"

	"bizplan-workers/internal/businessplan"
)

// source says which tier supplied a resolved value.
type source int

const (
	fromDefault source = iota
	fromRemote
	fromFallback
)

// fieldError is a fallback value that could not be decoded.
type fieldError struct {
	field string
	err   error
}

// resolver merges one section: remote payload, then caller fallback, then the
// field's empty value. remote may be nil.
type resolver struct {
	remote   map[string]interface{}
	fallback map[string]interface{}
	lenient  bool
}

// remoteValue returns the remote value for f. An alias only counts when it is
// truthy; otherwise the canonical key is consulted.
func (r resolver) remoteValue(f businessplan.FieldSpec) (interface{}, bool) {
	if r.remote == nil {
		return nil, false
	}
	for _, k := range f.RemoteAliases {
		if v := r.remote[k]; truthy(v) {
			return v, true
		}
	}
	if v, ok := r.remote[f.Name]; ok && v != nil {
		return v, true
	}
	return nil, false
}

// scalar: remote if truthy, fallback if truthy, else "".
func (r resolver) scalar(f businessplan.FieldSpec) (string, source) {
	if v, ok := r.remoteValue(f); ok && truthy(v) {
		return businessplan.Stringify(v), fromRemote
	}
	if v, ok := r.fallback[f.Name]; ok && truthy(v) {
		return businessplan.Stringify(v), fromFallback
	}
	return "", fromDefault
}

// boolean: a defined remote value wins, including false. The fallback is the
// text "true"/"false"; anything else leaves the declared default.
func (r resolver) boolean(f businessplan.FieldSpec) (bool, source) {
	if v, ok := r.remoteValue(f); ok {
		if b, ok := parseBool(v); ok {
			return b, fromRemote
		}
	}
	if v, ok := r.fallback[f.Name]; ok {
		if b, ok := parseBool(v); ok {
			return b, fromFallback
		}
	}
	return f.Default, fromDefault
}

// collection: a remote array wins even when empty. A remote string is decoded
// leniently. The fallback may be an encoded string or an array; a malformed
// encoded string is an error unless the resolver is lenient.
func (r resolver) collection(f businessplan.FieldSpec) ([]businessplan.Card, source, *fieldError) {
	if v, ok := r.remoteValue(f); ok {
		switch rv := v.(type) {
		case []interface{}, []map[string]interface{}:
			cards, err := businessplan.CardsFromValue(rv)
			if err == nil {
				return cards, fromRemote, nil
			}
		case string:
			if strings.TrimSpace(rv) != "" {
				if cards, err := businessplan.DecodeCards(rv); err == nil {
					return cards, fromRemote, nil
				}
			}
		}
	}

	switch fv := r.fallback[f.Name].(type) {
	case string:
		if fv == "" {
			break
		}
		cards, err := businessplan.DecodeCards(fv)
		if err != nil {
			if r.lenient {
				return []businessplan.Card{}, fromDefault, nil
			}
			return nil, fromDefault, &fieldError{field: f.Name, err: err}
		}
		return cards, fromFallback, nil
	case []interface{}, []map[string]interface{}, []businessplan.Card:
		cards, err := businessplan.CardsFromValue(fv)
		if err == nil {
			return cards, fromFallback, nil
		}
	}
	return []businessplan.Card{}, fromDefault, nil
}

// truthy mirrors loose truthiness: nil, "", 0 and false are absent.
func truthy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case float64:
		return t != 0
	case float32:
		return t != 0
	case int:
		return t != 0
	case int64:
		return t != 0
	case int32:
		return t != 0
	default:
		return true
	}
}

func parseBool(v interface{}) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		switch strings.TrimSpace(strings.ToLower(t)) {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	}
	return false, false
}

// resolve builds the content for sec. It returns the first decode failure.
func (r resolver) resolve(sec businessplan.Section) (*businessplan.Content, bool, error) {
	c := businessplan.NewContent(sec.Key)
	usedRemote := false
	for _, f := range sec.Fields {
		var src source
		switch f.Kind {
		case businessplan.KindScalar:
			c.Text[f.Name], src = r.scalar(f)
		case businessplan.KindBool:
			c.Flags[f.Name], src = r.boolean(f)
		case businessplan.KindCollection:
			cards, s, ferr := r.collection(f)
			if ferr != nil {
				return nil, false, fmt.Errorf("%w: %s.%s: %v", ErrMalformedFallback, sec.Key, ferr.field, ferr.err)
			}
			c.Cards[f.Name], src = cards, s
		}
		usedRemote = usedRemote || src == fromRemote
	}
	return c, usedRemote, nil
}
