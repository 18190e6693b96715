package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"
)

// DateLayout is the layout used when a normalised date is written out.
const DateLayout = "2006-01-02"

// ExtractedFieldSet is the result of field extraction for one document.
// Field values are string, float64 (currency) or time.Time (date); other
// types only appear after AI enrichment. Keys keep insertion order.
type ExtractedFieldSet struct {
	// DocumentType is the type used to select the patterns.
	DocumentType DocumentType

	// Enriched is true when AI fields were merged in.
	Enriched bool

	values map[string]any
	order  []string
}

// NewExtractedFieldSet creates an empty field set for a type.
func NewExtractedFieldSet(t DocumentType) *ExtractedFieldSet {
	return &ExtractedFieldSet{
		DocumentType: t,
		values:       make(map[string]any),
	}
}

// Set stores a value. A new key is appended to the key order.
func (s *ExtractedFieldSet) Set(name string, value any) {
	if s.values == nil {
		s.values = make(map[string]any)
	}
	if _, ok := s.values[name]; !ok {
		s.order = append(s.order, name)
	}
	s.values[name] = value
}

// Get returns a value and whether it is present.
func (s *ExtractedFieldSet) Get(name string) (any, bool) {
	if s == nil {
		return nil, false
	}
	v, ok := s.values[name]
	return v, ok
}

// Keys returns the field names in insertion order.
func (s *ExtractedFieldSet) Keys() []string {
	if s == nil {
		return nil
	}
	keys := make([]string, len(s.order))
	copy(keys, s.order)
	return keys
}

// Len returns the number of fields.
func (s *ExtractedFieldSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Values returns a copy of the fields as a map.
func (s *ExtractedFieldSet) Values() map[string]any {
	out := make(map[string]any, s.Len())
	if s == nil {
		return out
	}
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Merge copies extra into the set, overwriting existing keys. Keys not yet
// present are appended in sorted order so the result is deterministic.
func (s *ExtractedFieldSet) Merge(extra map[string]any) {
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		s.Set(k, extra[k])
	}
}

// Clone returns a deep copy of the key order and a shallow copy of the values.
func (s *ExtractedFieldSet) Clone() *ExtractedFieldSet {
	if s == nil {
		return nil
	}
	c := NewExtractedFieldSet(s.DocumentType)
	c.Enriched = s.Enriched
	for _, k := range s.order {
		c.Set(k, s.values[k])
	}
	return c
}

// Strings returns every field formatted with FormatFieldValue.
func (s *ExtractedFieldSet) Strings() map[string]string {
	out := make(map[string]string, s.Len())
	for _, k := range s.Keys() {
		out[k] = FormatFieldValue(s.values[k])
	}
	return out
}

// MarshalJSON writes the fields as an object in key order.
// Dates are written with DateLayout.
func (s *ExtractedFieldSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range s.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		v := s.values[k]
		if t, ok := v.(time.Time); ok {
			v = t.Format(DateLayout)
		}
		val, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", k, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// FormatFieldValue renders a field value for tables and terminals.
func FormatFieldValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case time.Time:
		return val.Format(DateLayout)
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case fmt.Stringer:
		return val.String()
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	}
}
