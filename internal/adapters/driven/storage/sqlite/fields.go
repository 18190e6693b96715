package sqlite

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/leo-dower/ocr-rag-super-charged/internal/core/domain"
)

// Kinds of a stored field value.
const (
	kindText   = "text"
	kindNumber = "number"
	kindDate   = "date"
	kindJSON   = "json"
)

// storedField keeps the key order and Go type of one extracted field.
type storedField struct {
	Name  string          `json:"name"`
	Kind  string          `json:"kind"`
	Value json.RawMessage `json:"value"`
}

func encodeFields(set *domain.ExtractedFieldSet) (string, error) {
	fields := make([]storedField, 0, set.Len())
	for _, name := range set.Keys() {
		v, _ := set.Get(name)

		kind := kindJSON
		switch val := v.(type) {
		case string:
			kind = kindText
		case float64:
			kind = kindNumber
		case time.Time:
			kind = kindDate
			v = val.Format(time.RFC3339Nano)
		}

		raw, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("field %s: %w", name, err)
		}
		fields = append(fields, storedField{Name: name, Kind: kind, Value: raw})
	}

	data, err := json.Marshal(fields)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeFields(docType domain.DocumentType, data string) (*domain.ExtractedFieldSet, error) {
	var fields []storedField
	if err := json.Unmarshal([]byte(data), &fields); err != nil {
		return nil, err
	}

	set := domain.NewExtractedFieldSet(docType)
	for _, f := range fields {
		var value any
		switch f.Kind {
		case kindText:
			var s string
			if err := json.Unmarshal(f.Value, &s); err != nil {
				return nil, fmt.Errorf("field %s: %w", f.Name, err)
			}
			value = s
		case kindNumber:
			var n float64
			if err := json.Unmarshal(f.Value, &n); err != nil {
				return nil, fmt.Errorf("field %s: %w", f.Name, err)
			}
			value = n
		case kindDate:
			var s string
			if err := json.Unmarshal(f.Value, &s); err != nil {
				return nil, fmt.Errorf("field %s: %w", f.Name, err)
			}
			t, err := time.Parse(time.RFC3339Nano, s)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", f.Name, err)
			}
			value = t
		default:
			if err := json.Unmarshal(f.Value, &value); err != nil {
				return nil, fmt.Errorf("field %s: %w", f.Name, err)
			}
		}
		set.Set(f.Name, value)
	}
	return set, nil
}
