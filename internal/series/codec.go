package series

import (
	"encoding/json"
	"fmt"
)

// FromDocument decodes a scenario document fragment into entities. The
// fragment is either a list of entity objects or a single entity
// object; the latter is wrapped into a one-element slice and reported
// as single mode so write-back can unwrap it. Keys named in fields
// decode as point series; "name" becomes the entity name; everything
// else lands in Attrs untouched.
func FromDocument(doc any, fields []string) (entities []Entity, single bool, err error) {
	fieldSet := make(map[string]bool, len(fields))
	for _, f := range fields {
		fieldSet[f] = true
	}

	switch v := doc.(type) {
	case nil:
		return nil, false, nil
	case []any:
		entities = make([]Entity, 0, len(v))
		for i, item := range v {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, false, fmt.Errorf("entity %d: expected object, got %T", i, item)
			}
			e, err := decodeEntity(m, fieldSet)
			if err != nil {
				return nil, false, fmt.Errorf("entity %d: %w", i, err)
			}
			entities = append(entities, e)
		}
		return entities, false, nil
	case map[string]any:
		e, err := decodeEntity(v, fieldSet)
		if err != nil {
			return nil, false, err
		}
		return []Entity{e}, true, nil
	default:
		return nil, false, fmt.Errorf("expected object or list, got %T", doc)
	}
}

// ToDocument encodes one entity back into its document form. Series
// named in fields are emitted as point lists; attributes pass through.
func ToDocument(e Entity, fields []string) map[string]any {
	m := make(map[string]any, len(e.Attrs)+len(fields)+1)
	if e.Name != "" {
		m["name"] = e.Name
	}
	for k, v := range e.Attrs {
		m[k] = v
	}
	for _, f := range fields {
		if pts := e.Points(f); pts != nil {
			m[f] = pts
		}
	}
	return m
}

func decodeEntity(m map[string]any, fieldSet map[string]bool) (Entity, error) {
	e := Entity{
		Attrs:  make(map[string]any),
		Series: make(map[string][]Point),
	}
	for k, v := range m {
		switch {
		case k == "name":
			if s, ok := v.(string); ok {
				e.Name = s
			}
		case fieldSet[k]:
			pts, err := decodePoints(v)
			if err != nil {
				return Entity{}, fmt.Errorf("series %q: %w", k, err)
			}
			e.Series[k] = pts
		default:
			e.Attrs[k] = v
		}
	}
	return e, nil
}

// decodePoints converts an untyped point list through its JSON form.
// Documents arrive as generic maps after storage round-trips; the
// serialized shape is the contract.
func decodePoints(v any) ([]Point, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var pts []Point
	if err := json.Unmarshal(b, &pts); err != nil {
		return nil, err
	}
	SortPoints(pts)
	return pts, nil
}
