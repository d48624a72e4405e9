package descriptor

import "fmt"

// Walk flattens a record tree into plain Go values:
//
//   - Bool, Int32, Float64, Text, String and Blob become bool, int32,
//     float64, string, string and []byte.
//   - UnitFloat and Enum become map[string]any{"type": ..., "value": ...}.
//   - KeyValue becomes a one-entry map keyed by its key.
//   - Object becomes map[string]any{"name", "typename", "values"}, where
//     values merges the children. A repeated key overwrites earlier ones.
//   - List becomes []any.
//   - Discriminated becomes a one-entry map keyed by its tag.
//
// Any other record fails with ErrUnsupportedType.
func Walk(r Record) (any, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: nil record", ErrUnsupportedType)
	}
	switch r.Kind() {
	case KindBool:
		if v, ok := r.(*Bool); ok && v != nil {
			return v.Value, nil
		}
	case KindInt32:
		if v, ok := r.(*Int32); ok && v != nil {
			return v.Value, nil
		}
	case KindFloat64:
		if v, ok := r.(*Float64); ok && v != nil {
			return v.Value, nil
		}
	case KindText:
		if v, ok := r.(*Text); ok && v != nil {
			return v.Value, nil
		}
	case KindString:
		if v, ok := r.(*String); ok && v != nil {
			return v.Value, nil
		}
	case KindBlob:
		if v, ok := r.(*Blob); ok && v != nil {
			return v.Data, nil
		}
	case KindUnitFloat:
		if v, ok := r.(*UnitFloat); ok && v != nil {
			return map[string]any{"type": v.Unit, "value": v.Value}, nil
		}
	case KindEnum:
		if v, ok := r.(*Enum); ok && v != nil {
			return map[string]any{"type": v.Type, "value": v.Value}, nil
		}
	case KindKeyValue:
		if v, ok := r.(*KeyValue); ok && v != nil {
			inner, err := Walk(v.Value)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", v.Key, err)
			}
			return map[string]any{v.Key: inner}, nil
		}
	case KindObject:
		if v, ok := r.(*Object); ok && v != nil {
			return walkObject(v)
		}
	case KindList:
		if v, ok := r.(*List); ok && v != nil {
			out := make([]any, 0, len(v.Items))
			for i, item := range v.Items {
				inner, err := Walk(item)
				if err != nil {
					return nil, fmt.Errorf("item %d: %w", i, err)
				}
				out = append(out, inner)
			}
			return out, nil
		}
	case KindDiscriminated:
		if v, ok := r.(*Discriminated); ok && v != nil {
			inner, err := Walk(v.Value)
			if err != nil {
				return nil, err
			}
			return map[string]any{v.Tag: inner}, nil
		}
	}
	return nil, fmt.Errorf("%w: %T (%v)", ErrUnsupportedType, r, r.Kind())
}

func walkObject(o *Object) (map[string]any, error) {
	values := make(map[string]any, len(o.Children))
	for _, kv := range o.Children {
		if kv == nil {
			return nil, fmt.Errorf("object %q: %w: nil property", o.Class, ErrUnsupportedType)
		}
		inner, err := Walk(kv.Value)
		if err != nil {
			return nil, fmt.Errorf("object %q key %q: %w", o.Class, kv.Key, err)
		}
		values[kv.Key] = inner
	}
	return map[string]any{
		"name":     o.Name,
		"typename": o.Class,
		"values":   values,
	}, nil
}
