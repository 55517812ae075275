package homework

import "fmt"

// HomeworksKey is the only top-level key the validator looks at.
const HomeworksKey = "homeworks"

// Validate checks the container shape of a decoded API response and returns
// the raw entries under "homeworks". Entries are not inspected here; an
// empty slice means there was no update.
func Validate(raw any) ([]any, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, &ShapeError{Reason: fmt.Sprintf("top level is %s, want object", kindOf(raw))}
	}
	v, ok := obj[HomeworksKey]
	if !ok {
		return nil, &ShapeError{Reason: fmt.Sprintf("key %q is missing", HomeworksKey)}
	}
	list, ok := v.([]any)
	if !ok {
		return nil, &ShapeError{Reason: fmt.Sprintf("%q is %s, want array", HomeworksKey, kindOf(v))}
	}
	if len(list) == 0 {
		return []any{}, nil
	}
	return list, nil
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "bool"
	case float64, int, int64:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}
