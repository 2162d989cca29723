package atomicassets

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// extract walks the envelope's data along path and decodes the value found
// into out. Path elements are object keys (string) or array indices (int).
func extract(env *Envelope, out any, path ...any) error {
	raw, err := walk(env.Data, path...)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &LookupError{Path: renderPath(path), Err: err}
	}
	return nil
}

func walk(raw json.RawMessage, path ...any) (json.RawMessage, error) {
	if len(raw) == 0 {
		return nil, &LookupError{Path: "data", Err: ErrMissingField}
	}

	cur := raw
	for i, step := range path {
		switch s := step.(type) {
		case string:
			var obj map[string]json.RawMessage
			if err := json.Unmarshal(cur, &obj); err != nil {
				return nil, &LookupError{Path: renderPath(path[:i+1]), Err: fmt.Errorf("%w: not an object", ErrMissingField)}
			}
			next, ok := obj[s]
			if !ok {
				return nil, &LookupError{Path: renderPath(path[:i+1]), Err: ErrMissingField}
			}
			cur = next
		case int:
			var arr []json.RawMessage
			if err := json.Unmarshal(cur, &arr); err != nil {
				return nil, &LookupError{Path: renderPath(path[:i+1]), Err: fmt.Errorf("%w: not an array", ErrMissingField)}
			}
			if s < 0 || s >= len(arr) {
				return nil, &LookupError{Path: renderPath(path[:i+1]), Err: ErrNoData}
			}
			cur = arr[s]
		default:
			panic(fmt.Sprintf("atomicassets: unsupported path element %T", step))
		}
	}
	return cur, nil
}

func renderPath(path []any) string {
	var b strings.Builder
	b.WriteString("data")
	for _, step := range path {
		switch s := step.(type) {
		case string:
			b.WriteByte('.')
			b.WriteString(s)
		case int:
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(s))
			b.WriteByte(']')
		}
	}
	return b.String()
}
