package atomicassets

import (
	"fmt"
	"strconv"
	"strings"
)

// Arg is an optional filter forwarded to the API as a query parameter,
// e.g. A("limit", 100) or A("is_transferable", true).
type Arg struct {
	Key   string
	Value any
}

// A is shorthand for Arg{Key: key, Value: value}.
func A(key string, value any) Arg {
	return Arg{Key: key, Value: value}
}

// normalizeArgs converts caller arguments into query parameters, rendering
// every value as text. Unsupported value types are rejected.
func normalizeArgs(args ...Arg) (Params, error) {
	var p Params
	for _, a := range args {
		s, err := stringifyArg(a)
		if err != nil {
			return Params{}, err
		}
		p.Set(a.Key, s)
	}
	return p, nil
}

// withRequired validates the required arguments and sets them after the
// optional ones, so a required value always wins.
func withRequired(args []Arg, required ...Arg) (Params, error) {
	p, err := normalizeArgs(args...)
	if err != nil {
		return Params{}, err
	}
	for _, r := range required {
		s, err := stringifyArg(r)
		if err != nil {
			return Params{}, err
		}
		p.Set(r.Key, s)
	}
	return p, nil
}

func stringifyArg(a Arg) (string, error) {
	if a.Key == "" {
		return "", &ArgumentError{Key: a.Key, Value: a.Value}
	}

	switch v := a.Value.(type) {
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case int:
		return strconv.Itoa(v), nil
	case int8, int16, int32, int64:
		return fmt.Sprintf("%d", v), nil
	case uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v), nil
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case []string:
		return strings.Join(v, ","), nil
	case []int64:
		parts := make([]string, len(v))
		for i, n := range v {
			parts[i] = strconv.FormatInt(n, 10)
		}
		return strings.Join(parts, ","), nil
	case fmt.Stringer:
		return v.String(), nil
	default:
		return "", &ArgumentError{Key: a.Key, Value: a.Value}
	}
}
