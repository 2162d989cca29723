package atomicassets

import (
	"fmt"
	"strconv"
	"strings"
)

// Param is a single query parameter.
type Param struct {
	Key   string
	Value any
}

// Params is an ordered set of query parameters. Keys are unique; setting an
// existing key replaces its value and keeps its position.
type Params struct {
	items []Param
}

// NewParams builds Params from key/value pairs in order.
func NewParams(items ...Param) Params {
	var p Params
	for _, it := range items {
		p.Set(it.Key, it.Value)
	}
	return p
}

// Set stores value under key.
func (p *Params) Set(key string, value any) {
	for i := range p.items {
		if p.items[i].Key == key {
			p.items[i].Value = value
			return
		}
	}
	p.items = append(p.items, Param{Key: key, Value: value})
}

// Get returns the value stored under key.
func (p Params) Get(key string) (any, bool) {
	for _, it := range p.items {
		if it.Key == key {
			return it.Value, true
		}
	}
	return nil, false
}

// Len returns the number of parameters
func (p Params) Len() int {
	return len(p.items)
}

// Items returns the parameters in insertion order.
func (p Params) Items() []Param {
	out := make([]Param, len(p.items))
	copy(out, p.items)
	return out
}

// BuildURL appends p to base as a query string. Values are written verbatim
// (no percent-encoding); booleans are rendered as "true" or "false".
// Parameters with an empty key are skipped.
func BuildURL(base string, p Params) string {
	var b strings.Builder
	n := 0
	for _, it := range p.items {
		if it.Key == "" {
			continue
		}
		if n == 0 {
			b.WriteString(base)
			if strings.Contains(base, "?") {
				b.WriteByte('&')
			} else {
				b.WriteByte('?')
			}
		} else {
			b.WriteByte('&')
		}
		b.WriteString(it.Key)
		b.WriteByte('=')
		b.WriteString(formatValue(it.Value))
		n++
	}

	if n == 0 {
		return base
	}
	return b.String()
}

func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}
