package atomicassets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildURL(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		params   Params
		expected string
	}{
		{
			name:     "no params",
			base:     "https://example.com/v1/assets",
			params:   Params{},
			expected: "https://example.com/v1/assets",
		},
		{
			name:     "no params keeps existing query",
			base:     "https://example.com/v1/assets?page=1",
			params:   NewParams(),
			expected: "https://example.com/v1/assets?page=1",
		},
		{
			name:     "single param",
			base:     "https://example.com/v1/assets",
			params:   NewParams(Param{"asset_id", "1099"}),
			expected: "https://example.com/v1/assets?asset_id=1099",
		},
		{
			name: "several params in order",
			base: "https://example.com/v1/accounts",
			params: NewParams(
				Param{"match_owner", "alice.wam"},
				Param{"collection_name", "alien.worlds"},
				Param{"limit", 10},
			),
			expected: "https://example.com/v1/accounts?match_owner=alice.wam&collection_name=alien.worlds&limit=10",
		},
		{
			name:     "existing query segment appends with ampersand",
			base:     "https://example.com/v1/assets?owner=bob",
			params:   NewParams(Param{"page", 2}, Param{"limit", 5}),
			expected: "https://example.com/v1/assets?owner=bob&page=2&limit=5",
		},
		{
			name:     "booleans are lowercase",
			base:     "https://example.com/v1/assets",
			params:   NewParams(Param{"is_transferable", true}, Param{"is_burnable", false}),
			expected: "https://example.com/v1/assets?is_transferable=true&is_burnable=false",
		},
		{
			name:     "values are not percent-encoded",
			base:     "https://example.com/v1/assets",
			params:   NewParams(Param{"ids", "1,2,3"}),
			expected: "https://example.com/v1/assets?ids=1,2,3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BuildURL(tt.base, tt.params))
		})
	}
}

func TestBuildURLNoTrailingSeparator(t *testing.T) {
	got := BuildURL("https://example.com/x", NewParams(Param{"a", 1}, Param{"b", 2}))
	assert.NotEqual(t, byte('&'), got[len(got)-1])
	assert.Equal(t, 1, countByte(got, '?'))
}

func TestBuildURLSkipsEmptyKeys(t *testing.T) {
	assert.Equal(t, "https://x/a", BuildURL("https://x/a", NewParams(Param{"", 1})))
	assert.Equal(t, "https://x/a?b=2", BuildURL("https://x/a", NewParams(Param{"", 1}, Param{"b", 2})))
	assert.Equal(t, "https://x/a?c=3&b=2", BuildURL("https://x/a?c=3", NewParams(Param{"b", 2}, Param{"", 1})))
}

func TestParamsSet(t *testing.T) {
	var p Params
	p.Set("a", 1)
	p.Set("b", 2)
	p.Set("a", 3)

	assert.Equal(t, 2, p.Len())
	assert.Equal(t, []Param{{"a", 3}, {"b", 2}}, p.Items())

	v, ok := p.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 3, v)

	_, ok = p.Get("missing")
	assert.False(t, ok)
}

func countByte(s string, c byte) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == c {
			n++
		}
	}
	return n
}
