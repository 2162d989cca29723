package atomicassets

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type assetKind string

func (k assetKind) String() string { return "kind-" + string(k) }

func TestNormalizeArgs(t *testing.T) {
	tests := []struct {
		name     string
		arg      Arg
		expected string
	}{
		{"string", A("owner", "alice.wam"), "alice.wam"},
		{"true", A("is_transferable", true), "true"},
		{"false", A("is_burnable", false), "false"},
		{"int", A("limit", 100), "100"},
		{"int64", A("template_id", int64(12345)), "12345"},
		{"uint8", A("page", uint8(3)), "3"},
		{"float", A("min_mint", 1.5), "1.5"},
		{"float32", A("ratio", float32(0.25)), "0.25"},
		{"string slice", A("ids", []string{"1", "2", "3"}), "1,2,3"},
		{"int64 slice", A("ids", []int64{4, 5}), "4,5"},
		{"stringer", A("kind", assetKind("pack")), "kind-pack"},
		{"duration", A("window", 90*time.Second), "1m30s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := normalizeArgs(tt.arg)
			require.NoError(t, err)
			v, ok := p.Get(tt.arg.Key)
			require.True(t, ok)
			assert.Equal(t, tt.expected, v)
		})
	}
}

func TestNormalizeArgsRejects(t *testing.T) {
	tests := []struct {
		name string
		arg  Arg
	}{
		{"empty key", A("", "x")},
		{"nil value", A("owner", nil)},
		{"map value", A("data", map[string]string{"a": "b"})},
		{"struct value", A("at", struct{}{})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := normalizeArgs(tt.arg)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidArgument))

			var argErr *ArgumentError
			require.True(t, errors.As(err, &argErr))
			assert.Equal(t, tt.arg.Key, argErr.Key)
		})
	}
}

func TestWithRequiredOverridesOptional(t *testing.T) {
	p, err := withRequired(
		[]Arg{A("limit", 1), A("asset_id", "999")},
		A("asset_id", "1099"),
	)
	require.NoError(t, err)
	assert.Equal(t, []Param{{"limit", "1"}, {"asset_id", "1099"}}, p.Items())
}

func TestWithRequiredValidatesRequired(t *testing.T) {
	_, err := withRequired(nil, A("asset_id", []byte("x")))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
