package atomicassets

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountUnmarshal(t *testing.T) {
	tests := []struct {
		input    string
		expected Count
		wantErr  bool
	}{
		{`42`, 42, false},
		{`"42"`, 42, false},
		{`""`, 0, false},
		{`null`, 0, false},
		{`"abc"`, 0, true},
		{`1.5`, 0, true},
		{`true`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var c Count
			err := json.Unmarshal([]byte(tt.input), &c)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, c)
		})
	}
}

func TestExtract(t *testing.T) {
	env := &Envelope{Data: json.RawMessage(`[{"owner":"alice.wam","collection":{"authorized_accounts":["a","b"]}}]`)}

	t.Run("nested path", func(t *testing.T) {
		var accounts []string
		require.NoError(t, extract(env, &accounts, 0, "collection", "authorized_accounts"))
		assert.Equal(t, []string{"a", "b"}, accounts)
	})

	t.Run("index out of range", func(t *testing.T) {
		var owner string
		err := extract(env, &owner, 1, "owner")
		assert.ErrorIs(t, err, ErrNoData)
		assert.EqualError(t, err, "lookup data[1]: no data in response")
	})

	t.Run("key on array", func(t *testing.T) {
		var owner string
		err := extract(env, &owner, "owner")
		assert.ErrorIs(t, err, ErrMissingField)
	})

	t.Run("wrong leaf type", func(t *testing.T) {
		var n int
		err := extract(env, &n, 0, "owner")
		require.Error(t, err)

		var lookupErr *LookupError
		require.ErrorAs(t, err, &lookupErr)
		assert.Equal(t, "data[0].owner", lookupErr.Path)
	})

	t.Run("absent data", func(t *testing.T) {
		var v any
		err := extract(&Envelope{}, &v)
		assert.ErrorIs(t, err, ErrMissingField)
	})

	t.Run("null data", func(t *testing.T) {
		var owner string
		err := extract(&Envelope{Data: json.RawMessage(`null`)}, &owner, 0)
		assert.ErrorIs(t, err, ErrNoData)
	})
}
