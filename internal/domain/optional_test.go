package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/iarefin28/myva-fitness-tracker-sub000/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestOptionalFloatJSON(t *testing.T) {
	unset, err := json.Marshal(domain.OptionalFloat{})
	require.NoError(t, err)
	require.Equal(t, "null", string(unset))

	zero, err := json.Marshal(domain.Float(0))
	require.NoError(t, err)
	require.Equal(t, "0", string(zero))

	var decoded domain.OptionalFloat
	require.NoError(t, json.Unmarshal([]byte("null"), &decoded))
	require.False(t, decoded.Valid)

	require.NoError(t, json.Unmarshal([]byte("137.5"), &decoded))
	require.True(t, decoded.Valid)
	require.Equal(t, 137.5, decoded.Value)

	// A logged zero is not the same as never entered.
	require.NoError(t, json.Unmarshal([]byte("0"), &decoded))
	require.True(t, decoded.Valid)
	require.Equal(t, 0.0, decoded.Value)
}

func TestOptionalIntJSON(t *testing.T) {
	unset, err := json.Marshal(domain.OptionalInt{})
	require.NoError(t, err)
	require.Equal(t, "null", string(unset))

	var decoded domain.OptionalInt
	require.NoError(t, json.Unmarshal([]byte("12"), &decoded))
	require.True(t, decoded.Valid)
	require.Equal(t, 12, decoded.Value)

	require.NoError(t, json.Unmarshal([]byte("null"), &decoded))
	require.False(t, decoded.Valid)

	require.Error(t, json.Unmarshal([]byte(`"12.5"`), &decoded))
}
