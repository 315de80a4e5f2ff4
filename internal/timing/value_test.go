package timing

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_ZeroIsAbsoluteZero(t *testing.T) {
	var v Value
	assert.True(t, v.IsAbsolute())
	s, ok := v.Abs()
	assert.True(t, ok)
	assert.Equal(t, 0.0, s)
}

func TestValue_Constructors(t *testing.T) {
	assert.True(t, Seconds(2.5).IsAbsolute())
	assert.True(t, Auto().IsAuto())
	assert.True(t, End().IsEnd())

	s, ok := Seconds(2.5).Abs()
	assert.True(t, ok)
	assert.Equal(t, 2.5, s)

	_, ok = Auto().Abs()
	assert.False(t, ok)
}

func TestValue_MarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		val  Value
		want string
	}{
		{"absolute", Seconds(3), "3"},
		{"fractional", Seconds(1.25), "1.25"},
		{"auto", Auto(), `"auto"`},
		{"end", End(), `"end"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.val)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(data))
		})
	}
}

func TestValue_UnmarshalJSON_RoundTrip(t *testing.T) {
	for _, raw := range []string{"0", "3", "1.25", `"auto"`, `"end"`} {
		var v Value
		require.NoError(t, json.Unmarshal([]byte(raw), &v))

		out, err := json.Marshal(v)
		require.NoError(t, err)
		assert.Equal(t, raw, string(out), "round-trip of %s", raw)
	}
}

func TestValue_UnmarshalJSON_Rejects(t *testing.T) {
	for _, raw := range []string{`"later"`, `"-1"`, "-1", "true", "[]"} {
		var v Value
		assert.Error(t, json.Unmarshal([]byte(raw), &v), "input %s", raw)
	}
}

func TestValue_String(t *testing.T) {
	assert.Equal(t, "auto", Auto().String())
	assert.Equal(t, "end", End().String())
	assert.Equal(t, "2.5", Seconds(2.5).String())
}
