package editor_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/product-editor/internal/domain/editor"
)

func TestCoerceDecimal(t *testing.T) {
	cases := []struct {
		name  string
		in    any
		valid bool
		want  string
	}{
		{"entero", 10, true, "10"},
		{"flotante", 5.5, true, "5.5"},
		{"texto numérico con espacios", " 7.25 ", true, "7.25"},
		{"json.Number", json.Number("3"), true, "3"},
		{"texto vacío", "", false, ""},
		{"texto no numérico", "abc", false, ""},
		{"nulo", nil, false, ""},
		{"NaN", math.NaN(), false, ""},
		{"tipo no soportado", []int{1}, false, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := editor.CoerceDecimal(tc.in)
			assert.Equal(t, tc.valid, got.Valid)
			if tc.valid {
				assert.Equal(t, tc.want, got.Decimal.String())
			}
		})
	}
}

func TestCoerceID_SoloEnterosPositivos(t *testing.T) {
	id, ok := editor.CoerceID("12")
	assert.True(t, ok)
	assert.Equal(t, int64(12), id)

	id, ok = editor.CoerceID(float64(8))
	assert.True(t, ok)
	assert.Equal(t, int64(8), id)

	for _, bad := range []any{0, -3, 1.5, "x", nil, ""} {
		_, ok := editor.CoerceID(bad)
		assert.False(t, ok, "%v", bad)
	}
}
