package pdf

import (
	"bytes"
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/product-editor/internal/domain"
	"github.com/jhoicas/product-editor/internal/domain/barcode"
)

func TestRender_GeneraPDF(t *testing.T) {
	items := []barcode.Item{
		{Label: barcode.Label{Code: "7701234567890", Caption: "Camiseta básica", Price: decimal.NewNullDecimal(decimal.RequireFromString("19.9"))}, Copies: 5},
		{Label: barcode.Label{Code: "SKU-002"}, Copies: 2},
	}
	sheet, err := barcode.Paginate(items, barcode.Layout{Columns: 3, RowsPerPage: 2})
	require.NoError(t, err)
	require.Len(t, sheet.Pages, 2)

	out, err := NewMarotoBarcodeRenderer().Render(context.Background(), sheet, "Etiquetas de prueba")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRender_HojaVaciaEsInvalida(t *testing.T) {
	_, err := NewMarotoBarcodeRenderer().Render(context.Background(), barcode.Sheet{Layout: barcode.Layout{Columns: 2, RowsPerPage: 2}}, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRender_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewMarotoBarcodeRenderer().Render(ctx, barcode.Sheet{}, "x")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}
