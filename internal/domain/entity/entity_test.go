package entity_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/product-editor/internal/domain/editor"
	"github.com/jhoicas/product-editor/internal/domain/entity"
)

func TestBuildCategoryTree_TresNiveles(t *testing.T) {
	tree := entity.BuildCategoryTree([]entity.Category{
		{ID: 1, Name: "Ropa"},
		{ID: 2, ParentID: 1, Name: "Camisetas"},
		{ID: 3, ParentID: 2, Name: "Manga corta"},
		{ID: 4, ParentID: 99, Name: "Huérfana"},
	})
	require.Len(t, tree, 2)
	assert.Equal(t, "Ropa", tree[0].Name)
	require.Len(t, tree[0].Children, 1)
	require.Len(t, tree[0].Children[0].Children, 1)
	assert.Equal(t, "Manga corta", tree[0].Children[0].Children[0].Name)
	assert.Equal(t, "Huérfana", tree[1].Name)
}

func TestDraft_OwnedBy(t *testing.T) {
	d := &entity.Draft{OwnerID: "u1"}
	assert.True(t, d.OwnedBy("u1"))
	assert.False(t, d.OwnedBy("u2"))
	assert.False(t, (&entity.Draft{}).OwnedBy(""))
}

func TestLabelFromRecord_UsaSKUSiNoHayCodigo(t *testing.T) {
	l := entity.LabelFromRecord(7, editor.ProductRecord{Fields: map[string]any{
		"barcode": " ", "sku": "SKU-9", "name": "Taza", "price": "12.5",
	}})
	assert.Equal(t, "SKU-9", l.Code)
	assert.Equal(t, "Taza", l.Name)
	assert.Equal(t, "12.5", l.Price.Decimal.String())
}

func TestLabelFromRecord_CodigoNumerico(t *testing.T) {
	l := entity.LabelFromRecord(8, editor.ProductRecord{Fields: map[string]any{
		"barcode": json.Number("7701234567890"),
	}})
	assert.Equal(t, "7701234567890", l.Code)
	assert.False(t, l.Price.Valid)
}
