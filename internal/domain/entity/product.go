package entity

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/product-editor/internal/domain/editor"
)

// ProductLabel datos de un producto necesarios para imprimir su etiqueta.
type ProductLabel struct {
	ProductID int64
	Code      string
	Name      string
	Price     decimal.NullDecimal
}

// LabelFromRecord toma el código de barras del producto; si no tiene usa el SKU.
func LabelFromRecord(id int64, rec editor.ProductRecord) ProductLabel {
	l := ProductLabel{ProductID: id, Price: editor.CoerceDecimal(rec.Fields["price"])}
	for _, key := range []string{"barcode", "sku", "code"} {
		if s := codeText(rec.Fields[key]); s != "" {
			l.Code = s
			break
		}
	}
	if s, ok := rec.Fields["name"].(string); ok {
		l.Name = s
	}
	return l
}

// codeText los códigos EAN suelen llegar como número.
func codeText(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	default:
		return ""
	}
}
