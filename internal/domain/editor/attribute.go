package editor

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/product-editor/internal/domain"
)

// MathSign operador del ajuste de precio de la variante.
type MathSign string

const (
	SignNone MathSign = ""
	SignAdd  MathSign = "+"
	SignSub  MathSign = "-"
	SignMul  MathSign = "*"
	SignDiv  MathSign = "/"
)

func parseMathSign(v any) (MathSign, error) {
	s := MathSign(coerceText(v))
	switch s {
	case SignNone, SignAdd, SignSub, SignMul, SignDiv:
		return s, nil
	}
	return SignNone, domain.ErrInvalidInput
}

// Field nombre de campo editable de una fila de atributo (coincide con la clave del payload).
type Field string

const (
	FieldAttributeType  Field = "attribute_id"
	FieldAttributeValue Field = "value_id"
	FieldMathSign       Field = "math_sign"
	FieldOperand        Field = "number"
	FieldCostValue      Field = "attribute_cost"
	FieldWeight         Field = "attribute_weight"
	FieldMeasurement    Field = "attribute_mesarment"
)

// fieldOrder orden de aplicación: el tipo antes que el valor para que el valor se valide contra el tipo nuevo.
var fieldOrder = []Field{
	FieldAttributeType, FieldAttributeValue, FieldMathSign,
	FieldOperand, FieldCostValue, FieldWeight, FieldMeasurement,
}

// AttributeRow una variante configurable (p. ej. Color=Rojo) con su ajuste de precio.
type AttributeRow struct {
	ID          RowID               `json:"id"`
	Persisted   bool                `json:"persisted"`
	TypeID      *int64              `json:"attribute_id"`
	ValueID     *int64              `json:"value_id"`
	Sign        MathSign            `json:"math_sign"`
	Operand     decimal.NullDecimal `json:"number"`
	Cost        decimal.NullDecimal `json:"attribute_cost"`
	Weight      decimal.NullDecimal `json:"attribute_weight"`
	Measurement string              `json:"attribute_mesarment"`
}

// AddAttributeRow agrega una fila vacía. En creación no se permiten más filas que tipos
// de atributo distintos en la taxonomía; en ese caso devuelve ok=false sin cambios.
func (e *Editor) AddAttributeRow() (RowID, bool) {
	if e.flow == FlowCreate && e.attributes.reg.Len() >= e.taxonomy.Len() {
		return 0, false
	}
	id := e.attributes.reg.Allocate()
	e.attributes.put(id, &AttributeRow{ID: id})
	return id, true
}

// RemoveAttributeRow elimina la fila y su sub-mapa de tiendas. Si la fila venía del servidor
// deja una marca de borrado. Un id inexistente es no-op.
func (e *Editor) RemoveAttributeRow(id RowID) error {
	found, err := e.checkRemoval(&e.attributes.reg, id)
	if err != nil || !found {
		return err
	}
	row, _ := e.attributes.drop(id)
	for _, shop := range e.rowShops[id] {
		delete(e.rowQty, rowShopKey{Row: id, Shop: shop})
	}
	delete(e.rowShops, id)
	if row.Persisted && e.flow == FlowEdit {
		e.deleted.Attributes = append(e.deleted.Attributes, int64(id))
	}
	if row.Cost.Valid {
		e.recomputeTotalAttributeCost()
	}
	return nil
}

// AttributeRows filas vivas en orden de presentación.
func (e *Editor) AttributeRows() []AttributeRow { return e.attributes.ordered() }

func (e *Editor) AttributeRow(id RowID) (AttributeRow, bool) {
	row, ok := e.attributes.get(id)
	if !ok {
		return AttributeRow{}, false
	}
	return *row, true
}

// AttributeRowIDs ids en orden de presentación.
func (e *Editor) AttributeRowIDs() []RowID { return e.attributes.reg.IDs() }

// ValueOptions valores seleccionables para la fila: los del tipo elegido actualmente.
func (e *Editor) ValueOptions(id RowID) ([]AttributeValue, error) {
	row, ok := e.attributes.get(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	if row.TypeID == nil {
		return []AttributeValue{}, nil
	}
	return e.taxonomy.Values(*row.TypeID), nil
}

// SetAttributeField actualiza un campo de la fila.
func (e *Editor) SetAttributeField(id RowID, field Field, value any) error {
	return e.SetAttributeFields(id, map[Field]any{field: value})
}

// SetAttributeFields aplica varios campos de forma atómica: si uno es inválido no cambia nada.
// Cambiar el tipo limpia el valor; cambiar el costo recalcula el total de costos.
func (e *Editor) SetAttributeFields(id RowID, values map[Field]any) error {
	row, ok := e.attributes.get(id)
	if !ok {
		return domain.ErrNotFound
	}
	for f := range values {
		if !slices.Contains(fieldOrder, f) {
			return domain.ErrInvalidInput
		}
	}
	next := *row
	for _, f := range fieldOrder {
		v, present := values[f]
		if !present {
			continue
		}
		if err := e.applyField(&next, f, v); err != nil {
			return err
		}
	}
	costChanged := !nullEqual(row.Cost, next.Cost)
	*row = next
	if costChanged {
		e.recomputeTotalAttributeCost()
	}
	return nil
}

func (e *Editor) applyField(row *AttributeRow, f Field, v any) error {
	switch f {
	case FieldAttributeType:
		if v == nil {
			row.TypeID, row.ValueID = nil, nil
			return nil
		}
		typeID, ok := CoerceID(v)
		if !ok || !e.taxonomy.Has(typeID) {
			return domain.ErrInvalidInput
		}
		if row.TypeID == nil || *row.TypeID != typeID {
			row.ValueID = nil
		}
		row.TypeID = &typeID
	case FieldAttributeValue:
		if v == nil {
			row.ValueID = nil
			return nil
		}
		valueID, ok := CoerceID(v)
		if !ok || row.TypeID == nil || !e.taxonomy.HasValue(*row.TypeID, valueID) {
			return domain.ErrInvalidInput
		}
		row.ValueID = &valueID
	case FieldMathSign:
		sign, err := parseMathSign(v)
		if err != nil {
			return err
		}
		row.Sign = sign
	case FieldOperand:
		row.Operand = CoerceDecimal(v)
	case FieldCostValue:
		row.Cost = CoerceDecimal(v)
	case FieldWeight:
		row.Weight = CoerceDecimal(v)
	case FieldMeasurement:
		row.Measurement = coerceText(v)
	}
	return nil
}

func nullEqual(a, b decimal.NullDecimal) bool {
	if a.Valid != b.Valid {
		return false
	}
	return !a.Valid || a.Decimal.Equal(b.Decimal)
}
