package editor

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/product-editor/internal/domain"
)

// ShopQuantity par tienda/cantidad tal como lo espera el API de catálogo.
type ShopQuantity struct {
	ShopID   int64       `json:"shop_id" validate:"gt=0"`
	Quantity json.Number `json:"quantity"`
}

// AttributeLine fila de atributo a crear o actualizar.
type AttributeLine struct {
	ID                 *int64         `json:"id,omitempty"`
	AttributeID        *int64         `json:"attribute_id"`
	ValueID            *int64         `json:"value_id"`
	MathSign           *string        `json:"math_sign" validate:"omitempty,oneof=+ - * /"`
	Number             *json.Number   `json:"number"`
	AttributeCost      *json.Number   `json:"attribute_cost"`
	AttributeWeight    *json.Number   `json:"attribute_weight"`
	AttributeMesarment string         `json:"attribute_mesarment"`
	ShopQuantities     []ShopQuantity `json:"shop_quantities" validate:"dive"`
}

// SpecificationLine fila de especificación.
type SpecificationLine struct {
	ID    *int64 `json:"id,omitempty"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

// MetaLine fila de meta.
type MetaLine struct {
	ID    *int64 `json:"id,omitempty"`
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Change variante etiquetada: Upsert(fila) o Delete(id). Las marcas de borrado se
// serializan como {"id": X, "deleted": true} para que el servidor distinga
// "nunca existió" de "eliminado explícitamente".
type Change[T any] struct {
	Upsert   *T
	DeleteID int64
}

func Upsert[T any](line T) Change[T] { return Change[T]{Upsert: &line} }

func Delete[T any](id int64) Change[T] { return Change[T]{DeleteID: id} }

func (c Change[T]) IsDelete() bool { return c.Upsert == nil }

func (c Change[T]) MarshalJSON() ([]byte, error) {
	if c.Upsert == nil {
		return json.Marshal(struct {
			ID      int64 `json:"id"`
			Deleted bool  `json:"deleted"`
		}{ID: c.DeleteID, Deleted: true})
	}
	return json.Marshal(c.Upsert)
}

// Payload cuerpo plano para crear (POST) o actualizar (PUT) el producto.
// Las etiquetas json solo nombran los campos en los errores de validación; la serialización la hace MarshalJSON.
type Payload struct {
	Fields         map[string]any              `json:"-"`
	ShopQuantities []ShopQuantity              `json:"shop_quantities" validate:"dive"`
	Stock          decimal.Decimal             `json:"stock"`
	ShopIDs        []int64                     `json:"shop_ids" validate:"unique,dive,gt=0"`
	Attributes     []Change[AttributeLine]     `json:"attributes" validate:"dive"`
	Specifications []Change[SpecificationLine] `json:"specifications" validate:"dive"`
	Meta           []Change[MetaLine]          `json:"meta" validate:"dive"`
}

// MarshalJSON mezcla los campos libres con las claves armadas; las armadas ganan.
func (p Payload) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(p.Fields)+6)
	for k, v := range p.Fields {
		out[k] = v
	}
	out["shop_quantities"] = p.ShopQuantities
	out["stock"] = json.Number(p.Stock.String())
	out["shop_ids"] = p.ShopIDs
	out["attributes"] = p.Attributes
	out["specifications"] = p.Specifications
	out["meta"] = p.Meta
	return json.Marshal(out)
}

// Assemble aplana filas y sub-mapas al formato del API. En edición agrega las marcas de borrado
// después de las filas vivas.
func (e *Editor) Assemble() Payload {
	p := Payload{
		Fields:         e.Fields(),
		ShopQuantities: toShopQuantities(e.shops.states()),
		Stock:          e.totalStock,
		Attributes:     make([]Change[AttributeLine], 0, e.attributes.reg.Len()),
		Specifications: make([]Change[SpecificationLine], 0, e.specifications.reg.Len()),
		Meta:           make([]Change[MetaLine], 0, e.meta.reg.Len()),
	}
	p.ShopIDs = shopIDs(p.ShopQuantities)

	for _, row := range e.attributes.ordered() {
		line := AttributeLine{
			AttributeID:        row.TypeID,
			ValueID:            row.ValueID,
			Number:             numberOrNull(row.Operand),
			AttributeCost:      numberOrNull(row.Cost),
			AttributeWeight:    numberOrNull(row.Weight),
			AttributeMesarment: row.Measurement,
			ShopQuantities:     toShopQuantities(e.RowShops(row.ID)),
		}
		if row.Sign != SignNone {
			sign := string(row.Sign)
			line.MathSign = &sign
		}
		if row.Persisted {
			line.ID = recordID(row.ID)
		}
		p.Attributes = append(p.Attributes, Upsert(line))
	}
	for _, row := range e.specifications.ordered() {
		line := SpecificationLine{Name: row.Name, Value: row.Value}
		if row.Persisted {
			line.ID = recordID(row.ID)
		}
		p.Specifications = append(p.Specifications, Upsert(line))
	}
	for _, row := range e.meta.ordered() {
		line := MetaLine{Key: row.Name, Value: row.Value}
		if row.Persisted {
			line.ID = recordID(row.ID)
		}
		p.Meta = append(p.Meta, Upsert(line))
	}

	if e.flow == FlowEdit {
		for _, id := range e.deleted.Attributes {
			p.Attributes = append(p.Attributes, Delete[AttributeLine](id))
		}
		for _, id := range e.deleted.Specifications {
			p.Specifications = append(p.Specifications, Delete[SpecificationLine](id))
		}
		for _, id := range e.deleted.Meta {
			p.Meta = append(p.Meta, Delete[MetaLine](id))
		}
	}
	return p
}

// Validate revisa invariantes entre campos antes de serializar: el valor de cada fila
// debe pertenecer a la lista del tipo elegido.
func (e *Editor) Validate() error {
	fields := make(map[string][]string)
	for i, row := range e.attributes.ordered() {
		if row.ValueID == nil {
			continue
		}
		key := fmt.Sprintf("attributes.%d.value_id", i)
		if row.TypeID == nil {
			fields[key] = append(fields[key], "el valor requiere un tipo de atributo")
			continue
		}
		if !e.taxonomy.HasValue(*row.TypeID, *row.ValueID) {
			fields[key] = append(fields[key], "el valor no pertenece al tipo de atributo seleccionado")
		}
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Message: "atributos inconsistentes", Fields: fields}
	}
	return nil
}

func toShopQuantities(states []ShopState) []ShopQuantity {
	out := make([]ShopQuantity, 0, len(states))
	for _, s := range states {
		out = append(out, ShopQuantity{ShopID: int64(s.ShopID), Quantity: json.Number(orZero(s.Quantity).String())})
	}
	return out
}

// shopIDs claves presentes en shop_quantities, sin duplicados y en el mismo orden.
func shopIDs(entries []ShopQuantity) []int64 {
	seen := make(map[int64]struct{}, len(entries))
	out := make([]int64, 0, len(entries))
	for _, sq := range entries {
		if _, dup := seen[sq.ShopID]; dup {
			continue
		}
		seen[sq.ShopID] = struct{}{}
		out = append(out, sq.ShopID)
	}
	return out
}

func numberOrNull(d decimal.NullDecimal) *json.Number {
	if !d.Valid {
		return nil
	}
	n := json.Number(d.Decimal.String())
	return &n
}

func recordID(id RowID) *int64 {
	v := int64(id)
	return &v
}
