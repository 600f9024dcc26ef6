// Package editor contiene el modelo del editor de atributos de producto: filas de atributos
// con su sub-mapa de cantidades por tienda, stock por tienda del producto, filas de
// especificaciones y meta, los totales derivados y el armado del payload para el API de catálogo.
//
// Es estado local puro: no hace I/O ni conoce HTTP. Cada borrador es dueño exclusivo de su Editor.
package editor

import (
	"maps"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/product-editor/internal/domain"
)

// Flow distingue el formulario de creación del de edición; cambia la política de borrado.
type Flow string

const (
	FlowCreate Flow = "create"
	FlowEdit   Flow = "edit"
)

func (f Flow) Valid() bool { return f == FlowCreate || f == FlowEdit }

// FieldCost campo de costo del formulario; se sobrescribe con el total de costos de atributos.
const FieldCost = "cost"

// reservedFields claves que arma el ensamblador y no pueden venir como campos libres.
var reservedFields = map[string]struct{}{
	"shop_quantities": {},
	"stock":           {},
	"shop_ids":        {},
	"attributes":      {},
	"specifications":  {},
	"meta":            {},
}

type rowShopKey struct {
	Row  RowID
	Shop ShopID
}

// Deletions ids de registros del servidor eliminados en el flujo de edición.
type Deletions struct {
	Attributes     []int64 `json:"attributes,omitempty"`
	Specifications []int64 `json:"specifications,omitempty"`
	Meta           []int64 `json:"meta,omitempty"`
}

// Editor estado completo de un formulario de producto.
type Editor struct {
	flow     Flow
	taxonomy *Taxonomy
	fields   map[string]any

	attributes rowSet[AttributeRow]
	rowShops   map[RowID][]ShopID
	rowQty     map[rowShopKey]decimal.NullDecimal

	shops shopStock

	specifications rowSet[DetailRow]
	meta           rowSet[DetailRow]

	deleted Deletions

	totalStock decimal.Decimal
	totalCost  decimal.Decimal
}

// New crea un editor vacío. La taxonomía debe estar cargada antes de editar atributos.
func New(flow Flow, taxonomy *Taxonomy) *Editor {
	if taxonomy == nil {
		taxonomy = NewTaxonomy(nil)
	}
	return &Editor{
		flow:           flow,
		taxonomy:       taxonomy,
		fields:         make(map[string]any),
		attributes:     newRowSet[AttributeRow](),
		rowShops:       make(map[RowID][]ShopID),
		rowQty:         make(map[rowShopKey]decimal.NullDecimal),
		shops:          newShopStock(),
		specifications: newRowSet[DetailRow](),
		meta:           newRowSet[DetailRow](),
	}
}

func (e *Editor) Flow() Flow { return e.flow }

func (e *Editor) Taxonomy() *Taxonomy { return e.taxonomy }

// Fields copia de los campos libres del producto (nombre, precio, categorías, costo…).
func (e *Editor) Fields() map[string]any { return maps.Clone(e.fields) }

// SetFields mezcla campos libres; null elimina la clave.
func (e *Editor) SetFields(in map[string]any) error {
	for k := range in {
		if _, reserved := reservedFields[k]; reserved || k == "" {
			return domain.ErrInvalidInput
		}
	}
	for k, v := range in {
		if v == nil {
			delete(e.fields, k)
			continue
		}
		e.fields[k] = v
	}
	return nil
}

// Deleted marcas de borrado pendientes de enviar.
func (e *Editor) Deleted() Deletions {
	return Deletions{
		Attributes:     append([]int64(nil), e.deleted.Attributes...),
		Specifications: append([]int64(nil), e.deleted.Specifications...),
		Meta:           append([]int64(nil), e.deleted.Meta...),
	}
}

// checkRemoval aplica la política de borrado: en creación solo la última fila visible.
// Un id inexistente no es error (no-op), lo decide el llamador con found=false.
func (e *Editor) checkRemoval(reg *Registry, id RowID) (found bool, err error) {
	if !reg.Contains(id) {
		return false, nil
	}
	if e.flow == FlowCreate {
		last, _ := reg.LastInOrder()
		if last != id {
			return true, domain.ErrRemovalNotAllowed
		}
	}
	return true, nil
}
