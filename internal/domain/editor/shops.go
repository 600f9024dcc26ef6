package editor

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/product-editor/internal/domain"
)

// ShopID referencia a una tienda (punto de venta) externa.
type ShopID int64

// ShopState cantidad de una tienda; Quantity inválido = sin cantidad cargada.
type ShopState struct {
	ShopID   ShopID              `json:"shop_id"`
	Quantity decimal.NullDecimal `json:"quantity"`
}

// shopStock selección ordenada de tiendas con su cantidad (stock del producto, no por atributo).
type shopStock struct {
	order []ShopID
	qty   map[ShopID]decimal.NullDecimal
}

func newShopStock() shopStock {
	return shopStock{qty: make(map[ShopID]decimal.NullDecimal)}
}

func (s *shopStock) setSelection(ids []ShopID) {
	next := make(map[ShopID]decimal.NullDecimal, len(ids))
	order := make([]ShopID, 0, len(ids))
	for _, id := range ids {
		if _, dup := next[id]; dup {
			continue
		}
		next[id] = s.qty[id]
		order = append(order, id)
	}
	s.order, s.qty = order, next
}

func (s *shopStock) setQuantity(id ShopID, q decimal.NullDecimal) {
	if _, ok := s.qty[id]; !ok {
		s.order = append(s.order, id)
	}
	s.qty[id] = q
}

func (s *shopStock) states() []ShopState {
	out := make([]ShopState, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, ShopState{ShopID: id, Quantity: s.qty[id]})
	}
	return out
}

func validShops(ids []ShopID) error {
	for _, id := range ids {
		if id <= 0 {
			return domain.ErrInvalidInput
		}
	}
	return nil
}

// SetShops reemplaza la selección de tiendas del producto. Las tiendas nuevas quedan sin
// cantidad y las quitadas pierden la suya. Recalcula el stock total.
func (e *Editor) SetShops(ids []ShopID) error {
	if err := validShops(ids); err != nil {
		return err
	}
	e.shops.setSelection(ids)
	e.recomputeTotalStock()
	return nil
}

// SetShopQuantity fija la cantidad de una tienda del producto (la selecciona si no lo estaba).
// Una entrada no numérica queda como cantidad vacía.
func (e *Editor) SetShopQuantity(id ShopID, quantity any) error {
	if id <= 0 {
		return domain.ErrInvalidInput
	}
	e.shops.setQuantity(id, CoerceDecimal(quantity))
	e.recomputeTotalStock()
	return nil
}

// Shops tiendas del producto en orden de selección.
func (e *Editor) Shops() []ShopState { return e.shops.states() }

// SetRowShops reemplaza la selección de tiendas de una fila de atributo.
func (e *Editor) SetRowShops(row RowID, ids []ShopID) error {
	if _, ok := e.attributes.get(row); !ok {
		return domain.ErrNotFound
	}
	if err := validShops(ids); err != nil {
		return err
	}
	keep := make(map[ShopID]struct{}, len(ids))
	order := make([]ShopID, 0, len(ids))
	for _, id := range ids {
		if _, dup := keep[id]; dup {
			continue
		}
		keep[id] = struct{}{}
		order = append(order, id)
	}
	for _, old := range e.rowShops[row] {
		if _, ok := keep[old]; !ok {
			delete(e.rowQty, rowShopKey{Row: row, Shop: old})
		}
	}
	for _, id := range order {
		key := rowShopKey{Row: row, Shop: id}
		if _, ok := e.rowQty[key]; !ok {
			e.rowQty[key] = decimal.NullDecimal{}
		}
	}
	e.rowShops[row] = order
	return nil
}

// SetRowShopQuantity fija la cantidad de una tienda dentro de una fila de atributo.
func (e *Editor) SetRowShopQuantity(row RowID, shop ShopID, quantity any) error {
	if _, ok := e.attributes.get(row); !ok {
		return domain.ErrNotFound
	}
	if shop <= 0 {
		return domain.ErrInvalidInput
	}
	if !slices.Contains(e.rowShops[row], shop) {
		e.rowShops[row] = append(e.rowShops[row], shop)
	}
	e.rowQty[rowShopKey{Row: row, Shop: shop}] = CoerceDecimal(quantity)
	return nil
}

// RowShops sub-mapa de tiendas de una fila en orden de selección.
func (e *Editor) RowShops(row RowID) []ShopState {
	ids := e.rowShops[row]
	out := make([]ShopState, 0, len(ids))
	for _, id := range ids {
		out = append(out, ShopState{ShopID: id, Quantity: e.rowQty[rowShopKey{Row: row, Shop: id}]})
	}
	return out
}
