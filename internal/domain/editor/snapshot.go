package editor

import (
	"maps"

	"github.com/shopspring/decimal"
)

// Snapshot forma serializable del editor para guardarlo entre peticiones (memoria o Redis).
type Snapshot struct {
	Flow           Flow             `json:"flow"`
	Taxonomy       []AttributeType  `json:"taxonomy"`
	Fields         map[string]any   `json:"fields,omitempty"`
	AttributeIDs   Registry         `json:"attribute_ids"`
	Attributes     []AttributeState `json:"attributes"`
	Shops          []ShopState      `json:"shops"`
	SpecIDs        Registry         `json:"spec_ids"`
	Specifications []DetailRow      `json:"specifications"`
	MetaIDs        Registry         `json:"meta_ids"`
	Meta           []DetailRow      `json:"meta"`
	Deleted        Deletions        `json:"deleted"`
}

// AttributeState fila de atributo con su sub-mapa de tiendas.
type AttributeState struct {
	Row   AttributeRow `json:"row"`
	Shops []ShopState  `json:"shops"`
}

func (e *Editor) Snapshot() Snapshot {
	s := Snapshot{
		Flow:           e.flow,
		Taxonomy:       e.taxonomy.Types(),
		Fields:         maps.Clone(e.fields),
		AttributeIDs:   e.attributes.reg.clone(),
		Shops:          e.shops.states(),
		SpecIDs:        e.specifications.reg.clone(),
		Specifications: e.specifications.ordered(),
		MetaIDs:        e.meta.reg.clone(),
		Meta:           e.meta.ordered(),
		Deleted:        e.Deleted(),
	}
	for _, row := range e.attributes.ordered() {
		s.Attributes = append(s.Attributes, AttributeState{Row: row, Shops: e.RowShops(row.ID)})
	}
	return s
}

// Restore reconstruye el editor desde un Snapshot y recalcula los totales.
func Restore(s Snapshot) *Editor {
	e := New(s.Flow, NewTaxonomy(s.Taxonomy))
	for k, v := range s.Fields {
		e.fields[k] = v
	}
	e.attributes.reg = s.AttributeIDs.clone()
	for _, st := range s.Attributes {
		row := st.Row
		e.attributes.put(row.ID, &row)
		ids := make([]ShopID, 0, len(st.Shops))
		for _, sh := range st.Shops {
			ids = append(ids, sh.ShopID)
			e.rowQty[rowShopKey{Row: row.ID, Shop: sh.ShopID}] = sh.Quantity
		}
		if len(ids) > 0 {
			e.rowShops[row.ID] = ids
		}
	}
	for _, sh := range s.Shops {
		e.shops.setQuantity(sh.ShopID, sh.Quantity)
	}
	e.specifications.reg = s.SpecIDs.clone()
	for _, row := range s.Specifications {
		r := row
		e.specifications.put(r.ID, &r)
	}
	e.meta.reg = s.MetaIDs.clone()
	for _, row := range s.Meta {
		r := row
		e.meta.put(r.ID, &r)
	}
	e.deleted = Deletions{
		Attributes:     append([]int64(nil), s.Deleted.Attributes...),
		Specifications: append([]int64(nil), s.Deleted.Specifications...),
		Meta:           append([]int64(nil), s.Deleted.Meta...),
	}
	e.recomputeTotalStock()
	e.totalCost = decimal.Zero
	for _, row := range e.attributes.items {
		e.totalCost = e.totalCost.Add(orZero(row.Cost))
	}
	return e
}
