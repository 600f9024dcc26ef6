package editor

// ProductRecord producto tal como lo devuelve el API de catálogo en el flujo de edición.
// Los escalares llegan como número o como texto según el endpoint; se normalizan al sembrar.
type ProductRecord struct {
	ID             any
	Fields         map[string]any
	Attributes     []AttributeRecord
	Shops          []ShopRecord
	Specifications []DetailRecord
	Meta           []DetailRecord
}

type AttributeRecord struct {
	ID          any          `json:"id"`
	AttributeID any          `json:"attribute_id"`
	ValueID     any          `json:"value_id"`
	MathSign    any          `json:"math_sign"`
	Number      any          `json:"number"`
	Cost        any          `json:"attribute_cost"`
	Weight      any          `json:"attribute_weight"`
	Measurement any          `json:"attribute_mesarment"`
	Shops       []ShopRecord `json:"shop_quantities"`
}

type ShopRecord struct {
	ShopID   any `json:"shop_id"`
	Quantity any `json:"quantity"`
}

// DetailRecord especificación ({name,value}) o meta ({key,value}).
type DetailRecord struct {
	ID    any    `json:"id"`
	Name  string `json:"name"`
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Seed construye el editor del flujo de edición a partir del registro del servidor.
// Los ids de registro se adoptan como ids de fila, así las filas nuevas reciben max+1.
// Un valor que no pertenece al tipo del registro se descarta.
func Seed(taxonomy *Taxonomy, rec ProductRecord) *Editor {
	e := New(FlowEdit, taxonomy)
	for k, v := range rec.Fields {
		if _, reserved := reservedFields[k]; reserved || v == nil {
			continue
		}
		e.fields[k] = v
	}

	for _, ar := range rec.Attributes {
		row := &AttributeRow{
			Cost:        CoerceDecimal(ar.Cost),
			Operand:     CoerceDecimal(ar.Number),
			Weight:      CoerceDecimal(ar.Weight),
			Measurement: coerceText(ar.Measurement),
		}
		row.ID, row.Persisted = adoptOrAllocate(&e.attributes.reg, ar.ID)
		if typeID, ok := CoerceID(ar.AttributeID); ok {
			row.TypeID = &typeID
			if valueID, ok := CoerceID(ar.ValueID); ok && e.taxonomy.HasValue(typeID, valueID) {
				row.ValueID = &valueID
			}
		}
		if sign, err := parseMathSign(ar.MathSign); err == nil {
			row.Sign = sign
		}
		e.attributes.put(row.ID, row)
		for _, sr := range ar.Shops {
			if shopID, ok := CoerceID(sr.ShopID); ok {
				_ = e.SetRowShopQuantity(row.ID, ShopID(shopID), sr.Quantity)
			}
		}
	}

	for _, sr := range rec.Shops {
		if shopID, ok := CoerceID(sr.ShopID); ok {
			e.shops.setQuantity(ShopID(shopID), CoerceDecimal(sr.Quantity))
		}
	}

	seedDetails(&e.specifications, rec.Specifications, false)
	seedDetails(&e.meta, rec.Meta, true)

	e.recomputeTotalStock()
	if len(rec.Attributes) > 0 {
		e.recomputeTotalAttributeCost()
	}
	return e
}

func seedDetails(set *rowSet[DetailRow], recs []DetailRecord, useKey bool) {
	for _, dr := range recs {
		row := &DetailRow{Name: dr.Name, Value: dr.Value}
		if useKey {
			row.Name = dr.Key
		}
		row.ID, row.Persisted = adoptOrAllocate(&set.reg, dr.ID)
		set.put(row.ID, row)
	}
}

func adoptOrAllocate(reg *Registry, raw any) (RowID, bool) {
	if id, ok := CoerceID(raw); ok && reg.Adopt(RowID(id)) {
		return RowID(id), true
	}
	return reg.Allocate(), false
}
