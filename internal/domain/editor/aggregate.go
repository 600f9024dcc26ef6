package editor

import "github.com/shopspring/decimal"

// TotalStock suma de cantidades del stock por tienda del producto (no incluye las de atributos).
func (e *Editor) TotalStock() decimal.Decimal { return e.totalStock }

// TotalAttributeCost suma del costo de todas las filas de atributo.
func (e *Editor) TotalAttributeCost() decimal.Decimal { return e.totalCost }

func (e *Editor) recomputeTotalStock() {
	e.totalStock = SumQuantities(e.shops.states())
}

// recomputeTotalAttributeCost recalcula y escribe el total con dos decimales en el campo cost del formulario.
func (e *Editor) recomputeTotalAttributeCost() {
	total := decimal.Zero
	for _, row := range e.attributes.items {
		total = total.Add(orZero(row.Cost))
	}
	e.totalCost = total
	e.fields[FieldCost] = total.StringFixed(2)
}

// SumQuantities suma cantidades tratando las vacías como 0.
func SumQuantities(states []ShopState) decimal.Decimal {
	total := decimal.Zero
	for _, s := range states {
		total = total.Add(orZero(s.Quantity))
	}
	return total
}

// SumLenient suma entradas crudas del formulario; lo no numérico o ausente cuenta como 0.
func SumLenient(values ...any) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(orZero(CoerceDecimal(v)))
	}
	return total
}
