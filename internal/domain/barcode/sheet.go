// Package barcode arma hojas de etiquetas con código de barras a partir de productos.
package barcode

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/product-editor/internal/domain"
)

// Límites de la grilla; una hoja A4 no admite más.
const (
	MaxColumns     = 6
	MaxRowsPerPage = 20
	MaxCopies      = 500
)

// Label contenido de una etiqueta.
type Label struct {
	Code    string
	Caption string
	Price   decimal.NullDecimal
}

// Item etiqueta a imprimir y cuántas copias.
type Item struct {
	Label  Label
	Copies int
}

// Layout grilla de la hoja: columnas × filas por página.
type Layout struct {
	Columns     int
	RowsPerPage int
}

func (l Layout) Validate() error {
	if l.Columns < 1 || l.Columns > MaxColumns {
		return fmt.Errorf("%w: columnas debe estar entre 1 y %d", domain.ErrInvalidInput, MaxColumns)
	}
	if l.RowsPerPage < 1 || l.RowsPerPage > MaxRowsPerPage {
		return fmt.Errorf("%w: filas por página debe estar entre 1 y %d", domain.ErrInvalidInput, MaxRowsPerPage)
	}
	return nil
}

// PerPage etiquetas por página.
func (l Layout) PerPage() int { return l.Columns * l.RowsPerPage }

// Page una página de la hoja; la última fila puede quedar incompleta.
type Page struct {
	Rows [][]Label
}

// Count etiquetas en la página.
func (p Page) Count() int {
	n := 0
	for _, r := range p.Rows {
		n += len(r)
	}
	return n
}

// Sheet hoja completa paginada.
type Sheet struct {
	Layout Layout
	Pages  []Page
}

// Total etiquetas en toda la hoja.
func (s Sheet) Total() int {
	n := 0
	for _, p := range s.Pages {
		n += p.Count()
	}
	return n
}

// Paginate expande las copias y reparte las etiquetas en la grilla, en orden.
// Un ítem con 0 copias se omite; un código vacío o copias negativas son error.
func Paginate(items []Item, layout Layout) (Sheet, error) {
	if err := layout.Validate(); err != nil {
		return Sheet{}, err
	}
	labels := make([]Label, 0, len(items))
	for i, it := range items {
		if it.Copies < 0 || it.Copies > MaxCopies {
			return Sheet{}, fmt.Errorf("%w: ítem %d: copias fuera de rango", domain.ErrInvalidInput, i)
		}
		if it.Copies == 0 {
			continue
		}
		if strings.TrimSpace(it.Label.Code) == "" {
			return Sheet{}, fmt.Errorf("%w: ítem %d: código vacío", domain.ErrInvalidInput, i)
		}
		for c := 0; c < it.Copies; c++ {
			labels = append(labels, it.Label)
		}
	}

	sheet := Sheet{Layout: layout}
	for start := 0; start < len(labels); start += layout.PerPage() {
		end := min(start+layout.PerPage(), len(labels))
		sheet.Pages = append(sheet.Pages, pageOf(labels[start:end], layout.Columns))
	}
	return sheet, nil
}

func pageOf(labels []Label, columns int) Page {
	var p Page
	for start := 0; start < len(labels); start += columns {
		end := min(start+columns, len(labels))
		p.Rows = append(p.Rows, labels[start:end:end])
	}
	return p
}
