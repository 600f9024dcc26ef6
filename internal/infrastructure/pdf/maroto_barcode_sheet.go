// Package pdf dibuja hojas de etiquetas con código de barras en PDF (A4).
//
// Cada página de barcode.Sheet se dibuja en una página del PDF:
//
//	┌───────────────────────────────────────────┐
//	│  TÍTULO                      Página n / N │
//	│  ───────────────────────────────────────  │
//	│  ▌▌▌▌▌▌▌   ▌▌▌▌▌▌▌   ▌▌▌▌▌▌▌              │
//	│  código    código    código               │
//	│  nombre    nombre    nombre               │
//	│  $ precio  $ precio  $ precio             │
//	└───────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/page"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/product-editor/internal/application/ports"
	"github.com/jhoicas/product-editor/internal/domain"
	"github.com/jhoicas/product-editor/internal/domain/barcode"
)

var _ ports.BarcodeSheetRenderer = (*MarotoBarcodeRenderer)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Medidas (mm) ──────────────────────────────────────────────────────────────

const (
	margin       = 10.0
	usableHeight = 297.0 - 2*margin
	headerHeight = 10.0
	ruleHeight   = 2.0
	captionSize  = 7.0
	maxCaption   = 40
)

// ── Renderer ──────────────────────────────────────────────────────────────────

// MarotoBarcodeRenderer implementa ports.BarcodeSheetRenderer usando Maroto v2.
type MarotoBarcodeRenderer struct{}

// NewMarotoBarcodeRenderer construye el renderer.
func NewMarotoBarcodeRenderer() *MarotoBarcodeRenderer { return &MarotoBarcodeRenderer{} }

// Render genera el PDF de la hoja y devuelve sus bytes.
func (r *MarotoBarcodeRenderer) Render(ctx context.Context, sheet barcode.Sheet, title string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := sheet.Layout.Validate(); err != nil {
		return nil, err
	}
	if len(sheet.Pages) == 0 {
		return nil, fmt.Errorf("%w: hoja sin etiquetas", domain.ErrInvalidInput)
	}
	if title == "" {
		title = "Etiquetas"
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(margin).WithRightMargin(margin).
		WithTopMargin(margin).WithBottomMargin(margin).
		WithMaxGridSize(sheet.Layout.Columns).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: captionSize}).
		WithTitle(title, true).
		Build()

	m := maroto.New(cfg)
	labelHeight := (usableHeight - headerHeight - ruleHeight - 1) / float64(sheet.Layout.RowsPerPage)

	for i, p := range sheet.Pages {
		pg := page.New()
		pg.Add(headerRow(title, i+1, len(sheet.Pages), sheet.Layout.Columns))
		pg.Add(line.NewRow(ruleHeight, props.Line{Color: colorPrimary, Thickness: 0.4}))
		for _, labels := range p.Rows {
			pg.Add(labelRow(labels, sheet.Layout.Columns, labelHeight))
		}
		m.AddPages(pg)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generar pdf de etiquetas: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Filas ─────────────────────────────────────────────────────────────────────

func headerRow(title string, n, total, columns int) core.Row {
	left := max(columns-1, 1)
	r := row.New(headerHeight).Add(
		col.New(left).Add(text.New(title, props.Text{
			Style: fontstyle.Bold, Size: 11, Color: colorPrimary, Top: 2,
		})),
	)
	if columns > 1 {
		r.Add(col.New(1).Add(text.New(fmt.Sprintf("Página %d / %d", n, total), props.Text{
			Size: captionSize, Align: align.Right, Color: colorGray, Top: 3,
		})))
	}
	return r
}

// labelRow una fila de la grilla; completa con columnas vacías si la fila es la última.
func labelRow(labels []barcode.Label, columns int, height float64) core.Row {
	cols := make([]core.Col, 0, columns)
	for _, l := range labels {
		cols = append(cols, labelCol(l, height))
	}
	for len(cols) < columns {
		cols = append(cols, col.New(1))
	}
	return row.New(height).Add(cols...)
}

func labelCol(l barcode.Label, height float64) core.Col {
	barTop := 1.0
	textTop := height * 0.55
	c := col.New(1).Add(
		code.NewBar(l.Code, props.Barcode{Center: true, Percent: 50, Top: barTop}),
		text.New(l.Code, props.Text{Size: captionSize, Align: align.Center, Top: textTop}),
	)
	if l.Caption != "" {
		c.Add(text.New(truncate(l.Caption, maxCaption), props.Text{
			Size: captionSize, Align: align.Center, Top: textTop + 3, Color: colorGray,
		}))
	}
	if l.Price.Valid {
		c.Add(text.New("$ "+l.Price.Decimal.StringFixed(2), props.Text{
			Style: fontstyle.Bold, Size: captionSize, Align: align.Center, Top: textTop + 6,
		}))
	}
	return c
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
