package usecase

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/product-editor/internal/application/dto"
	"github.com/jhoicas/product-editor/internal/application/ports"
	"github.com/jhoicas/product-editor/internal/domain"
	"github.com/jhoicas/product-editor/internal/domain/barcode"
	"github.com/jhoicas/product-editor/internal/domain/entity"
)

// BarcodeUseCase genera hojas de etiquetas con código de barras para imprimir.
type BarcodeUseCase struct {
	catalog     ports.CatalogGateway
	renderer    ports.BarcodeSheetRenderer
	defaults    barcode.Layout
	parallelism int
	validate    *validator.Validate
	log         zerolog.Logger
}

// NewBarcodeUseCase construye el caso de uso. parallelism limita las consultas simultáneas al API.
func NewBarcodeUseCase(catalog ports.CatalogGateway, renderer ports.BarcodeSheetRenderer, defaults barcode.Layout, parallelism int, log zerolog.Logger) *BarcodeUseCase {
	if parallelism <= 0 {
		parallelism = 4
	}
	return &BarcodeUseCase{
		catalog:     catalog,
		renderer:    renderer,
		defaults:    defaults,
		parallelism: parallelism,
		validate:    NewValidator(),
		log:         log,
	}
}

// Generate consulta los productos, reparte las etiquetas en la grilla y devuelve el PDF.
func (uc *BarcodeUseCase) Generate(ctx context.Context, in dto.BarcodeSheetRequest) ([]byte, error) {
	if err := ValidateStruct(uc.validate, in); err != nil {
		return nil, err
	}
	layout := uc.defaults
	if in.Columns > 0 {
		layout.Columns = in.Columns
	}
	if in.RowsPerPage > 0 {
		layout.RowsPerPage = in.RowsPerPage
	}

	labels := make([]entity.ProductLabel, len(in.Items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.parallelism)
	for i, it := range in.Items {
		if it.Copies == 0 {
			continue
		}
		g.Go(func() error {
			rec, err := uc.catalog.GetProduct(gctx, it.ProductID)
			if err != nil {
				return fmt.Errorf("producto %d: %w", it.ProductID, err)
			}
			labels[i] = entity.LabelFromRecord(it.ProductID, rec)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	items := make([]barcode.Item, 0, len(in.Items))
	missing := make(map[string][]string)
	for i, it := range in.Items {
		if it.Copies == 0 {
			continue
		}
		l := labels[i]
		if l.Code == "" {
			key := fmt.Sprintf("items.%d.product_id", i)
			missing[key] = append(missing[key], "el producto no tiene código de barras ni SKU")
			continue
		}
		items = append(items, barcode.Item{
			Label:  barcode.Label{Code: l.Code, Caption: l.Name, Price: l.Price},
			Copies: it.Copies,
		})
	}
	if len(missing) > 0 {
		return nil, &domain.ValidationError{Message: "productos sin código", Fields: missing}
	}

	sheet, err := barcode.Paginate(items, layout)
	if err != nil {
		return nil, err
	}
	if sheet.Total() == 0 {
		return nil, fmt.Errorf("%w: no hay etiquetas para imprimir", domain.ErrInvalidInput)
	}
	doc, err := uc.renderer.Render(ctx, sheet, in.Title)
	if err != nil {
		return nil, fmt.Errorf("hoja de etiquetas: %w", err)
	}
	uc.log.Info().Int("labels", sheet.Total()).Int("pages", len(sheet.Pages)).Msg("hoja de etiquetas generada")
	return doc, nil
}
