package ports

import (
	"context"

	"github.com/jhoicas/product-editor/internal/domain/barcode"
	"github.com/jhoicas/product-editor/internal/domain/editor"
	"github.com/jhoicas/product-editor/internal/domain/entity"
)

// RefKind catálogos simples id/nombre del API.
type RefKind string

const (
	RefBrands    RefKind = "brands"
	RefCountries RefKind = "countries"
	RefSuppliers RefKind = "suppliers"
)

// SaveResult respuesta del alta o actualización: id del producto y el tipo y mensaje que el
// API devuelve para el aviso al usuario (p. ej. "success", "Producto creado").
type SaveResult struct {
	ProductID int64
	Type      string
	Message   string
}

// CatalogGateway puerto de salida hacia el API REST del catálogo.
// Los errores son domain.ErrNotFound (404), *domain.ValidationError (422) o *domain.UpstreamError.
type CatalogGateway interface {
	FetchTaxonomy(ctx context.Context) ([]editor.AttributeType, error)
	FetchShops(ctx context.Context) ([]entity.Shop, error)
	// FetchCategories lista plana; el árbol se arma con entity.BuildCategoryTree.
	FetchCategories(ctx context.Context) ([]entity.Category, error)
	FetchRefs(ctx context.Context, kind RefKind) ([]entity.NamedRef, error)

	GetProduct(ctx context.Context, id int64) (editor.ProductRecord, error)
	// CreateProduct devuelve el id asignado por el servidor.
	CreateProduct(ctx context.Context, p editor.Payload) (SaveResult, error)
	UpdateProduct(ctx context.Context, id int64, p editor.Payload) (SaveResult, error)
}

// BarcodeSheetRenderer dibuja una hoja de etiquetas ya paginada.
type BarcodeSheetRenderer interface {
	Render(ctx context.Context, sheet barcode.Sheet, title string) ([]byte, error)
}
