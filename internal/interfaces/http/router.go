package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/product-editor/internal/application/usecase"
	"github.com/jhoicas/product-editor/internal/domain/editor"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	EditorUC     *usecase.EditorUseCase
	ReferenceUC  *usecase.ReferenceUseCase
	BarcodeUC    *usecase.BarcodeUseCase
	SubmissionUC *usecase.SubmissionUseCase
	JWTSecret    string
	Log          zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Todas las rutas de /api requieren Bearer Token
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Referencia
	referenceHandler := NewReferenceHandler(deps.ReferenceUC, deps.Log)
	api.Get("/reference", referenceHandler.Bundle)
	api.Delete("/reference/cache", referenceHandler.Invalidate)

	// Borradores
	h := NewEditorHandler(deps.EditorUC, deps.Log)
	drafts := api.Group("/drafts")
	drafts.Post("/", h.Open)
	drafts.Get("/:id", h.Get)
	drafts.Delete("/:id", h.Close)
	drafts.Post("/:id/reload", h.Reload)
	drafts.Patch("/:id/fields", h.SetFields)
	drafts.Put("/:id/shops", h.SetShops)
	drafts.Put("/:id/shops/:shopId", h.SetShopQuantity)
	drafts.Get("/:id/payload", h.Payload)
	drafts.Post("/:id/submit", h.Submit)

	// Filas de atributos
	drafts.Post("/:id/attributes", h.AddAttribute)
	drafts.Patch("/:id/attributes/:rowId", h.SetAttribute)
	drafts.Delete("/:id/attributes/:rowId", h.RemoveAttribute)
	drafts.Get("/:id/attributes/:rowId/values", h.ValueOptions)
	drafts.Put("/:id/attributes/:rowId/shops", h.SetAttributeShops)
	drafts.Put("/:id/attributes/:rowId/shops/:shopId", h.SetAttributeShopQuantity)

	// Especificaciones y meta
	for _, kind := range []editor.DetailKind{editor.DetailSpecification, editor.DetailMeta} {
		base := "/:id/" + string(kind)
		drafts.Post(base, h.AddDetail(kind))
		drafts.Patch(base+"/:rowId", h.SetDetail(kind))
		drafts.Delete(base+"/:rowId", h.RemoveDetail(kind))
	}

	// Etiquetas
	barcodeHandler := NewBarcodeHandler(deps.BarcodeUC, deps.Log)
	api.Post("/barcodes/sheet", barcodeHandler.Sheet)

	// Historial
	submissionHandler := NewSubmissionHandler(deps.SubmissionUC, deps.Log)
	api.Get("/products/:id/submissions", submissionHandler.ListByProduct)
}
