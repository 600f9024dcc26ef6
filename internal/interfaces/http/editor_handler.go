package http

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/product-editor/internal/application/dto"
	"github.com/jhoicas/product-editor/internal/application/usecase"
	"github.com/jhoicas/product-editor/internal/domain/editor"
)

// EditorHandler maneja los borradores del formulario de producto (protegido).
type EditorHandler struct {
	uc       *usecase.EditorUseCase
	validate *validator.Validate
	log      zerolog.Logger
}

// NewEditorHandler construye el handler.
func NewEditorHandler(uc *usecase.EditorUseCase, log zerolog.Logger) *EditorHandler {
	return &EditorHandler{uc: uc, validate: usecase.NewValidator(), log: log}
}

// ── Ciclo de vida ─────────────────────────────────────────────────────────────

// Open godoc
// @Summary      Abrir borrador
// @Description  Sin product_id abre el formulario de creación; con product_id carga el producto para editarlo.
// @Tags         drafts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OpenDraftRequest  false  "Producto a editar"
// @Success      201   {object}  dto.DraftResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/drafts [post]
func (h *EditorHandler) Open(c *fiber.Ctx) error {
	var in dto.OpenDraftRequest
	if len(c.Body()) > 0 {
		if err := decodeBody(c, &in); err != nil {
			return writeError(c, h.log, err)
		}
	}
	if err := usecase.ValidateStruct(h.validate, in); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.Open(c.UserContext(), actorFrom(c), in.ProductID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get godoc
// @Summary      Ver borrador
// @Tags         drafts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del borrador"
// @Success      200  {object}  dto.DraftResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/drafts/{id} [get]
func (h *EditorHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), actorFrom(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Close godoc
// @Summary      Cerrar borrador
// @Tags         drafts
// @Security     Bearer
// @Param        id   path  string  true  "ID del borrador"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/drafts/{id} [delete]
func (h *EditorHandler) Close(c *fiber.Ctx) error {
	if err := h.uc.Close(c.UserContext(), actorFrom(c), c.Params("id")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Reload godoc
// @Summary      Recargar borrador de edición
// @Description  Vuelve a sembrar desde el API. Si otra recarga empezó después, responde 409 STALE_LOAD.
// @Tags         drafts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del borrador"
// @Success      200  {object}  dto.DraftResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/drafts/{id}/reload [post]
func (h *EditorHandler) Reload(c *fiber.Ctx) error {
	out, err := h.uc.Reload(c.UserContext(), actorFrom(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ── Campos y tiendas ──────────────────────────────────────────────────────────

// SetFields godoc
// @Summary      Campos libres del producto
// @Description  Objeto clave/valor; null elimina la clave. Las claves armadas (stock, attributes…) se rechazan.
// @Tags         drafts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del borrador"
// @Param        body  body  object  true  "Campos"
// @Success      200   {object}  dto.DraftResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/drafts/{id}/fields [patch]
func (h *EditorHandler) SetFields(c *fiber.Ctx) error {
	var fields map[string]any
	if err := decodeBody(c, &fields); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.SetFields(c.UserContext(), actorFrom(c), c.Params("id"), fields)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// SetShops godoc
// @Summary      Tiendas del producto
// @Tags         drafts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID del borrador"
// @Param        body  body  dto.SetShopsRequest  true  "Tiendas"
// @Success      200   {object}  dto.DraftResponse
// @Router       /api/drafts/{id}/shops [put]
func (h *EditorHandler) SetShops(c *fiber.Ctx) error {
	var in dto.SetShopsRequest
	if err := decodeBody(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	if err := usecase.ValidateStruct(h.validate, in); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.SetShops(c.UserContext(), actorFrom(c), c.Params("id"), in.ShopIDs)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// SetShopQuantity godoc
// @Summary      Cantidad de una tienda
// @Description  Cualquier valor no numérico deja la cantidad vacía (cuenta como 0 en el stock total).
// @Tags         drafts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id      path  string               true  "ID del borrador"
// @Param        shopId  path  int                  true  "ID de la tienda"
// @Param        body    body  dto.QuantityRequest  true  "Cantidad"
// @Success      200     {object}  dto.DraftResponse
// @Router       /api/drafts/{id}/shops/{shopId} [put]
func (h *EditorHandler) SetShopQuantity(c *fiber.Ctx) error {
	shopID, err := paramID(c, "shopId")
	if err != nil {
		return writeError(c, h.log, err)
	}
	var in dto.QuantityRequest
	if err := decodeBody(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.SetShopQuantity(c.UserContext(), actorFrom(c), c.Params("id"), shopID, dto.LenientValue(in.Quantity))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ── Atributos ─────────────────────────────────────────────────────────────────

// AddAttribute godoc
// @Summary      Agregar fila de atributo
// @Description  En creación no se agregan más filas que tipos distintos; en ese caso added=false.
// @Tags         attributes
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del borrador"
// @Success      200  {object}  dto.RowAddedResponse
// @Router       /api/drafts/{id}/attributes [post]
func (h *EditorHandler) AddAttribute(c *fiber.Ctx) error {
	out, err := h.uc.AddAttribute(c.UserContext(), actorFrom(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	status := fiber.StatusOK
	if out.Added {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(out)
}

// SetAttribute godoc
// @Summary      Actualizar fila de atributo
// @Description  Campos: attribute_id, value_id, math_sign, number, attribute_cost, attribute_weight, attribute_mesarment. Se aplican juntos o ninguno.
// @Tags         attributes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id     path  string  true  "ID del borrador"
// @Param        rowId  path  int     true  "ID de la fila"
// @Param        body   body  object  true  "Campos de la fila"
// @Success      200    {object}  dto.DraftResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Failure      404    {object}  dto.ErrorResponse
// @Router       /api/drafts/{id}/attributes/{rowId} [patch]
func (h *EditorHandler) SetAttribute(c *fiber.Ctx) error {
	rowID, err := paramID(c, "rowId")
	if err != nil {
		return writeError(c, h.log, err)
	}
	var values map[string]any
	if err := decodeBody(c, &values); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.SetAttribute(c.UserContext(), actorFrom(c), c.Params("id"), rowID, values)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// RemoveAttribute godoc
// @Summary      Quitar fila de atributo
// @Description  En creación solo se puede quitar la última fila (409 REMOVAL_NOT_ALLOWED).
// @Tags         attributes
// @Security     Bearer
// @Produce      json
// @Param        id     path  string  true  "ID del borrador"
// @Param        rowId  path  int     true  "ID de la fila"
// @Success      200    {object}  dto.DraftResponse
// @Failure      409    {object}  dto.ErrorResponse
// @Router       /api/drafts/{id}/attributes/{rowId} [delete]
func (h *EditorHandler) RemoveAttribute(c *fiber.Ctx) error {
	rowID, err := paramID(c, "rowId")
	if err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.RemoveAttribute(c.UserContext(), actorFrom(c), c.Params("id"), rowID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ValueOptions godoc
// @Summary      Valores posibles de la fila
// @Tags         attributes
// @Security     Bearer
// @Produce      json
// @Param        id     path  string  true  "ID del borrador"
// @Param        rowId  path  int     true  "ID de la fila"
// @Success      200    {array}   editor.AttributeValue
// @Router       /api/drafts/{id}/attributes/{rowId}/values [get]
func (h *EditorHandler) ValueOptions(c *fiber.Ctx) error {
	rowID, err := paramID(c, "rowId")
	if err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.ValueOptions(c.UserContext(), actorFrom(c), c.Params("id"), rowID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	if out == nil {
		out = []editor.AttributeValue{}
	}
	return c.JSON(out)
}

// SetAttributeShops godoc
// @Summary      Tiendas de una fila de atributo
// @Tags         attributes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id     path  string               true  "ID del borrador"
// @Param        rowId  path  int                  true  "ID de la fila"
// @Param        body   body  dto.SetShopsRequest  true  "Tiendas"
// @Success      200    {object}  dto.DraftResponse
// @Router       /api/drafts/{id}/attributes/{rowId}/shops [put]
func (h *EditorHandler) SetAttributeShops(c *fiber.Ctx) error {
	rowID, err := paramID(c, "rowId")
	if err != nil {
		return writeError(c, h.log, err)
	}
	var in dto.SetShopsRequest
	if err := decodeBody(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	if err := usecase.ValidateStruct(h.validate, in); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.SetAttributeShops(c.UserContext(), actorFrom(c), c.Params("id"), rowID, in.ShopIDs)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// SetAttributeShopQuantity godoc
// @Summary      Cantidad de una tienda en una fila de atributo
// @Tags         attributes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id      path  string               true  "ID del borrador"
// @Param        rowId   path  int                  true  "ID de la fila"
// @Param        shopId  path  int                  true  "ID de la tienda"
// @Param        body    body  dto.QuantityRequest  true  "Cantidad"
// @Success      200     {object}  dto.DraftResponse
// @Router       /api/drafts/{id}/attributes/{rowId}/shops/{shopId} [put]
func (h *EditorHandler) SetAttributeShopQuantity(c *fiber.Ctx) error {
	rowID, err := paramID(c, "rowId")
	if err != nil {
		return writeError(c, h.log, err)
	}
	shopID, err := paramID(c, "shopId")
	if err != nil {
		return writeError(c, h.log, err)
	}
	var in dto.QuantityRequest
	if err := decodeBody(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.SetAttributeShopQuantity(c.UserContext(), actorFrom(c), c.Params("id"), rowID, shopID, dto.LenientValue(in.Quantity))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ── Especificaciones y meta ───────────────────────────────────────────────────

// AddDetail godoc
// @Summary      Agregar fila de especificación o meta
// @Tags         details
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del borrador"
// @Success      201  {object}  dto.RowAddedResponse
// @Router       /api/drafts/{id}/specifications [post]
// @Router       /api/drafts/{id}/meta [post]
func (h *EditorHandler) AddDetail(kind editor.DetailKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		out, err := h.uc.AddDetail(c.UserContext(), actorFrom(c), c.Params("id"), kind)
		if err != nil {
			return writeError(c, h.log, err)
		}
		return c.Status(fiber.StatusCreated).JSON(out)
	}
}

// SetDetail godoc
// @Summary      Actualizar fila de especificación o meta
// @Tags         details
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id     path  string                true  "ID del borrador"
// @Param        rowId  path  int                   true  "ID de la fila"
// @Param        body   body  dto.DetailRowRequest  true  "Nombre (o clave) y valor"
// @Success      200    {object}  dto.DraftResponse
// @Router       /api/drafts/{id}/specifications/{rowId} [patch]
// @Router       /api/drafts/{id}/meta/{rowId} [patch]
func (h *EditorHandler) SetDetail(kind editor.DetailKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rowID, err := paramID(c, "rowId")
		if err != nil {
			return writeError(c, h.log, err)
		}
		var in dto.DetailRowRequest
		if err := decodeBody(c, &in); err != nil {
			return writeError(c, h.log, err)
		}
		out, err := h.uc.SetDetail(c.UserContext(), actorFrom(c), c.Params("id"), kind, rowID, in)
		if err != nil {
			return writeError(c, h.log, err)
		}
		return c.JSON(out)
	}
}

// RemoveDetail godoc
// @Summary      Quitar fila de especificación o meta
// @Tags         details
// @Security     Bearer
// @Produce      json
// @Param        id     path  string  true  "ID del borrador"
// @Param        rowId  path  int     true  "ID de la fila"
// @Success      200    {object}  dto.DraftResponse
// @Failure      409    {object}  dto.ErrorResponse
// @Router       /api/drafts/{id}/specifications/{rowId} [delete]
// @Router       /api/drafts/{id}/meta/{rowId} [delete]
func (h *EditorHandler) RemoveDetail(kind editor.DetailKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rowID, err := paramID(c, "rowId")
		if err != nil {
			return writeError(c, h.log, err)
		}
		out, err := h.uc.RemoveDetail(c.UserContext(), actorFrom(c), c.Params("id"), kind, rowID)
		if err != nil {
			return writeError(c, h.log, err)
		}
		return c.JSON(out)
	}
}

// ── Envío ─────────────────────────────────────────────────────────────────────

// Payload godoc
// @Summary      Vista previa del payload
// @Description  Cuerpo que se enviaría al API de catálogo. 422 si el borrador no es consistente.
// @Tags         drafts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del borrador"
// @Success      200  {object}  object
// @Failure      422  {object}  dto.ValidationErrorResponse
// @Router       /api/drafts/{id}/payload [get]
func (h *EditorHandler) Payload(c *fiber.Ctx) error {
	p, err := h.uc.Payload(c.UserContext(), actorFrom(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(p)
}

// Submit godoc
// @Summary      Enviar formulario
// @Description  POST /products en creación (201 con next_step para subir fotos); PUT /products/{id} en edición (200 con el borrador resembrado).
// @Tags         drafts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del borrador"
// @Success      200  {object}  dto.SubmitResponse
// @Success      201  {object}  dto.SubmitResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ValidationErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/drafts/{id}/submit [post]
func (h *EditorHandler) Submit(c *fiber.Ctx) error {
	out, err := h.uc.Submit(c.UserContext(), actorFrom(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	status := fiber.StatusOK
	if out.Status == "created" {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(out)
}
