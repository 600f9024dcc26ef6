package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/product-editor/internal/application/dto"
	"github.com/jhoicas/product-editor/internal/application/ports"
	"github.com/jhoicas/product-editor/internal/domain"
	"github.com/jhoicas/product-editor/internal/domain/editor"
	"github.com/jhoicas/product-editor/internal/domain/entity"
	"github.com/jhoicas/product-editor/internal/domain/repository"
)

// Actor usuario autenticado que opera sobre los borradores.
type Actor struct {
	UserID    string
	CompanyID string
}

// TaxonomySource datos de referencia que necesita el editor antes de sembrar un producto.
type TaxonomySource interface {
	Taxonomy(ctx context.Context) ([]editor.AttributeType, error)
}

// EditorConfig parámetros del caso de uso.
type EditorConfig struct {
	PhotoPath string // plantilla con %d; vacío = sin siguiente paso
}

// EditorUseCase orquesta los borradores del formulario de producto: apertura, ediciones,
// recargas secuenciadas y envío al API de catálogo.
type EditorUseCase struct {
	drafts   repository.DraftStore
	catalog  ports.CatalogGateway
	refs     TaxonomySource
	journal  repository.SubmissionJournal // puede ser nil
	validate *validator.Validate
	cfg      EditorConfig
	log      zerolog.Logger
	now      func() time.Time
}

// NewEditorUseCase construye el caso de uso.
func NewEditorUseCase(
	drafts repository.DraftStore,
	catalog ports.CatalogGateway,
	refs TaxonomySource,
	journal repository.SubmissionJournal,
	cfg EditorConfig,
	log zerolog.Logger,
) *EditorUseCase {
	return &EditorUseCase{
		drafts:   drafts,
		catalog:  catalog,
		refs:     refs,
		journal:  journal,
		validate: NewValidator(),
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

// ── Apertura y recarga ────────────────────────────────────────────────────────

// Open abre un borrador de creación, o de edición si productID > 0. En edición primero se
// espera la taxonomía y después se consulta y siembra el producto.
func (uc *EditorUseCase) Open(ctx context.Context, actor Actor, productID int64) (*dto.DraftResponse, error) {
	if actor.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	if productID < 0 {
		return nil, domain.ErrInvalidInput
	}
	types, err := uc.refs.Taxonomy(ctx)
	if err != nil {
		return nil, fmt.Errorf("abrir borrador: %w", err)
	}
	taxonomy := editor.NewTaxonomy(types)

	now := uc.now()
	draft := &entity.Draft{
		ID:         uuid.New().String(),
		OwnerID:    actor.UserID,
		CompanyID:  actor.CompanyID,
		Flow:       editor.FlowCreate,
		Generation: 1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	e := editor.New(editor.FlowCreate, taxonomy)
	if productID > 0 {
		rec, err := uc.catalog.GetProduct(ctx, productID)
		if err != nil {
			return nil, fmt.Errorf("abrir borrador: producto %d: %w", productID, err)
		}
		draft.Flow = editor.FlowEdit
		draft.ProductID = productID
		e = editor.Seed(taxonomy, rec)
	}
	draft.Apply(e)
	if err := uc.drafts.Create(ctx, draft); err != nil {
		return nil, fmt.Errorf("abrir borrador: %w", err)
	}
	uc.log.Info().
		Str("draft_id", draft.ID).
		Str("flow", string(draft.Flow)).
		Int64("product_id", productID).
		Str("user_id", actor.UserID).
		Msg("borrador abierto")
	return toDraftResponse(draft), nil
}

// Reload vuelve a sembrar un borrador de edición desde el API. Cada recarga lleva un número
// de generación y la versión del borrador al empezar; si mientras tanto empezó otra recarga
// o se aceptó otra edición, el resultado se descarta con ErrStaleLoad.
func (uc *EditorUseCase) Reload(ctx context.Context, actor Actor, id string) (*dto.DraftResponse, error) {
	started, err := uc.drafts.Update(ctx, id, func(d *entity.Draft) error {
		if err := checkWritable(d, actor); err != nil {
			return err
		}
		if d.Flow != editor.FlowEdit {
			return fmt.Errorf("%w: solo los borradores de edición se recargan", domain.ErrInvalidInput)
		}
		d.Generation++
		return nil
	})
	if err != nil {
		return nil, err
	}
	d, err := uc.reseed(ctx, started.ID, started.ProductID, started.Generation, started.Version)
	if err != nil {
		return nil, err
	}
	return toDraftResponse(d), nil
}

// reseed carga taxonomía y producto y los aplica solo si el borrador sigue en la generación
// gen y la versión version, es decir, nadie escribió en él desde que empezó la carga.
func (uc *EditorUseCase) reseed(ctx context.Context, id string, productID int64, gen uint64, version int64) (*entity.Draft, error) {
	types, err := uc.refs.Taxonomy(ctx)
	if err != nil {
		return nil, fmt.Errorf("recargar borrador: %w", err)
	}
	rec, err := uc.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("recargar borrador: producto %d: %w", productID, err)
	}
	seeded := editor.Seed(editor.NewTaxonomy(types), rec)
	d, err := uc.drafts.Update(ctx, id, func(d *entity.Draft) error {
		if d.Generation != gen || d.Version != version {
			return domain.ErrStaleLoad
		}
		d.Apply(seeded)
		d.UpdatedAt = uc.now()
		return nil
	})
	if errors.Is(err, domain.ErrStaleLoad) {
		uc.log.Warn().Str("draft_id", id).Uint64("generation", gen).Int64("version", version).Msg("carga obsoleta descartada")
	}
	return d, err
}

// Get estado actual del borrador.
func (uc *EditorUseCase) Get(ctx context.Context, actor Actor, id string) (*dto.DraftResponse, error) {
	d, err := uc.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return toDraftResponse(d), nil
}

// Close descarta el borrador. No se puede cerrar con un envío en curso.
func (uc *EditorUseCase) Close(ctx context.Context, actor Actor, id string) error {
	d, err := uc.owned(ctx, actor, id)
	if err != nil {
		return err
	}
	if d.Loading {
		return domain.ErrDraftBusy
	}
	return uc.drafts.Delete(ctx, id)
}

// ── Ediciones ─────────────────────────────────────────────────────────────────

// mutate aplica fn al editor del borrador dentro de la escritura atómica del store.
func (uc *EditorUseCase) mutate(ctx context.Context, actor Actor, id string, fn func(e *editor.Editor) error) (*entity.Draft, error) {
	return uc.drafts.Update(ctx, id, func(d *entity.Draft) error {
		if err := checkWritable(d, actor); err != nil {
			return err
		}
		e := d.Editor()
		if err := fn(e); err != nil {
			return err
		}
		d.Apply(e)
		d.UpdatedAt = uc.now()
		return nil
	})
}

func (uc *EditorUseCase) mutateResponse(ctx context.Context, actor Actor, id string, fn func(e *editor.Editor) error) (*dto.DraftResponse, error) {
	d, err := uc.mutate(ctx, actor, id, fn)
	if err != nil {
		return nil, err
	}
	return toDraftResponse(d), nil
}

// SetFields campos libres del producto (nombre, precio, categorías…). null elimina la clave.
func (uc *EditorUseCase) SetFields(ctx context.Context, actor Actor, id string, fields map[string]any) (*dto.DraftResponse, error) {
	return uc.mutateResponse(ctx, actor, id, func(e *editor.Editor) error {
		return e.SetFields(fields)
	})
}

// SetShops reemplaza la selección de tiendas del producto.
func (uc *EditorUseCase) SetShops(ctx context.Context, actor Actor, id string, shopIDs []int64) (*dto.DraftResponse, error) {
	return uc.mutateResponse(ctx, actor, id, func(e *editor.Editor) error {
		return e.SetShops(toShopIDs(shopIDs))
	})
}

// SetShopQuantity cantidad de una tienda del producto.
func (uc *EditorUseCase) SetShopQuantity(ctx context.Context, actor Actor, id string, shopID int64, quantity any) (*dto.DraftResponse, error) {
	return uc.mutateResponse(ctx, actor, id, func(e *editor.Editor) error {
		return e.SetShopQuantity(editor.ShopID(shopID), quantity)
	})
}

// AddAttribute agrega una fila de atributo. added=false si el tope de la creación ya se alcanzó.
func (uc *EditorUseCase) AddAttribute(ctx context.Context, actor Actor, id string) (*dto.RowAddedResponse, error) {
	var rowID editor.RowID
	var added bool
	d, err := uc.mutate(ctx, actor, id, func(e *editor.Editor) error {
		rowID, added = e.AddAttributeRow()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.RowAddedResponse{Added: added, RowID: int64(rowID), Draft: toDraftResponse(d)}, nil
}

// SetAttribute actualiza campos de una fila (attribute_id, value_id, math_sign, number,
// attribute_cost, attribute_weight, attribute_mesarment) de forma atómica.
func (uc *EditorUseCase) SetAttribute(ctx context.Context, actor Actor, id string, rowID int64, values map[string]any) (*dto.DraftResponse, error) {
	fields := make(map[editor.Field]any, len(values))
	for k, v := range values {
		fields[editor.Field(k)] = v
	}
	return uc.mutateResponse(ctx, actor, id, func(e *editor.Editor) error {
		return e.SetAttributeFields(editor.RowID(rowID), fields)
	})
}

// RemoveAttribute quita una fila; en creación solo la última.
func (uc *EditorUseCase) RemoveAttribute(ctx context.Context, actor Actor, id string, rowID int64) (*dto.DraftResponse, error) {
	return uc.mutateResponse(ctx, actor, id, func(e *editor.Editor) error {
		return e.RemoveAttributeRow(editor.RowID(rowID))
	})
}

// ValueOptions valores seleccionables según el tipo elegido en la fila.
func (uc *EditorUseCase) ValueOptions(ctx context.Context, actor Actor, id string, rowID int64) ([]editor.AttributeValue, error) {
	d, err := uc.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return d.Editor().ValueOptions(editor.RowID(rowID))
}

// SetAttributeShops selección de tiendas de una fila de atributo.
func (uc *EditorUseCase) SetAttributeShops(ctx context.Context, actor Actor, id string, rowID int64, shopIDs []int64) (*dto.DraftResponse, error) {
	return uc.mutateResponse(ctx, actor, id, func(e *editor.Editor) error {
		return e.SetRowShops(editor.RowID(rowID), toShopIDs(shopIDs))
	})
}

// SetAttributeShopQuantity cantidad de una tienda dentro de una fila de atributo.
func (uc *EditorUseCase) SetAttributeShopQuantity(ctx context.Context, actor Actor, id string, rowID, shopID int64, quantity any) (*dto.DraftResponse, error) {
	return uc.mutateResponse(ctx, actor, id, func(e *editor.Editor) error {
		return e.SetRowShopQuantity(editor.RowID(rowID), editor.ShopID(shopID), quantity)
	})
}

// AddDetail agrega una fila de especificación o meta.
func (uc *EditorUseCase) AddDetail(ctx context.Context, actor Actor, id string, kind editor.DetailKind) (*dto.RowAddedResponse, error) {
	var rowID editor.RowID
	d, err := uc.mutate(ctx, actor, id, func(e *editor.Editor) error {
		var err error
		rowID, err = e.AddDetailRow(kind)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &dto.RowAddedResponse{Added: true, RowID: int64(rowID), Draft: toDraftResponse(d)}, nil
}

// SetDetail actualiza nombre (o clave en meta) y valor.
func (uc *EditorUseCase) SetDetail(ctx context.Context, actor Actor, id string, kind editor.DetailKind, rowID int64, in dto.DetailRowRequest) (*dto.DraftResponse, error) {
	name := in.Name
	if kind == editor.DetailMeta && in.Key != nil {
		name = in.Key
	}
	return uc.mutateResponse(ctx, actor, id, func(e *editor.Editor) error {
		return e.SetDetailRow(kind, editor.RowID(rowID), name, in.Value)
	})
}

// RemoveDetail quita una fila de especificación o meta.
func (uc *EditorUseCase) RemoveDetail(ctx context.Context, actor Actor, id string, kind editor.DetailKind, rowID int64) (*dto.DraftResponse, error) {
	return uc.mutateResponse(ctx, actor, id, func(e *editor.Editor) error {
		return e.RemoveDetailRow(kind, editor.RowID(rowID))
	})
}

// ── Payload y envío ───────────────────────────────────────────────────────────

// Payload arma y valida el cuerpo que se enviaría al API, sin enviarlo.
func (uc *EditorUseCase) Payload(ctx context.Context, actor Actor, id string) (editor.Payload, error) {
	d, err := uc.owned(ctx, actor, id)
	if err != nil {
		return editor.Payload{}, err
	}
	return uc.assemble(d.Editor())
}

func (uc *EditorUseCase) assemble(e *editor.Editor) (editor.Payload, error) {
	if err := e.Validate(); err != nil {
		return editor.Payload{}, err
	}
	p := e.Assemble()
	if err := ValidateStruct(uc.validate, p); err != nil {
		return editor.Payload{}, err
	}
	return p, nil
}

// Submit envía el formulario: POST en creación, PUT en edición. Marca el borrador como
// ocupado mientras dura el envío y siempre lo libera al salir, también ante errores.
// Tras crear se cierra el borrador; tras actualizar se vuelve a sembrar desde el API.
func (uc *EditorUseCase) Submit(ctx context.Context, actor Actor, id string) (*dto.SubmitResponse, error) {
	d, err := uc.drafts.Update(ctx, id, func(d *entity.Draft) error {
		if err := checkOwner(d, actor); err != nil {
			return err
		}
		if d.Loading {
			return fmt.Errorf("%w: envío en curso", domain.ErrConflict)
		}
		d.Loading = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	defer uc.releaseLoading(ctx, id)

	log := uc.log.With().Str("draft_id", id).Str("flow", string(d.Flow)).Int64("product_id", d.ProductID).Logger()
	e := d.Editor()
	payload, err := uc.assemble(e)
	if err != nil {
		uc.record(ctx, d, e, nil, "", err)
		log.Info().Err(err).Msg("envío rechazado por validación local")
		return nil, err
	}

	var saved ports.SaveResult
	switch d.Flow {
	case editor.FlowCreate:
		saved, err = uc.catalog.CreateProduct(ctx, payload)
	case editor.FlowEdit:
		saved, err = uc.catalog.UpdateProduct(ctx, d.ProductID, payload)
	default:
		err = fmt.Errorf("%w: flujo %q", domain.ErrInvalidInput, d.Flow)
	}
	productID := d.ProductID
	if d.Flow == editor.FlowCreate {
		productID = saved.ProductID
	}
	sent := *d
	sent.ProductID = productID
	uc.record(ctx, &sent, e, &payload, saved.Message, err)
	if err != nil {
		log.Warn().Err(err).Msg("envío fallido")
		return nil, err
	}
	log.Info().Int64("product_id", productID).Str("type", saved.Type).Msg("envío exitoso")

	out := &dto.SubmitResponse{ProductID: productID, Type: saved.Type, Message: saved.Message}
	if d.Flow == editor.FlowCreate {
		if err := uc.drafts.Delete(ctx, id); err != nil {
			log.Warn().Err(err).Msg("cerrar borrador tras crear")
		}
		out.Status = "created"
		if uc.cfg.PhotoPath != "" {
			out.NextStep = fmt.Sprintf(uc.cfg.PhotoPath, productID)
		}
		return out, nil
	}

	out.Status = "updated"
	next, err := uc.drafts.Update(ctx, id, func(d *entity.Draft) error {
		d.Generation++
		return nil
	})
	if err != nil {
		return nil, err
	}
	reseeded, err := uc.reseed(ctx, id, productID, next.Generation, next.Version)
	if err != nil {
		// El producto ya se guardó; el borrador queda con el estado enviado.
		log.Warn().Err(err).Msg("resembrar tras actualizar")
		return out, nil
	}
	reseeded.Loading = false
	out.Draft = toDraftResponse(reseeded)
	return out, nil
}

// releaseLoading libera el borrador aunque el contexto de la petición ya se haya cancelado.
func (uc *EditorUseCase) releaseLoading(ctx context.Context, id string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	_, err := uc.drafts.Update(ctx, id, func(d *entity.Draft) error {
		d.Loading = false
		return nil
	})
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		uc.log.Error().Err(err).Str("draft_id", id).Msg("liberar borrador")
	}
}

// record deja el intento en el historial; un fallo del historial no cambia el resultado del envío.
func (uc *EditorUseCase) record(ctx context.Context, d *entity.Draft, e *editor.Editor, payload *editor.Payload, notice string, sendErr error) {
	if uc.journal == nil {
		return
	}
	s := &entity.Submission{
		ID:         uuid.New().String(),
		DraftID:    d.ID,
		CompanyID:  d.CompanyID,
		UserID:     d.OwnerID,
		ProductID:  d.ProductID,
		Flow:       d.Flow,
		TotalStock: e.TotalStock(),
		TotalCost:  e.TotalAttributeCost(),
		CreatedAt:  uc.now(),
	}
	s.Outcome, s.HTTPStatus = outcomeOf(sendErr)
	s.Message = notice
	if sendErr != nil {
		s.Message = sendErr.Error()
	}
	if payload != nil {
		if raw, err := json.Marshal(payload); err == nil {
			s.Payload = raw
		}
	}
	if err := uc.journal.Record(context.WithoutCancel(ctx), s); err != nil {
		uc.log.Error().Err(err).Str("draft_id", d.ID).Msg("registrar envío")
	}
}

func outcomeOf(err error) (string, int) {
	var verr *domain.ValidationError
	var uerr *domain.UpstreamError
	switch {
	case err == nil:
		return entity.OutcomeSuccess, 200
	case errors.As(err, &verr):
		return entity.OutcomeValidation, 422
	case errors.Is(err, domain.ErrNotFound):
		return entity.OutcomeNotFound, 404
	case errors.As(err, &uerr):
		return entity.OutcomeUpstream, uerr.Status
	default:
		return entity.OutcomeFailed, 0
	}
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func (uc *EditorUseCase) owned(ctx context.Context, actor Actor, id string) (*entity.Draft, error) {
	d, err := uc.drafts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkOwner(d, actor); err != nil {
		return nil, err
	}
	return d, nil
}

func checkOwner(d *entity.Draft, actor Actor) error {
	if !d.OwnedBy(actor.UserID) {
		return domain.ErrForbidden
	}
	return nil
}

// checkWritable dueño y sin envío en curso.
func checkWritable(d *entity.Draft, actor Actor) error {
	if err := checkOwner(d, actor); err != nil {
		return err
	}
	if d.Loading {
		return domain.ErrDraftBusy
	}
	return nil
}

func toShopIDs(ids []int64) []editor.ShopID {
	out := make([]editor.ShopID, len(ids))
	for i, id := range ids {
		out[i] = editor.ShopID(id)
	}
	return out
}
