package dto

import (
	"encoding/json"
	"time"

	"github.com/jhoicas/product-editor/internal/domain/editor"
)

// OpenDraftRequest abre un borrador de creación, o de edición si viene product_id.
type OpenDraftRequest struct {
	ProductID int64 `json:"product_id" validate:"omitempty,gt=0"`
}

// SetShopsRequest reemplaza la selección de tiendas.
type SetShopsRequest struct {
	ShopIDs []int64 `json:"shop_ids" validate:"dive,gt=0"`
}

// QuantityRequest cantidad tal como la escribe el usuario: número, texto o null.
type QuantityRequest struct {
	Quantity json.RawMessage `json:"quantity"`
}

// DetailRowRequest fila de especificación (name) o de meta (key).
type DetailRowRequest struct {
	Name  *string `json:"name"`
	Key   *string `json:"key"`
	Value *string `json:"value"`
}

// RowAddedResponse resultado de agregar una fila. Added=false si el tope de filas ya se alcanzó.
type RowAddedResponse struct {
	Added bool           `json:"added"`
	RowID int64          `json:"row_id,omitempty"`
	Draft *DraftResponse `json:"draft"`
}

// ShopQuantityResponse cantidad por tienda; null si no se cargó.
type ShopQuantityResponse struct {
	ShopID   int64   `json:"shop_id"`
	Quantity *string `json:"quantity"`
}

// AttributeRowResponse fila de atributo con sus opciones de valor.
type AttributeRowResponse struct {
	ID                 int64                   `json:"id"`
	Persisted          bool                    `json:"persisted"`
	AttributeID        *int64                  `json:"attribute_id"`
	ValueID            *int64                  `json:"value_id"`
	MathSign           string                  `json:"math_sign"`
	Number             *string                 `json:"number"`
	AttributeCost      *string                 `json:"attribute_cost"`
	AttributeWeight    *string                 `json:"attribute_weight"`
	AttributeMesarment string                  `json:"attribute_mesarment"`
	Shops              []ShopQuantityResponse  `json:"shops"`
	ValueOptions       []editor.AttributeValue `json:"value_options"`
}

// DetailRowResponse fila de especificación o meta.
type DetailRowResponse struct {
	ID        int64  `json:"id"`
	Persisted bool   `json:"persisted"`
	Name      string `json:"name"`
	Value     string `json:"value"`
}

// DraftResponse estado del formulario para pintar la pantalla.
type DraftResponse struct {
	ID                 string                 `json:"id"`
	Flow               editor.Flow            `json:"flow"`
	ProductID          int64                  `json:"product_id,omitempty"`
	Generation         uint64                 `json:"generation"`
	Loading            bool                   `json:"loading"`
	Version            int64                  `json:"version"`
	Fields             map[string]any         `json:"fields"`
	Shops              []ShopQuantityResponse `json:"shops"`
	Attributes         []AttributeRowResponse `json:"attributes"`
	Specifications     []DetailRowResponse    `json:"specifications"`
	Meta               []DetailRowResponse    `json:"meta"`
	TotalStock         string                 `json:"total_stock"`
	TotalAttributeCost string                 `json:"total_attribute_cost"`
	CanAddAttribute    bool                   `json:"can_add_attribute"`
	UpdatedAt          time.Time              `json:"updated_at"`
}

// SubmitResponse resultado de un envío exitoso.
type SubmitResponse struct {
	Status    string         `json:"status"` // created | updated
	ProductID int64          `json:"product_id"`
	Type      string         `json:"type,omitempty"`      // clasificación del aviso que devuelve el API
	Message   string         `json:"message,omitempty"`   // texto del aviso
	NextStep  string         `json:"next_step,omitempty"` // subida de fotos tras crear
	Draft     *DraftResponse `json:"draft,omitempty"`     // borrador resembrado tras actualizar
}
