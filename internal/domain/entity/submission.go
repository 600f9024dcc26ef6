package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/product-editor/internal/domain/editor"
)

// Resultado de un intento de envío.
const (
	OutcomeSuccess    = "success"
	OutcomeValidation = "validation_error"
	OutcomeNotFound   = "not_found"
	OutcomeUpstream   = "upstream_error"
	OutcomeFailed     = "failed"
)

// Submission registro de un intento de envío del formulario al API de catálogo.
type Submission struct {
	ID         string
	DraftID    string
	CompanyID  string
	UserID     string
	ProductID  int64 // 0 si la creación falló
	Flow       editor.Flow
	Outcome    string
	HTTPStatus int
	TotalStock decimal.Decimal
	TotalCost  decimal.Decimal
	Payload    json.RawMessage
	Message    string
	CreatedAt  time.Time
}
