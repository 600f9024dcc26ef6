package dto

import (
	"encoding/json"
	"time"
)

// SubmissionResponse entrada del historial de envíos.
type SubmissionResponse struct {
	ID         string          `json:"id"`
	DraftID    string          `json:"draft_id"`
	ProductID  int64           `json:"product_id"`
	Flow       string          `json:"flow"`
	Outcome    string          `json:"outcome"`
	HTTPStatus int             `json:"http_status"`
	TotalStock string          `json:"total_stock"`
	TotalCost  string          `json:"total_cost"`
	Message    string          `json:"message,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// SubmissionListResponse historial de un producto.
type SubmissionListResponse struct {
	Items []SubmissionResponse `json:"items"`
}
