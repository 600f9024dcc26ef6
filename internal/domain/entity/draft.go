package entity

import (
	"time"

	"github.com/jhoicas/product-editor/internal/domain/editor"
)

// Draft formulario de producto abierto por un usuario. El estado del editor vive en Snapshot
// y se reconstruye en cada petición.
type Draft struct {
	ID         string          `json:"id"`
	OwnerID    string          `json:"owner_id"`
	CompanyID  string          `json:"company_id"`
	Flow       editor.Flow     `json:"flow"`
	ProductID  int64           `json:"product_id,omitempty"` // 0 en creación
	Generation uint64          `json:"generation"`           // se incrementa en cada carga; las cargas viejas se descartan
	Loading    bool            `json:"loading"`              // envío en curso
	Version    int64           `json:"version"`              // cambia en cada escritura
	State      editor.Snapshot `json:"state"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// OwnedBy indica si el usuario puede leer o modificar el borrador.
func (d *Draft) OwnedBy(userID string) bool {
	return d != nil && d.OwnerID != "" && d.OwnerID == userID
}

// Editor reconstruye el editor desde el snapshot guardado.
func (d *Draft) Editor() *editor.Editor { return editor.Restore(d.State) }

// Apply guarda el estado del editor en el borrador.
func (d *Draft) Apply(e *editor.Editor) { d.State = e.Snapshot() }
