package repository

import (
	"context"

	"github.com/jhoicas/product-editor/internal/domain/entity"
)

// DraftStore define el puerto de persistencia de borradores (DIP).
// Update es lectura-modificación-escritura atómica: fn recibe una copia y, si no devuelve error,
// el resultado se guarda con Version+1. Escrituras concurrentes que no se pueden serializar
// terminan en domain.ErrConflict.
type DraftStore interface {
	Create(ctx context.Context, draft *entity.Draft) error
	Get(ctx context.Context, id string) (*entity.Draft, error)
	Update(ctx context.Context, id string, fn func(d *entity.Draft) error) (*entity.Draft, error)
	Delete(ctx context.Context, id string) error
}
