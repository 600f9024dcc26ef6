package draftstore

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/jhoicas/product-editor/internal/domain"
	"github.com/jhoicas/product-editor/internal/domain/entity"
	"github.com/jhoicas/product-editor/internal/domain/repository"
)

var _ repository.DraftStore = (*MemoryStore)(nil)

// MemoryStore borradores en memoria del proceso sobre un LRU con vencimiento y sin tope de
// tamaño: los borradores vencidos se liberan aunque nadie los vuelva a consultar.
// Cada escritura renueva el vencimiento. El mutex serializa la lectura-modificación-escritura.
type MemoryStore struct {
	mu    sync.Mutex
	items *expirable.LRU[string, []byte]
}

// NewMemoryStore ttl<=0 = sin expiración.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{items: expirable.NewLRU[string, []byte](0, nil, ttl)}
}

// load devuelve la copia viva; debe llamarse con el mutex tomado.
func (s *MemoryStore) load(id string) (*entity.Draft, error) {
	raw, ok := s.items.Peek(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return decode(raw)
}

func (s *MemoryStore) Create(_ context.Context, d *entity.Draft) error {
	raw, err := encode(d)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items.Peek(d.ID); ok {
		return domain.ErrDuplicate
	}
	s.items.Add(d.ID, raw)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*entity.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(id)
}

// Update fn recibe una copia; si devuelve error no se guarda nada.
func (s *MemoryStore) Update(ctx context.Context, id string, fn func(d *entity.Draft) error) (*entity.Draft, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if err := fn(d); err != nil {
		return nil, err
	}
	d.Version++
	raw, err := encode(d)
	if err != nil {
		return nil, err
	}
	s.items.Add(id, raw)
	return d, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items.Peek(id); !ok {
		return domain.ErrNotFound
	}
	s.items.Remove(id)
	return nil
}

// Len borradores guardados (los vencidos salen en el barrido periódico del LRU).
func (s *MemoryStore) Len() int {
	return s.items.Len()
}
