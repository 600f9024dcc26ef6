package draftstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/product-editor/internal/domain"
	"github.com/jhoicas/product-editor/internal/domain/editor"
	"github.com/jhoicas/product-editor/internal/domain/entity"
	"github.com/jhoicas/product-editor/internal/domain/repository"
)

func newDraft(id string) *entity.Draft {
	e := editor.New(editor.FlowCreate, editor.NewTaxonomy([]editor.AttributeType{{ID: 1, Name: "Color"}}))
	_ = e.SetFields(map[string]any{"name": "Camiseta", "price": 19.9})
	d := &entity.Draft{ID: id, OwnerID: "u1", Flow: editor.FlowCreate, Generation: 1}
	d.Apply(e)
	return d
}

// storeContract comportamiento común de cualquier DraftStore.
func storeContract(t *testing.T, s repository.DraftStore) {
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, newDraft("d1")))
	assert.ErrorIs(t, s.Create(ctx, newDraft("d1")), domain.ErrDuplicate)

	got, err := s.Get(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.OwnerID)
	assert.Equal(t, "Camiseta", got.Editor().Fields()["name"])

	updated, err := s.Update(ctx, "d1", func(d *entity.Draft) error {
		d.Generation++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), updated.Generation)
	assert.Equal(t, int64(1), updated.Version)

	_, err = s.Update(ctx, "d1", func(d *entity.Draft) error {
		d.Generation = 99
		return domain.ErrForbidden
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	got, err = s.Get(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), got.Generation, "un error en fn no guarda cambios")

	got.OwnerID = "otro"
	again, err := s.Get(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "u1", again.OwnerID, "las copias devueltas no comparten estado")

	_, err = s.Update(ctx, "nope", func(*entity.Draft) error { return nil })
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, s.Delete(ctx, "d1"))
	assert.ErrorIs(t, s.Delete(ctx, "d1"), domain.ErrNotFound)
	_, err = s.Get(ctx, "d1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMemoryStore_Contrato(t *testing.T) {
	storeContract(t, NewMemoryStore(time.Hour))
}

func TestMemoryStore_ExpiraPorTTL(t *testing.T) {
	ttl := 200 * time.Millisecond
	s := NewMemoryStore(ttl)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, newDraft("d1")))
	time.Sleep(120 * time.Millisecond)
	_, err := s.Update(ctx, "d1", func(*entity.Draft) error { return nil })
	require.NoError(t, err, "cada escritura renueva el vencimiento")

	time.Sleep(120 * time.Millisecond)
	_, err = s.Get(ctx, "d1")
	require.NoError(t, err)

	time.Sleep(2 * ttl)
	_, err = s.Get(ctx, "d1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "d1"), domain.ErrNotFound)
	require.NoError(t, s.Create(ctx, newDraft("d1")), "un id vencido se puede volver a usar")
}

// Los borradores abandonados se liberan sin que nadie los vuelva a consultar.
func TestMemoryStore_LiberaVencidosSinConsultarlos(t *testing.T) {
	s := NewMemoryStore(10 * time.Millisecond)
	ctx := context.Background()
	for i := 0; i < 1000; i++ {
		require.NoError(t, s.Create(ctx, newDraft(fmt.Sprintf("d%d", i))))
	}
	require.Equal(t, 1000, s.Len())

	assert.Eventually(t, func() bool { return s.Len() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestMemoryStore_UpdatesConcurrentesSeSerializan(t *testing.T) {
	s := NewMemoryStore(0)
	require.NoError(t, s.Create(context.Background(), newDraft("d1")))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Update(context.Background(), "d1", func(d *entity.Draft) error {
				d.Generation++
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	d, err := s.Get(context.Background(), "d1")
	require.NoError(t, err)
	assert.Equal(t, uint64(51), d.Generation)
	assert.Equal(t, int64(50), d.Version)
}

func TestMemoryStore_ContextoCancelado(t *testing.T) {
	s := NewMemoryStore(0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Update(ctx, "d1", func(*entity.Draft) error { return nil })
	assert.True(t, errors.Is(err, context.Canceled))
}
