package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/product-editor/internal/application/usecase"
	"github.com/jhoicas/product-editor/internal/domain"
)

func TestReference_CacheaTaxonomia(t *testing.T) {
	catalog := newFakeCatalog()
	uc := usecase.NewReferenceUseCase(catalog, 16, time.Minute, zerolog.Nop())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		types, err := uc.Taxonomy(ctx)
		require.NoError(t, err)
		assert.Len(t, types, 2)
	}
	assert.Equal(t, int32(1), catalog.taxonomyCalls.Load())

	uc.Invalidate()
	_, err := uc.Taxonomy(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), catalog.taxonomyCalls.Load())
}

func TestReference_LlamadasConcurrentesUnaSolaCarga(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.taxonomyGate = make(chan struct{})
	uc := usecase.NewReferenceUseCase(catalog, 16, time.Minute, zerolog.Nop())

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Taxonomy(context.Background())
			errs <- err
		}()
	}
	assert.Eventually(t, func() bool { return catalog.taxonomyCalls.Load() == 1 }, time.Second, 5*time.Millisecond)
	close(catalog.taxonomyGate)
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, int32(1), catalog.taxonomyCalls.Load())
}

func TestReference_ErroresNoSeCachean(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.taxonomyErr = &domain.UpstreamError{Status: 503}
	uc := usecase.NewReferenceUseCase(catalog, 16, time.Minute, zerolog.Nop())
	ctx := context.Background()

	_, err := uc.Taxonomy(ctx)
	var uerr *domain.UpstreamError
	require.ErrorAs(t, err, &uerr)

	catalog.mu.Lock()
	catalog.taxonomyErr = nil
	catalog.mu.Unlock()
	types, err := uc.Taxonomy(ctx)
	require.NoError(t, err)
	assert.Len(t, types, 2)
	assert.Equal(t, int32(2), catalog.taxonomyCalls.Load())
}

func TestReference_CancelarNoCortaLaCarga(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.taxonomyGate = make(chan struct{})
	uc := usecase.NewReferenceUseCase(catalog, 16, time.Minute, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		assert.Eventually(t, func() bool { return catalog.taxonomyCalls.Load() == 1 }, time.Second, 5*time.Millisecond)
		cancel()
	}()
	_, err := uc.Taxonomy(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	close(catalog.taxonomyGate)
	assert.Eventually(t, func() bool {
		types, err := uc.Taxonomy(context.Background())
		return err == nil && len(types) == 2
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(1), catalog.taxonomyCalls.Load())
}

func TestReference_ExpiraPorTTL(t *testing.T) {
	catalog := newFakeCatalog()
	uc := usecase.NewReferenceUseCase(catalog, 16, 30*time.Millisecond, zerolog.Nop())
	ctx := context.Background()

	_, err := uc.Taxonomy(ctx)
	require.NoError(t, err)
	time.Sleep(80 * time.Millisecond)
	_, err = uc.Taxonomy(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), catalog.taxonomyCalls.Load())
}

func TestReference_BundleArmaArbolDeCategorias(t *testing.T) {
	uc := usecase.NewReferenceUseCase(newFakeCatalog(), 16, time.Minute, zerolog.Nop())

	ref, err := uc.Bundle(context.Background())
	require.NoError(t, err)
	assert.Len(t, ref.Taxonomy, 2)
	assert.Len(t, ref.Shops, 2)
	require.Len(t, ref.Categories, 1)
	require.Len(t, ref.Categories[0].Children, 1)
	assert.Equal(t, "Camisetas", ref.Categories[0].Children[0].Name)
	assert.Len(t, ref.Brands, 1)
	assert.Empty(t, ref.Countries)
}
