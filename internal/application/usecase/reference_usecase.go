package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/product-editor/internal/application/ports"
	"github.com/jhoicas/product-editor/internal/domain/editor"
	"github.com/jhoicas/product-editor/internal/domain/entity"
)

// Claves de caché.
const (
	keyTaxonomy   = "taxonomy"
	keyShops      = "shops"
	keyCategories = "categories"
)

// ReferenceUseCase datos de referencia del formulario (taxonomía, tiendas, categorías, marcas,
// países y proveedores). Se cachean con expiración; los fallos de caché concurrentes de una
// misma clave se resuelven con una sola llamada al API.
type ReferenceUseCase struct {
	catalog ports.CatalogGateway
	cache   *expirable.LRU[string, any]
	group   singleflight.Group
	log     zerolog.Logger
}

// NewReferenceUseCase construye el caso de uso. size<=0 usa 64 entradas.
func NewReferenceUseCase(catalog ports.CatalogGateway, size int, ttl time.Duration, log zerolog.Logger) *ReferenceUseCase {
	if size <= 0 {
		size = 64
	}
	return &ReferenceUseCase{
		catalog: catalog,
		cache:   expirable.NewLRU[string, any](size, nil, ttl),
		log:     log,
	}
}

// cached devuelve el valor de la caché o lo carga una sola vez aunque haya llamadas concurrentes.
// La carga no se cancela si el primer llamador se va; la limita el timeout del cliente HTTP.
func cached[T any](ctx context.Context, uc *ReferenceUseCase, key string, load func(context.Context) (T, error)) (T, error) {
	var zero T
	if v, ok := uc.cache.Get(key); ok {
		if t, ok := v.(T); ok {
			return t, nil
		}
	}
	loadCtx := context.WithoutCancel(ctx)
	ch := uc.group.DoChan(key, func() (any, error) {
		v, err := load(loadCtx)
		if err != nil {
			return nil, err
		}
		uc.cache.Add(key, v)
		uc.log.Debug().Str("key", key).Msg("datos de referencia cargados")
		return v, nil
	})
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, fmt.Errorf("referencia %s: %w", key, res.Err)
		}
		return res.Val.(T), nil
	}
}

// Taxonomy tipos de atributo con sus valores.
func (uc *ReferenceUseCase) Taxonomy(ctx context.Context) ([]editor.AttributeType, error) {
	return cached(ctx, uc, keyTaxonomy, uc.catalog.FetchTaxonomy)
}

func (uc *ReferenceUseCase) Shops(ctx context.Context) ([]entity.Shop, error) {
	return cached(ctx, uc, keyShops, uc.catalog.FetchShops)
}

// Categories árbol categoría → subcategoría → subcategoría hija.
func (uc *ReferenceUseCase) Categories(ctx context.Context) ([]entity.Category, error) {
	return cached(ctx, uc, keyCategories, func(ctx context.Context) ([]entity.Category, error) {
		flat, err := uc.catalog.FetchCategories(ctx)
		if err != nil {
			return nil, err
		}
		return entity.BuildCategoryTree(flat), nil
	})
}

// Refs marcas, países o proveedores.
func (uc *ReferenceUseCase) Refs(ctx context.Context, kind ports.RefKind) ([]entity.NamedRef, error) {
	return cached(ctx, uc, string(kind), func(ctx context.Context) ([]entity.NamedRef, error) {
		return uc.catalog.FetchRefs(ctx, kind)
	})
}

// Bundle todos los datos de referencia, consultados en paralelo. Falla si falla cualquiera.
func (uc *ReferenceUseCase) Bundle(ctx context.Context) (*entity.Reference, error) {
	out := &entity.Reference{}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.Taxonomy, err = uc.Taxonomy(ctx)
		return err
	})
	g.Go(func() (err error) {
		out.Shops, err = uc.Shops(ctx)
		return err
	})
	g.Go(func() (err error) {
		out.Categories, err = uc.Categories(ctx)
		return err
	})
	g.Go(func() (err error) {
		out.Brands, err = uc.Refs(ctx, ports.RefBrands)
		return err
	})
	g.Go(func() (err error) {
		out.Countries, err = uc.Refs(ctx, ports.RefCountries)
		return err
	})
	g.Go(func() (err error) {
		out.Suppliers, err = uc.Refs(ctx, ports.RefSuppliers)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Invalidate vacía la caché (p. ej. después de crear un producto con una marca nueva).
func (uc *ReferenceUseCase) Invalidate() { uc.cache.Purge() }
