package usecase_test

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/jhoicas/product-editor/internal/application/ports"
	"github.com/jhoicas/product-editor/internal/domain"
	"github.com/jhoicas/product-editor/internal/domain/barcode"
	"github.com/jhoicas/product-editor/internal/domain/editor"
	"github.com/jhoicas/product-editor/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles de prueba
// ──────────────────────────────────────────────────────────────────────────────

var _ ports.CatalogGateway = (*fakeCatalog)(nil)

// fakeCatalog API de catálogo en memoria.
type fakeCatalog struct {
	mu         sync.Mutex
	types      []editor.AttributeType
	shops      []entity.Shop
	categories []entity.Category
	refs       map[ports.RefKind][]entity.NamedRef
	products   map[int64]func() editor.ProductRecord

	taxonomyErr   error
	taxonomyGate  chan struct{}
	taxonomyCalls atomic.Int32
	getCalls      atomic.Int32
	onGet         func(id int64)

	createID      int64
	createErr     error
	createEntered chan struct{}
	createGate    chan struct{}
	updateErr     error
	created       []editor.Payload
	updated       map[int64]editor.Payload
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		types: []editor.AttributeType{
			{ID: 1, Name: "Color", Values: []editor.AttributeValue{{ID: 5, Name: "Rojo"}, {ID: 6, Name: "Azul"}}},
			{ID: 2, Name: "Talla", Values: []editor.AttributeValue{{ID: 7, Name: "S"}, {ID: 8, Name: "M"}}},
		},
		shops: []entity.Shop{{ID: 1, Name: "Centro"}, {ID: 2, Name: "Norte"}},
		categories: []entity.Category{
			{ID: 1, Name: "Ropa"},
			{ID: 2, ParentID: 1, Name: "Camisetas"},
		},
		refs: map[ports.RefKind][]entity.NamedRef{
			ports.RefBrands: {{ID: 1, Name: "Acme"}},
		},
		products: map[int64]func() editor.ProductRecord{42: productRecord42},
		createID: 77,
		updated:  make(map[int64]editor.Payload),
	}
}

// productRecord42 producto con una fila de atributo y stock {1:4, 2:6}.
func productRecord42() editor.ProductRecord {
	return editor.ProductRecord{
		ID:     json.Number("42"),
		Fields: map[string]any{"id": json.Number("42"), "name": "Camiseta", "price": "19.90", "barcode": "7701234567890"},
		Attributes: []editor.AttributeRecord{{
			ID: json.Number("10"), AttributeID: json.Number("1"), ValueID: json.Number("5"),
			Cost:  "2.5",
			Shops: []editor.ShopRecord{{ShopID: json.Number("1"), Quantity: json.Number("3")}},
		}},
		Shops: []editor.ShopRecord{
			{ShopID: json.Number("1"), Quantity: json.Number("4")},
			{ShopID: "2", Quantity: "6"},
		},
	}
}

func (f *fakeCatalog) FetchTaxonomy(ctx context.Context) ([]editor.AttributeType, error) {
	f.taxonomyCalls.Add(1)
	if f.taxonomyGate != nil {
		select {
		case <-f.taxonomyGate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.taxonomyErr != nil {
		return nil, f.taxonomyErr
	}
	return f.types, nil
}

func (f *fakeCatalog) FetchShops(context.Context) ([]entity.Shop, error) {
	return f.shops, nil
}

func (f *fakeCatalog) FetchCategories(context.Context) ([]entity.Category, error) {
	return f.categories, nil
}

func (f *fakeCatalog) FetchRefs(_ context.Context, kind ports.RefKind) ([]entity.NamedRef, error) {
	return f.refs[kind], nil
}

func (f *fakeCatalog) GetProduct(_ context.Context, id int64) (editor.ProductRecord, error) {
	f.getCalls.Add(1)
	f.mu.Lock()
	hook := f.onGet
	build, ok := f.products[id]
	f.mu.Unlock()
	if hook != nil {
		hook(id)
	}
	if !ok {
		return editor.ProductRecord{}, domain.ErrNotFound
	}
	return build(), nil
}

func (f *fakeCatalog) CreateProduct(ctx context.Context, p editor.Payload) (ports.SaveResult, error) {
	if f.createEntered != nil {
		f.createEntered <- struct{}{}
	}
	if f.createGate != nil {
		select {
		case <-f.createGate:
		case <-ctx.Done():
			return ports.SaveResult{}, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return ports.SaveResult{}, f.createErr
	}
	f.created = append(f.created, p)
	return ports.SaveResult{ProductID: f.createID, Type: "success", Message: "Producto creado"}, nil
}

func (f *fakeCatalog) UpdateProduct(_ context.Context, id int64, p editor.Payload) (ports.SaveResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return ports.SaveResult{}, f.updateErr
	}
	f.updated[id] = p
	return ports.SaveResult{ProductID: id, Type: "success", Message: "Producto actualizado"}, nil
}

func (f *fakeCatalog) setOnGet(fn func(id int64)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onGet = fn
}

// fakeJournal historial en memoria.
type fakeJournal struct {
	mu      sync.Mutex
	entries []entity.Submission
	err     error
}

func (j *fakeJournal) Record(_ context.Context, s *entity.Submission) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.err != nil {
		return j.err
	}
	j.entries = append(j.entries, *s)
	return nil
}

func (j *fakeJournal) ListByProduct(_ context.Context, companyID string, productID int64, limit int) ([]*entity.Submission, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	var out []*entity.Submission
	for i := len(j.entries) - 1; i >= 0 && len(out) < limit; i-- {
		s := j.entries[i]
		if s.CompanyID == companyID && s.ProductID == productID {
			out = append(out, &s)
		}
	}
	return out, nil
}

func (j *fakeJournal) all() []entity.Submission {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]entity.Submission(nil), j.entries...)
}

// fakeRenderer guarda la última hoja recibida.
type fakeRenderer struct {
	mu    sync.Mutex
	sheet barcode.Sheet
	title string
}

func (r *fakeRenderer) Render(_ context.Context, sheet barcode.Sheet, title string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sheet, r.title = sheet, title
	return []byte("%PDF-fake"), nil
}
