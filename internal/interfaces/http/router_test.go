package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/product-editor/internal/application/ports"
	"github.com/jhoicas/product-editor/internal/application/usecase"
	"github.com/jhoicas/product-editor/internal/domain"
	"github.com/jhoicas/product-editor/internal/domain/barcode"
	"github.com/jhoicas/product-editor/internal/domain/editor"
	"github.com/jhoicas/product-editor/internal/domain/entity"
	"github.com/jhoicas/product-editor/internal/infrastructure/draftstore"
	"github.com/jhoicas/product-editor/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/product-editor/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles y helpers
// ──────────────────────────────────────────────────────────────────────────────

type stubCatalog struct {
	mu          sync.Mutex
	taxonomyErr error
	updateErr   error
}

func (s *stubCatalog) FetchTaxonomy(context.Context) ([]editor.AttributeType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.taxonomyErr != nil {
		return nil, s.taxonomyErr
	}
	return []editor.AttributeType{
		{ID: 1, Name: "Color", Values: []editor.AttributeValue{{ID: 5, Name: "Rojo"}}},
		{ID: 2, Name: "Talla", Values: []editor.AttributeValue{{ID: 7, Name: "S"}}},
	}, nil
}

func (s *stubCatalog) FetchShops(context.Context) ([]entity.Shop, error) {
	return []entity.Shop{{ID: 1, Name: "Centro"}}, nil
}

func (s *stubCatalog) FetchCategories(context.Context) ([]entity.Category, error) {
	return []entity.Category{{ID: 1, Name: "Ropa"}}, nil
}

func (s *stubCatalog) FetchRefs(context.Context, ports.RefKind) ([]entity.NamedRef, error) {
	return nil, nil
}

func (s *stubCatalog) GetProduct(_ context.Context, id int64) (editor.ProductRecord, error) {
	if id != 42 {
		return editor.ProductRecord{}, domain.ErrNotFound
	}
	return editor.ProductRecord{
		ID:     json.Number("42"),
		Fields: map[string]any{"name": "Camiseta", "barcode": "7701234567890", "price": "19.90"},
		Shops:  []editor.ShopRecord{{ShopID: json.Number("1"), Quantity: json.Number("4")}},
	}, nil
}

func (s *stubCatalog) CreateProduct(context.Context, editor.Payload) (ports.SaveResult, error) {
	return ports.SaveResult{ProductID: 77, Type: "success", Message: "Producto creado correctamente"}, nil
}

func (s *stubCatalog) UpdateProduct(_ context.Context, id int64, _ editor.Payload) (ports.SaveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateErr != nil {
		return ports.SaveResult{}, s.updateErr
	}
	return ports.SaveResult{ProductID: id, Type: "info", Message: "Producto actualizado"}, nil
}

func newTestApp(t *testing.T, catalog *stubCatalog) *fiber.App {
	t.Helper()
	log := zerolog.Nop()
	refs := usecase.NewReferenceUseCase(catalog, 16, time.Minute, log)
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		EditorUC:     usecase.NewEditorUseCase(draftstore.NewMemoryStore(0), catalog, refs, nil, usecase.EditorConfig{PhotoPath: "/products/%d/photos"}, log),
		ReferenceUC:  refs,
		BarcodeUC:    usecase.NewBarcodeUseCase(catalog, pdf.NewMarotoBarcodeRenderer(), barcode.Layout{Columns: 3, RowsPerPage: 8}, 2, log),
		SubmissionUC: usecase.NewSubmissionUseCase(nil),
		JWTSecret:    testJWTSecret,
		Log:          log,
	})
	return app
}

// call lanza la petición como el usuario indicado y decodifica la respuesta JSON en out (si no es nil).
func call(t *testing.T, app *fiber.App, userID, method, path string, body any, out any) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("Authorization", bearerFor(t, userID))
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

type draftBody struct {
	ID                 string         `json:"id"`
	Flow               string         `json:"flow"`
	Fields             map[string]any `json:"fields"`
	TotalStock         string         `json:"total_stock"`
	TotalAttributeCost string         `json:"total_attribute_cost"`
	Loading            bool           `json:"loading"`
}

type errorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields"`
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestHealth_SinToken(t *testing.T) {
	app := newTestApp(t, &stubCatalog{})
	assert.Equal(t, http.StatusOK, call(t, app, "", http.MethodGet, "/health", nil, nil))
}

func TestAPI_RequiereToken(t *testing.T) {
	app := newTestApp(t, &stubCatalog{})
	var e errorBody
	assert.Equal(t, http.StatusUnauthorized, call(t, app, "", http.MethodGet, "/api/reference", nil, &e))
	assert.Equal(t, "MISSING_TOKEN", e.Code)
}

func TestReference_Bundle(t *testing.T) {
	app := newTestApp(t, &stubCatalog{})
	var ref entity.Reference
	assert.Equal(t, http.StatusOK, call(t, app, testUserID, http.MethodGet, "/api/reference", nil, &ref))
	assert.Len(t, ref.Taxonomy, 2)
	assert.Len(t, ref.Shops, 1)
}

func TestReference_ErrorDelAPIEs502(t *testing.T) {
	app := newTestApp(t, &stubCatalog{taxonomyErr: &domain.UpstreamError{Status: 500, Body: "boom"}})
	var e errorBody
	assert.Equal(t, http.StatusBadGateway, call(t, app, testUserID, http.MethodGet, "/api/reference", nil, &e))
	assert.Equal(t, "UPSTREAM_ERROR", e.Code)
}

func TestFlujoCreacion_DeAbrirAEnviar(t *testing.T) {
	app := newTestApp(t, &stubCatalog{})

	var d draftBody
	require.Equal(t, http.StatusCreated, call(t, app, testUserID, http.MethodPost, "/api/drafts", nil, &d))
	assert.Equal(t, "create", d.Flow)
	base := "/api/drafts/" + d.ID

	require.Equal(t, http.StatusOK, call(t, app, testUserID, http.MethodPatch, base+"/fields", map[string]any{"name": "Taza"}, &d))
	assert.Equal(t, "Taza", d.Fields["name"])

	require.Equal(t, http.StatusOK, call(t, app, testUserID, http.MethodPut, base+"/shops/1", map[string]any{"quantity": "7"}, &d))
	assert.Equal(t, "7", d.TotalStock)

	var added struct {
		Added bool  `json:"added"`
		RowID int64 `json:"row_id"`
	}
	require.Equal(t, http.StatusCreated, call(t, app, testUserID, http.MethodPost, base+"/attributes", nil, &added))
	assert.True(t, added.Added)

	row := base + "/attributes/" + jsonInt(added.RowID)
	require.Equal(t, http.StatusOK, call(t, app, testUserID, http.MethodPatch, row, map[string]any{
		"attribute_id": 1, "value_id": 5, "attribute_cost": 2.5,
	}, &d))
	assert.Equal(t, "2.50", d.TotalAttributeCost)

	var e errorBody
	assert.Equal(t, http.StatusBadRequest, call(t, app, testUserID, http.MethodPatch, row, map[string]any{"value_id": 99}, &e))
	assert.Equal(t, "INVALID_INPUT", e.Code)

	var payload map[string]any
	require.Equal(t, http.StatusOK, call(t, app, testUserID, http.MethodGet, base+"/payload", nil, &payload))
	assert.Equal(t, "Taza", payload["name"])
	assert.Contains(t, payload, "attributes")

	var submitted struct {
		Status    string `json:"status"`
		ProductID int64  `json:"product_id"`
		Type      string `json:"type"`
		Message   string `json:"message"`
		NextStep  string `json:"next_step"`
	}
	require.Equal(t, http.StatusCreated, call(t, app, testUserID, http.MethodPost, base+"/submit", nil, &submitted))
	assert.Equal(t, "created", submitted.Status)
	assert.Equal(t, "success", submitted.Type)
	assert.Equal(t, "Producto creado correctamente", submitted.Message)
	assert.Equal(t, "/products/77/photos", submitted.NextStep)

	assert.Equal(t, http.StatusNotFound, call(t, app, testUserID, http.MethodGet, base, nil, nil))
}

func TestBorradorAjeno_Es403(t *testing.T) {
	app := newTestApp(t, &stubCatalog{})
	var d draftBody
	require.Equal(t, http.StatusCreated, call(t, app, testUserID, http.MethodPost, "/api/drafts", nil, &d))

	var e errorBody
	assert.Equal(t, http.StatusForbidden, call(t, app, "otro-usuario", http.MethodGet, "/api/drafts/"+d.ID, nil, &e))
	assert.Equal(t, "FORBIDDEN", e.Code)
}

func TestQuitarFilaIntermediaEnCreacion_Es409(t *testing.T) {
	app := newTestApp(t, &stubCatalog{})
	var d draftBody
	require.Equal(t, http.StatusCreated, call(t, app, testUserID, http.MethodPost, "/api/drafts", nil, &d))
	base := "/api/drafts/" + d.ID

	var first struct {
		RowID int64 `json:"row_id"`
	}
	require.Equal(t, http.StatusCreated, call(t, app, testUserID, http.MethodPost, base+"/attributes", nil, &first))
	require.Equal(t, http.StatusCreated, call(t, app, testUserID, http.MethodPost, base+"/attributes", nil, nil))

	var e errorBody
	assert.Equal(t, http.StatusConflict, call(t, app, testUserID, http.MethodDelete, base+"/attributes/"+jsonInt(first.RowID), nil, &e))
	assert.Equal(t, "REMOVAL_NOT_ALLOWED", e.Code)
}

func TestEnvioEdicion_422ConCampos(t *testing.T) {
	catalog := &stubCatalog{updateErr: &domain.ValidationError{
		Message: "The given data was invalid.",
		Fields:  map[string][]string{"name": {"El nombre es obligatorio.", "Otro"}},
	}}
	app := newTestApp(t, catalog)

	var d draftBody
	require.Equal(t, http.StatusCreated, call(t, app, testUserID, http.MethodPost, "/api/drafts", map[string]any{"product_id": 42}, &d))
	assert.Equal(t, "edit", d.Flow)
	assert.Equal(t, "4", d.TotalStock)

	var e errorBody
	assert.Equal(t, http.StatusUnprocessableEntity, call(t, app, testUserID, http.MethodPost, "/api/drafts/"+d.ID+"/submit", nil, &e))
	assert.Equal(t, "VALIDATION", e.Code)
	assert.Equal(t, map[string]string{"name": "El nombre es obligatorio."}, e.Fields)

	require.Equal(t, http.StatusOK, call(t, app, testUserID, http.MethodGet, "/api/drafts/"+d.ID, nil, &d))
	assert.False(t, d.Loading)
}

func TestEnvioEdicion_DevuelveAvisoDelAPI(t *testing.T) {
	app := newTestApp(t, &stubCatalog{})
	var d draftBody
	require.Equal(t, http.StatusCreated, call(t, app, testUserID, http.MethodPost, "/api/drafts", map[string]any{"product_id": 42}, &d))

	var submitted struct {
		Status  string `json:"status"`
		Type    string `json:"type"`
		Message string `json:"message"`
	}
	require.Equal(t, http.StatusOK, call(t, app, testUserID, http.MethodPost, "/api/drafts/"+d.ID+"/submit", nil, &submitted))
	assert.Equal(t, "updated", submitted.Status)
	assert.Equal(t, "info", submitted.Type)
	assert.Equal(t, "Producto actualizado", submitted.Message)
}

func TestAbrirProductoInexistente_Es404(t *testing.T) {
	app := newTestApp(t, &stubCatalog{})
	assert.Equal(t, http.StatusNotFound, call(t, app, testUserID, http.MethodPost, "/api/drafts", map[string]any{"product_id": 9}, nil))

	var e errorBody
	assert.Equal(t, http.StatusUnprocessableEntity, call(t, app, testUserID, http.MethodPost, "/api/drafts", map[string]any{"product_id": -1}, &e))
	assert.Contains(t, e.Fields, "product_id")
}

func TestHojaDeEtiquetas_PDF(t *testing.T) {
	app := newTestApp(t, &stubCatalog{})

	raw, err := json.Marshal(map[string]any{"items": []map[string]any{{"product_id": 42, "copies": 4}}})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/barcodes/sheet", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerFor(t, testUserID))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	body, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

func TestHistorial_SinBaseDeDatos(t *testing.T) {
	app := newTestApp(t, &stubCatalog{})
	var out struct {
		Items []any `json:"items"`
	}
	assert.Equal(t, http.StatusOK, call(t, app, testUserID, http.MethodGet, "/api/products/42/submissions", nil, &out))
	assert.NotNil(t, out.Items)
	assert.Equal(t, http.StatusBadRequest, call(t, app, testUserID, http.MethodGet, "/api/products/abc/submissions", nil, nil))
}

func jsonInt(n int64) string {
	raw, _ := json.Marshal(n)
	return string(raw)
}
