package catalogapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jhoicas/product-editor/internal/application/ports"
	"github.com/jhoicas/product-editor/internal/domain/editor"
)

// Claves del registro de producto que siembran filas; el resto son campos libres del formulario.
var rowKeys = map[string]struct{}{
	"attributes":      {},
	"shops":           {},
	"shop_quantities": {},
	"specifications":  {},
	"meta":            {},
}

// GetProduct GET /products/{id}.
func (c *Client) GetProduct(ctx context.Context, id int64) (editor.ProductRecord, error) {
	var raw map[string]json.RawMessage
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/products/%d", id), nil, &raw); err != nil {
		return editor.ProductRecord{}, err
	}
	return parseProduct(raw)
}

func parseProduct(raw map[string]json.RawMessage) (editor.ProductRecord, error) {
	rec := editor.ProductRecord{Fields: make(map[string]any, len(raw))}
	for k, v := range raw {
		if _, isRow := rowKeys[k]; isRow {
			continue
		}
		var val any
		if err := decodeJSON(v, &val); err != nil {
			return rec, fmt.Errorf("catálogo: producto campo %s: %w", k, err)
		}
		if k == "id" {
			rec.ID = val
		}
		rec.Fields[k] = val
	}
	if err := decodeRows(raw, "attributes", &rec.Attributes); err != nil {
		return rec, err
	}
	shopsKey := "shops"
	if _, ok := raw[shopsKey]; !ok {
		shopsKey = "shop_quantities"
	}
	if err := decodeRows(raw, shopsKey, &rec.Shops); err != nil {
		return rec, err
	}
	if err := decodeRows(raw, "specifications", &rec.Specifications); err != nil {
		return rec, err
	}
	if err := decodeRows(raw, "meta", &rec.Meta); err != nil {
		return rec, err
	}
	return rec, nil
}

func decodeRows[T any](raw map[string]json.RawMessage, key string, out *[]T) error {
	v, ok := raw[key]
	if !ok || string(v) == "null" {
		return nil
	}
	if err := decodeJSON(v, out); err != nil {
		return fmt.Errorf("catálogo: producto %s: %w", key, err)
	}
	return nil
}

// createdBody respuesta del alta: {"id"} o {"product_id"} o {"product": {"id"}}, con tipo y mensaje.
type createdBody struct {
	ID        any     `json:"id"`
	ProductID any     `json:"product_id"`
	Type      string  `json:"type"`
	Message   string  `json:"message"`
	Product   *idOnly `json:"product"`
}

type idOnly struct {
	ID any `json:"id"`
}

// CreateProduct POST /products; devuelve el id asignado con el tipo y mensaje del aviso.
func (c *Client) CreateProduct(ctx context.Context, p editor.Payload) (ports.SaveResult, error) {
	var body createdBody
	if err := c.do(ctx, http.MethodPost, "/products", p, &body); err != nil {
		return ports.SaveResult{}, err
	}
	for _, candidate := range []any{body.ID, body.ProductID, productID(body.Product)} {
		if id, ok := editor.CoerceID(candidate); ok {
			c.log.Info().Int64("product_id", id).Str("type", body.Type).Str("message", body.Message).Msg("producto creado")
			return ports.SaveResult{ProductID: id, Type: body.Type, Message: body.Message}, nil
		}
	}
	return ports.SaveResult{}, fmt.Errorf("catálogo: respuesta de alta sin id de producto")
}

func productID(p *idOnly) any {
	if p == nil {
		return nil
	}
	return p.ID
}

// UpdateProduct PUT /products/{id}. Un cuerpo vacío deja tipo y mensaje en blanco.
func (c *Client) UpdateProduct(ctx context.Context, id int64, p editor.Payload) (ports.SaveResult, error) {
	var body createdBody
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/products/%d", id), p, &body); err != nil {
		return ports.SaveResult{}, err
	}
	c.log.Info().Int64("product_id", id).Str("type", body.Type).Str("message", body.Message).Msg("producto actualizado")
	return ports.SaveResult{ProductID: id, Type: body.Type, Message: body.Message}, nil
}
