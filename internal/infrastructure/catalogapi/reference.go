package catalogapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jhoicas/product-editor/internal/application/ports"
	"github.com/jhoicas/product-editor/internal/domain/editor"
	"github.com/jhoicas/product-editor/internal/domain/entity"
)

// flexRef referencia id/nombre que el API entrega como {id,name} o como {value,label}.
type flexRef struct {
	ID    any    `json:"id"`
	Value any    `json:"value"`
	Name  string `json:"name"`
	Label string `json:"label"`
}

func (r flexRef) resolve() (int64, string, bool) {
	id, ok := editor.CoerceID(r.ID)
	if !ok {
		id, ok = editor.CoerceID(r.Value)
	}
	name := r.Name
	if name == "" {
		name = r.Label
	}
	return id, name, ok
}

type taxonomyValue struct {
	ID   any    `json:"id"`
	Name string `json:"name"`
}

type taxonomyType struct {
	ID     any             `json:"id"`
	Name   string          `json:"name"`
	Values []taxonomyValue `json:"value"`
}

// FetchTaxonomy GET /attributes: [{id, name, value: [{id, name}]}].
func (c *Client) FetchTaxonomy(ctx context.Context) ([]editor.AttributeType, error) {
	var raw []taxonomyType
	if err := c.do(ctx, http.MethodGet, "/attributes", nil, &raw); err != nil {
		return nil, err
	}
	out := make([]editor.AttributeType, 0, len(raw))
	for _, t := range raw {
		id, ok := editor.CoerceID(t.ID)
		if !ok {
			continue
		}
		at := editor.AttributeType{ID: id, Name: t.Name, Values: make([]editor.AttributeValue, 0, len(t.Values))}
		for _, v := range t.Values {
			if vid, ok := editor.CoerceID(v.ID); ok {
				at.Values = append(at.Values, editor.AttributeValue{ID: vid, Name: v.Name})
			}
		}
		out = append(out, at)
	}
	return out, nil
}

// FetchShops GET /shops.
func (c *Client) FetchShops(ctx context.Context) ([]entity.Shop, error) {
	refs, err := c.fetchRefs(ctx, "/shops")
	if err != nil {
		return nil, err
	}
	out := make([]entity.Shop, 0, len(refs))
	for _, r := range refs {
		out = append(out, entity.Shop{ID: r.ID, Name: r.Name})
	}
	return out, nil
}

// FetchRefs GET /brands, /countries o /suppliers.
func (c *Client) FetchRefs(ctx context.Context, kind ports.RefKind) ([]entity.NamedRef, error) {
	switch kind {
	case ports.RefBrands, ports.RefCountries, ports.RefSuppliers:
		return c.fetchRefs(ctx, "/"+string(kind))
	}
	return nil, fmt.Errorf("catálogo: catálogo desconocido %q", kind)
}

func (c *Client) fetchRefs(ctx context.Context, path string) ([]entity.NamedRef, error) {
	var raw []flexRef
	if err := c.do(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}
	out := make([]entity.NamedRef, 0, len(raw))
	for _, r := range raw {
		if id, name, ok := r.resolve(); ok {
			out = append(out, entity.NamedRef{ID: id, Name: name})
		}
	}
	return out, nil
}

type categoryNode struct {
	flexRef
	ParentID any               `json:"parent_id"`
	Children []json.RawMessage `json:"children"`
}

// FetchCategories GET /categories. Acepta lista plana con parent_id o árbol con children;
// devuelve siempre la lista plana.
func (c *Client) FetchCategories(ctx context.Context) ([]entity.Category, error) {
	var raw []json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/categories", nil, &raw); err != nil {
		return nil, err
	}
	var out []entity.Category
	var walk func(nodes []json.RawMessage, parent int64) error
	walk = func(nodes []json.RawMessage, parent int64) error {
		for _, n := range nodes {
			var node categoryNode
			if err := decodeJSON(n, &node); err != nil {
				return err
			}
			id, name, ok := node.resolve()
			if !ok {
				continue
			}
			pid, _ := editor.CoerceID(node.ParentID)
			if pid == 0 {
				pid = parent
			}
			out = append(out, entity.Category{ID: id, ParentID: pid, Name: name})
			if err := walk(node.Children, id); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(raw, 0); err != nil {
		return nil, fmt.Errorf("catálogo: categorías: %w", err)
	}
	return out, nil
}
