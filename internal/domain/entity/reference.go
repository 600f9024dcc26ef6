package entity

import "github.com/jhoicas/product-editor/internal/domain/editor"

// Shop tienda (punto de venta).
type Shop struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// NamedRef catálogo simple id/nombre (marcas, países, proveedores).
type NamedRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Reference datos de referencia de solo lectura que necesita el formulario.
type Reference struct {
	Taxonomy   []editor.AttributeType `json:"taxonomy"`
	Shops      []Shop                 `json:"shops"`
	Categories []Category             `json:"categories"`
	Brands     []NamedRef             `json:"brands"`
	Countries  []NamedRef             `json:"countries"`
	Suppliers  []NamedRef             `json:"suppliers"`
}
