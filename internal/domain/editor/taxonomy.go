package editor

import "slices"

// AttributeValue valor permitido de un tipo de atributo (p. ej. Rojo).
type AttributeValue struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// AttributeType entrada de la taxonomía externa con su lista ordenada de valores.
type AttributeType struct {
	ID     int64            `json:"id"`
	Name   string           `json:"name"`
	Values []AttributeValue `json:"value"`
}

// Taxonomy índice de solo lectura sobre los tipos de atributo ofrecidos por el catálogo.
type Taxonomy struct {
	types []AttributeType
	byID  map[int64]int
}

// NewTaxonomy indexa los tipos; si un id se repite gana la primera aparición.
func NewTaxonomy(types []AttributeType) *Taxonomy {
	t := &Taxonomy{byID: make(map[int64]int, len(types))}
	for _, at := range types {
		if _, dup := t.byID[at.ID]; dup {
			continue
		}
		at.Values = slices.Clone(at.Values)
		t.byID[at.ID] = len(t.types)
		t.types = append(t.types, at)
	}
	return t
}

// Len cantidad de tipos distintos.
func (t *Taxonomy) Len() int {
	if t == nil {
		return 0
	}
	return len(t.types)
}

func (t *Taxonomy) Types() []AttributeType {
	if t == nil {
		return nil
	}
	out := make([]AttributeType, len(t.types))
	for i, at := range t.types {
		at.Values = slices.Clone(at.Values)
		out[i] = at
	}
	return out
}

func (t *Taxonomy) Has(typeID int64) bool {
	if t == nil {
		return false
	}
	_, ok := t.byID[typeID]
	return ok
}

// Values lista de valores del tipo; nil si el tipo no existe.
func (t *Taxonomy) Values(typeID int64) []AttributeValue {
	if t == nil {
		return nil
	}
	idx, ok := t.byID[typeID]
	if !ok {
		return nil
	}
	return slices.Clone(t.types[idx].Values)
}

func (t *Taxonomy) HasValue(typeID, valueID int64) bool {
	if t == nil {
		return false
	}
	idx, ok := t.byID[typeID]
	if !ok {
		return false
	}
	return slices.ContainsFunc(t.types[idx].Values, func(v AttributeValue) bool { return v.ID == valueID })
}
