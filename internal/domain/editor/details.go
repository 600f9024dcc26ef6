package editor

import "github.com/jhoicas/product-editor/internal/domain"

// DetailKind editores de filas simples (sin sub-mapa de tiendas).
type DetailKind string

const (
	DetailSpecification DetailKind = "specifications"
	DetailMeta          DetailKind = "meta"
)

// DetailRow fila de especificación (name/value) o de meta (key/value).
type DetailRow struct {
	ID        RowID  `json:"id"`
	Persisted bool   `json:"persisted"`
	Name      string `json:"name"`
	Value     string `json:"value"`
}

func (e *Editor) details(kind DetailKind) (*rowSet[DetailRow], *[]int64, error) {
	switch kind {
	case DetailSpecification:
		return &e.specifications, &e.deleted.Specifications, nil
	case DetailMeta:
		return &e.meta, &e.deleted.Meta, nil
	}
	return nil, nil, domain.ErrInvalidInput
}

// AddDetailRow agrega una fila vacía al editor indicado.
func (e *Editor) AddDetailRow(kind DetailKind) (RowID, error) {
	set, _, err := e.details(kind)
	if err != nil {
		return 0, err
	}
	id := set.reg.Allocate()
	set.put(id, &DetailRow{ID: id})
	return id, nil
}

// SetDetailRow actualiza nombre/clave y valor; nil deja el campo como estaba.
func (e *Editor) SetDetailRow(kind DetailKind, id RowID, name, value *string) error {
	set, _, err := e.details(kind)
	if err != nil {
		return err
	}
	row, ok := set.get(id)
	if !ok {
		return domain.ErrNotFound
	}
	if name != nil {
		row.Name = *name
	}
	if value != nil {
		row.Value = *value
	}
	return nil
}

// RemoveDetailRow misma política que las filas de atributo.
func (e *Editor) RemoveDetailRow(kind DetailKind, id RowID) error {
	set, deleted, err := e.details(kind)
	if err != nil {
		return err
	}
	found, err := e.checkRemoval(&set.reg, id)
	if err != nil || !found {
		return err
	}
	row, _ := set.drop(id)
	if row.Persisted && e.flow == FlowEdit {
		*deleted = append(*deleted, int64(id))
	}
	return nil
}

// DetailRows filas vivas del editor indicado.
func (e *Editor) DetailRows(kind DetailKind) ([]DetailRow, error) {
	set, _, err := e.details(kind)
	if err != nil {
		return nil, err
	}
	return set.ordered(), nil
}
