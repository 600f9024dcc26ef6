// Package draftstore implementa repository.DraftStore en memoria (una réplica) y en Redis
// (varias réplicas detrás de un balanceador).
package draftstore

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/jhoicas/product-editor/internal/domain/entity"
)

// encode/decode: ambos stores guardan el borrador serializado, así ningún llamador comparte
// mapas o slices con la copia guardada. Los números de los campos libres se conservan como json.Number.
func encode(d *entity.Draft) ([]byte, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("codificar borrador %s: %w", d.ID, err)
	}
	return raw, nil
}

func decode(raw []byte) (*entity.Draft, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var d entity.Draft
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("decodificar borrador: %w", err)
	}
	return &d, nil
}
