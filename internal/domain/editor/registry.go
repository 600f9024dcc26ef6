package editor

import "slices"

// RowID identificador opaco de una fila dinámica. Estable aunque cambie el orden visual.
type RowID int64

// Registry asigna y libera identificadores de fila y conserva el orden de presentación.
// Los ids nunca se reutilizan: el siguiente siempre es max(vistos)+1.
type Registry struct {
	Last  RowID   `json:"last"`
	Order []RowID `json:"order"`
}

// Allocate reserva el siguiente id y lo agrega al final.
func (r *Registry) Allocate() RowID {
	r.Last++
	r.Order = append(r.Order, r.Last)
	return r.Last
}

// Adopt registra un id ya existente (id de registro del servidor en el flujo de edición).
// Devuelve false si el id ya estaba vivo.
func (r *Registry) Adopt(id RowID) bool {
	if id <= 0 || r.Contains(id) {
		return false
	}
	if id > r.Last {
		r.Last = id
	}
	r.Order = append(r.Order, id)
	return true
}

// Release elimina el id; si no existe no hace nada.
func (r *Registry) Release(id RowID) bool {
	idx := slices.Index(r.Order, id)
	if idx < 0 {
		return false
	}
	r.Order = slices.Delete(r.Order, idx, idx+1)
	return true
}

func (r *Registry) Contains(id RowID) bool { return slices.Contains(r.Order, id) }

func (r *Registry) Len() int { return len(r.Order) }

// LastInOrder último id en orden de presentación.
func (r *Registry) LastInOrder() (RowID, bool) {
	if len(r.Order) == 0 {
		return 0, false
	}
	return r.Order[len(r.Order)-1], true
}

// IDs copia del orden actual.
func (r *Registry) IDs() []RowID { return slices.Clone(r.Order) }

func (r Registry) clone() Registry {
	return Registry{Last: r.Last, Order: slices.Clone(r.Order)}
}

// rowSet arena de filas direccionadas por id, con el orden en el Registry.
type rowSet[T any] struct {
	reg   Registry
	items map[RowID]*T
}

func newRowSet[T any]() rowSet[T] {
	return rowSet[T]{items: make(map[RowID]*T)}
}

func (s *rowSet[T]) put(id RowID, row *T) { s.items[id] = row }

func (s *rowSet[T]) get(id RowID) (*T, bool) {
	row, ok := s.items[id]
	return row, ok
}

func (s *rowSet[T]) drop(id RowID) (*T, bool) {
	row, ok := s.items[id]
	if !ok {
		return nil, false
	}
	s.reg.Release(id)
	delete(s.items, id)
	return row, true
}

// ordered filas vivas en orden de presentación (copias).
func (s *rowSet[T]) ordered() []T {
	out := make([]T, 0, s.reg.Len())
	for _, id := range s.reg.Order {
		if row, ok := s.items[id]; ok {
			out = append(out, *row)
		}
	}
	return out
}
