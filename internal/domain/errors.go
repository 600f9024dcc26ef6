package domain

import (
	"errors"
	"fmt"
	"sort"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrRemovalNotAllowed = errors.New("solo se puede eliminar la última fila")
	ErrStaleLoad         = errors.New("respuesta obsoleta descartada")
	ErrDraftBusy         = errors.New("el borrador tiene un envío en curso")
)

// ValidationError respuesta 422 del API de catálogo: mensajes por nombre de campo.
type ValidationError struct {
	Message string
	Fields  map[string][]string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("validación: %s", e.Message)
	}
	return fmt.Sprintf("validación: %d campos con error", len(e.Fields))
}

// FirstMessages devuelve el primer mensaje de cada campo, que es lo que muestra el formulario.
func (e *ValidationError) FirstMessages() map[string]string {
	out := make(map[string]string, len(e.Fields))
	for field, msgs := range e.Fields {
		if len(msgs) == 0 {
			continue
		}
		out[field] = msgs[0]
	}
	return out
}

// FieldNames nombres de campo con error, ordenados.
func (e *ValidationError) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)
	return names
}

// UpstreamError cualquier respuesta no exitosa del API de catálogo que no sea 404 ni 422.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("api de catálogo HTTP %d: %s", e.Status, e.Body)
}
