package usecase

import (
	"context"

	"github.com/jhoicas/product-editor/internal/application/dto"
	"github.com/jhoicas/product-editor/internal/domain"
	"github.com/jhoicas/product-editor/internal/domain/repository"
)

// SubmissionUseCase consulta del historial de envíos. Sin base de datos devuelve listas vacías.
type SubmissionUseCase struct {
	journal repository.SubmissionJournal
}

func NewSubmissionUseCase(journal repository.SubmissionJournal) *SubmissionUseCase {
	return &SubmissionUseCase{journal: journal}
}

// ListByProduct últimos envíos de un producto de la empresa del usuario.
func (uc *SubmissionUseCase) ListByProduct(ctx context.Context, actor Actor, productID int64, limit int) (*dto.SubmissionListResponse, error) {
	if productID <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	out := &dto.SubmissionListResponse{Items: []dto.SubmissionResponse{}}
	if uc.journal == nil {
		return out, nil
	}
	list, err := uc.journal.ListByProduct(ctx, actor.CompanyID, productID, limit)
	if err != nil {
		return nil, err
	}
	for _, s := range list {
		out.Items = append(out.Items, toSubmissionResponse(s))
	}
	return out, nil
}
