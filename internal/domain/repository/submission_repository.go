package repository

import (
	"context"

	"github.com/jhoicas/product-editor/internal/domain/entity"
)

// SubmissionJournal define el puerto del historial de envíos (DIP).
type SubmissionJournal interface {
	Record(ctx context.Context, s *entity.Submission) error
	ListByProduct(ctx context.Context, companyID string, productID int64, limit int) ([]*entity.Submission, error)
}
