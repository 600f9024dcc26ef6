package postgres

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/product-editor/internal/domain"
	"github.com/jhoicas/product-editor/internal/domain/editor"
	"github.com/jhoicas/product-editor/internal/domain/entity"
	"github.com/jhoicas/product-editor/internal/domain/repository"
)

var _ repository.SubmissionJournal = (*SubmissionJournalRepo)(nil)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

const submissionSchema = `
CREATE TABLE IF NOT EXISTS product_submissions (
	id           UUID PRIMARY KEY,
	draft_id     TEXT NOT NULL,
	company_id   TEXT NOT NULL,
	user_id      TEXT NOT NULL,
	product_id   BIGINT NOT NULL DEFAULT 0,
	flow         TEXT NOT NULL,
	outcome      TEXT NOT NULL,
	http_status  INTEGER NOT NULL DEFAULT 0,
	total_stock  NUMERIC(18,4) NOT NULL DEFAULT 0,
	total_cost   NUMERIC(18,4) NOT NULL DEFAULT 0,
	payload      JSONB,
	message      TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_product_submissions_product ON product_submissions (company_id, product_id, created_at DESC);
`

// SubmissionJournalRepo historial de envíos sobre PostgreSQL.
type SubmissionJournalRepo struct {
	q Querier

	schemaOnce sync.Once
	schemaErr  error
}

// NewSubmissionJournalRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSubmissionJournalRepository(q Querier) *SubmissionJournalRepo {
	return &SubmissionJournalRepo{q: q}
}

// EnsureSchema crea la tabla si no existe. Se ejecuta una sola vez por instancia.
func (r *SubmissionJournalRepo) EnsureSchema(ctx context.Context) error {
	r.schemaOnce.Do(func() {
		if _, err := r.q.Exec(ctx, submissionSchema); err != nil {
			r.schemaErr = fmt.Errorf("crear esquema de historial: %w", err)
		}
	})
	return r.schemaErr
}

// Record persiste un intento de envío. Asigna ID y CreatedAt si vienen vacíos.
func (r *SubmissionJournalRepo) Record(ctx context.Context, s *entity.Submission) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	var payload []byte
	if len(s.Payload) > 0 {
		payload = s.Payload
	}
	query := `
		INSERT INTO product_submissions (id, draft_id, company_id, user_id, product_id, flow, outcome, http_status, total_stock, total_cost, payload, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.DraftID, s.CompanyID, s.UserID, s.ProductID, string(s.Flow), s.Outcome, s.HTTPStatus,
		s.TotalStock, s.TotalCost, payload, s.Message, s.CreatedAt,
	)
	if err != nil {
		return recordError(s.ID, err)
	}
	return nil
}

// recordError un id repetido (23505 sobre la clave primaria) es domain.ErrDuplicate; el resto
// se devuelve envuelto tal cual.
func recordError(id string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("insert submission %s: %w (%s)", id, domain.ErrDuplicate, pgErr.ConstraintName)
	}
	return fmt.Errorf("insert submission %s: %w", id, err)
}

// ListByProduct últimos envíos del producto en la empresa, más recientes primero.
func (r *SubmissionJournalRepo) ListByProduct(ctx context.Context, companyID string, productID int64, limit int) ([]*entity.Submission, error) {
	query := `
		SELECT id, draft_id, company_id, user_id, product_id, flow, outcome, http_status, total_stock, total_cost, payload, message, created_at
		FROM product_submissions
		WHERE company_id = $1 AND product_id = $2
		ORDER BY created_at DESC
		LIMIT $3`
	rows, err := r.q.Query(ctx, query, companyID, productID, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	var list []*entity.Submission
	for rows.Next() {
		var s entity.Submission
		var flow string
		var payload []byte
		if err := rows.Scan(
			&s.ID, &s.DraftID, &s.CompanyID, &s.UserID, &s.ProductID, &flow, &s.Outcome, &s.HTTPStatus,
			&s.TotalStock, &s.TotalCost, &payload, &s.Message, &s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		s.Flow = editor.Flow(flow)
		s.Payload = payload
		list = append(list, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return list, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}
