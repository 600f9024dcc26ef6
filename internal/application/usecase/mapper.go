package usecase

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/product-editor/internal/application/dto"
	"github.com/jhoicas/product-editor/internal/domain/editor"
	"github.com/jhoicas/product-editor/internal/domain/entity"
)

func toDraftResponse(d *entity.Draft) *dto.DraftResponse {
	e := d.Editor()
	out := &dto.DraftResponse{
		ID:                 d.ID,
		Flow:               d.Flow,
		ProductID:          d.ProductID,
		Generation:         d.Generation,
		Loading:            d.Loading,
		Version:            d.Version,
		Fields:             e.Fields(),
		Shops:              toShopResponses(e.Shops()),
		TotalStock:         e.TotalStock().String(),
		TotalAttributeCost: e.TotalAttributeCost().StringFixed(2),
		CanAddAttribute:    d.Flow == editor.FlowEdit || len(e.AttributeRowIDs()) < e.Taxonomy().Len(),
		UpdatedAt:          d.UpdatedAt,
	}
	out.Attributes = make([]dto.AttributeRowResponse, 0, len(e.AttributeRowIDs()))
	for _, row := range e.AttributeRows() {
		opts, _ := e.ValueOptions(row.ID)
		out.Attributes = append(out.Attributes, dto.AttributeRowResponse{
			ID:                 int64(row.ID),
			Persisted:          row.Persisted,
			AttributeID:        row.TypeID,
			ValueID:            row.ValueID,
			MathSign:           string(row.Sign),
			Number:             decimalText(row.Operand),
			AttributeCost:      decimalText(row.Cost),
			AttributeWeight:    decimalText(row.Weight),
			AttributeMesarment: row.Measurement,
			Shops:              toShopResponses(e.RowShops(row.ID)),
			ValueOptions:       opts,
		})
	}
	specs, _ := e.DetailRows(editor.DetailSpecification)
	meta, _ := e.DetailRows(editor.DetailMeta)
	out.Specifications = toDetailResponses(specs)
	out.Meta = toDetailResponses(meta)
	return out
}

func toShopResponses(states []editor.ShopState) []dto.ShopQuantityResponse {
	out := make([]dto.ShopQuantityResponse, 0, len(states))
	for _, s := range states {
		out = append(out, dto.ShopQuantityResponse{ShopID: int64(s.ShopID), Quantity: decimalText(s.Quantity)})
	}
	return out
}

func toDetailResponses(rows []editor.DetailRow) []dto.DetailRowResponse {
	out := make([]dto.DetailRowResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.DetailRowResponse{ID: int64(r.ID), Persisted: r.Persisted, Name: r.Name, Value: r.Value})
	}
	return out
}

func decimalText(d decimal.NullDecimal) *string {
	if !d.Valid {
		return nil
	}
	s := d.Decimal.String()
	return &s
}

func toSubmissionResponse(s *entity.Submission) dto.SubmissionResponse {
	return dto.SubmissionResponse{
		ID:         s.ID,
		DraftID:    s.DraftID,
		ProductID:  s.ProductID,
		Flow:       string(s.Flow),
		Outcome:    s.Outcome,
		HTTPStatus: s.HTTPStatus,
		TotalStock: s.TotalStock.String(),
		TotalCost:  s.TotalCost.StringFixed(2),
		Message:    s.Message,
		Payload:    s.Payload,
		CreatedAt:  s.CreatedAt,
	}
}
