package dto

// BarcodeItemRequest producto y cantidad de etiquetas.
type BarcodeItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Copies    int   `json:"copies" validate:"min=0,max=500"`
}

// BarcodeSheetRequest entrada para generar la hoja de etiquetas en PDF.
type BarcodeSheetRequest struct {
	Title       string               `json:"title" validate:"max=120"`
	Columns     int                  `json:"columns" validate:"omitempty,min=1,max=6"`
	RowsPerPage int                  `json:"rows_per_page" validate:"omitempty,min=1,max=20"`
	Items       []BarcodeItemRequest `json:"items" validate:"required,min=1,max=200,dive"`
}
