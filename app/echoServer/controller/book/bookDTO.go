package book

type CreateBookReq struct {
	Title    string `json:"title" validate:"required"`
	Author   string `json:"author" validate:"required"`
	Category string `json:"category"`
	Stock    *int64 `json:"stock" validate:"omitempty,gte=0"`
}

type UpdateStockReq struct {
	Stock *int64 `json:"stock" validate:"required,gte=0"`
}
