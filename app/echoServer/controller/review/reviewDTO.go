package review

type SubmitReviewReq struct {
	BookID int64  `json:"book_id" validate:"required,gt=0"`
	UserID string `json:"user_id" validate:"required"`
	Rating int    `json:"rating" validate:"required,gte=1,lte=5"`
	Review string `json:"review"`
}
