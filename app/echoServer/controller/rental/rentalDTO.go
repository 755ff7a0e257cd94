package rental

import "time"

type RentReq struct {
	BookID        int64      `json:"book_id" validate:"required,gt=0"`
	UserID        string     `json:"user_id" validate:"required"`
	RenterName    string     `json:"renter_name" validate:"required"`
	RenterAddress string     `json:"renter_address" validate:"required"`
	RenterPhone   string     `json:"renter_phone" validate:"required"`
	DueDate       *time.Time `json:"due_date"`
}

type ReturnReq struct {
	BookID     int64      `json:"book_id" validate:"required,gt=0"`
	UserID     string     `json:"user_id" validate:"required"`
	ReturnDate *time.Time `json:"return_date" validate:"required"`
}
