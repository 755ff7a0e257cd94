// model/rental.go
package model

import "time"

// Rental is one lending of one copy. The renter fields and the book title
// are snapshots taken at rental time; they never track later edits to the
// user or book records.
type Rental struct {
	ID             int64      `json:"id"`
	UserID         string     `json:"user_id"`
	BookID         int64      `json:"book_id"`
	BookTitle      string     `json:"book_title"`
	RenterName     string     `json:"renter_name"`
	RenterAddress  string     `json:"renter_address"`
	RenterPhone    string     `json:"renter_phone"`
	RentalDate     time.Time  `json:"rental_date"`
	DueDate        time.Time  `json:"due_date"`
	ReturnDate     *time.Time `json:"return_date,omitempty"`
	Returned       bool       `json:"returned"`
	LateFeeCharged float64    `json:"late_fee_charged"`
}
