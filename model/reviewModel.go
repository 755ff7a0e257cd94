// model/review.go
package model

import "time"

// Review is immutable once created. RenterName and the rental dates are
// copied from the user's most recent rental of the book, when one exists.
type Review struct {
	ID         int64      `json:"id"`
	BookID     int64      `json:"book_id"`
	UserID     string     `json:"user_id"`
	RenterName string     `json:"renter_name"`
	Rating     int        `json:"rating"`
	Review     string     `json:"review"`
	RentalDate *time.Time `json:"rental_date,omitempty"`
	ReturnDate *time.Time `json:"return_date,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}
