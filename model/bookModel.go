// model/book.go
package model

type Book struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Category    string  `json:"category,omitempty"`
	Stock       int64   `json:"stock"`
	IsRented    bool    `json:"is_rented"` // display flag, true when stock <= 0
	AvgRating   float64 `json:"avg_rating"`
	RatingCount int64   `json:"rating_count"`
}
