// Package latefee computes the penalty for overdue returns.
package latefee

import (
	"math"
	"time"
)

const day = 24 * time.Hour

// Fee charges perDay for every started late day. A zero dueDate means no
// due date was recorded, so nothing is owed. Partial days round up: a
// return 36 hours past due counts as 2 late days.
func Fee(dueDate, returnedAt time.Time, perDay float64) float64 {
	if dueDate.IsZero() || !returnedAt.After(dueDate) {
		return 0
	}
	daysLate := math.Ceil(float64(returnedAt.Sub(dueDate)) / float64(day))
	return daysLate * perDay
}
