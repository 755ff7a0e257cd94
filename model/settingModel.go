// model/setting.go
package model

// Setting is the single process-wide configuration row. Exactly one
// instance exists; it is created lazily with defaults on first read.
type Setting struct {
	ID            int64   `json:"id"`
	LateFeePerDay float64 `json:"late_fee_per_day"`
}
