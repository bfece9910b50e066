// Package types holds small value types shared across modules.
package types

// ID identifies a persisted entity. Values are UUID strings.
type ID string

// Point is a geographic coordinate in decimal degrees.
type Point struct {
	Lat float64
	Lng float64
}

// Money is an amount in whole currency units (rupees).
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// Rupees builds an INR money value.
func Rupees(amount int64) Money {
	return Money{Amount: amount, Currency: "INR"}
}
