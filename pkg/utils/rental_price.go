package utils

import (
	"math"
	"time"
)

const day = 24 * time.Hour

// RentalDays is the number of billable days between start and end. Any
// started day counts in full and the minimum is one day.
func RentalDays(start, end time.Time) int {
	days := int(math.Ceil(float64(end.Sub(start)) / float64(day)))
	if days < 1 {
		return 1
	}
	return days
}

// RentalPrice rounds pricePerDay × days to cents
func RentalPrice(pricePerDay float64, days int) float64 {
	return math.Round(pricePerDay*float64(days)*100) / 100
}
