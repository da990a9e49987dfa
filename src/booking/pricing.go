package booking

import (
	"math"
	"time"
)

// Nights returns the length of stay in calendar nights, the ceiling of the
// day delta between the two dates.
func Nights(checkIn, checkOut time.Time) int {
	in := truncateToDate(checkIn)
	out := truncateToDate(checkOut)
	return int(math.Ceil(out.Sub(in).Hours() / 24))
}

// TotalPrice is nightlyRate times the number of nights, rounded
// half-away-from-zero to 2 decimal places.
func TotalPrice(nightlyRate float64, checkIn, checkOut time.Time) float64 {
	total := nightlyRate * float64(Nights(checkIn, checkOut))
	return math.Round(total*100) / 100
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
