package trackingno

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// Prefix starts every server generated tracking number
const Prefix = "GOAT-"

// Generate returns a tracking number shaped GOAT-<unix-seconds>-<4 digits>
func Generate() string {
	return FromTime(time.Now(), 1000+rand.IntN(9000))
}

// FromTime builds a tracking number from explicit parts
func FromTime(t time.Time, suffix int) string {
	return fmt.Sprintf("%s%d-%04d", Prefix, t.Unix(), suffix)
}
