package util

import (
	"math/rand"
	"time"
)

func init() {
	rand.Seed(time.Now().UnixNano())
}

// RandomFloat generates a random float64 in [min, max)
func RandomFloat(min, max float64) float64 {
	return min + rand.Float64()*(max-min)
}

// RandomInt generates a random integer between min and max
func RandomInt(min, max int) int {
	return min + rand.Intn(max-min+1)
}

// RandomKind returns "call" or "put" with equal probability
func RandomKind() string {
	if rand.Intn(2) == 0 {
		return "call"
	}
	return "put"
}

// RandomDate returns a date within n days after start
func RandomDate(start time.Time, n int) time.Time {
	return start.AddDate(0, 0, rand.Intn(n+1))
}
