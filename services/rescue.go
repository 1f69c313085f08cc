package services

import "math"

// RescueScore ranks how much a product would gain from intervention, in [0,100].
// It is a priority, not a probability.
func RescueScore(health float64, upcomingFestivals int, discount, demandTrend, seasonality float64) float64 {
	score := (1-health)*30 +
		math.Min(float64(upcomingFestivals)*10, 30) +
		math.Min(discount*0.5, 25) +
		clamp(demandTrend*10, 0, 20)
	if seasonality > 0.7 {
		score += 15
	}
	return math.Min(score, 100)
}

// FallbackRescueScore derives a rescue score from health alone.
func FallbackRescueScore(health float64) float64 {
	return clamp(health*100, 0, 100)
}
