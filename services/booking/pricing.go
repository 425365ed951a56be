package booking

// SessionCost computes the coin cost of a session: the skill's hourly rate
// scaled by the duration. The result is not rounded; a 90 minute session at
// rate 30 costs exactly 45 coins.
func SessionCost(hourlyRate float64, durationMinutes int) float64 {
	return hourlyRate * (float64(durationMinutes) / 60)
}
