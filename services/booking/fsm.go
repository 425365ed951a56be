package booking

import "swapp/models"

// transitions is the allow-list of legal status changes. Bookings are
// created confirmed; pending remains a legal stored value with exits but no
// entries, so older records still move through the machine. Completed,
// cancelled and no_show are terminal.
var transitions = map[models.BookingStatus][]models.BookingStatus{
	models.StatusPending:   {models.StatusConfirmed, models.StatusCancelled},
	models.StatusConfirmed: {models.StatusCompleted, models.StatusCancelled, models.StatusNoShow},
}

// CanTransition reports whether moving from one status to another is legal.
func CanTransition(from, to models.BookingStatus) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}
