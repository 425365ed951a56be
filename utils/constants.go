// File: utils/constants.go
package utils

import "time"

// BookingLockPrefix is the prefix for per-teacher booking lock keys.
const BookingLockPrefix = "booking:lock:"

// BookingLockTTL bounds how long a booking lock can be held if a process dies
// mid-booking.
const BookingLockTTL = 10 * time.Second

// AvailabilityCachePrefix is the prefix for cached day-availability responses.
const AvailabilityCachePrefix = "availability:"

// AvailabilityCacheTTL is the time-to-live for cached availability entries.
const AvailabilityCacheTTL = 1 * time.Minute
