package license

import "time"

// ComputeExpiry derives an expiry date from a validity period. Renewal uses
// the renewal moment as the start, not the old expiry date: a lapsed license
// does not accumulate unused time, the clock always restarts.
func ComputeExpiry(from time.Time, validityPeriodDays int) time.Time {
	return from.AddDate(0, 0, validityPeriodDays)
}
