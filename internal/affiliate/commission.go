package affiliate

import "math"

// Commission computes the payout owed on a converted subscription:
// round(amount * rate / 100), kept in the same currency minor unit (cents)
// as the subscription amount.
func Commission(amountCents int64, ratePercent int) int64 {
	if amountCents <= 0 || ratePercent <= 0 {
		return 0
	}
	return int64(math.Round(float64(amountCents) * float64(ratePercent) / 100.0))
}
