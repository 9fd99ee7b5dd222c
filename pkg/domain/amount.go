package domain

// Amount is a quantity of money in minor units (for example cents).
// Integer arithmetic keeps deposit accounting exact.
type Amount int64

// Mul scales the amount by a count of attendees.
func (a Amount) Mul(n int) Amount {
	return a * Amount(n)
}
