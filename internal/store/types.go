package store

// ShiftFilter narrows a shift listing to an inclusive date range.
// Empty bounds mean "no bound on that side". Dates are YYYY-MM-DD
// strings, which order lexically the same as chronologically.
type ShiftFilter struct {
	From string
	To   string
}
