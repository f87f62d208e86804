package itinerary

// IntegrityError signals that an operation would have broken a data model
// invariant. It always indicates a caller bug.
type IntegrityError struct {
	Msg string
}

func (e *IntegrityError) Error() string {
	return "itinerary integrity: " + e.Msg
}
