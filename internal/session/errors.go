package session

import "errors"

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrStopNotFound         = errors.New("stop not found")
	ErrDayNotFound          = errors.New("day not found")
	ErrTripComplete         = errors.New("every day of the trip is already planned")
	ErrGenerationInProgress = errors.New("a day is already being generated")
	ErrSessionReset         = errors.New("session was reset while generating")
)
