package ports

import "errors"

var (
	ErrOracleTimeout            = errors.New("sequencing oracle timed out")
	ErrOracleUnavailable        = errors.New("sequencing oracle unavailable")
	ErrOracleMalformed          = errors.New("sequencing oracle returned malformed output")
	ErrOracleInvalidPermutation = errors.New("sequencing oracle result is not a permutation")

	ErrQueryTooShort = errors.New("place query too short")
)
