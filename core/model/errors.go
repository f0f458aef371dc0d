package model

import "errors"

// Messages shown to a user when a calculation cannot complete.
const (
	MsgInvalidNumbers         = "Please enter valid numbers."
	MsgArrivalTimeNotPositive = "Arrival time must be positive."
	MsgNoFeasibleSpeed        = "No feasible speed found in range"
)

var (
	// ErrArrivalTimeNotPositive is returned by the speed-from-time scenario
	// when the combined arrival time is zero or negative.
	ErrArrivalTimeNotPositive = errors.New(MsgArrivalTimeNotPositive)
	// ErrNoFeasibleSpeed is returned when the required-speed search exhausts
	// its candidate range.
	ErrNoFeasibleSpeed = errors.New(MsgNoFeasibleSpeed)
)

// ValidationError reports a field that could not be used as a number.
type ValidationError struct {
	Field string
	Value string
}

// Error returns the user-facing message. The field is available via Detail.
func (e *ValidationError) Error() string { return MsgInvalidNumbers }

// Detail names the offending field and value.
func (e *ValidationError) Detail() string {
	if e.Value == "" {
		return e.Field + " is required"
	}
	return e.Field + ": " + e.Value + " is not a valid number"
}

// IsValidation reports whether err is a ValidationError or the non-positive
// arrival time condition.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve) || errors.Is(err, ErrArrivalTimeNotPositive)
}

// IsNotFound reports whether err means no feasible speed exists.
func IsNotFound(err error) bool { return errors.Is(err, ErrNoFeasibleSpeed) }
