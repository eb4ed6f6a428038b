package calculator

import "errors"

// ErrInvalidInput is the only failure kind of a calculation. Every error
// returned by the calculator matches it with errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// Reason tells the user which fields to check.
type Reason int

const (
	// ReasonSingleLink: power, frequency or distance in single mode.
	ReasonSingleLink Reason = iota
	// ReasonRangeLink: power or distance in range mode.
	ReasonRangeLink
	// ReasonFrequencyRange: sweep bounds or step not positive numbers.
	ReasonFrequencyRange
	// ReasonEmptySweep: stop < start or step <= 0.
	ReasonEmptySweep
)

var messages = map[Reason]string{
	ReasonSingleLink:     "Invalid input: check transmit power, frequency and distance (must be positive numbers).",
	ReasonRangeLink:      "Invalid input: check transmit power and distance (must be positive numbers).",
	ReasonFrequencyRange: "Invalid input: check the frequency range (must be positive numbers).",
	ReasonEmptySweep:     "Invalid frequency range: make sure stop >= start and step > 0.",
}

var reasonNames = map[Reason]string{
	ReasonSingleLink:     "single_link",
	ReasonRangeLink:      "range_link",
	ReasonFrequencyRange: "frequency_range",
	ReasonEmptySweep:     "empty_sweep",
}

// String returns a stable identifier, used as a metric label.
func (r Reason) String() string {
	if s, ok := reasonNames[r]; ok {
		return s
	}
	return "unknown"
}

// InvalidInputError carries the user-facing message for a rejected
// calculation.
type InvalidInputError struct {
	Reason Reason
}

func (e *InvalidInputError) Error() string {
	return messages[e.Reason]
}

// Is makes every InvalidInputError match ErrInvalidInput.
func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Message returns the user-facing text for err, or "" when err is not an
// invalid input error.
func Message(err error) string {
	var inv *InvalidInputError
	if errors.As(err, &inv) {
		return inv.Error()
	}
	return ""
}

func invalid(r Reason) error {
	return &InvalidInputError{Reason: r}
}
