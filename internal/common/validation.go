package common

import "strings"

// ValidationError carries every rule an input violated, in the order the
// rules were checked.
type ValidationError struct {
	Messages []string
}

// NewValidationError returns nil when messages is empty so callers can write
//
//	if err := common.NewValidationError(msgs); err != nil { ... }
func NewValidationError(messages []string) error {
	if len(messages) == 0 {
		return nil
	}
	return &ValidationError{Messages: append([]string(nil), messages...)}
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, ", ")
}

// Is reports ErrValidation as a match, so errors.Is works without errors.As.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
