package contacts

import "errors"

// Validation and lookup failures raised by the core types.
// Callers compare with errors.Is; the returned errors wrap these sentinels
// together with the offending value.
var (
	ErrInvalidName       = errors.New("name cannot be empty")
	ErrInvalidPhone      = errors.New("phone number must be 10 digits")
	ErrInvalidDateFormat = errors.New("invalid date format, use DD.MM.YYYY")
	ErrPhoneNotFound     = errors.New("old phone not found")
)
