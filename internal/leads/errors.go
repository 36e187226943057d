package leads

import "errors"

// Error messages are returned verbatim in the JSON error body and are shown
// to the visitor by the form, so they stay user-readable.
var (
	// ErrConsentRequired is returned when gdprConsent is false or absent
	ErrConsentRequired = errors.New("GDPR consent required")

	// ErrMissingFields is returned when a required field is empty after trimming
	ErrMissingFields = errors.New("Missing required fields")

	// ErrInvalidBudget is returned when a negative budget is supplied
	ErrInvalidBudget = errors.New("Budget must be non-negative")

	// ErrMissingCaptchaToken is returned when verification is enabled but no token was sent
	ErrMissingCaptchaToken = errors.New("Missing reCAPTCHA token")

	// ErrLeadNotFound is returned when a lead is not found
	ErrLeadNotFound = errors.New("lead not found")
)
