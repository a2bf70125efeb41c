package errs

type ErrorMessage struct {
	Message string
}

func (e *ErrorMessage) Error() string { return e.Message }

type NotFoundError struct {
	ErrorMessage
}

type ValidationError struct {
	ErrorMessage
}

// AdvisorError covers failures of the optimization advisor call: network,
// missing credential, or a malformed response. Transient marks conditions
// worth retrying (timeouts, unavailability) as opposed to bad responses.
type AdvisorError struct {
	ErrorMessage
	Transient bool
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewAdvisorError(message string, transient bool) *AdvisorError {
	return &AdvisorError{
		ErrorMessage: ErrorMessage{Message: message},
		Transient:    transient,
	}
}
