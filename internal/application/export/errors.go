package export

import "fmt"

// UnitError is a unit-scoped domain failure. The step driver records its
// message and parameters on the export error log and moves on to the next
// unit; it never aborts the run.
type UnitError struct {
	Message    string
	Parameters map[string]string
	cause      error
}

func newUnitError(message string, parameters map[string]string, cause error) *UnitError {
	return &UnitError{Message: message, Parameters: parameters, cause: cause}
}

func (e *UnitError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *UnitError) Unwrap() error { return e.cause }

func stringPtr(s string) *string { return &s }
