package errs

import "fmt"

type HttpError struct {
	Code    int
	Message string
	Data    any
}

func (e *HttpError) Error() string {
	return fmt.Sprintf("code %d: %s, data: %v", e.Code, e.Message, e.Data)
}

func New(code int, message string) *HttpError {
	return &HttpError{Code: code, Message: message}
}
