package errx

import "fmt"

// Code is an error code registered by a module.
type Code struct {
	Code       string
	Type       Type
	HTTPStatus int
	Message    string
}

// Registry holds the error codes of one module under a common prefix,
// e.g. AUTH_INVALID_CREDENTIALS.
type Registry struct {
	prefix string
	codes  map[string]*Code
}

func NewRegistry(prefix string) *Registry {
	return &Registry{prefix: prefix, codes: make(map[string]*Code)}
}

// Register declares a code. Called from package-level vars at init time,
// so the map needs no locking afterwards.
func (r *Registry) Register(name string, errType Type, httpStatus int, message string) *Code {
	c := &Code{
		Code:       fmt.Sprintf("%s_%s", r.prefix, name),
		Type:       errType,
		HTTPStatus: httpStatus,
		Message:    message,
	}
	r.codes[name] = c
	return c
}

// New instantiates an error for a registered code.
func (r *Registry) New(code *Code) *Error {
	return &Error{
		Code:       code.Code,
		Message:    code.Message,
		Type:       code.Type,
		HTTPStatus: code.HTTPStatus,
	}
}

// NewWithMessage instantiates an error with a message overriding the
// registered default.
func (r *Registry) NewWithMessage(code *Code, message string) *Error {
	e := r.New(code)
	e.Message = message
	return e
}

// NewWithCause instantiates an error carrying an underlying cause.
func (r *Registry) NewWithCause(code *Code, cause error) *Error {
	e := r.New(code)
	e.Err = cause
	return e
}
