package apierr

import (
	"fmt"
	"net/http"
)

// Error carries the HTTP status and machine-readable code a handler should
// answer with. Param names the offending request field, when there is one.
type Error struct {
	Status int
	Code   string
	Param  string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func BadRequest(code, param string, err error) *Error {
	return &Error{Status: http.StatusBadRequest, Code: code, Param: param, Err: err}
}

func BadGateway(err error) *Error {
	return &Error{Status: http.StatusBadGateway, Code: "upstream_error", Err: err}
}
