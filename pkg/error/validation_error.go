package error

import "net/http"

// ValidationError marks malformed caller input. It is never retried and is
// surfaced immediately as a 400.
type ValidationError string

func (err ValidationError) Error() string {
	return string(err)
}

func (err ValidationError) ErrCode() string {
	return "VALIDATION_ERROR"
}

func (err ValidationError) StatusCode() int {
	return http.StatusBadRequest
}
