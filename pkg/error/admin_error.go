package error

import "net/http"

// AdminOperationError marks a purge or counter-reset that failed because the
// backing store rejected it or was unreachable.
type AdminOperationError string

func (err AdminOperationError) Error() string {
	return string(err)
}

func (err AdminOperationError) ErrCode() string {
	return "ADMIN_OPERATION_ERROR"
}

func (err AdminOperationError) StatusCode() int {
	return http.StatusServiceUnavailable
}
