package error

import "net/http"

// UpstreamError marks a failure of the external generator or evidence
// provider. The failing request is surfaced to the caller; retry policy, if
// any, belongs to the caller.
type UpstreamError string

func (err UpstreamError) Error() string {
	return string(err)
}

func (err UpstreamError) ErrCode() string {
	return "UPSTREAM_ERROR"
}

func (err UpstreamError) StatusCode() int {
	return http.StatusBadGateway
}
