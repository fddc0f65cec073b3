package error

import "net/http"

// StoreWriteError marks a failed cache write. It is reported upward but not
// retried: losing one write costs a future cache miss, not correctness.
type StoreWriteError string

func (err StoreWriteError) Error() string {
	return string(err)
}

func (err StoreWriteError) ErrCode() string {
	return "STORE_WRITE_FAILED"
}

func (err StoreWriteError) StatusCode() int {
	return http.StatusBadGateway
}
