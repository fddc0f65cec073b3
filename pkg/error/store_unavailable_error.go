package error

import "net/http"

// StoreUnavailableError marks connectivity or timeout failures against the
// backing key-value store. Lookups recover from it locally by degrading to a
// miss; snapshot and admin operations surface it as a 503.
type StoreUnavailableError string

func (err StoreUnavailableError) Error() string {
	return string(err)
}

func (err StoreUnavailableError) ErrCode() string {
	return "STORE_UNAVAILABLE"
}

func (err StoreUnavailableError) StatusCode() int {
	return http.StatusServiceUnavailable
}
