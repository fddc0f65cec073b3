package utils

// ResponseData is the JSON envelope used for error and admin responses.
// Status drives the HTTP status code but is not serialized.
type ResponseData struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Results any    `json:"results,omitempty"`
}

// PanicIfNeeded panics on a non-nil error so the recovery middleware can
// translate typed errors into JSON responses.
func PanicIfNeeded(err error) {
	if err != nil {
		panic(err)
	}
}
