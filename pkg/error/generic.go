package error

// GenericError is implemented by every typed error in this package so the
// HTTP layer can map a panicked or returned error to a status code and
// machine-readable code without inspecting the message.
type GenericError interface {
	Error() string
	ErrCode() string
	StatusCode() int
}
