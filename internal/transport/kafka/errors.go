package kafka

// PermanentError marks a handler failure that redelivery cannot fix. The
// consumer marks such messages and moves on.
type PermanentError struct {
	Err error
}

func (e PermanentError) Error() string {
	if e.Err == nil {
		return "permanent kafka handler error"
	}
	return "permanent: " + e.Err.Error()
}

func (e PermanentError) Unwrap() error { return e.Err }

// Permanent wraps err so the consumer skips the message instead of retrying.
func Permanent(err error) error {
	return PermanentError{Err: err}
}
