package view

// PageError carries the generic message a page shows when err has none of its own.
type PageError struct {
	Err      error
	Fallback string
}

func (e *PageError) Error() string {
	return e.Fallback + ": " + e.Err.Error()
}

func (e *PageError) Unwrap() error {
	return e.Err
}

// Fail wraps err with a page fallback message. A nil err stays nil.
func Fail(err error, fallback string) error {
	if err == nil {
		return nil
	}
	return &PageError{Err: err, Fallback: fallback}
}
