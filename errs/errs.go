package errs

import "errors"

type constErr string

func (e constErr) Error() string {
	return string(e)
}

// Every failure the file system reports wraps exactly one
// of these. ErrEmpty is not a failure of the image, it
// tells a reader that the file exists but holds no bytes.
const (
	ErrNotFound constErr = "not found"
	ErrExist    constErr = "already exists"
	ErrNoSpace  constErr = "capacity exceeded"
	ErrEmpty    constErr = "empty file"
)

// PathError records the operation and path that failed,
// the same way os.PathError does.
type PathError struct {
	Op   string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// Wrap returns nil for a nil err
func Wrap(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &PathError{Op: op, Path: path, Err: err}
}

// Code folds an error into the two messages the shell has
// always printed: not found for lookups, failed for the rest.
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "not found!"
	default:
		return "failed"
	}
}
