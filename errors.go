package carvers

import "github.com/pkg/errors"

var (
	// ErrInvalidInput is returned when the reduction fraction is out of range
	// or the raster is too small to be carved. Nothing is mutated in this case.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvariant signals a malformed seam or raster. It means a defect in the
	// carver itself and the reduction is aborted.
	ErrInvariant = errors.New("internal invariant violation")
)

func invalidInput(format string, args ...any) error {
	return errors.Wrapf(ErrInvalidInput, format, args...)
}

func invariant(format string, args ...any) error {
	return errors.Wrapf(ErrInvariant, format, args...)
}
