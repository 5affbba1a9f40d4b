package tensor

import "github.com/pkg/errors"

// Error kinds. Match them with errors.Is.
var (
	// ErrShape reports incompatible shapes, an axis out of range or a rank mismatch.
	ErrShape = errors.New("shape error")

	// ErrAttribute reports a missing or malformed operator attribute.
	ErrAttribute = errors.New("attribute error")

	// ErrBounds reports an index that falls outside a tensor.
	ErrBounds = errors.New("bounds error")
)

// ShapeErrorf returns an error of kind ErrShape with a formatted message.
func ShapeErrorf(format string, args ...any) error {
	return errors.Wrapf(ErrShape, format, args...)
}

// AttributeErrorf returns an error of kind ErrAttribute with a formatted message.
func AttributeErrorf(format string, args ...any) error {
	return errors.Wrapf(ErrAttribute, format, args...)
}

// BoundsErrorf returns an error of kind ErrBounds with a formatted message.
func BoundsErrorf(format string, args ...any) error {
	return errors.Wrapf(ErrBounds, format, args...)
}
