package cube

import "errors"

// Controller errors.
var (
	// ErrNotReady is returned by operations issued before the group is Ready.
	ErrNotReady = errors.New("group not ready")

	// ErrUnsupported is returned for operations, kits or models the
	// configured hardware does not have.
	ErrUnsupported = errors.New("not supported by this model")

	// ErrBadUnit is returned for a unit index outside the group.
	ErrBadUnit = errors.New("unit outside the group")

	// ErrOutOfRange is returned for matrix coordinates outside 0..7.
	ErrOutOfRange = errors.New("coordinate out of range")

	// ErrUnknownMotion is returned for a motion the model does not define.
	ErrUnknownMotion = errors.New("unknown motion")
)
