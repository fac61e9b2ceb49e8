package sinew

import "errors"

var (
	// ErrTooManyJoints is returned when a skeleton definition exceeds the
	// configured joint capacity. It is a configuration error.
	ErrTooManyJoints = errors.New("sinew: too many joints")

	// ErrDuplicateJoint is returned when a joint or alias name is reused.
	ErrDuplicateJoint = errors.New("sinew: duplicate joint name")

	// ErrJointNotFound is returned by lookups that require an existing joint.
	ErrJointNotFound = errors.New("sinew: joint not found")
)
