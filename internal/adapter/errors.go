package adapter

import "errors"

var (
	// ErrUnsupported marks a legacy capability the backend cannot provide.
	ErrUnsupported = errors.New("UNSUPPORTED")

	// ErrUnknownExport is returned when a caller invokes an export name
	// that was never registered.
	ErrUnknownExport = errors.New("UNKNOWN_EXPORT")

	// ErrInvalidArgument is returned when an export receives an argument
	// of the wrong type.
	ErrInvalidArgument = errors.New("INVALID_ARGUMENT")

	// ErrUnknownCommand is returned when a host command is not registered.
	ErrUnknownCommand = errors.New("UNKNOWN_COMMAND")

	// ErrRestrictedCommand is returned when an unprivileged caller runs a
	// restricted host command.
	ErrRestrictedCommand = errors.New("RESTRICTED_COMMAND")
)
