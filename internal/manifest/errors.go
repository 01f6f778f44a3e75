package manifest

import "errors"

var (
	// ErrIncompatibleVersion is returned when the manifest version is not supported.
	ErrIncompatibleVersion = errors.New("incompatible manifest version")

	// ErrNotFound is returned when the manifest (or its pointer) does not exist.
	ErrNotFound = errors.New("manifest not found")

	// ErrInvalid is returned for malformed or inconsistent manifests.
	ErrInvalid = errors.New("invalid manifest")
)
