package clips

import "errors"

var (
	// ErrDuplicateID is returned when a clip id already exists for the video.
	ErrDuplicateID = errors.New("duplicate clip id")
	// ErrNotFound is returned when a clip id is absent from the video.
	ErrNotFound = errors.New("clip not found")
	// ErrImmutableID is returned when an update tries to change a clip id.
	ErrImmutableID = errors.New("clip id is immutable")
	// ErrUnknownVideo is returned when the video has no registry entry.
	ErrUnknownVideo = errors.New("unknown video")
	// ErrInvalidBounds is returned when a clip violates 0 <= start <= end <= duration.
	ErrInvalidBounds = errors.New("invalid clip bounds")
)
