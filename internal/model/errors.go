package model

import "errors"

var (
	// ErrUnauthorized is returned when the requester lacks channel-management
	// authority on the target channel.
	ErrUnauthorized = errors.New("missing channel permission")

	// ErrArchiveInProgress is returned when the channel already has an active
	// archival job.
	ErrArchiveInProgress = errors.New("archive already in progress")
)
