package domain

import "errors"

var (
	// ErrProjectNotFound indicates the requested project was not found.
	ErrProjectNotFound = errors.New("project not found")

	// ErrInvalidProjectID indicates the project identifier could not be parsed.
	ErrInvalidProjectID = errors.New("invalid project id")

	// ErrInvalidStatus indicates an unknown lifecycle status.
	ErrInvalidStatus = errors.New("invalid project status")
)
