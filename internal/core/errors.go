package core

import "errors"

var (
	// ErrInvalidID reports a string that is not a canonical UUID.
	ErrInvalidID = errors.New("invalid identifier")

	// ErrNotFound reports an update or delete whose target does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateName reports an explicit category create with a name that
	// is already taken.
	ErrDuplicateName = errors.New("duplicate category name")

	// ErrParse reports a malformed import row, date or time. A single
	// malformed cell fails the whole import.
	ErrParse = errors.New("parse error")

	// ErrNoActivitiesToImport reports an empty import batch under a replace
	// mode that needs the batch's date range.
	ErrNoActivitiesToImport = errors.New("no activities to import")
)
