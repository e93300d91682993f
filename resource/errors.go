// SPDX-License-Identifier: EPL-2.0

package resource

import (
	"errors"
	"io/fs"
)

var (
	// ErrNotFound is returned when a resource cannot be located. It matches
	// fs.ErrNotExist as well.
	ErrNotFound = errNotFound{}

	// ErrReleased is returned by a second Blob.Release.
	ErrReleased = errors.New("resource blob already released")

	// ErrInvalidID is returned for an empty resource identifier.
	ErrInvalidID = errors.New("invalid resource identifier")
)

type errNotFound struct{}

func (errNotFound) Error() string { return "resource not found" }

func (errNotFound) Is(target error) bool { return target == fs.ErrNotExist }
