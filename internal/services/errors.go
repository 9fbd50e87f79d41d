package services

import "errors"

// Sentinel errors for the provisioning and rating paths. A duplicate caught
// by the pre-check and one caught by the unique index at insert time both
// surface as ErrDuplicateEmail, so callers see one outcome either way.
var (
	ErrDuplicateEmail  = errors.New("email already in use")
	ErrStoreNotFound   = errors.New("store not found")
	ErrNoStoreForOwner = errors.New("no store associated with this user")
)
