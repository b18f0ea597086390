package auth

import "errors"

// ErrEmailExists is returned by repositories when registering an email that
// already has an account.
var ErrEmailExists = errors.New("email already registered")
