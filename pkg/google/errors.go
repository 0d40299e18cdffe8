package google

import "errors"

var ErrUnauthenticated = errors.New("user is unauthenticated, authentication is required")
