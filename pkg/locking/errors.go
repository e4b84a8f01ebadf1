package locking

import "errors"

var ErrTimeout = errors.New("locking: condition wait timed out")
