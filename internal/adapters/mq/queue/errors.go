package queue

import "errors"

// ErrClosed is returned when closing a queue that is already closed.
var ErrClosed = errors.New("queue closed")
