package ports

import "errors"

var (
	ErrNotFound    = errors.New("connection not found")
	ErrInboxClosed = errors.New("connection channel closed")
)
