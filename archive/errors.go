package archive

import "errors"

var (
	ErrNotFound    = errors.New("archive: proof not found")
	ErrInvalidCID  = errors.New("archive: invalid cid")
	ErrCIDMismatch = errors.New("archive: cid mismatch")
	ErrImmutable   = errors.New("archive: immutable proof mismatch")
)

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
