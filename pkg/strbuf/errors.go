package strbuf

import "errors"

var (
	// ErrOOM reports that the allocator could not provide the requested storage.
	// Once returned, the buffer stays failed until Clear or Dispose.
	ErrOOM = errors.New("strbuf: out of memory")

	// ErrEmptyPattern is returned by Replace for a pair with no pattern. It
	// does not mark the buffer as failed.
	ErrEmptyPattern = errors.New("strbuf: replacement pattern must not be empty")
)
