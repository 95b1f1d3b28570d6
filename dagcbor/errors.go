package dagcbor

import "errors"

// Error kinds returned by the codec. A decode/encode failure is one of
// these, either returned as is or wrapped with fmt.Errorf("...: %w", ErrX),
// so callers can classify a failure with errors.Is without parsing message
// text.
var (
	ErrShortRead             = errors.New("dagcbor: short read")
	ErrShortWrite            = errors.New("dagcbor: short write")
	ErrInvalidSeek           = errors.New("dagcbor: invalid seek to a negative or overflowing position")
	ErrInvalidUTF8           = errors.New("dagcbor: invalid utf-8")
	ErrUnexpectedInitialByte = errors.New("dagcbor: unexpected initial byte")
	ErrUnexpectedTag         = errors.New("dagcbor: unexpected cbor tag")
	ErrInvalidLink           = errors.New("dagcbor: invalid link")
	ErrLengthOverflow        = errors.New("dagcbor: length out of range")
	ErrIntegerOutOfRange     = errors.New("dagcbor: integer out of range")
	ErrMaxDepthExceeded      = errors.New("dagcbor: maximum recursion depth exceeded")
)
