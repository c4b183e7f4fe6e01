// Package errs defines the sentinel error values returned throughout ncdata.
//
// Every exported error is a plain sentinel created with errors.New. Callers
// wrap it with additional context using fmt.Errorf("%w: ...", errs.ErrXxx, ...)
// and test for it with errors.Is. No panics occur on any user-reachable path;
// a panic here would indicate an internal invariant violation, not a user error.
package errs

import "errors"

// Argument and shape errors.
var (
	ErrInvalidArgument    = errors.New("ncdata: invalid argument")
	ErrInvalidShape       = errors.New("ncdata: invalid shape")
	ErrShapeMismatch      = errors.New("ncdata: shape mismatch")
	ErrOutOfRange         = errors.New("ncdata: index out of range")
	ErrNilBuffer          = errors.New("ncdata: nil or missing required buffer")
	ErrInvalidItemWidth   = errors.New("ncdata: invalid item width")
	ErrInvalidBlockShape  = errors.New("ncdata: invalid block shape")
	ErrInvalidChunkShape  = errors.New("ncdata: invalid chunk shape")
)

// Storage and frame errors.
var (
	ErrInvalidStorage = errors.New("ncdata: invalid storage mode or missing file")
	ErrInvalidFormat  = errors.New("ncdata: invalid or corrupt frame format")
	ErrUnknownVersion = errors.New("ncdata: unknown major format version")
)

// Compression/filter pipeline errors.
var (
	ErrCompressionFailure   = errors.New("ncdata: compression failure")
	ErrDecompressionFailure = errors.New("ncdata: decompression failure")
	ErrFilterFailure        = errors.New("ncdata: filter rejected meta or block shape")
	ErrOutOfMemory          = errors.New("ncdata: allocation failed")
)

// Container/metalayer errors.
var (
	ErrNotFound       = errors.New("ncdata: not found")
	ErrAlreadyExists  = errors.New("ncdata: already exists")
	ErrAfterData      = errors.New("ncdata: fixed metalayer must be registered before the first chunk")
	ErrUnsupported    = errors.New("ncdata: unsupported codec or filter")
	ErrCancelled      = errors.New("ncdata: operation cancelled by worker error")
)
