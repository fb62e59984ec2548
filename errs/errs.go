// Package errs defines the sentinel errors returned by the annot packages.
//
// Call sites wrap these values with context (stream identity, operation) using
// fmt.Errorf and the %w verb, so callers should match them with errors.Is:
//
//	if errors.Is(err, errs.ErrPushbackFull) {
//	    // a second event was staged before the first was consumed
//	}
package errs

import "errors"

// Configuration errors: the operation fails, the process continues.
var (
	ErrIllegalCode     = errors.New("illegal annotation code")
	ErrIllegalMnemonic = errors.New("illegal annotation mnemonic")
	ErrIllegalName     = errors.New("illegal character in name")
	ErrTooManyStreams  = errors.New("too many open annotators")
	ErrInvalidConfig   = errors.New("invalid configuration")
	ErrInvalidMode     = errors.New("invalid stream mode")
	ErrAnnotatorBusy   = errors.New("annotator is already open for writing")
)

// Transport errors.
var (
	ErrOpenFailed = errors.New("can't open annotation file")
	ErrReadOnly   = errors.New("transport is read-only")
	ErrLocked     = errors.New("annotation file is locked by another writer")
	ErrHTTPStatus = errors.New("unexpected HTTP status")
)

// Protocol errors.
var (
	ErrUnexpectedEOF  = errors.New("unexpected EOF in annotation file")
	ErrPushbackFull   = errors.New("pushback buffer is full")
	ErrBadHandle      = errors.New("annotator handle is not open")
	ErrStreamClosed   = errors.New("annotation stream is closed")
	ErrWrongDirection = errors.New("operation not supported in this stream direction")
	ErrBadRecord      = errors.New("malformed annotation record")
)

// Encoding errors.
var (
	ErrTimeOutOfRange = errors.New("annotation time interval out of range")
	ErrAuxTooLong     = errors.New("auxiliary data exceeds 255 bytes")
)

// ErrRemediationUnavailable is returned by a remediator that cannot reorder streams.
var ErrRemediationUnavailable = errors.New("annotation reordering is unavailable")
