// Package errors provides error types and sentinels for s3namic operations.
package errors

import (
	"errors"
	"fmt"
)

// Error represents a failed bucket operation with context about what was
// attempted. It wraps the underlying SDK or codec error so callers can use
// errors.Is / errors.As on the cause.
type Error struct {
	// Op is the operation that failed (e.g. "readCSV", "makeTree")
	Op string

	// Bucket is the bucket the client is bound to
	Bucket string

	// Key is the object key (if applicable)
	Key string

	// Err is the underlying error
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Bucket != "" && e.Key != "" {
		return fmt.Sprintf("s3namic.%s %s/%s: %v", e.Op, e.Bucket, e.Key, e.Err)
	}
	if e.Bucket != "" {
		return fmt.Sprintf("s3namic.%s bucket %s: %v", e.Op, e.Bucket, e.Err)
	}
	return fmt.Sprintf("s3namic.%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error chaining support.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithBucket adds bucket context to an existing error.
func (e *Error) WithBucket(bucket string) *Error {
	e.Bucket = bucket
	return e
}

// WithKey adds object key context to an existing error.
func (e *Error) WithKey(key string) *Error {
	e.Key = key
	return e
}

// WithMessage wraps the underlying error with a custom message.
func (e *Error) WithMessage(message string) *Error {
	e.Err = fmt.Errorf("%s: %w", message, e.Err)
	return e
}

// NewError creates a new Error with the given operation and underlying error.
func NewError(op string, err error) *Error {
	return &Error{
		Op:  op,
		Err: err,
	}
}

// Sentinel errors for common operation failures, usable with errors.Is().
var (
	// ErrInvalidInput indicates that the provided input is invalid
	ErrInvalidInput = errors.New("s3namic: invalid input")

	// ErrInvalidBucketName indicates that the bucket name is invalid
	ErrInvalidBucketName = errors.New("s3namic: invalid bucket name")

	// ErrInvalidObjectKey indicates that the object key is invalid
	ErrInvalidObjectKey = errors.New("s3namic: invalid object key")

	// ErrObjectNotFound indicates that the requested object does not exist
	ErrObjectNotFound = errors.New("s3namic: object not found")

	// ErrUnsupportedFormat indicates that no decoder is registered for the
	// detected or requested format tag
	ErrUnsupportedFormat = errors.New("s3namic: unsupported format")

	// ErrUnsupportedCompression indicates an unknown compression codec
	ErrUnsupportedCompression = errors.New("s3namic: unsupported compression")

	// ErrUnsupportedEncoding indicates an unknown text encoding name
	ErrUnsupportedEncoding = errors.New("s3namic: unsupported encoding")
)

// IsUnsupportedFormat reports whether err stems from an unregistered format tag.
func IsUnsupportedFormat(err error) bool {
	return errors.Is(err, ErrUnsupportedFormat)
}

// IsObjectNotFound reports whether err indicates a missing object.
func IsObjectNotFound(err error) bool {
	return errors.Is(err, ErrObjectNotFound)
}
