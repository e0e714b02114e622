package ledger

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes ledger errors.
type ErrorCode string

const (
	// CodeInvalidInput indicates a malformed date, a non-positive quantity,
	// a negative discount or a non-integer numeric field.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// CodeNotFound indicates a member, book or sale id that does not exist.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeInsufficientStock indicates the requested quantity exceeds the book's stock.
	CodeInsufficientStock ErrorCode = "INSUFFICIENT_STOCK"

	// CodeStorage indicates the underlying store failed. The transaction in
	// progress, if any, has been rolled back.
	CodeStorage ErrorCode = "STORAGE_ERROR"
)

// Entity names used in NotFound errors.
const (
	EntityMember = "member"
	EntityBook   = "book"
	EntitySale   = "sale"
)

// LedgerError is the error value returned by every ledger operation.
// Domain failures are values, never panics.
type LedgerError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Entity and Key identify the missing record for CodeNotFound.
	Entity string
	Key    string

	// Err is the underlying cause (set for CodeStorage).
	Err error
}

// Error implements the error interface.
func (e *LedgerError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LedgerError) Unwrap() error {
	return e.Err
}

// NewInvalidInput creates a CodeInvalidInput error.
func NewInvalidInput(format string, args ...any) *LedgerError {
	return &LedgerError{
		Code:    CodeInvalidInput,
		Message: fmt.Sprintf(format, args...),
	}
}

// NewNotFound creates a CodeNotFound error for the given entity and key.
func NewNotFound(entity, key string) *LedgerError {
	return &LedgerError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s %q not found", entity, key),
		Entity:  entity,
		Key:     key,
	}
}

// NewInsufficientStock creates a CodeInsufficientStock error.
func NewInsufficientStock(bookID string, stock, requested int64) *LedgerError {
	return &LedgerError{
		Code:    CodeInsufficientStock,
		Message: fmt.Sprintf("book %q has %d in stock, %d requested", bookID, stock, requested),
		Entity:  EntityBook,
		Key:     bookID,
	}
}

// NewStorageError wraps a store failure.
func NewStorageError(op string, err error) *LedgerError {
	return &LedgerError{
		Code:    CodeStorage,
		Message: op,
		Err:     err,
	}
}

// CodeOf returns the ErrorCode carried by err, or "" if err is not a LedgerError.
// Uses errors.As to handle wrapped errors.
func CodeOf(err error) ErrorCode {
	var le *LedgerError
	if errors.As(err, &le) {
		return le.Code
	}
	return ""
}

// IsInvalidInput returns true if err is a CodeInvalidInput LedgerError.
func IsInvalidInput(err error) bool {
	return CodeOf(err) == CodeInvalidInput
}

// IsNotFound returns true if err is a CodeNotFound LedgerError.
func IsNotFound(err error) bool {
	return CodeOf(err) == CodeNotFound
}

// IsInsufficientStock returns true if err is a CodeInsufficientStock LedgerError.
func IsInsufficientStock(err error) bool {
	return CodeOf(err) == CodeInsufficientStock
}

// IsStorageError returns true if err is a CodeStorage LedgerError.
func IsStorageError(err error) bool {
	return CodeOf(err) == CodeStorage
}
