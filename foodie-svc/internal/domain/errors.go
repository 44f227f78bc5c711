package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrUnknownItem        = errors.New("unknown menu item")
	ErrUnavailable        = errors.New("no tables available")
	ErrInsufficientFunds  = errors.New("insufficient wallet balance")
	ErrTotalMismatch      = errors.New("mismatch in total cost submitted")
	ErrInvalidAmount      = errors.New("deposit amount must be positive")
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
	ErrEmptyOrder         = errors.New("order must contain at least one item")
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrStorageMissing is returned by repositories when a collection is
	// absent or empty and should be reseeded.
	ErrStorageMissing = errors.New("storage collection missing")
)

// UnknownItemsError lists every requested name that is not on the menu.
type UnknownItemsError struct {
	Names []string
}

func (e *UnknownItemsError) Error() string {
	return "the following food items are not found in the menu: " + strings.Join(e.Names, ", ")
}

func (e *UnknownItemsError) Is(target error) bool {
	return target == ErrUnknownItem
}

// Error pairs a sentinel kind with a customer facing message.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func Errorf(kind error, format string, args ...interface{}) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
