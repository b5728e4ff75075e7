package model

import "errors"

// ErrorKind classifies a domain error for transport mapping.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindNotFound
	KindInvalidRequest
	KindForbidden
)

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON      = "INVALID_JSON"
	ErrCodeMissingField     = "MISSING_FIELD"
	ErrCodeBookNotFound     = "BOOK_NOT_FOUND"
	ErrCodeCategoryNotFound = "CATEGORY_NOT_FOUND"
	ErrCodeOrderNotFound    = "ORDER_NOT_FOUND"
	ErrCodeUserNotFound     = "USER_NOT_FOUND"
	ErrCodeCartItemMissing  = "CART_ITEM_NOT_FOUND"
	ErrCodeEmptyCart        = "EMPTY_CART"
	ErrCodeNoValidItems     = "NO_VALID_ITEMS"
	ErrCodeInvalidQuantity  = "INVALID_QUANTITY"
	ErrCodeInvalidStatus    = "INVALID_STATUS"
	ErrCodeDuplicateName    = "DUPLICATE_NAME"
	ErrCodeOrderCompleted   = "ORDER_ALREADY_COMPLETED"
	ErrCodeOrderCancelled   = "ORDER_CANCELLED"
	ErrCodeUnauthorised     = "UNAUTHORIZED"
	ErrCodeForbidden        = "FORBIDDEN"
	ErrCodeInternalError    = "INTERNAL_ERROR"
)

// DomainError is a typed business error carrying a stable code and a
// human-readable message.
type DomainError struct {
	Kind    ErrorKind
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewNotFound creates a NotFound domain error.
func NewNotFound(code, message string) *DomainError {
	return &DomainError{Kind: KindNotFound, Code: code, Message: message}
}

// NewInvalidRequest creates an InvalidRequest domain error.
func NewInvalidRequest(code, message string) *DomainError {
	return &DomainError{Kind: KindInvalidRequest, Code: code, Message: message}
}

// NewForbidden creates a Forbidden domain error.
func NewForbidden(code, message string) *DomainError {
	return &DomainError{Kind: KindForbidden, Code: code, Message: message}
}

// KindOf extracts the error kind from an error chain. Errors that are not
// domain errors are reported as internal.
func KindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// CodeOf extracts the stable error code from an error chain.
func CodeOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ErrCodeInternalError
}

// Common domain errors
var (
	ErrBookNotFound     = NewNotFound(ErrCodeBookNotFound, "Book not found")
	ErrCategoryNotFound = NewNotFound(ErrCodeCategoryNotFound, "Category not found")
	ErrOrderNotFound    = NewNotFound(ErrCodeOrderNotFound, "Order not found")
	ErrUserNotFound     = NewNotFound(ErrCodeUserNotFound, "User not found")
	ErrCartItemNotFound = NewNotFound(ErrCodeCartItemMissing, "Book is not in the cart")
	ErrEmptyCart        = NewInvalidRequest(ErrCodeEmptyCart, "Cart is empty. Add items before checking out")
	ErrNoValidItems     = NewInvalidRequest(ErrCodeNoValidItems, "No valid items in the cart")
	ErrInvalidQuantity  = NewInvalidRequest(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrOrderCompleted   = NewInvalidRequest(ErrCodeOrderCompleted, "Order already completed")
	ErrOrderCancelled   = NewInvalidRequest(ErrCodeOrderCancelled, "Order was cancelled, cannot confirm receipt")
	ErrNotOrderOwner    = NewForbidden(ErrCodeForbidden, "You do not have access to this order")
	ErrAdminOnly        = NewForbidden(ErrCodeForbidden, "Administrator role required")
)

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
