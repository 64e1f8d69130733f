package model

import "errors"

// DomainError is a ledger error carrying a stable machine-readable code
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

var (
	ErrValidation        = NewDomainError("VALIDATION_ERROR", "invalid input")
	ErrProductNotFound   = NewDomainError("PRODUCT_NOT_FOUND", "product not found")
	ErrInsufficientStock = NewDomainError("INSUFFICIENT_STOCK", "insufficient stock remaining")
	ErrAlreadyExists     = NewDomainError("ALREADY_EXISTS", "product already exists")
)

// ErrorCode extracts the domain code from err, or "" when err is not a domain error
func ErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
