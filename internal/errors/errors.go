package errors

import "fmt"

type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Message string
	Details []ValidationDetail
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string, details ...ValidationDetail) *ValidationError {
	return &ValidationError{
		Message: message,
		Details: details,
	}
}

func IsValidationError(err error) (*ValidationError, bool) {
	if ve, ok := err.(*ValidationError); ok {
		return ve, true
	}
	return nil, false
}

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{Message: message}
}

func IsNotFoundError(err error) (*NotFoundError, bool) {
	if nfe, ok := err.(*NotFoundError); ok {
		return nfe, true
	}
	return nil, false
}

// ConflictError signals that an order was not in the status a transition
// expected, either at read time or when the conditional update matched no row.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func NewConflictError(message string) *ConflictError {
	return &ConflictError{Message: message}
}

func IsConflictError(err error) (*ConflictError, bool) {
	if ce, ok := err.(*ConflictError); ok {
		return ce, true
	}
	return nil, false
}

type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	return e.Message
}

func NewForbiddenError(message string) *ForbiddenError {
	return &ForbiddenError{Message: message}
}

func IsForbiddenError(err error) (*ForbiddenError, bool) {
	if fe, ok := err.(*ForbiddenError); ok {
		return fe, true
	}
	return nil, false
}

type InvalidItemError struct {
	Message string
	ItemID  string
}

func (e *InvalidItemError) Error() string {
	return e.Message
}

func NewInvalidItemError(itemID, message string) *InvalidItemError {
	return &InvalidItemError{Message: message, ItemID: itemID}
}

func IsInvalidItemError(err error) (*InvalidItemError, bool) {
	if ie, ok := err.(*InvalidItemError); ok {
		return ie, true
	}
	return nil, false
}

type QuantityTooLowError struct {
	Message  string
	ItemID   string
	Minimum  int
	Supplied int
}

func (e *QuantityTooLowError) Error() string {
	return e.Message
}

func NewQuantityTooLowError(itemID string, minimum, supplied int) *QuantityTooLowError {
	return &QuantityTooLowError{
		Message:  fmt.Sprintf("quantity %d is below the minimum order quantity %d", supplied, minimum),
		ItemID:   itemID,
		Minimum:  minimum,
		Supplied: supplied,
	}
}

func IsQuantityTooLowError(err error) (*QuantityTooLowError, bool) {
	if qe, ok := err.(*QuantityTooLowError); ok {
		return qe, true
	}
	return nil, false
}

// SignatureInvalidError marks a payment assertion whose keyed hash did not
// match. Treated as a security event by callers.
type SignatureInvalidError struct {
	Message string
}

func (e *SignatureInvalidError) Error() string {
	return e.Message
}

func NewSignatureInvalidError(message string) *SignatureInvalidError {
	return &SignatureInvalidError{Message: message}
}

func IsSignatureInvalidError(err error) (*SignatureInvalidError, bool) {
	if se, ok := err.(*SignatureInvalidError); ok {
		return se, true
	}
	return nil, false
}

type DuplicateReviewError struct {
	Message string
}

func (e *DuplicateReviewError) Error() string {
	return e.Message
}

func NewDuplicateReviewError(message string) *DuplicateReviewError {
	return &DuplicateReviewError{Message: message}
}

func IsDuplicateReviewError(err error) (*DuplicateReviewError, bool) {
	if de, ok := err.(*DuplicateReviewError); ok {
		return de, true
	}
	return nil, false
}

// ExternalServiceError wraps a failed call to a collaborator (geocoder,
// translator). Callers with a safe local default degrade instead of
// propagating it.
type ExternalServiceError struct {
	Message string
	Cause   error
}

func (e *ExternalServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Cause
}

func NewExternalServiceError(message string, cause error) *ExternalServiceError {
	return &ExternalServiceError{Message: message, Cause: cause}
}

func IsExternalServiceError(err error) (*ExternalServiceError, bool) {
	if ee, ok := err.(*ExternalServiceError); ok {
		return ee, true
	}
	return nil, false
}

type InternalError struct {
	Message string
	Cause   error
}

func (e *InternalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *InternalError) Unwrap() error {
	return e.Cause
}

func NewInternalError(message string, cause error) *InternalError {
	return &InternalError{
		Message: message,
		Cause:   cause,
	}
}
