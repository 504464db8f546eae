package model

import "errors"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON           = "INVALID_JSON"
	ErrCodeValidation            = "VALIDATION_FAILED"
	ErrCodeEmptyCart             = "EMPTY_CART"
	ErrCodeInvalidQuantity       = "INVALID_QUANTITY"
	ErrCodeProductNotFound       = "PRODUCT_NOT_FOUND"
	ErrCodeNoValidItems          = "NO_VALID_ITEMS"
	ErrCodeBelowMinimumOrder     = "BELOW_MINIMUM_ORDER"
	ErrCodeInvalidPickupDate     = "INVALID_PICKUP_DATE"
	ErrCodeInvalidPickupDays     = "INVALID_PICKUP_DAYS"
	ErrCodeInvalidStatus         = "INVALID_STATUS"
	ErrCodeInvalidTransition     = "INVALID_TRANSITION"
	ErrCodeOrderNotFound         = "ORDER_NOT_FOUND"
	ErrCodeInvalidSignature      = "INVALID_SIGNATURE"
	ErrCodeMissingOrderReference = "MISSING_ORDER_REFERENCE"
	ErrCodeSimulationDisabled    = "SIMULATION_DISABLED"
	ErrCodeInvalidCartToken      = "INVALID_CART_TOKEN"
	ErrCodeUnauthorised          = "UNAUTHORIZED"
	ErrCodeForbidden             = "FORBIDDEN"
	ErrCodeRateLimited           = "RATE_LIMITED"
	ErrCodeInternalError         = "INTERNAL_ERROR"
)

// ErrorKind groups domain errors by how a caller should react to them.
type ErrorKind int

const (
	KindValidation ErrorKind = iota
	KindNotFound
	KindConflict
	KindUnauthorized
	KindForbidden
	KindSignature
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Kind    ErrorKind
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new validation-kind domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Kind:    KindValidation,
		Message: message,
	}
}

func newKindError(kind ErrorKind, code, message string) *DomainError {
	return &DomainError{Code: code, Kind: kind, Message: message}
}

// AsDomainError unwraps err to a *DomainError if it carries one.
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// Pricing and checkout errors
var (
	ErrEmptyCart          = NewDomainError(ErrCodeEmptyCart, "Cart is empty")
	ErrInvalidQuantity    = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be between 1 and 99")
	ErrProductNotFound    = newKindError(KindNotFound, ErrCodeProductNotFound, "One or more products not found")
	ErrNoValidItems       = NewDomainError(ErrCodeNoValidItems, "No valid items in cart")
	ErrBelowMinimumOrder  = NewDomainError(ErrCodeBelowMinimumOrder, "Order total must be at least $0.50")
	ErrInvalidPickupDate  = NewDomainError(ErrCodeInvalidPickupDate, "Pickup date must be at least one day ahead on an open day")
	ErrInvalidPickupDays  = NewDomainError(ErrCodeInvalidPickupDays, "Pickup days must be distinct weekdays between 0 and 6")
	ErrSimulationDisabled = newKindError(KindNotFound, ErrCodeSimulationDisabled, "Payment simulation is disabled")
)

// Order lifecycle errors
var (
	ErrInvalidStatus     = NewDomainError(ErrCodeInvalidStatus, "Unknown order status")
	ErrInvalidTransition = newKindError(KindConflict, ErrCodeInvalidTransition, "Order cannot move to the requested status")
	ErrOrderNotFound     = newKindError(KindNotFound, ErrCodeOrderNotFound, "Order not found")
	ErrUnauthorized      = newKindError(KindUnauthorized, ErrCodeUnauthorised, "Authentication required")
	ErrForbidden         = newKindError(KindForbidden, ErrCodeForbidden, "Insufficient permissions")
)

// Payment confirmation errors
var (
	ErrInvalidSignature      = newKindError(KindSignature, ErrCodeInvalidSignature, "Webhook signature verification failed")
	ErrMissingOrderReference = NewDomainError(ErrCodeMissingOrderReference, "Payment event carries no order reference")
)

// Cart errors
var (
	ErrInvalidCartToken = NewDomainError(ErrCodeInvalidCartToken, "Cart token is missing or malformed")
)
