package apperrors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// Kind is the machine readable error code sent to clients.
type Kind string

const (
	KindInsufficientStock Kind = "insufficient_stock"
	KindProductNotFound   Kind = "product_not_found"
	KindInvalidQuantity   Kind = "invalid_quantity"
	KindDuplicateLineItem Kind = "duplicate_line_item"
	KindOrderNotPending   Kind = "order_not_pending"
	KindAlreadyCompleted  Kind = "already_completed"
	KindAlreadyCancelled  Kind = "already_cancelled"
	KindInvalidTransition Kind = "invalid_transition"
	KindOrderNotFound     Kind = "order_not_found"
	KindNotFound          Kind = "not_found"
	KindValidation        Kind = "validation_error"
	KindConflict          Kind = "conflict"
	KindTransient         Kind = "transient_failure"
	KindInternal          Kind = "internal_error"
)

// Error represents an application error
type Error struct {
	Code    int                    `json:"-"`
	Kind    Kind                   `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Err     error                  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// JSON returns the error as a JSON string
func (e *Error) JSON() string {
	b, _ := json.Marshal(e)
	return string(b)
}

// Retryable reports whether the caller may safely retry the whole operation.
func (e *Error) Retryable() bool {
	return e.Kind == KindTransient
}

// New creates a new Error
func New(code int, kind Kind, message string, err error) *Error {
	return &Error{
		Code:    code,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Sentinels for errors.Is comparisons.
var (
	ErrInsufficientStock = New(http.StatusConflict, KindInsufficientStock, "Insufficient stock", nil)
	ErrProductNotFound   = New(http.StatusNotFound, KindProductNotFound, "Product not found", nil)
	ErrInvalidQuantity   = New(http.StatusBadRequest, KindInvalidQuantity, "Invalid quantity", nil)
	ErrDuplicateLineItem = New(http.StatusBadRequest, KindDuplicateLineItem, "Duplicate line item", nil)
	ErrOrderNotPending   = New(http.StatusConflict, KindOrderNotPending, "Order is not pending", nil)
	ErrAlreadyCompleted  = New(http.StatusConflict, KindAlreadyCompleted, "Order is already completed", nil)
	ErrAlreadyCancelled  = New(http.StatusConflict, KindAlreadyCancelled, "Order is already cancelled", nil)
	ErrInvalidTransition = New(http.StatusConflict, KindInvalidTransition, "Invalid order status transition", nil)
	ErrOrderNotFound     = New(http.StatusNotFound, KindOrderNotFound, "Order not found", nil)
	ErrNotFound          = New(http.StatusNotFound, KindNotFound, "Not found", nil)
	ErrValidation        = New(http.StatusBadRequest, KindValidation, "Validation error", nil)
	ErrConflict          = New(http.StatusConflict, KindConflict, "Conflict", nil)
	ErrTransient         = New(http.StatusServiceUnavailable, KindTransient, "Temporary storage failure, please retry", nil)
	ErrInternal          = New(http.StatusInternalServerError, KindInternal, "Internal server error", nil)
)

func InsufficientStock(productID uuid.UUID, available, requested int) *Error {
	e := New(http.StatusConflict, KindInsufficientStock,
		fmt.Sprintf("Insufficient stock for product %s. Available: %d, Requested: %d", productID, available, requested), nil)
	e.Details = map[string]interface{}{
		"product_id": productID.String(),
		"available":  available,
		"requested":  requested,
	}
	return e
}

func ProductNotFound(productID uuid.UUID) *Error {
	e := New(http.StatusNotFound, KindProductNotFound, fmt.Sprintf("Product %s not found", productID), nil)
	e.Details = map[string]interface{}{"product_id": productID.String()}
	return e
}

func InvalidQuantity(productID uuid.UUID, quantity int) *Error {
	e := New(http.StatusBadRequest, KindInvalidQuantity,
		fmt.Sprintf("Quantity must be greater than 0 for product %s", productID), nil)
	e.Details = map[string]interface{}{"product_id": productID.String(), "quantity": quantity}
	return e
}

func DuplicateLineItem(productID uuid.UUID) *Error {
	e := New(http.StatusBadRequest, KindDuplicateLineItem,
		fmt.Sprintf("Product %s appears more than once in the batch; combine the quantities", productID), nil)
	e.Details = map[string]interface{}{"product_id": productID.String()}
	return e
}

func OrderNotPending(orderID uuid.UUID, status string) *Error {
	e := New(http.StatusConflict, KindOrderNotPending,
		fmt.Sprintf("Cannot add items to %s orders", status), nil)
	e.Details = map[string]interface{}{"order_id": orderID.String(), "status": status}
	return e
}

func AlreadyCompleted(orderID uuid.UUID) *Error {
	e := New(http.StatusConflict, KindAlreadyCompleted, "Order is already completed", nil)
	e.Details = map[string]interface{}{"order_id": orderID.String()}
	return e
}

func AlreadyCancelled(orderID uuid.UUID) *Error {
	e := New(http.StatusConflict, KindAlreadyCancelled, "Order is already cancelled", nil)
	e.Details = map[string]interface{}{"order_id": orderID.String()}
	return e
}

func InvalidTransition(orderID uuid.UUID, from, to string) *Error {
	e := New(http.StatusConflict, KindInvalidTransition,
		fmt.Sprintf("Cannot move a %s order to %s", from, to), nil)
	e.Details = map[string]interface{}{"order_id": orderID.String(), "from": from, "to": to}
	return e
}

func OrderNotFound(orderID uuid.UUID) *Error {
	e := New(http.StatusNotFound, KindOrderNotFound, fmt.Sprintf("Order %s not found", orderID), nil)
	e.Details = map[string]interface{}{"order_id": orderID.String()}
	return e
}

func NotFound(resource string) *Error {
	return New(http.StatusNotFound, KindNotFound, resource+" not found", nil)
}

func Validation(message string) *Error {
	return New(http.StatusBadRequest, KindValidation, message, nil)
}

func Conflict(message string, err error) *Error {
	return New(http.StatusConflict, KindConflict, message, err)
}

func Transient(err error) *Error {
	return New(http.StatusServiceUnavailable, KindTransient, "Temporary storage failure, please retry", err)
}

func Internal(message string, err error) *Error {
	return New(http.StatusInternalServerError, KindInternal, message, err)
}

// From returns err as an *Error, wrapping unknown errors as internal errors.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("Internal server error", err)
}
