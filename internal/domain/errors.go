package domain

import (
	"errors"
	"fmt"
)

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	ErrMsgNotFound          = "not found"
	ErrMsgValidation        = "validation failed"
	ErrMsgConflict          = "conflict"
	ErrMsgTransientStore    = "transient store error"
	ErrMsgInvariant         = "invariant violation"
	ErrMsgConcurrentUpdate  = "row changed concurrently"
	ErrMsgUnknownSweep      = "unknown sweep"
	ErrMsgSchedulerStopped  = "scheduler stopped"
	ErrMsgTxClosed          = "tx is closed"
	ErrMsgInvalidOwnerID    = "owner id must be a uuid"
	ErrMsgFieldOutOfBounds  = "field index out of bounds"
	ErrMsgSlotOutOfBounds   = "exhibit slot out of bounds"
	ErrMsgNotASeed          = "asset is not a seed"
	ErrMsgNotACreature      = "asset is not a creature"
	ErrMsgInvalidQuantity   = "quantity must be positive"
	ErrMsgSelfLike          = "owners cannot like their own creatures"
	ErrMsgNotOwner          = "creature belongs to another owner"
	ErrMsgCreatureNotOnShow = "creature is not exhibited"
)

// Common domain errors
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	ErrNotFound         = errors.New(ErrMsgNotFound)
	ErrValidation       = errors.New(ErrMsgValidation)
	ErrConflict         = errors.New(ErrMsgConflict)
	ErrTransientStore   = errors.New(ErrMsgTransientStore)
	ErrInvariant        = errors.New(ErrMsgInvariant)
	ErrConcurrentUpdate = errors.New(ErrMsgConcurrentUpdate)
	ErrUnknownSweep     = errors.New(ErrMsgUnknownSweep)
	ErrSchedulerStopped = errors.New(ErrMsgSchedulerStopped)
)

// ConflictReason is the structured reason attached to a ConflictError
type ConflictReason string

const (
	ReasonSlotOccupied          ConflictReason = "slot_occupied"
	ReasonNothingToCollect      ConflictReason = "nothing_to_collect"
	ReasonAlreadyCollected      ConflictReason = "already_collected"
	ReasonInsufficientInventory ConflictReason = "insufficient_inventory"
	ReasonNotSellable           ConflictReason = "not_sellable"
	ReasonNotHarvestable        ConflictReason = "not_harvestable"
	ReasonAlreadyLiked          ConflictReason = "already_liked"
)

// ValidationError reports a malformed owner, field or asset reference.
// It is surfaced to the caller and never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrMsgValidation, e.Field, e.Reason)
}

// Is lets errors.Is match ErrValidation
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError creates a ValidationError
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// ConflictError is a structured no-op failure (slot occupied, already collected, ...)
type ConflictError struct {
	Reason ConflictReason
	Detail string
}

func (e *ConflictError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %s", ErrMsgConflict, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrMsgConflict, e.Reason, e.Detail)
}

// Is lets errors.Is match ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// NewConflictError creates a ConflictError
func NewConflictError(reason ConflictReason, detail string) *ConflictError {
	return &ConflictError{Reason: reason, Detail: detail}
}

// ConflictReasonOf extracts the structured reason from err, if any
func ConflictReasonOf(err error) (ConflictReason, bool) {
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce.Reason, true
	}
	return "", false
}

// TransientStoreError wraps a store failure that is retried on the next sweep cycle
type TransientStoreError struct {
	Op  string
	Err error
}

func (e *TransientStoreError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrMsgTransientStore, e.Op, e.Err)
}

// Is lets errors.Is match ErrTransientStore
func (e *TransientStoreError) Is(target error) bool {
	return target == ErrTransientStore
}

func (e *TransientStoreError) Unwrap() error {
	return e.Err
}

// NewTransientStoreError wraps err as transient. Domain errors pass through unchanged.
func NewTransientStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrValidation) || errors.Is(err, ErrConflict) || errors.Is(err, ErrInvariant) ||
		errors.Is(err, ErrNotFound) || errors.Is(err, ErrConcurrentUpdate) || errors.Is(err, ErrTransientStore) {
		return err
	}
	return &TransientStoreError{Op: op, Err: err}
}

// InvariantViolation is logged and repaired in place, never propagated upward
type InvariantViolation struct {
	Entity string
	ID     int64
	Detail string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("%s: %s %d: %s", ErrMsgInvariant, e.Entity, e.ID, e.Detail)
}

// Is lets errors.Is match ErrInvariant
func (e *InvariantViolation) Is(target error) bool {
	return target == ErrInvariant
}
