package apperrors

import "errors"

// ErrNotFound indicates that a referenced account (or other resource) does not exist.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInvalidAmount indicates a malformed or non-positive monetary amount.
var ErrInvalidAmount = errors.New("invalid amount")

// ErrInsufficientFunds indicates a withdrawal or transfer exceeding the available balance.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrSameAccount indicates a transfer where source and destination are the same account.
var ErrSameAccount = errors.New("cannot transfer to the same account")

// ErrCrossOwnerTransfer indicates a transfer between accounts of different owners.
var ErrCrossOwnerTransfer = errors.New("cross-owner transfer not allowed")

// ErrTransferFailed indicates that the storage layer failed to commit an otherwise
// valid ledger operation (constraint violation, lock timeout). Retrying is the caller's call.
var ErrTransferFailed = errors.New("transfer failed")

// ErrForbidden indicates the caller is not allowed to operate on the resource.
var ErrForbidden = errors.New("forbidden")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")
