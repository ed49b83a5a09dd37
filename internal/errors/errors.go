// Package errors provides centralized error handling for Planwise.
//
// This package defines sentinel errors used for programmatic error categorization
// throughout the application. All error types can be checked using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import "errors"

// Sentinel errors for error categorization.
// These allow callers to check error types with errors.Is().
// All errors use lowercase descriptions per Go conventions.
var (
	// ErrProviderRequest indicates that a provider HTTP call failed or
	// returned a non-2xx status.
	ErrProviderRequest = errors.New("provider request failed")

	// ErrProviderAuth indicates an authentication failure (401/403) from a
	// provider. Never retried.
	ErrProviderAuth = errors.New("provider authentication failed")

	// ErrProviderRateLimited indicates a 429 response from a provider.
	ErrProviderRateLimited = errors.New("provider rate limited")

	// ErrInvalidResponse indicates that a provider reply did not conform to
	// the expected analysis or changes shape. Never retried.
	ErrInvalidResponse = errors.New("invalid provider response")

	// ErrInvalidChange indicates a change failed structural validation
	// (missing required field or unknown action).
	ErrInvalidChange = errors.New("invalid change")

	// ErrTableNotFound indicates a change referenced a table id that does not
	// exist in the workspace.
	ErrTableNotFound = errors.New("table not found")

	// ErrTaskNotFound indicates a change referenced a task id that does not
	// exist in its table.
	ErrTaskNotFound = errors.New("task not found")

	// ErrReorderMismatch indicates a reorder change whose id list is not
	// exactly the set of task ids currently in the table.
	ErrReorderMismatch = errors.New("reorder id set mismatch")

	// ErrUndoWindowExpired indicates an undo was requested after the
	// configured window elapsed. Surfaced to the user, not retried.
	ErrUndoWindowExpired = errors.New("undo window expired")

	// ErrAlreadyUndone indicates the history entry was already reversed.
	ErrAlreadyUndone = errors.New("action already undone")

	// ErrHistoryStore indicates the encrypted history store failed to
	// read or write.
	ErrHistoryStore = errors.New("history store failure")

	// ErrEntryNotFound indicates the requested history entry does not exist.
	ErrEntryNotFound = errors.New("history entry not found")

	// ErrConfigNil indicates that a nil config was passed to validation.
	ErrConfigNil = errors.New("config is nil")

	// ErrConfigInvalid indicates an invalid assist configuration value.
	ErrConfigInvalid = errors.New("invalid configuration")

	// ErrProviderNotFound indicates no client is registered for the
	// configured provider name.
	ErrProviderNotFound = errors.New("provider not found")

	// ErrAssistDisabled indicates the assist pipeline is turned off in
	// configuration.
	ErrAssistDisabled = errors.New("assist is disabled")

	// ErrInvalidOutputFormat indicates an unsupported --output value.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrEmptyValue indicates that a required value was empty.
	ErrEmptyValue = errors.New("value cannot be empty")

	// ErrDecrypt indicates that stored data could not be decrypted,
	// typically because the key is wrong or the blob is corrupted.
	ErrDecrypt = errors.New("decryption failed")
)
