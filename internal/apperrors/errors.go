// Package apperrors holds the sentinel errors used to classify failures
// across the surveillance core (spec.md §6.4, §7). It follows the teacher's
// own idiom, repeated in cmd/bd/errors.go, internal/rpc/errors.go, and
// internal/storage/sqlite/errors.go: package-level `errors.New` sentinels,
// classified with errors.Is and wrapped with fmt.Errorf("%w", ...) rather
// than a bespoke structured exception type.
package apperrors

import (
	"errors"
	"fmt"
)

// Sentinels, one per spec.md §6.4/§7 failure category. Each is wrapped
// around a message and (where one exists) a cause via New/Wrap, the same
// shape as sqlite.wrapDBError wrapping sql.ErrNoRows into ErrNotFound.
var (
	// ErrConfigInvalid is spec.md's E_CONFIG_INVALID: configuration failed
	// schema or arithmetic validation. Fatal, raised at startup.
	ErrConfigInvalid = errors.New("configuration invalid")
	// ErrModelUnknown is spec.md's E_MODEL_UNKNOWN: the requested typology
	// is not registered, or a typology's Bayesian network failed to build.
	ErrModelUnknown = errors.New("model unknown or failed to construct")
	// ErrEvidenceOutOfRange is spec.md's E_EVIDENCE_OUT_OF_RANGE: a mapper
	// produced a state outside its node's declared domain.
	ErrEvidenceOutOfRange = errors.New("evidence out of range")
	// ErrInferenceInstability is spec.md's E_INFERENCE_INSTABILITY: variable
	// elimination produced a factor sum outside tolerance.
	ErrInferenceInstability = errors.New("inference numerically unstable")
	// ErrInference is a non-instability inference-time failure (e.g. a
	// malformed CPT key encountered during elimination).
	ErrInference = errors.New("inference failed")
	// ErrValidation marks malformed caller input.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks a lookup of an unregistered name.
	ErrNotFound = errors.New("not found")
	// ErrInternal marks a violated invariant that should be unreachable.
	ErrInternal = errors.New("internal error")
)

// New classifies a fresh error under sentinel, the same shape as
// sqlite.wrapDBError's fmt.Errorf("%s: %w", op, ErrNotFound).
func New(sentinel error, message string) error {
	return fmt.Errorf("%s: %w", message, sentinel)
}

// Newf is New with a formatted message.
func Newf(sentinel error, format string, args ...any) error {
	return New(sentinel, fmt.Sprintf(format, args...))
}

// Wrap classifies cause under sentinel while keeping cause visible to
// errors.Is/errors.As, using Go's multiple-%w support so both the
// classification and the original error survive unwrapping.
func Wrap(cause error, sentinel error, message string) error {
	return fmt.Errorf("%s: %w: %w", message, sentinel, cause)
}

// Wrapf is Wrap with a formatted message.
func Wrapf(cause error, sentinel error, format string, args ...any) error {
	return Wrap(cause, sentinel, fmt.Sprintf(format, args...))
}

// Chain joins a list of errors, dropping nils, into one error via the
// stdlib errors.Join, used by internal/config/config.go's validate() to
// accumulate every document's validation failures instead of stopping at
// the first.
func Chain(errs ...error) error {
	return errors.Join(errs...)
}
