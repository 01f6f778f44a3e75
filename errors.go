package smtgo

import (
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/smtgo/internal/feature"
	"github.com/hupe1980/smtgo/model"
)

var (
	// ErrNotReady is returned when the engine is not in the Ready state.
	ErrNotReady = errors.New("engine not ready")

	// ErrInitialization is matched by *InitializationError.
	ErrInitialization = errors.New("initialization failed")

	// ErrUnknownFeature is matched by *UnknownFeatureError.
	ErrUnknownFeature = errors.New("unknown feature")

	// ErrWeightArity is matched by *WeightArityError.
	ErrWeightArity = errors.New("weight arity mismatch")

	// ErrSessionInvalid is matched by *SessionInvalidError.
	ErrSessionInvalid = errors.New("invalid session")

	// ErrEmptyInput is returned for empty or whitespace-only source text.
	ErrEmptyInput = errors.New("empty input")

	// ErrDecodingFailed is matched by *DecodingFailedError.
	ErrDecodingFailed = errors.New("decoding failed")

	// ErrInvalidNBest is returned when the requested n-best size is negative.
	ErrInvalidNBest = errors.New("nbest must not be negative")

	// ErrInvalidHints is returned for negative decoding hints.
	ErrInvalidHints = errors.New("invalid decoding hints")
)

// InitializationError reports a model that could not be loaded.
//
// The original underlying error can be accessed via errors.Unwrap.
type InitializationError struct {
	Path  string
	cause error
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("initialize from %q: %v", e.Path, e.cause)
}

// Is reports whether target is ErrInitialization.
func (e *InitializationError) Is(target error) bool { return target == ErrInitialization }

func (e *InitializationError) Unwrap() error { return e.cause }

// UnknownFeatureError reports a feature name that is not registered.
type UnknownFeatureError struct {
	Feature string
}

func (e *UnknownFeatureError) Error() string {
	return fmt.Sprintf("unknown feature %q", e.Feature)
}

// Is reports whether target is ErrUnknownFeature.
func (e *UnknownFeatureError) Is(target error) bool { return target == ErrUnknownFeature }

// WeightArityError reports a weight vector of the wrong length.
type WeightArityError struct {
	Feature  string
	Expected int
	Actual   int
}

func (e *WeightArityError) Error() string {
	return fmt.Sprintf("feature %q: expected %d weights, got %d", e.Feature, e.Expected, e.Actual)
}

// Is reports whether target is ErrWeightArity.
func (e *WeightArityError) Is(target error) bool { return target == ErrWeightArity }

// SessionInvalidError reports a session id that is not live.
type SessionInvalidError struct {
	Session model.SessionID
}

func (e *SessionInvalidError) Error() string {
	return fmt.Sprintf("session %s is not live", e.Session)
}

// Is reports whether target is ErrSessionInvalid.
func (e *SessionInvalidError) Is(target error) bool { return target == ErrSessionInvalid }

// DecodingFailedError reports a search that produced no usable hypothesis.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type DecodingFailedError struct {
	Reason string
	cause  error
}

func (e *DecodingFailedError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("decoding failed: %s: %v", e.Reason, e.cause)
	}
	return "decoding failed: " + e.Reason
}

// Is reports whether target is ErrDecodingFailed.
func (e *DecodingFailedError) Is(target error) bool { return target == ErrDecodingFailed }

func (e *DecodingFailedError) Unwrap() error { return e.cause }

// ErrorCode is a stable classification of engine errors, suitable for
// crossing process or language boundaries.
type ErrorCode int

// Error codes returned by Code.
const (
	CodeOK ErrorCode = iota
	CodeNotReady
	CodeInitialization
	CodeUnknownFeature
	CodeWeightArity
	CodeSessionInvalid
	CodeEmptyInput
	CodeDecodingFailed
	CodeInvalidArgument
	CodeCanceled
	CodeInternal
)

var codeNames = [...]string{
	CodeOK:              "ok",
	CodeNotReady:        "not_ready",
	CodeInitialization:  "initialization",
	CodeUnknownFeature:  "unknown_feature",
	CodeWeightArity:     "weight_arity",
	CodeSessionInvalid:  "session_invalid",
	CodeEmptyInput:      "empty_input",
	CodeDecodingFailed:  "decoding_failed",
	CodeInvalidArgument: "invalid_argument",
	CodeCanceled:        "canceled",
	CodeInternal:        "internal",
}

func (c ErrorCode) String() string {
	if c < 0 || int(c) >= len(codeNames) {
		return fmt.Sprintf("ErrorCode(%d)", int(c))
	}
	return codeNames[c]
}

// Code classifies an error returned by the engine. Errors matching both
// ErrNotReady and ErrSessionInvalid classify as CodeNotReady.
func Code(err error) ErrorCode {
	switch {
	case err == nil:
		return CodeOK
	case errors.Is(err, ErrNotReady):
		return CodeNotReady
	case errors.Is(err, ErrInitialization):
		return CodeInitialization
	case errors.Is(err, ErrUnknownFeature):
		return CodeUnknownFeature
	case errors.Is(err, ErrWeightArity):
		return CodeWeightArity
	case errors.Is(err, ErrSessionInvalid):
		return CodeSessionInvalid
	case errors.Is(err, ErrEmptyInput):
		return CodeEmptyInput
	case errors.Is(err, ErrDecodingFailed):
		return CodeDecodingFailed
	case errors.Is(err, ErrInvalidNBest), errors.Is(err, ErrInvalidHints):
		return CodeInvalidArgument
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return CodeCanceled
	default:
		return CodeInternal
	}
}

// translateError maps internal validation errors onto the public taxonomy.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var ue *feature.UnknownError
	if errors.As(err, &ue) {
		return &UnknownFeatureError{Feature: ue.Name}
	}
	var ae *feature.ArityError
	if errors.As(err, &ae) {
		return &WeightArityError{Feature: ae.Name, Expected: ae.Expected, Actual: ae.Actual}
	}

	return err
}
