package smtgo

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/smtgo/internal/feature"
)

func TestCode(t *testing.T) {
	cause := errors.New("cause")

	tests := []struct {
		err  error
		want ErrorCode
	}{
		{nil, CodeOK},
		{ErrNotReady, CodeNotReady},
		{sessionNotReady(3), CodeNotReady},
		{&InitializationError{Path: "p", cause: cause}, CodeInitialization},
		{&UnknownFeatureError{Feature: "f"}, CodeUnknownFeature},
		{&WeightArityError{Feature: "f", Expected: 1, Actual: 2}, CodeWeightArity},
		{&SessionInvalidError{Session: 1}, CodeSessionInvalid},
		{ErrEmptyInput, CodeEmptyInput},
		{&DecodingFailedError{Reason: "r"}, CodeDecodingFailed},
		{fmt.Errorf("%w: -1", ErrInvalidNBest), CodeInvalidArgument},
		{ErrInvalidHints, CodeInvalidArgument},
		{context.Canceled, CodeCanceled},
		{fmt.Errorf("wrapped: %w", context.DeadlineExceeded), CodeCanceled},
		{cause, CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, Code(tt.err))
		})
	}
}

func TestErrorCode_String(t *testing.T) {
	assert.Equal(t, "session_invalid", CodeSessionInvalid.String())
	assert.Equal(t, "ErrorCode(99)", ErrorCode(99).String())
}

func TestTypedErrors(t *testing.T) {
	cause := errors.New("disk on fire")

	ie := &InitializationError{Path: "m.json", cause: cause}
	assert.ErrorIs(t, ie, ErrInitialization)
	assert.ErrorIs(t, ie, cause)
	assert.Contains(t, ie.Error(), "m.json")

	dfe := &DecodingFailedError{Reason: "search failed", cause: cause}
	assert.ErrorIs(t, dfe, ErrDecodingFailed)
	assert.ErrorIs(t, dfe, cause)
	assert.Equal(t, "decoding failed: no hypotheses", (&DecodingFailedError{Reason: "no hypotheses"}).Error())

	sie := &SessionInvalidError{Session: 7}
	assert.ErrorIs(t, sie, ErrSessionInvalid)
	assert.NotErrorIs(t, sie, ErrNotReady)
}

func TestTranslateError(t *testing.T) {
	assert.Nil(t, translateError(nil))

	err := translateError(fmt.Errorf("layer: %w", &feature.UnknownError{Name: "X"}))
	var ufe *UnknownFeatureError
	assert.ErrorAs(t, err, &ufe)
	assert.Equal(t, "X", ufe.Feature)

	err = translateError(&feature.ArityError{Name: "Y", Expected: 4, Actual: 1})
	var wae *WeightArityError
	assert.ErrorAs(t, err, &wae)
	assert.Equal(t, WeightArityError{Feature: "Y", Expected: 4, Actual: 1}, *wae)

	other := errors.New("other")
	assert.Equal(t, other, translateError(other))
}
