package apperr

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errSample = New(KindDuplicate, "duplicate_sample", "sample already exists")

func TestErrorIsMatchesCode(t *testing.T) {
	err := fmt.Errorf("add sample: %w", errSample.WithField("name"))

	assert.ErrorIs(t, err, errSample)
	assert.ErrorIs(t, err, &Error{Kind: KindDuplicate})
	assert.NotErrorIs(t, err, New(KindDuplicate, "other_code", ""))
	assert.Equal(t, KindDuplicate, KindOf(err))
	assert.True(t, IsKind(err, KindDuplicate))
	assert.False(t, IsKind(nil, KindDuplicate))
}

func TestIncompleteCarriesStep(t *testing.T) {
	err := Incomplete("bank_account")
	assert.Equal(t, KindOnboardingIncomplete, err.Kind)
	assert.Equal(t, "bank_account", err.MissingStep)
	assert.Contains(t, err.Error(), "bank_account")
}

func TestRetryOnConflict(t *testing.T) {
	ctx := context.Background()

	t.Run("retries once then succeeds", func(t *testing.T) {
		calls := 0
		err := RetryOnConflict(ctx, func(context.Context) error {
			calls++
			if calls == 1 {
				return fmt.Errorf("save: %w", ErrConflict)
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("persistent conflict surfaces", func(t *testing.T) {
		calls := 0
		err := RetryOnConflict(ctx, func(context.Context) error {
			calls++
			return ErrConflict
		})
		require.Error(t, err)
		assert.Equal(t, 2, calls)
		assert.True(t, IsKind(err, KindConflict))
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("other errors are not retried", func(t *testing.T) {
		calls := 0
		boom := errors.New("io failure")
		err := RetryOnConflict(ctx, func(context.Context) error {
			calls++
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 1, calls)
	})
}

type samplePayload struct {
	FirstName string `json:"firstName" validate:"required"`
	Email     string `json:"email" validate:"omitempty,email"`
	Kind      string `json:"kind" validate:"omitempty,oneof=A B"`
}

func TestValidatePayload(t *testing.T) {
	err := ValidatePayload(samplePayload{})
	require.Error(t, err)
	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, KindValidation, e.Kind)
	assert.Equal(t, "firstName", e.Field)
	assert.Equal(t, "First Name is required", e.Message)

	err = ValidatePayload(samplePayload{FirstName: "Ada", Email: "nope"})
	require.True(t, errors.As(err, &e))
	assert.Equal(t, "email", e.Field)

	assert.NoError(t, ValidatePayload(samplePayload{FirstName: "Ada", Email: "ada@example.com", Kind: "A"}))
}
