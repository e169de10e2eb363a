package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/station-directory/internal/pkg/errors"
)

func TestAppError_Clones(t *testing.T) {
	t.Run("WithDetails keeps the sentinel intact", func(t *testing.T) {
		err := errors.ErrValidation.WithDetails(map[string]interface{}{"name": "required"})

		assert.Equal(t, "required", err.Details["name"])
		assert.Empty(t, errors.ErrValidation.Details)
		assert.True(t, stderrors.Is(err, errors.ErrValidation))
	})

	t.Run("WithCause wraps and unwraps", func(t *testing.T) {
		cause := fmt.Errorf("connection refused")
		err := errors.ErrRead.WithCause(cause)

		assert.True(t, stderrors.Is(err, errors.ErrRead))
		assert.Equal(t, cause, stderrors.Unwrap(err))
		require.NoError(t, errors.ErrRead.Unwrap())
	})

	t.Run("different codes do not match", func(t *testing.T) {
		assert.False(t, stderrors.Is(errors.ErrRead, errors.ErrWrite))
		assert.False(t, stderrors.Is(errors.ErrTimeout, errors.ErrValidation))
	})

	t.Run("status codes map to http", func(t *testing.T) {
		assert.Equal(t, 400, errors.ErrValidation.StatusCode)
		assert.Equal(t, 404, errors.ErrStationNotFound.StatusCode)
		assert.Equal(t, 401, errors.ErrUnauthorized.StatusCode)
		assert.Equal(t, 504, errors.ErrTimeout.StatusCode)
		assert.Equal(t, 502, errors.ErrRead.StatusCode)
	})
}
