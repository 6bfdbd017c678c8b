package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrapAndIsCode(t *testing.T) {
	cause := errors.New("connection refused")
	err := Unavailable("failed to load stations", cause)

	require.True(t, IsCode(err, CodeDataUnavailable))
	require.False(t, IsCode(err, CodeNotFound))
	require.ErrorIs(t, err, cause)
	require.Equal(t, "failed to load stations: connection refused", err.Error())

	wrapped := fmt.Errorf("handler: %w", err)
	require.Equal(t, CodeDataUnavailable, CodeOf(wrapped))
	require.Equal(t, "", CodeOf(cause))
}

func TestWrapWithoutCause(t *testing.T) {
	err := Wrap(CodeConflict, "maintenance order already exists", nil)
	require.Equal(t, "maintenance order already exists", err.Error())
	require.True(t, IsCode(err, CodeConflict))
	require.True(t, IsCode(NotFound("station not found"), CodeNotFound))
	require.True(t, IsCode(InvalidInput("bad"), CodeInvalidInput))
}
