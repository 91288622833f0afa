package types

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoreError(t *testing.T) {
	assert.Nil(t, NewStoreError("noop", nil))

	err := NewStoreError("insert artist", sql.ErrConnDone)
	assert.ErrorIs(t, err, ErrStore)
	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.Contains(t, err.Error(), "insert artist")

	wrapped := fmt.Errorf("resolve album: %w", err)
	var se *StoreError
	assert.True(t, errors.As(wrapped, &se))
	assert.Equal(t, "insert artist", se.Op)
	assert.NotErrorIs(t, wrapped, ErrInvalidContext)
}

func TestIsInvalidRequest(t *testing.T) {
	for _, err := range []error{
		ErrInvalidContext, ErrInvalidName, ErrUnknownItemType, ErrInvalidScore,
		ErrInvalidUser, ErrInvalidID, ErrForbidden, ErrNotFound,
	} {
		assert.True(t, IsInvalidRequest(fmt.Errorf("wrapped: %w", err)), err.Error())
	}
	assert.False(t, IsInvalidRequest(NewStoreError("read", sql.ErrConnDone)))
	assert.False(t, IsInvalidRequest(nil))
}
