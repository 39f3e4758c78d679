package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewULID(t *testing.T) {
	a, b := NewULID(), NewULID()
	assert.Len(t, a, 26)
	assert.NotEqual(t, a, b)
	assert.True(t, IsULID(a))
	assert.False(t, IsULID("not-a-ulid"))
}

func TestNullHelpers(t *testing.T) {
	assert.False(t, StringToNullString("").Valid)
	assert.Equal(t, "x", StringToNullString("x").String)

	assert.False(t, TimePtrToNullTime(nil).Valid)
	assert.Nil(t, NullTimeToPtr(TimePtrToNullTime(nil)))

	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	back := NullTimeToPtr(TimePtrToNullTime(&now))
	require.NotNil(t, back)
	assert.True(t, now.Equal(*back))

	assert.Equal(t, 1, BoolToInt(true))
	assert.Equal(t, 0, BoolToInt(false))
}
