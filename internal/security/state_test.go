package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndValidateState(t *testing.T) {
	key := DeriveStateKey("test-secret")

	signed, err := SignState("some-state-value", key)
	require.NoError(t, err)

	payload, err := ValidateState(signed, key, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "some-state-value", payload)
}

func TestValidateStateRejectsTampering(t *testing.T) {
	key := DeriveStateKey("test-secret")

	signed, err := SignState("some-state-value", key)
	require.NoError(t, err)

	_, err = ValidateState(signed+"x", key, time.Minute)
	assert.Error(t, err)

	_, err = ValidateState("garbage", key, time.Minute)
	assert.Error(t, err)
}

func TestValidateStateRejectsWrongKey(t *testing.T) {
	signed, err := SignState("value", DeriveStateKey("secret-a"))
	require.NoError(t, err)

	_, err = ValidateState(signed, DeriveStateKey("secret-b"), time.Minute)
	assert.Error(t, err)
}

func TestValidateStateRejectsExpired(t *testing.T) {
	key := DeriveStateKey("test-secret")

	signed, err := SignState("value", key)
	require.NoError(t, err)

	_, err = ValidateState(signed, key, -time.Second)
	assert.Error(t, err)
}

func TestGenerateRandomStringLengthAndUniqueness(t *testing.T) {
	a, err := GenerateRandomString(32)
	require.NoError(t, err)
	b, err := GenerateRandomString(32)
	require.NoError(t, err)

	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}
