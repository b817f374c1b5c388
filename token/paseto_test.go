package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPasetoMaker(t *testing.T) {
	maker, err := NewPasetoMaker("YELLOW SUBMARINE, BLACK WIZARDRY")
	require.NoError(t, err)

	token, payload, err := maker.CreateToken("judge", time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotEmpty(t, payload)

	got, err := maker.VerifyToken(token)
	require.NoError(t, err)

	require.Equal(t, payload.ID, got.ID)
	require.Equal(t, "judge", got.Username)
	require.WithinDuration(t, payload.ExpiredAt, got.ExpiredAt, time.Second)
}

func TestExpiredPasetoToken(t *testing.T) {
	maker, err := NewPasetoMaker("YELLOW SUBMARINE, BLACK WIZARDRY")
	require.NoError(t, err)

	token, _, err := maker.CreateToken("judge", -time.Minute)
	require.NoError(t, err)

	payload, err := maker.VerifyToken(token)
	require.ErrorIs(t, err, ErrExpiredToken)
	require.Nil(t, payload)
}

func TestInvalidKeySize(t *testing.T) {
	_, err := NewPasetoMaker("too short")
	require.Error(t, err)
}
