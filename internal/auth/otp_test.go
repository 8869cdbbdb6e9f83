package auth

import (
	"context"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		code, err := GenerateCode()
		require.NoError(t, err)
		assert.Len(t, code, 6)
		seen[code] = true
	}
	// Twenty draws from a million values should not all collide.
	assert.Greater(t, len(seen), 1)
}

func TestOTPSave(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewOTPStore(client)

	mock.ExpectSet("otp:user@example.com", "123456", otpTTL).SetVal("OK")

	err := store.Save(context.Background(), "user@example.com", "123456")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOTPVerify(t *testing.T) {
	t.Run("Matching code marks email verified and consumes code", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		store := NewOTPStore(client)

		mock.ExpectGet("otp:user@example.com").SetVal("123456")
		mock.ExpectSet("verified:user@example.com", "user@example.com", verifiedTTL).SetVal("OK")
		mock.ExpectDel("otp:user@example.com").SetVal(1)

		err := store.Verify(context.Background(), "user@example.com", "123456")
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Wrong code", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		store := NewOTPStore(client)

		mock.ExpectGet("otp:user@example.com").SetVal("123456")

		err := store.Verify(context.Background(), "user@example.com", "999999")
		assert.Equal(t, ErrInvalidOTP, err)
	})

	t.Run("No code stored", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		store := NewOTPStore(client)

		mock.ExpectGet("otp:user@example.com").RedisNil()

		err := store.Verify(context.Background(), "user@example.com", "123456")
		assert.Equal(t, ErrInvalidOTP, err)
	})
}

func TestOTPIsVerified(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewOTPStore(client)

	mock.ExpectGet("verified:user@example.com").SetVal("user@example.com")
	mock.ExpectGet("verified:other@example.com").RedisNil()

	ok, err := store.IsVerified(context.Background(), "user@example.com")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.IsVerified(context.Background(), "other@example.com")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOTPClear(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewOTPStore(client)

	mock.ExpectDel("otp:user@example.com", "verified:user@example.com").SetVal(2)

	err := store.Clear(context.Background(), "user@example.com")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
