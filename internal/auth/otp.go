package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	otpTTL      = 5 * time.Minute
	verifiedTTL = 15 * time.Minute
)

var ErrInvalidOTP = errors.New("invalid otp")

// OTPStore keeps one-time codes for the password reset flow. A code lives
// for five minutes; a successful verification marks the email verified for
// fifteen, which is the window in which the password may be reset.
type OTPStore struct {
	client redis.Cmdable
}

func NewOTPStore(client redis.Cmdable) *OTPStore {
	return &OTPStore{client: client}
}

// GenerateCode returns a random six-digit code.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func (s *OTPStore) Save(ctx context.Context, email, code string) error {
	return s.client.Set(ctx, otpKey(email), code, otpTTL).Err()
}

// Verify consumes the stored code and marks the email verified on match.
func (s *OTPStore) Verify(ctx context.Context, email, code string) error {
	stored, err := s.client.Get(ctx, otpKey(email)).Result()
	if err == redis.Nil {
		return ErrInvalidOTP
	}
	if err != nil {
		return err
	}
	if stored != code {
		return ErrInvalidOTP
	}

	if err := s.client.Set(ctx, verifiedKey(email), email, verifiedTTL).Err(); err != nil {
		return err
	}
	return s.client.Del(ctx, otpKey(email)).Err()
}

// IsVerified reports whether the email passed OTP verification recently.
func (s *OTPStore) IsVerified(ctx context.Context, email string) (bool, error) {
	_, err := s.client.Get(ctx, verifiedKey(email)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Clear drops all reset state for the email after a successful reset.
func (s *OTPStore) Clear(ctx context.Context, email string) error {
	return s.client.Del(ctx, otpKey(email), verifiedKey(email)).Err()
}

func otpKey(email string) string {
	return "otp:" + email
}

func verifiedKey(email string) string {
	return "verified:" + email
}
