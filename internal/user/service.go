package user

import (
	"context"
	"errors"

	"github.com/Nardos-Amakele/TutorSite/internal/auth"
	"github.com/Nardos-Amakele/TutorSite/internal/metrics"
)

var (
	ErrEmailExists        = errors.New("email already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountBanned      = errors.New("account is banned")
	ErrOTPNotVerified     = errors.New("otp not verified")
)

// Mailer is the slice of the email service the account flows need.
type Mailer interface {
	SendOTP(ctx context.Context, to, code string) error
}

type Service interface {
	Register(ctx context.Context, req RegisterRequest, role string) (*User, string, string, error)
	Login(ctx context.Context, req LoginRequest) (*User, string, string, error)
	Logout(ctx context.Context, accessToken, refreshToken string) error
	Refresh(ctx context.Context, refreshToken string) (string, *User, error)
	GetByID(ctx context.Context, userID int) (*User, error)
	UpdateProfile(ctx context.Context, userID int, req UpdateProfileRequest) (*User, error)
	SendOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, code string) error
	ResetPassword(ctx context.Context, email, password string) error
}

type service struct {
	repo          Repository
	blacklist     *auth.Blacklist
	otp           *auth.OTPStore
	mailer        Mailer
	accessSecret  string
	refreshSecret string
}

func NewService(repo Repository, blacklist *auth.Blacklist, otp *auth.OTPStore, mailer Mailer, accessSecret, refreshSecret string) Service {
	return &service{
		repo:          repo,
		blacklist:     blacklist,
		otp:           otp,
		mailer:        mailer,
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
	}
}

// Register creates an account with the given role. Teacher registration goes
// through the teacher service, which also creates the tutor profile.
func (s *service) Register(ctx context.Context, req RegisterRequest, role string) (*User, string, string, error) {
	exists, err := s.repo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, "", "", err
	}
	if exists {
		return nil, "", "", ErrEmailExists
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, "", "", err
	}

	user, err := s.repo.Create(ctx, req.Name, req.Email, passwordHash, role)
	if err != nil {
		return nil, "", "", err
	}

	accessToken, refreshToken, err := auth.GenerateTokens(
		user.ID,
		user.Email,
		user.Role,
		s.accessSecret,
		s.refreshSecret,
	)
	if err != nil {
		return nil, "", "", err
	}

	metrics.RecordRegistration(role)
	return user, accessToken, refreshToken, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*User, string, string, error) {
	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, "", "", ErrInvalidCredentials
	}

	if user.Banned {
		return nil, "", "", ErrAccountBanned
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, "", "", ErrInvalidCredentials
	}

	accessToken, refreshToken, err := auth.GenerateTokens(
		user.ID,
		user.Email,
		user.Role,
		s.accessSecret,
		s.refreshSecret,
	)
	if err != nil {
		return nil, "", "", err
	}

	return user, accessToken, refreshToken, nil
}

func (s *service) Logout(ctx context.Context, accessToken, refreshToken string) error {
	return s.blacklist.AddPair(ctx, accessToken, refreshToken)
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (string, *User, error) {
	revoked, err := s.blacklist.Contains(ctx, refreshToken)
	if err == nil && revoked {
		return "", nil, auth.ErrInvalidToken
	}

	_, claims, err := auth.RefreshAccessToken(refreshToken, s.refreshSecret, s.accessSecret)
	if err != nil {
		return "", nil, err
	}

	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		return "", nil, ErrUserNotFound
	}
	if user.Banned {
		return "", nil, ErrAccountBanned
	}

	newAccessToken, err := auth.GenerateAccessToken(user.ID, user.Email, user.Role, s.accessSecret)
	if err != nil {
		return "", nil, err
	}

	return newAccessToken, user, nil
}

func (s *service) GetByID(ctx context.Context, userID int) (*User, error) {
	return s.repo.FindByID(ctx, userID)
}

func (s *service) UpdateProfile(ctx context.Context, userID int, req UpdateProfileRequest) (*User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Password != nil {
		passwordHash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		if err := s.repo.UpdatePassword(ctx, userID, passwordHash); err != nil {
			return nil, err
		}
	}

	if req.Name != nil {
		user, err = s.repo.UpdateName(ctx, userID, *req.Name)
		if err != nil {
			return nil, err
		}
	}

	return user, nil
}

func (s *service) SendOTP(ctx context.Context, email string) error {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user.Banned {
		return ErrAccountBanned
	}

	code, err := auth.GenerateCode()
	if err != nil {
		return err
	}

	if err := s.otp.Save(ctx, email, code); err != nil {
		return err
	}

	metrics.RecordOTPIssued()
	return s.mailer.SendOTP(ctx, email, code)
}

func (s *service) VerifyOTP(ctx context.Context, email, code string) error {
	return s.otp.Verify(ctx, email, code)
}

// ResetPassword requires a preceding successful OTP verification for the email.
func (s *service) ResetPassword(ctx context.Context, email, password string) error {
	verified, err := s.otp.IsVerified(ctx, email)
	if err != nil {
		return err
	}
	if !verified {
		return ErrOTPNotVerified
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	if err := s.repo.UpdatePassword(ctx, user.ID, passwordHash); err != nil {
		return err
	}

	return s.otp.Clear(ctx, email)
}
