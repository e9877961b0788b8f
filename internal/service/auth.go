package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"musafir/internal/cache"
	apperrors "musafir/internal/errors"
	"musafir/internal/logger"
	"musafir/internal/models"
	"musafir/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// OTPSender delivers a one-time code to the user. Email delivery is out of
// scope, so the default sender just logs the code.
type OTPSender interface {
	Send(ctx context.Context, email, code string) error
}

type logOTPSender struct{}

func (logOTPSender) Send(ctx context.Context, email, code string) error {
	logger.WithContext(ctx).Info("OTP issued", "email", email, "code", code)
	return nil
}

type AuthService struct {
	userRepo  *repository.UserRepository
	cache     *cache.Client
	otpSender OTPSender
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewAuthService(userRepo *repository.UserRepository, cacheClient *cache.Client, cfg AuthConfig) *AuthService {
	ttl := cfg.TokenTTL
	if ttl == 0 {
		ttl = 24 * time.Hour
	}

	return &AuthService{
		userRepo:  userRepo,
		cache:     cacheClient,
		otpSender: logOTPSender{},
		jwtSecret: []byte(cfg.JWTSecret),
		tokenTTL:  ttl,
	}
}

// SetOTPSender swaps the code delivery mechanism.
func (s *AuthService) SetOTPSender(sender OTPSender) {
	s.otpSender = sender
}

func (s *AuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, apperrors.NewValidation("email", "already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		Phone:        strings.TrimSpace(req.Phone),
		PasswordHash: string(hash),
		Role:         models.RoleUser,
		IsActive:     true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.issueToken(user)
}

func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, apperrors.ErrUnauthorized
	}
	if !user.IsActive {
		return nil, apperrors.ErrForbidden
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperrors.ErrUnauthorized
	}

	if err := s.userRepo.TouchLastLogin(ctx, user.ID, time.Now()); err != nil {
		logger.WithContext(ctx).Warn("Failed to record login time", "error", err, "user_id", user.ID)
	}

	return s.issueToken(user)
}

func (s *AuthService) issueToken(user *models.User) (*models.AuthResponse, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role,
		"exp":     time.Now().Add(s.tokenTTL).Unix(),
	})

	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &models.AuthResponse{Token: signed, User: user}, nil
}

// SendOTP issues a reset code for an existing account. To avoid disclosing
// which emails are registered, unknown addresses succeed quietly.
func (s *AuthService) SendOTP(ctx context.Context, req *models.SendOTPRequest) error {
	// The OTP store lives in Redis; without it the reset flow cannot work.
	if s.cache == nil {
		return apperrors.ErrUnavailable
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil
	}

	code, err := s.cache.IssueOTP(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to issue OTP: %w", err)
	}

	if err := s.otpSender.Send(ctx, email, code); err != nil {
		return fmt.Errorf("failed to send OTP: %w", err)
	}
	return nil
}

func (s *AuthService) VerifyOTP(ctx context.Context, req *models.VerifyOTPRequest) error {
	if s.cache == nil {
		return apperrors.ErrUnavailable
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	ok, err := s.cache.VerifyOTP(ctx, email, req.Code)
	if err != nil {
		return fmt.Errorf("failed to verify OTP: %w", err)
	}
	if !ok {
		return apperrors.NewValidation("code", "invalid or expired")
	}
	return nil
}

// ResetPassword requires a previously verified OTP; the marker is consumed so
// a code resets at most one password.
func (s *AuthService) ResetPassword(ctx context.Context, req *models.ResetPasswordRequest) error {
	if s.cache == nil {
		return apperrors.ErrUnavailable
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	ok, err := s.cache.ConsumeVerifiedOTP(ctx, email, req.Code)
	if err != nil {
		return fmt.Errorf("failed to check OTP: %w", err)
	}
	if !ok {
		return apperrors.NewValidation("code", "invalid or expired")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return apperrors.ErrNotFound
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.userRepo.UpdatePassword(ctx, user.ID, string(hash))
}
