package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"bizpilot-ledger/pkg/jwt"

	"go.uber.org/zap"
)

// MinPhoneDigits is the only check the mock login performs
const MinPhoneDigits = 8

var ErrInvalidPhone = errors.New("please enter a valid phone number")

type AuthService interface {
	Login(phone string) (*LoginResponse, error)
	ValidateToken(tokenString string) (*jwt.Claims, error)
}

type LoginResponse struct {
	Token     string    `json:"token"`
	Phone     string    `json:"phone"`
	ExpiresAt time.Time `json:"expires_at"`
}

type authService struct {
	signer *jwt.Signer
	logger *zap.Logger
}

func NewAuthService(signer *jwt.Signer, logger *zap.Logger) AuthService {
	return &authService{signer: signer, logger: logger.Named("auth")}
}

// Login accepts any phone number with enough digits. There is no account
// lookup; the token only marks the session as logged in.
func (s *authService) Login(phone string) (*LoginResponse, error) {
	normalized := digitsOf(phone)
	if len(normalized) < MinPhoneDigits {
		return nil, ErrInvalidPhone
	}

	token, err := s.signer.GenerateToken(normalized)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	claims, err := s.signer.ValidateToken(token)
	if err != nil {
		return nil, fmt.Errorf("read back token: %w", err)
	}

	s.logger.Info("session opened", zap.String("session_id", claims.SessionID))
	return &LoginResponse{
		Token:     token,
		Phone:     normalized,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (s *authService) ValidateToken(tokenString string) (*jwt.Claims, error) {
	return s.signer.ValidateToken(tokenString)
}

func digitsOf(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
