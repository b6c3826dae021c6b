package tokens

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"hotel_booking/internal/domain"
)

var ErrWrongType = errors.New("tokens: wrong token type")

type Claims struct {
	UserID    int64  `json:"user_id"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// Service issues and verifies HS256 access/refresh tokens.
type Service struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func New(secret string, accessTTL, refreshTTL time.Duration) (*Service, error) {
	if secret == "" {
		return nil, fmt.Errorf("JWT secret is required")
	}
	return &Service{secret: []byte(secret), accessTTL: accessTTL, refreshTTL: refreshTTL, now: time.Now}, nil
}

// WithClock replaces the time source; used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) IssuePair(userID int64) (domain.TokenPair, error) {
	refresh, err := s.sign(userID, domain.TokenRefresh, s.refreshTTL)
	if err != nil {
		return domain.TokenPair{}, err
	}
	access, err := s.IssueAccess(userID)
	if err != nil {
		return domain.TokenPair{}, err
	}
	return domain.TokenPair{Access: access, Refresh: refresh}, nil
}

func (s *Service) IssueAccess(userID int64) (string, error) {
	return s.sign(userID, domain.TokenAccess, s.accessTTL)
}

func (s *Service) sign(userID int64, typ string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := Claims{
		UserID:    userID,
		TokenType: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Parse verifies signature, expiry and the expected token type.
func (s *Service) Parse(raw, wantType string) (domain.TokenClaims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return domain.TokenClaims{}, err
	}
	if claims.TokenType != wantType {
		return domain.TokenClaims{}, ErrWrongType
	}
	if claims.ID == "" {
		return domain.TokenClaims{}, fmt.Errorf("tokens: missing jti")
	}
	return domain.TokenClaims{
		JTI:       claims.ID,
		UserID:    claims.UserID,
		Type:      claims.TokenType,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
