package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"hotel_booking/internal/adapters/observability"
	"hotel_booking/internal/domain"
)

type RegisterInput struct {
	Username  string `json:"username" validate:"required,max=150"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	Email     string `json:"email" validate:"omitempty,email,max=254"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
	Age       *int   `json:"age" validate:"omitempty,min=18,max=60"`
}

type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthUser struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// AuthResult is the register/login response: minimal user info plus a
// fresh token pair.
type AuthResult struct {
	User    AuthUser `json:"user"`
	Access  string   `json:"access"`
	Refresh string   `json:"refresh"`
}

type AuthService struct {
	users    domain.UserRepository
	revoked  domain.RevocationStore
	tokens   domain.TokenService
	cache    domain.Cache
	hashCost int
	now      func() time.Time

	// compared against when the username is unknown so both failure paths
	// cost one bcrypt comparison
	dummyHash []byte
}

func NewAuthService(u domain.UserRepository, rv domain.RevocationStore, t domain.TokenService, c domain.Cache) *AuthService {
	s := &AuthService{users: u, revoked: rv, tokens: t, cache: c, now: time.Now}
	return s.WithHashCost(bcrypt.DefaultCost)
}

// WithHashCost sets the bcrypt cost for new passwords.
func (s *AuthService) WithHashCost(cost int) *AuthService {
	s.hashCost = cost
	s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), cost)
	return s
}

func revokedKey(jti string) string { return "revoked:" + jti }

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (AuthResult, error) {
	if err := validateStruct(in); err != nil {
		observability.ObserveAuth("register", false)
		return AuthResult{}, err
	}
	taken, err := s.users.UsernameTaken(ctx, in.Username)
	if err != nil {
		return AuthResult{}, err
	}
	if taken {
		observability.ObserveAuth("register", false)
		ve := domain.NewValidationError("username", "a user with that username already exists")
		ve.Err = domain.ErrConflict
		return AuthResult{}, ve
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return AuthResult{}, fmt.Errorf("hash password: %w", err)
	}
	u := domain.User{
		Username:  in.Username,
		Password:  string(hash),
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Age:       in.Age,
		Role:      domain.RoleClient,
		IsActive:  true,
	}
	id, err := s.users.CreateUser(ctx, u)
	if err != nil {
		// a concurrent register can still lose the unique index race
		observability.ObserveAuth("register", false)
		return AuthResult{}, err
	}

	pair, err := s.tokens.IssuePair(id)
	if err != nil {
		return AuthResult{}, err
	}
	observability.ObserveAuth("register", true)
	log.Info().Int64("user_id", id).Msg("user registered")
	return AuthResult{User: AuthUser{Username: u.Username, Email: u.Email}, Access: pair.Access, Refresh: pair.Refresh}, nil
}

// Login never says which of username or password was wrong.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (AuthResult, error) {
	if in.Username == "" || in.Password == "" {
		observability.ObserveAuth("login", false)
		return AuthResult{}, domain.ErrInvalidCredentials
	}
	u, err := s.users.GetUserByUsername(ctx, in.Username)
	if errors.Is(err, domain.ErrNotFound) {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(in.Password))
		observability.ObserveAuth("login", false)
		return AuthResult{}, domain.ErrInvalidCredentials
	}
	if err != nil {
		return AuthResult{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(in.Password)) != nil || !u.IsActive {
		observability.ObserveAuth("login", false)
		log.Warn().Int64("user_id", u.ID).Msg("login rejected")
		return AuthResult{}, domain.ErrInvalidCredentials
	}

	pair, err := s.tokens.IssuePair(u.ID)
	if err != nil {
		return AuthResult{}, err
	}
	observability.ObserveAuth("login", true)
	return AuthResult{User: AuthUser{Username: u.Username, Email: u.Email}, Access: pair.Access, Refresh: pair.Refresh}, nil
}

// Logout blacklists a refresh token. Any token problem, including a token
// that is already blacklisted, is reported as domain.ErrInvalidToken.
func (s *AuthService) Logout(ctx context.Context, refresh string) error {
	if refresh == "" {
		observability.ObserveAuth("logout", false)
		return domain.ErrInvalidToken
	}
	claims, err := s.tokens.Parse(refresh, domain.TokenRefresh)
	if err != nil {
		observability.ObserveAuth("logout", false)
		return fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	err = s.revoked.RevokeToken(ctx, domain.RevokedToken{
		JTI:       claims.JTI,
		UserID:    claims.UserID,
		TokenType: claims.Type,
		ExpiresAt: claims.ExpiresAt,
	})
	if errors.Is(err, domain.ErrConflict) {
		observability.ObserveAuth("logout", false)
		return fmt.Errorf("%w: already blacklisted", domain.ErrInvalidToken)
	}
	if err != nil {
		return err
	}
	s.mirrorRevocation(ctx, claims)
	observability.ObserveAuth("logout", true)
	log.Info().Int64("user_id", claims.UserID).Msg("refresh token blacklisted")
	return nil
}

// mirrorRevocation copies a durable revocation into the cache until the
// token would have expired anyway. Best effort.
func (s *AuthService) mirrorRevocation(ctx context.Context, c domain.TokenClaims) {
	if s.cache == nil {
		return
	}
	ttl := int(c.ExpiresAt.Sub(s.now()).Seconds()) + 1
	if ttl <= 0 {
		return
	}
	if err := s.cache.Set(ctx, revokedKey(c.JTI), true, ttl); err != nil {
		log.Warn().Err(err).Msg("revocation cache write failed")
	}
}

func (s *AuthService) isRevoked(ctx context.Context, jti string) (bool, error) {
	if s.cache != nil {
		var hit bool
		if ok, err := s.cache.Get(ctx, revokedKey(jti), &hit); err == nil && ok && hit {
			return true, nil
		}
	}
	return s.revoked.IsTokenRevoked(ctx, jti)
}

// Refresh exchanges a refresh token that is not blacklisted for a new
// access token.
func (s *AuthService) Refresh(ctx context.Context, refresh string) (string, error) {
	claims, err := s.tokens.Parse(refresh, domain.TokenRefresh)
	if err != nil {
		observability.ObserveAuth("refresh", false)
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	revoked, err := s.isRevoked(ctx, claims.JTI)
	if err != nil {
		return "", err
	}
	if revoked {
		observability.ObserveAuth("refresh", false)
		return "", fmt.Errorf("%w: blacklisted", domain.ErrInvalidToken)
	}
	access, err := s.tokens.IssueAccess(claims.UserID)
	if err != nil {
		return "", err
	}
	observability.ObserveAuth("refresh", true)
	return access, nil
}

// Authenticate resolves a bearer access token to an active user id.
func (s *AuthService) Authenticate(ctx context.Context, access string) (int64, error) {
	claims, err := s.tokens.Parse(access, domain.TokenAccess)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	u, err := s.users.GetUser(ctx, claims.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return 0, fmt.Errorf("%w: user not found", domain.ErrInvalidToken)
	}
	if err != nil {
		return 0, err
	}
	if !u.IsActive {
		return 0, fmt.Errorf("%w: user is inactive", domain.ErrInvalidToken)
	}
	return u.ID, nil
}

// PurgeExpired drops blacklist rows whose tokens have expired on their own.
func (s *AuthService) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.revoked.PurgeExpiredTokens(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		log.Info().Int64("purged", n).Msg("expired blacklist entries removed")
	}
	return n, nil
}
