package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/jwhitfield/fairway/internal/models"
	"github.com/jwhitfield/fairway/internal/repository"
)

var (
	// ErrInvalidCredentials covers bad email/password pairs and
	// unverifiable stored secrets; the caller gets no detail.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrRateLimited is returned when an email exceeds its login
	// budget.
	ErrRateLimited = errors.New("too many login attempts")

	// ErrPasswordTooShort rejects passwords under MinPasswordLength.
	ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters", MinPasswordLength)

	// ErrInvalidHandicapIndex rejects indexes outside the WHS range.
	ErrInvalidHandicapIndex = errors.New("handicap index out of WHS range")
)

// Claims are the JWT claims carried in session tokens.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// AuthService handles login, credential migration, and player profile
// updates. Login attempts are rate limited per email address.
type AuthService struct {
	users     repository.UserRepository
	jwtSecret string
	tokenTTL  time.Duration
	logger    *logrus.Logger

	mu        sync.Mutex
	limiters  map[string]*rate.Limiter
	rateLimit rate.Limit
	burst     int
}

func NewAuthService(users repository.UserRepository, jwtSecret string, tokenTTL time.Duration, ratePerMinute, burst int, logger *logrus.Logger) *AuthService {
	return &AuthService{
		users:     users,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		logger:    logger,
		limiters:  make(map[string]*rate.Limiter),
		rateLimit: rate.Every(time.Minute / time.Duration(ratePerMinute)),
		burst:     burst,
	}
}

// Login verifies the password against the stored credential and issues
// a session token. Legacy plaintext credentials are upgraded to bcrypt
// on the spot; a failed upgrade is logged but does not fail the login.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !s.allow(email) {
		return "", nil, ErrRateLimited
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	ok, needsRehash, err := verifyCredential(user.PasswordHash, password)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", user.ID).Warn("Credential verification failed")
		return "", nil, ErrInvalidCredentials
	}
	if !ok {
		return "", nil, ErrInvalidCredentials
	}

	if needsRehash {
		if hash, err := hashPassword(password); err == nil {
			user.PasswordHash = hash
			if err := s.users.Save(ctx, user); err != nil {
				s.logger.WithError(err).WithField("user_id", user.ID).Warn("Failed to persist credential upgrade")
			} else {
				s.logger.WithField("user_id", user.ID).Info("Upgraded legacy credential")
			}
		}
	}

	token, err := s.issueToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return token, user, nil
}

// Activate sets the first password on an account that still carries a
// legacy credential, then issues a session token.
func (s *AuthService) Activate(ctx context.Context, email, password string) (string, *models.User, error) {
	if len(password) < MinPasswordLength {
		return "", nil, ErrPasswordTooShort
	}

	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", nil, err
	}
	if classifyCredential(user.PasswordHash) != schemeLegacy {
		return "", nil, fmt.Errorf("account already activated: %w", models.ErrUnauthorized)
	}

	hash, err := hashPassword(password)
	if err != nil {
		return "", nil, err
	}
	user.PasswordHash = hash
	if err := s.users.Save(ctx, user); err != nil {
		return "", nil, err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return token, user, nil
}

// GetUser returns a user by id.
func (s *AuthService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.users.FindByID(ctx, id)
}

// UpdateHandicapIndex sets or clears the player's current handicap
// index. Existing rounds keep their frozen snapshots.
func (s *AuthService) UpdateHandicapIndex(ctx context.Context, userID uuid.UUID, index *float64) (*models.User, error) {
	if index != nil && !models.ValidHandicapIndex(*index) {
		return nil, ErrInvalidHandicapIndex
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.HandicapIndex = index
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) issueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: user.ID.String(),
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *AuthService) allow(email string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	limiter, ok := s.limiters[email]
	if !ok {
		limiter = rate.NewLimiter(s.rateLimit, s.burst)
		s.limiters[email] = limiter
	}
	return limiter.Allow()
}
