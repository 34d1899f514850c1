package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jwhitfield/fairway/internal/models"
)

// MockUserRepository for testing
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func newAuthServiceUnderTest(users *MockUserRepository) *AuthService {
	return NewAuthService(users, "test-secret", time.Hour, 60, 30, logrus.New())
}

func TestClassifyCredential(t *testing.T) {
	tests := []struct {
		name     string
		stored   string
		expected credentialScheme
	}{
		{name: "bcrypt 2a", stored: "$2a$10$abcdefghijklmnopqrstuv", expected: schemeBcrypt},
		{name: "bcrypt 2b", stored: "$2b$12$abcdefghijklmnopqrstuv", expected: schemeBcrypt},
		{name: "legacy plaintext", stored: "hunter2-secret", expected: schemeLegacy},
		{name: "unknown scheme fails closed", stored: "$argon2id$v=19$m=65536", expected: schemeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, classifyCredential(tt.stored))
		})
	}
}

func TestVerifyCredential(t *testing.T) {
	hash, err := hashPassword("correct-horse-battery")
	require.NoError(t, err)

	t.Run("bcrypt match", func(t *testing.T) {
		ok, needsRehash, err := verifyCredential(hash, "correct-horse-battery")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.False(t, needsRehash)
	})

	t.Run("bcrypt mismatch", func(t *testing.T) {
		ok, _, err := verifyCredential(hash, "wrong")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("legacy match flags rehash", func(t *testing.T) {
		ok, needsRehash, err := verifyCredential("plaintext-pin", "plaintext-pin")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.True(t, needsRehash)
	})

	t.Run("unknown scheme is an error", func(t *testing.T) {
		_, _, err := verifyCredential("$scrypt$n=16384$...", "anything")
		assert.ErrorIs(t, err, errUnknownCredentialScheme)
	})
}

func TestLogin_UpgradesLegacyCredential(t *testing.T) {
	users := new(MockUserRepository)
	svc := newAuthServiceUnderTest(users)

	user := &models.User{ID: uuid.New(), Email: "pat@example.com", PasswordHash: "legacy-pass"}
	users.On("FindByEmail", mock.Anything, "pat@example.com").Return(user, nil)
	users.On("Save", mock.Anything, user).Return(nil)

	token, got, err := svc.Login(context.Background(), "Pat@Example.com", "legacy-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, got.ID)

	// The stored credential must now be bcrypt, verifiable with the
	// same password.
	assert.Equal(t, schemeBcrypt, classifyCredential(user.PasswordHash))
	ok, needsRehash, err := verifyCredential(user.PasswordHash, "legacy-pass")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, needsRehash)
	users.AssertExpectations(t)
}

func TestLogin_BcryptCredentialNotRewritten(t *testing.T) {
	users := new(MockUserRepository)
	svc := newAuthServiceUnderTest(users)

	hash, err := hashPassword("secret-password")
	require.NoError(t, err)
	user := &models.User{ID: uuid.New(), Email: "pat@example.com", PasswordHash: hash}
	users.On("FindByEmail", mock.Anything, "pat@example.com").Return(user, nil)

	token, _, err := svc.Login(context.Background(), "pat@example.com", "secret-password")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	users.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)

	// Token must carry the user id and be verifiable with the secret.
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, user.ID.String(), claims.UserID)
}

func TestLogin_WrongPassword(t *testing.T) {
	users := new(MockUserRepository)
	svc := newAuthServiceUnderTest(users)

	hash, err := hashPassword("secret-password")
	require.NoError(t, err)
	user := &models.User{ID: uuid.New(), Email: "pat@example.com", PasswordHash: hash}
	users.On("FindByEmail", mock.Anything, "pat@example.com").Return(user, nil)

	_, _, err = svc.Login(context.Background(), "pat@example.com", "nope")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmailIndistinguishable(t *testing.T) {
	users := new(MockUserRepository)
	svc := newAuthServiceUnderTest(users)

	users.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, models.ErrNotFound)

	_, _, err := svc.Login(context.Background(), "ghost@example.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_RateLimited(t *testing.T) {
	users := new(MockUserRepository)
	svc := NewAuthService(users, "test-secret", time.Hour, 1, 2, logrus.New())

	hash, err := hashPassword("secret-password")
	require.NoError(t, err)
	user := &models.User{ID: uuid.New(), Email: "pat@example.com", PasswordHash: hash}
	users.On("FindByEmail", mock.Anything, "pat@example.com").Return(user, nil)

	for i := 0; i < 2; i++ {
		_, _, err := svc.Login(context.Background(), "pat@example.com", "nope")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}
	_, _, err = svc.Login(context.Background(), "pat@example.com", "nope")
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestActivate(t *testing.T) {
	users := new(MockUserRepository)
	svc := newAuthServiceUnderTest(users)

	t.Run("rejects short password", func(t *testing.T) {
		_, _, err := svc.Activate(context.Background(), "pat@example.com", "short")
		assert.ErrorIs(t, err, ErrPasswordTooShort)
	})

	t.Run("sets first password on legacy account", func(t *testing.T) {
		user := &models.User{ID: uuid.New(), Email: "pat@example.com", PasswordHash: "1234"}
		users.On("FindByEmail", mock.Anything, "pat@example.com").Return(user, nil).Once()
		users.On("Save", mock.Anything, user).Return(nil).Once()

		token, _, err := svc.Activate(context.Background(), "pat@example.com", "long-enough-pass")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, schemeBcrypt, classifyCredential(user.PasswordHash))
	})

	t.Run("rejects already activated account", func(t *testing.T) {
		hash, err := hashPassword("existing-password")
		require.NoError(t, err)
		user := &models.User{ID: uuid.New(), Email: "pat@example.com", PasswordHash: hash}
		users.On("FindByEmail", mock.Anything, "pat@example.com").Return(user, nil).Once()

		_, _, err = svc.Activate(context.Background(), "pat@example.com", "another-password")
		assert.ErrorIs(t, err, models.ErrUnauthorized)
	})
}

func TestUpdateHandicapIndex(t *testing.T) {
	users := new(MockUserRepository)
	svc := newAuthServiceUnderTest(users)

	userID := uuid.New()
	user := &models.User{ID: userID, Email: "pat@example.com", PasswordHash: "x"}

	t.Run("rejects out-of-range index", func(t *testing.T) {
		bad := 60.0
		_, err := svc.UpdateHandicapIndex(context.Background(), userID, &bad)
		assert.ErrorIs(t, err, ErrInvalidHandicapIndex)
	})

	t.Run("stores valid index", func(t *testing.T) {
		users.On("FindByID", mock.Anything, userID).Return(user, nil).Once()
		users.On("Save", mock.Anything, user).Return(nil).Once()

		hi := 12.3
		got, err := svc.UpdateHandicapIndex(context.Background(), userID, &hi)
		require.NoError(t, err)
		require.NotNil(t, got.HandicapIndex)
		assert.Equal(t, 12.3, *got.HandicapIndex)
	})
}
