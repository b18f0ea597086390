package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestService_RegisterLoginAndRefresh(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(Config{
		Secret:          "test-secret",
		TokenTTL:        time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
	}, repo, newTestLogger())

	resp, err := svc.Register(context.Background(), RegisterRequest{
		Email:       "User@Example.com",
		Password:    "pass1234",
		DisplayName: "Dana",
	})
	require.NoError(t, err)
	require.Equal(t, "user@example.com", resp.User.Email)
	require.Equal(t, "Dana", resp.User.DisplayName)
	require.False(t, resp.User.Onboarded)
	require.NotEmpty(t, resp.Token)
	require.NotZero(t, resp.User.ID)

	login, err := svc.Login(context.Background(), LoginRequest{
		Email:    "user@example.com",
		Password: "pass1234",
	})
	require.NoError(t, err)
	require.NotEmpty(t, login.Token)
	require.NotEmpty(t, login.RefreshToken)
	require.Equal(t, resp.User.Email, login.User.Email)

	claims, err := svc.ValidateToken(context.Background(), login.Token)
	require.NoError(t, err)
	require.Equal(t, resp.User.ID, claims.UserID)
	require.Equal(t, resp.User.Email, claims.Email)
	require.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, time.Minute)

	refreshed, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, login.User.Email, refreshed.User.Email)
	require.Equal(t, "Dana", refreshed.User.DisplayName)
}

func TestService_RefreshTokenIsNotAnAccessToken(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(Config{
		Secret:          "test-secret",
		TokenTTL:        time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
	}, repo, newTestLogger())

	resp, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "user@example.com",
		Password: "pass1234",
	})
	require.NoError(t, err)

	_, err = svc.ValidateToken(context.Background(), resp.RefreshToken)
	require.Error(t, err)
}

func TestService_DuplicateEmail(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(Config{
		Secret:          "test-secret",
		TokenTTL:        time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
	}, repo, newTestLogger())

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "user@example.com",
		Password: "pass1234",
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), RegisterRequest{
		Email:    "user@example.com",
		Password: "pass12345",
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "already registered")
}

func TestService_PasswordRules(t *testing.T) {
	svc := NewService(Config{
		Secret:          "test-secret",
		TokenTTL:        time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
	}, newMemoryRepo(), newTestLogger())

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "user@example.com",
		Password: "short",
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "at least 6 characters")
}

func TestNormalizeDisplayName(t *testing.T) {
	require.Equal(t, "dana", normalizeDisplayName("", "dana@example.com"))
	require.Equal(t, "Dana Levi", normalizeDisplayName("  Dana Levi  ", "x@example.com"))
	require.Equal(t, "User", normalizeDisplayName("!!!", "!!!@example.com"))
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

type memoryRepo struct {
	users      map[int64]User
	identities map[string]Identity
	seq        int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		users:      make(map[int64]User),
		identities: make(map[string]Identity),
	}
}

func (m *memoryRepo) Create(_ context.Context, email, displayName, passwordHash string) (User, error) {
	for _, user := range m.users {
		if user.Email == email {
			return User{}, ErrEmailExists
		}
	}
	m.seq++
	user := User{
		ID:           m.seq,
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	m.users[user.ID] = user
	return user, nil
}

func (m *memoryRepo) GetByEmail(_ context.Context, email string) (User, bool, error) {
	for _, user := range m.users {
		if user.Email == email {
			return user, true, nil
		}
	}
	return User{}, false, nil
}

func (m *memoryRepo) GetByID(_ context.Context, id int64) (User, bool, error) {
	user, ok := m.users[id]
	return user, ok, nil
}

func (m *memoryRepo) GetIdentity(_ context.Context, provider, subject string) (Identity, bool, error) {
	identity, ok := m.identities[provider+":"+subject]
	return identity, ok, nil
}

func (m *memoryRepo) GetIdentityByUser(_ context.Context, userID int64, provider string) (Identity, bool, error) {
	for _, identity := range m.identities {
		if identity.UserID == userID && identity.Provider == provider {
			return identity, true, nil
		}
	}
	return Identity{}, false, nil
}

func (m *memoryRepo) UpsertIdentity(_ context.Context, identity Identity) (Identity, error) {
	m.identities[identity.Provider+":"+identity.ProviderSubject] = identity
	return identity, nil
}
