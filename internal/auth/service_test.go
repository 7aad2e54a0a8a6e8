package auth

import (
	"context"
	"testing"
	"time"

	"task-marketplace-api/internal/domain"
	"task-marketplace-api/internal/store"
	"task-marketplace-api/internal/testutil"

	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) *Service {
	t.Helper()
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	return NewService(store.New(db, nil), NewTokens("secret", "iss", "aud", time.Hour))
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, " alice ", "correct-horse")
	require.NoError(t, err)
	require.Equal(t, "alice", reg.Profile.Username)
	require.NotEqual(t, "correct-horse", reg.Profile.PasswordHash)

	claims, err := svc.Tokens().Validate(reg.Token)
	require.NoError(t, err)
	require.Equal(t, reg.Profile.ID, claims.UserID)

	login, err := svc.Login(ctx, "alice", "correct-horse")
	require.NoError(t, err)
	require.Equal(t, reg.Profile.ID, login.Profile.ID)

	_, err = svc.Login(ctx, "alice", "wrong-password")
	require.True(t, domain.IsReason(err, domain.ReasonInvalidCredentials))
	_, err = svc.Login(ctx, "nobody", "correct-horse")
	require.True(t, domain.IsReason(err, domain.ReasonInvalidCredentials))
}

func TestRegister_Refusals(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "correct-horse")
	require.True(t, domain.IsReason(err, domain.ReasonInvalidInput))
	_, err = svc.Register(ctx, "bob", "123")
	require.True(t, domain.IsReason(err, domain.ReasonInvalidInput))

	_, err = svc.Register(ctx, "bob", "correct-horse")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "bob", "another-pass")
	require.True(t, domain.IsReason(err, domain.ReasonUsernameTaken))
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	require.True(t, CheckPassword(hash, "s3cret"))
	require.False(t, CheckPassword(hash, "nope"))
}
