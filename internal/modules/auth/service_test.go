package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"resortbooking/internal/domain"
	"resortbooking/internal/modules/session"
	"resortbooking/internal/pkg/jwt"
	applog "resortbooking/internal/pkg/logger"
	"resortbooking/internal/repository"
)

func setupService(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:auth_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.New(sqlite.Config{DriverName: "sqlite", DSN: dsn}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}))
	return NewService(repository.NewUserRepository(db), jwt.New("test-secret", time.Hour), applog.Discard())
}

func TestSignUpAndSignIn(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	sess, err := svc.SignUp(ctx, SignUpRequest{Email: " Guest@Resort.test ", Password: "secret1", Name: "Aigerim"})
	require.NoError(t, err)
	assert.Equal(t, "guest@resort.test", sess.User.Email)
	assert.Equal(t, domain.RoleGuest, sess.User.Role)
	assert.Empty(t, sess.User.PasswordHash)
	assert.NotEmpty(t, sess.Token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), sess.ExpiresAt, 5*time.Second)

	signed, err := svc.SignIn(ctx, "guest@resort.test", "secret1")
	require.NoError(t, err)
	assert.Equal(t, sess.User.ID, signed.User.ID)

	_, err = svc.SignIn(ctx, "guest@resort.test", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.SignIn(ctx, "nobody@resort.test", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignUpFaults(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, SignUpRequest{Email: "not-an-email", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = svc.SignUp(ctx, SignUpRequest{Email: "a@resort.test", Password: "12345"})
	assert.ErrorIs(t, err, ErrWeakPassword)

	_, err = svc.SignUp(ctx, SignUpRequest{Email: "a@resort.test", Password: "123456"})
	require.NoError(t, err)
	_, err = svc.SignUp(ctx, SignUpRequest{Email: "A@resort.test", Password: "123456"})
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestVerifyAndCurrentUser(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	sess, err := svc.SignUp(ctx, SignUpRequest{Email: "guest@resort.test", Password: "secret1", Name: "Aigerim"})
	require.NoError(t, err)

	cred, err := svc.Verify(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, sess.User.ID, cred.Identity.UserID)
	assert.NotEmpty(t, cred.TokenID)
	assert.False(t, cred.ExpiresAt.IsZero())

	user, err := svc.CurrentUser(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, "Aigerim", user.Name)
	assert.Empty(t, user.PasswordHash)

	_, err = svc.Verify(ctx, "garbage")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestSignOutNotifiesSubscribers(t *testing.T) {
	svc := setupService(t)

	var got []session.Change
	unsubscribe := svc.OnAuthStateChange(func(ch session.Change) { got = append(got, ch) })

	prev := session.State{Status: session.Authenticated, Identity: domain.Identity{UserID: "u1"}, TokenID: "t1"}
	svc.SignOut(context.Background(), "client-1", prev)
	require.Len(t, got, 1)
	assert.Equal(t, "client-1", got[0].ClientKey)
	assert.Equal(t, prev, got[0].Previous)
	assert.False(t, got[0].Current.IsAuthenticated())

	unsubscribe()
	svc.SignOut(context.Background(), "client-1", prev)
	assert.Len(t, got, 1)
}

func TestSignOutRevokesThroughGate(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	gate := session.NewGate(svc, applog.Discard())
	svc.OnAuthStateChange(gate.HandleChange)

	sess, err := svc.SignUp(ctx, SignUpRequest{Email: "guest@resort.test", Password: "secret1"})
	require.NoError(t, err)

	st, err := gate.Authenticate(ctx, sess.Token)
	require.NoError(t, err)
	require.True(t, st.IsAuthenticated())

	svc.SignOut(ctx, "client-1", st)
	_, err = gate.Authenticate(ctx, sess.Token)
	assert.ErrorIs(t, err, session.ErrRevoked)
}

type mockVerifier struct {
	mock.Mock
}

func (m *mockVerifier) Verify(ctx context.Context, token string) (*session.Credential, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Credential), args.Error(1)
}

func TestExternalVerifier(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	v := new(mockVerifier)
	svc.UseVerifier(v)

	v.On("Verify", mock.Anything, "fb-token").Return(&session.Credential{
		Identity: domain.Identity{UserID: "fb-uid", Email: "fb@resort.test", Role: domain.RoleGuest},
		TokenID:  "fb-uid:1",
	}, nil)
	v.On("Verify", mock.Anything, "bad").Return(nil, ErrUnauthorized)

	user, err := svc.CurrentUser(ctx, "fb-token")
	require.NoError(t, err)
	assert.Equal(t, "fb-uid", user.ID)
	assert.Equal(t, "fb@resort.test", user.Email)

	_, err = svc.CurrentUser(ctx, "bad")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.SignUp(ctx, SignUpRequest{Email: "a@resort.test", Password: "secret1"})
	assert.ErrorIs(t, err, ErrExternalProvider)
	v.AssertExpectations(t)
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "Wrong e-mail or password", UserMessage(ErrInvalidCredentials))
	assert.Equal(t, "Password must be at least 6 characters", UserMessage(fmt.Errorf("signup: %w", ErrWeakPassword)))
	assert.Equal(t, "Something went wrong, please try again", UserMessage(errors.New("network down")))
}
