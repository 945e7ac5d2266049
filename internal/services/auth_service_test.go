package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/crt-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/crt-backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryBlacklist is an in-process TokenBlacklist.
type memoryBlacklist struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func newMemoryBlacklist() *memoryBlacklist {
	return &memoryBlacklist{revoked: map[string]time.Time{}}
}

func (b *memoryBlacklist) Revoke(_ context.Context, jti string, expiresAt time.Time) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revoked[jti] = expiresAt
	return nil
}

func (b *memoryBlacklist) IsRevoked(_ context.Context, jti string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.revoked[jti]
	return ok, nil
}

func TestRegisterLoginRoundTrip(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, testConfig(), nil)
	ctx := context.Background()

	registered, err := svc.Register(ctx, &dto.RegisterRequest{
		Name:      "Riya Sharma",
		Email:     "  Riya@Campus.EDU ",
		Password:  "secret1",
		StudentID: "S2024001",
	})
	require.NoError(t, err)
	assert.Equal(t, "riya@campus.edu", registered.User.Email)
	assert.Equal(t, models.RoleStudent, registered.User.Role)

	loggedIn, err := svc.Login(ctx, &dto.LoginRequest{Email: "riya@campus.edu", Password: "secret1"})
	require.NoError(t, err)

	identity, err := svc.VerifyToken(ctx, loggedIn.Token)
	require.NoError(t, err)
	assert.Equal(t, dto.Identity{
		ID:    registered.User.ID,
		Email: "riya@campus.edu",
		Role:  models.RoleStudent,
		Name:  "Riya Sharma",
	}, *identity)
}

func TestLogin_WithStudentID(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, testConfig(), nil)
	ctx := context.Background()
	_, err := svc.Register(ctx, &dto.RegisterRequest{Name: "Riya", Email: "riya@campus.edu", Password: "secret1", StudentID: "S2024001"})
	require.NoError(t, err)

	res, err := svc.Login(ctx, &dto.LoginRequest{Email: "S2024001", Password: "secret1"})

	require.NoError(t, err)
	assert.Equal(t, "riya@campus.edu", res.User.Email)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, testConfig(), nil)
	ctx := context.Background()
	seedUser(t, db, "Walt", "walt@campus.edu", models.RoleWorker, "")

	_, wrongPassword := svc.Login(ctx, &dto.LoginRequest{Email: "walt@campus.edu", Password: "nope"})
	_, unknownUser := svc.Login(ctx, &dto.LoginRequest{Email: "ghost@campus.edu", Password: "password123"})

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, ErrInvalidCredentials)
	assert.Equal(t, KindUnauthorized, KindOf(wrongPassword))
}

func TestRegister_Conflicts(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, testConfig(), nil)
	ctx := context.Background()
	_, err := svc.Register(ctx, &dto.RegisterRequest{Name: "Riya", Email: "riya@campus.edu", Password: "secret1", StudentID: "S1"})
	require.NoError(t, err)

	tests := []struct {
		name string
		req  dto.RegisterRequest
	}{
		{"same email", dto.RegisterRequest{Name: "Other", Email: "RIYA@campus.edu", Password: "secret1"}},
		{"same student id", dto.RegisterRequest{Name: "Other", Email: "other@campus.edu", Password: "secret1", StudentID: "S1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, &tt.req)
			assert.ErrorIs(t, err, ErrEmailTaken)
			assert.Equal(t, KindConflict, KindOf(err))
		})
	}

	_, err = svc.Register(ctx, &dto.RegisterRequest{Name: "No Number", Email: "nonumber@campus.edu", Password: "secret1"})
	assert.NoError(t, err, "students without a student id do not collide with each other")
	_, err = svc.Register(ctx, &dto.RegisterRequest{Name: "No Number 2", Email: "nonumber2@campus.edu", Password: "secret1"})
	assert.NoError(t, err)
}

func TestVerifyToken_ExpiredAndInvalid(t *testing.T) {
	db := newTestDB(t)
	cfg := testConfig()
	svc := NewAuthService(db, cfg, nil)
	ctx := context.Background()
	user := seedUser(t, db, "Walt", "walt@campus.edu", models.RoleWorker, "")

	expiredCfg := *cfg
	expiredCfg.JWTExpiry = -time.Minute
	expired, err := NewAuthService(db, &expiredCfg, nil).IssueToken(&user)
	require.NoError(t, err)

	_, err = svc.VerifyToken(ctx, expired)
	assert.ErrorIs(t, err, ErrTokenExpired)

	otherCfg := *cfg
	otherCfg.JWTSecret = "another-secret"
	forged, err := NewAuthService(db, &otherCfg, nil).IssueToken(&user)
	require.NoError(t, err)

	_, err = svc.VerifyToken(ctx, forged)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = svc.VerifyToken(ctx, "not.a.token")
	assert.ErrorIs(t, err, ErrTokenInvalid)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"id": user.ID})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.VerifyToken(ctx, unsigned)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestLogout_RevokesWithBlacklist(t *testing.T) {
	db := newTestDB(t)
	blacklist := newMemoryBlacklist()
	svc := NewAuthService(db, testConfig(), blacklist)
	ctx := context.Background()
	user := seedUser(t, db, "Walt", "walt@campus.edu", models.RoleWorker, "")
	token, err := svc.IssueToken(&user)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, token))

	_, err = svc.VerifyToken(ctx, token)
	assert.ErrorIs(t, err, ErrTokenRevoked)
	assert.Len(t, blacklist.revoked, 1)

	fresh, err := svc.IssueToken(&user)
	require.NoError(t, err)
	_, err = svc.VerifyToken(ctx, fresh)
	assert.NoError(t, err, "other tokens of the same user stay valid")
}

func TestLogout_WithoutBlacklistIsNoop(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, testConfig(), nil)
	ctx := context.Background()
	user := seedUser(t, db, "Walt", "walt@campus.edu", models.RoleWorker, "")
	token, err := svc.IssueToken(&user)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, token))
	require.NoError(t, svc.Logout(ctx, ""))

	_, err = svc.VerifyToken(ctx, token)
	assert.NoError(t, err)
}

func TestNewTokenBlacklist_NilClient(t *testing.T) {
	assert.Nil(t, NewTokenBlacklist(nil))
}
