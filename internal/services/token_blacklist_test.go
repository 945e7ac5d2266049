package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/crt-backend/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRedis answers SET and GET in process through a go-redis hook, so no server is dialed.
type fakeRedis struct {
	mu    sync.Mutex
	data  map[string]string
	ttls  map[string]time.Duration
	calls []string
	down  error
}

func newFakeRedis(t *testing.T) (*fakeRedis, *redis.Client) {
	t.Helper()
	f := &fakeRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
	rdb := redis.NewClient(&redis.Options{Addr: "redis.invalid:6379"})
	rdb.AddHook(f)
	t.Cleanup(func() { _ = rdb.Close() })
	return f, rdb
}

func (f *fakeRedis) DialHook(next redis.DialHook) redis.DialHook { return next }

func (f *fakeRedis) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func (f *fakeRedis) ProcessHook(_ redis.ProcessHook) redis.ProcessHook {
	return func(_ context.Context, cmd redis.Cmder) error {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.calls = append(f.calls, cmd.Name())
		if f.down != nil {
			return f.down
		}

		args := cmd.Args()
		switch cmd.Name() {
		case "set":
			key := fmt.Sprint(args[1])
			f.data[key] = fmt.Sprint(args[2])
			f.ttls[key] = expiryArg(args)
			cmd.(*redis.StatusCmd).SetVal("OK")
			return nil
		case "get":
			v, ok := f.data[fmt.Sprint(args[1])]
			if !ok {
				return redis.Nil
			}
			cmd.(*redis.StringCmd).SetVal(v)
			return nil
		}
		return fmt.Errorf("unexpected command %q", cmd.Name())
	}
}

func expiryArg(args []interface{}) time.Duration {
	if len(args) < 5 {
		return 0
	}
	n, _ := args[4].(int64)
	switch args[3] {
	case "px":
		return time.Duration(n) * time.Millisecond
	case "ex":
		return time.Duration(n) * time.Second
	}
	return 0
}

func TestRedisBlacklist_RevokeThenIsRevoked(t *testing.T) {
	fake, rdb := newFakeRedis(t)
	bl := NewTokenBlacklist(rdb)
	require.NotNil(t, bl)
	ctx := context.Background()

	require.NoError(t, bl.Revoke(ctx, "jti-1", time.Now().Add(time.Hour)))

	ttl, ok := fake.ttls["crt:revoked:jti-1"]
	require.True(t, ok, "revoked token is stored under the blacklist prefix")
	assert.Greater(t, ttl, 59*time.Minute)
	assert.LessOrEqual(t, ttl, time.Hour)

	revoked, err := bl.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = bl.IsRevoked(ctx, "jti-unknown")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRedisBlacklist_ExpiredTokenIsNotStored(t *testing.T) {
	fake, rdb := newFakeRedis(t)
	bl := NewTokenBlacklist(rdb)

	require.NoError(t, bl.Revoke(context.Background(), "jti-old", time.Now().Add(-time.Minute)))
	assert.Empty(t, fake.calls)
}

func TestRedisBlacklist_Outage(t *testing.T) {
	fake, rdb := newFakeRedis(t)
	fake.down = errors.New("connection refused")
	bl := NewTokenBlacklist(rdb)
	ctx := context.Background()

	revoked, err := bl.IsRevoked(ctx, "jti-1")
	assert.Error(t, err)
	assert.False(t, revoked)

	assert.Error(t, bl.Revoke(ctx, "jti-1", time.Now().Add(time.Hour)))
}

func TestLogout_RevokesThroughRedis(t *testing.T) {
	db := newTestDB(t)
	_, rdb := newFakeRedis(t)
	svc := NewAuthService(db, testConfig(), NewTokenBlacklist(rdb))
	ctx := context.Background()
	user := seedUser(t, db, "Sam", "sam@campus.edu", models.RoleStudent, "")
	token, err := svc.IssueToken(&user)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, token))

	_, err = svc.VerifyToken(ctx, token)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestLogout_BlacklistOutageStillSucceeds(t *testing.T) {
	db := newTestDB(t)
	fake, rdb := newFakeRedis(t)
	fake.down = errors.New("connection refused")
	svc := NewAuthService(db, testConfig(), NewTokenBlacklist(rdb))
	user := seedUser(t, db, "Sam", "sam@campus.edu", models.RoleStudent, "")
	token, err := svc.IssueToken(&user)
	require.NoError(t, err)

	assert.NoError(t, svc.Logout(context.Background(), token))
	assert.Equal(t, []string{"set"}, fake.calls)
}
