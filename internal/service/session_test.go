package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wareflow/internal/cache"
	"wareflow/internal/model"
	"wareflow/internal/service"
)

func newSessionService(t *testing.T, ttl time.Duration) *service.SessionService {
	t.Helper()
	c := cache.NewMemoryCache()
	t.Cleanup(c.Stop)
	return service.NewSessionService(c, ttl)
}

func Test_Session_CreateAndValidate(t *testing.T) {
	sessions := newSessionService(t, time.Hour)
	ctx := context.Background()

	token, err := sessions.Create(ctx, "alice", model.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(token, service.TokenPrefix))

	data, err := sessions.Validate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "alice", data.Username)
	assert.Equal(t, model.RoleAdmin, data.Role)
}

func Test_Session_TokensAreUnique(t *testing.T) {
	sessions := newSessionService(t, time.Hour)
	ctx := context.Background()

	first, err := sessions.Create(ctx, "alice", model.RoleUser)
	require.NoError(t, err)
	second, err := sessions.Create(ctx, "alice", model.RoleUser)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func Test_Session_RejectsMalformedToken(t *testing.T) {
	sessions := newSessionService(t, time.Hour)

	_, err := sessions.Validate(context.Background(), "not-a-session-token")
	assert.Error(t, err)
}

func Test_Session_RevokedTokenNoLongerValidates(t *testing.T) {
	sessions := newSessionService(t, time.Hour)
	ctx := context.Background()

	token, err := sessions.Create(ctx, "alice", model.RoleUser)
	require.NoError(t, err)

	require.NoError(t, sessions.Revoke(ctx, token))

	_, err = sessions.Validate(ctx, token)
	assert.Error(t, err)
}

func Test_Session_ExpiredTokenRejected(t *testing.T) {
	sessions := newSessionService(t, -time.Second)
	ctx := context.Background()

	token, err := sessions.Create(ctx, "alice", model.RoleUser)
	require.NoError(t, err)

	_, err = sessions.Validate(ctx, token)
	assert.Error(t, err)
}
