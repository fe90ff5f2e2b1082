package utils

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/missionboard/config"
)

func init() {
	config.Set(config.AppConfig{JWTSecret: "utils-secret"})
	UseMinPasswordCost()
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(12, time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(12), claims.UserID)
	assert.NotEmpty(t, claims.ID)

	other, err := GenerateToken(12, time.Hour)
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}

func TestParseTokenRejects(t *testing.T) {
	expired, err := GenerateToken(1, -time.Second)
	require.NoError(t, err)
	_, err = ParseToken(expired)
	assert.Error(t, err)

	zero, err := GenerateToken(0, time.Hour)
	require.NoError(t, err)
	_, err = ParseToken(zero)
	assert.Error(t, err)

	_, err = ParseToken("not.a.token")
	assert.Error(t, err)
}

func TestPasswords(t *testing.T) {
	hash, err := HashPassword("pass1234")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "pass1234"))
	assert.False(t, CheckPassword(hash, "pass12345"))

	assert.False(t, PasswordLongEnough("abc"))
	assert.True(t, PasswordLongEnough("abcd"))
	assert.True(t, PasswordLongEnough("비밀번호"))
	assert.False(t, PasswordLongEnough("비밀"))
}

func TestCleanNickname(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"  민수 ", "민수", true},
		{"john_doe", "john_doe", true},
		{"", "", false},
		{"   ", "", false},
		{"<script>x</script>", "<script>x</script>", false},
		{"a&b", "a&b", false},
		{strings.Repeat("가", MaxNicknameLength), strings.Repeat("가", MaxNicknameLength), true},
		{strings.Repeat("가", MaxNicknameLength+1), strings.Repeat("가", MaxNicknameLength+1), false},
	}
	for _, tc := range cases {
		got, ok := CleanNickname(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestBlacklistInMemory(t *testing.T) {
	ctx := context.Background()
	assert.False(t, IsTokenBlacklisted(ctx, "tok-a"))

	BlacklistToken(ctx, "tok-a", time.Now().Add(time.Minute))
	assert.True(t, IsTokenBlacklisted(ctx, "tok-a"))

	BlacklistToken(ctx, "tok-b", time.Now().Add(-time.Minute))
	assert.False(t, IsTokenBlacklisted(ctx, "tok-b"))
}

func TestCacheDisabledWithoutRedis(t *testing.T) {
	ctx := context.Background()
	CacheSetJSON(ctx, RankingCachePrefix+"total", map[string]int{"a": 1}, time.Minute)
	_, ok := CacheGetBytes(ctx, RankingCachePrefix+"total")
	assert.False(t, ok)
	InvalidateRankings(ctx)
}

func TestStartScheduler(t *testing.T) {
	c, err := StartScheduler("", "noop", time.Second, func(context.Context) error { return nil })
	require.NoError(t, err)
	assert.Nil(t, c)

	_, err = StartScheduler("bogus cron", "bad", time.Second, func(context.Context) error { return nil })
	assert.Error(t, err)

	ran := make(chan struct{}, 1)
	c, err = StartScheduler("@every 1s", "tick", time.Second, func(context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	})
	require.NoError(t, err)
	defer c.Stop()

	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not run")
	}
}
