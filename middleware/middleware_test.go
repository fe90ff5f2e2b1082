package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/missionboard/config"
	"github.com/cppla/missionboard/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
	config.Set(config.AppConfig{JWTSecret: "middleware-secret"})
}

func authRouter() *gin.Engine {
	r := gin.New()
	r.GET("/me", AuthRequired(), func(ctx *gin.Context) {
		id, ok := UserID(ctx)
		if !ok {
			ctx.Status(http.StatusInternalServerError)
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"id": id})
	})
	return r
}

func get(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAuthRequired(t *testing.T) {
	r := authRouter()
	token, err := utils.GenerateToken(7, time.Hour)
	require.NoError(t, err)

	rec := get(r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":7}`, rec.Body.String())

	cases := map[string]string{
		"missing":   "",
		"no scheme": token,
		"empty":     "Bearer ",
		"garbage":   "Bearer abc.def.ghi",
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, http.StatusUnauthorized, get(r, header).Code)
		})
	}
}

func TestAuthRejectsExpiredAndRevokedTokens(t *testing.T) {
	r := authRouter()

	expired, err := utils.GenerateToken(7, -time.Minute)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, get(r, "Bearer "+expired).Code)

	revoked, err := utils.GenerateToken(8, time.Hour)
	require.NoError(t, err)
	utils.BlacklistToken(context.Background(), revoked, time.Now().Add(time.Hour))
	assert.Equal(t, http.StatusUnauthorized, get(r, "Bearer "+revoked).Code)
}

func TestRateLimit(t *testing.T) {
	r := gin.New()
	r.GET("/me", RateLimitMiddleware(2), func(ctx *gin.Context) { ctx.Status(http.StatusNoContent) })

	// perMinute 2 gives a burst of 1
	assert.Equal(t, http.StatusNoContent, get(r, "").Code)
	rec := get(r, "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "42901")
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/me", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, ctx.GetString(utils.ContextRequestIDKey))
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Body.String())
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))

	rec = get(r, "")
	assert.Len(t, rec.Body.String(), 36)
}
