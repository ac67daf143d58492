package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/questevent/questevent-api/internal/pkg/jwthelper"
)

const testSigningKey = "0123456789abcdef0123"

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/me", NewAuthenticator(testSigningKey).VerifyJWT(), func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"user_id": ctx.GetUint(ContextKeyUserID)})
	})

	return router
}

func TestVerifyJWT(t *testing.T) {
	valid, err := jwthelper.GenerateToken([]byte(testSigningKey), 42, "test", time.Hour)
	require.NoError(t, err)

	expired, err := jwthelper.GenerateToken([]byte(testSigningKey), 42, "test", -time.Hour)
	require.NoError(t, err)

	foreign, err := jwthelper.GenerateToken([]byte("another-signing-key-entirely"), 42, "test", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "valid token", header: "Bearer " + valid, wantStatus: http.StatusOK},
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic " + valid, wantStatus: http.StatusUnauthorized},
		{name: "empty token", header: "Bearer ", wantStatus: http.StatusUnauthorized},
		{name: "expired", header: "Bearer " + expired, wantStatus: http.StatusUnauthorized},
		{name: "signed with another key", header: "Bearer " + foreign, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			newAuthRouter().ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.JSONEq(t, `{"user_id":42}`, rec.Body.String())
			}
		})
	}
}
