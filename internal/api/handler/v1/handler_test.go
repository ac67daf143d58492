package v1

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/questevent/questevent-api/internal/api/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestRouter mounts h at method/path behind a stub that authenticates userID.
// A zero userID leaves the request unauthenticated.
func newTestRouter(userID uint, method, path string, h gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Handle(method, path, func(ctx *gin.Context) {
		if userID != 0 {
			ctx.Set(middleware.ContextKeyUserID, userID)
		}
		ctx.Next()
	}, h)

	return router
}

func serve(router *gin.Engine, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	router.ServeHTTP(rec, req)

	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body
}
