package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func sessionRouter(secret string) (*gin.Engine, *[]string) {
	gin.SetMode(gin.TestMode)
	seen := &[]string{}
	r := gin.New()
	r.Use(SessionMiddleware(secret, zap.NewNop()))
	r.GET("/whoami", func(c *gin.Context) {
		sid := GetSessionIDFromContext(c)
		*seen = append(*seen, sid)
		c.JSON(http.StatusOK, gin.H{"session": sid})
	})
	return r, seen
}

func TestSessionMiddlewareMintsGuestSession(t *testing.T) {
	r, seen := sessionRouter("test-secret")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, *seen, 1)
	assert.NotEmpty(t, (*seen)[0])

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, sessionCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
}

func TestSessionMiddlewareReusesValidCookie(t *testing.T) {
	r, seen := sessionRouter("test-secret")

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	cookie := first.Result().Cookies()[0]

	second := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(cookie)
	r.ServeHTTP(second, req)

	require.Len(t, *seen, 2)
	assert.Equal(t, (*seen)[0], (*seen)[1], "the same cookie keys the same session")
}

func TestSessionMiddlewareRejectsForgedCookie(t *testing.T) {
	r, seen := sessionRouter("test-secret")

	// Signed with a different key: the middleware mints a fresh session.
	forged, err := signSession("stolen-session", []byte("other-secret"))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: forged})
	r.ServeHTTP(w, req)

	require.Len(t, *seen, 1)
	assert.NotEqual(t, "stolen-session", (*seen)[0])
}
