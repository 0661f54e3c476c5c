package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/griesmnr/flash-cards/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func sessionEcho(cfg config.Config) *gin.Engine {
	r := gin.New()
	r.Use(RequestLogger(zap.NewNop()), RequireSession(cfg))
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(SessionKey))
	})
	return r
}

func TestRequireSession_IssuesCookie(t *testing.T) {
	r := sessionEcho(config.Config{AppEnv: "production", SessionTTL: time.Hour})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookie, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
	assert.Equal(t, cookies[0].Value, w.Body.String())
	_, err := uuid.Parse(w.Body.String())
	assert.NoError(t, err)
}

func TestRequireSession_ReusesValidCookie(t *testing.T) {
	r := sessionEcho(config.Config{AppEnv: "development", SessionTTL: time.Hour})
	id := uuid.NewString()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: id})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, id, w.Body.String())
	assert.Empty(t, w.Result().Cookies())
}

func TestRequireSession_ReplacesMalformedCookie(t *testing.T) {
	r := sessionEcho(config.Config{AppEnv: "development", SessionTTL: time.Hour})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "../../etc"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.NotEqual(t, "../../etc", w.Body.String())
	assert.Len(t, w.Result().Cookies(), 1)
}

func TestDevCORS(t *testing.T) {
	r := gin.New()
	r.Use(DevCORS(config.Config{AppEnv: "development"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestIsLoopbackOrigin(t *testing.T) {
	assert.True(t, IsLoopbackOrigin("http://127.0.0.1:3000"))
	assert.True(t, IsLoopbackOrigin("https://[::1]:8443"))
	assert.False(t, IsLoopbackOrigin("http://localhost.evil.example"))
	assert.False(t, IsLoopbackOrigin("ftp://localhost"))
}
