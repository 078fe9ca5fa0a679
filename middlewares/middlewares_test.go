package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/restaurant-ops/utils"
)

var secret = []byte("middleware-secret")

func init() {
	gin.SetMode(gin.TestMode)
}

func whoami(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"employee_id": c.GetUint(EmployeeIDKey),
		"company_id":  c.GetUint(CompanyIDKey),
		"role":        c.GetString(RoleKey),
	})
}

func token(t *testing.T, role string) string {
	t.Helper()
	tok, err := utils.GenerateToken(secret, 10, 1, role, time.Hour)
	require.NoError(t, err)
	return tok
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := gin.New()
	r.GET("/me", AuthMiddleware(secret), whoami)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", token(t, "waiter"))
	assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer nope")
	assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, "waiter"))
	w := serve(r, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"employee_id":10,"company_id":1,"role":"waiter"}`, w.Body.String())
}

func TestWebSocketAuthMiddleware(t *testing.T) {
	r := gin.New()
	r.GET("/ws", WebSocketAuthMiddleware(secret), whoami)

	assert.Equal(t, http.StatusUnauthorized, serve(r, httptest.NewRequest(http.MethodGet, "/ws", nil)).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, httptest.NewRequest(http.MethodGet, "/ws?token=bad", nil)).Code)
	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/ws?token="+token(t, "chef"), nil)).Code)
}

func TestRequireRole(t *testing.T) {
	r := gin.New()
	r.POST("/cash", AuthMiddleware(secret), RequireRole("cashier"), whoami)

	for role, want := range map[string]int{
		"cashier": http.StatusOK,
		"admin":   http.StatusOK,
		"waiter":  http.StatusForbidden,
	} {
		req := httptest.NewRequest(http.MethodPost, "/cash", nil)
		req.Header.Set("Authorization", "Bearer "+token(t, role))
		assert.Equal(t, want, serve(r, req).Code, role)
	}

	bare := gin.New()
	bare.POST("/cash", RequireRole("cashier"), whoami)
	assert.Equal(t, http.StatusUnauthorized, serve(bare, httptest.NewRequest(http.MethodPost, "/cash", nil)).Code)
}

func TestRateLimiterPerClient(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	r := gin.New()
	r.Use(rl.RateLimit())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	from := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = ip + ":1234"
		return serve(r, req).Code
	}

	assert.Equal(t, http.StatusOK, from("10.0.0.1"))
	assert.Equal(t, http.StatusOK, from("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, from("10.0.0.1"))
	assert.Equal(t, http.StatusOK, from("10.0.0.2"))
}

func TestCORSAndSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders(), CORSMiddlewares("http://pos.local"))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://pos.local")
	w := serve(r, req)
	assert.Equal(t, "http://pos.local", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://evil.local")
	assert.Empty(t, serve(r, req).Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/ping", nil)
	assert.Equal(t, http.StatusNoContent, serve(r, req).Code)
}
