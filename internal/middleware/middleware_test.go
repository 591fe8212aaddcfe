package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/streamflix/internal/logging"
	"github.com/user/streamflix/internal/model"
	"github.com/user/streamflix/internal/service"
)

const testSecret = "test-secret-0123456789"

func init() {
	gin.SetMode(gin.TestMode)
}

type memUsers map[int]*model.User

func (m memUsers) GetUser(_ context.Context, id int) (*model.User, error) {
	if u, ok := m[id]; ok {
		return u, nil
	}
	return nil, service.ErrUserNotFound
}

func testUsers() memUsers {
	return memUsers{
		1: {ID: 1, Username: "root", Email: "root@x.com", Role: model.RoleAdmin},
		3: {ID: 3, Username: "u3", Email: "u3@x.com", Role: model.RoleUser},
		7: {ID: 7, Username: "u7", Email: "u7@x.com", Role: model.RoleUser},
	}
}

func newTestEngine() *gin.Engine {
	return newTestEngineWith(testUsers())
}

func newTestEngineWith(users memUsers) *gin.Engine {
	r := gin.New()
	r.Use(Logger())

	r.GET("/private", RequireAuth(testSecret, users), func(c *gin.Context) {
		c.String(http.StatusOK, "user=%d", GetUserID(c))
	})
	r.GET("/admin", RequireAuth(testSecret, users), RequireAdmin(), func(c *gin.Context) {
		c.String(http.StatusOK, "admin")
	})
	r.GET("/public", OptionalAuth(testSecret, users), func(c *gin.Context) {
		c.String(http.StatusOK, "user=%d request=%s", GetUserID(c), logging.RequestID(c.Request.Context()))
	})
	return r
}

func tokenFor(t *testing.T, id int, role string, expiry time.Duration) string {
	t.Helper()
	token, err := GenerateToken(&model.SessionUser{ID: id, Username: "u", Email: "u@x.com", Role: role}, testSecret, expiry)
	require.NoError(t, err)
	return token
}

func do(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: TokenCookie, Value: token})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth_RedirectsToLogin(t *testing.T) {
	r := newTestEngine()

	w := do(r, "/private?page=2", "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login/?next=%2Fprivate%3Fpage%3D2", w.Header().Get("Location"))

	w = do(r, "/private", "garbage")
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestRequireAuth_RejectsForeignSignature(t *testing.T) {
	r := newTestEngine()

	token, err := GenerateToken(&model.SessionUser{ID: 1, Role: model.RoleAdmin}, "another-secret-value", time.Hour)
	require.NoError(t, err)

	w := do(r, "/private", token)
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestRequireAuth_ValidToken(t *testing.T) {
	r := newTestEngine()

	w := do(r, "/private", tokenFor(t, 7, model.RoleUser, time.Hour))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user=7", w.Body.String())
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestRequireAdmin(t *testing.T) {
	r := newTestEngine()

	w := do(r, "/admin", tokenFor(t, 7, model.RoleUser, time.Hour))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(r, "/admin", tokenFor(t, 1, model.RoleAdmin, time.Hour))
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, "/admin", "")
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestRequireAdmin_UsesStoredRole(t *testing.T) {
	users := testUsers()
	r := newTestEngineWith(users)
	token := tokenFor(t, 1, model.RoleAdmin, time.Hour)

	w := do(r, "/admin", token)
	assert.Equal(t, http.StatusOK, w.Code)

	users[1].Role = model.RoleUser
	w = do(r, "/admin", token)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(r, "/admin", tokenFor(t, 7, model.RoleAdmin, time.Hour))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRefresh_SignsStoredRole(t *testing.T) {
	users := testUsers()
	users[1].Role = model.RoleUser
	r := newTestEngineWith(users)

	now := time.Now()
	claims := &Claims{UserID: 1, Username: "root", Role: model.RoleAdmin}
	claims.IssuedAt = jwt.NewNumericDate(now.Add(-50 * time.Minute))
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(10 * time.Minute))
	stale, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	w := do(r, "/private", stale)
	require.Equal(t, http.StatusOK, w.Code)

	var refreshed string
	for _, c := range w.Result().Cookies() {
		if c.Name == TokenCookie {
			refreshed = c.Value
		}
	}
	require.NotEmpty(t, refreshed)

	parsed := &Claims{}
	_, err = jwt.ParseWithClaims(refreshed, parsed, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, parsed.Role)
}

func TestAuth_DeletedUser(t *testing.T) {
	users := testUsers()
	r := newTestEngineWith(users)
	token := tokenFor(t, 3, model.RoleUser, time.Hour)
	delete(users, 3)

	w := do(r, "/private", token)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, LoginURL("/private"), w.Header().Get("Location"))
	assertTokenCleared(t, w)

	w = do(r, "/public", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user=0")
	assertTokenCleared(t, w)
}

func assertTokenCleared(t *testing.T, w *httptest.ResponseRecorder) {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == TokenCookie {
			assert.Empty(t, c.Value)
			assert.Negative(t, c.MaxAge)
			return
		}
	}
	t.Fatal("token cookie not cleared")
}

func TestOptionalAuth(t *testing.T) {
	r := newTestEngine()

	w := do(r, "/public", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user=0")

	w = do(r, "/public", tokenFor(t, 3, model.RoleUser, time.Hour))
	assert.Contains(t, w.Body.String(), "user=3")
}

func TestLogger_PropagatesRequestID(t *testing.T) {
	r := newTestEngine()

	req := httptest.NewRequest(http.MethodGet, "/public", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
	assert.Contains(t, w.Body.String(), "request=abc-123")
}

func TestShouldRefresh(t *testing.T) {
	now := time.Now()
	fresh := &Claims{}
	fresh.IssuedAt = jwt.NewNumericDate(now)
	fresh.ExpiresAt = jwt.NewNumericDate(now.Add(time.Hour))
	assert.False(t, shouldRefresh(fresh))

	stale := &Claims{}
	stale.IssuedAt = jwt.NewNumericDate(now.Add(-50 * time.Minute))
	stale.ExpiresAt = jwt.NewNumericDate(now.Add(10 * time.Minute))
	assert.True(t, shouldRefresh(stale))

	assert.False(t, shouldRefresh(&Claims{}))
}

func TestLoginURL(t *testing.T) {
	assert.Equal(t, LoginPath, LoginURL(""))
	assert.Equal(t, "/login/?next=%2Ffilmes%2F", LoginURL("/filmes/"))
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(Security())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := do(r, "/", "")
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}
