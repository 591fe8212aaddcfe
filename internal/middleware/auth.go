package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/user/streamflix/internal/logging"
	"github.com/user/streamflix/internal/model"
	"github.com/user/streamflix/internal/service"
)

// TokenCookie 保存 JWT 的 Cookie 名
const TokenCookie = "token"

// LoginPath 登录页路径
const LoginPath = "/login/"

// Claims JWT 声明
type Claims struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// UserLoader 读取 Token 对应的当前用户，不存在时返回 service.ErrUserNotFound
type UserLoader interface {
	GetUser(ctx context.Context, id int) (*model.User, error)
}

var (
	errUserGone   = errors.New("token user no longer exists")
	errUserLookup = errors.New("load token user")
)

// RequireAuth 必须登录，未登录时重定向到登录页并带上 next 参数
func RequireAuth(jwtSecret string, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := authenticate(c, jwtSecret, users)
		if err != nil {
			if errors.Is(err, errUserLookup) {
				logging.Ctx(c.Request.Context()).Error().Err(err).Msg("读取登录用户失败")
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			c.Redirect(http.StatusFound, LoginURL(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}

		setClaims(c, claims)
		refreshIfNeeded(c, claims, jwtSecret)
		c.Next()
	}
}

// OptionalAuth 可选登录
func OptionalAuth(jwtSecret string, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := authenticate(c, jwtSecret, users)
		switch {
		case err == nil:
			setClaims(c, claims)
			refreshIfNeeded(c, claims, jwtSecret)
		case errors.Is(err, errUserLookup):
			logging.Ctx(c.Request.Context()).Error().Err(err).Msg("读取登录用户失败")
		}
		c.Next()
	}
}

// authenticate 校验 Token，并以数据库中的用户资料和角色覆盖 Token 中的声明。
// 用户已被删除时清除 Token Cookie。
func authenticate(c *gin.Context, jwtSecret string, users UserLoader) (*Claims, error) {
	claims, err := extractClaims(c, jwtSecret)
	if err != nil {
		return nil, err
	}

	user, err := users.GetUser(c.Request.Context(), claims.UserID)
	if errors.Is(err, service.ErrUserNotFound) {
		ClearTokenCookie(c)
		return nil, errUserGone
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errUserLookup, err)
	}

	claims.Username = user.Username
	claims.Email = user.Email
	claims.Role = user.Role
	return claims, nil
}

// RequireAdmin 管理员权限，需放在 RequireAuth 之后
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists || role != model.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"code": http.StatusForbidden, "message": "Acesso restrito a administradores.", "success": false})
			c.Abort()
			return
		}
		c.Next()
	}
}

// LoginURL 登录页地址，next 为登录后返回的路径
func LoginURL(next string) string {
	if next == "" {
		return LoginPath
	}
	return LoginPath + "?next=" + url.QueryEscape(next)
}

func setClaims(c *gin.Context, claims *Claims) {
	c.Set("user_id", claims.UserID)
	c.Set("username", claims.Username)
	c.Set("email", claims.Email)
	c.Set("role", claims.Role)
}

// refreshIfNeeded 有效期消耗过半时签发新 Token
func refreshIfNeeded(c *gin.Context, claims *Claims, jwtSecret string) {
	if !shouldRefresh(claims) {
		return
	}
	expiry := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	token, err := GenerateToken(&model.SessionUser{
		ID:       claims.UserID,
		Username: claims.Username,
		Email:    claims.Email,
		Role:     claims.Role,
	}, jwtSecret, expiry)
	if err == nil {
		SetTokenCookie(c, token, expiry)
	}
}

// extractClaims 从 Cookie 或 Authorization Header 中提取 JWT Claims
func extractClaims(c *gin.Context, jwtSecret string) (*Claims, error) {
	var tokenString string

	if cookie, err := c.Cookie(TokenCookie); err == nil {
		tokenString = cookie
	} else {
		authHeader := c.GetHeader("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}
	}

	if tokenString == "" {
		return nil, jwt.ErrTokenMalformed
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(jwtSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID <= 0 {
		return nil, jwt.ErrTokenInvalidClaims
	}

	return claims, nil
}

// GetUserID 从上下文获取用户 ID（未登录返回 0）
func GetUserID(c *gin.Context) int {
	if userID, exists := c.Get("user_id"); exists {
		return userID.(int)
	}
	return 0
}

// IsAdmin 当前用户是否为管理员
func IsAdmin(c *gin.Context) bool {
	return c.GetString("role") == model.RoleAdmin
}

// GenerateToken 生成 JWT Token
func GenerateToken(user *model.SessionUser, jwtSecret string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}

// SetTokenCookie 写入 Token Cookie
func SetTokenCookie(c *gin.Context, token string, expiry time.Duration) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(TokenCookie, token, int(expiry.Seconds()), "/", "", false, true)
}

// ClearTokenCookie 删除 Token Cookie
func ClearTokenCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(TokenCookie, "", -1, "/", "", false, true)
}

// shouldRefresh 已消耗总有效期的 50% 以上
func shouldRefresh(claims *Claims) bool {
	if claims.ExpiresAt == nil || claims.IssuedAt == nil {
		return false
	}

	total := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	return time.Since(claims.IssuedAt.Time) > total/2
}
