package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/user/streamflix/internal/admin"
	"github.com/user/streamflix/internal/config"
	"github.com/user/streamflix/internal/logging"
	"github.com/user/streamflix/internal/middleware"
	"github.com/user/streamflix/internal/model"
	"github.com/user/streamflix/internal/service"
	"github.com/user/streamflix/internal/validation"
)

const (
	sessionUserKey = "userinfo"
	moviesPath     = "/filmes/"
)

// Handler HTTP 处理器
type Handler struct {
	Services *service.Services
	Config   *config.Config
	Admin    *admin.Site
}

// NewHandler 创建处理器
func NewHandler(services *service.Services, cfg *config.Config, site *admin.Site) *Handler {
	return &Handler{
		Services: services,
		Config:   cfg,
		Admin:    site,
	}
}

// RenderData 统一封装公共渲染数据
func (h *Handler) RenderData(c *gin.Context, data gin.H) gin.H {
	res := gin.H{
		"SiteName":   h.Config.SiteName,
		"Path":       c.Request.URL.Path,
		"ActiveMenu": activeMenu(c.Request.URL.Path),
	}

	session := sessions.Default(c)
	dirty := false

	// Session 中的用户信息与数据库保持一致
	if userID := middleware.GetUserID(c); userID > 0 {
		current := model.SessionUser{
			ID:       userID,
			Username: c.GetString("username"),
			Email:    c.GetString("email"),
			Role:     c.GetString("role"),
		}
		if su, ok := session.Get(sessionUserKey).(model.SessionUser); !ok || su != current {
			session.Set(sessionUserKey, current)
			dirty = true
		}
		res["UserInfo"] = current
	}

	if flashes := session.Flashes(); len(flashes) > 0 {
		res["Flashes"] = flashes
		dirty = true
	}
	if dirty {
		_ = session.Save()
	}

	for k, v := range data {
		res[k] = v
	}
	return res
}

func activeMenu(path string) string {
	switch {
	case path == "/":
		return "home"
	case strings.HasPrefix(path, moviesPath):
		return "movies"
	case strings.HasPrefix(path, "/pesquisa/"):
		return "search"
	case strings.HasPrefix(path, "/editarperfil/"), strings.HasPrefix(path, "/mudar_senha/"):
		return "user"
	default:
		return ""
	}
}

// addFlash 写入一次性提示
func addFlash(c *gin.Context, message string) {
	session := sessions.Default(c)
	session.AddFlash(message)
	_ = session.Save()
}

// renderNotFound 404 页面
func (h *Handler) renderNotFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "404.html", h.RenderData(c, gin.H{
		"Title": "Página não encontrada - " + h.Config.SiteName,
	}))
}

// renderError 按错误类型渲染页面：不存在 -> 404，其余记录日志后 500
func (h *Handler) renderError(c *gin.Context, err error) {
	if service.IsNotFound(err) {
		h.renderNotFound(c)
		return
	}

	logging.Ctx(c.Request.Context()).Error().Err(err).Str("path", c.Request.URL.Path).Msg("请求处理失败")
	_ = c.Error(err)
	c.HTML(http.StatusInternalServerError, "500.html", h.RenderData(c, gin.H{
		"Title": "Erro - " + h.Config.SiteName,
	}))
}

// formErrors 校验错误转为字段 -> 信息，其他错误返回 nil
func formErrors(err error) map[string]string {
	var verr *validation.RequestValidationError
	if errors.As(err, &verr) {
		return verr.Messages()
	}
	return nil
}

// paramID 解析路径中的正整数 ID
func paramID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// safeNext 只接受站内相对路径
func safeNext(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, "\\") {
		return fallback
	}
	return next
}

// Health 健康检查
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// NoRoute 未匹配的路由
func (h *Handler) NoRoute(c *gin.Context) {
	h.renderNotFound(c)
}
