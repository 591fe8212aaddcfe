package router

import (
	"encoding/gob"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/multitemplate"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/user/streamflix/internal/handler"
	"github.com/user/streamflix/internal/middleware"
	"github.com/user/streamflix/internal/model"
	"github.com/user/streamflix/web"
)

const sessionName = "streamflix_session"

// pages 页面模板，对应 templates/pages/<name>.html
var pages = []string{
	"homepage", "movies", "movie_detail", "search",
	"login", "signup", "edit_profile", "change_password",
	"404", "500",
}

func init() {
	// 注册 Session 模型
	gob.Register(model.SessionUser{})
}

// NewEngine 组装 gin 引擎：中间件、模板、静态资源和路由
func NewEngine(h *handler.Handler) (*gin.Engine, error) {
	if h.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Security())
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/media/"})))

	store := cookie.NewStore([]byte(h.Config.AppSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int((7 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
		Secure:   h.Config.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, store))

	templates, err := fs.Sub(web.FS, "templates")
	if err != nil {
		return nil, err
	}
	renderer, err := LoadTemplates(templates)
	if err != nil {
		return nil, err
	}
	r.HTMLRender = renderer

	static, err := fs.Sub(web.FS, "static")
	if err != nil {
		return nil, err
	}
	r.StaticFS("/static", http.FS(static))
	r.Static("/media", h.Config.MediaDir)

	RegisterRoutes(r, h)
	return r, nil
}

// RegisterRoutes 注册所有路由
func RegisterRoutes(r *gin.Engine, h *handler.Handler) {
	secret := h.Config.AppSecret
	users := h.Services.Account

	r.GET("/health", h.Health)
	r.NoRoute(middleware.OptionalAuth(secret, users), h.NoRoute)

	// ==================== 公开页面 ====================
	public := r.Group("/")
	public.Use(middleware.OptionalAuth(secret, users))
	{
		public.GET("/", h.Home)
		public.POST("/", h.HomeSubmit)
		public.GET("/login/", h.LoginPage)
		public.POST("/login/", h.Login)
		public.GET("/logout/", h.Logout)
		public.POST("/logout/", h.Logout)
		public.GET("/criarconta/", h.SignUpPage)
		public.POST("/criarconta/", h.SignUp)
	}

	// ==================== 需要登录 ====================
	private := r.Group("/")
	private.Use(middleware.RequireAuth(secret, users))
	{
		private.GET("/filmes/", h.Movies)
		private.GET("/filmes/:id/", h.MovieDetail)
		private.GET("/pesquisa/", h.Search)
		private.GET("/editarperfil/:id/", h.EditProfilePage)
		private.POST("/editarperfil/:id/", h.EditProfile)
		private.GET("/mudar_senha/", h.ChangePasswordPage)
		private.POST("/mudar_senha/", h.ChangePassword)
	}

	// ==================== 管理后台 ====================
	admin := r.Group("/admin")
	admin.Use(middleware.RequireAuth(secret, users))
	admin.Use(middleware.RequireAdmin())
	{
		admin.GET("/", h.AdminIndex)

		admin.GET("/movies", h.AdminMovies)
		admin.POST("/movies", h.AdminMovieCreate)
		admin.GET("/movies/:id", h.AdminMovie)
		admin.PUT("/movies/:id", h.AdminMovieUpdate)
		admin.DELETE("/movies/:id", h.AdminMovieDelete)
		admin.POST("/movies/:id/episodes", h.AdminEpisodeCreate)

		admin.PUT("/episodes/:id", h.AdminEpisodeUpdate)
		admin.DELETE("/episodes/:id", h.AdminEpisodeDelete)

		admin.GET("/users", h.AdminUsers)
		admin.GET("/users/:id", h.AdminUser)
		admin.PUT("/users/:id/role", h.AdminUserRole)
	}
}

// FuncMap 模板函数
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"dict": func(values ...interface{}) (map[string]interface{}, error) {
			if len(values)%2 != 0 {
				return nil, fmt.Errorf("invalid dict call")
			}
			dict := make(map[string]interface{}, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict keys must be strings")
				}
				dict[key] = values[i+1]
			}
			return dict, nil
		},
		"default": func(defaultValue, value interface{}) interface{} {
			switch v := value.(type) {
			case string:
				if v == "" {
					return defaultValue
				}
			case int:
				if v == 0 {
					return defaultValue
				}
			case nil:
				return defaultValue
			}
			return value
		},
		"media": func(rel string) string {
			if rel == "" {
				return ""
			}
			return "/media/" + strings.TrimPrefix(rel, "/")
		},
		"date": func(t time.Time) string {
			return t.Format("02/01/2006")
		},
	}
}

// LoadTemplates 使用 multitemplate 加载模板：每个页面 = 布局 + 局部模板 + 页面
func LoadTemplates(fsys fs.FS) (multitemplate.Renderer, error) {
	r := multitemplate.NewRenderer()

	layouts, err := fs.Glob(fsys, "layouts/*.html")
	if err != nil {
		return nil, err
	}
	partials, err := fs.Glob(fsys, "partials/*.html")
	if err != nil {
		return nil, err
	}
	if len(layouts) == 0 {
		return nil, fmt.Errorf("no layout templates found")
	}

	funcMap := FuncMap()
	for _, page := range pages {
		files := make([]string, 0, len(layouts)+len(partials)+1)
		files = append(files, layouts...)
		files = append(files, partials...)
		files = append(files, "pages/"+page+".html")

		tmpl, err := template.New(path.Base(layouts[0])).Funcs(funcMap).ParseFS(fsys, files...)
		if err != nil {
			return nil, fmt.Errorf("parse page %s: %w", page, err)
		}
		r.Add(page+".html", tmpl)
	}

	return r, nil
}
