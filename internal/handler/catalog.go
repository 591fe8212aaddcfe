package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/user/streamflix/internal/middleware"
	"github.com/user/streamflix/internal/model"
	"github.com/user/streamflix/internal/service"
	"github.com/user/streamflix/internal/validation"
)

// Home 首页，已登录用户直接进入影片列表
func (h *Handler) Home(c *gin.Context) {
	if middleware.GetUserID(c) > 0 {
		c.Redirect(http.StatusFound, moviesPath)
		return
	}

	c.HTML(http.StatusOK, "homepage.html", h.RenderData(c, gin.H{
		"Title": h.Config.SiteName,
	}))
}

// HomeSubmit 首页邮箱表单：已注册去登录，否则去注册
func (h *Handler) HomeSubmit(c *gin.Context) {
	var form service.EmailForm
	_ = c.ShouldBind(&form)

	if err := validation.ValidateStruct(&form); err != nil {
		c.HTML(http.StatusOK, "homepage.html", h.RenderData(c, gin.H{
			"Title":  h.Config.SiteName,
			"Email":  form.Email,
			"Errors": formErrors(err),
		}))
		return
	}

	route, err := h.Services.Account.RouteForEmail(c.Request.Context(), form.Email)
	if err != nil {
		h.renderError(c, err)
		return
	}

	if route == service.RouteLogin {
		c.Redirect(http.StatusFound, middleware.LoginPath)
		return
	}
	c.Redirect(http.StatusFound, signUpPath)
}

// Movies 影片列表页
func (h *Handler) Movies(c *gin.Context) {
	page, err := h.Services.Catalog.Home(c.Request.Context())
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.HTML(http.StatusOK, "movies.html", h.RenderData(c, withShowcase(gin.H{
		"Title":      "Filmes - " + h.Config.SiteName,
		"Movies":     page.Movies,
		"Categories": model.Categories,
	}, &page.Showcase)))
}

// MovieDetail 影片详情页，每次访问计一次观看
func (h *Handler) MovieDetail(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		h.renderNotFound(c)
		return
	}

	detail, err := h.Services.Viewing.Watch(c.Request.Context(), middleware.GetUserID(c), id)
	if errors.Is(err, service.ErrUserNotFound) {
		middleware.ClearTokenCookie(c)
		c.Redirect(http.StatusFound, middleware.LoginURL(c.Request.URL.RequestURI()))
		return
	}
	if err != nil {
		h.renderError(c, err)
		return
	}

	showcase, err := h.Services.Catalog.Showcase(c.Request.Context())
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.HTML(http.StatusOK, "movie_detail.html", h.RenderData(c, withShowcase(gin.H{
		"Title":   detail.Movie.Title + " - " + h.Config.SiteName,
		"Movie":   detail.Movie,
		"Related": detail.Related,
	}, showcase)))
}

// Search 按标题搜索
func (h *Handler) Search(c *gin.Context) {
	query := c.Query("q")

	movies, err := h.Services.Catalog.Search(c.Request.Context(), query)
	if err != nil {
		h.renderError(c, err)
		return
	}

	showcase, err := h.Services.Catalog.Showcase(c.Request.Context())
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.HTML(http.StatusOK, "search.html", h.RenderData(c, withShowcase(gin.H{
		"Title":  "Pesquisa - " + h.Config.SiteName,
		"Query":  query,
		"Movies": movies,
	}, showcase)))
}

// withShowcase 合并最新、热门和推荐影片到页面数据
func withShowcase(data gin.H, sc *service.Showcase) gin.H {
	data["Recent"] = sc.Recent
	data["Trending"] = sc.Trending
	data["Featured"] = sc.Featured
	return data
}
