package handler

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/user/streamflix/internal/logging"
	"github.com/user/streamflix/internal/service"
	"github.com/user/streamflix/internal/utils"
	"github.com/user/streamflix/internal/validation"
)

const maxThumbnailSize = 5 << 20

var thumbnailExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

// apiError 后台接口错误映射
func (h *Handler) apiError(c *gin.Context, err error) {
	var verr *validation.RequestValidationError
	switch {
	case errors.As(err, &verr):
		utils.ValidationFailed(c, verr.Messages())
	case service.IsNotFound(err):
		utils.NotFound(c, "")
	default:
		logging.Ctx(c.Request.Context()).Error().Err(err).Str("path", c.Request.URL.Path).Msg("后台接口失败")
		_ = c.Error(err)
		utils.InternalServerError(c, "")
	}
}

// AdminIndex 后台首页：已注册的模型
func (h *Handler) AdminIndex(c *gin.Context) {
	utils.Success(c, gin.H{
		"site_name": h.Config.SiteName,
		"models":    h.Admin.Models,
	})
}

// ==================== 影片 ====================

// AdminMovies 影片列表
func (h *Handler) AdminMovies(c *gin.Context) {
	movies, err := h.Services.Catalog.List(c.Request.Context())
	if err != nil {
		h.apiError(c, err)
		return
	}
	utils.Success(c, movies)
}

// AdminMovie 影片详情（含剧集），不计观看
func (h *Handler) AdminMovie(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		utils.NotFound(c, "")
		return
	}

	movie, err := h.Services.Catalog.Get(c.Request.Context(), id)
	if err != nil {
		h.apiError(c, err)
		return
	}
	utils.Success(c, movie)
}

// AdminMovieCreate 创建影片，multipart 表单，可带缩略图
func (h *Handler) AdminMovieCreate(c *gin.Context) {
	var form service.MovieForm
	if err := c.ShouldBind(&form); err != nil {
		utils.BadRequest(c, "Formulário inválido.")
		return
	}

	thumbnail, err := h.saveThumbnail(c)
	if err != nil {
		h.apiError(c, err)
		return
	}

	movie, err := h.Services.Admin.CreateMovie(c.Request.Context(), form, thumbnail)
	if err != nil {
		h.removeThumbnail(thumbnail)
		h.apiError(c, err)
		return
	}
	utils.Created(c, movie)
}

// AdminMovieUpdate 更新影片，未上传缩略图时保留原图
func (h *Handler) AdminMovieUpdate(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		utils.NotFound(c, "")
		return
	}

	var form service.MovieForm
	if err := c.ShouldBind(&form); err != nil {
		utils.BadRequest(c, "Formulário inválido.")
		return
	}

	thumbnail, err := h.saveThumbnail(c)
	if err != nil {
		h.apiError(c, err)
		return
	}

	movie, err := h.Services.Admin.UpdateMovie(c.Request.Context(), id, form, thumbnail)
	if err != nil {
		h.removeThumbnail(thumbnail)
		h.apiError(c, err)
		return
	}
	utils.Success(c, movie)
}

// AdminMovieDelete 删除影片及剧集
func (h *Handler) AdminMovieDelete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		utils.NotFound(c, "")
		return
	}

	if err := h.Services.Admin.DeleteMovie(c.Request.Context(), id); err != nil {
		h.apiError(c, err)
		return
	}
	utils.Success(c, nil)
}

// saveThumbnail 保存上传的缩略图，返回媒体目录下的相对路径；未上传返回空
func (h *Handler) saveThumbnail(c *gin.Context) (string, error) {
	file, err := c.FormFile("thumbnail")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read thumbnail: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !thumbnailExts[ext] {
		return "", validation.NewError("thumbnail", "Envie uma imagem JPG, PNG, WEBP ou GIF.")
	}
	if file.Size > maxThumbnailSize {
		return "", validation.NewError("thumbnail", "A imagem deve ter no máximo 5 MB.")
	}

	rel := path.Join(service.ThumbnailDir, uuid.New().String()+ext)
	dst := filepath.Join(h.Config.MediaDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("create thumbnail dir: %w", err)
	}
	if err := c.SaveUploadedFile(file, dst); err != nil {
		return "", fmt.Errorf("save thumbnail: %w", err)
	}
	return rel, nil
}

func (h *Handler) removeThumbnail(rel string) {
	if rel == "" {
		return
	}
	if err := os.Remove(filepath.Join(h.Config.MediaDir, filepath.FromSlash(rel))); err != nil {
		logging.Warn().Err(err).Str("file", rel).Msg("删除缩略图失败")
	}
}

// ==================== 剧集 ====================

// AdminEpisodeCreate 为影片添加剧集
func (h *Handler) AdminEpisodeCreate(c *gin.Context) {
	movieID, ok := paramID(c, "id")
	if !ok {
		utils.NotFound(c, "")
		return
	}

	var form service.EpisodeForm
	if err := c.ShouldBind(&form); err != nil {
		utils.BadRequest(c, "Formulário inválido.")
		return
	}

	episode, err := h.Services.Admin.CreateEpisode(c.Request.Context(), movieID, form)
	if err != nil {
		h.apiError(c, err)
		return
	}
	utils.Created(c, episode)
}

// AdminEpisodeUpdate 更新剧集
func (h *Handler) AdminEpisodeUpdate(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		utils.NotFound(c, "")
		return
	}

	var form service.EpisodeForm
	if err := c.ShouldBind(&form); err != nil {
		utils.BadRequest(c, "Formulário inválido.")
		return
	}

	episode, err := h.Services.Admin.UpdateEpisode(c.Request.Context(), id, form)
	if err != nil {
		h.apiError(c, err)
		return
	}
	utils.Success(c, episode)
}

// AdminEpisodeDelete 删除剧集
func (h *Handler) AdminEpisodeDelete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		utils.NotFound(c, "")
		return
	}

	if err := h.Services.Admin.DeleteEpisode(c.Request.Context(), id); err != nil {
		h.apiError(c, err)
		return
	}
	utils.Success(c, nil)
}

// ==================== 用户 ====================

// AdminUsers 用户列表
func (h *Handler) AdminUsers(c *gin.Context) {
	users, err := h.Services.Admin.ListUsers(c.Request.Context())
	if err != nil {
		h.apiError(c, err)
		return
	}
	utils.Success(c, users)
}

// AdminUser 用户详情，按站点配置的分组输出
func (h *Handler) AdminUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		utils.NotFound(c, "")
		return
	}

	ctx := c.Request.Context()
	user, err := h.Services.Account.GetUser(ctx, id)
	if err != nil {
		h.apiError(c, err)
		return
	}

	history, err := h.Services.Admin.UserHistory(ctx, id)
	if err != nil {
		h.apiError(c, err)
		return
	}

	utils.Success(c, gin.H{
		"id":       user.ID,
		"sections": h.Admin.UserSections(user, history),
	})
}

// AdminUserRole 修改用户角色
func (h *Handler) AdminUserRole(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		utils.NotFound(c, "")
		return
	}

	var form service.RoleForm
	if err := c.ShouldBind(&form); err != nil {
		utils.BadRequest(c, "Formulário inválido.")
		return
	}

	user, err := h.Services.Admin.SetUserRole(c.Request.Context(), id, form)
	if err != nil {
		h.apiError(c, err)
		return
	}
	utils.Success(c, user)
}
