package handler

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/user/streamflix/internal/middleware"
	"github.com/user/streamflix/internal/model"
	"github.com/user/streamflix/internal/service"
)

const signUpPath = "/criarconta/"

// LoginPage 登录页面
func (h *Handler) LoginPage(c *gin.Context) {
	next := safeNext(c.Query("next"), moviesPath)
	if middleware.GetUserID(c) > 0 {
		c.Redirect(http.StatusFound, next)
		return
	}

	c.HTML(http.StatusOK, "login.html", h.RenderData(c, gin.H{
		"Title": "Entrar - " + h.Config.SiteName,
		"Next":  next,
	}))
}

// Login 登录，用户名或邮箱均可
func (h *Handler) Login(c *gin.Context) {
	login := c.PostForm("username")
	password := c.PostForm("password")
	next := safeNext(c.PostForm("next"), moviesPath)

	user, err := h.Services.Account.Authenticate(c.Request.Context(), login, password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		c.HTML(http.StatusOK, "login.html", h.RenderData(c, gin.H{
			"Title":    "Entrar - " + h.Config.SiteName,
			"Next":     next,
			"Username": login,
			"Error":    "Usuário ou senha incorretos.",
		}))
		return
	}
	if err != nil {
		h.renderError(c, err)
		return
	}

	if err := h.startSession(c, user); err != nil {
		h.renderError(c, err)
		return
	}

	c.Redirect(http.StatusFound, next)
}

// startSession 写入 JWT Cookie 和 Session 用户信息
func (h *Handler) startSession(c *gin.Context, user *model.User) error {
	su := model.SessionUser{
		ID:       user.ID,
		Email:    user.Email,
		Username: user.Username,
		Role:     user.Role,
	}

	token, err := middleware.GenerateToken(&su, h.Config.AppSecret, h.Config.JWTExpiry)
	if err != nil {
		return err
	}
	middleware.SetTokenCookie(c, token, h.Config.JWTExpiry)

	session := sessions.Default(c)
	session.Set(sessionUserKey, su)
	return session.Save()
}

// Logout 退出登录
func (h *Handler) Logout(c *gin.Context) {
	middleware.ClearTokenCookie(c)

	session := sessions.Default(c)
	session.Clear()
	_ = session.Save()

	c.Redirect(http.StatusFound, "/")
}

// SignUpPage 注册页面
func (h *Handler) SignUpPage(c *gin.Context) {
	if middleware.GetUserID(c) > 0 {
		c.Redirect(http.StatusFound, moviesPath)
		return
	}

	c.HTML(http.StatusOK, "signup.html", h.RenderData(c, gin.H{
		"Title": "Criar conta - " + h.Config.SiteName,
		"Form":  service.SignUpForm{Email: c.Query("email")},
	}))
}

// SignUp 注册，成功后跳转登录页
func (h *Handler) SignUp(c *gin.Context) {
	var form service.SignUpForm
	_ = c.ShouldBind(&form)

	_, err := h.Services.Account.SignUp(c.Request.Context(), form)
	if errs := formErrors(err); errs != nil {
		form.Password1, form.Password2 = "", ""
		c.HTML(http.StatusOK, "signup.html", h.RenderData(c, gin.H{
			"Title":  "Criar conta - " + h.Config.SiteName,
			"Form":   form,
			"Errors": errs,
		}))
		return
	}
	if err != nil {
		h.renderError(c, err)
		return
	}

	addFlash(c, "Conta criada com sucesso. Faça login para continuar.")
	c.Redirect(http.StatusFound, middleware.LoginPath)
}

// profileTarget 解析要编辑的用户：本人或管理员，否则视为不存在
func (h *Handler) profileTarget(c *gin.Context) (int, bool) {
	id, ok := paramID(c, "id")
	if !ok {
		return 0, false
	}
	if id != middleware.GetUserID(c) && !middleware.IsAdmin(c) {
		return 0, false
	}
	return id, true
}

// EditProfilePage 编辑个人资料页面
func (h *Handler) EditProfilePage(c *gin.Context) {
	id, ok := h.profileTarget(c)
	if !ok {
		h.renderNotFound(c)
		return
	}

	user, err := h.Services.Account.GetUser(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.HTML(http.StatusOK, "edit_profile.html", h.RenderData(c, gin.H{
		"Title":   "Editar perfil - " + h.Config.SiteName,
		"Profile": user,
		"Form": service.ProfileForm{
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Email:     user.Email,
		},
	}))
}

// EditProfile 保存个人资料
func (h *Handler) EditProfile(c *gin.Context) {
	id, ok := h.profileTarget(c)
	if !ok {
		h.renderNotFound(c)
		return
	}

	var form service.ProfileForm
	_ = c.ShouldBind(&form)

	user, err := h.Services.Account.UpdateProfile(c.Request.Context(), id, form)
	if errs := formErrors(err); errs != nil {
		profile, getErr := h.Services.Account.GetUser(c.Request.Context(), id)
		if getErr != nil {
			h.renderError(c, getErr)
			return
		}
		c.HTML(http.StatusOK, "edit_profile.html", h.RenderData(c, gin.H{
			"Title":   "Editar perfil - " + h.Config.SiteName,
			"Profile": profile,
			"Form":    form,
			"Errors":  errs,
		}))
		return
	}
	if err != nil {
		h.renderError(c, err)
		return
	}

	// 本人修改邮箱后同步 Session
	if user.ID == middleware.GetUserID(c) {
		if err := h.startSession(c, user); err != nil {
			h.renderError(c, err)
			return
		}
	}

	addFlash(c, "Perfil atualizado.")
	c.Redirect(http.StatusFound, moviesPath)
}

// ChangePasswordPage 修改密码页面
func (h *Handler) ChangePasswordPage(c *gin.Context) {
	c.HTML(http.StatusOK, "change_password.html", h.RenderData(c, gin.H{
		"Title": "Mudar senha - " + h.Config.SiteName,
	}))
}

// ChangePassword 修改密码
func (h *Handler) ChangePassword(c *gin.Context) {
	var form service.PasswordForm
	_ = c.ShouldBind(&form)

	err := h.Services.Account.ChangePassword(c.Request.Context(), middleware.GetUserID(c), form)
	if errs := formErrors(err); errs != nil {
		c.HTML(http.StatusOK, "change_password.html", h.RenderData(c, gin.H{
			"Title":  "Mudar senha - " + h.Config.SiteName,
			"Errors": errs,
		}))
		return
	}
	if err != nil {
		h.renderError(c, err)
		return
	}

	addFlash(c, "Senha alterada com sucesso.")
	c.Redirect(http.StatusFound, moviesPath)
}
