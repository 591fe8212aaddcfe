package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/user/streamflix/internal/model"
	"github.com/user/streamflix/internal/repository"
	"github.com/user/streamflix/internal/validation"
)

// Route 首页邮箱表单的跳转目标
type Route int

const (
	RouteSignUp Route = iota
	RouteLogin
)

func (r Route) String() string {
	if r == RouteLogin {
		return "login"
	}
	return "signup"
}

// EmailForm 首页邮箱表单
type EmailForm struct {
	Email string `form:"email" validate:"required,email,max=254"`
}

// SignUpForm 注册表单
type SignUpForm struct {
	Username  string `form:"username" validate:"required,max=150,username"`
	Email     string `form:"email" validate:"required,email,max=254"`
	Password1 string `form:"password1" validate:"required,min=8"`
	Password2 string `form:"password2" validate:"required,eqfield=Password1"`
}

// ProfileForm 个人资料表单
type ProfileForm struct {
	FirstName string `form:"first_name" validate:"max=150"`
	LastName  string `form:"last_name" validate:"max=150"`
	Email     string `form:"email" validate:"omitempty,email,max=254"`
}

// PasswordForm 修改密码表单
type PasswordForm struct {
	OldPassword  string `form:"old_password" validate:"required"`
	NewPassword1 string `form:"new_password1" validate:"required,min=8"`
	NewPassword2 string `form:"new_password2" validate:"required,eqfield=NewPassword1"`
}

// AccountService 账号相关业务
type AccountService struct {
	users *repository.UserRepository
}

// NewAccountService 创建账号服务
func NewAccountService(users *repository.UserRepository) *AccountService {
	return &AccountService{users: users}
}

// RouteForEmail 邮箱已注册则去登录，否则去注册。无副作用。
func (s *AccountService) RouteForEmail(ctx context.Context, email string) (Route, error) {
	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return RouteSignUp, fmt.Errorf("lookup email: %w", err)
	}
	if exists {
		return RouteLogin, nil
	}
	return RouteSignUp, nil
}

// SignUp 校验表单并创建普通用户
func (s *AccountService) SignUp(ctx context.Context, form SignUpForm) (*model.User, error) {
	form.Username = strings.TrimSpace(form.Username)
	form.Email = strings.TrimSpace(form.Email)

	if err := validation.ValidateStruct(&form); err != nil {
		return nil, err
	}

	existing, err := s.users.FindByUsername(ctx, form.Username)
	if err != nil {
		return nil, fmt.Errorf("lookup username: %w", err)
	}
	if existing != nil {
		return nil, validation.NewError("username", "Já existe um usuário com este nome.")
	}

	taken, err := s.users.ExistsByEmail(ctx, form.Email)
	if err != nil {
		return nil, fmt.Errorf("lookup email: %w", err)
	}
	if taken {
		return nil, validation.NewError("email", "Este email já está cadastrado.")
	}

	user := &model.User{
		Username: form.Username,
		Email:    form.Email,
		Role:     model.RoleUser,
	}
	if err := s.users.Create(ctx, user, form.Password1); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Authenticate 用户名或邮箱 + 密码登录
func (s *AccountService) Authenticate(ctx context.Context, login, password string) (*model.User, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.FindByUsername(ctx, login)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil && strings.Contains(login, "@") {
		user, err = s.users.FindByEmail(ctx, login)
		if err != nil {
			return nil, fmt.Errorf("lookup user: %w", err)
		}
	}
	if user == nil || !s.users.CheckPassword(user, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GetUser 根据 ID 获取用户
func (s *AccountService) GetUser(ctx context.Context, id int) (*model.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find user %d: %w", id, err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile 更新姓名和邮箱
func (s *AccountService) UpdateProfile(ctx context.Context, userID int, form ProfileForm) (*model.User, error) {
	form.FirstName = strings.TrimSpace(form.FirstName)
	form.LastName = strings.TrimSpace(form.LastName)
	form.Email = strings.TrimSpace(form.Email)

	if err := validation.ValidateStruct(&form); err != nil {
		return nil, err
	}

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.users.UpdateProfile(ctx, userID, form.FirstName, form.LastName, form.Email); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	user.FirstName = form.FirstName
	user.LastName = form.LastName
	user.Email = form.Email
	return user, nil
}

// ChangePassword 校验旧密码后设置新密码
func (s *AccountService) ChangePassword(ctx context.Context, userID int, form PasswordForm) error {
	if err := validation.ValidateStruct(&form); err != nil {
		return err
	}

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if !s.users.CheckPassword(user, form.OldPassword) {
		return validation.NewError("old_password", "A senha antiga está incorreta.")
	}

	if err := s.users.UpdatePassword(ctx, userID, form.NewPassword1); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}
