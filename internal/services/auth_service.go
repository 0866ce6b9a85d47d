package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ktuacm/clubportal-backend/internal/config"
	"github.com/ktuacm/clubportal-backend/internal/models"
	"github.com/ktuacm/clubportal-backend/internal/repositories"
	"github.com/ktuacm/clubportal-backend/internal/utils"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"
)

// ErrInvalidCredentials is returned for any failed login attempt. The cause
// (unknown email vs wrong password) is deliberately not distinguished.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Compile-time check to ensure AuthServiceImpl implements AuthService
var _ AuthService = (*AuthServiceImpl)(nil)

// AuthServiceImpl handles administrator authentication
type AuthServiceImpl struct {
	adminRepo repositories.AdminUserRepository
	cfg       *config.Config
}

// NewAuthService creates a new AuthServiceImpl
func NewAuthService(adminRepo repositories.AdminUserRepository, cfg *config.Config) *AuthServiceImpl {
	return &AuthServiceImpl{
		adminRepo: adminRepo,
		cfg:       cfg,
	}
}

// Login verifies credentials and returns a signed JWT
func (s *AuthServiceImpl) Login(ctx context.Context, req *models.LoginRequest) (string, error) {
	admin, err := s.adminRepo.FindByEmail(ctx, utils.NormalizeIdentity(req.Email))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to look up administrator: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.Password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := utils.GenerateJWT(admin.ID.Hex(), admin.Role, s.cfg)
	if err != nil {
		slog.Error("Failed to sign JWT", "error", err)
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	slog.Info("Administrator logged in", "adminId", admin.ID)
	return token, nil
}

// Register creates an administrator account with a hashed password
func (s *AuthServiceImpl) Register(ctx context.Context, email, password, role string) (*models.AdminUser, error) {
	email = utils.NormalizeIdentity(email)
	if _, err := s.adminRepo.FindByEmail(ctx, email); err == nil {
		return nil, errors.New("administrator with this email already exists")
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to look up administrator: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &models.AdminUser{
		Email:    email,
		Password: string(hashed),
		Role:     role,
	}
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		return nil, fmt.Errorf("failed to create administrator: %w", err)
	}

	admin.Password = ""
	return admin, nil
}
