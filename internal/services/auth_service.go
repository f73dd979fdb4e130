package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/apperrors"
	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/auth"
	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/config"
	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/logger"
	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/models"
)

// RegisterInput is the sign-up payload.
type RegisterInput struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
	Phone    string      `json:"phone"`
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Token string             `json:"token"`
	User  *models.PublicUser `json:"user"`
}

// IAuthService issues and resolves session tokens.
type IAuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	CurrentUser(ctx context.Context, token string) (*models.PublicUser, error)
	ResolveToken(ctx context.Context, token string) (*auth.Session, error)
}

type authService struct {
	cfg   *config.Config
	users IUserService
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config, users IUserService) IAuthService {
	return &authService{cfg: cfg, users: users}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = NormalizeEmail(in.Email)
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, apperrors.New(apperrors.ErrValidation, "Name, email and password are required")
	}
	if len(in.Password) > auth.MaxPasswordBytes {
		return nil, apperrors.Newf(apperrors.ErrValidation, "Password must be at most %d bytes", auth.MaxPasswordBytes)
	}
	if in.Role == "" {
		in.Role = models.RoleUser
	}
	if !in.Role.Valid() {
		return nil, apperrors.Newf(apperrors.ErrValidation, "Invalid role %q", in.Role)
	}

	// The unique index still catches a concurrent registration that passes this check.
	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return nil, apperrors.New(apperrors.ErrConflict, "User already exists")
	} else if !apperrors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrServer, "Server error", err)
	}

	user := &models.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
		Phone:        strings.TrimSpace(in.Phone),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("user registered", zap.String("user_id", user.ID.Hex()), zap.String("role", string(user.Role)))
	return s.issue(user)
}

// Login fails with the same error for an unknown email and a wrong password.
func (s *authService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, apperrors.New(apperrors.ErrValidation, "Email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.New(apperrors.ErrInvalidCredentials, "Invalid credentials")
		}
		return nil, err
	}
	if !auth.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperrors.New(apperrors.ErrInvalidCredentials, "Invalid credentials")
	}

	return s.issue(user)
}

func (s *authService) CurrentUser(ctx context.Context, token string) (*models.PublicUser, error) {
	user, err := s.resolveUser(ctx, token)
	if err != nil {
		return nil, err
	}
	return user.Public(), nil
}

// ResolveToken validates token and returns the caller's session. The role comes
// from the stored identity, not from the token claims.
func (s *authService) ResolveToken(ctx context.Context, token string) (*auth.Session, error) {
	user, err := s.resolveUser(ctx, token)
	if err != nil {
		return nil, err
	}
	return &auth.Session{UserID: user.ID, Role: user.Role}, nil
}

func (s *authService) resolveUser(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, apperrors.New(apperrors.ErrUnauthorized, "No token, authorization denied")
	}

	claims, err := auth.ValidateJWT(token, s.cfg.JwtSecret)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrUnauthorized, "Token is not valid", err)
	}
	id, err := claims.SubjectID()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrUnauthorized, "Token is not valid", err)
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Wrap(apperrors.ErrUnauthorized, "Token is not valid", err)
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) issue(user *models.User) (*AuthResult, error) {
	token, err := auth.GenerateJWT(user.ID, user.Role, s.cfg.JwtSecret, s.cfg.JwtTTL)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrServer, "Server error", err)
	}
	return &AuthResult{Token: token, User: user.Public()}, nil
}
