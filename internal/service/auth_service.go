package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"employee_manager/internal/blacklist"
	"employee_manager/internal/model"
	"employee_manager/internal/repository"
	"employee_manager/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RegisterInput carries the registration form
type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// AuthService provides authentication related services
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	Authenticate(ctx context.Context, token string) (*model.User, *utils.JWTClaims, error)
	Logout(ctx context.Context, claims *utils.JWTClaims) error
}

type authService struct {
	userRepo   repository.UserRepository
	jwtUtil    *utils.JWTUtil
	revoked    blacklist.Blacklist
	adminEmail string
	log        *zap.Logger
}

// NewAuthService creates a new AuthService. Registering with adminEmail grants the admin role.
func NewAuthService(userRepo repository.UserRepository, jwtUtil *utils.JWTUtil, revoked blacklist.Blacklist, adminEmail string, log *zap.Logger) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtUtil:    jwtUtil,
		revoked:    revoked,
		adminEmail: strings.ToLower(adminEmail),
		log:        log,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new account with a hashed password
func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	if in.Name == "" || in.Email == "" || in.Phone == "" || in.Password == "" {
		return nil, ErrMissingFields
	}

	existingUser, err := s.userRepo.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		return nil, ErrUserAlreadyExists
	}

	hashedPassword, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := model.RoleUser
	if s.adminEmail != "" && in.Email == s.adminEmail {
		role = model.RoleAdmin
		s.log.Info("registering bootstrap administrator", zap.String("email", in.Email))
	}

	user := &model.User{
		Name:         in.Name,
		Email:        in.Email,
		Phone:        in.Phone,
		PasswordHash: hashedPassword,
		Role:         role,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user in repository: %w", err)
	}
	return user, nil
}

// Login checks credentials and issues a signed token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *authService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", ErrMissingFields
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("error finding user by email: %w", err)
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwtUtil.GenerateToken(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}
	return user, token, nil
}

// Authenticate resolves a bearer token to its account
func (s *authService) Authenticate(ctx context.Context, token string) (*model.User, *utils.JWTClaims, error) {
	claims, err := s.jwtUtil.ValidateToken(token)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	if claims.ID != "" {
		revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, nil, err
		}
		if revoked {
			return nil, nil, fmt.Errorf("%w: token revoked", ErrUnauthorized)
		}
	}

	if _, err := uuid.Parse(claims.UserID()); err != nil {
		return nil, nil, fmt.Errorf("%w: malformed subject", ErrUnauthorized)
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load token owner: %w", err)
	}
	if user == nil {
		return nil, nil, fmt.Errorf("%w: account no longer exists", ErrUnauthorized)
	}
	return user, claims, nil
}

// Logout revokes the token for the rest of its lifetime
func (s *authService) Logout(ctx context.Context, claims *utils.JWTClaims) error {
	if claims == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	return s.revoked.Revoke(ctx, claims.ID, time.Until(claims.ExpiresAt.Time))
}
