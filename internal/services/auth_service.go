package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/chachabrian/rentmyride-backend/internal/apperrors"
	"github.com/chachabrian/rentmyride-backend/internal/logger"
	"github.com/chachabrian/rentmyride-backend/internal/models"
	"github.com/chachabrian/rentmyride-backend/internal/repository"
	"github.com/chachabrian/rentmyride-backend/internal/validator"
	"github.com/chachabrian/rentmyride-backend/pkg/utils"
)

type SignupInput struct {
	Name     string `json:"name" validate:"required,max=128"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Phone    string `json:"phone" validate:"max=32"`
	Role     string `json:"role" validate:"omitempty,signup_role"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type AuthService struct {
	users     repository.UserRepository
	validate  *validator.Validator
	jwtSecret string
	jwtTTL    time.Duration
	log       *logger.Logger
}

func NewAuthService(users repository.UserRepository, jwtSecret string, jwtTTL time.Duration, log *logger.Logger) *AuthService {
	return &AuthService{
		users:     users,
		validate:  validator.New(),
		jwtSecret: jwtSecret,
		jwtTTL:    jwtTTL,
		log:       log.With("component", "auth"),
	}
}

func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}

	role := models.UserRoleCustomer
	if in.Role != "" {
		role = models.UserRole(strings.ToUpper(in.Role))
	}

	user := &models.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    in.Email,
		Phone:    strings.TrimSpace(in.Phone),
		Password: in.Password,
		Role:     role,
	}
	if err := user.HashPassword(); err != nil {
		return nil, apperrors.Internal("Failed to hash password", err)
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.InvalidInput("Email already registered")
		}
		return nil, apperrors.DB(err)
	}

	s.log.Info("user signed up", "user_id", user.ID, "role", user.Role)
	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, in.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Unauthenticated("Invalid email or password")
	}
	if err != nil {
		return nil, apperrors.DB(err)
	}
	if err := user.CheckPassword(in.Password); err != nil {
		return nil, apperrors.Unauthenticated("Invalid email or password")
	}

	return s.issue(user)
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, err := utils.GenerateToken(user, s.jwtSecret, s.jwtTTL)
	if err != nil {
		return nil, apperrors.Internal("Failed to generate token", err)
	}
	return &AuthResult{Token: token, User: user}, nil
}
