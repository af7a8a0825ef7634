package services

import (
	"context"

	"github.com/forkful/forkful/app/models"
	"github.com/forkful/forkful/app/repositories"
	"github.com/forkful/forkful/pkg/apperr"
	"github.com/forkful/forkful/pkg/auth"
)

// SignUpInput is the validated signup payload.
type SignUpInput struct {
	Name     string
	Email    string
	Password string
}

// LoginInput is the validated login payload.
type LoginInput struct {
	Email    string
	Password string
}

// AuthService implements signup, login and bearer-token resolution.
type AuthService struct {
	users repositories.UserRepository
}

func NewAuthService(users repositories.UserRepository) *AuthService {
	return &AuthService{users: users}
}

// SignUp hashes the password and persists a new user with the default role.
// A duplicate email surfaces as a Conflict from the repository.
func (s *AuthService) SignUp(ctx context.Context, in SignUpInput) (*models.User, error) {
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	user := &models.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: hash,
		Role:     models.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and returns a signed bearer token. Unknown email
// and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (string, error) {
	user, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return "", apperr.Unauthorized("Invalid email address or password")
	}

	if !auth.CheckPassword(user.Password, in.Password) {
		return "", apperr.Unauthorized("Invalid email address or password")
	}

	return auth.GenerateToken(user.ID.Hex())
}

// UserFromToken verifies the token and loads the user it names. A valid token
// for a since-deleted user is rejected. Satisfies middleware.UserResolver.
func (s *AuthService) UserFromToken(ctx context.Context, token string) (*models.User, error) {
	claims, err := auth.ValidateToken(token)
	if err != nil {
		return nil, apperr.Unauthorized("Login first to access this resource")
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, apperr.Unauthorized("Login first to access this resource")
	}
	return user, nil
}
