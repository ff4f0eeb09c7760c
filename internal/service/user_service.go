package service

import (
	"context"
	"strings"

	"quill/internal/auth"
	"quill/internal/models"
	"quill/internal/observability"
	"quill/internal/repository"
	"quill/internal/validation"
)

// TokenIssuer signs an access token for an identity.
type TokenIssuer interface {
	Issue(id models.Identity) (string, error)
}

type UserService struct {
	userRepo repository.UserRepository
	postRepo repository.PostRepository
	tokens   TokenIssuer
}

type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=50"`
	Email    string `json:"email" validate:"required,email_format"`
	Password string `json:"password" validate:"required,password"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Token string
	User  *models.User
}

// UserProfile is the caller's own user record with their post count.
type UserProfile struct {
	models.User
	PostCount int64 `json:"postCount"`
}

func NewUserService(userRepo repository.UserRepository, postRepo repository.PostRepository, tokens TokenIssuer) *UserService {
	return &UserService{userRepo: userRepo, postRepo: postRepo, tokens: tokens}
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (res *AuthResult, err error) {
	defer func() { observability.RecordAuth(observability.EventRegister, err == nil) }()

	in.Name = strings.TrimSpace(in.Name)
	in.Email = validation.NormalizeEmail(in.Email)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: hash,
		Role:     models.RoleUser,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.issue(user)
}

// Login returns the same INVALID_CREDENTIALS error for an unknown email and
// for a wrong password.
func (s *UserService) Login(ctx context.Context, in LoginInput) (res *AuthResult, err error) {
	defer func() { observability.RecordAuth(observability.EventLogin, err == nil) }()

	in.Email = validation.NormalizeEmail(in.Email)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		if models.HasCode(err, models.CodeNotFound) {
			return nil, models.NewInvalidCredentialsError()
		}
		return nil, err
	}
	if !auth.VerifyPassword(in.Password, user.Password) {
		return nil, models.NewInvalidCredentialsError()
	}

	return s.issue(user)
}

func (s *UserService) issue(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(models.Identity{UserID: user.ID, Email: user.Email, Role: user.Role})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &AuthResult{Token: token, User: user}, nil
}

// Profile returns the caller's record. A token whose user no longer exists
// yields NOT_FOUND.
func (s *UserService) Profile(ctx context.Context, id models.Identity) (*UserProfile, error) {
	user, err := s.userRepo.GetByID(ctx, id.UserID)
	if err != nil {
		return nil, err
	}
	count, err := s.postRepo.CountByAuthor(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &UserProfile{User: *user, PostCount: count}, nil
}
