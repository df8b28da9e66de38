package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sociable-dev/sociable/internal/entity"
	userDto "github.com/sociable-dev/sociable/internal/modules/user/dto"
	userRepo "github.com/sociable-dev/sociable/internal/modules/user/repository"
	"github.com/sociable-dev/sociable/pkg/apperror"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Register(ctx context.Context, req userDto.RegisterRequest) (*userDto.AuthResponse, error)
	Login(ctx context.Context, req userDto.LoginRequest) (*userDto.AuthResponse, error)
	GetProfile(ctx context.Context, username string) (*entity.User, error)
}

type authService struct {
	userRepo  userRepo.UserRepository
	jwtSecret string
	jwtTTL    time.Duration
}

func NewAuthService(userRepo userRepo.UserRepository, jwtSecret string, jwtTTL time.Duration) AuthService {
	return &authService{
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
		jwtTTL:    jwtTTL,
	}
}

func (s *authService) Register(ctx context.Context, req userDto.RegisterRequest) (*userDto.AuthResponse, error) {
	taken, err := s.userRepo.UsernameExists(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("username is already taken: %w", apperror.ErrBadRequest)
	}

	taken, err = s.userRepo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("email is already registered: %w", apperror.ErrBadRequest)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hashed),
		FullName:     req.FullName,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.signToken(user)
	if err != nil {
		return nil, err
	}

	return &userDto.AuthResponse{Token: token, User: user}, nil
}

func (s *authService) Login(ctx context.Context, req userDto.LoginRequest) (*userDto.AuthResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		// Don't leak whether the username exists
		return nil, fmt.Errorf("invalid credentials: %w", apperror.ErrUnauthorized)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", apperror.ErrUnauthorized)
	}

	token, err := s.signToken(user)
	if err != nil {
		return nil, err
	}

	return &userDto.AuthResponse{Token: token, User: user}, nil
}

func (s *authService) GetProfile(ctx context.Context, username string) (*entity.User, error) {
	return s.userRepo.FindByUsername(ctx, username)
}

func (s *authService) signToken(user *entity.User) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtTTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}
