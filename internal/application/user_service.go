package application

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/resumeforge/resumeforge/internal/domain/entity"
	repo "github.com/resumeforge/resumeforge/internal/domain/repository"
	"github.com/resumeforge/resumeforge/pkg/helpers"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
)

// UserService owns identity: signup, login, token refresh, and the Redis
// session that scopes workspace access.
type UserService struct {
	Repo   repo.UserRepository
	JWT    *helpers.JWTManager
	Redis  *redis.Client
	Logger *logrus.Logger
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

func sessionKey(userID string) string {
	return "user:session:" + userID
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func NewUserService(r repo.UserRepository, jwt *helpers.JWTManager, rdb *redis.Client, logger *logrus.Logger) *UserService {
	return &UserService{Repo: r, JWT: jwt, Redis: rdb, Logger: logger}
}

type LoginResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

// Signup registers a new identity. Duplicate emails fail with ErrEmailTaken.
func (s *UserService) Signup(ctx context.Context, email, password, name string) (*entity.User, error) {
	if existing, err := s.Repo.GetByEmail(email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	}
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{Email: email, Password: hash, Name: name}
	if err := s.Repo.Create(u); err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate validates email/password and returns the user without issuing tokens.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Repo.GetByEmail(email)
	if err != nil || u == nil {
		return nil, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// IssueTokens generates the access/refresh pair and records a session in Redis.
func (s *UserService) IssueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID)
	if err != nil {
		return TokenPair{}, err
	}

	if s.Redis != nil {
		key := sessionKey(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"user_id":    u.ID,
			"email":      u.Email,
			"name":       u.Name,
			"logged_in":  true,
			"created_at": nowRFC3339(),
		})
		pipe.Expire(ctx, key, 24*time.Hour)
		if _, rErr := pipe.Exec(ctx); rErr != nil && s.Logger != nil {
			s.Logger.WithError(rErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}

	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResponse, TokenPair, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return &LoginResponse{UserID: u.ID, Email: u.Email, Name: u.Name}, pair, nil
}

func (s *UserService) Refresh(ctx context.Context, refreshToken string) (TokenPair, string, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	u, err := s.Repo.GetByID(claims.UserID)
	if err != nil || u == nil {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	if s.Redis != nil {
		data, rErr := s.Redis.HGetAll(ctx, sessionKey(u.ID)).Result()
		if rErr != nil || len(data) == 0 {
			return TokenPair{}, "", ErrInvalidCredentials
		}
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return TokenPair{}, "", err
	}
	return pair, u.ID, nil
}

// Logout drops the Redis session. The caller releases the workspace.
func (s *UserService) Logout(ctx context.Context, userID string) {
	if s.Redis != nil {
		s.Redis.Del(ctx, sessionKey(userID))
	}
}

func (s *UserService) GetProfile(userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(userID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}
