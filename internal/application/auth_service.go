package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/starv8193-prog/ressonancia-social-v2/internal/domain/entity"
	repo "github.com/starv8193-prog/ressonancia-social-v2/internal/domain/repository"
	"github.com/starv8193-prog/ressonancia-social-v2/pkg/apperrors"
	"github.com/starv8193-prog/ressonancia-social-v2/pkg/helpers"
	"github.com/starv8193-prog/ressonancia-social-v2/pkg/mailer"
)

const sessionTTL = 24 * time.Hour

// AuthService owns the credential exchange: register, login, refresh, logout.
// Sessions live in a redis hash keyed by user id; the session id inside it is
// rotated on every refresh.
type AuthService struct {
	Accounts repo.AccountRepository
	JWT      *helpers.JWTManager
	Redis    *redis.Client
	Logger   *logrus.Logger
	Emails   *helpers.RabbitPublisher
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

func NewAuthService(accounts repo.AccountRepository, jwt *helpers.JWTManager, rdb *redis.Client, logger *logrus.Logger, emails *helpers.RabbitPublisher) *AuthService {
	return &AuthService{
		Accounts: accounts,
		JWT:      jwt,
		Redis:    rdb,
		Logger:   logger,
		Emails:   emails,
	}
}

type LoginResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

// Register creates an account and enqueues the welcome email. The email job
// is best-effort; registration does not fail when the queue is down.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*entity.Account, error) {
	if existing, err := s.Accounts.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, apperrors.ErrEmailTaken
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, err
	}

	a := &entity.Account{Email: email, Password: hash, Name: name}
	if err := s.Accounts.Create(ctx, a); err != nil {
		return nil, err
	}

	if s.Emails != nil {
		job := mailer.EmailJob{
			To:       a.Email,
			Template: "welcome",
			Data:     map[string]any{"name": a.Name},
		}
		if err := s.Emails.PublishJSON(ctx, job); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", a.ID).Warn("welcome email enqueue failed")
		}
	}

	return a, nil
}

// Authenticate validates email/password and returns the account without issuing tokens.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*entity.Account, error) {
	a, err := s.Accounts.GetByEmail(ctx, email)
	if err != nil || a == nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(a.Password, password) {
		return nil, apperrors.ErrInvalidCredentials
	}
	return a, nil
}

// IssueTokens generates access/refresh tokens and records a session in Redis.
func (s *AuthService) IssueTokens(ctx context.Context, a *entity.Account) (TokenPair, error) {
	sid := uuid.NewString()
	access, aexp, err := s.JWT.GenerateAccessToken(a.ID, sid)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", a.ID).Error("generate access token failed")
		}
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(a.ID, sid)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", a.ID).Error("generate refresh token failed")
		}
		return TokenPair{}, err
	}

	if s.Redis != nil {
		fields := map[string]any{
			"user_id":    a.ID,
			"email":      a.Email,
			"name":       a.Name,
			"sid":        sid,
			"logged_in":  true,
			"created_at": nowRFC3339(),
		}
		key := sessionKey(a.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, fields)
		pipe.Expire(ctx, key, sessionTTL)
		if _, rErr := pipe.Exec(ctx); rErr != nil && s.Logger != nil {
			s.Logger.WithError(rErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}

	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResponse, TokenPair, error) {
	a, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.IssueTokens(ctx, a)
	if err != nil {
		return nil, TokenPair{}, err
	}
	resp := &LoginResponse{UserID: a.ID, Email: a.Email, Name: a.Name}
	return resp, pair, nil
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (TokenPair, string, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, "", apperrors.ErrInvalidCredentials
	}
	a, err := s.Accounts.GetByID(ctx, claims.UserID)
	if err != nil || a == nil {
		return TokenPair{}, "", apperrors.ErrInvalidCredentials
	}
	// Validate current session id matches the token's sid
	if s.Redis != nil {
		key := sessionKey(a.ID)
		data, rErr := s.Redis.HGetAll(ctx, key).Result()
		if rErr != nil || len(data) == 0 || data["sid"] != claims.SessionID {
			return TokenPair{}, "", apperrors.ErrInvalidCredentials
		}
	}
	// Rotate session id and tokens
	sid := uuid.NewString()
	access, aexp, err := s.JWT.GenerateAccessToken(a.ID, sid)
	if err != nil {
		return TokenPair{}, "", err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(a.ID, sid)
	if err != nil {
		return TokenPair{}, "", err
	}
	if s.Redis != nil {
		key := sessionKey(a.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"sid":        sid,
			"updated_at": nowRFC3339(),
		})
		pipe.Expire(ctx, key, sessionTTL)
		_, _ = pipe.Exec(ctx)
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, a.ID, nil
}

// Logout drops the redis session. Best-effort: a dead redis still logs the
// user out at the cookie layer.
func (s *AuthService) Logout(ctx context.Context, userID string) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(ctx, sessionKey(userID)).Err(); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Warn("session delete failed")
	}
}

// DeleteAccount removes the credential record. The caller purges the data
// store separately.
func (s *AuthService) DeleteAccount(ctx context.Context, userID string) error {
	s.Logout(ctx, userID)
	return s.Accounts.Delete(ctx, userID)
}
