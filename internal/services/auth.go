package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/aumugisha-umu/seido-backend/internal/data/repos"
	types "github.com/aumugisha-umu/seido-backend/internal/domain"
	"github.com/aumugisha-umu/seido-backend/internal/domain/property"
	"github.com/aumugisha-umu/seido-backend/internal/domain/workflow"
	"github.com/aumugisha-umu/seido-backend/internal/pkg/ctxutil"
	"github.com/aumugisha-umu/seido-backend/internal/pkg/dbctx"
	"github.com/aumugisha-umu/seido-backend/internal/pkg/logger"
)

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, in LoginInput) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthResult, error)
	Logout(ctx context.Context) error

	// ContextFromToken validates a bearer token and returns a context carrying
	// the authenticated actor.
	ContextFromToken(ctx context.Context, token string) (context.Context, error)
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      string
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthResult struct {
	User         *types.User `json:"user"`
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	ExpiresAt    time.Time   `json:"expires_at"`
}

type AuthConfig struct {
	JWTSecret  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type authService struct {
	log    *logger.Logger
	cfg    AuthConfig
	users  repos.UserRepo
	tokens repos.UserTokenRepo
}

func NewAuthService(baseLog *logger.Logger, cfg AuthConfig, users repos.UserRepo, tokens repos.UserTokenRepo) AuthService {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 15 * time.Minute
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 30 * 24 * time.Hour
	}
	return &authService{
		log:    baseLog.With("service", "AuthService"),
		cfg:    cfg,
		users:  users,
		tokens: tokens,
	}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	const op = "auth.register"

	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, workflow.NewError(workflow.CodeValidation, op, "a valid email is required", nil)
	}
	if len(in.Password) < 8 {
		return nil, workflow.NewError(workflow.CodeValidation, op, "password must be at least 8 characters", nil)
	}
	role := strings.TrimSpace(in.Role)
	if role == "" {
		role = string(types.RoleTenant)
	}
	if _, err := property.ParseRole(role); err != nil {
		return nil, workflow.NewError(workflow.CodeValidation, op, "unknown role", err)
	}

	existing, err := s.users.GetByEmail(dbctx.Context{Ctx: ctx}, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, workflow.NewError(workflow.CodeConflict, op, "email already registered", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, workflow.NewError(workflow.CodeInternal, op, "password hashing failed", err)
	}

	user := &types.User{
		Email:     email,
		Password:  string(hash),
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Role:      role,
	}
	if _, err := s.users.Create(dbctx.Context{Ctx: ctx}, []*types.User{user}); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user)
}

func (s *authService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	const op = "auth.login"

	user, err := s.users.GetByEmail(dbctx.Context{Ctx: ctx}, in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, workflow.NewError(workflow.CodeUnauthorized, op, "invalid credentials", nil)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)) != nil {
		return nil, workflow.NewError(workflow.CodeUnauthorized, op, "invalid credentials", nil)
	}

	return s.issueTokens(ctx, user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	const op = "auth.refresh"

	row, err := s.tokens.GetByRefreshToken(dbctx.Context{Ctx: ctx}, strings.TrimSpace(refreshToken))
	if err != nil {
		return nil, err
	}
	if row == nil || time.Now().After(row.ExpiresAt) {
		return nil, workflow.NewError(workflow.CodeUnauthorized, op, "refresh token invalid or expired", nil)
	}

	users, err := s.users.GetByIDs(dbctx.Context{Ctx: ctx}, []uuid.UUID{row.UserID})
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, workflow.NewError(workflow.CodeUnauthorized, op, "user no longer exists", nil)
	}

	return s.issueTokens(ctx, users[0])
}

func (s *authService) Logout(ctx context.Context) error {
	const op = "auth.logout"

	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return workflow.NewError(workflow.CodeUnauthorized, op, "missing authenticated actor", nil)
	}
	return s.tokens.DeleteByUserID(dbctx.Context{Ctx: ctx}, rd.UserID)
}

func (s *authService) ContextFromToken(ctx context.Context, token string) (context.Context, error) {
	const op = "auth.context_from_token"

	token = strings.TrimSpace(token)
	if token == "" {
		return nil, workflow.NewError(workflow.CodeUnauthorized, op, "missing bearer token", nil)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, workflow.NewError(workflow.CodeUnauthorized, op, "unexpected signing method", nil)
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, workflow.NewError(workflow.CodeUnauthorized, op, "invalid token", err)
	}

	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, workflow.NewError(workflow.CodeUnauthorized, op, "invalid subject claim", err)
	}
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)

	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{
		UserID: userID,
		Email:  email,
		Role:   role,
	}), nil
}

func (s *authService) issueTokens(ctx context.Context, user *types.User) (*AuthResult, error) {
	const op = "auth.issue_tokens"

	now := time.Now()
	expiresAt := now.Add(s.cfg.AccessTTL)
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"role":  user.Role,
		"iat":   now.Unix(),
		"exp":   expiresAt.Unix(),
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, workflow.NewError(workflow.CodeInternal, op, "access token signing failed", err)
	}

	refresh, err := randomToken(32)
	if err != nil {
		return nil, workflow.NewError(workflow.CodeInternal, op, "refresh token generation failed", err)
	}

	// One refresh token per user: replace the previous session.
	if err := s.tokens.DeleteByUserID(dbctx.Context{Ctx: ctx}, user.ID); err != nil {
		return nil, err
	}
	err = s.tokens.Create(dbctx.Context{Ctx: ctx}, &types.UserToken{
		UserID:       user.ID,
		RefreshToken: refresh,
		ExpiresAt:    now.Add(s.cfg.RefreshTTL),
	})
	if err != nil {
		return nil, err
	}

	return &AuthResult{
		User:         user,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
	}, nil
}

func randomToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
