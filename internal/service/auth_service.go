package service

import (
	"context"
	"errors"
	"time"

	"traffic-assistant-be/internal/dto"
	"traffic-assistant-be/internal/entity"
	"traffic-assistant-be/internal/pkg/apperror"
	"traffic-assistant-be/internal/pkg/credential"
	"traffic-assistant-be/internal/pkg/logger"
	"traffic-assistant-be/internal/repository/contract"
	"traffic-assistant-be/internal/repository/specification"
	"traffic-assistant-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

const (
	tokenTypeBearer     = "bearer"
	loginFailureMessage = "Incorrect email or password"
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.TokenResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Me(ctx context.Context, principal *entity.Principal) *dto.UserResponse
	Logout(ctx context.Context, principal *entity.Principal)
}

type authService struct {
	uowFactory unitofwork.RepositoryFactory
	tokens     *credential.TokenIssuer
	tokenTTL   time.Duration
	activity   IActivityPublisher
	logger     logger.ILogger
	now        func() time.Time
}

func NewAuthService(
	uowFactory unitofwork.RepositoryFactory,
	tokens *credential.TokenIssuer,
	tokenTTL time.Duration,
	activity IActivityPublisher,
	logger logger.ILogger,
) IAuthService {
	return &authService{
		uowFactory: uowFactory,
		tokens:     tokens,
		tokenTTL:   tokenTTL,
		activity:   activity,
		logger:     logger,
		now:        utcNow,
	}
}

// utcNow is truncated to microseconds, the resolution Postgres keeps.
func utcNow() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.TokenResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	// The unique index is authoritative; this check just gives the common case a clean error.
	existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.Duplicate(contract.DuplicateEmailMessage)
	}

	hash, err := credential.HashPassword(req.Password)
	if errors.Is(err, credential.ErrPasswordTooLong) {
		return nil, apperror.Validation("password must be at most 72 bytes")
	}
	if err != nil {
		return nil, apperror.Internal("hash password", err)
	}

	now := s.now()
	user := &entity.User{
		Id:           uuid.New(),
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, err
	}

	res, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("AuthService", "User registered", map[string]interface{}{
		"user_id": user.Id.String(),
		"email":   user.Email,
	})
	s.activity.UserRegistered(ctx, user)
	return res, nil
}

// Login rejects unknown emails, wrong passwords and inactive accounts with the same message.
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}
	hash := credential.DummyHash()
	if user != nil {
		hash = user.PasswordHash
	}
	passwordOk := credential.VerifyPassword(req.Password, hash)
	if user == nil || !passwordOk || !user.IsActive {
		s.logger.Warn("AuthService", "Login rejected", map[string]interface{}{"email": req.Email})
		return nil, apperror.Unauthorized(loginFailureMessage)
	}

	now := s.now()
	if err := uow.UserRepository().TouchActivity(ctx, user.Id, now); err != nil {
		return nil, err
	}
	user.UpdatedAt = now

	res, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("AuthService", "User logged in", map[string]interface{}{
		"user_id": user.Id.String(),
	})
	s.activity.UserLoggedIn(ctx, user)
	return res, nil
}

func (s *authService) Me(ctx context.Context, principal *entity.Principal) *dto.UserResponse {
	res := toUserResponse(principal)
	return &res
}

// Logout only acknowledges; tokens stay valid until they expire.
func (s *authService) Logout(ctx context.Context, principal *entity.Principal) {
	s.logger.Info("AuthService", "User logged out", map[string]interface{}{
		"user_id": principal.UserId.String(),
	})
	s.activity.UserLoggedOut(ctx, principal)
}

func (s *authService) issue(user *entity.User) (*dto.TokenResponse, error) {
	token, expiresAt, err := s.tokens.Issue(credential.Identity{Email: user.Email, UserId: user.Id}, s.tokenTTL)
	if err != nil {
		return nil, apperror.Internal("issue token", err)
	}
	return &dto.TokenResponse{
		AccessToken: token,
		TokenType:   tokenTypeBearer,
		ExpiresAt:   expiresAt,
		User:        toUserResponse(user.Principal()),
	}, nil
}

func toUserResponse(p *entity.Principal) dto.UserResponse {
	return dto.UserResponse{
		Id:        p.UserId,
		Email:     p.Email,
		FullName:  p.FullName,
		IsActive:  p.IsActive,
		CreatedAt: p.CreatedAt,
	}
}
