package service

import (
	"context"

	"traffic-assistant-be/internal/entity"
	"traffic-assistant-be/internal/pkg/apperror"
	"traffic-assistant-be/internal/pkg/credential"
	"traffic-assistant-be/internal/repository/specification"
	"traffic-assistant-be/internal/repository/unitofwork"
)

const invalidCredentialsMessage = "Could not validate credentials"

type IIdentityService interface {
	Resolve(ctx context.Context, token string) (*entity.Principal, error)
}

type identityService struct {
	uowFactory unitofwork.RepositoryFactory
	tokens     *credential.TokenIssuer
}

func NewIdentityService(uowFactory unitofwork.RepositoryFactory, tokens *credential.TokenIssuer) IIdentityService {
	return &identityService{
		uowFactory: uowFactory,
		tokens:     tokens,
	}
}

// Resolve turns a bearer token into the active user it names. The user is looked up by the
// id claim on every call.
func (s *identityService) Resolve(ctx context.Context, token string) (*entity.Principal, error) {
	identity, err := s.tokens.Verify(token)
	if err != nil {
		return nil, apperror.Unauthorized(invalidCredentialsMessage)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: identity.UserId})
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, apperror.Unauthorized(invalidCredentialsMessage)
	}

	return user.Principal(), nil
}
