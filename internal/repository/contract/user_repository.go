package contract

import (
	"context"
	"time"

	"traffic-assistant-be/internal/entity"
	"traffic-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
)

// DuplicateEmailMessage is reported by both the registration pre-check and the unique index.
const DuplicateEmailMessage = "Email already registered"

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	TouchActivity(ctx context.Context, id uuid.UUID, at time.Time) error
}
