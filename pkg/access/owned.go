package access

import (
	"context"
	"fmt"

	"traffic-assistant-be/internal/pkg/apperror"

	"github.com/google/uuid"
)

// Owned is any resource that belongs to a single user.
type Owned interface {
	OwnerId() uuid.UUID
}

// Finder loads a resource by id. found is false when no row exists.
type Finder[R Owned] func(ctx context.Context, id uuid.UUID) (resource R, found bool, err error)

// LoadOwned returns the resource identified by rawId if principalId owns it.
// A malformed id is reported as NotFound, the same as a missing row. A resource owned by
// someone else is Forbidden.
func LoadOwned[R Owned](ctx context.Context, kind, rawId string, principalId uuid.UUID, find Finder[R]) (R, error) {
	var zero R

	id, err := uuid.Parse(rawId)
	if err != nil {
		return zero, apperror.NotFound(fmt.Sprintf("%s not found", kind))
	}

	resource, found, err := find(ctx, id)
	if err != nil {
		return zero, err
	}
	if !found {
		return zero, apperror.NotFound(fmt.Sprintf("%s not found", kind))
	}
	if resource.OwnerId() != principalId {
		return zero, apperror.Forbidden(fmt.Sprintf("You don't have access to this %s", kind))
	}
	return resource, nil
}
