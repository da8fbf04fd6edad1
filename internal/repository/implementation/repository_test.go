package implementation

import (
	"context"
	"testing"
	"time"

	"traffic-assistant-be/internal/entity"
	"traffic-assistant-be/internal/pkg/apperror"
	"traffic-assistant-be/internal/repository/contract"
	"traffic-assistant-be/internal/repository/specification"
	"traffic-assistant-be/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUser(email string) *entity.User {
	now := time.Now().UTC()
	return &entity.User{
		Id:           uuid.New(),
		Email:        email,
		FullName:     "Test Driver",
		PasswordHash: "hash",
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestUserRepositoryUniqueEmail(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newUser("driver@example.com")))

	err := repo.Create(ctx, newUser("driver@example.com"))
	assert.ErrorIs(t, err, apperror.ErrDuplicate)
	assert.Equal(t, contract.DuplicateEmailMessage, err.Error())

	// stored as given, so a different case is a different email
	assert.NoError(t, repo.Create(ctx, newUser("Driver@example.com")))
}

func TestUserRepositoryFindAndTouch(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := newUser("driver@example.com")
	require.NoError(t, repo.Create(ctx, u))

	found, err := repo.FindOne(ctx, specification.ByEmail{Email: "driver@example.com"})
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, u.Id, found.Id)

	missing, err := repo.FindOne(ctx, specification.ByID{ID: uuid.New()})
	require.NoError(t, err)
	assert.Nil(t, missing)

	later := u.UpdatedAt.Add(time.Hour)
	require.NoError(t, repo.TouchActivity(ctx, u.Id, later))

	found, err = repo.FindOne(ctx, specification.ByID{ID: u.Id})
	require.NoError(t, err)
	assert.True(t, later.Equal(found.UpdatedAt))
}

func TestConversationTouchIncrementsAtomically(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewConversationRepository(db)
	ctx := context.Background()

	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := &entity.Conversation{Id: uuid.New(), UserId: uuid.New(), Title: "Helmets", CreatedAt: created, UpdatedAt: created}
	require.NoError(t, repo.Create(ctx, c))

	touched := created.Add(time.Minute)
	require.NoError(t, repo.Touch(ctx, c.Id, touched))
	require.NoError(t, repo.Touch(ctx, c.Id, touched.Add(time.Second)))

	got, err := repo.FindOne(ctx, specification.ByID{ID: c.Id})
	require.NoError(t, err)
	assert.Equal(t, 2, got.MessageCount)
	assert.True(t, touched.Add(time.Second).Equal(got.UpdatedAt))
	assert.True(t, created.Equal(got.CreatedAt))

	err = repo.Touch(ctx, uuid.New(), touched)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestConversationListOrderedByUpdatedAt(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewConversationRepository(db)
	ctx := context.Background()
	owner := uuid.New()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		c := &entity.Conversation{Id: uuid.New(), UserId: owner, Title: "c", CreatedAt: base, UpdatedAt: base.Add(time.Duration(i) * time.Hour)}
		require.NoError(t, repo.Create(ctx, c))
		ids = append(ids, c.Id)
	}
	require.NoError(t, repo.Create(ctx, &entity.Conversation{Id: uuid.New(), UserId: uuid.New(), Title: "other", CreatedAt: base, UpdatedAt: base}))

	list, err := repo.FindAll(ctx,
		specification.UserOwnedBy{UserID: owner},
		specification.OrderBy{Field: "updated_at", Desc: true},
	)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []uuid.UUID{ids[2], ids[1], ids[0]}, []uuid.UUID{list[0].Id, list[1].Id, list[2].Id})
}

func TestMessagesOrderedByCreatedAtRegardlessOfInsertOrder(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()
	conversationId := uuid.New()
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	offsets := []time.Duration{3 * time.Second, 0, 5 * time.Millisecond, 2 * time.Second, 1500 * time.Microsecond}
	for i, off := range offsets {
		role := entity.MessageRoleUser
		if i%2 == 1 {
			role = entity.MessageRoleAssistant
		}
		require.NoError(t, repo.Create(ctx, &entity.Message{
			Id:             uuid.New(),
			ConversationId: conversationId,
			Role:           role,
			Content:        "m",
			CreatedAt:      base.Add(off),
		}))
	}

	list, err := repo.FindAll(ctx,
		specification.ByConversationID{ConversationID: conversationId},
		specification.OrderBy{Field: "created_at"},
		specification.OrderBy{Field: "id"},
	)
	require.NoError(t, err)
	require.Len(t, list, len(offsets))
	for i := 1; i < len(list); i++ {
		assert.False(t, list[i].CreatedAt.Before(list[i-1].CreatedAt), "message %d is older than its predecessor", i)
	}
}

func TestDeleteReportsAffectedRows(t *testing.T) {
	db := testutil.NewTestDB(t)
	conversations := NewConversationRepository(db)
	messages := NewMessageRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	c := &entity.Conversation{Id: uuid.New(), UserId: uuid.New(), Title: "t", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, conversations.Create(ctx, c))
	for i := 0; i < 3; i++ {
		require.NoError(t, messages.Create(ctx, &entity.Message{Id: uuid.New(), ConversationId: c.Id, Role: entity.MessageRoleUser, Content: "x", CreatedAt: now}))
	}

	n, err := messages.DeleteByConversationId(ctx, c.Id)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	rows, err := conversations.Delete(ctx, c.Id)
	require.NoError(t, err)
	assert.EqualValues(t, 1, rows)

	rows, err = conversations.Delete(ctx, c.Id)
	require.NoError(t, err)
	assert.EqualValues(t, 0, rows)
}
