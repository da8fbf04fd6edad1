package entity

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	Id           uuid.UUID
	Email        string
	FullName     string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal is the authenticated identity making a request.
type Principal struct {
	UserId    uuid.UUID
	Email     string
	FullName  string
	IsActive  bool
	CreatedAt time.Time
}

func (u *User) Principal() *Principal {
	return &Principal{
		UserId:    u.Id,
		Email:     u.Email,
		FullName:  u.FullName,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}
