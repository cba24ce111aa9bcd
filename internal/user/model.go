package user

import "time"

type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusInactive  Status = "INACTIVE"
	StatusSuspended Status = "SUSPENDED"
	StatusDeleted   Status = "DELETED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusSuspended, StatusDeleted:
		return true
	}
	return false
}

type User struct {
	ID          int64
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber *string
	Address     *string
	Status      Status
	Version     int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

type CreateInput struct {
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber *string
	Address     *string
	Status      *Status
}

// UpdateInput is a partial update; nil fields keep their current value.
type UpdateInput struct {
	FirstName   *string
	LastName    *string
	Email       *string
	PhoneNumber *string
	Address     *string
	Status      *Status
}

type Filter struct {
	Status *Status
	Name   *string
}
