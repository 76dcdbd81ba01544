package domain

import (
	"time"

	"github.com/google/uuid"
)

// Office is a care facility location. It must be disabled before it
// can be deleted, and only when no active users or staff remain.
type Office struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	PostalCode string    `json:"postalCode"`
	Address    string    `json:"address"`
	Phone      string    `json:"phone"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Group is a care group within an office.
type Group struct {
	ID          uuid.UUID `json:"id"`
	OfficeID    uuid.UUID `json:"officeId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Team is a working unit inside a group.
type Team struct {
	ID        uuid.UUID `json:"id"`
	GroupID   uuid.UUID `json:"groupId"`
	Name      string    `json:"name"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Staff is a care worker attached to an office.
type Staff struct {
	ID        uuid.UUID `json:"id"`
	OfficeID  uuid.UUID `json:"officeId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// User is a care recipient. Several attributes are sensitive and only
// reach roles whose visibility policy explicitly allows them.
type User struct {
	ID         uuid.UUID `json:"id"`
	OfficeID   uuid.UUID `json:"officeId"`
	GroupID    uuid.UUID `json:"groupId"`
	TeamID     uuid.UUID `json:"teamId"`
	Nickname   string    `json:"nickname"`
	PostalCode string    `json:"postalCode"`
	Address    string    `json:"address"`
	BirthDate  string    `json:"birthDate"`
	Gender     string    `json:"gender"`
	Rank       int       `json:"rank"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Admin is a console account for the care surface.
type Admin struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
