package domain

import (
	"time"

	"github.com/google/uuid"
)

// Group is a class. It owns its subgroups and a membership set; the three
// join codes are unique across all groups.
type Group struct {
	ID              uuid.UUID
	Name            string
	Description     *string
	PasswordHash    []byte
	GroupCode       string
	AdminJoinCode   string
	StudentJoinCode string
	Status          GroupStatus
	SubGroups       []SubGroup
	CreatedAt       time.Time
	EditedAt        time.Time
}

// SubGroup has no identity outside its parent group; it is always addressed
// by the (GroupID, ID) pair.
type SubGroup struct {
	GroupID uuid.UUID
	ID      uuid.UUID
	Name    string
	Status  SubGroupStatus
}
