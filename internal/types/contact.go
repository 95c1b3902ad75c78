package types

import (
	"time"

	"github.com/google/uuid"
)

type Contact struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FirstName string    `gorm:"not null;column:first_name" json:"firstName"`
	LastName  string    `gorm:"not null;column:last_name" json:"lastName"`
	Address   string    `gorm:"not null;column:address" json:"address"`
	EmailAdd  string    `gorm:"not null;column:email_add" json:"emailAdd"`
	Number    string    `gorm:"not null;column:number" json:"number"`
	Favorite  bool      `gorm:"not null;default:false;column:favorite" json:"favorite"`
	OwnerID   uuid.UUID `gorm:"type:uuid;index;not null;column:owner_id" json:"userId"`
	Photo     PhotoInfo `gorm:"embedded;embeddedPrefix:photo_" json:"photoInfo"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Contact) TableName() string {
	return "contacts"
}

// OwnerRef is the owner identity projection attached to contacts on
// list reads.
type OwnerRef struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Name     string    `json:"name"`
}

// ContactWithOwner is a Contact with its owner's identity fields
// projected in, the list-endpoint wire shape.
type ContactWithOwner struct {
	Contact
	Owner OwnerRef `json:"owner"`
}
