package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;not null;column:username" json:"username"`
	Name         string    `gorm:"not null;column:name" json:"name"`
	PasswordHash string    `gorm:"not null;column:password_hash" json:"-"`
	Photo        PhotoInfo `gorm:"embedded;embeddedPrefix:photo_" json:"photoInfo"`

	// ContactRefs is the ordered list of contact ids owned by this
	// user, the inverse side of Contact.OwnerID. Stored as a JSON
	// array column to keep the original ordering.
	ContactRefs datatypes.JSONSlice[string] `gorm:"column:contact_refs" json:"contacts"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// HasContactRef reports whether id already appears in ContactRefs.
func (u *User) HasContactRef(id string) bool {
	for _, ref := range u.ContactRefs {
		if ref == id {
			return true
		}
	}
	return false
}

// RemoveContactRef filters id out of ContactRefs by value comparison
// and reports whether anything was removed.
func (u *User) RemoveContactRef(id string) bool {
	kept := make([]string, 0, len(u.ContactRefs))
	removed := false
	for _, ref := range u.ContactRefs {
		if ref == id {
			removed = true
			continue
		}
		kept = append(kept, ref)
	}
	u.ContactRefs = kept
	return removed
}
