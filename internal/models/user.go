package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WHS bounds for a stored handicap index.
const (
	MinHandicapIndex = -10.0
	MaxHandicapIndex = 54.0
)

// User is an account holder. PasswordHash holds either a bcrypt hash
// or, for accounts migrated from the legacy system, the original
// plaintext secret; the auth service detects the format and upgrades
// legacy credentials on the next successful login.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	DisplayName  string    `json:"display_name"`
	PasswordHash string    `gorm:"not null" json:"-"`

	// Current WHS handicap index; nil until the player sets one.
	// Rounds snapshot this value at creation and never read it again.
	HandicapIndex *float64 `json:"handicap_index,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// ValidHandicapIndex reports whether v is inside the WHS range.
func ValidHandicapIndex(v float64) bool {
	return v >= MinHandicapIndex && v <= MaxHandicapIndex
}
