package models

import (
	"time"

	"github.com/google/uuid"
)

// User model. Accounts are keyed by email; GmailConnected records whether
// the mailbox that feeds transaction ingestion has been linked.
type User struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Email          string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_users_email" json:"email"`
	GmailConnected bool      `gorm:"not null;default:false" json:"gmail_connected"`
	CreatedAt      time.Time `gorm:"type:timestamptz;not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time `gorm:"type:timestamptz;not null;default:now()" json:"updated_at"`
}
