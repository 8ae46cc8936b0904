package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction directions, the only values accepted by the
// transactions.transaction_type check constraint.
const (
	TransactionTypeCredit = "credit"
	TransactionTypeDebit  = "debit"
)

// ValidTransactionType reports whether t is one of the enumerated directions.
func ValidTransactionType(t string) bool {
	return t == TransactionTypeCredit || t == TransactionTypeDebit
}

// Transaction represents one financial movement, typically parsed out of a
// bank alert email. EmailID carries the source message id, so re-ingesting
// the same email can never land a second row. UserID is nullable: ingestion
// may record movements before an account claims them.
type Transaction struct {
	ID     uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID *uuid.UUID `gorm:"type:uuid;index:idx_transactions_user_id" json:"user_id"`
	User   *User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`

	Amount          decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"amount"`
	TransactionType string          `gorm:"type:varchar(10);not null;index:idx_transactions_type;check:chk_transactions_type,transaction_type IN ('credit','debit')" json:"transaction_type"`

	Card                       *string `gorm:"type:varchar(255)" json:"card,omitempty"`
	ToMerchant                 *string `gorm:"type:varchar(255)" json:"to_merchant,omitempty"`
	TransactionReferenceNumber *string `gorm:"type:varchar(255)" json:"transaction_reference_number,omitempty"`
	Description                *string `gorm:"type:text" json:"description,omitempty"`

	TransactionDate      time.Time  `gorm:"type:date;not null;index:idx_transactions_date" json:"transaction_date"`
	TransactionTimestamp *time.Time `gorm:"type:timestamptz" json:"transaction_timestamp,omitempty"`

	EmailID      *string `gorm:"type:varchar(255);uniqueIndex:idx_transactions_email_id" json:"email_id,omitempty"`
	EmailSubject *string `gorm:"type:text" json:"email_subject,omitempty"`
	EmailDate    *string `gorm:"type:text" json:"email_date,omitempty"`

	Category *string `gorm:"type:varchar(100);index:idx_transactions_category" json:"category,omitempty"`
	Insight  *string `gorm:"type:text" json:"insight,omitempty"`

	CreatedAt time.Time `gorm:"type:timestamptz;not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamptz;not null;default:now()" json:"updated_at"`
}
