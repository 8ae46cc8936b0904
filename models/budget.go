package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Budget caps spending for one category in one calendar month. The composite
// unique index keeps a single row per (user, category, month, year); rows
// with a NULL user are not deduplicated, Postgres treats NULLs as distinct.
type Budget struct {
	ID     uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID *uuid.UUID `gorm:"type:uuid;index:idx_budgets_user_id;uniqueIndex:idx_budgets_user_category_month_year" json:"user_id"`
	User   *User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`

	Category     string          `gorm:"type:varchar(100);not null;uniqueIndex:idx_budgets_user_category_month_year" json:"category"`
	MonthlyLimit decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"monthly_limit"`
	Spent        decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"spent"`
	Month        int             `gorm:"not null;uniqueIndex:idx_budgets_user_category_month_year" json:"month"`
	Year         int             `gorm:"not null;uniqueIndex:idx_budgets_user_category_month_year" json:"year"`

	CreatedAt time.Time `gorm:"type:timestamptz;not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamptz;not null;default:now()" json:"updated_at"`
}
