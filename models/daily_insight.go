package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DailyInsight is the per-day rollup written after a day's transactions have
// been summarized. There is intentionally no UpdatedAt: rows are replaced
// through the (user_id, insight_date) upsert, never edited in place.
type DailyInsight struct {
	ID     uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID *uuid.UUID `gorm:"type:uuid;index:idx_daily_insights_user_id;uniqueIndex:idx_daily_insights_user_date" json:"user_id"`
	User   *User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`

	InsightDate      time.Time       `gorm:"type:date;not null;index:idx_daily_insights_date;uniqueIndex:idx_daily_insights_user_date" json:"insight_date"`
	TotalSpent       decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"total_spent"`
	TotalEarned      decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"total_earned"`
	TransactionCount int             `gorm:"not null;default:0" json:"transaction_count"`
	InsightText      *string         `gorm:"type:text" json:"insight_text,omitempty"`

	CreatedAt time.Time `gorm:"type:timestamptz;not null;default:now()" json:"created_at"`
}
