package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tejasrajegowda/BudgetOps-AI/models"
)

// InsertDailyInsight creates the rollup row for one user and day. A second
// row for the same (user, insight_date) fails with ErrInsightExists.
func (s *Store) InsertDailyInsight(ctx context.Context, in *models.DailyInsight) error {
	if in.InsightDate.IsZero() {
		return ErrInsightDateRequired
	}
	in.InsightDate = dateOnly(in.InsightDate)

	if err := s.db.WithContext(ctx).Create(in).Error; err != nil {
		switch {
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return ErrInsightExists
		case errors.Is(err, gorm.ErrForeignKeyViolated):
			return ErrUserRequired
		}
		return err
	}
	return nil
}

// UpsertDailyInsight creates the rollup row or replaces its totals when the
// (user_id, insight_date) tuple exists. The summarizer re-runs over a day
// whenever late transactions arrive, so replacement is the normal case.
func (s *Store) UpsertDailyInsight(ctx context.Context, in *models.DailyInsight) error {
	if in.InsightDate.IsZero() {
		return ErrInsightDateRequired
	}
	in.InsightDate = dateOnly(in.InsightDate)

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "insight_date"}},
		DoUpdates: clause.Assignments(map[string]any{
			"total_spent":       in.TotalSpent,
			"total_earned":      in.TotalEarned,
			"transaction_count": in.TransactionCount,
			"insight_text":      in.InsightText,
		}),
	}).Create(in).Error
	if err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return ErrUserRequired
		}
		return err
	}
	return nil
}

// GetDailyInsight fetches the rollup for one user and day. A nil userID
// addresses the unowned rows.
func (s *Store) GetDailyInsight(ctx context.Context, userID *uuid.UUID, day time.Time) (*models.DailyInsight, error) {
	q := s.db.WithContext(ctx).Where("insight_date = ?", dateOnly(day).Format(time.DateOnly))
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	} else {
		q = q.Where("user_id IS NULL")
	}
	var in models.DailyInsight
	if err := q.First(&in).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInsightNotFound
		}
		return nil, err
	}
	return &in, nil
}

// ListDailyInsights returns rollups newest first, optionally bounded by an
// inclusive date range.
func (s *Store) ListDailyInsights(ctx context.Context, userID *uuid.UUID, start, end *time.Time, limit int) ([]models.DailyInsight, error) {
	q := s.db.WithContext(ctx).Model(&models.DailyInsight{})
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}
	if start != nil {
		q = q.Where("insight_date >= ?", start.Format(time.DateOnly))
	}
	if end != nil {
		q = q.Where("insight_date <= ?", end.Format(time.DateOnly))
	}
	if limit == 0 {
		limit = DefaultListLimit
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	out := []models.DailyInsight{}
	if err := q.Order("insight_date DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
