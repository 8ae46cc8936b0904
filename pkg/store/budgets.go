package store

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tejasrajegowda/BudgetOps-AI/models"
)

func validateBudget(b *models.Budget) error {
	b.Category = strings.TrimSpace(b.Category)
	if b.Category == "" {
		return ErrCategoryRequired
	}
	if b.Month < 1 || b.Month > 12 {
		return ErrInvalidMonth
	}
	return nil
}

// InsertBudget creates a budget row. A second row for the same
// (user, category, month, year) fails with ErrBudgetExists.
func (s *Store) InsertBudget(ctx context.Context, b *models.Budget) error {
	if err := validateBudget(b); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Create(b).Error; err != nil {
		switch {
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return ErrBudgetExists
		case errors.Is(err, gorm.ErrForeignKeyViolated):
			return ErrUserRequired
		}
		return err
	}
	return nil
}

// UpsertBudget creates the row or, when the (user, category, month, year)
// tuple exists, replaces its limit and running total. Rows with a NULL user
// never conflict, Postgres treats NULLs as distinct in the unique index.
func (s *Store) UpsertBudget(ctx context.Context, b *models.Budget) error {
	if err := validateBudget(b); err != nil {
		return err
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"}, {Name: "category"}, {Name: "month"}, {Name: "year"},
		},
		DoUpdates: clause.Assignments(map[string]any{
			"monthly_limit": b.MonthlyLimit,
			"spent":         b.Spent,
			"updated_at":    gorm.Expr("now()"),
		}),
	}).Create(b).Error
	if err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return ErrUserRequired
		}
		return err
	}
	return nil
}

// GetBudget fetches the row for one (user, category, month, year) tuple.
// A nil userID addresses the unowned rows.
func (s *Store) GetBudget(ctx context.Context, userID *uuid.UUID, category string, month, year int) (*models.Budget, error) {
	q := s.db.WithContext(ctx).Where("category = ? AND month = ? AND year = ?", category, month, year)
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	} else {
		q = q.Where("user_id IS NULL")
	}
	var b models.Budget
	if err := q.First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBudgetNotFound
		}
		return nil, err
	}
	return &b, nil
}

// GetBudgetByID fetches one row by primary key.
func (s *Store) GetBudgetByID(ctx context.Context, id uuid.UUID) (*models.Budget, error) {
	var b models.Budget
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBudgetNotFound
		}
		return nil, err
	}
	return &b, nil
}

// ListBudgets returns budgets for a user, optionally narrowed to one month.
// Zero month or year means no filter on that part.
func (s *Store) ListBudgets(ctx context.Context, userID *uuid.UUID, month, year int) ([]models.Budget, error) {
	if month < 0 || month > 12 {
		return nil, ErrInvalidMonth
	}
	q := s.db.WithContext(ctx).Model(&models.Budget{})
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}
	if month != 0 {
		q = q.Where("month = ?", month)
	}
	if year != 0 {
		q = q.Where("year = ?", year)
	}
	out := []models.Budget{}
	if err := q.Order("year DESC, month DESC, category ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// AddBudgetSpent moves the running total by delta (negative to correct) and
// returns the row as stored. updated_at advances with the database clock.
func (s *Store) AddBudgetSpent(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (*models.Budget, error) {
	res := s.db.WithContext(ctx).Model(&models.Budget{}).Where("id = ?", id).Updates(map[string]any{
		"spent":      gorm.Expr("spent + ?", delta),
		"updated_at": gorm.Expr("now()"),
	})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrBudgetNotFound
	}
	return s.GetBudgetByID(ctx, id)
}

// DeleteBudget removes one row by primary key.
func (s *Store) DeleteBudget(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Budget{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrBudgetNotFound
	}
	return nil
}
