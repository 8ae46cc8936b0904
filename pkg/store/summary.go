package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tejasrajegowda/BudgetOps-AI/models"
)

// DailySummary is the dashboard's day view: totals plus the rows behind
// them. Date is the calendar day in YYYY-MM-DD form.
type DailySummary struct {
	Date             string               `json:"date"`
	TotalSpent       decimal.Decimal      `json:"total_spent"`
	TotalEarned      decimal.Decimal      `json:"total_earned"`
	Net              decimal.Decimal      `json:"net"`
	TransactionCount int                  `json:"transaction_count"`
	Transactions     []models.Transaction `json:"transactions"`
}

// MonthlySummary aggregates one calendar month.
type MonthlySummary struct {
	Year              int             `json:"year"`
	Month             int             `json:"month"`
	TotalSpent        decimal.Decimal `json:"total_spent"`
	TotalEarned       decimal.Decimal `json:"total_earned"`
	Net               decimal.Decimal `json:"net"`
	TransactionCount  int             `json:"transaction_count"`
	AverageDailySpend decimal.Decimal `json:"average_daily_spend"`
}

// CategoryTotal is one row of the spending-by-category breakdown.
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// SummarizeTransactions folds rows into debit and credit totals.
func SummarizeTransactions(txs []models.Transaction) (spent, earned decimal.Decimal) {
	spent, earned = decimal.Zero, decimal.Zero
	for _, t := range txs {
		switch t.TransactionType {
		case models.TransactionTypeDebit:
			spent = spent.Add(t.Amount)
		case models.TransactionTypeCredit:
			earned = earned.Add(t.Amount)
		}
	}
	return spent, earned
}

// AverageDailySpend divides a month's spend across its calendar days,
// rounded to cents.
func AverageDailySpend(total decimal.Decimal, days int) decimal.Decimal {
	if days <= 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(days))).Round(2)
}

// MonthRange returns the first and last day of a calendar month.
func MonthRange(year, month int) (start, end time.Time) {
	start = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end = start.AddDate(0, 1, -1)
	return start, end
}

// DailySummary aggregates one day. Totals are computed in code from the
// day's rows, which ride along in the result; a nil userID spans all rows,
// matching the single-account deployments this grew up in.
func (s *Store) DailySummary(ctx context.Context, userID *uuid.UUID, day time.Time) (*DailySummary, error) {
	day = dateOnly(day)
	txs, err := s.ListTransactions(ctx, TransactionFilter{
		UserID:    userID,
		StartDate: &day,
		EndDate:   &day,
		Limit:     NoLimit,
	})
	if err != nil {
		return nil, err
	}
	spent, earned := SummarizeTransactions(txs)
	return &DailySummary{
		Date:             day.Format(time.DateOnly),
		TotalSpent:       spent,
		TotalEarned:      earned,
		Net:              earned.Sub(spent),
		TransactionCount: len(txs),
		Transactions:     txs,
	}, nil
}

// MonthlySummary aggregates one calendar month. The average divides total
// spend by the month's day count, not by days elapsed.
func (s *Store) MonthlySummary(ctx context.Context, userID *uuid.UUID, year, month int) (*MonthlySummary, error) {
	if month < 1 || month > 12 {
		return nil, ErrInvalidMonth
	}
	start, end := MonthRange(year, month)
	txs, err := s.ListTransactions(ctx, TransactionFilter{
		UserID:    userID,
		StartDate: &start,
		EndDate:   &end,
		Limit:     NoLimit,
	})
	if err != nil {
		return nil, err
	}
	spent, earned := SummarizeTransactions(txs)
	return &MonthlySummary{
		Year:              year,
		Month:             month,
		TotalSpent:        spent,
		TotalEarned:       earned,
		Net:               earned.Sub(spent),
		TransactionCount:  len(txs),
		AverageDailySpend: AverageDailySpend(spent, end.Day()),
	}, nil
}

// CategoryTotals groups debit amounts by category over an optional user and
// inclusive date range, largest spend first. Uncategorized rows land in the
// Others bucket.
func (s *Store) CategoryTotals(ctx context.Context, userID *uuid.UUID, start, end *time.Time) ([]CategoryTotal, error) {
	q := s.db.WithContext(ctx).Model(&models.Transaction{}).
		Select("COALESCE(category, ?) AS category, SUM(amount) AS total", models.CategoryOthers).
		Where("transaction_type = ?", models.TransactionTypeDebit)
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}
	if start != nil {
		q = q.Where("transaction_date >= ?", start.Format(time.DateOnly))
	}
	if end != nil {
		q = q.Where("transaction_date <= ?", end.Format(time.DateOnly))
	}
	out := []CategoryTotal{}
	group := fmt.Sprintf("COALESCE(category, '%s')", models.CategoryOthers)
	if err := q.Group(group).Order("total DESC").Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
