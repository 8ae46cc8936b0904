package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tejasrajegowda/BudgetOps-AI/models"
)

// DefaultListLimit matches the dashboard page size.
const DefaultListLimit = 100

// NoLimit disables the result cap on ListTransactions.
const NoLimit = -1

// TransactionFilter narrows ListTransactions. A zero Limit applies
// DefaultListLimit; NoLimit returns everything that matches.
type TransactionFilter struct {
	UserID    *uuid.UUID
	StartDate *time.Time // inclusive calendar date
	EndDate   *time.Time // inclusive calendar date
	Type      string     // credit or debit, empty for both
	Category  string
	Limit     int
}

// InsertTransaction stores one parsed movement. A row whose source email was
// already ingested fails with ErrDuplicateEmailID; a reference to a missing
// user fails with ErrUserRequired.
func (s *Store) InsertTransaction(ctx context.Context, t *models.Transaction) error {
	if !models.ValidTransactionType(t.TransactionType) {
		return ErrInvalidTransactionType
	}
	if t.TransactionDate.IsZero() {
		return ErrTransactionDateRequired
	}
	t.TransactionDate = dateOnly(t.TransactionDate)

	if err := s.db.WithContext(ctx).Create(t).Error; err != nil {
		switch {
		case errors.Is(err, gorm.ErrDuplicatedKey) && t.EmailID != nil:
			return ErrDuplicateEmailID
		case errors.Is(err, gorm.ErrForeignKeyViolated):
			return ErrUserRequired
		case errors.Is(err, gorm.ErrCheckConstraintViolated):
			return ErrInvalidTransactionType
		}
		return err
	}
	return nil
}

// InsertTransactionsBatch inserts rows one at a time the way the mailbox
// ingestion hands them over. Rows whose source email is already stored are
// skipped and counted; any other violation aborts the batch and returns what
// was inserted so far.
func (s *Store) InsertTransactionsBatch(ctx context.Context, txs []models.Transaction) ([]models.Transaction, int, error) {
	inserted := make([]models.Transaction, 0, len(txs))
	skipped := 0
	for i := range txs {
		err := s.InsertTransaction(ctx, &txs[i])
		if errors.Is(err, ErrDuplicateEmailID) {
			skipped++
			continue
		}
		if err != nil {
			return inserted, skipped, err
		}
		inserted = append(inserted, txs[i])
	}
	return inserted, skipped, nil
}

// GetTransaction fetches one row by id.
func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	var t models.Transaction
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return &t, nil
}

// GetTransactionByEmailID fetches the row ingested from a given source
// email. Ingestion uses it to decide whether a message was already handled.
func (s *Store) GetTransactionByEmailID(ctx context.Context, emailID string) (*models.Transaction, error) {
	var t models.Transaction
	if err := s.db.WithContext(ctx).Where("email_id = ?", emailID).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return &t, nil
}

// ListTransactions returns matching rows, newest transaction date first.
func (s *Store) ListTransactions(ctx context.Context, f TransactionFilter) ([]models.Transaction, error) {
	if f.Type != "" && !models.ValidTransactionType(f.Type) {
		return nil, ErrInvalidTransactionType
	}

	q := s.db.WithContext(ctx).Model(&models.Transaction{})
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.StartDate != nil {
		q = q.Where("transaction_date >= ?", f.StartDate.Format(time.DateOnly))
	}
	if f.EndDate != nil {
		q = q.Where("transaction_date <= ?", f.EndDate.Format(time.DateOnly))
	}
	if f.Type != "" {
		q = q.Where("transaction_type = ?", f.Type)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}

	limit := f.Limit
	if limit == 0 {
		limit = DefaultListLimit
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	out := []models.Transaction{}
	if err := q.Order("transaction_date DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// TransactionUpdate lists the mutable transaction fields; nil leaves a field
// untouched. There is deliberately no way to supply updated_at or
// created_at through it.
type TransactionUpdate struct {
	Amount                     *decimal.Decimal
	TransactionType            *string
	Card                       *string
	ToMerchant                 *string
	TransactionReferenceNumber *string
	Description                *string
	TransactionDate            *time.Time
	TransactionTimestamp       *time.Time
	EmailID                    *string
	EmailSubject               *string
	EmailDate                  *string
	Category                   *string
	Insight                    *string
}

// UpdateTransaction applies the non-nil fields of upd and returns the row as
// stored. updated_at is stamped with the database clock on every call.
func (s *Store) UpdateTransaction(ctx context.Context, id uuid.UUID, upd TransactionUpdate) (*models.Transaction, error) {
	updates := map[string]any{}
	if upd.Amount != nil {
		updates["amount"] = *upd.Amount
	}
	if upd.TransactionType != nil {
		if !models.ValidTransactionType(*upd.TransactionType) {
			return nil, ErrInvalidTransactionType
		}
		updates["transaction_type"] = *upd.TransactionType
	}
	if upd.Card != nil {
		updates["card"] = *upd.Card
	}
	if upd.ToMerchant != nil {
		updates["to_merchant"] = *upd.ToMerchant
	}
	if upd.TransactionReferenceNumber != nil {
		updates["transaction_reference_number"] = *upd.TransactionReferenceNumber
	}
	if upd.Description != nil {
		updates["description"] = *upd.Description
	}
	if upd.TransactionDate != nil {
		updates["transaction_date"] = dateOnly(*upd.TransactionDate).Format(time.DateOnly)
	}
	if upd.TransactionTimestamp != nil {
		updates["transaction_timestamp"] = *upd.TransactionTimestamp
	}
	if upd.EmailID != nil {
		updates["email_id"] = *upd.EmailID
	}
	if upd.EmailSubject != nil {
		updates["email_subject"] = *upd.EmailSubject
	}
	if upd.EmailDate != nil {
		updates["email_date"] = *upd.EmailDate
	}
	if upd.Category != nil {
		updates["category"] = *upd.Category
	}
	if upd.Insight != nil {
		updates["insight"] = *upd.Insight
	}
	updates["updated_at"] = gorm.Expr("now()")

	res := s.db.WithContext(ctx).Model(&models.Transaction{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		switch {
		case errors.Is(res.Error, gorm.ErrDuplicatedKey):
			return nil, ErrDuplicateEmailID
		case errors.Is(res.Error, gorm.ErrForeignKeyViolated):
			return nil, ErrUserRequired
		case errors.Is(res.Error, gorm.ErrCheckConstraintViolated):
			return nil, ErrInvalidTransactionType
		}
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrTransactionNotFound
	}
	return s.GetTransaction(ctx, id)
}

// DeleteTransaction removes one row by id.
func (s *Store) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Transaction{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

// dateOnly strips the clock so DATE columns compare cleanly.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
