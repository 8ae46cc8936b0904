package store

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tejasrajegowda/BudgetOps-AI/models"
)

// CreateUser inserts a new account. A second account with the same email
// fails with ErrDuplicateEmail.
func (s *Store) CreateUser(ctx context.Context, email string, gmailConnected bool) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	u := models.User{Email: email, GmailConnected: gmailConnected}
	if err := s.db.WithContext(ctx).Create(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return &u, nil
}

// GetOrCreateUser returns the account for email, creating it on first sight.
// Created accounts start with gmail_connected true: the only caller that
// discovers new emails is the mailbox ingestion, which by definition has the
// mailbox linked.
func (s *Store) GetOrCreateUser(ctx context.Context, email string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	var u models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if err == nil {
		return &u, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	u = models.User{Email: email, GmailConnected: true}
	if err := s.db.WithContext(ctx).Create(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the race; fetch the winner.
			var won models.User
			if err2 := s.db.WithContext(ctx).Where("email = ?", email).First(&won).Error; err2 == nil {
				return &won, nil
			}
		}
		return nil, err
	}
	return &u, nil
}

// GetUser fetches an account by id.
func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetUserByEmail fetches an account by email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("email = ?", strings.TrimSpace(email)).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// SetGmailConnected flips the mailbox link flag. updated_at is stamped with
// the database clock, never a caller value.
func (s *Store) SetGmailConnected(ctx context.Context, id uuid.UUID, connected bool) (*models.User, error) {
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(map[string]any{
		"gmail_connected": connected,
		"updated_at":      gorm.Expr("now()"),
	})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrUserNotFound
	}
	return s.GetUser(ctx, id)
}

// DeleteUser removes the account. Transactions, budgets and daily insights
// referencing it go with it through the ON DELETE CASCADE constraints.
func (s *Store) DeleteUser(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.User{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// SeedUser inserts the placeholder account used by single-user deployments.
// It is an INSERT ... ON CONFLICT (email) DO NOTHING, so running it on every
// startup is harmless. The returned flag reports whether a row was created.
func (s *Store) SeedUser(ctx context.Context, email string) (bool, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return false, ErrEmailRequired
	}
	u := models.User{Email: email, GmailConnected: false}
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoNothing: true,
	}).Create(&u)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
