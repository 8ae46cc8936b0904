// Package store is the storage access layer for the finance schema: users,
// parsed transactions, budgets and daily insights on Postgres via GORM.
//
// Engine constraints carry the data invariants (unique email, unique source
// email id, one budget per user/category/month/year, one insight per
// user/day, the transaction_type check, cascading deletes). This package
// translates constraint violations into sentinel errors and enforces the one
// rule callers must never be able to dodge: every update stamps updated_at
// with the database clock, whatever the caller sent.
package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/tejasrajegowda/BudgetOps-AI/models"
)

// Store wraps a GORM connection. All methods are safe for concurrent use;
// the underlying *gorm.DB pools connections.
type Store struct {
	db *gorm.DB
}

// New returns a Store over db. The connection should be opened with
// TranslateError so constraint violations arrive as gorm sentinel errors.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Ping verifies the underlying connection.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// updatedAtFunction stamps rows with the server clock on every update,
// overriding whatever the client sent. The store's update paths set
// updated_at = now() themselves as well, so the invariant holds even on a
// database where the trigger was never installed.
const updatedAtFunction = `
CREATE OR REPLACE FUNCTION update_updated_at_column()
RETURNS TRIGGER AS $$
BEGIN
    NEW.updated_at = NOW();
    RETURN NEW;
END;
$$ LANGUAGE plpgsql`

// updatedAtTables lists every table carrying an updated_at column.
// daily_insights is absent on purpose: insight rows are replaced through the
// (user_id, insight_date) upsert, not edited.
var updatedAtTables = []string{"users", "transactions", "budgets"}

// Migrate reconciles the schema with the models, then reinstalls the
// updated_at trigger function and its bindings. Safe to run on every start.
func Migrate(db *gorm.DB) error {
	// gen_random_uuid is built in from Postgres 13; older engines need
	// pgcrypto. Best effort, the DSN user may lack the privilege.
	_ = db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error

	// Users first so the dependent foreign keys can be created.
	for _, m := range []any{
		&models.User{},
		&models.Transaction{},
		&models.Budget{},
		&models.DailyInsight{},
	} {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("migrate %T: %w", m, err)
		}
	}
	return ensureUpdatedAtTriggers(db)
}

func ensureUpdatedAtTriggers(db *gorm.DB) error {
	if err := db.Exec(updatedAtFunction).Error; err != nil {
		return fmt.Errorf("create updated_at function: %w", err)
	}
	for _, table := range updatedAtTables {
		trigger := fmt.Sprintf("update_%s_updated_at", table)
		if err := db.Exec(fmt.Sprintf(`DROP TRIGGER IF EXISTS %s ON %s`, trigger, table)).Error; err != nil {
			return fmt.Errorf("drop trigger on %s: %w", table, err)
		}
		create := fmt.Sprintf(
			`CREATE TRIGGER %s BEFORE UPDATE ON %s FOR EACH ROW EXECUTE FUNCTION update_updated_at_column()`,
			trigger, table,
		)
		if err := db.Exec(create).Error; err != nil {
			return fmt.Errorf("create trigger on %s: %w", table, err)
		}
	}
	return nil
}
