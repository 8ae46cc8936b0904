package store

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/tejasrajegowda/BudgetOps-AI/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestSummarizeTransactions(t *testing.T) {
	txs := []models.Transaction{
		{Amount: dec("120.50"), TransactionType: models.TransactionTypeDebit},
		{Amount: dec("42.25"), TransactionType: models.TransactionTypeDebit},
		{Amount: dec("1000.00"), TransactionType: models.TransactionTypeCredit},
	}

	spent, earned := SummarizeTransactions(txs)
	assert.True(t, spent.Equal(dec("162.75")), "spent = %s", spent)
	assert.True(t, earned.Equal(dec("1000.00")), "earned = %s", earned)
}

func TestSummarizeTransactionsEmpty(t *testing.T) {
	spent, earned := SummarizeTransactions(nil)
	assert.True(t, spent.IsZero())
	assert.True(t, earned.IsZero())
}

func TestAverageDailySpend(t *testing.T) {
	cases := []struct {
		total string
		days  int
		want  string
	}{
		{"310.00", 31, "10"},
		{"100.00", 30, "3.33"},
		{"0", 28, "0"},
		{"50.00", 0, "0"},
	}
	for _, c := range cases {
		got := AverageDailySpend(dec(c.total), c.days)
		assert.True(t, got.Equal(dec(c.want)), "AverageDailySpend(%s, %d) = %s, want %s", c.total, c.days, got, c.want)
	}
}

func TestMonthRange(t *testing.T) {
	cases := []struct {
		year, month int
		lastDay     int
	}{
		{2024, 6, 30},
		{2024, 2, 29},
		{2023, 2, 28},
		{2025, 12, 31},
	}
	for _, c := range cases {
		start, end := MonthRange(c.year, c.month)
		assert.Equal(t, 1, start.Day())
		assert.Equal(t, time.Month(c.month), start.Month())
		assert.Equal(t, c.lastDay, end.Day())
		assert.Equal(t, time.Month(c.month), end.Month())
		assert.Equal(t, c.year, end.Year())
	}
}

func TestDateOnly(t *testing.T) {
	in := time.Date(2024, 6, 15, 23, 45, 12, 999, time.UTC)
	got := dateOnly(in)
	assert.Equal(t, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), got)
}
