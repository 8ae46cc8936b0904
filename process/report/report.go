package report

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/tejasrajegowda/BudgetOps-AI/pkg/store"
)

func mustDBFromEnv() *gorm.DB {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN not set in env")
	}
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	return gdb
}

// RunReport prints a month-bounded spending report for the account (month in
// YYYY-MM) and optionally lists the matching transactions.
func RunReport(email, month string, list bool) {
	st := store.New(mustDBFromEnv())
	ctx := context.Background()

	user, err := st.GetUserByEmail(ctx, email)
	if err != nil {
		log.Fatalf("user not found: %v", err)
	}

	t, err := time.Parse("2006-01", month)
	if err != nil {
		log.Fatalf("invalid month format, expected YYYY-MM: %v", err)
	}

	sum, err := st.MonthlySummary(ctx, &user.ID, t.Year(), int(t.Month()))
	if err != nil {
		log.Fatalf("query failed: %v", err)
	}

	fmt.Printf("Report for user=%s month=%s (UTC):\n", user.Email, month)
	fmt.Printf("  records=%d spent=%s earned=%s net=%s avg_daily_spend=%s\n",
		sum.TransactionCount, sum.TotalSpent, sum.TotalEarned, sum.Net, sum.AverageDailySpend)

	if list {
		start, end := store.MonthRange(t.Year(), int(t.Month()))
		rows, err := st.ListTransactions(ctx, store.TransactionFilter{
			UserID:    &user.ID,
			StartDate: &start,
			EndDate:   &end,
			Limit:     store.NoLimit,
		})
		if err != nil {
			log.Fatalf("fetch rows failed: %v", err)
		}
		for _, r := range rows {
			fmt.Printf("%s|%s|%s|%s|%s|%s\n", r.ID, r.TransactionDate.Format(time.DateOnly),
				r.TransactionType, r.Amount, orDash(r.ToMerchant), orDash(r.Category))
		}
	}
}

func orDash(p *string) string {
	if p == nil || *p == "" {
		return "-"
	}
	return *p
}
