package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/tejasrajegowda/BudgetOps-AI/process/report"
)

func main() {
	email := flag.String("email", os.Getenv("SEED_USER_EMAIL"), "account email to report for")
	month := flag.String("month", time.Now().UTC().Format("2006-01"), "month to report (YYYY-MM)")
	list := flag.Bool("list", false, "list matching transactions")
	flag.Parse()

	if os.Getenv("DB_DSN") == "" {
		fmt.Fprintln(os.Stderr, "DB_DSN not set; export DB_DSN and retry")
		os.Exit(2)
	}
	if *email == "" {
		fmt.Fprintln(os.Stderr, "no email given; pass -email or set SEED_USER_EMAIL")
		os.Exit(2)
	}

	report.RunReport(*email, *month, *list)
}
