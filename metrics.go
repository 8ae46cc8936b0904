package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Storage layer metrics, exposed on /metrics.
var (
	usersCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "budgetops_users_created_total",
			Help: "Total number of user accounts created",
		},
	)

	transactionsIngested = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "budgetops_transactions_ingested_total",
			Help: "Total number of transactions stored",
		},
	)

	transactionsDeduplicated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "budgetops_transactions_deduplicated_total",
			Help: "Total number of transactions skipped because their source email was already stored",
		},
	)

	budgetsUpserted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "budgetops_budgets_upserted_total",
			Help: "Total number of budget rows created or replaced",
		},
	)

	insightsUpserted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "budgetops_insights_upserted_total",
			Help: "Total number of daily insight rows created or replaced",
		},
	)

	constraintViolations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "budgetops_constraint_violations_total",
			Help: "Total number of writes rejected by engine constraints, by constraint",
		},
		[]string{"constraint"}, // duplicate_email, duplicate_email_id, budget_tuple, insight_tuple, unknown_user, transaction_type
	)
)
