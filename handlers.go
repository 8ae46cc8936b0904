package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/tejasrajegowda/BudgetOps-AI/models"
	"github.com/tejasrajegowda/BudgetOps-AI/pkg/logger"
	"github.com/tejasrajegowda/BudgetOps-AI/pkg/store"
)

func setupRoutes(r *gin.Engine) {
	r.GET("/healthz", healthHandler)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/users", createUserHandler)
	r.POST("/users/get-or-create", getOrCreateUserHandler)
	r.GET("/users/:id", getUserHandler)
	r.PATCH("/users/:id", updateUserHandler)
	r.DELETE("/users/:id", deleteUserHandler)

	r.POST("/transactions", createTransactionHandler)
	r.POST("/transactions/batch", createTransactionsBatchHandler)
	r.GET("/transactions", listTransactionsHandler)
	r.GET("/transactions/by-email-id", transactionByEmailIDHandler)
	r.GET("/transactions/daily-summary", dailySummaryHandler)
	r.GET("/transactions/monthly-summary", monthlySummaryHandler)
	r.GET("/transactions/category-totals", categoryTotalsHandler)
	r.PATCH("/transactions/:id", updateTransactionHandler)
	r.DELETE("/transactions/:id", deleteTransactionHandler)

	r.PUT("/budgets", upsertBudgetHandler)
	r.GET("/budgets", listBudgetsHandler)
	r.POST("/budgets/:id/spent", addBudgetSpentHandler)
	r.DELETE("/budgets/:id", deleteBudgetHandler)

	r.PUT("/insights/daily", upsertInsightHandler)
	r.GET("/insights/daily", getInsightHandler)
	r.GET("/insights", listInsightsHandler)
}

// storeError maps store sentinels onto HTTP statuses. Engine constraint
// violations surface to the caller instead of being absorbed.
func storeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrDuplicateEmail):
		constraintViolations.WithLabelValues("duplicate_email").Inc()
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrDuplicateEmailID):
		constraintViolations.WithLabelValues("duplicate_email_id").Inc()
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrBudgetExists):
		constraintViolations.WithLabelValues("budget_tuple").Inc()
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrInsightExists):
		constraintViolations.WithLabelValues("insight_tuple").Inc()
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrUserRequired):
		constraintViolations.WithLabelValues("unknown_user").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrInvalidTransactionType):
		constraintViolations.WithLabelValues("transaction_type").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrInvalidMonth),
		errors.Is(err, store.ErrEmailRequired),
		errors.Is(err, store.ErrCategoryRequired),
		errors.Is(err, store.ErrTransactionDateRequired),
		errors.Is(err, store.ErrInsightDateRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrTransactionNotFound),
		errors.Is(err, store.ErrBudgetNotFound),
		errors.Is(err, store.ErrInsightNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		logger.Get().Error("storage error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage error"})
	}
}

// parsePathID reads the :id path segment as a UUID.
func parsePathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a UUID"})
		return uuid.Nil, false
	}
	return id, true
}

// parseUserIDQuery reads the optional user_id query parameter.
func parseUserIDQuery(c *gin.Context) (*uuid.UUID, bool) {
	raw := c.Query("user_id")
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id must be a UUID"})
		return nil, false
	}
	return &id, true
}

// parseDateQuery reads an optional YYYY-MM-DD query parameter.
func parseDateQuery(c *gin.Context, key string) (*time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	d, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": key + " must be YYYY-MM-DD"})
		return nil, false
	}
	return &d, true
}

func healthHandler(c *gin.Context) {
	if err := st.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func createUserHandler(c *gin.Context) {
	var req struct {
		Email          string `json:"email" binding:"required"`
		GmailConnected bool   `json:"gmail_connected"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := st.CreateUser(c.Request.Context(), req.Email, req.GmailConnected)
	if err != nil {
		storeError(c, err)
		return
	}
	usersCreated.Inc()
	c.JSON(http.StatusCreated, u)
}

// getOrCreateUserHandler is the ingestion entry point: first sight of an
// email address creates the account with gmail_connected already true.
func getOrCreateUserHandler(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := st.GetOrCreateUser(c.Request.Context(), req.Email)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func getUserHandler(c *gin.Context) {
	id, ok := parsePathID(c)
	if !ok {
		return
	}
	u, err := st.GetUser(c.Request.Context(), id)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func updateUserHandler(c *gin.Context) {
	id, ok := parsePathID(c)
	if !ok {
		return
	}
	var req struct {
		GmailConnected *bool `json:"gmail_connected"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.GmailConnected == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "gmail_connected is required"})
		return
	}
	u, err := st.SetGmailConnected(c.Request.Context(), id, *req.GmailConnected)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// deleteUserHandler removes the account; transactions, budgets and insights
// go with it through the cascades.
func deleteUserHandler(c *gin.Context) {
	id, ok := parsePathID(c)
	if !ok {
		return
	}
	if err := st.DeleteUser(c.Request.Context(), id); err != nil {
		storeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// transactionRequest mirrors the shape the email parser emits for one
// movement. Dates ride as strings: YYYY-MM-DD for the calendar date,
// RFC3339 for the exact timestamp when the alert carried one.
type transactionRequest struct {
	UserID                     *string         `json:"user_id"`
	Amount                     decimal.Decimal `json:"amount"`
	TransactionType            string          `json:"transaction_type" binding:"required"`
	Card                       *string         `json:"card"`
	ToMerchant                 *string         `json:"to_merchant"`
	TransactionReferenceNumber *string         `json:"transaction_reference_number"`
	Description                *string         `json:"description"`
	TransactionDate            string          `json:"transaction_date" binding:"required"`
	TransactionTimestamp       *string         `json:"transaction_timestamp"`
	EmailID                    *string         `json:"email_id"`
	EmailSubject               *string         `json:"email_subject"`
	EmailDate                  *string         `json:"email_date"`
	Category                   *string         `json:"category"`
	Insight                    *string         `json:"insight"`
}

func (r transactionRequest) toModel() (*models.Transaction, error) {
	t := &models.Transaction{
		Amount:                     r.Amount,
		TransactionType:            r.TransactionType,
		Card:                       r.Card,
		ToMerchant:                 r.ToMerchant,
		TransactionReferenceNumber: r.TransactionReferenceNumber,
		Description:                r.Description,
		EmailID:                    r.EmailID,
		EmailSubject:               r.EmailSubject,
		EmailDate:                  r.EmailDate,
		Category:                   r.Category,
		Insight:                    r.Insight,
	}
	if r.UserID != nil && *r.UserID != "" {
		id, err := uuid.Parse(*r.UserID)
		if err != nil {
			return nil, fmt.Errorf("user_id must be a UUID")
		}
		t.UserID = &id
	}
	d, err := time.Parse(time.DateOnly, r.TransactionDate)
	if err != nil {
		return nil, fmt.Errorf("transaction_date must be YYYY-MM-DD")
	}
	t.TransactionDate = d
	if r.TransactionTimestamp != nil && *r.TransactionTimestamp != "" {
		ts, err := time.Parse(time.RFC3339, *r.TransactionTimestamp)
		if err != nil {
			return nil, fmt.Errorf("transaction_timestamp must be RFC3339")
		}
		t.TransactionTimestamp = &ts
	}
	return t, nil
}

func createTransactionHandler(c *gin.Context) {
	var req transactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t, err := req.toModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := st.InsertTransaction(c.Request.Context(), t); err != nil {
		storeError(c, err)
		return
	}
	transactionsIngested.Inc()
	c.JSON(http.StatusCreated, t)
}

// createTransactionsBatchHandler stores a parsed mailbox batch. Rows whose
// source email is already stored are skipped, so re-running an ingestion
// pass is safe.
func createTransactionsBatchHandler(c *gin.Context) {
	var req struct {
		Transactions []transactionRequest `json:"transactions" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	batch := make([]models.Transaction, 0, len(req.Transactions))
	for i, tr := range req.Transactions {
		t, err := tr.toModel()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("transactions[%d]: %s", i, err)})
			return
		}
		if !models.ValidTransactionType(tr.TransactionType) {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("transactions[%d]: transaction_type must be credit or debit", i)})
			return
		}
		batch = append(batch, *t)
	}

	inserted, skipped, err := st.InsertTransactionsBatch(c.Request.Context(), batch)
	transactionsIngested.Add(float64(len(inserted)))
	transactionsDeduplicated.Add(float64(skipped))
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"inserted": inserted, "skipped": skipped})
}

func listTransactionsHandler(c *gin.Context) {
	userID, ok := parseUserIDQuery(c)
	if !ok {
		return
	}
	start, ok := parseDateQuery(c, "start_date")
	if !ok {
		return
	}
	end, ok := parseDateQuery(c, "end_date")
	if !ok {
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	items, err := st.ListTransactions(c.Request.Context(), store.TransactionFilter{
		UserID:    userID,
		StartDate: start,
		EndDate:   end,
		Type:      c.Query("type"),
		Category:  c.Query("category"),
		Limit:     limit,
	})
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func transactionByEmailIDHandler(c *gin.Context) {
	mailID := c.Query("email_id")
	if mailID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email_id is required"})
		return
	}
	t, err := st.GetTransactionByEmailID(c.Request.Context(), mailID)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func updateTransactionHandler(c *gin.Context) {
	id, ok := parsePathID(c)
	if !ok {
		return
	}
	var req struct {
		Amount                     *decimal.Decimal `json:"amount"`
		TransactionType            *string          `json:"transaction_type"`
		Card                       *string          `json:"card"`
		ToMerchant                 *string          `json:"to_merchant"`
		TransactionReferenceNumber *string          `json:"transaction_reference_number"`
		Description                *string          `json:"description"`
		TransactionDate            *string          `json:"transaction_date"`
		TransactionTimestamp       *string          `json:"transaction_timestamp"`
		EmailID                    *string          `json:"email_id"`
		EmailSubject               *string          `json:"email_subject"`
		EmailDate                  *string          `json:"email_date"`
		Category                   *string          `json:"category"`
		Insight                    *string          `json:"insight"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	upd := store.TransactionUpdate{
		Amount:                     req.Amount,
		TransactionType:            req.TransactionType,
		Card:                       req.Card,
		ToMerchant:                 req.ToMerchant,
		TransactionReferenceNumber: req.TransactionReferenceNumber,
		Description:                req.Description,
		EmailID:                    req.EmailID,
		EmailSubject:               req.EmailSubject,
		EmailDate:                  req.EmailDate,
		Category:                   req.Category,
		Insight:                    req.Insight,
	}
	if req.TransactionDate != nil {
		d, err := time.Parse(time.DateOnly, *req.TransactionDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "transaction_date must be YYYY-MM-DD"})
			return
		}
		upd.TransactionDate = &d
	}
	if req.TransactionTimestamp != nil {
		ts, err := time.Parse(time.RFC3339, *req.TransactionTimestamp)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "transaction_timestamp must be RFC3339"})
			return
		}
		upd.TransactionTimestamp = &ts
	}

	t, err := st.UpdateTransaction(c.Request.Context(), id, upd)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func deleteTransactionHandler(c *gin.Context) {
	id, ok := parsePathID(c)
	if !ok {
		return
	}
	if err := st.DeleteTransaction(c.Request.Context(), id); err != nil {
		storeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// dailySummaryHandler aggregates one day, defaulting to today.
func dailySummaryHandler(c *gin.Context) {
	userID, ok := parseUserIDQuery(c)
	if !ok {
		return
	}
	day := time.Now()
	if d, ok := parseDateQuery(c, "date"); !ok {
		return
	} else if d != nil {
		day = *d
	}
	sum, err := st.DailySummary(c.Request.Context(), userID, day)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

func monthlySummaryHandler(c *gin.Context) {
	userID, ok := parseUserIDQuery(c)
	if !ok {
		return
	}
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "year must be an integer"})
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month must be an integer"})
		return
	}
	sum, err := st.MonthlySummary(c.Request.Context(), userID, year, month)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

func categoryTotalsHandler(c *gin.Context) {
	userID, ok := parseUserIDQuery(c)
	if !ok {
		return
	}
	start, ok := parseDateQuery(c, "start_date")
	if !ok {
		return
	}
	end, ok := parseDateQuery(c, "end_date")
	if !ok {
		return
	}
	totals, err := st.CategoryTotals(c.Request.Context(), userID, start, end)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, totals)
}

// upsertBudgetHandler creates or replaces the budget for one
// (user, category, month, year) tuple.
func upsertBudgetHandler(c *gin.Context) {
	var req struct {
		UserID       *string         `json:"user_id"`
		Category     string          `json:"category" binding:"required"`
		MonthlyLimit decimal.Decimal `json:"monthly_limit"`
		Spent        decimal.Decimal `json:"spent"`
		Month        int             `json:"month" binding:"required"`
		Year         int             `json:"year" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b := models.Budget{
		Category:     req.Category,
		MonthlyLimit: req.MonthlyLimit,
		Spent:        req.Spent,
		Month:        req.Month,
		Year:         req.Year,
	}
	if req.UserID != nil && *req.UserID != "" {
		id, err := uuid.Parse(*req.UserID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id must be a UUID"})
			return
		}
		b.UserID = &id
	}
	if !models.KnownCategory(req.Category) {
		logger.Get().Warn("budget category outside the classifier vocabulary",
			zap.String("category", req.Category))
	}
	if err := st.UpsertBudget(c.Request.Context(), &b); err != nil {
		storeError(c, err)
		return
	}
	budgetsUpserted.Inc()
	c.JSON(http.StatusOK, b)
}

func listBudgetsHandler(c *gin.Context) {
	userID, ok := parseUserIDQuery(c)
	if !ok {
		return
	}
	month := 0
	if raw := c.Query("month"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "month must be an integer"})
			return
		}
		month = n
	}
	year := 0
	if raw := c.Query("year"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "year must be an integer"})
			return
		}
		year = n
	}
	items, err := st.ListBudgets(c.Request.Context(), userID, month, year)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// addBudgetSpentHandler moves a budget's running total by a signed amount.
func addBudgetSpentHandler(c *gin.Context) {
	id, ok := parsePathID(c)
	if !ok {
		return
	}
	var req struct {
		Amount decimal.Decimal `json:"amount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b, err := st.AddBudgetSpent(c.Request.Context(), id, req.Amount)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func deleteBudgetHandler(c *gin.Context) {
	id, ok := parsePathID(c)
	if !ok {
		return
	}
	if err := st.DeleteBudget(c.Request.Context(), id); err != nil {
		storeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// upsertInsightHandler writes the day's rollup; re-running the summarizer
// over the same day replaces the totals.
func upsertInsightHandler(c *gin.Context) {
	var req struct {
		UserID           *string         `json:"user_id"`
		InsightDate      string          `json:"insight_date" binding:"required"`
		TotalSpent       decimal.Decimal `json:"total_spent"`
		TotalEarned      decimal.Decimal `json:"total_earned"`
		TransactionCount int             `json:"transaction_count"`
		InsightText      *string         `json:"insight_text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	day, err := time.Parse(time.DateOnly, req.InsightDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "insight_date must be YYYY-MM-DD"})
		return
	}
	in := models.DailyInsight{
		InsightDate:      day,
		TotalSpent:       req.TotalSpent,
		TotalEarned:      req.TotalEarned,
		TransactionCount: req.TransactionCount,
		InsightText:      req.InsightText,
	}
	if req.UserID != nil && *req.UserID != "" {
		id, err := uuid.Parse(*req.UserID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id must be a UUID"})
			return
		}
		in.UserID = &id
	}
	if err := st.UpsertDailyInsight(c.Request.Context(), &in); err != nil {
		storeError(c, err)
		return
	}
	insightsUpserted.Inc()
	c.JSON(http.StatusOK, in)
}

// getInsightHandler returns the rollup for one day, defaulting to today.
func getInsightHandler(c *gin.Context) {
	userID, ok := parseUserIDQuery(c)
	if !ok {
		return
	}
	day := time.Now()
	if d, ok := parseDateQuery(c, "date"); !ok {
		return
	} else if d != nil {
		day = *d
	}
	in, err := st.GetDailyInsight(c.Request.Context(), userID, day)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, in)
}

func listInsightsHandler(c *gin.Context) {
	userID, ok := parseUserIDQuery(c)
	if !ok {
		return
	}
	start, ok := parseDateQuery(c, "start_date")
	if !ok {
		return
	}
	end, ok := parseDateQuery(c, "end_date")
	if !ok {
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}
	items, err := st.ListDailyInsights(c.Request.Context(), userID, start, end, limit)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}
