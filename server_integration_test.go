package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tejasrajegowda/BudgetOps-AI/pkg/config"
)

// helper to perform requests against the router
func performRequest(r http.Handler, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	// allow callers to pass nil for body safely
	req, _ := http.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func jsonBody(t *testing.T, v any) io.Reader {
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal request body: %v", err)
	}
	return bytes.NewBuffer(b)
}

func decodeBody(t *testing.T, resp *httptest.ResponseRecorder, out any) {
	if err := json.Unmarshal(resp.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response body=%s: %v", resp.Body.String(), err)
	}
}

func setupTestServer(t *testing.T) *gin.Engine {
	// integration tests are opt-in. Set DB_DSN_TEST=1 and DB_DSN to run them.
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	gin.SetMode(gin.TestMode)
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if err := initDB(cfg); err != nil {
		t.Fatalf("init db: %v", err)
	}
	r := gin.Default()
	setupRoutes(r)
	return r
}

type userDoc struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	GmailConnected bool      `json:"gmail_connected"`
}

type txDoc struct {
	ID       uuid.UUID       `json:"id"`
	Amount   decimal.Decimal `json:"amount"`
	EmailID  *string         `json:"email_id"`
	Category *string         `json:"category"`
}

type budgetDoc struct {
	ID           uuid.UUID       `json:"id"`
	Category     string          `json:"category"`
	MonthlyLimit decimal.Decimal `json:"monthly_limit"`
	Spent        decimal.Decimal `json:"spent"`
}

type insightDoc struct {
	ID               uuid.UUID       `json:"id"`
	TotalSpent       decimal.Decimal `json:"total_spent"`
	TransactionCount int             `json:"transaction_count"`
}

type summaryDoc struct {
	TotalSpent       decimal.Decimal `json:"total_spent"`
	TotalEarned      decimal.Decimal `json:"total_earned"`
	Net              decimal.Decimal `json:"net"`
	TransactionCount int             `json:"transaction_count"`
}

func TestFullFlow(t *testing.T) {
	r := setupTestServer(t)

	now := time.Now()
	today := now.Format(time.DateOnly)
	email := fmt.Sprintf("flow-%s@example.com", uuid.NewString())
	em1 := "msg-" + uuid.NewString()
	em2 := "msg-" + uuid.NewString()
	em3 := "msg-" + uuid.NewString()

	// 1. Create user
	resp := performRequest(r, http.MethodPost, "/users",
		jsonBody(t, map[string]any{"email": email}), "application/json")
	if resp.Code != http.StatusCreated {
		t.Fatalf("create user failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var user userDoc
	decodeBody(t, resp, &user)
	if user.ID == uuid.Nil {
		t.Fatalf("create user returned empty id: %s", resp.Body.String())
	}
	uid := user.ID.String()

	// 2. Duplicate email is rejected by the unique index
	resp = performRequest(r, http.MethodPost, "/users",
		jsonBody(t, map[string]any{"email": email}), "application/json")
	if resp.Code != http.StatusConflict {
		t.Fatalf("duplicate user expected 409 got %d body=%s", resp.Code, resp.Body.String())
	}

	// 3. Get-or-create returns the existing row
	resp = performRequest(r, http.MethodPost, "/users/get-or-create",
		jsonBody(t, map[string]any{"email": email}), "application/json")
	if resp.Code != http.StatusOK {
		t.Fatalf("get-or-create failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var again userDoc
	decodeBody(t, resp, &again)
	if again.ID != user.ID {
		t.Fatalf("get-or-create returned a different user: %s vs %s", again.ID, user.ID)
	}

	// 4. Connect gmail
	resp = performRequest(r, http.MethodPatch, "/users/"+uid,
		jsonBody(t, map[string]any{"gmail_connected": true}), "application/json")
	if resp.Code != http.StatusOK {
		t.Fatalf("update user failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	decodeBody(t, resp, &again)
	if !again.GmailConnected {
		t.Fatalf("gmail_connected not set: %s", resp.Body.String())
	}

	// 5. Insert a transaction
	resp = performRequest(r, http.MethodPost, "/transactions", jsonBody(t, map[string]any{
		"user_id":          uid,
		"amount":           "45.50",
		"transaction_type": "debit",
		"transaction_date": today,
		"email_id":         em1,
		"to_merchant":      "Fresh Mart",
		"category":         "Groceries",
	}), "application/json")
	if resp.Code != http.StatusCreated {
		t.Fatalf("insert transaction failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var tx txDoc
	decodeBody(t, resp, &tx)

	// 6. Same source email again is a conflict
	resp = performRequest(r, http.MethodPost, "/transactions", jsonBody(t, map[string]any{
		"user_id":          uid,
		"amount":           "45.50",
		"transaction_type": "debit",
		"transaction_date": today,
		"email_id":         em1,
	}), "application/json")
	if resp.Code != http.StatusConflict {
		t.Fatalf("duplicate email_id expected 409 got %d body=%s", resp.Code, resp.Body.String())
	}

	// 7. Batch insert skips the already-stored email
	resp = performRequest(r, http.MethodPost, "/transactions/batch", jsonBody(t, map[string]any{
		"transactions": []map[string]any{
			{"user_id": uid, "amount": "500.00", "transaction_type": "credit", "transaction_date": today, "email_id": em2},
			{"user_id": uid, "amount": "20.25", "transaction_type": "debit", "transaction_date": today, "email_id": em3},
			{"user_id": uid, "amount": "45.50", "transaction_type": "debit", "transaction_date": today, "email_id": em1},
		},
	}), "application/json")
	if resp.Code != http.StatusOK {
		t.Fatalf("batch insert failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var batch struct {
		Inserted []txDoc `json:"inserted"`
		Skipped  int     `json:"skipped"`
	}
	decodeBody(t, resp, &batch)
	if len(batch.Inserted) != 2 || batch.Skipped != 1 {
		t.Fatalf("batch expected 2 inserted 1 skipped got %d/%d body=%s",
			len(batch.Inserted), batch.Skipped, resp.Body.String())
	}

	// 8. List the user's transactions
	resp = performRequest(r, http.MethodGet, "/transactions?user_id="+uid, nil, "")
	if resp.Code != http.StatusOK {
		t.Fatalf("list transactions failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var txs []txDoc
	decodeBody(t, resp, &txs)
	if len(txs) != 3 {
		t.Fatalf("expected 3 transactions got %d body=%s", len(txs), resp.Body.String())
	}

	// 9. Look one up by source email
	resp = performRequest(r, http.MethodGet, "/transactions/by-email-id?email_id="+em2, nil, "")
	if resp.Code != http.StatusOK {
		t.Fatalf("by-email-id failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 10. Daily summary
	resp = performRequest(r, http.MethodGet,
		"/transactions/daily-summary?user_id="+uid+"&date="+today, nil, "")
	if resp.Code != http.StatusOK {
		t.Fatalf("daily summary failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var day summaryDoc
	decodeBody(t, resp, &day)
	if !day.TotalSpent.Equal(decimal.RequireFromString("65.75")) {
		t.Fatalf("daily total_spent expected 65.75 got %s", day.TotalSpent)
	}
	if !day.TotalEarned.Equal(decimal.RequireFromString("500.00")) {
		t.Fatalf("daily total_earned expected 500.00 got %s", day.TotalEarned)
	}
	if day.TransactionCount != 3 {
		t.Fatalf("daily transaction_count expected 3 got %d", day.TransactionCount)
	}

	// 11. Monthly summary
	resp = performRequest(r, http.MethodGet, fmt.Sprintf(
		"/transactions/monthly-summary?user_id=%s&year=%d&month=%d", uid, now.Year(), now.Month()), nil, "")
	if resp.Code != http.StatusOK {
		t.Fatalf("monthly summary failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var month summaryDoc
	decodeBody(t, resp, &month)
	if month.TransactionCount != 3 {
		t.Fatalf("monthly transaction_count expected 3 got %d", month.TransactionCount)
	}
	if !month.Net.Equal(decimal.RequireFromString("434.25")) {
		t.Fatalf("monthly net expected 434.25 got %s", month.Net)
	}

	// 12. Category totals: uncategorized debits land in Others
	resp = performRequest(r, http.MethodGet, "/transactions/category-totals?user_id="+uid, nil, "")
	if resp.Code != http.StatusOK {
		t.Fatalf("category totals failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var totals []struct {
		Category string          `json:"category"`
		Total    decimal.Decimal `json:"total"`
	}
	decodeBody(t, resp, &totals)
	if len(totals) != 2 {
		t.Fatalf("expected 2 category buckets got %d body=%s", len(totals), resp.Body.String())
	}
	if totals[0].Category != "Groceries" || !totals[0].Total.Equal(decimal.RequireFromString("45.50")) {
		t.Fatalf("expected Groceries 45.50 first got %s %s", totals[0].Category, totals[0].Total)
	}

	// 13. Recategorize a transaction
	resp = performRequest(r, http.MethodPatch, "/transactions/"+tx.ID.String(),
		jsonBody(t, map[string]any{"category": "Travel"}), "application/json")
	if resp.Code != http.StatusOK {
		t.Fatalf("update transaction failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var updated txDoc
	decodeBody(t, resp, &updated)
	if updated.Category == nil || *updated.Category != "Travel" {
		t.Fatalf("category not updated: %s", resp.Body.String())
	}

	// 14. Budget upsert: second write replaces the first row
	budgetReq := map[string]any{
		"user_id":       uid,
		"category":      "Groceries",
		"monthly_limit": "300.00",
		"month":         int(now.Month()),
		"year":          now.Year(),
	}
	resp = performRequest(r, http.MethodPut, "/budgets", jsonBody(t, budgetReq), "application/json")
	if resp.Code != http.StatusOK {
		t.Fatalf("budget upsert failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var budget budgetDoc
	decodeBody(t, resp, &budget)

	budgetReq["monthly_limit"] = "400.00"
	resp = performRequest(r, http.MethodPut, "/budgets", jsonBody(t, budgetReq), "application/json")
	if resp.Code != http.StatusOK {
		t.Fatalf("budget re-upsert failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	resp = performRequest(r, http.MethodGet, "/budgets?user_id="+uid, nil, "")
	if resp.Code != http.StatusOK {
		t.Fatalf("list budgets failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var budgets []budgetDoc
	decodeBody(t, resp, &budgets)
	if len(budgets) != 1 {
		t.Fatalf("expected 1 budget after upsert got %d body=%s", len(budgets), resp.Body.String())
	}
	if budgets[0].ID != budget.ID {
		t.Fatalf("upsert replaced the row instead of updating it: %s vs %s", budgets[0].ID, budget.ID)
	}
	if !budgets[0].MonthlyLimit.Equal(decimal.RequireFromString("400.00")) {
		t.Fatalf("monthly_limit expected 400.00 got %s", budgets[0].MonthlyLimit)
	}

	// 15. Record spend against the budget
	resp = performRequest(r, http.MethodPost, "/budgets/"+budget.ID.String()+"/spent",
		jsonBody(t, map[string]any{"amount": "45.50"}), "application/json")
	if resp.Code != http.StatusOK {
		t.Fatalf("budget spent failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	decodeBody(t, resp, &budget)
	if !budget.Spent.Equal(decimal.RequireFromString("45.50")) {
		t.Fatalf("spent expected 45.50 got %s", budget.Spent)
	}

	// 16. Daily insight upsert: second write wins
	insightReq := map[string]any{
		"user_id":           uid,
		"insight_date":      today,
		"total_spent":       "65.75",
		"total_earned":      "500.00",
		"transaction_count": 3,
	}
	resp = performRequest(r, http.MethodPut, "/insights/daily", jsonBody(t, insightReq), "application/json")
	if resp.Code != http.StatusOK {
		t.Fatalf("insight upsert failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var insight insightDoc
	decodeBody(t, resp, &insight)

	insightReq["transaction_count"] = 4
	resp = performRequest(r, http.MethodPut, "/insights/daily", jsonBody(t, insightReq), "application/json")
	if resp.Code != http.StatusOK {
		t.Fatalf("insight re-upsert failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	resp = performRequest(r, http.MethodGet, "/insights/daily?user_id="+uid+"&date="+today, nil, "")
	if resp.Code != http.StatusOK {
		t.Fatalf("get insight failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var stored insightDoc
	decodeBody(t, resp, &stored)
	if stored.ID != insight.ID {
		t.Fatalf("insight upsert created a second row: %s vs %s", stored.ID, insight.ID)
	}
	if stored.TransactionCount != 4 {
		t.Fatalf("insight transaction_count expected 4 got %d", stored.TransactionCount)
	}

	// 17. Delete one transaction
	resp = performRequest(r, http.MethodDelete, "/transactions/"+tx.ID.String(), nil, "")
	if resp.Code != http.StatusNoContent {
		t.Fatalf("delete transaction expected 204 got %d body=%s", resp.Code, resp.Body.String())
	}

	// 18. Delete the user; everything hanging off it goes too
	resp = performRequest(r, http.MethodDelete, "/users/"+uid, nil, "")
	if resp.Code != http.StatusNoContent {
		t.Fatalf("delete user expected 204 got %d body=%s", resp.Code, resp.Body.String())
	}
	resp = performRequest(r, http.MethodGet, "/users/"+uid, nil, "")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("deleted user still readable status=%d", resp.Code)
	}
	resp = performRequest(r, http.MethodGet, "/transactions?user_id="+uid, nil, "")
	decodeBody(t, resp, &txs)
	if len(txs) != 0 {
		t.Fatalf("expected cascade to remove transactions, %d left", len(txs))
	}
	resp = performRequest(r, http.MethodGet, "/budgets?user_id="+uid, nil, "")
	decodeBody(t, resp, &budgets)
	if len(budgets) != 0 {
		t.Fatalf("expected cascade to remove budgets, %d left", len(budgets))
	}
}

func TestHealthz(t *testing.T) {
	r := setupTestServer(t)
	resp := performRequest(r, http.MethodGet, "/healthz", nil, "")
	if resp.Code != http.StatusOK {
		t.Fatalf("healthz failed status=%d body=%s", resp.Code, resp.Body.String())
	}
}

func TestMigrateCommand(t *testing.T) {
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if err := initDB(cfg); err != nil {
		t.Fatalf("migrate run failed: %v", err)
	}
}
