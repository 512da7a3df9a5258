package integration

import (
	"fmt"
	"net/http"
	"testing"
)

func TestExpenseLifecycle(t *testing.T) {
	app := setupApp(t)
	token, _, _ := app.registerUser(t, "spender@example.com", "password123")

	catID := app.createCategory(t, token, "Food")
	expenseID := app.createExpense(t, token, 1250, "Lunch", catID)

	// Read it back
	rec := app.request("GET", "/api/v1/expenses/"+expenseID, "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("get expense failed: %d %s", rec.Code, rec.Body.String())
	}
	expense := parseJSON(t, rec)
	if expense["amount"].(float64) != 1250 {
		t.Errorf("expected amount 1250, got %v", expense["amount"])
	}
	if expense["description"] != "Lunch" {
		t.Errorf("expected description Lunch, got %v", expense["description"])
	}

	// Update
	body := fmt.Sprintf(`{"amount":1500,"description":"Lunch with tip","category_id":%q}`, catID)
	rec = app.request("PUT", "/api/v1/expenses/"+expenseID, body, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("update expense failed: %d %s", rec.Code, rec.Body.String())
	}
	if parseJSON(t, rec)["amount"].(float64) != 1500 {
		t.Error("expected updated amount 1500")
	}

	// Delete
	rec = app.request("DELETE", "/api/v1/expenses/"+expenseID, "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete expense failed: %d %s", rec.Code, rec.Body.String())
	}
	rec = app.request("GET", "/api/v1/expenses/"+expenseID, "", token)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestExpenseListPaginationAndWindow(t *testing.T) {
	app := setupApp(t)
	token, _, _ := app.registerUser(t, "lister@example.com", "password123")

	for i := 0; i < 5; i++ {
		app.createExpense(t, token, int64(100*(i+1)), fmt.Sprintf("item %d", i), "")
	}

	// Daily window ignores paging and returns everything from today.
	rec := app.request("GET", "/api/v1/expenses?window=daily&page=1&page_size=2", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("list failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	if len(result["data"].([]interface{})) != 5 {
		t.Errorf("expected 5 items in daily window, got %d", len(result["data"].([]interface{})))
	}

	// Monthly window paginates.
	rec = app.request("GET", "/api/v1/expenses?window=monthly&page=1&page_size=2", "", token)
	result = parseJSON(t, rec)
	if len(result["data"].([]interface{})) != 2 {
		t.Errorf("expected page of 2, got %d", len(result["data"].([]interface{})))
	}
	if result["total_items"].(float64) != 5 {
		t.Errorf("expected 5 total items, got %v", result["total_items"])
	}

	// Unknown window is rejected by request validation.
	rec = app.request("GET", "/api/v1/expenses?window=yearly", "", token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown window, got %d", rec.Code)
	}
}

func TestExpenseStatsAndBreakdown(t *testing.T) {
	app := setupApp(t)
	token, _, _ := app.registerUser(t, "stats@example.com", "password123")

	catID := app.createCategory(t, token, "Groceries")
	app.createExpense(t, token, 3000, "Weekly shop", catID)
	app.createExpense(t, token, 1000, "Snacks", "")

	rec := app.request("GET", "/api/v1/expenses/stats", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("stats failed: %d %s", rec.Code, rec.Body.String())
	}
	stats := parseJSON(t, rec)
	if stats["total_spent"].(float64) != 4000 {
		t.Errorf("expected total_spent 4000, got %v", stats["total_spent"])
	}

	rec = app.request("GET", "/api/v1/expenses/categories?window=monthly", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("breakdown failed: %d %s", rec.Code, rec.Body.String())
	}
	breakdown := parseJSONArray(t, rec)
	if len(breakdown) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(breakdown))
	}
	var total float64
	sawUncategorized := false
	for _, b := range breakdown {
		bucket := b.(map[string]interface{})
		total += bucket["total"].(float64)
		if bucket["name"] == "uncategorized" {
			sawUncategorized = true
		}
	}
	if total != 4000 {
		t.Errorf("breakdown should conserve total spend, got %v", total)
	}
	if !sawUncategorized {
		t.Error("expected an uncategorized bucket")
	}

	rec = app.request("GET", "/api/v1/expenses/weekly", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("weekly failed: %d %s", rec.Code, rec.Body.String())
	}
	series := parseJSONArray(t, rec)
	if len(series) != 7 {
		t.Fatalf("expected 7 day series, got %d", len(series))
	}
	today := series[6].(map[string]interface{})
	if today["amount"].(float64) != 4000 {
		t.Errorf("expected today's amount 4000, got %v", today["amount"])
	}
}

func TestExpenseIsolationBetweenUsers(t *testing.T) {
	app := setupApp(t)
	tokenA, _, _ := app.registerUser(t, "alice@example.com", "password123")
	tokenB, _, _ := app.registerUser(t, "bob@example.com", "password123")

	expenseID := app.createExpense(t, tokenA, 5000, "Private", "")

	rec := app.request("GET", "/api/v1/expenses/"+expenseID, "", tokenB)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for another user's expense, got %d", rec.Code)
	}

	rec = app.request("DELETE", "/api/v1/expenses/"+expenseID, "", tokenB)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 deleting another user's expense, got %d", rec.Code)
	}

	// Still visible to its owner.
	rec = app.request("GET", "/api/v1/expenses/"+expenseID, "", tokenA)
	if rec.Code != http.StatusOK {
		t.Fatalf("owner lost access to own expense: %d", rec.Code)
	}
}

func TestCategoryDeleteDetachesExpenses(t *testing.T) {
	app := setupApp(t)
	token, _, _ := app.registerUser(t, "cats@example.com", "password123")

	catID := app.createCategory(t, token, "Transport")
	expenseID := app.createExpense(t, token, 250, "Bus fare", catID)

	rec := app.request("DELETE", "/api/v1/categories/"+catID, "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete category failed: %d %s", rec.Code, rec.Body.String())
	}

	rec = app.request("GET", "/api/v1/expenses/"+expenseID, "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expense should survive category deletion: %d", rec.Code)
	}
	expense := parseJSON(t, rec)
	if _, present := expense["category_id"]; present {
		t.Errorf("expected category_id cleared, got %v", expense["category_id"])
	}
}
