package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/mgaray/finanzas/finanzas-backend/internal/domain"
	"github.com/shopspring/decimal"
)

func TestGetBudget_MaterializedMonth(t *testing.T) {
	e := echo.New()
	f := newHandlerFixture()
	userID := uuid.New()

	salary := &domain.BudgetEntry{
		ID: "m1", Month: "2026-01", Name: "Sueldo", Amount: decimal.NewFromInt(1000),
		Category: domain.CategoryIncome, Date: "2026-01-01",
		Status: domain.StatusPaid, PaymentMethod: domain.MethodTransfer,
	}
	if err := f.entryRepo.Upsert(userID, salary); err != nil {
		t.Fatal(err)
	}
	if err := f.installmentRepo.Upsert(userID, &domain.InstallmentPurchase{
		ID: "p1", Name: "Notebook", TotalAmount: decimal.NewFromInt(1200), Installments: 12,
		StartDate: "2026-01", Category: domain.CategoryDebt, CardName: func() *string { s := "VISA"; return &s }(),
	}); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/months/2026-01/budget", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("month")
	c.SetParamValues("2026-01")
	setupAuthContext(c, userID)

	if err := f.budgetHandler.GetBudget(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var resp BudgetResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if resp.Month != "2026-01" {
		t.Errorf("Expected month 2026-01, got %s", resp.Month)
	}
	if len(resp.Entries) != 2 {
		t.Fatalf("Expected salary plus card rollup, got %d entries", len(resp.Entries))
	}
	if resp.Totals["Ingresos"] != "1000.00" {
		t.Errorf("Expected income total '1000.00', got %s", resp.Totals["Ingresos"])
	}
	if resp.Totals["Deudas"] != "100.00" {
		t.Errorf("Expected debt total '100.00', got %s", resp.Totals["Deudas"])
	}
	if resp.NetFlow != "900.00" {
		t.Errorf("Expected net flow '900.00', got %s", resp.NetFlow)
	}

	var rollup *EntryResponse
	for i := range resp.Entries {
		if domain.IsRollupID(resp.Entries[i].ID) {
			rollup = &resp.Entries[i]
		}
	}
	if rollup == nil {
		t.Fatal("Expected a card rollup in the view")
	}
	if len(rollup.SubEntries) != 1 || rollup.SubEntries[0].ID != "inst-p1-2026-01" {
		t.Errorf("Expected the derived installment inside the rollup, got %+v", rollup.SubEntries)
	}
}

func TestGetBudget_InvalidMonth(t *testing.T) {
	e := echo.New()
	f := newHandlerFixture()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/months/enero/budget", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("month")
	c.SetParamValues("enero")
	setupAuthContext(c, uuid.New())

	if err := f.budgetHandler.GetBudget(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestGetBudget_Unauthorized(t *testing.T) {
	e := echo.New()
	f := newHandlerFixture()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/months/2026-01/budget", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("month")
	c.SetParamValues("2026-01")

	if err := f.budgetHandler.GetBudget(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}

func TestReorderEntries_PersistsOrder(t *testing.T) {
	e := echo.New()
	f := newHandlerFixture()
	userID := uuid.New()

	for _, id := range []string{"m1", "m2"} {
		entry := &domain.BudgetEntry{
			ID: id, Month: "2026-01", Name: "Gasto " + id, Amount: decimal.NewFromInt(10),
			Category: domain.CategoryVariableExpense, Date: "2026-01-05",
			Status: domain.StatusPaid, PaymentMethod: domain.MethodCash,
		}
		if err := f.entryRepo.Upsert(userID, entry); err != nil {
			t.Fatal(err)
		}
	}

	body := `[
		{"id":"m2","month":"2026-01","name":"Gasto m2","amount":"10","category":"Gastos Variables","status":"Pagado","paymentMethod":"Efectivo"},
		{"id":"m1","month":"2026-01","name":"Gasto m1","amount":"10","category":"Gastos Variables","status":"Pagado","paymentMethod":"Efectivo"}
	]`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/months/2026-01/order", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("month")
	c.SetParamValues("2026-01")
	setupAuthContext(c, userID)

	if err := f.budgetHandler.ReorderEntries(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("Expected status 204, got %d", rec.Code)
	}

	first, _ := f.entryRepo.GetByID(userID, "m2")
	second, _ := f.entryRepo.GetByID(userID, "m1")
	if first.Order == nil || *first.Order != 0 {
		t.Errorf("Expected m2 order 0, got %v", first.Order)
	}
	if second.Order == nil || *second.Order != 1 {
		t.Errorf("Expected m1 order 1, got %v", second.Order)
	}
}

func TestReorderEntries_InvalidMonth(t *testing.T) {
	e := echo.New()
	f := newHandlerFixture()

	req := httptest.NewRequest(http.MethodPut, "/api/v1/months/enero/order", strings.NewReader(`[]`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("month")
	c.SetParamValues("enero")
	setupAuthContext(c, uuid.New())

	if err := f.budgetHandler.ReorderEntries(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}
