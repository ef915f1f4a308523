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
	"github.com/mgaray/finanzas/finanzas-backend/internal/service"
	"github.com/mgaray/finanzas/finanzas-backend/internal/testutil"
	"github.com/shopspring/decimal"
)

func newSettingsFixture() (*SettingsHandler, *testutil.MockEntryRepository, *testutil.MockInstallmentRepository) {
	settingsRepo := testutil.NewMockSettingsRepository()
	entryRepo := testutil.NewMockEntryRepository()
	installmentRepo := testutil.NewMockInstallmentRepository()
	svc := service.NewSettingsService(settingsRepo, entryRepo, installmentRepo)
	return NewSettingsHandler(svc), entryRepo, installmentRepo
}

func TestGetSettings_Defaults(t *testing.T) {
	e := echo.New()
	h, _, _ := newSettingsFixture()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/settings", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, uuid.New())

	if err := h.GetSettings(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var resp SettingsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if resp.Currency != "ARS" {
		t.Errorf("Expected default currency ARS, got %s", resp.Currency)
	}
	if len(resp.PredefinedCards) == 0 {
		t.Error("Expected predefined card suggestions")
	}
	if resp.CreditCards == nil {
		t.Error("Expected creditCards to serialize as an empty list")
	}
}

func TestUpdateSettings_Success(t *testing.T) {
	e := echo.New()
	h, _, _ := newSettingsFixture()

	body := `{"currency":"USD","userName":"Marcos","creditCards":["VISA","AMEX"],"categories":{"Ingresos":["Sueldo"]}}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/settings", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, uuid.New())

	if err := h.UpdateSettings(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var resp SettingsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if resp.Currency != "USD" || len(resp.CreditCards) != 2 {
		t.Errorf("Expected saved settings echoed back, got %+v", resp)
	}
}

func TestUpdateSettings_UnknownCategory(t *testing.T) {
	e := echo.New()
	h, _, _ := newSettingsFixture()

	body := `{"categories":{"Lujos":["Yate"]}}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/settings", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, uuid.New())

	if err := h.UpdateSettings(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestRenameCards_Success(t *testing.T) {
	e := echo.New()
	h, entryRepo, installmentRepo := newSettingsFixture()
	userID := uuid.New()

	card := "VISA"
	entry := &domain.BudgetEntry{
		ID: "m1", Month: "2026-01", Name: "Super", Amount: decimal.NewFromInt(80),
		Category: domain.CategoryVariableExpense, Date: "2026-01-05",
		Status: domain.StatusPaid, PaymentMethod: domain.MethodCredit, CardName: &card,
	}
	if err := entryRepo.Upsert(userID, entry); err != nil {
		t.Fatal(err)
	}
	purchaseCard := "VISA"
	if err := installmentRepo.Upsert(userID, &domain.InstallmentPurchase{
		ID: "p1", Name: "Notebook", TotalAmount: decimal.NewFromInt(120), Installments: 12,
		StartDate: "2026-01", Category: domain.CategoryDebt, CardName: &purchaseCard,
	}); err != nil {
		t.Fatal(err)
	}

	body := `{"renames":{"VISA":"Visa Galicia"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/settings/card-renames", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, userID)

	if err := h.RenameCards(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("Expected status 204, got %d", rec.Code)
	}

	renamed, _ := entryRepo.GetByID(userID, "m1")
	if renamed.CardName == nil || *renamed.CardName != "Visa Galicia" {
		t.Errorf("Expected entry card renamed, got %v", renamed.CardName)
	}
	p, _ := installmentRepo.GetByID(userID, "p1")
	if p.CardName == nil || *p.CardName != "Visa Galicia" {
		t.Errorf("Expected purchase card renamed, got %v", p.CardName)
	}
}

func TestRenameCards_EmptyBody(t *testing.T) {
	e := echo.New()
	h, _, _ := newSettingsFixture()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/settings/card-renames", strings.NewReader(`{"renames":{}}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, uuid.New())

	if err := h.RenameCards(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestGetUsedCards(t *testing.T) {
	e := echo.New()
	h, entryRepo, _ := newSettingsFixture()
	userID := uuid.New()

	card := "AMEX"
	entry := &domain.BudgetEntry{
		ID: "m1", Month: "2026-01", Name: "Ropa", Amount: decimal.NewFromInt(60),
		Category: domain.CategoryVariableExpense, Date: "2026-01-05",
		Status: domain.StatusPaid, PaymentMethod: domain.MethodCredit, CardName: &card,
	}
	if err := entryRepo.Upsert(userID, entry); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/settings/used-cards", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, userID)

	if err := h.GetUsedCards(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var resp UsedCardsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(resp.Cards) != 1 || resp.Cards[0] != "AMEX" {
		t.Errorf("Expected [AMEX], got %v", resp.Cards)
	}
}
