package service

import (
	"testing"

	"github.com/mgaray/finanzas/finanzas-backend/internal/domain"
	"github.com/shopspring/decimal"
)

func creditEntry(id, name string, amount int64, category domain.Category, card *string) *domain.BudgetEntry {
	return &domain.BudgetEntry{
		ID:            id,
		Month:         "2026-01",
		Name:          name,
		Amount:        decimal.NewFromInt(amount),
		Category:      category,
		Status:        domain.StatusPending,
		PaymentMethod: domain.MethodCredit,
		CardName:      card,
	}
}

func TestAggregate_GroupsByCardAndCategory(t *testing.T) {
	svc := NewAggregationService()
	entries := []*domain.BudgetEntry{
		creditEntry("a", "Super", 100, domain.CategoryVariableExpense, strPtr("VISA")),
		creditEntry("b", "Nafta", 50, domain.CategoryVariableExpense, strPtr("VISA")),
		creditEntry("c", "Seguro", 30, domain.CategoryFixedExpense, strPtr("VISA")),
		creditEntry("d", "Farmacia", 20, domain.CategoryVariableExpense, strPtr("MASTERCARD")),
	}

	rollups := svc.Aggregate("2026-01", entries, nil, nil)
	if len(rollups) != 3 {
		t.Fatalf("Expected 3 rollups, got %d", len(rollups))
	}

	byID := make(map[string]*domain.BudgetEntry)
	for _, r := range rollups {
		byID[r.ID] = r
	}

	visaVar := byID["card-agg-VISA-Gastos Variables-2026-01"]
	if visaVar == nil {
		t.Fatal("Missing VISA variable-expense rollup")
	}
	if !visaVar.Amount.Equal(decimal.NewFromInt(150)) {
		t.Errorf("Expected VISA variable total 150, got %s", visaVar.Amount)
	}
	if len(visaVar.SubEntries) != 2 {
		t.Errorf("Expected 2 sub-entries, got %d", len(visaVar.SubEntries))
	}
	if visaVar.Name != "Consumo VISA" {
		t.Errorf("Expected name 'Consumo VISA', got %q", visaVar.Name)
	}
	if visaVar.Tag != "Tarjeta de Crédito" {
		t.Errorf("Expected rollup tag, got %q", visaVar.Tag)
	}

	visaFixed := byID["card-agg-VISA-Gastos Fijos-2026-01"]
	if visaFixed == nil {
		t.Fatal("Missing VISA fixed-expense rollup")
	}
	if visaFixed.Name != "Consumo VISA (Fijos)" {
		t.Errorf("Expected fixed-expense suffix, got %q", visaFixed.Name)
	}
}

func TestAggregate_CasingDoesNotSplitCards(t *testing.T) {
	svc := NewAggregationService()
	entries := []*domain.BudgetEntry{
		creditEntry("a", "Super", 100, domain.CategoryVariableExpense, strPtr("Visa")),
		creditEntry("b", "Nafta", 50, domain.CategoryVariableExpense, strPtr("VISA")),
		creditEntry("c", "Kiosco", 25, domain.CategoryVariableExpense, strPtr(" visa ")),
	}

	rollups := svc.Aggregate("2026-01", entries, nil, nil)
	if len(rollups) != 1 {
		t.Fatalf("Expected a single rollup regardless of casing, got %d", len(rollups))
	}
	if !rollups[0].Amount.Equal(decimal.NewFromInt(175)) {
		t.Errorf("Expected total 175, got %s", rollups[0].Amount)
	}
	// First-seen casing is kept for display
	if rollups[0].CardName == nil || *rollups[0].CardName != "Visa" {
		t.Errorf("Expected first-seen casing 'Visa', got %v", rollups[0].CardName)
	}
}

func TestAggregate_IncomeExcludedFromTotal(t *testing.T) {
	svc := NewAggregationService()
	entries := []*domain.BudgetEntry{
		creditEntry("a", "Super", 100, domain.CategoryVariableExpense, strPtr("VISA")),
		creditEntry("b", "Reintegro", 40, domain.CategoryIncome, strPtr("VISA")),
	}

	rollups := svc.Aggregate("2026-01", entries, nil, nil)
	if len(rollups) != 1 {
		t.Fatalf("Expected 1 rollup, got %d", len(rollups))
	}

	r := rollups[0]
	// Income joins the card detail under variable expenses
	if r.Category != domain.CategoryVariableExpense {
		t.Errorf("Expected variable-expense rollup, got %s", r.Category)
	}
	if len(r.SubEntries) != 2 {
		t.Errorf("Expected income member in sub-entries, got %d members", len(r.SubEntries))
	}
	// But its amount does not inflate the total
	if !r.Amount.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Expected total 100 excluding income, got %s", r.Amount)
	}
}

func TestAggregate_DefaultBucket(t *testing.T) {
	svc := NewAggregationService()
	entries := []*domain.BudgetEntry{
		creditEntry("a", "Compra", 80, domain.CategoryVariableExpense, nil),
		creditEntry("b", "Compra 2", 20, domain.CategoryVariableExpense, strPtr("  ")),
	}

	rollups := svc.Aggregate("2026-01", entries, nil, nil)
	if len(rollups) != 1 {
		t.Fatalf("Expected 1 rollup, got %d", len(rollups))
	}
	if rollups[0].Name != "Consumo Tarjeta" {
		t.Errorf("Expected generic name for the default bucket, got %q", rollups[0].Name)
	}
	if rollups[0].CardName == nil || *rollups[0].CardName != DefaultCardBucket {
		t.Errorf("Expected default bucket card name, got %v", rollups[0].CardName)
	}
	if !rollups[0].Amount.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Expected total 100, got %s", rollups[0].Amount)
	}
}

func TestAggregate_SubEntriesSortByRemainingInstallments(t *testing.T) {
	svc := NewAggregationService()

	lastCuota := creditEntry("a", "Casi lista", 10, domain.CategoryVariableExpense, strPtr("VISA"))
	cur, total := 11, 12
	lastCuota.CurrentInstallment, lastCuota.TotalInstallments = &cur, &total

	freshCuota := creditEntry("b", "Recién empieza", 10, domain.CategoryVariableExpense, strPtr("VISA"))
	cur2, total2 := 1, 12
	freshCuota.CurrentInstallment, freshCuota.TotalInstallments = &cur2, &total2

	plain := creditEntry("c", "Sin cuotas", 10, domain.CategoryVariableExpense, strPtr("VISA"))

	rollups := svc.Aggregate("2026-01", []*domain.BudgetEntry{plain, freshCuota, lastCuota}, nil, nil)
	if len(rollups) != 1 {
		t.Fatalf("Expected 1 rollup, got %d", len(rollups))
	}

	subs := rollups[0].SubEntries
	if len(subs) != 3 {
		t.Fatalf("Expected 3 sub-entries, got %d", len(subs))
	}
	if subs[0].ID != "a" || subs[1].ID != "b" || subs[2].ID != "c" {
		t.Errorf("Expected order a, b, c (soonest to finish first), got %s, %s, %s", subs[0].ID, subs[1].ID, subs[2].ID)
	}
}

func TestAggregate_TombstonedRollupSuppressed(t *testing.T) {
	svc := NewAggregationService()
	entries := []*domain.BudgetEntry{
		creditEntry("a", "Super", 100, domain.CategoryVariableExpense, strPtr("VISA")),
		creditEntry("b", "Seguro", 30, domain.CategoryFixedExpense, strPtr("VISA")),
	}

	tombstoned := map[string]bool{
		"card-agg-VISA-Gastos Variables-2026-01": true,
	}

	rollups := svc.Aggregate("2026-01", entries, nil, tombstoned)
	if len(rollups) != 1 {
		t.Fatalf("Expected the tombstoned rollup suppressed, got %d rollups", len(rollups))
	}
	if rollups[0].ID != "card-agg-VISA-Gastos Fijos-2026-01" {
		t.Errorf("Expected only the fixed-expense rollup, got %s", rollups[0].ID)
	}
}

func TestAggregate_SavedOrderRestored(t *testing.T) {
	svc := NewAggregationService()
	entries := []*domain.BudgetEntry{
		creditEntry("a", "Super", 100, domain.CategoryVariableExpense, strPtr("VISA")),
	}

	savedOrders := map[string]int{
		"card-agg-VISA-Gastos Variables-2026-01": 4,
	}

	rollups := svc.Aggregate("2026-01", entries, savedOrders, nil)
	if len(rollups) != 1 {
		t.Fatalf("Expected 1 rollup, got %d", len(rollups))
	}
	if rollups[0].Order == nil || *rollups[0].Order != 4 {
		t.Errorf("Expected saved order 4, got %v", rollups[0].Order)
	}
}

func TestAggregate_DeterministicOrder(t *testing.T) {
	svc := NewAggregationService()
	entries := []*domain.BudgetEntry{
		creditEntry("a", "Z", 10, domain.CategoryVariableExpense, strPtr("ZETA")),
		creditEntry("b", "A", 10, domain.CategoryVariableExpense, strPtr("ALFA")),
	}

	for i := 0; i < 10; i++ {
		rollups := svc.Aggregate("2026-01", entries, nil, nil)
		if len(rollups) != 2 {
			t.Fatalf("Expected 2 rollups, got %d", len(rollups))
		}
		if rollups[0].ID > rollups[1].ID {
			t.Fatal("Expected rollups sorted by group key")
		}
	}
}
