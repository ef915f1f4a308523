package domain

import "github.com/google/uuid"

// Settings holds per-owner configuration: display currency, the tag list per
// category and the configured credit cards.
type Settings struct {
	Currency    string                `json:"currency"`
	UserName    string                `json:"userName"`
	Categories  map[Category][]string `json:"categories"`
	CreditCards []string              `json:"creditCards"`
}

// PredefinedCards lists the card names offered when configuring credit cards.
var PredefinedCards = []string{
	"VISA", "MASTERCARD", "AMERICAN EXPRESS", "CABAL", "NARANJA X",
	"SHOPPING", "CENCOSUD", "ARGENCARD", "365", "MERCADO PAGO", "UALA", "LEMON",
	"TARJETA SOL", "CORDOBESA",
}

// DefaultCategoryTags is the tag suggestion list used until the owner
// customizes their settings.
var DefaultCategoryTags = map[Category][]string{
	CategoryIncome: {"Sueldo", "Aguinaldo", "Extras", "Ventas", "Inversiones", "Regalos"},
	CategoryFixedExpense: {
		"Alquiler / Cuota Préstamo", "Expensas", "Servicios (Luz, Gas, Agua)",
		"Internet", "Teléfono / Celular", "TV / Streaming",
		"Colegio", "Cuota del Auto", "Seguros", "Prepaga / Obra Social",
		"Impuestos", "Gimnasio", "Cochera", "Patente",
	},
	CategoryVariableExpense: {
		"Supermercado", "Comida / Delivery", "Salidas / Ocio", "Transporte / Combustible",
		"Farmacia / Salud", "Ropa", "Mantenimiento Hogar", "Mascotas",
		"Regalos", "Cuidado Personal", "Deportes", "Educación / Cursos",
		"Vacaciones", "Varios",
	},
	CategoryDebt:    {"Préstamo Personal", "Tarjeta de Crédito", "Deuda Familiar"},
	CategorySavings: {"Fondo de Emergencia", "Ahorro Dólares", "Inversiones", "Vacaciones", "Auto Nuevo"},
}

// DefaultSettings returns the settings used before the owner saves any.
func DefaultSettings() *Settings {
	categories := make(map[Category][]string, len(DefaultCategoryTags))
	for cat, tags := range DefaultCategoryTags {
		categories[cat] = append([]string(nil), tags...)
	}
	return &Settings{
		Currency:   "ARS",
		Categories: categories,
	}
}

// SettingsRepository stores per-owner configuration.
type SettingsRepository interface {
	Get(userID uuid.UUID) (*Settings, error)
	Upsert(userID uuid.UUID, settings *Settings) error
}
