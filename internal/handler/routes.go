package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/mgaray/finanzas/finanzas-backend/internal/middleware"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, authMiddleware *middleware.TokenAuthMiddleware, rateLimiter *middleware.RateLimiter, budgetHandler *BudgetHandler, entryHandler *EntryHandler, installmentHandler *InstallmentHandler, goalHandler *GoalHandler, settingsHandler *SettingsHandler, wsHandler *WebSocketHandler) {
	// API version 1
	api := e.Group("/api/v1")
	api.Use(authMiddleware.Authenticate())
	api.Use(middleware.RateLimitMiddleware(rateLimiter))

	// Materialized month view and ordering
	months := api.Group("/months")
	months.GET("/:month/budget", budgetHandler.GetBudget)
	months.PUT("/:month/order", budgetHandler.ReorderEntries)

	// Stored entries
	entries := api.Group("/entries")
	entries.GET("", entryHandler.GetEntries)
	entries.POST("", entryHandler.SaveEntry)
	entries.DELETE("/:id", entryHandler.DeleteEntry)

	// Installment catalog
	installments := api.Group("/installments")
	installments.GET("", installmentHandler.GetInstallments)
	installments.POST("", installmentHandler.SaveInstallment)
	installments.DELETE("/:id", installmentHandler.DeleteInstallment)

	// Savings goals
	goals := api.Group("/goals")
	goals.GET("", goalHandler.GetGoals)
	goals.POST("", goalHandler.SaveGoal)
	goals.DELETE("/:id", goalHandler.DeleteGoal)

	// Settings
	settings := api.Group("/settings")
	settings.GET("", settingsHandler.GetSettings)
	settings.PUT("", settingsHandler.UpdateSettings)
	settings.POST("/card-renames", settingsHandler.RenameCards)
	settings.GET("/used-cards", settingsHandler.GetUsedCards)

	// WebSocket endpoint authenticates via query token, outside the group
	e.GET("/ws", wsHandler.HandleWS)
}
