package handler

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all API routes. authenticate validates the bearer
// token only, protect additionally resolves the token subject to a user; in
// local mode both stamp the anonymous user onto the request context.
func RegisterRoutes(e *echo.Echo, authenticate echo.MiddlewareFunc, protect echo.MiddlewareFunc, rateLimit echo.MiddlewareFunc, authHandler *AuthHandler, profileHandler *ProfileHandler, expenseHandler *ExpenseHandler, incomeHandler *IncomeHandler, goalHandler *GoalHandler, budgetRuleHandler *BudgetRuleHandler, summaryHandler *SummaryHandler) {
	// API version 1
	api := e.Group("/api/v1")

	// Auth routes (token only, the callback provisions first-time users)
	auth := api.Group("/auth")
	auth.Use(authenticate, rateLimit)
	auth.POST("/callback", authHandler.Callback)
	auth.GET("/me", authHandler.Me)
	auth.POST("/logout", authHandler.Logout)

	// Profile routes (protected)
	profile := api.Group("/profile")
	profile.Use(protect, rateLimit)
	profile.GET("", profileHandler.GetProfile)
	profile.PUT("", profileHandler.UpdateProfile)

	// Supported currencies (public)
	api.GET("/currencies", profileHandler.GetCurrencies)

	// Expense routes (protected)
	expenses := api.Group("/expenses")
	expenses.Use(protect, rateLimit)
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.GET("", expenseHandler.GetExpenses)
	expenses.GET("/:id", expenseHandler.GetExpense)
	expenses.PUT("/:id", expenseHandler.UpdateExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)
	expenses.POST("/:id/receipt", expenseHandler.UploadReceipt)
	expenses.GET("/:id/receipt", expenseHandler.GetReceipt)
	expenses.DELETE("/:id/receipt", expenseHandler.DeleteReceipt)

	// Income routes (protected)
	incomes := api.Group("/incomes")
	incomes.Use(protect, rateLimit)
	incomes.POST("", incomeHandler.CreateIncome)
	incomes.GET("", incomeHandler.GetIncomes)
	incomes.GET("/:id", incomeHandler.GetIncome)
	incomes.PUT("/:id", incomeHandler.UpdateIncome)
	incomes.DELETE("/:id", incomeHandler.DeleteIncome)

	// Goal routes (protected)
	goals := api.Group("/goals")
	goals.Use(protect, rateLimit)
	goals.POST("", goalHandler.CreateGoal)
	goals.GET("", goalHandler.GetGoals)
	goals.GET("/:id", goalHandler.GetGoal)
	goals.PUT("/:id", goalHandler.UpdateGoal)
	goals.DELETE("/:id", goalHandler.DeleteGoal)
	goals.POST("/:id/funds", goalHandler.AddFunds)

	// Budget rule routes (protected). The static segments are registered
	// before the parameterized ones so /active is not captured by /:id.
	rules := api.Group("/budget-rules")
	rules.Use(protect, rateLimit)
	rules.GET("", budgetRuleHandler.GetRules)
	rules.POST("", budgetRuleHandler.CreateRule)
	rules.GET("/active", budgetRuleHandler.GetActiveRule)
	rules.PUT("/active", budgetRuleHandler.SetActiveRule)
	rules.GET("/evaluation", budgetRuleHandler.GetEvaluation)
	rules.GET("/:id", budgetRuleHandler.GetRule)
	rules.PUT("/:id", budgetRuleHandler.UpdateRule)
	rules.DELETE("/:id", budgetRuleHandler.DeleteRule)

	// Summary routes (protected)
	summary := api.Group("/summary")
	summary.Use(protect, rateLimit)
	summary.GET("", summaryHandler.GetSummary)
}
