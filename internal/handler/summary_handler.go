package handler

import (
	"errors"
	"net/http"

	"github.com/centavo-app/centavo-backend/internal/middleware"
	"github.com/centavo-app/centavo-backend/internal/service"
	"github.com/centavo-app/centavo-backend/internal/util"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// SummaryHandler handles dashboard summary HTTP requests
type SummaryHandler struct {
	summaryService *service.SummaryService
}

// NewSummaryHandler creates a new SummaryHandler
func NewSummaryHandler(summaryService *service.SummaryService) *SummaryHandler {
	return &SummaryHandler{summaryService: summaryService}
}

// CategoryBreakdownResponse represents one slice of the expense breakdown
type CategoryBreakdownResponse struct {
	Name    string `json:"name"`
	Amount  string `json:"amount"`
	Percent string `json:"percent"`
	Color   string `json:"color"`
}

// MonthTotalResponse represents one bar of the monthly histogram
type MonthTotalResponse struct {
	Label string `json:"label"`
	Year  int    `json:"year"`
	Month int    `json:"month"`
	Total string `json:"total"`
}

// SummaryResponse represents the dashboard summary payload
type SummaryResponse struct {
	TotalIncome       string                      `json:"totalIncome"`
	TotalExpenses     string                      `json:"totalExpenses"`
	Balance           string                      `json:"balance"`
	CategoryBreakdown []CategoryBreakdownResponse `json:"categoryBreakdown"`
	MonthlyExpenses   []MonthTotalResponse        `json:"monthlyExpenses"`
}

// GetSummary handles GET /api/v1/summary?month=YYYY-MM
func (h *SummaryHandler) GetSummary(c echo.Context) error {
	userID := middleware.GetUserID(c)

	monthKey := c.QueryParam("month")
	if monthKey == "" {
		monthKey = util.MonthKeyAll
	}

	summary, err := h.summaryService.GetSummary(userID, monthKey)
	if err != nil {
		if errors.Is(err, util.ErrInvalidMonthKey) {
			return NewValidationError(c, "Invalid month filter", []ValidationError{
				{Field: "month", Message: "Must be YYYY-MM or 'all'"},
			})
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("month", monthKey).Msg("Failed to build summary")
		return NewInternalError(c, "Failed to build summary")
	}

	breakdown := make([]CategoryBreakdownResponse, len(summary.CategoryBreakdown))
	for i, entry := range summary.CategoryBreakdown {
		breakdown[i] = CategoryBreakdownResponse{
			Name:    entry.Name,
			Amount:  entry.Amount.StringFixed(2),
			Percent: entry.Percent.StringFixed(2),
			Color:   entry.Color,
		}
	}

	histogram := make([]MonthTotalResponse, len(summary.MonthlyExpenses))
	for i, month := range summary.MonthlyExpenses {
		histogram[i] = MonthTotalResponse{
			Label: month.Label,
			Year:  month.Year,
			Month: int(month.Month),
			Total: month.Total.StringFixed(2),
		}
	}

	return c.JSON(http.StatusOK, SummaryResponse{
		TotalIncome:       summary.TotalIncome.StringFixed(2),
		TotalExpenses:     summary.TotalExpenses.StringFixed(2),
		Balance:           summary.Balance.StringFixed(2),
		CategoryBreakdown: breakdown,
		MonthlyExpenses:   histogram,
	})
}
