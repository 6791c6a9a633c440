package handler

import (
	"errors"
	"net/http"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/centavo-app/centavo-backend/internal/middleware"
	"github.com/centavo-app/centavo-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ProfileHandler handles profile and settings HTTP requests
type ProfileHandler struct {
	profileService *service.ProfileService
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// UpdateProfileRequest represents the update profile request body
type UpdateProfileRequest struct {
	Name     *string `json:"name,omitempty"`
	Currency *string `json:"currency,omitempty"`
}

// SettingsResponse represents user settings in API responses
type SettingsResponse struct {
	Currency         CurrencyResponse `json:"currency"`
	ActiveBudgetRule string           `json:"activeBudgetRuleId"`
}

// CurrencyResponse represents a currency in API responses
type CurrencyResponse struct {
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// ProfileResponse represents the profile payload
type ProfileResponse struct {
	User     UserResponse     `json:"user"`
	Settings SettingsResponse `json:"settings"`
}

// GetProfile handles GET /api/v1/profile
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	userID := middleware.GetUserID(c)

	profile, err := h.profileService.GetProfile(userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewNotFoundError(c, "User not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get profile")
		return NewInternalError(c, "Failed to get profile")
	}
	return c.JSON(http.StatusOK, toProfileResponse(profile))
}

// UpdateProfile handles PUT /api/v1/profile
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	userID := middleware.GetUserID(c)

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	profile, err := h.profileService.UpdateProfile(userID, service.UpdateProfileInput{
		Name:     req.Name,
		Currency: req.Currency,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNameRequired):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name cannot be empty"},
			})
		case errors.Is(err, domain.ErrInvalidCurrency):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "currency", Message: "Unknown currency code"},
			})
		case errors.Is(err, domain.ErrUserNotFound):
			return NewNotFoundError(c, "User not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to update profile")
		return NewInternalError(c, "Failed to update profile")
	}

	log.Info().Str("user_id", userID.String()).Msg("Profile updated")
	return c.JSON(http.StatusOK, toProfileResponse(profile))
}

// GetCurrencies handles GET /api/v1/currencies
func (h *ProfileHandler) GetCurrencies(c echo.Context) error {
	currencies := h.profileService.GetCurrencies()

	response := make([]CurrencyResponse, len(currencies))
	for i, currency := range currencies {
		response[i] = CurrencyResponse{
			Code:   currency.Code,
			Symbol: currency.Symbol,
			Name:   currency.Name,
		}
	}
	return c.JSON(http.StatusOK, response)
}

func toSettingsResponse(settings *domain.Settings) SettingsResponse {
	return SettingsResponse{
		Currency: CurrencyResponse{
			Code:   settings.Currency.Code,
			Symbol: settings.Currency.Symbol,
			Name:   settings.Currency.Name,
		},
		ActiveBudgetRule: settings.ActiveBudgetRuleID,
	}
}

func toProfileResponse(profile *service.Profile) ProfileResponse {
	return ProfileResponse{
		User: UserResponse{
			ID:    profile.User.ID.String(),
			Email: profile.User.Email,
			Name:  profile.User.Name,
		},
		Settings: toSettingsResponse(profile.Settings),
	}
}
