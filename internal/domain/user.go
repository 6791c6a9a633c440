package domain

import (
	"time"

	"github.com/google/uuid"
)

// AnonymousUserID is the single local scope used when the server runs without
// an identity provider. All records belong to it.
var AnonymousUserID = uuid.Nil

type User struct {
	ID        uuid.UUID `json:"id"`
	Subject   string    `json:"subject"`
	Email     string    `json:"email"`
	Name      *string   `json:"name,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Settings holds per-user preferences. ActiveBudgetRuleID may dangle if the
// referenced rule was removed; readers fall back to the default rule.
type Settings struct {
	UserID             uuid.UUID `json:"userId"`
	Currency           Currency  `json:"currency"`
	ActiveBudgetRuleID string    `json:"activeBudgetRuleId"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// DefaultSettings returns the settings a new user starts with
func DefaultSettings(userID uuid.UUID) *Settings {
	return &Settings{
		UserID:             userID,
		Currency:           DefaultCurrency,
		ActiveBudgetRuleID: DefaultBudgetRuleID,
	}
}

type UserRepository interface {
	GetByID(id uuid.UUID) (*User, error)
	GetBySubject(subject string) (*User, error)
	CreateOrGetBySubject(subject, email string, name *string) (*User, error)
	UpdateName(id uuid.UUID, name string) (*User, error)
}

type SettingsRepository interface {
	Get(userID uuid.UUID) (*Settings, error)
	Save(settings *Settings) (*Settings, error)
}
