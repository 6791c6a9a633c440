package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents the kind of change (created, updated, deleted)
type EventType string

const (
	EventTypeCreated EventType = "created"
	EventTypeUpdated EventType = "updated"
	EventTypeDeleted EventType = "deleted"
	EventTypeFunded  EventType = "funded"
)

// EntityType represents the record type the event is about
type EntityType string

const (
	EntityTypeExpense    EntityType = "expense"
	EntityTypeIncome     EntityType = "income"
	EntityTypeGoal       EntityType = "goal"
	EntityTypeBudgetRule EntityType = "budget_rule"
	EntityTypeSettings   EntityType = "settings"
)

// Event is a change notification pushed to connected clients so they can
// recompute their derived views.
// Format: { type, entity, payload, timestamp }
type Event struct {
	Type      string      `json:"type"`      // Combined type e.g. "expense.created"
	Entity    EntityType  `json:"entity"`    // Entity type e.g. "expense"
	Payload   interface{} `json:"payload"`   // Full entity data
	Timestamp time.Time   `json:"timestamp"` // Event timestamp
}

// NewEvent creates a new event with the given type, entity, and payload
func NewEvent(eventType EventType, entityType EntityType, payload interface{}) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// ExpenseCreated creates an expense.created event
func ExpenseCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeExpense, payload)
}

// ExpenseUpdated creates an expense.updated event
func ExpenseUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeExpense, payload)
}

// ExpenseDeleted creates an expense.deleted event
func ExpenseDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeExpense, payload)
}

// IncomeCreated creates an income.created event
func IncomeCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeIncome, payload)
}

// IncomeUpdated creates an income.updated event
func IncomeUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeIncome, payload)
}

// IncomeDeleted creates an income.deleted event
func IncomeDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeIncome, payload)
}

// GoalCreated creates a goal.created event
func GoalCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeGoal, payload)
}

// GoalUpdated creates a goal.updated event
func GoalUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeGoal, payload)
}

// GoalDeleted creates a goal.deleted event
func GoalDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeGoal, payload)
}

// GoalFunded creates a goal.funded event
func GoalFunded(payload interface{}) Event {
	return NewEvent(EventTypeFunded, EntityTypeGoal, payload)
}

// BudgetRuleCreated creates a budget_rule.created event
func BudgetRuleCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeBudgetRule, payload)
}

// BudgetRuleUpdated creates a budget_rule.updated event
func BudgetRuleUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeBudgetRule, payload)
}

// BudgetRuleDeleted creates a budget_rule.deleted event
func BudgetRuleDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeBudgetRule, payload)
}

// SettingsUpdated creates a settings.updated event
func SettingsUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeSettings, payload)
}
