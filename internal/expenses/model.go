// Package expenses tracks general business expenses outside order flow:
// ads, packaging, storage and similar running costs.
package expenses

import (
	"time"

	"github.com/google/uuid"
)

// Expense is one recorded business expense.
type Expense struct {
	ID        uuid.UUID `json:"id"`
	Category  string    `json:"category"`
	Amount    float64   `json:"amount"`
	Date      time.Time `json:"date"`
	Notes     string    `json:"notes,omitempty"`
	Deleted   bool      `json:"deleted"`
	UpdatedAt time.Time `json:"updated_at"`
}
