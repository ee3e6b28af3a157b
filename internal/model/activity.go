package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ActivityAction is the closed set of catalog mutations the audit log records.
type ActivityAction string

const (
	ActionCreate ActivityAction = "CREATE"
	ActionUpdate ActivityAction = "UPDATE"
	ActionDelete ActivityAction = "DELETE"
	ActionSale   ActivityAction = "SALE"
)

// Validate reports whether the action is one of the known values.
func (a ActivityAction) Validate() error {
	switch a {
	case ActionCreate, ActionUpdate, ActionDelete, ActionSale:
		return nil
	default:
		return fmt.Errorf("unknown activity action: %q", a)
	}
}

// Activity is one append-only audit record. ProductName and Category are
// snapshots, not references, so a record stays meaningful after the product
// it describes is deleted. Category and Amount are populated for SALE only.
type Activity struct {
	ID          uuid.UUID      `json:"id"`
	Action      ActivityAction `json:"action"`
	ProductName string         `json:"product_name"`
	Details     string         `json:"details"`
	User        string         `json:"user"`
	Category    *string        `json:"category,omitempty"`
	Amount      *float64       `json:"amount,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}
