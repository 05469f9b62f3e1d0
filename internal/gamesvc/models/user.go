package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is the authenticated player of a session. Balance is written only by the
// engine ledger once the user has been created.
type User struct {
	UserId    int64           `json:"user_id"`
	Name      string          `json:"name"`
	Avatar    string          `json:"avatar,omitempty"`
	Balance   decimal.Decimal `json:"balance"`
	Status    string          `json:"status,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}
