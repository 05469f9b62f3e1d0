package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// transaction types recorded by the ledger
const (
	TTypeBet     = "bet"
	TTypeCashOut = "cashout"
	TTypePayout  = "payout"
)

// Balance is one journal line of a balance movement. Dr is money credited to the
// user, Cr is money taken from the user.
type Balance struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"user_id"`
	TType     string          `json:"ttype"`
	Dr        decimal.Decimal `json:"dr"`
	Cr        decimal.Decimal `json:"cr"`
	TRef      string          `json:"tref"`
	CreatedAt time.Time       `json:"created_at"`
}
