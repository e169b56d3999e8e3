package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeStatus is the lifecycle state of a persisted exchange,
// mirroring the provider's own bid states
type ExchangeStatus string

const (
	StatusNew        ExchangeStatus = "new"
	StatusPending    ExchangeStatus = "pending"
	StatusProcessing ExchangeStatus = "processing"
	StatusCompleted  ExchangeStatus = "completed"
	StatusCancelled  ExchangeStatus = "cancelled"
	StatusRejected   ExchangeStatus = "rejected"
)

func (s ExchangeStatus) String() string {
	return string(s)
}

// Terminal reports whether the status can no longer change
func (s ExchangeStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusRejected:
		return true
	default:
		return false
	}
}

// ExchangeRecord is a single submitted exchange, keyed by a locally
// generated identifier. BidID is the provider-side bid identifier
type ExchangeRecord struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id,omitempty"`
	BidID       string          `json:"bid_id"`
	DirectionID string          `json:"direction_id"`
	From        string          `json:"from"`
	To          string          `json:"to"`
	Amount      decimal.Decimal `json:"amount"`
	Rate        decimal.Decimal `json:"rate"`
	Status      ExchangeStatus  `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// HistoryQuery filters the exchange history listing
type HistoryQuery struct {
	Status *ExchangeStatus `json:"status"`
	UserID string          `json:"user_id"`
	Offset int64           `json:"offset"`
	Limit  int32           `json:"limit"`
}

// Page wraps the results for pagination
type Page[T any] struct {
	Results []T   `json:"results"`
	Total   int64 `json:"total"`
}
