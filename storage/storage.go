package storage

import (
	"context"

	"github.com/swaplane/swaplane/storage/types"
)

// Storage is an abstraction over exchange history data
type Storage interface {
	// SaveExchange saves the given exchange record
	SaveExchange(context.Context, *types.ExchangeRecord) error

	// GetExchange fetches a single exchange by its local identifier.
	// A missing exchange yields a nil record, not an error
	GetExchange(context.Context, string) (*types.ExchangeRecord, error)

	// ListExchanges lists exchanges matching the history query,
	// newest first
	ListExchanges(context.Context, *types.HistoryQuery) (*types.Page[*types.ExchangeRecord], error)

	// UpdateExchangeStatus moves an exchange to the given status
	UpdateExchangeStatus(context.Context, string, types.ExchangeStatus) error

	// ListOpen lists all exchanges that have not reached a terminal status
	ListOpen(context.Context) ([]*types.ExchangeRecord, error)
}
