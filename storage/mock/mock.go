package mock

import (
	"context"

	"github.com/swaplane/swaplane/storage/types"
)

type (
	SaveExchangeDelegate         func(context.Context, *types.ExchangeRecord) error
	GetExchangeDelegate          func(context.Context, string) (*types.ExchangeRecord, error)
	ListExchangesDelegate        func(context.Context, *types.HistoryQuery) (*types.Page[*types.ExchangeRecord], error)
	UpdateExchangeStatusDelegate func(context.Context, string, types.ExchangeStatus) error
	ListOpenDelegate             func(context.Context) ([]*types.ExchangeRecord, error)
)

type Storage struct {
	SaveExchangeFn         SaveExchangeDelegate
	GetExchangeFn          GetExchangeDelegate
	ListExchangesFn        ListExchangesDelegate
	UpdateExchangeStatusFn UpdateExchangeStatusDelegate
	ListOpenFn             ListOpenDelegate
}

func (m *Storage) SaveExchange(ctx context.Context, record *types.ExchangeRecord) error {
	if m.SaveExchangeFn != nil {
		return m.SaveExchangeFn(ctx, record)
	}

	return nil
}

func (m *Storage) GetExchange(ctx context.Context, id string) (*types.ExchangeRecord, error) {
	if m.GetExchangeFn != nil {
		return m.GetExchangeFn(ctx, id)
	}

	return nil, nil
}

func (m *Storage) ListExchanges(
	ctx context.Context,
	query *types.HistoryQuery,
) (*types.Page[*types.ExchangeRecord], error) {
	if m.ListExchangesFn != nil {
		return m.ListExchangesFn(ctx, query)
	}

	return nil, nil
}

func (m *Storage) UpdateExchangeStatus(
	ctx context.Context,
	id string,
	status types.ExchangeStatus,
) error {
	if m.UpdateExchangeStatusFn != nil {
		return m.UpdateExchangeStatusFn(ctx, id, status)
	}

	return nil
}

func (m *Storage) ListOpen(ctx context.Context) ([]*types.ExchangeRecord, error) {
	if m.ListOpenFn != nil {
		return m.ListOpenFn(ctx)
	}

	return nil, nil
}
