package engine

import (
	"context"
	"net/url"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/swaplane/swaplane/provider/wirebit"
)

func requireDecimal(t *testing.T, raw string) decimal.Decimal {
	t.Helper()

	value, err := decimal.NewFromString(raw)
	require.NoError(t, err)

	return value
}

type (
	directionsDelegate func(context.Context) ([]wirebit.Direction, error)
	createBidDelegate  func(context.Context, url.Values) (*wirebit.BidInfo, error)
	bidStatusDelegate  func(context.Context, string) (*wirebit.StatusInfo, error)
	feedDelegate       func(context.Context) ([]wirebit.FeedItem, error)
)

type mockAPI struct {
	directionsFn directionsDelegate
	createBidFn  createBidDelegate
	bidStatusFn  bidStatusDelegate
}

func (m *mockAPI) Directions(ctx context.Context) ([]wirebit.Direction, error) {
	if m.directionsFn != nil {
		return m.directionsFn(ctx)
	}

	return nil, nil
}

func (m *mockAPI) CreateBid(ctx context.Context, form url.Values) (*wirebit.BidInfo, error) {
	if m.createBidFn != nil {
		return m.createBidFn(ctx, form)
	}

	return nil, nil
}

func (m *mockAPI) BidStatus(ctx context.Context, bidID string) (*wirebit.StatusInfo, error) {
	if m.bidStatusFn != nil {
		return m.bidStatusFn(ctx, bidID)
	}

	return nil, nil
}

type mockFeed struct {
	feedFn feedDelegate
}

func (m *mockFeed) Feed(ctx context.Context) ([]wirebit.FeedItem, error) {
	if m.feedFn != nil {
		return m.feedFn(ctx)
	}

	return nil, nil
}
