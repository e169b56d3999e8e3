package track

import (
	"context"

	"github.com/swaplane/swaplane/engine"
)

type statusDelegate func(context.Context, string) (*engine.BidStatus, error)

type mockFetcher struct {
	statusFn statusDelegate
}

func (m *mockFetcher) Status(ctx context.Context, bidID string) (*engine.BidStatus, error) {
	if m.statusFn != nil {
		return m.statusFn(ctx, bidID)
	}

	return nil, nil
}
